package app

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lmoreno/cyclearb/business/marketdata/domain"
	"github.com/lmoreno/cyclearb/internal/apperror"
	"github.com/lmoreno/cyclearb/internal/logger"
)

// MarketDataService gathers time-coherent snapshot batches across venues.
// A missing venue or a malformed snapshot is absorbed with a diagnostic:
// the batch is best-effort and a discovery pass runs on whatever arrived.
type MarketDataService struct {
	providers []SnapshotProvider
	log       logger.LoggerInterface

	fetchTimeout time.Duration
	maxParallel  int
}

// NewMarketDataService creates a service over the given venue providers.
func NewMarketDataService(providers []SnapshotProvider, log logger.LoggerInterface, fetchTimeout time.Duration) *MarketDataService {
	if fetchTimeout <= 0 {
		fetchTimeout = 10 * time.Second
	}
	return &MarketDataService{
		providers:    providers,
		log:          log,
		fetchTimeout: fetchTimeout,
		maxParallel:  8,
	}
}

// Providers returns the configured venue providers.
func (s *MarketDataService) Providers() []SnapshotProvider {
	return s.providers
}

// GatherSnapshots fetches order books for every venue x symbol combination
// in parallel and returns the batch that arrived in time. Per-fetch failures
// are logged and skipped, never aborting the batch.
func (s *MarketDataService) GatherSnapshots(ctx context.Context, symbols []domain.Symbol, depth int) []domain.OrderBookSnapshot {
	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	var mu sync.Mutex
	snapshots := make([]domain.OrderBookSnapshot, 0, len(s.providers)*len(symbols))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxParallel)

	for _, provider := range s.providers {
		for _, symbol := range symbols {
			provider, symbol := provider, symbol
			g.Go(func() error {
				snap, err := provider.FetchOrderBook(gctx, symbol, depth)
				if err != nil {
					s.log.Warn(gctx, "orderbook fetch failed, skipping",
						"exchange", provider.Name(),
						"symbol", symbol.String(),
						"code", apperror.GetCode(err),
						"error", err)
					return nil
				}

				if err := snap.Validate(); err != nil {
					s.log.Warn(gctx, "malformed snapshot dropped",
						"exchange", provider.Name(),
						"symbol", symbol.String(),
						"error", err)
					return nil
				}

				mu.Lock()
				snapshots = append(snapshots, *snap)
				mu.Unlock()
				return nil
			})
		}
	}

	g.Wait()

	return snapshots
}

// GatherTickers fetches best bid/ask quotes for every venue x symbol
// combination, with the same best-effort semantics as GatherSnapshots.
func (s *MarketDataService) GatherTickers(ctx context.Context, symbols []domain.Symbol) []domain.Ticker {
	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	var mu sync.Mutex
	tickers := make([]domain.Ticker, 0, len(s.providers)*len(symbols))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxParallel)

	for _, provider := range s.providers {
		for _, symbol := range symbols {
			provider, symbol := provider, symbol
			g.Go(func() error {
				ticker, err := provider.FetchTicker(gctx, symbol)
				if err != nil {
					s.log.Warn(gctx, "ticker fetch failed, skipping",
						"exchange", provider.Name(),
						"symbol", symbol.String(),
						"code", apperror.GetCode(err),
						"error", err)
					return nil
				}

				mu.Lock()
				tickers = append(tickers, *ticker)
				mu.Unlock()
				return nil
			})
		}
	}

	g.Wait()

	return tickers
}
