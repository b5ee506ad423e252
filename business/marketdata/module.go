// Package marketdata implements the market-data bounded context: venue
// adapters and the batch-gathering service that feeds discovery passes.
package marketdata

import (
	"context"
	"time"

	"github.com/lmoreno/cyclearb/business/marketdata/app"
	mdDI "github.com/lmoreno/cyclearb/business/marketdata/di"
	"github.com/lmoreno/cyclearb/business/marketdata/domain"
	"github.com/lmoreno/cyclearb/business/marketdata/infra/rest"
	"github.com/lmoreno/cyclearb/business/marketdata/infra/stream"
	"github.com/lmoreno/cyclearb/internal/config"
	"github.com/lmoreno/cyclearb/internal/di"
	"github.com/lmoreno/cyclearb/internal/logger"
	"github.com/lmoreno/cyclearb/internal/monolith"
)

// Module implements the market-data bounded context.
type Module struct{}

// RegisterServices registers all market-data services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, mdDI.Providers, func(sr di.ServiceRegistry) []app.SnapshotProvider {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		providers := make([]app.SnapshotProvider, 0, len(cfg.Exchanges))
		for _, ex := range cfg.Exchanges {
			provider, err := buildProvider(ex, cfg, log)
			if err != nil {
				panic("failed to create provider " + ex.ID + ": " + err.Error())
			}
			providers = append(providers, provider)
		}
		return providers
	})

	di.RegisterToken(c, mdDI.MarketDataService, func(sr di.ServiceRegistry) *app.MarketDataService {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		providers := mdDI.GetProviders(sr)
		return app.NewMarketDataService(providers, log, cfg.Market.FetchTimeout)
	})

	return nil
}

// Startup connects stream-backed providers. REST providers need no warm-up.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()
	cfg := mono.Services().Get("config").(*config.Config)

	registry := mono.AssetRegistry()
	for _, sym := range parseSymbols(cfg.Market.Symbols) {
		for _, currency := range []domain.Currency{sym.Base, sym.Quote} {
			if _, ok := registry.Resolve(string(currency)); !ok {
				log.Warn(ctx, "configured currency not in asset registry",
					"currency", string(currency))
			}
		}
	}

	for _, provider := range mdDI.GetProviders(mono.Services()) {
		connector, ok := provider.(interface{ Connect(context.Context) error })
		if !ok {
			continue
		}

		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err := connector.Connect(connectCtx)
		cancel()
		if err != nil {
			log.Warn(ctx, "stream connection failed, venue will be absent until it recovers",
				"exchange", provider.Name(), "error", err)
		}
	}

	log.Info(ctx, "marketdata module started")
	return nil
}

// buildProvider constructs the adapter matching a venue's API shape.
func buildProvider(ex config.ExchangeConfig, cfg *config.Config, log logger.LoggerInterface) (app.SnapshotProvider, error) {
	switch ex.Kind {
	case "binance":
		if cfg.Market.UseStreams && ex.WebSocketURL != "" {
			return stream.NewBinanceStream(stream.Config{
				Name:         ex.ID,
				WebSocketURL: ex.WebSocketURL,
				Symbols:      parseSymbols(cfg.Market.Symbols),
				StaleTimeout: cfg.Market.StaleTimeout,
			}, log), nil
		}
		return rest.NewBinanceProvider(rest.BinanceConfig{
			Name:           ex.ID,
			BaseURL:        ex.BaseURL,
			RequestsPerMin: ex.RequestsPerMin,
		}, log)
	case "kucoin":
		return rest.NewKucoinProvider(rest.KucoinConfig{
			Name:           ex.ID,
			BaseURL:        ex.BaseURL,
			RequestsPerMin: ex.RequestsPerMin,
		}, log)
	default:
		return rest.NewBinanceProvider(rest.BinanceConfig{
			Name:           ex.ID,
			BaseURL:        ex.BaseURL,
			RequestsPerMin: ex.RequestsPerMin,
		}, log)
	}
}

func parseSymbols(raw []string) []domain.Symbol {
	symbols := make([]domain.Symbol, 0, len(raw))
	for _, s := range raw {
		sym, err := domain.ParseSymbol(s)
		if err != nil {
			continue
		}
		symbols = append(symbols, sym)
	}
	return symbols
}
