package rest

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lmoreno/cyclearb/business/marketdata/domain"
	"github.com/lmoreno/cyclearb/internal/apperror"
	"github.com/lmoreno/cyclearb/internal/circuitbreaker"
	"github.com/lmoreno/cyclearb/internal/httpclient"
	"github.com/lmoreno/cyclearb/internal/logger"
	"github.com/lmoreno/cyclearb/internal/ratelimit"
)

const (
	kucoinDefaultBaseURL = "https://api.kucoin.com"
	kucoinSuccessCode    = "200000"
)

// KucoinProvider serves order books and tickers from the KuCoin REST API.
type KucoinProvider struct {
	name    string
	client  httpclient.Client
	limiter *ratelimit.Limiter
	breaker *circuitbreaker.Breaker[*httpclient.Response]
	log     logger.LoggerInterface
}

// KucoinConfig holds provider settings.
type KucoinConfig struct {
	Name           string
	BaseURL        string
	RequestsPerMin int
}

// NewKucoinProvider creates a KuCoin REST adapter.
func NewKucoinProvider(cfg KucoinConfig, log logger.LoggerInterface) (*KucoinProvider, error) {
	name := cfg.Name
	if name == "" {
		name = "kucoin"
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = kucoinDefaultBaseURL
	}
	requestsPerMin := cfg.RequestsPerMin
	if requestsPerMin <= 0 {
		requestsPerMin = 600
	}

	client, err := httpclient.NewInstrumentedClient(
		httpclient.WithVenueName(name),
		httpclient.WithBaseURL(baseURL),
		httpclient.WithRequestTimeout(10*time.Second),
	)
	if err != nil {
		return nil, err
	}

	return &KucoinProvider{
		name:    name,
		client:  client,
		limiter: ratelimit.New(requestsPerMin),
		breaker: circuitbreaker.New[*httpclient.Response](circuitbreaker.DefaultConfig(name)),
		log:     log,
	}, nil
}

// Name returns the exchange identifier.
func (p *KucoinProvider) Name() string {
	return p.name
}

// FetchOrderBook retrieves the top 100 levels of depth for a symbol. KuCoin
// has no per-request depth parameter at this tier, so truncation to the
// requested depth happens client-side.
func (p *KucoinProvider) FetchOrderBook(ctx context.Context, symbol domain.Symbol, depth int) (*domain.OrderBookSnapshot, error) {
	var payload kucoinEnvelope[kucoinOrderBookData]

	resp, err := p.get(ctx, "/api/v1/market/orderbook/level2_100", map[string]string{
		"symbol": kucoinSymbol(symbol),
	}, &payload)
	if err != nil {
		return nil, apperror.External(apperror.CodeOrderbookFetchFailed, symbol.String(), err)
	}
	if resp.IsError() || payload.Code != kucoinSuccessCode {
		return nil, apperror.External(apperror.CodeExchangeUnavailable,
			fmt.Sprintf("%s %s: code=%s %s", p.name, symbol, payload.Code, payload.Msg), nil)
	}

	bids, err := parseLevels(payload.Data.Bids)
	if err != nil {
		return nil, apperror.Internal(apperror.CodeMalformedSnapshot, symbol.String(), err)
	}
	asks, err := parseLevels(payload.Data.Asks)
	if err != nil {
		return nil, apperror.Internal(apperror.CodeMalformedSnapshot, symbol.String(), err)
	}

	if depth > 0 {
		if len(bids) > depth {
			bids = bids[:depth]
		}
		if len(asks) > depth {
			asks = asks[:depth]
		}
	}

	return &domain.OrderBookSnapshot{
		Exchange:  p.name,
		Symbol:    symbol,
		Bids:      bids,
		Asks:      asks,
		Timestamp: time.UnixMilli(payload.Data.Time).UTC(),
	}, nil
}

// FetchTicker retrieves the best bid/ask quote for a symbol.
func (p *KucoinProvider) FetchTicker(ctx context.Context, symbol domain.Symbol) (*domain.Ticker, error) {
	var payload kucoinEnvelope[kucoinLevel1Data]

	resp, err := p.get(ctx, "/api/v1/market/orderbook/level1", map[string]string{
		"symbol": kucoinSymbol(symbol),
	}, &payload)
	if err != nil {
		return nil, apperror.External(apperror.CodeTickerFetchFailed, symbol.String(), err)
	}
	if resp.IsError() || payload.Code != kucoinSuccessCode {
		return nil, apperror.External(apperror.CodeExchangeUnavailable,
			fmt.Sprintf("%s %s: code=%s %s", p.name, symbol, payload.Code, payload.Msg), nil)
	}

	bid, err1 := decimal.NewFromString(payload.Data.BestBid)
	ask, err2 := decimal.NewFromString(payload.Data.BestAsk)
	bidSize, err3 := decimal.NewFromString(payload.Data.BestBidSize)
	askSize, err4 := decimal.NewFromString(payload.Data.BestAskSize)
	for _, err := range []error{err1, err2, err3, err4} {
		if err != nil {
			return nil, apperror.Internal(apperror.CodeTickerFetchFailed, symbol.String(), err)
		}
	}

	return &domain.Ticker{
		Exchange:  p.name,
		Symbol:    symbol,
		Bid:       bid,
		Ask:       ask,
		BidSize:   bidSize,
		AskSize:   askSize,
		Timestamp: time.UnixMilli(payload.Data.Time).UTC(),
	}, nil
}

func (p *KucoinProvider) get(ctx context.Context, path string, params map[string]string, result any) (*httpclient.Response, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	return p.breaker.Execute(func() (*httpclient.Response, error) {
		return p.client.NewRequest().
			SetQueryParams(params).
			SetResult(result).
			Get(ctx, path)
	})
}

// kucoinSymbol renders "BTC/USDT" as "BTC-USDT".
func kucoinSymbol(s domain.Symbol) string {
	return string(s.Base) + "-" + string(s.Quote)
}
