package rest

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lmoreno/cyclearb/business/marketdata/domain"
	"github.com/lmoreno/cyclearb/internal/apperror"
	"github.com/lmoreno/cyclearb/internal/circuitbreaker"
	"github.com/lmoreno/cyclearb/internal/httpclient"
	"github.com/lmoreno/cyclearb/internal/logger"
	"github.com/lmoreno/cyclearb/internal/ratelimit"
)

const binanceDefaultBaseURL = "https://api.binance.com"

// Binance depth endpoint accepts only these limits.
var binanceDepthLimits = []int{5, 10, 20, 50, 100, 500, 1000, 5000}

// BinanceProvider serves order books and tickers from the Binance REST API.
type BinanceProvider struct {
	name    string
	client  httpclient.Client
	limiter *ratelimit.Limiter
	breaker *circuitbreaker.Breaker[*httpclient.Response]
	log     logger.LoggerInterface
}

// BinanceConfig holds provider settings.
type BinanceConfig struct {
	Name           string
	BaseURL        string
	RequestsPerMin int
}

// NewBinanceProvider creates a Binance REST adapter.
func NewBinanceProvider(cfg BinanceConfig, log logger.LoggerInterface) (*BinanceProvider, error) {
	name := cfg.Name
	if name == "" {
		name = "binance"
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = binanceDefaultBaseURL
	}
	requestsPerMin := cfg.RequestsPerMin
	if requestsPerMin <= 0 {
		requestsPerMin = 1200
	}

	client, err := httpclient.NewInstrumentedClient(
		httpclient.WithVenueName(name),
		httpclient.WithBaseURL(baseURL),
		httpclient.WithRequestTimeout(10*time.Second),
	)
	if err != nil {
		return nil, err
	}

	return &BinanceProvider{
		name:    name,
		client:  client,
		limiter: ratelimit.New(requestsPerMin),
		breaker: circuitbreaker.New[*httpclient.Response](circuitbreaker.DefaultConfig(name)),
		log:     log,
	}, nil
}

// Name returns the exchange identifier.
func (p *BinanceProvider) Name() string {
	return p.name
}

// FetchOrderBook retrieves depth for a symbol, truncated to the nearest
// supported Binance depth limit at or above the requested one.
func (p *BinanceProvider) FetchOrderBook(ctx context.Context, symbol domain.Symbol, depth int) (*domain.OrderBookSnapshot, error) {
	var payload binanceDepthResponse

	resp, err := p.get(ctx, "/api/v3/depth", map[string]string{
		"symbol": binanceSymbol(symbol),
		"limit":  strconv.Itoa(binanceDepthLimit(depth)),
	}, &payload)
	if err != nil {
		return nil, apperror.External(apperror.CodeOrderbookFetchFailed, symbol.String(), err)
	}
	if resp.IsError() {
		return nil, apperror.External(apperror.CodeExchangeUnavailable,
			fmt.Sprintf("%s %s: %s", p.name, symbol, resp.Status), nil)
	}

	bids, err := parseLevels(payload.Bids)
	if err != nil {
		return nil, apperror.Internal(apperror.CodeMalformedSnapshot, symbol.String(), err)
	}
	asks, err := parseLevels(payload.Asks)
	if err != nil {
		return nil, apperror.Internal(apperror.CodeMalformedSnapshot, symbol.String(), err)
	}

	return &domain.OrderBookSnapshot{
		Exchange:  p.name,
		Symbol:    symbol,
		Bids:      bids,
		Asks:      asks,
		Timestamp: time.Now().UTC(),
	}, nil
}

// FetchTicker retrieves the best bid/ask quote for a symbol.
func (p *BinanceProvider) FetchTicker(ctx context.Context, symbol domain.Symbol) (*domain.Ticker, error) {
	var payload binanceBookTickerResponse

	resp, err := p.get(ctx, "/api/v3/ticker/bookTicker", map[string]string{
		"symbol": binanceSymbol(symbol),
	}, &payload)
	if err != nil {
		return nil, apperror.External(apperror.CodeTickerFetchFailed, symbol.String(), err)
	}
	if resp.IsError() {
		return nil, apperror.External(apperror.CodeExchangeUnavailable,
			fmt.Sprintf("%s %s: %s", p.name, symbol, resp.Status), nil)
	}

	bid, err1 := decimal.NewFromString(payload.BidPrice)
	ask, err2 := decimal.NewFromString(payload.AskPrice)
	bidSize, err3 := decimal.NewFromString(payload.BidQty)
	askSize, err4 := decimal.NewFromString(payload.AskQty)
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
		Timestamp: time.Now().UTC(),
	}, nil
}

func (p *BinanceProvider) get(ctx context.Context, path string, params map[string]string, result any) (*httpclient.Response, error) {
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

// binanceSymbol renders "BTC/USDT" as "BTCUSDT".
func binanceSymbol(s domain.Symbol) string {
	return string(s.Base) + string(s.Quote)
}

func binanceDepthLimit(depth int) int {
	for _, limit := range binanceDepthLimits {
		if depth <= limit {
			return limit
		}
	}
	return binanceDepthLimits[len(binanceDepthLimits)-1]
}
