// Package app contains application services and port definitions for the
// market-data context.
package app

import (
	"context"

	"github.com/lmoreno/cyclearb/business/marketdata/domain"
)

// SnapshotProvider is the port implemented by venue adapters. A provider
// serves order-book depth and ticker quotes for one exchange.
type SnapshotProvider interface {
	// Name returns the exchange identifier (e.g. "binance").
	Name() string

	// FetchOrderBook retrieves the current order book for a symbol,
	// truncated to at most depth levels per side.
	FetchOrderBook(ctx context.Context, symbol domain.Symbol, depth int) (*domain.OrderBookSnapshot, error)

	// FetchTicker retrieves the best bid/ask quote for a symbol.
	FetchTicker(ctx context.Context, symbol domain.Symbol) (*domain.Ticker, error)
}
