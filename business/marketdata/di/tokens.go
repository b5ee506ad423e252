// Package di contains dependency injection tokens for the market-data context.
package di

import (
	"github.com/lmoreno/cyclearb/business/marketdata/app"
	"github.com/lmoreno/cyclearb/internal/di"
)

// Public service tokens - exposed to other modules
var (
	MarketDataService = di.NewToken[*app.MarketDataService]("marketdata.MarketDataService")
)

// Private dependency tokens - internal to the market-data module
var (
	Providers = di.NewToken[[]app.SnapshotProvider]("marketdata:providers")
)

// GetMarketDataService resolves the market-data service.
func GetMarketDataService(c di.ServiceRegistry) *app.MarketDataService {
	return di.GetToken(c, MarketDataService)
}

// GetProviders resolves the configured venue providers.
func GetProviders(c di.ServiceRegistry) []app.SnapshotProvider {
	return di.GetToken(c, Providers)
}
