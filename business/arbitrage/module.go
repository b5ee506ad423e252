// Package arbitrage implements the opportunity-discovery bounded context:
// evaluating candidate routes and running the periodic scan loop.
package arbitrage

import (
	"context"

	"github.com/lmoreno/cyclearb/business/arbitrage/app"
	arbDI "github.com/lmoreno/cyclearb/business/arbitrage/di"
	"github.com/lmoreno/cyclearb/business/arbitrage/infra"
	graphDI "github.com/lmoreno/cyclearb/business/graph/di"
	mdDI "github.com/lmoreno/cyclearb/business/marketdata/di"
	marketdata "github.com/lmoreno/cyclearb/business/marketdata/domain"
	"github.com/lmoreno/cyclearb/internal/config"
	"github.com/lmoreno/cyclearb/internal/di"
	"github.com/lmoreno/cyclearb/internal/logger"
	"github.com/lmoreno/cyclearb/internal/monolith"
)

// RecordPath is where opportunity records are appended.
const RecordPath = "opportunities.jsonl"

// Module implements the arbitrage bounded context.
type Module struct{}

// RegisterServices registers all arbitrage services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, arbDI.Evaluator, func(sr di.ServiceRegistry) *app.Evaluator {
		return app.NewEvaluator()
	})

	di.RegisterToken(c, arbDI.Reporters, func(sr di.ServiceRegistry) []app.Reporter {
		cfg := sr.Get("config").(*config.Config)

		reporters := []app.Reporter{
			infra.NewRecordReporter(RecordPath),
		}
		if cfg.Discovery.TUIMode {
			reporters = append(reporters, infra.NewTUIReporter())
		} else {
			reporters = append(reporters, infra.NewConsoleReporter())
		}
		return reporters
	})

	di.RegisterToken(c, arbDI.Scanner, func(sr di.ServiceRegistry) *app.Scanner {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		symbols := make([]marketdata.Symbol, 0, len(cfg.Market.Symbols))
		for _, raw := range cfg.Market.Symbols {
			sym, err := marketdata.ParseSymbol(raw)
			if err != nil {
				panic("invalid symbol in config: " + raw)
			}
			symbols = append(symbols, sym)
		}

		return app.NewScanner(
			app.ScannerConfig{
				Symbols:       symbols,
				StartCurrency: marketdata.Currency(cfg.Discovery.StartCurrency),
				Depth:         cfg.Market.Depth,
				MaxDepth:      cfg.Discovery.MaxDepth,
				MinProfit:     cfg.Discovery.MinProfitDecimal(),
				ScanInterval:  cfg.Discovery.ScanInterval,
			},
			mdDI.GetMarketDataService(sr),
			graphDI.GetBuilder(sr),
			arbDI.GetEvaluator(sr),
			arbDI.GetReporters(sr),
			log,
		)
	})

	return nil
}

// Startup starts the scan loop.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	scanner := arbDI.GetScanner(mono.Services())
	if err := scanner.Start(ctx); err != nil {
		return err
	}

	mono.Logger().Info(ctx, "arbitrage module started")
	return nil
}
