// Package graph implements the conversion-graph bounded context: building
// the per-pass currency graph and enumerating candidate routes through it.
package graph

import (
	"context"

	"github.com/lmoreno/cyclearb/business/graph/app"
	graphDI "github.com/lmoreno/cyclearb/business/graph/di"
	"github.com/lmoreno/cyclearb/internal/config"
	"github.com/lmoreno/cyclearb/internal/di"
	"github.com/lmoreno/cyclearb/internal/logger"
	"github.com/lmoreno/cyclearb/internal/monolith"
)

// Module implements the graph bounded context.
type Module struct{}

// RegisterServices registers graph services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, graphDI.Builder, func(sr di.ServiceRegistry) *app.Builder {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		return app.NewBuilder(app.BuilderConfig{
			NBest:        cfg.Discovery.NBest,
			FeeRate:      cfg.Discovery.FeeRateDecimal(),
			SlippageRate: cfg.Discovery.SlippageRateDecimal(),
		}, log)
	})

	return nil
}

// Startup is a no-op: graphs are built per discovery pass, nothing runs
// continuously.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	mono.Logger().Info(ctx, "graph module started")
	return nil
}
