package app

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/lmoreno/cyclearb/business/arbitrage/domain"
	graphapp "github.com/lmoreno/cyclearb/business/graph/app"
	mdapp "github.com/lmoreno/cyclearb/business/marketdata/app"
	marketdata "github.com/lmoreno/cyclearb/business/marketdata/domain"
	"github.com/lmoreno/cyclearb/internal/apm"
	"github.com/lmoreno/cyclearb/internal/logger"
)

const meterName = "arbitrage.scanner"

// ScannerConfig holds discovery-pass parameters.
type ScannerConfig struct {
	Symbols       []marketdata.Symbol
	StartCurrency marketdata.Currency
	Depth         int // book levels fetched per side
	MaxDepth      int // cycle search bound, in edges
	MinProfit     decimal.Decimal
	ScanInterval  time.Duration
}

// Scanner runs discovery passes: gather a snapshot batch, build the graph,
// enumerate candidate routes, evaluate them and report the profitable
// subset ranked by profit. A pass is atomic over its batch; nothing is
// re-fetched mid-pass, and each pass builds and discards its own graph.
type Scanner struct {
	config    ScannerConfig
	market    *mdapp.MarketDataService
	builder   *graphapp.Builder
	evaluator *Evaluator
	reporters []Reporter
	log       logger.LoggerInterface
	tracer    apm.Tracer

	passCounter metric.Int64Counter
	oppCounter  metric.Int64Counter
}

// NewScanner creates a Scanner.
func NewScanner(
	cfg ScannerConfig,
	market *mdapp.MarketDataService,
	builder *graphapp.Builder,
	evaluator *Evaluator,
	reporters []Reporter,
	log logger.LoggerInterface,
) *Scanner {
	if cfg.ScanInterval <= 0 {
		cfg.ScanInterval = 10 * time.Second
	}

	meter := otel.GetMeterProvider().Meter(meterName)
	passCounter, _ := meter.Int64Counter("discovery_passes_total",
		metric.WithDescription("Total number of discovery passes"))
	oppCounter, _ := meter.Int64Counter("opportunities_found_total",
		metric.WithDescription("Total number of profitable opportunities found"))

	return &Scanner{
		config:      cfg,
		market:      market,
		builder:     builder,
		evaluator:   evaluator,
		reporters:   reporters,
		log:         log,
		tracer:      apm.NewTracer(meterName),
		passCounter: passCounter,
		oppCounter:  oppCounter,
	}
}

// Start runs the scan loop until the context is cancelled. Cancellation is
// pass-granular: a running pass finishes, the next one never starts.
func (s *Scanner) Start(ctx context.Context) error {
	for _, r := range s.reporters {
		if err := r.Start(ctx); err != nil {
			return err
		}
	}

	go s.run(ctx)
	return nil
}

func (s *Scanner) run(ctx context.Context) {
	ticker := time.NewTicker(s.config.ScanInterval)
	defer ticker.Stop()

	s.pass(ctx)

	for {
		select {
		case <-ctx.Done():
			s.log.Info(ctx, "scanner stopping", "reason", ctx.Err())
			return
		case <-ticker.C:
			s.pass(ctx)
		}
	}
}

func (s *Scanner) pass(ctx context.Context) {
	result, err := s.RunPass(ctx)
	if err != nil {
		s.log.Error(ctx, "discovery pass failed", "error", err)
		return
	}

	for _, r := range s.reporters {
		r.ReportPass(ctx, result)
	}
}

// RunPass executes one discovery pass and returns its result with
// opportunities sorted descending by realized profit.
func (s *Scanner) RunPass(ctx context.Context) (PassResult, error) {
	ctx, span := s.tracer.StartSpanFromContext(ctx, "discovery.pass")
	defer span.End()

	started := time.Now()

	tickers := s.market.GatherTickers(ctx, s.config.Symbols)
	spreads := domain.ScanSpreads(tickers)

	snapshots := s.market.GatherSnapshots(ctx, s.config.Symbols, s.config.Depth)
	if len(snapshots) == 0 {
		s.log.Warn(ctx, "no snapshots gathered, skipping pass")
		return PassResult{Timestamp: started, Duration: time.Since(started), Spreads: spreads}, nil
	}

	g := s.builder.Build(ctx, snapshots)

	routes := graphapp.FindCycles(g, s.config.StartCurrency, s.config.MaxDepth)
	routes = append(routes, graphapp.GenerateRoutes(s.config.Symbols, s.config.StartCurrency)...)

	opportunities := make([]domain.Opportunity, 0)
	for _, route := range routes {
		opp, err := s.evaluator.Evaluate(g, route)
		if err != nil {
			return PassResult{}, err
		}
		if opp == nil {
			continue
		}
		if opp.RealizedProfit.LessThan(s.config.MinProfit) {
			continue
		}
		opportunities = append(opportunities, *opp)
	}

	sort.SliceStable(opportunities, func(i, j int) bool {
		return opportunities[i].RealizedProfit.GreaterThan(opportunities[j].RealizedProfit)
	})

	s.passCounter.Add(ctx, 1)
	s.oppCounter.Add(ctx, int64(len(opportunities)),
		metric.WithAttributes(attribute.String("start_currency", string(s.config.StartCurrency))))

	span.SetAttributes(
		attribute.Int("snapshots", len(snapshots)),
		attribute.Int("routes", len(routes)),
		attribute.Int("opportunities", len(opportunities)),
	)

	s.log.Info(ctx, "discovery pass complete",
		"snapshots", len(snapshots),
		"routes", len(routes),
		"opportunities", len(opportunities),
		"duration", time.Since(started).String())

	return PassResult{
		Timestamp:     started,
		Duration:      time.Since(started),
		SnapshotCount: len(snapshots),
		RouteCount:    len(routes),
		Opportunities: opportunities,
		Spreads:       spreads,
	}, nil
}

// Stop shuts down the reporters.
func (s *Scanner) Stop() error {
	var firstErr error
	for _, r := range s.reporters {
		if err := r.Stop(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
