// Package main is the entry point for the cycle arbitrage scanner.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/lmoreno/cyclearb/business/arbitrage"
	arbitrageApp "github.com/lmoreno/cyclearb/business/arbitrage/app"
	arbitrageDI "github.com/lmoreno/cyclearb/business/arbitrage/di"
	arbitrageInfra "github.com/lmoreno/cyclearb/business/arbitrage/infra"
	"github.com/lmoreno/cyclearb/business/graph"
	"github.com/lmoreno/cyclearb/business/marketdata"
	"github.com/lmoreno/cyclearb/internal/apm"
	"github.com/lmoreno/cyclearb/internal/config"
	"github.com/lmoreno/cyclearb/internal/health"
	"github.com/lmoreno/cyclearb/internal/logger"
	"github.com/lmoreno/cyclearb/internal/metrics"
	"github.com/lmoreno/cyclearb/internal/monolith"
	"github.com/lmoreno/cyclearb/pkg/ui"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to configuration file")
	tuiFlag := flag.Bool("tui", false, "Run with the interactive dashboard instead of log output")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("cyclearb %s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		if !*tuiFlag {
			fmt.Fprintf(os.Stderr, "received shutdown signal: %v\n", sig)
		}
		cancel()
	}()

	if err := run(ctx, *configPath, *tuiFlag); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, tuiMode bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Modules pick reporters based on this
	cfg.Discovery.TUIMode = tuiMode

	logLevel := logger.LevelInfo
	switch cfg.App.LogLevel {
	case "debug":
		logLevel = logger.LevelDebug
	case "warn":
		logLevel = logger.LevelWarn
	case "error":
		logLevel = logger.LevelError
	}

	var log *logger.Logger
	if tuiMode {
		// In TUI mode, suppress logs (discard output)
		log = logger.New(io.Discard, logLevel, cfg.App.Name, apm.TraceID)
	} else {
		log = logger.New(os.Stderr, logLevel, cfg.App.Name, apm.TraceID)
		log.Info(ctx, "starting cycle arbitrage scanner",
			"version", version,
			"environment", cfg.App.Environment,
		)
	}

	var traceProvider apm.TraceProvider
	if cfg.Telemetry.Enabled {
		if cfg.Telemetry.ServiceName != "" {
			os.Setenv("OTEL_SERVICE_NAME", cfg.Telemetry.ServiceName)
		}
		if cfg.Telemetry.OTLPEndpoint != "" {
			os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Telemetry.OTLPEndpoint)
		}

		traceProvider = apm.NewTraceProvider(log, apm.WithProvider(apm.OtlpGRPCProvider, log))
		log.Info(ctx, "tracing initialized", "endpoint", cfg.Telemetry.OTLPEndpoint)

		metrics.NewMetricProvider(
			metrics.WithServiceName(cfg.Telemetry.ServiceName),
			metrics.WithProviderConfig(metrics.ProviderCfg{
				Provider: metrics.PrometheusProvider,
			}),
		)

		port := cfg.Telemetry.PrometheusPort
		if port == 0 {
			port = 9090
		}
		go metrics.ServePrometheusMetrics(metrics.WithPort(strconv.Itoa(port)))
		log.Info(ctx, "prometheus metrics server started", "port", port)
	}
	defer func() {
		if traceProvider != nil {
			traceProvider.Stop()
		}
	}()

	healthServer := health.NewServer(8081, version)
	if err := healthServer.Start(); err != nil {
		log.Warn(ctx, "failed to start health server", "error", err)
	} else {
		log.Info(ctx, "health server started", "port", 8081)
	}
	defer healthServer.Stop(ctx)

	mono, err := monolith.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create monolith: %w", err)
	}
	defer mono.Close()

	// Modules in dependency order
	modules := []monolith.Module{
		&marketdata.Module{},
		&graph.Module{},
		&arbitrage.Module{},
	}

	if err := mono.RegisterModules(modules...); err != nil {
		return fmt.Errorf("failed to register modules: %w", err)
	}

	if tuiMode {
		startFunc := func() error {
			if err := mono.StartModules(ctx, modules...); err != nil {
				return fmt.Errorf("failed to start modules: %w", err)
			}
			return nil
		}
		stopFunc := func() error {
			return arbitrageDI.GetScanner(mono.Services()).Stop()
		}
		return runTUI(ctx, arbitrageDI.GetReporters(mono.Services()), startFunc, stopFunc)
	}

	if err := mono.StartModules(ctx, modules...); err != nil {
		return fmt.Errorf("failed to start modules: %w", err)
	}

	scanner := arbitrageDI.GetScanner(mono.Services())
	return runCLI(ctx, scanner, log)
}

func runCLI(ctx context.Context, scanner *arbitrageApp.Scanner, log *logger.Logger) error {
	log.Info(ctx, "all modules started, scanning for opportunities")

	<-ctx.Done()

	log.Info(ctx, "shutting down")

	if err := scanner.Stop(); err != nil {
		log.Error(ctx, "error stopping scanner", "error", err)
	}

	return nil
}

func runTUI(ctx context.Context, reporters []arbitrageApp.Reporter, startFunc func() error, stopFunc func() error) error {
	p := tea.NewProgram(ui.New(), tea.WithAltScreen())

	// Hand the program to the TUI reporter before the scanner starts
	for _, r := range reporters {
		if tr, ok := r.(*arbitrageInfra.TUIReporter); ok {
			tr.SetProgram(p)
		}
	}

	errCh := make(chan error, 1)
	go func() {
		if err := startFunc(); err != nil {
			p.Send(ui.ErrorMsg{Error: err})
			errCh <- err
			return
		}

		<-ctx.Done()

		errCh <- stopFunc()
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	select {
	case err := <-errCh:
		return err
	default:
		return nil
	}
}
