package app

import (
	"context"
	"time"

	"github.com/lmoreno/cyclearb/business/arbitrage/domain"
)

// PassResult is the outcome of one discovery pass, handed to reporters.
type PassResult struct {
	Timestamp     time.Time
	Duration      time.Duration
	SnapshotCount int
	RouteCount    int
	Opportunities []domain.Opportunity
	Spreads       []domain.CrossVenueSpread
}

// Reporter is the port implemented by output adapters: console, TUI, and
// the record file.
type Reporter interface {
	// Start initializes the reporter.
	Start(ctx context.Context) error

	// ReportPass delivers the result of one discovery pass.
	ReportPass(ctx context.Context, result PassResult)

	// Stop gracefully shuts down the reporter.
	Stop() error
}
