// Package infra contains infrastructure adapters for the arbitrage context.
package infra

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/lmoreno/cyclearb/business/arbitrage/app"
)

const rule = "================================================================================"
const thinRule = "--------------------------------------------------------------------------------"

// ConsoleReporter implements Reporter for CLI output.
type ConsoleReporter struct {
	out io.Writer
}

// NewConsoleReporter creates a new ConsoleReporter writing to stdout.
func NewConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{
		out: os.Stdout,
	}
}

// Start initializes the console reporter.
func (r *ConsoleReporter) Start(ctx context.Context) error {
	fmt.Fprintln(r.out, "Arbitrage Scanner Started")
	fmt.Fprintln(r.out, "=========================")
	return nil
}

// ReportPass prints a pass summary and any opportunities found.
func (r *ConsoleReporter) ReportPass(ctx context.Context, result app.PassResult) {
	fmt.Fprintf(r.out, "[%s] pass: %d snapshots, %d routes, %d opportunities (%s)\n",
		result.Timestamp.Format("15:04:05"),
		result.SnapshotCount,
		result.RouteCount,
		len(result.Opportunities),
		result.Duration.Round(time.Millisecond))

	for i := range result.Opportunities {
		opp := &result.Opportunities[i]

		fmt.Fprintln(r.out, "")
		fmt.Fprintln(r.out, rule)
		fmt.Fprintln(r.out, "ARBITRAGE OPPORTUNITY")
		fmt.Fprintln(r.out, rule)
		fmt.Fprintf(r.out, "Path:           %s\n", opp.Path())
		fmt.Fprintf(r.out, "Timestamp:      %s\n", opp.Timestamp.Format(time.RFC3339))
		fmt.Fprintln(r.out, thinRule)
		fmt.Fprintln(r.out, "LEGS")
		for i, trade := range opp.Trades {
			fmt.Fprintf(r.out, "  %d. %s (size %s)\n", i+1, trade.String(), trade.Amount)
		}
		fmt.Fprintln(r.out, thinRule)
		// The bottleneck is sized in the limiting leg's base units, not the
	// start currency.
	fmt.Fprintf(r.out, "Bottleneck:     %s (limiting leg base)\n", opp.BottleneckAmount)
		fmt.Fprintf(r.out, "Profit:         %s %s\n", opp.DisplayProfit().StringFixed(2), opp.ProfitCurrency)
		fmt.Fprintln(r.out, rule)
	}
}

// Stop gracefully shuts down the console reporter.
func (r *ConsoleReporter) Stop() error {
	fmt.Fprintln(r.out, "")
	fmt.Fprintln(r.out, "Arbitrage Scanner Stopped")
	return nil
}
