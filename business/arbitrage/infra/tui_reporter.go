package infra

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lmoreno/cyclearb/business/arbitrage/app"
	"github.com/lmoreno/cyclearb/pkg/ui"
)

// TUIReporter implements Reporter by forwarding pass results to the Bubble
// Tea program as messages. The program is attached after construction
// because the TUI owns the main goroutine once it starts.
type TUIReporter struct {
	mu      sync.RWMutex
	program *tea.Program
}

// NewTUIReporter creates a new TUIReporter.
func NewTUIReporter() *TUIReporter {
	return &TUIReporter{}
}

// SetProgram attaches the running Bubble Tea program.
func (r *TUIReporter) SetProgram(p *tea.Program) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

// Start initializes the TUI reporter.
func (r *TUIReporter) Start(ctx context.Context) error {
	return nil
}

// ReportPass sends the pass result to the TUI.
func (r *TUIReporter) ReportPass(ctx context.Context, result app.PassResult) {
	r.mu.RLock()
	program := r.program
	r.mu.RUnlock()

	if program == nil {
		return
	}
	program.Send(ui.PassResultMsg{Result: result})
}

// Stop gracefully shuts down the TUI reporter.
func (r *TUIReporter) Stop() error {
	return nil
}
