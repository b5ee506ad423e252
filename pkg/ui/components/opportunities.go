// Package components provides reusable TUI components.
package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// OpportunityRow represents an opportunity in the list.
type OpportunityRow struct {
	Time     string
	Path     string
	Legs     int
	Kind     string
	Profit   decimal.Decimal
	Currency string
}

// OpportunitiesComponent renders the opportunities list with a scroll
// window over the most recent rows.
type OpportunitiesComponent struct {
	rows    []OpportunityRow
	maxRows int
	offset  int
	visible int
}

// NewOpportunitiesComponent creates a new opportunities component.
func NewOpportunitiesComponent(maxRows int) *OpportunitiesComponent {
	return &OpportunitiesComponent{
		rows:    make([]OpportunityRow, 0),
		maxRows: maxRows,
		visible: 10,
	}
}

// Add prepends a new opportunity, newest first.
func (o *OpportunitiesComponent) Add(row OpportunityRow) {
	o.rows = append([]OpportunityRow{row}, o.rows...)
	if len(o.rows) > o.maxRows {
		o.rows = o.rows[:o.maxRows]
	}
}

// Clear clears all opportunities.
func (o *OpportunitiesComponent) Clear() {
	o.rows = make([]OpportunityRow, 0)
	o.offset = 0
}

// ScrollUp moves the window toward newer rows.
func (o *OpportunitiesComponent) ScrollUp() {
	if o.offset > 0 {
		o.offset--
	}
}

// ScrollDown moves the window toward older rows.
func (o *OpportunitiesComponent) ScrollDown() {
	if o.offset+o.visible < len(o.rows) {
		o.offset++
	}
}

// View renders the opportunities component.
func (o *OpportunitiesComponent) View() string {
	if len(o.rows) == 0 {
		return "No opportunities detected yet..."
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	profitStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))

	result := headerStyle.Render("OPPORTUNITIES") + "\n"
	result += fmt.Sprintf("%-9s %-32s %-5s %-12s %s\n", "Time", "Path", "Legs", "Kind", "Profit")

	end := o.offset + o.visible
	if end > len(o.rows) {
		end = len(o.rows)
	}
	for _, row := range o.rows[o.offset:end] {
		result += fmt.Sprintf("%-9s %-32s %-5d %-12s %s\n",
			row.Time,
			truncate(row.Path, 32),
			row.Legs,
			row.Kind,
			profitStyle.Render(fmt.Sprintf("%s %s", row.Profit.StringFixed(2), row.Currency)),
		)
	}

	if len(o.rows) > o.visible {
		result += fmt.Sprintf("(%d-%d of %d)", o.offset+1, end, len(o.rows))
	}

	return result
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
