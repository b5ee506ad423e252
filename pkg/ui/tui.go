// Package ui provides the Bubble Tea TUI for the arbitrage scanner.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lmoreno/cyclearb/pkg/ui/components"
)

// ErrorEntry represents an error with timestamp.
type ErrorEntry struct {
	Message   string
	Timestamp time.Time
}

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	opportunities *components.OpportunitiesComponent

	keys     KeyMap
	ready    bool
	quitting bool
	paused   bool
	width    int
	height   int

	// Scan activity
	passCount     uint64
	snapshotCount int
	routeCount    int
	oppTotal      uint64
	lastDuration  time.Duration
	lastPass      time.Time
	spreads       []string
	activityFeed  []string
	errors        []ErrorEntry
	logs          []string
}

// New creates a new TUI model.
func New() Model {
	return Model{
		opportunities: components.NewOpportunitiesComponent(50),
		keys:          DefaultKeyMap(),
		logs:          make([]string, 0, 5),
		errors:        make([]ErrorEntry, 0, 3),
		spreads:       make([]string, 0, 6),
		activityFeed:  make([]string, 0, 6),
	}
}

// Init initializes the TUI model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// tickCmd returns a command that sends a tick every 100ms so relative
// timestamps stay fresh.
func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "c":
			m.opportunities.Clear()
			return m, nil
		case "p":
			m.paused = !m.paused
			return m, nil
		case "up", "k":
			m.opportunities.ScrollUp()
			return m, nil
		case "down", "j":
			m.opportunities.ScrollDown()
			return m, nil
		case "e":
			m.errors = make([]ErrorEntry, 0, 3)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case TickMsg:
		return m, tickCmd()

	case PassResultMsg:
		if m.paused {
			return m, nil
		}
		res := msg.Result
		m.passCount++
		m.snapshotCount = res.SnapshotCount
		m.routeCount = res.RouteCount
		m.oppTotal += uint64(len(res.Opportunities))
		m.lastDuration = res.Duration
		m.lastPass = res.Timestamp

		activity := fmt.Sprintf("pass: %d snapshots, %d routes, %d opportunities (%s)",
			res.SnapshotCount, res.RouteCount, len(res.Opportunities), res.Duration.Round(time.Millisecond))
		m.activityFeed = addActivity(m.activityFeed, activity)

		m.spreads = m.spreads[:0]
		for i, s := range res.Spreads {
			if i >= 6 {
				break
			}
			m.spreads = append(m.spreads, fmt.Sprintf("%s  buy %s @ %s / sell %s @ %s  (%s%%)",
				s.Symbol, s.BuyExchange, s.BuyPrice.StringFixed(2),
				s.SellExchange, s.SellPrice.StringFixed(2), s.SpreadPct.StringFixed(3)))
		}

		for _, opp := range res.Opportunities {
			m.opportunities.Add(components.OpportunityRow{
				Time:     opp.Timestamp.Format("15:04:05"),
				Path:     opp.Path(),
				Legs:     len(opp.Trades),
				Kind:     string(opp.Route.Kind),
				Profit:   opp.DisplayProfit(),
				Currency: string(opp.ProfitCurrency),
			})
		}

	case ErrorMsg:
		m.logs = addLog(m.logs, "error", msg.Error.Error())
		m.errors = append(m.errors, ErrorEntry{
			Message:   msg.Error.Error(),
			Timestamp: time.Now(),
		})
		if len(m.errors) > 3 {
			m.errors = m.errors[len(m.errors)-3:]
		}

	case LogMsg:
		m.logs = addLog(m.logs, msg.Level, msg.Message)
	}

	return m, nil
}

// addLog adds a log message and returns the updated slice (keeps last 5).
func addLog(logs []string, level, message string) []string {
	timestamp := time.Now().Format("15:04:05")
	logLine := fmt.Sprintf("[%s] %s: %s", timestamp, level, message)
	logs = append(logs, logLine)
	if len(logs) > 5 {
		logs = logs[len(logs)-5:]
	}
	return logs
}

// addActivity adds an activity message and returns the updated slice (keeps last 6).
func addActivity(feed []string, message string) []string {
	timestamp := time.Now().Format("15:04:05")
	line := fmt.Sprintf("[%s] %s", timestamp, message)
	feed = append(feed, line)
	if len(feed) > 6 {
		feed = feed[len(feed)-6:]
	}
	return feed
}

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return "\n  Goodbye!\n\n"
	}

	var b strings.Builder

	title := TitleStyle.Render(" Cycle Arbitrage Scanner ")
	b.WriteString(title)
	b.WriteString("\n\n")

	b.WriteString(m.renderStatusBar())
	b.WriteString("\n\n")

	leftCol := m.renderSpreads()

	var rightContent strings.Builder
	rightContent.WriteString(m.renderActivityFeed())
	rightContent.WriteString("\n\n")
	rightContent.WriteString(m.opportunities.View())
	rightCol := rightContent.String()

	if m.width > 100 {
		left := BoxStyle.Width(m.width/2 - 2).Render(leftCol)
		right := BoxStyle.Width(m.width/2 - 2).Render(rightCol)
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	} else {
		b.WriteString(BoxStyle.Width(m.width - 4).Render(leftCol))
		b.WriteString("\n")
		b.WriteString(BoxStyle.Width(m.width - 4).Render(rightCol))
	}

	b.WriteString("\n\n")

	if len(m.errors) > 0 {
		errorStyle := lipgloss.NewStyle().Foreground(ColorDanger)
		errorHeader := lipgloss.NewStyle().Bold(true).Foreground(ColorDanger)
		mutedError := lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))

		b.WriteString(errorHeader.Render("ERRORS"))
		b.WriteString(mutedError.Render(" (e: clear)"))
		b.WriteString("\n")
		for _, err := range m.errors {
			ago := time.Since(err.Timestamp).Round(time.Second)
			b.WriteString(errorStyle.Render(fmt.Sprintf("  • %s ", err.Message)))
			b.WriteString(mutedError.Render(fmt.Sprintf("(%s ago)", ago)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	helpText := "q: quit • c: clear • p: pause • ↑↓: scroll"
	if m.paused {
		b.WriteString(PausedStyle.Render("⏸ PAUSED"))
		b.WriteString(" • ")
	}
	b.WriteString(HelpStyle.Render(helpText))

	return b.String()
}

// renderStatusBar renders pass counters and timing.
func (m Model) renderStatusBar() string {
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	valueStyle := lipgloss.NewStyle().Bold(true)

	parts := []string{
		mutedStyle.Render("Passes: ") + valueStyle.Render(fmt.Sprintf("%d", m.passCount)),
		mutedStyle.Render("Snapshots: ") + valueStyle.Render(fmt.Sprintf("%d", m.snapshotCount)),
		mutedStyle.Render("Routes: ") + valueStyle.Render(fmt.Sprintf("%d", m.routeCount)),
		mutedStyle.Render("Found: ") + valueStyle.Render(fmt.Sprintf("%d", m.oppTotal)),
	}
	if !m.lastPass.IsZero() {
		ago := time.Since(m.lastPass).Round(time.Second)
		parts = append(parts, mutedStyle.Render("Last pass: ")+valueStyle.Render(fmt.Sprintf("%s ago", ago)))
	}
	return strings.Join(parts, "   ")
}

// renderSpreads renders the cross-venue spread panel.
func (m Model) renderSpreads() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	var sb strings.Builder
	sb.WriteString(headerStyle.Render("CROSS-VENUE SPREADS"))
	sb.WriteString("\n\n")

	if len(m.spreads) == 0 {
		sb.WriteString(mutedStyle.Render("  Waiting for tickers..."))
	} else {
		for _, line := range m.spreads {
			sb.WriteString("  " + line)
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// renderActivityFeed renders the recent activity feed.
func (m Model) renderActivityFeed() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	var sb strings.Builder
	sb.WriteString(headerStyle.Render("LIVE ACTIVITY"))
	sb.WriteString("\n\n")

	if len(m.activityFeed) == 0 {
		sb.WriteString(mutedStyle.Render("  Waiting for passes..."))
	} else {
		for _, activity := range m.activityFeed {
			sb.WriteString(mutedStyle.Render("  " + activity))
			sb.WriteString("\n")
		}
	}

	return sb.String()
}
