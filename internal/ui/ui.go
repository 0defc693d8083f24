// Package ui provides the terminal progress interface using Bubble Tea.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-astfield/internal/campaign"
	"github.com/litescript/ls-astfield/internal/table"
	"github.com/litescript/ls-astfield/internal/version"
)

// Msg types for Bubble Tea
type (
	// TickMsg triggers periodic snapshot refreshes.
	TickMsg time.Time

	// AnimTickMsg triggers fast animation updates.
	AnimTickMsg time.Time

	// RunDoneMsg signals the placement goroutine finished.
	RunDoneMsg struct {
		Result *table.Table
		Err    error
	}
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("135"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("84"))
)

// Model is the root Bubble Tea model for a placement run.
type Model struct {
	campaign *campaign.Manager

	// UI state
	width    int
	height   int
	ready    bool
	animTick int

	// Run result (set on RunDoneMsg)
	done   bool
	result *table.Table
	err    error

	snapshot campaign.Snapshot
	preview  FieldPreviewModel
}

// New creates a new root UI model.
func New(mgr *campaign.Manager) Model {
	return Model{
		campaign: mgr,
		preview:  NewFieldPreviewModel(),
	}
}

// Done reports whether the placement goroutine has finished.
func (m Model) Done() bool { return m.done }

// Result returns the placement output table, nil until done.
func (m Model) Result() *table.Table { return m.result }

// Err returns the placement error, nil unless the run failed.
func (m Model) Err() error { return m.err }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), animTickCmd())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		// Header and status panel take ~10 lines, footer 2
		m.preview = m.preview.SetSize(msg.Width-4, msg.Height-13)

	case TickMsg:
		m.snapshot = m.campaign.Snapshot()
		return m, tickCmd()

	case AnimTickMsg:
		m.animTick++
		return m, animTickCmd()

	case RunDoneMsg:
		m.done = true
		m.result = msg.Result
		m.err = msg.Err
		m.snapshot = m.campaign.Snapshot()
		if msg.Result != nil {
			m.preview = m.preview.UpdateData(msg.Result)
		}
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString(m.renderStatus())

	if m.done && m.err == nil && m.result != nil {
		b.WriteString("\n")
		b.WriteString(m.preview.View())
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHeader() string {
	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(titleStyle.Render("ls-astfield"))
	b.WriteString(dimStyle.Render(" · artificial star placement"))
	b.WriteString("\n  ")
	b.WriteString(dimStyle.Render(fmt.Sprintf("v%s", version.Version)))
	b.WriteString("\n\n")
	return b.String()
}

func (m Model) renderStatus() string {
	snap := m.snapshot

	var b strings.Builder
	b.WriteString("  ")
	b.WriteString(m.renderPhase(snap))
	b.WriteString("\n\n  ")
	b.WriteString(m.renderProgressBar(snap.Fraction(), 40))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  %d/%d rows", snap.RowsDone, snap.RowsTotal)))
	b.WriteString("\n  ")
	if snap.BinsTotal > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("bins %d/%d", snap.BinsDone, snap.BinsTotal)))
	}
	if !snap.StartedAt.IsZero() {
		elapsed := time.Since(snap.StartedAt).Round(100 * time.Millisecond)
		if snap.Terminal() {
			elapsed = snap.UpdatedAt.Sub(snap.StartedAt).Round(100 * time.Millisecond)
		}
		b.WriteString(dimStyle.Render(fmt.Sprintf("  elapsed %s", elapsed)))
	}
	b.WriteString("\n")
	b.WriteString(m.renderRecentBins(snap))
	return b.String()
}

func (m Model) renderPhase(snap campaign.Snapshot) string {
	switch {
	case snap.Phase == campaign.PhaseFailed:
		msg := "failed"
		if snap.Err != nil {
			msg = snap.Err.Error()
		}
		return errorStyle.Render("✗ " + msg)
	case snap.Phase == campaign.PhaseDone:
		return okStyle.Render("✓ placement complete")
	default:
		spinnerFrames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
		spinner := spinnerFrames[m.animTick%len(spinnerFrames)]
		return accentStyle.Render(spinner) + " " + dimStyle.Render(strings.ToLower(string(snap.Phase)))
	}
}

// renderProgressBar draws a fixed-width fraction bar.
func (m Model) renderProgressBar(frac float64, width int) string {
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	filled := int(frac * float64(width))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	style := accentStyle
	if frac >= 1 {
		style = okStyle
	}
	return style.Render(bar)
}

func (m Model) renderRecentBins(snap campaign.Snapshot) string {
	events := snap.Events
	if len(events) > 3 {
		events = events[len(events)-3:]
	}

	var b strings.Builder
	for _, e := range events {
		b.WriteString("  ")
		b.WriteString(dimStyle.Render(fmt.Sprintf("%s  bin %d/%d done, %d rows placed",
			e.Timestamp.Format("15:04:05"), e.Bin+1, e.Bins, e.RowsDone)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderFooter() string {
	if m.done {
		return "  " + dimStyle.Render("q: quit")
	}
	return "  " + dimStyle.Render("q: abort")
}

func tickCmd() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func animTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return AnimTickMsg(t)
	})
}
