// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-skychart/internal/chart"
	"github.com/litescript/ls-skychart/internal/state"
	"github.com/litescript/ls-skychart/internal/version"
)

// Builder produces a chart for an instant and magnitude limit.
type Builder func(ctx context.Context, instant time.Time, magnitudeLimit float64) (*chart.Result, error)

// Key bindings.
const (
	magnitudeStep = 0.5
	timeStep      = time.Hour
	buildTimeout  = 30 * time.Second
)

// Msg types for Bubble Tea
type (
	// AnimTickMsg triggers spinner updates while a build is running.
	AnimTickMsg time.Time

	// builtMsg carries the outcome of a chart build.
	builtMsg struct {
		seq     uint64
		result  *chart.Result
		instant time.Time
		elapsed time.Duration
		err     error
	}
)

// Model is the root Bubble Tea model.
type Model struct {
	// Dependencies
	build Builder
	state *state.Manager
	base  time.Time

	// UI state
	width    int
	height   int
	ready    bool
	building bool
	animTick int
	seq      uint64 // id of the newest build; older replies are dropped

	chartView ChartViewModel
	snapshot  state.Snapshot
}

// New creates the viewer. base is the instant the time offset is applied to.
func New(build Builder, mgr *state.Manager, base time.Time) Model {
	return Model{
		build:     build,
		state:     mgr,
		base:      base,
		building:  true,
		seq:       1, // the build started by Init
		chartView: NewChartViewModel(),
		snapshot:  mgr.Snapshot(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.buildCmd(), animTickCmd())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		rebuild := true
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "+", "=":
			m.state.AdjustMagnitude(magnitudeStep)
		case "-", "_":
			m.state.AdjustMagnitude(-magnitudeStep)
		case "]":
			m.state.Step(timeStep)
		case "[":
			m.state.Step(-timeStep)
		case "0":
			m.state.Step(-m.state.Settings().Offset)
		case "l":
			m.state.ToggleLines()
			rebuild = false
		default:
			return m, nil
		}
		if rebuild {
			cmd := m.rebuild()
			return m, cmd
		}
		m.snapshot = m.state.Snapshot()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		// Header ~3 lines, footer ~2 lines
		m.chartView = m.chartView.SetSize(msg.Width, msg.Height-5)

	case builtMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.building = false
		m.state.Update(msg.result, msg.instant, msg.elapsed, msg.err)
		m.snapshot = m.state.Snapshot()

	case AnimTickMsg:
		m.animTick++
		return m, animTickCmd()
	}

	return m, nil
}

// rebuild starts a build for the current settings, superseding any
// build still in flight.
func (m *Model) rebuild() tea.Cmd {
	m.building = true
	m.seq++
	m.snapshot = m.state.Snapshot()
	return m.buildCmd()
}

// buildCmd runs the builder for the current settings under the current sequence number.
func (m Model) buildCmd() tea.Cmd {
	seq := m.seq
	settings := m.snapshot.Settings
	instant := m.base.Add(settings.Offset)
	build := m.build

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), buildTimeout)
		defer cancel()

		start := time.Now()
		res, err := build(ctx, instant, settings.MagnitudeLimit)
		return builtMsg{seq: seq, result: res, instant: instant, elapsed: time.Since(start), err: err}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	return m.renderHeader() + "\n" + m.chartView.View(m.snapshot) + "\n" + m.renderFooter()
}

func (m Model) renderHeader() string {
	var b strings.Builder
	b.WriteString("  ")
	title := "LS-SKYCHART"
	for i, r := range title {
		style := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(gradientColor(i, 0, len(title), 1)))
		b.WriteString(style.Render(string(r)))
	}
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	b.WriteString(muted.Render(fmt.Sprintf("  v%s · stereographic zenith chart", version.Version)))
	b.WriteString("\n")

	if res := m.snapshot.Result; res != nil {
		lines := strings.Split(res.Title(), "\n")
		accent := lipgloss.NewStyle().Foreground(lipgloss.Color("229"))
		b.WriteString("  " + accent.Render(lines[len(lines)-1]))
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#7B2CBF"))

	// Animated spinner frames
	spinnerFrames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	spinner := spinnerFrames[m.animTick%len(spinnerFrames)]

	snap := m.snapshot
	var status string
	switch {
	case m.building:
		status = accentStyle.Render(spinner) + " " + m.renderShimmerText("Building chart...")
	case snap.LastError != nil:
		status = errorStyle.Render("ERROR: " + snap.LastError.Error())
	case snap.Result != nil:
		res := snap.Result
		status = dimStyle.Render(fmt.Sprintf("mag ≤ %.1f · %d stars · %d lines", res.MagnitudeLimit, len(res.Scene.Stars), len(res.Scene.Lines)))
		if n := len(res.Warnings); n > 0 {
			status += errorStyle.Render(fmt.Sprintf(" · %d dropped", n))
		}
		if snap.BuildDuration > 0 {
			status += dimStyle.Render(" (" + snap.BuildDuration.Round(time.Millisecond).String() + ")")
		}
	default:
		status = accentStyle.Render(spinner) + " " + m.renderShimmerText("Waiting for chart...")
	}

	if off := snap.Settings.Offset; off != 0 {
		status += "  " + accentStyle.Render(fmt.Sprintf("%+.0fh", off.Hours()))
	}

	help := dimStyle.Render("+/-: magnitude | [/]: ∓1h | 0: reset | l: lines | q: quit")
	return "  " + status + "  " + dimStyle.Render("|") + "  " + help
}

// gradientColor returns a hex color for a position in the title gradient:
// blue -> purple -> magenta -> pink, fading toward the bottom.
func gradientColor(col, row, width, height int) string {
	xRatio := float64(col) / float64(width)
	yRatio := float64(row) / float64(height)

	var r, g, b float64
	switch {
	case xRatio < 0.33:
		t := xRatio / 0.33
		r, g, b = 59+t*(139-59), 130+t*(92-130), 246
	case xRatio < 0.66:
		t := (xRatio - 0.33) / 0.33
		r, g, b = 139+t*(217-139), 92+t*(70-92), 246+t*(239-246)
	default:
		t := (xRatio - 0.66) / 0.34
		r, g, b = 217+t*(236-217), 70+t*(72-70), 239+t*(153-239)
	}

	f := 1.0 - (yRatio * 0.5)
	return fmt.Sprintf("#%02X%02X%02X", clamp8(r*f), clamp8(g*f), clamp8(b*f))
}

func clamp8(v float64) int {
	return max(0, min(255, int(v)))
}

// renderShimmerText renders text with a subtle moving shine effect.
func (m Model) renderShimmerText(text string) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}

	pos := m.animTick % (len(runes) + 8)

	var result strings.Builder
	for i, r := range runes {
		dist := i - pos + 4
		if dist < 0 {
			dist = -dist
		}

		var r8, g8, b8 int
		switch {
		case dist <= 1:
			r8, g8, b8 = 180, 160, 220
		case dist <= 3:
			r8, g8, b8 = 140, 120, 180
		case dist <= 5:
			r8, g8, b8 = 110, 90, 150
		default:
			r8, g8, b8 = 80, 70, 120
		}

		style := lipgloss.NewStyle().Foreground(lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", r8, g8, b8)))
		result.WriteString(style.Render(string(r)))
	}
	return result.String()
}

func animTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return AnimTickMsg(t)
	})
}
