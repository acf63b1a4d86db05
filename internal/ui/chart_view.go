package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-skychart/internal/render"
	"github.com/litescript/ls-skychart/internal/state"
)

// Colors by cell kind.
const (
	colorHorizon  = "18"  // navy
	colorLine     = "61"  // muted violet
	colorCardinal = "135" // violet

	// Stars in grayscale, brightest white
	colorStarBright  = "255"
	colorStarMedium  = "250"
	colorStarDim     = "244"
	colorStarVeryDim = "240"
)

// ChartViewModel renders the horizon disk of the current chart.
type ChartViewModel struct {
	width  int
	height int
}

// NewChartViewModel creates a chart view.
func NewChartViewModel() ChartViewModel {
	return ChartViewModel{}
}

// SetSize updates the viewport size.
func (m ChartViewModel) SetSize(width, height int) ChartViewModel {
	m.width = width
	m.height = height
	return m
}

// View draws the chart held by snap.
func (m ChartViewModel) View(snap state.Snapshot) string {
	if m.width < 20 || m.height < 10 {
		return "Chart view requires larger terminal"
	}
	if snap.Result == nil {
		return strings.Repeat("\n", m.height-1)
	}

	r := render.Rasterize(snap.Result.Scene, m.width, m.height, render.RasterOptions{
		Lines: snap.Settings.Lines,
	})

	var b strings.Builder
	for y, row := range r.Cells {
		for _, c := range row {
			if c.Kind == render.CellEmpty || c.Kind == render.CellSky {
				b.WriteRune(c.Rune)
				continue
			}
			style := lipgloss.NewStyle().Foreground(cellColor(c))
			if c.Kind == render.CellCardinal {
				style = style.Bold(true)
			}
			b.WriteString(style.Render(string(c.Rune)))
		}
		if y < r.Height-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func cellColor(c render.Cell) lipgloss.Color {
	switch c.Kind {
	case render.CellHorizon:
		return colorHorizon
	case render.CellLine:
		return colorLine
	case render.CellCardinal:
		return colorCardinal
	case render.CellStar:
		return starColor(c.Mag)
	}
	return ""
}

func starColor(mag float64) lipgloss.Color {
	switch {
	case mag < 1.5:
		return colorStarBright
	case mag < 3.0:
		return colorStarMedium
	case mag < 4.0:
		return colorStarDim
	default:
		return colorStarVeryDim
	}
}
