package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/litescript/ls-skychart/internal/chart"
)

// MiniChartConfig sizes the text chart.
type MiniChartConfig struct {
	Width  int
	Height int
	Lines  bool
}

// DefaultMiniChartConfig fits an 80-column terminal.
func DefaultMiniChartConfig() MiniChartConfig {
	return MiniChartConfig{Width: 78, Height: 37, Lines: true}
}

// WriteMiniChart draws the chart as plain text with the title above it.
func WriteMiniChart(w io.Writer, res *chart.Result, cfg MiniChartConfig) error {
	if res == nil {
		return fmt.Errorf("no chart to draw")
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		def := DefaultMiniChartConfig()
		cfg.Width, cfg.Height = def.Width, def.Height
	}

	raster := Rasterize(res.Scene, cfg.Width, cfg.Height, RasterOptions{Lines: cfg.Lines})

	var b strings.Builder
	for _, line := range strings.Split(res.Title(), "\n") {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(strings.Repeat("─", cfg.Width))
	b.WriteString("\n")
	for _, row := range raster.Lines() {
		b.WriteString(strings.TrimRight(row, " "))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
