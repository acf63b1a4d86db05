// Package render draws finished charts as SVG, JSON, text tables and
// terminal rasters.
package render

import (
	"math"
	"sort"

	"github.com/litescript/ls-skychart/internal/chart"
)

// CellKind says what occupies a raster cell.
type CellKind int

const (
	CellEmpty    CellKind = iota // outside the horizon
	CellSky                      // inside the horizon, nothing drawn
	CellHorizon                  // horizon ring
	CellLine                     // constellation line
	CellStar                     // star marker
	CellCardinal                 // N/E/S/W marker
)

// Star glyphs by magnitude.
const (
	glyphStarBright  = '✶' // mag < 1.5
	glyphStarMedium  = '✸' // mag 1.5-3.0
	glyphStarDim     = '·' // mag 3.0-4.0
	glyphStarVeryDim = '·' // mag > 4.0
)

// Cell is one character of a raster.
type Cell struct {
	Rune rune
	Kind CellKind
	Mag  float64 // star magnitude for CellStar
}

// Raster is a character-cell rendering of a scene's horizon disk.
type Raster struct {
	Width, Height int
	Cells         [][]Cell
}

// RasterOptions controls what Rasterize draws.
type RasterOptions struct {
	Lines bool // constellation lines
}

// cellAspect is the height/width ratio of a terminal cell.
const cellAspect = 2.0

// StarGlyph returns the glyph for a star magnitude.
func StarGlyph(mag float64) rune {
	switch {
	case mag < 1.5:
		return glyphStarBright
	case mag < 3.0:
		return glyphStarMedium
	case mag < 4.0:
		return glyphStarDim
	default:
		return glyphStarVeryDim
	}
}

// Rasterize draws scene into a width×height grid. North is up and east
// is on the left, as on the chart.
func Rasterize(scene chart.Scene, width, height int, opts RasterOptions) *Raster {
	r := &Raster{Width: width, Height: height, Cells: make([][]Cell, height)}
	for y := range r.Cells {
		r.Cells[y] = make([]Cell, width)
		for x := range r.Cells[y] {
			r.Cells[y][x] = Cell{Rune: ' ', Kind: CellEmpty}
		}
	}
	if width < 5 || height < 5 {
		return r
	}

	// Disk radius in rows and columns, leaving a border for the cardinals.
	ry := float64(height-3) / 2
	rx := ry * cellAspect
	if maxRx := float64(width-3) / 2; rx > maxRx {
		rx = maxRx
		ry = rx / cellAspect
	}
	cx, cy := float64(width-1)/2, float64(height-1)/2
	toCell := func(x, y float64) (int, int) {
		return int(math.Round(cx + x/scene.HorizonRadius*rx)), int(math.Round(cy - y/scene.HorizonRadius*ry))
	}

	// Sky and horizon ring.
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			dx := (float64(col) - cx) / rx
			dy := (float64(row) - cy) / ry
			d := math.Hypot(dx, dy)
			switch {
			case d <= 1-0.5/ry:
				r.Cells[row][col] = Cell{Rune: ' ', Kind: CellSky}
			case d <= 1+0.5/ry:
				r.Cells[row][col] = Cell{Rune: '·', Kind: CellHorizon}
			}
		}
	}

	if opts.Lines {
		for _, seg := range scene.Lines {
			clipped, ok := scene.ClipSegment(seg)
			if !ok {
				continue
			}
			x1, y1 := toCell(clipped.X1, clipped.Y1)
			x2, y2 := toCell(clipped.X2, clipped.Y2)
			r.line(x1, y1, x2, y2, lineGlyph(x2-x1, y2-y1))
		}
	}

	// Fainter stars first so bright ones win shared cells.
	order := make([]int, 0, len(scene.Stars))
	for i, s := range scene.Stars {
		if scene.InHorizon(s.X, s.Y) {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scene.Stars[order[a]].Mag > scene.Stars[order[b]].Mag
	})

	for _, i := range order {
		s := scene.Stars[i]
		col, row := toCell(s.X, s.Y)
		if !r.in(col, row) {
			continue
		}
		r.Cells[row][col] = Cell{Rune: StarGlyph(s.Mag), Kind: CellStar, Mag: s.Mag}
	}

	// Cardinal points just outside the ring.
	for _, c := range []struct {
		label rune
		x, y  float64
	}{
		{'N', 0, 1}, {'S', 0, -1}, {'E', -1, 0}, {'W', 1, 0},
	} {
		col := int(math.Round(cx + c.x*(rx+1)))
		row := int(math.Round(cy - c.y*(ry+1)))
		if r.in(col, row) {
			r.Cells[row][col] = Cell{Rune: c.label, Kind: CellCardinal}
		}
	}

	return r
}

// Lines returns the raster as plain text rows.
func (r *Raster) Lines() []string {
	out := make([]string, r.Height)
	for y, row := range r.Cells {
		runes := make([]rune, len(row))
		for x, c := range row {
			runes[x] = c.Rune
		}
		out[y] = string(runes)
	}
	return out
}

func (r *Raster) in(x, y int) bool {
	return x >= 0 && x < r.Width && y >= 0 && y < r.Height
}

// line draws a Bresenham line over sky cells, leaving stars intact.
func (r *Raster) line(x0, y0, x1, y1 int, glyph rune) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		if r.in(x0, y0) && r.Cells[y0][x0].Kind == CellSky {
			r.Cells[y0][x0] = Cell{Rune: glyph, Kind: CellLine}
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// lineGlyph picks a character approximating the slope of a cell-space line.
func lineGlyph(dx, dy int) rune {
	if dx == 0 {
		return '|'
	}
	slope := float64(-dy) / float64(dx) * cellAspect
	switch {
	case math.Abs(slope) < 0.5:
		return '-'
	case math.Abs(slope) > 3:
		return '|'
	case slope > 0:
		return '/'
	default:
		return '\\'
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
