package render

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"math"
	"strings"

	"github.com/litescript/ls-skychart/internal/chart"
)

// Chart styling.
const (
	colorHorizon = "navy"
	colorLine    = "#FDFFFC"
	colorStar    = "white"
	lineOpacity  = 0.5
)

// pointsPerChart is the chart width in typographic points that marker
// areas are expressed against.
const pointsPerChart = 720.0

// SVGOptions controls SVG output.
type SVGOptions struct {
	Size    int  // pixel width of the chart; 0 means 800
	NoLines bool // omit constellation lines
}

// WriteSVG renders the chart as a standalone SVG document.
func WriteSVG(w io.Writer, res *chart.Result, opts SVGOptions) error {
	if res == nil {
		return fmt.Errorf("no chart to render")
	}
	size := float64(opts.Size)
	if size <= 0 {
		size = 800
	}

	titleLines := strings.Split(res.Title(), "\n")
	fontSize := size / 40
	titleHeight := fontSize * 1.4 * float64(len(titleLines)+1)

	width, height := size, size+titleHeight
	cx, cy := size/2, titleHeight+size/2
	radius := size / 2 * 0.92
	scale := radius / res.Scene.HorizonRadius
	pt := size / pointsPerChart

	toPx := func(x, y float64) (float64, float64) {
		return cx + x*scale, cy - y*scale
	}

	var b bytes.Buffer
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`+"\n",
		num(width), num(height), num(width), num(height))
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(strings.Join(titleLines, " ")))
	fmt.Fprintf(&b, `<defs><clipPath id="horizon"><circle cx="%s" cy="%s" r="%s"/></clipPath></defs>`+"\n",
		num(cx), num(cy), num(radius))
	fmt.Fprintf(&b, `<rect width="%s" height="%s" fill="white"/>`+"\n", num(width), num(height))

	for i, line := range titleLines {
		fmt.Fprintf(&b, `<text x="%s" y="%s" font-family="sans-serif" font-size="%s" text-anchor="middle">%s</text>`+"\n",
			num(width/2), num(fontSize*1.4*float64(i+1)), num(fontSize), html.EscapeString(line))
	}

	fmt.Fprintf(&b, `<circle cx="%s" cy="%s" r="%s" fill="%s"/>`+"\n", num(cx), num(cy), num(radius), colorHorizon)
	b.WriteString(`<g clip-path="url(#horizon)">` + "\n")

	if !opts.NoLines {
		fmt.Fprintf(&b, `<g stroke="%s" stroke-opacity="%s" stroke-width="%s" fill="none">`+"\n",
			colorLine, num(lineOpacity), num(pt))
		for _, l := range res.Scene.Lines {
			if !finite(l.X1, l.Y1, l.X2, l.Y2) {
				continue
			}
			x1, y1 := toPx(l.X1, l.Y1)
			x2, y2 := toPx(l.X2, l.Y2)
			fmt.Fprintf(&b, `<line x1="%s" y1="%s" x2="%s" y2="%s" data-constellation="%s"/>`+"\n",
				num(x1), num(y1), num(x2), num(y2), html.EscapeString(l.Constellation))
		}
		b.WriteString("</g>\n")
	}

	fmt.Fprintf(&b, `<g fill="%s">`+"\n", colorStar)
	for _, s := range res.Scene.Stars {
		if !finite(s.X, s.Y) {
			continue
		}
		x, y := toPx(s.X, s.Y)
		// Marker area is in points squared, so the diameter is its root.
		r := math.Sqrt(s.Size) / 2 * pt
		fmt.Fprintf(&b, `<circle cx="%s" cy="%s" r="%s" data-hip="%d"/>`+"\n", num(x), num(y), num(r), s.ID)
	}
	b.WriteString("</g>\n")

	b.WriteString("</g>\n</svg>\n")

	_, err := w.Write(b.Bytes())
	return err
}

// num formats a coordinate compactly.
func num(v float64) string {
	s := fmt.Sprintf("%.3f", v)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
