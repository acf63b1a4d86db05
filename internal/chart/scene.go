package chart

import (
	"math"

	"github.com/litescript/ls-skychart/internal/astro"
	"github.com/litescript/ls-skychart/internal/catalog"
)

// HorizonRadius is the chart radius of the horizon for a zenith-centred projection.
const HorizonRadius = 1.0

// Circle is a clip region in chart coordinates.
type Circle struct {
	X, Y, R float64
}

// StarPoint is a star marker ready to draw.
type StarPoint struct {
	ID            int
	Name          string
	X, Y          float64
	RAdeg, DecDeg float64 // observed ICRS place
	Mag           float64
	Size          float64 // marker area
}

// AltAz returns the altitude and azimuth (north through east) in degrees
// read back from the zenith-centred chart position.
func (s StarPoint) AltAz() (altDeg, azDeg float64) {
	r := math.Hypot(s.X, s.Y)
	altDeg = 90 - 2*astro.RadToDeg(math.Atan(r))
	azDeg = astro.RadToDeg(math.Atan2(-s.X, s.Y))
	if azDeg < 0 {
		azDeg += 360
	}
	return altDeg, azDeg
}

// Scene is everything a renderer needs. Stars and Lines are in chart
// coordinates and may extend past the horizon; renderers clip to Clip.
type Scene struct {
	HorizonRadius float64
	Clip          Circle
	Stars         []StarPoint
	Lines         []LineSegment
}

// AssembleScene builds the scene from the visible arena indices and the
// resolved constellation lines.
func AssembleScene(cat *catalog.Catalog, projected []ProjectedStar, visible []int, lines []LineSegment) Scene {
	stars := make([]StarPoint, 0, len(visible))
	for _, i := range visible {
		s := cat.At(i)
		p := projected[i]
		stars = append(stars, StarPoint{
			ID:     s.ID,
			Name:   s.Name,
			X:      p.X,
			Y:      p.Y,
			RAdeg:  p.RAdeg,
			DecDeg: p.DecDeg,
			Mag:    s.Mag,
			Size:   MarkerSize(s.Mag),
		})
	}

	return Scene{
		HorizonRadius: HorizonRadius,
		Clip:          Circle{X: 0, Y: 0, R: HorizonRadius},
		Stars:         stars,
		Lines:         lines,
	}
}

// InHorizon reports whether a chart point is on or inside the horizon.
func (s Scene) InHorizon(x, y float64) bool {
	dx, dy := x-s.Clip.X, y-s.Clip.Y
	return dx*dx+dy*dy <= s.Clip.R*s.Clip.R
}

// VisibleStars returns the stars above the horizon.
func (s Scene) VisibleStars() []StarPoint {
	var out []StarPoint
	for _, st := range s.Stars {
		if s.InHorizon(st.X, st.Y) {
			out = append(out, st)
		}
	}
	return out
}

// ClipSegment returns the part of seg inside the clip circle. The boolean
// is false when nothing of the segment is inside.
func (s Scene) ClipSegment(seg LineSegment) (LineSegment, bool) {
	if !finite(seg.X1, seg.Y1, seg.X2, seg.Y2) {
		return LineSegment{}, false
	}

	// Solve |p1 + t·d - c|² = r² for t in [0, 1].
	px, py := seg.X1-s.Clip.X, seg.Y1-s.Clip.Y
	dx, dy := seg.X2-seg.X1, seg.Y2-seg.Y1
	a := dx*dx + dy*dy
	b := px*dx + py*dy
	c := px*px + py*py - s.Clip.R*s.Clip.R

	if a == 0 {
		return seg, c <= 0
	}
	disc := b*b - a*c
	if disc < 0 {
		return LineSegment{}, false
	}
	sq := math.Sqrt(disc)
	t0 := math.Max(0, (-b-sq)/a)
	t1 := math.Min(1, (-b+sq)/a)
	if t0 > t1 {
		return LineSegment{}, false
	}

	out := seg
	if t0 > 0 {
		out.X1, out.Y1 = seg.X1+t0*dx, seg.Y1+t0*dy
	}
	if t1 < 1 {
		out.X2, out.Y2 = seg.X1+t1*dx, seg.Y1+t1*dy
	}
	return out, true
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
