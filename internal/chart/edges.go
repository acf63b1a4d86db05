package chart

import (
	"github.com/litescript/ls-skychart/internal/catalog"
	"github.com/litescript/ls-skychart/internal/constellation"
)

// LineSegment is a constellation edge in chart coordinates.
type LineSegment struct {
	X1, Y1        float64
	X2, Y2        float64
	Constellation string
	A, B          int // star ids
}

// EdgeRef is an edge whose star ids have been resolved to arena indices.
type EdgeRef struct {
	Edge   constellation.Edge
	IndexA int
	IndexB int
}

// ResolveEdgeRefs maps every edge endpoint to an arena index. Edges with an
// id missing from the catalog are dropped and reported, one entry per edge.
func ResolveEdgeRefs(figs []constellation.Figure, cat *catalog.Catalog) ([]EdgeRef, []MissingStarReference) {
	edges := constellation.Flatten(figs)
	refs := make([]EdgeRef, 0, len(edges))
	var missing []MissingStarReference

	for i, e := range edges {
		ia, okA := cat.Lookup(e.A)
		ib, okB := cat.Lookup(e.B)
		switch {
		case okA && okB:
			refs = append(refs, EdgeRef{Edge: e, IndexA: ia, IndexB: ib})
		case !okA:
			missing = append(missing, MissingStarReference{
				Constellation: e.Constellation, EdgeIndex: i, A: e.A, B: e.B, MissingID: e.A,
			})
		default:
			missing = append(missing, MissingStarReference{
				Constellation: e.Constellation, EdgeIndex: i, A: e.A, B: e.B, MissingID: e.B,
			})
		}
	}
	return refs, missing
}

// BindSegments reads endpoint coordinates from the projected side table.
// Stars shared between figures therefore get identical coordinates.
func BindSegments(refs []EdgeRef, projected []ProjectedStar) []LineSegment {
	lines := make([]LineSegment, 0, len(refs))
	for _, r := range refs {
		a, b := projected[r.IndexA], projected[r.IndexB]
		lines = append(lines, LineSegment{
			X1:            a.X,
			Y1:            a.Y,
			X2:            b.X,
			Y2:            b.Y,
			Constellation: r.Edge.Constellation,
			A:             r.Edge.A,
			B:             r.Edge.B,
		})
	}
	return lines
}

// ResolveEdges turns figures into chart segments in input order.
// Edges are not filtered by magnitude.
func ResolveEdges(figs []constellation.Figure, cat *catalog.Catalog, projected []ProjectedStar) ([]LineSegment, []MissingStarReference) {
	refs, missing := ResolveEdgeRefs(figs, cat)
	return BindSegments(refs, projected), missing
}
