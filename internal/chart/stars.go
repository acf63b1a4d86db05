package chart

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/litescript/ls-skychart/internal/astro"
	"github.com/litescript/ls-skychart/internal/catalog"
	"github.com/litescript/ls-skychart/internal/ephem"
)

// minShard is the smallest number of stars handed to one worker.
const minShard = 256

// ProjectedStar is the chart position of the star at arena index Index,
// with the observed ICRS place it was projected from.
type ProjectedStar struct {
	Index         int
	X, Y          float64
	RAdeg, DecDeg float64
}

// ProjectStars observes every catalog star from Earth at t and projects it.
// The result has one entry per star, in arena order.
func ProjectStars(ctx context.Context, cat *catalog.Catalog, p Projector, eph ephem.Ephemeris, t time.Time, opts ephem.ObserveOptions) ([]ProjectedStar, error) {
	earth, err := eph.State(ctx, ephem.Earth, t)
	if err != nil {
		return nil, fmt.Errorf("earth state from %s: %w", eph.Name(), err)
	}

	n := cat.Len()
	out := make([]ProjectedStar, n)
	if n == 0 {
		return out, nil
	}

	workers := runtime.GOMAXPROCS(0)
	shard := (n + workers - 1) / workers
	if shard < minShard {
		shard = minShard
	}

	g, ctx := errgroup.WithContext(ctx)
	for lo := 0; lo < n; lo += shard {
		lo, hi := lo, min(lo+shard, n)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for i := lo; i < hi; i++ {
				u, _ := ephem.ObserveVector(earth, cat.At(i), t, opts)
				x, y := p.Project(u)
				ra, dec := astro.RADecFromVec(u)
				out[i] = ProjectedStar{Index: i, X: x, Y: y, RAdeg: ra, DecDeg: dec}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// FilterByMagnitude partitions arena indices by catalog magnitude. A star is
// visible when its magnitude is at most threshold. Both lists keep catalog order.
func FilterByMagnitude(cat *catalog.Catalog, threshold float64) (visible, excluded []int) {
	for i, s := range cat.Stars {
		if s.Mag <= threshold {
			visible = append(visible, i)
		} else {
			excluded = append(excluded, i)
		}
	}
	return visible, excluded
}

// Magnitudes outside this range get the size of the nearest bound.
const (
	MinMarkerMagnitude = -30.0
	MaxMarkerMagnitude = 30.0
)

// MarkerSize returns the marker area for a magnitude: 100 for magnitude 0,
// shrinking by a factor of 40 every 2.5 magnitudes. It is strictly
// decreasing and finite on [MinMarkerMagnitude, MaxMarkerMagnitude].
func MarkerSize(mag float64) float64 {
	mag = math.Max(MinMarkerMagnitude, math.Min(MaxMarkerMagnitude, mag))
	return 100 * math.Pow(40, mag/-2.5)
}
