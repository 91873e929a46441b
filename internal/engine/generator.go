package engine

import (
	"math"
	"math/rand"
	"sort"

	"github.com/piwi3910/polyboard/internal/model"
)

// RandomPolygon builds a star-shaped polygon with n vertices around a common
// centre. Angles are sorted before the radii are applied, so the vertex
// sequence winds monotonically and the outline never self-intersects.
// The result is normalized so its bounding box starts at (0, 0).
//
// n must be at least 3.
func RandomPolygon(rng *rand.Rand, n int, rMin, rMax float64) model.Outline {
	if n < 3 {
		panic("engine: RandomPolygon needs at least 3 vertices")
	}

	angles := make([]float64, n)
	for i := range angles {
		angles[i] = rng.Float64() * 2 * math.Pi
	}
	sort.Float64s(angles)

	outline := make(model.Outline, n)
	for i, a := range angles {
		r := rMin + rng.Float64()*(rMax-rMin)
		outline[i] = model.Point2D{
			X: math.Cos(a) * r,
			Y: math.Sin(a) * r,
		}
	}
	return outline.Normalize()
}

// randRange returns an integer uniformly distributed in [lo, hi].
func randRange(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}

// uniform returns a float uniformly distributed in [lo, hi].
func uniform(rng *rand.Rand, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + rng.Float64()*(hi-lo)
}
