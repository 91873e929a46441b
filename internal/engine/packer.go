// Package engine generates random polygons and places them inside a bounded
// container without overlap where the space allows it.
package engine

import (
	"math"
	"math/rand"
	"time"

	"github.com/piwi3910/polyboard/internal/model"
)

// rect is an occupancy record: the axis-aligned box of a placed item.
// Records live only for the duration of one packing run.
type rect struct {
	x, y, w, h float64
}

// overlaps reports whether a and b, grown by pad on every side, touch.
func (a rect) overlaps(b rect, pad float64) bool {
	return !(a.x+a.w+pad < b.x ||
		b.x+b.w+pad < a.x ||
		a.y+a.h+pad < b.y ||
		b.y+b.h+pad < a.y)
}

// Placement is one packed polygon: its outline and the top-left position
// of its bounding box inside the container.
type Placement struct {
	Outline  model.Outline
	Pos      model.Point2D
	Attempts int  // Candidates sampled before acceptance
	Overlaps bool // True when the retry budget ran out
}

// Packer populates a container with randomly placed polygons.
type Packer struct {
	Settings model.PackSettings
	rng      *rand.Rand
}

// NewPacker creates a packer. A zero seed draws one from the clock.
func NewPacker(settings model.PackSettings, seed int64) *Packer {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Packer{
		Settings: settings.Normalize(),
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// PackBatch generates a batch of random polygons and places each one inside
// a width x height container. Batch size and vertex counts are drawn from the
// packer settings. Results are returned in generation order.
func (p *Packer) PackBatch(width, height float64) []Placement {
	s := p.Settings
	count := randRange(p.rng, s.MinBatch, s.MaxBatch)

	outlines := make([]model.Outline, count)
	for i := range outlines {
		verts := randRange(p.rng, s.MinVertices, s.MaxVertices)
		outlines[i] = RandomPolygon(p.rng, verts, s.RadiusMin, s.RadiusMax)
	}
	return p.Pack(outlines, width, height)
}

// Pack places the given outlines inside a width x height container using
// bounded-retry random sampling. Every outline gets a position: when no free
// spot turns up within the attempt budget the last sample is kept anyway,
// but only clean placements block later outlines.
func (p *Packer) Pack(outlines []model.Outline, width, height float64) []Placement {
	s := p.Settings
	occupied := make([]rect, 0, len(outlines))
	placements := make([]Placement, 0, len(outlines))

	for _, o := range outlines {
		outline := o.Normalize()
		w, h := outline.Size()

		maxX := math.Max(s.Margin, width-w-s.Margin)
		maxY := math.Max(s.Margin, height-h-s.Margin)

		var candidate rect
		attempts := 0
		clash := true
		for attempts < s.MaxAttempts && clash {
			candidate = rect{
				x: uniform(p.rng, s.Margin, maxX),
				y: uniform(p.rng, s.Margin, maxY),
				w: w,
				h: h,
			}
			attempts++
			clash = collides(candidate, occupied, s.Padding)
		}
		if !clash {
			occupied = append(occupied, candidate)
		}

		placements = append(placements, Placement{
			Outline:  outline,
			Pos:      model.Point2D{X: candidate.x, Y: candidate.y},
			Attempts: attempts,
			Overlaps: clash,
		})
	}
	return placements
}

// collides reports whether r overlaps any record in occupied.
func collides(r rect, occupied []rect, pad float64) bool {
	for _, o := range occupied {
		if r.overlaps(o, pad) {
			return true
		}
	}
	return false
}
