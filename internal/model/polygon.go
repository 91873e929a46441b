package model

import (
	"encoding/json"
	"fmt"
	"math"
)

// Zone identifies one of the two placement regions of the board.
type Zone string

const (
	ZoneBuffer Zone = "buffer" // Dense staging area, no pan or zoom
	ZoneWork   Zone = "work"   // Freely pannable and zoomable canvas
)

// Zones lists every zone in hit-test priority order.
var Zones = []Zone{ZoneBuffer, ZoneWork}

// Valid reports whether z is a known zone.
func (z Zone) Valid() bool {
	return z == ZoneBuffer || z == ZoneWork
}

func (z Zone) String() string {
	return string(z)
}

// ParseZone converts a user supplied name into a Zone.
func ParseZone(s string) (Zone, error) {
	z := Zone(s)
	if !z.Valid() {
		return "", fmt.Errorf("unknown zone %q (want %q or %q)", s, ZoneBuffer, ZoneWork)
	}
	return z, nil
}

// Point2D represents a 2D coordinate.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p shifted by q.
func (p Point2D) Add(q Point2D) Point2D {
	return Point2D{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p minus q.
func (p Point2D) Sub(q Point2D) Point2D {
	return Point2D{X: p.X - q.X, Y: p.Y - q.Y}
}

// Outline represents a closed polygon as a sequence of 2D points.
// The outline is implicitly closed: the last point connects back to the first.
// Vertex order is drawing order and must be preserved.
type Outline []Point2D

// MarshalJSON encodes the outline as a list of [x, y] pairs.
func (o Outline) MarshalJSON() ([]byte, error) {
	pairs := make([][2]float64, len(o))
	for i, p := range o {
		pairs[i] = [2]float64{p.X, p.Y}
	}
	return json.Marshal(pairs)
}

// UnmarshalJSON decodes a list of [x, y] pairs.
func (o *Outline) UnmarshalJSON(data []byte) error {
	var pairs [][]float64
	if err := json.Unmarshal(data, &pairs); err != nil {
		return err
	}
	out := make(Outline, len(pairs))
	for i, pair := range pairs {
		if len(pair) != 2 {
			return fmt.Errorf("vertex %d: expected [x, y], got %d values", i, len(pair))
		}
		out[i] = Point2D{X: pair[0], Y: pair[1]}
	}
	*o = out
	return nil
}

// BoundingBox returns the min and max corners of the outline.
func (o Outline) BoundingBox() (min, max Point2D) {
	if len(o) == 0 {
		return Point2D{}, Point2D{}
	}
	min = o[0]
	max = o[0]
	for _, p := range o[1:] {
		if p.X < min.X {
			min.X = p.X
		}
		if p.Y < min.Y {
			min.Y = p.Y
		}
		if p.X > max.X {
			max.X = p.X
		}
		if p.Y > max.Y {
			max.Y = p.Y
		}
	}
	return min, max
}

// Size returns the width and height of the bounding box.
func (o Outline) Size() (w, h float64) {
	min, max := o.BoundingBox()
	return max.X - min.X, max.Y - min.Y
}

// Translate shifts all points by dx, dy.
func (o Outline) Translate(dx, dy float64) Outline {
	result := make(Outline, len(o))
	for i, p := range o {
		result[i] = Point2D{X: p.X + dx, Y: p.Y + dy}
	}
	return result
}

// Normalize translates the outline so its bounding box starts at (0, 0).
func (o Outline) Normalize() Outline {
	if len(o) == 0 {
		return o
	}
	min, _ := o.BoundingBox()
	return o.Translate(-min.X, -min.Y)
}

// Clone returns a copy that shares no storage with o.
func (o Outline) Clone() Outline {
	if o == nil {
		return nil
	}
	cp := make(Outline, len(o))
	copy(cp, o)
	return cp
}

// Area computes the absolute area using the shoelace formula.
func (o Outline) Area() float64 {
	n := len(o)
	if n < 3 {
		return 0
	}
	var area float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += o[i].X * o[j].Y
		area -= o[j].X * o[i].Y
	}
	return math.Abs(area) / 2
}

// Contains reports whether p lies inside the outline (even-odd rule).
func (o Outline) Contains(p Point2D) bool {
	n := len(o)
	if n < 3 {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := o[i], o[j]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y) + a.X
			if p.X < x {
				inside = !inside
			}
		}
	}
	return inside
}

// Polygon is a shape living in one zone of the board.
type Polygon struct {
	ID     int     `json:"id"`
	Points Outline `json:"points"` // Offsets relative to Pos, bbox min at the origin
	Pos    Point2D `json:"pos"`    // Position in the zone's coordinate space
	Zone   Zone    `json:"zone"`
}

// Silhouette returns the absolute vertices of the polygon in its zone.
func (p Polygon) Silhouette() Outline {
	return p.Points.Translate(p.Pos.X, p.Pos.Y)
}

// Bounds returns the absolute bounding box of the polygon in its zone.
func (p Polygon) Bounds() (min, max Point2D) {
	min, max = p.Points.BoundingBox()
	return min.Add(p.Pos), max.Add(p.Pos)
}

// Contains reports whether the zone point q lies inside the polygon.
func (p Polygon) Contains(q Point2D) bool {
	return p.Points.Contains(q.Sub(p.Pos))
}

// Clone returns a deep copy of the polygon.
func (p Polygon) Clone() Polygon {
	p.Points = p.Points.Clone()
	return p
}
