package model

import "math"

// Scale limits for the work zone zoom.
const (
	MinScale = 0.25
	MaxScale = 10.0
)

// View holds the affine parameters of the work zone transform:
// screen = world*Scale + (TX, TY).
type View struct {
	Scale float64 `json:"scale"`
	TX    float64 `json:"tx"`
	TY    float64 `json:"ty"`
}

// DefaultView returns the identity view.
func DefaultView() View {
	return View{Scale: 1, TX: 0, TY: 0}
}

// ClampScale limits s to [MinScale, MaxScale]. NaN maps to the default
// scale.
func ClampScale(s float64) float64 {
	if math.IsNaN(s) {
		return DefaultView().Scale
	}
	if s < MinScale {
		return MinScale
	}
	if s > MaxScale {
		return MaxScale
	}
	return s
}

// Sanitize returns v with a usable scale and finite offsets. A
// non-positive scale means the view was never set and falls back to the
// default; a non-finite offset is reset to zero.
func (v View) Sanitize() View {
	if !(v.Scale > 0) {
		return DefaultView()
	}
	v.Scale = ClampScale(v.Scale)
	if !finite(v.TX) {
		v.TX = 0
	}
	if !finite(v.TY) {
		v.TY = 0
	}
	return v
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// ViewPatch carries a partial view update. Nil fields are left untouched.
type ViewPatch struct {
	Scale *float64
	TX    *float64
	TY    *float64
}

// PatchOf builds a patch that sets every field of v.
func PatchOf(v View) ViewPatch {
	return ViewPatch{Scale: &v.Scale, TX: &v.TX, TY: &v.TY}
}

// Apply merges the patch into v.
func (p ViewPatch) Apply(v View) View {
	if p.Scale != nil {
		v.Scale = ClampScale(*p.Scale)
	}
	if p.TX != nil {
		v.TX = *p.TX
	}
	if p.TY != nil {
		v.TY = *p.TY
	}
	return v.Sanitize()
}

// Snapshot is the persisted document: every polygon plus the work zone view.
type Snapshot struct {
	Polygons []Polygon `json:"polygons"`
	View     View      `json:"view"`
}

// NewSnapshot returns an empty snapshot with the default view.
func NewSnapshot() Snapshot {
	return Snapshot{
		Polygons: []Polygon{},
		View:     DefaultView(),
	}
}

// Count returns how many polygons sit in zone z.
func (s Snapshot) Count(z Zone) int {
	n := 0
	for _, p := range s.Polygons {
		if p.Zone == z {
			n++
		}
	}
	return n
}
