// Package viewport maps between screen, zone-local and world coordinates.
//
// Screen coordinates are absolute canvas positions with y growing downward.
// Local coordinates are relative to the top-left corner of a zone. World
// coordinates are the space polygon positions live in. A fixed viewport has
// world equal to local; a pan-zoom viewport applies world*scale + translate.
package viewport

import (
	"math"

	"github.com/piwi3910/polyboard/internal/model"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// Mode selects how a viewport relates local and world coordinates.
type Mode int

const (
	Fixed   Mode = iota // World equals local
	PanZoom             // World is scaled and translated
)

// Zoom factors applied per wheel notch.
const (
	ZoomIn  = 1.1
	ZoomOut = 0.9
)

// minExtent is the smallest width or height reported for a zone.
const minExtent = 10

// Viewport tracks the on-screen bounds of one zone and, for the work zone,
// its pan and zoom state.
type Viewport struct {
	mode   Mode
	bounds rect.Rect // Screen rectangle; LLy is the top edge
	view   model.View

	panning   bool
	panStart  vec.Vec2
	panOrigin model.View
}

// NewFixed creates a viewport whose world coordinates equal its local ones.
func NewFixed(bounds rect.Rect) *Viewport {
	return &Viewport{
		mode:   Fixed,
		bounds: bounds,
		view:   model.DefaultView(),
	}
}

// NewPanZoom creates a viewport that starts from the given view.
func NewPanZoom(bounds rect.Rect, view model.View) *Viewport {
	return &Viewport{
		mode:   PanZoom,
		bounds: bounds,
		view:   view.Sanitize(),
	}
}

// Bounds returns the screen rectangle of the zone.
func (v *Viewport) Bounds() rect.Rect {
	return v.bounds
}

// SetBounds updates the screen rectangle, e.g. after a resize or scroll.
func (v *Viewport) SetBounds(b rect.Rect) {
	v.bounds = b
}

// Mode returns the viewport mode.
func (v *Viewport) Mode() Mode {
	return v.mode
}

// Size returns the zone extent, never smaller than 10 in either axis.
func (v *Viewport) Size() (w, h float64) {
	w = math.Max(minExtent, v.bounds.URx-v.bounds.LLx)
	h = math.Max(minExtent, v.bounds.URy-v.bounds.LLy)
	return w, h
}

// HitTest reports whether the screen point p lies inside the zone. Edges
// count as inside.
func (v *Viewport) HitTest(p vec.Vec2) bool {
	b := v.bounds
	return p.X >= b.LLx && p.X <= b.URx && p.Y >= b.LLy && p.Y <= b.URy
}

// ToLocal converts a screen point into zone-local coordinates.
func (v *Viewport) ToLocal(p vec.Vec2) vec.Vec2 {
	return p.Sub(vec.Vec2{X: v.bounds.LLx, Y: v.bounds.LLy})
}

// LocalToWorld converts a zone-local point into world coordinates.
func (v *Viewport) LocalToWorld(local vec.Vec2) vec.Vec2 {
	if v.mode == Fixed {
		return local
	}
	return vec.Vec2{
		X: (local.X - v.view.TX) / v.view.Scale,
		Y: (local.Y - v.view.TY) / v.view.Scale,
	}
}

// ToWorld converts a screen point into world coordinates.
func (v *Viewport) ToWorld(p vec.Vec2) vec.Vec2 {
	return v.LocalToWorld(v.ToLocal(p))
}

// FromWorld converts a world point into zone-local coordinates.
func (v *Viewport) FromWorld(w vec.Vec2) vec.Vec2 {
	m := v.Matrix()
	return vec.Vec2{
		X: m[0]*w.X + m[2]*w.Y + m[4],
		Y: m[1]*w.X + m[3]*w.Y + m[5],
	}
}

// ToScreen converts a world point into screen coordinates.
func (v *Viewport) ToScreen(w vec.Vec2) vec.Vec2 {
	return v.FromWorld(w).Add(vec.Vec2{X: v.bounds.LLx, Y: v.bounds.LLy})
}

// Matrix returns the world to local transform.
func (v *Viewport) Matrix() matrix.Matrix {
	if v.mode == Fixed {
		return matrix.Identity
	}
	s := v.view.Scale
	return matrix.Matrix{s, 0, 0, s, v.view.TX, v.view.TY}
}

// Scale returns the current world to local scale factor.
func (v *Viewport) Scale() float64 {
	if v.mode == Fixed {
		return 1
	}
	return v.view.Scale
}

// ZoomFactor maps a wheel delta to a zoom factor. Positive deltas scroll up
// and zoom in.
func ZoomFactor(delta float64) float64 {
	if delta > 0 {
		return ZoomIn
	}
	return ZoomOut
}

// ZoomAt multiplies the scale by factor, clamped to the allowed range, while
// keeping the world point under the screen point p fixed. It reports
// whether the view changed. Fixed viewports never zoom.
func (v *Viewport) ZoomAt(p vec.Vec2, factor float64) bool {
	if v.mode == Fixed {
		return false
	}
	ns := model.ClampScale(v.view.Scale * factor)
	if ns == v.view.Scale {
		return false
	}
	local := v.ToLocal(p)
	pre := v.LocalToWorld(local)
	v.view = model.View{
		Scale: ns,
		TX:    local.X - pre.X*ns,
		TY:    local.Y - pre.Y*ns,
	}
	return true
}

// StartPan begins a pan gesture at the screen point p.
func (v *Viewport) StartPan(p vec.Vec2) bool {
	if v.mode == Fixed {
		return false
	}
	v.panning = true
	v.panStart = p
	v.panOrigin = v.view
	return true
}

// PanTo moves the view so the content follows the pointer from the point
// passed to StartPan to p.
func (v *Viewport) PanTo(p vec.Vec2) bool {
	if !v.panning {
		return false
	}
	d := p.Sub(v.panStart)
	v.view.TX = v.panOrigin.TX + d.X
	v.view.TY = v.panOrigin.TY + d.Y
	return true
}

// EndPan finishes the current pan gesture.
func (v *Viewport) EndPan() {
	v.panning = false
}

// Panning reports whether a pan gesture is active.
func (v *Viewport) Panning() bool {
	return v.panning
}

// View returns the current view parameters.
func (v *Viewport) View() model.View {
	return v.view
}

// SetView replaces the view parameters. Fixed viewports ignore it.
func (v *Viewport) SetView(view model.View) {
	if v.mode == Fixed {
		return
	}
	v.view = view.Sanitize()
}

// Reset restores the identity view and cancels any pan.
func (v *Viewport) Reset() {
	v.view = model.DefaultView()
	v.panning = false
}
