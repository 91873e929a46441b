// Package interact turns pointer input into drags between zones and pans
// and zooms of the work zone.
package interact

import (
	"time"

	"github.com/piwi3910/polyboard/internal/model"
	"github.com/piwi3910/polyboard/internal/viewport"
	"seehuhn.de/go/geom/vec"
)

// State is the controller gesture state.
type State int

const (
	Idle State = iota
	Dragging
	Panning
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Panning:
		return "panning"
	}
	return "unknown"
}

// Entities is the part of the store the controller mutates.
type Entities interface {
	Get(id int) (model.Polygon, bool)
	MoveTo(id int, z model.Zone, pos model.Point2D) bool
	SetView(patch model.ViewPatch)
	View() model.View
}

// Controller is the drag state machine. It owns no polygon data: every
// position change goes through Entities.MoveTo.
type Controller struct {
	ents   Entities
	buffer *viewport.Viewport
	work   *viewport.Viewport

	state  State
	dragID int
	grab   vec.Vec2 // Pointer offset from the polygon position, in world units
	last   time.Time
}

// NewController wires the controller to the store and both zone viewports.
// The work viewport is synced to the stored view.
func NewController(ents Entities, buffer, work *viewport.Viewport) *Controller {
	c := &Controller{
		ents:   ents,
		buffer: buffer,
		work:   work,
	}
	c.SyncView()
	return c
}

// State returns the current gesture state.
func (c *Controller) State() State {
	return c.state
}

// Dragging returns the id of the polygon being dragged.
func (c *Controller) Dragging() (int, bool) {
	if c.state != Dragging {
		return 0, false
	}
	return c.dragID, true
}

// Viewport returns the viewport of zone z.
func (c *Controller) Viewport(z model.Zone) *viewport.Viewport {
	if z == model.ZoneWork {
		return c.work
	}
	return c.buffer
}

// BeginDrag starts dragging polygon id, grabbed at screen point p in zone z.
// Unknown ids leave the controller idle.
func (c *Controller) BeginDrag(id int, z model.Zone, p vec.Vec2) bool {
	if c.state != Idle {
		return false
	}
	poly, ok := c.ents.Get(id)
	if !ok || !z.Valid() {
		return false
	}
	w := c.Viewport(z).ToWorld(p)
	c.grab = w.Sub(vec.Vec2{X: poly.Pos.X, Y: poly.Pos.Y})
	c.dragID = id
	c.state = Dragging
	return true
}

// DragTo moves the dragged polygon under the screen point p. The buffer zone
// is tested first, then the work zone; outside both nothing changes.
func (c *Controller) DragTo(p vec.Vec2) bool {
	if c.state != Dragging {
		return false
	}
	for _, z := range model.Zones {
		vp := c.Viewport(z)
		if !vp.HitTest(p) {
			continue
		}
		w := vp.ToWorld(p).Sub(c.grab)
		return c.ents.MoveTo(c.dragID, z, model.Point2D{X: w.X, Y: w.Y})
	}
	return false
}

// EndDrag drops the polygon where it was last moved to.
func (c *Controller) EndDrag() {
	if c.state == Dragging {
		c.state = Idle
		c.dragID = 0
		c.grab = vec.Vec2{}
	}
}

// HandlePointer dispatches a pointer event. It reports whether anything
// visible changed.
func (c *Controller) HandlePointer(ev PointerEvent) bool {
	if !ev.At.IsZero() {
		if ev.At.Before(c.last) {
			return false
		}
		c.last = ev.At
	}

	switch ev.Phase {
	case Down:
		if ev.Target != 0 {
			return c.BeginDrag(ev.Target, ev.Zone, ev.Pos)
		}
		if c.state == Idle && c.work.HitTest(ev.Pos) && c.work.StartPan(ev.Pos) {
			c.state = Panning
		}
		return false

	case Move:
		switch c.state {
		case Dragging:
			return c.DragTo(ev.Pos)
		case Panning:
			if !c.work.PanTo(ev.Pos) {
				return false
			}
			v := c.work.View()
			c.ents.SetView(model.ViewPatch{TX: &v.TX, TY: &v.TY})
			return true
		}
		return false

	case Up:
		switch c.state {
		case Dragging:
			c.EndDrag()
		case Panning:
			c.work.EndPan()
			c.state = Idle
		}
	}
	return false
}

// HandleWheel zooms the work zone around the pointer.
func (c *Controller) HandleWheel(ev WheelEvent) bool {
	if !c.work.HitTest(ev.Pos) {
		return false
	}
	if !c.work.ZoomAt(ev.Pos, viewport.ZoomFactor(ev.Delta)) {
		return false
	}
	c.ents.SetView(model.PatchOf(c.work.View()))
	return true
}

// HandleResize records the new screen rectangle of a zone.
func (c *Controller) HandleResize(ev ResizeEvent) {
	if !ev.Zone.Valid() {
		return
	}
	c.Viewport(ev.Zone).SetBounds(ev.Bounds)
}

// ResetView returns the work zone to the identity view and stores it.
func (c *Controller) ResetView() {
	if c.state == Panning {
		c.state = Idle
	}
	c.work.Reset()
	c.ents.SetView(model.PatchOf(c.work.View()))
}

// SyncView copies the stored view into the work viewport.
func (c *Controller) SyncView() {
	c.work.SetView(c.ents.View())
}
