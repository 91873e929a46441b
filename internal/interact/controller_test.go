package interact

import (
	"testing"
	"time"

	"github.com/piwi3910/polyboard/internal/engine"
	"github.com/piwi3910/polyboard/internal/model"
	"github.com/piwi3910/polyboard/internal/store"
	"github.com/piwi3910/polyboard/internal/viewport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// Buffer at the top, a 40px gap, then the work zone.
var (
	bufferRect = rect.Rect{LLx: 0, LLy: 0, URx: 800, URy: 260}
	workRect   = rect.Rect{LLx: 0, LLy: 300, URx: 1000, URy: 900}
)

func setup(t *testing.T) (*Controller, *store.Store, int) {
	t.Helper()
	s := store.New(&store.MemoryGateway{}, engine.NewPacker(model.DefaultPackSettings(), 1))
	created := s.ImportToBuffer([]model.Outline{{{X: 0, Y: 0}, {X: 40, Y: 0}, {X: 20, Y: 30}}}, 800, 260)
	require.Len(t, created, 1)
	id := created[0].ID
	require.True(t, s.MoveTo(id, model.ZoneBuffer, model.Point2D{X: 100, Y: 50}))

	c := NewController(s, viewport.NewFixed(bufferRect), viewport.NewPanZoom(workRect, s.View()))
	return c, s, id
}

func TestDrag_WithinBuffer(t *testing.T) {
	c, s, id := setup(t)

	require.True(t, c.BeginDrag(id, model.ZoneBuffer, vec.Vec2{X: 110, Y: 60}))
	assert.Equal(t, Dragging, c.State())
	got, ok := c.Dragging()
	assert.True(t, ok)
	assert.Equal(t, id, got)

	assert.True(t, c.DragTo(vec.Vec2{X: 210, Y: 70}))
	p, _ := s.Get(id)
	assert.Equal(t, model.ZoneBuffer, p.Zone)
	assert.Equal(t, model.Point2D{X: 200, Y: 60}, p.Pos)

	c.EndDrag()
	assert.Equal(t, Idle, c.State())
	_, ok = c.Dragging()
	assert.False(t, ok)
}

func TestDrag_AcrossIntoScaledWorkZone(t *testing.T) {
	c, s, id := setup(t)
	scale, tx, ty := 2.0, 100.0, 50.0
	s.SetView(model.ViewPatch{Scale: &scale, TX: &tx, TY: &ty})
	c.SyncView()

	require.True(t, c.BeginDrag(id, model.ZoneBuffer, vec.Vec2{X: 110, Y: 60}))

	// local (300, 250) -> world ((300-100)/2, (250-50)/2) = (100, 100)
	require.True(t, c.DragTo(vec.Vec2{X: 300, Y: 550}))
	p, _ := s.Get(id)
	assert.Equal(t, model.ZoneWork, p.Zone)
	assert.InDelta(t, 90, p.Pos.X, 1e-9)
	assert.InDelta(t, 90, p.Pos.Y, 1e-9)

	c.EndDrag()
	assert.Equal(t, 0, s.Snapshot().Count(model.ZoneBuffer))
	assert.Equal(t, 1, s.Snapshot().Count(model.ZoneWork))
}

func TestDrag_GrabOffsetUsesSourceViewport(t *testing.T) {
	c, s, id := setup(t)
	require.True(t, s.MoveTo(id, model.ZoneWork, model.Point2D{X: 10, Y: 10}))
	scale := 4.0
	s.SetView(model.ViewPatch{Scale: &scale})
	c.SyncView()

	// world (12, 13) is local (48, 52), screen (48, 352)
	require.True(t, c.BeginDrag(id, model.ZoneWork, vec.Vec2{X: 48, Y: 352}))
	require.True(t, c.DragTo(vec.Vec2{X: 100, Y: 100}))

	p, _ := s.Get(id)
	assert.Equal(t, model.ZoneBuffer, p.Zone)
	assert.InDelta(t, 98, p.Pos.X, 1e-9)
	assert.InDelta(t, 97, p.Pos.Y, 1e-9)
}

func TestDrag_OutsideBothZonesIsNoop(t *testing.T) {
	c, s, id := setup(t)
	require.True(t, c.BeginDrag(id, model.ZoneBuffer, vec.Vec2{X: 110, Y: 60}))

	before := s.Snapshot()
	assert.False(t, c.DragTo(vec.Vec2{X: 400, Y: 280}))
	assert.False(t, c.DragTo(vec.Vec2{X: 2000, Y: 100}))
	assert.Equal(t, before, s.Snapshot())
	assert.Equal(t, Dragging, c.State())
}

func TestDrag_BufferWinsOnSharedEdge(t *testing.T) {
	s := store.New(&store.MemoryGateway{}, engine.NewPacker(model.DefaultPackSettings(), 1))
	created := s.ImportToBuffer([]model.Outline{{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 2, Y: 3}}}, 800, 260)
	id := created[0].ID
	touching := rect.Rect{LLx: 0, LLy: 260, URx: 800, URy: 600}
	c := NewController(s, viewport.NewFixed(bufferRect), viewport.NewPanZoom(touching, s.View()))

	p, _ := s.Get(id)
	grabAt := vec.Vec2{X: p.Pos.X, Y: p.Pos.Y}
	require.True(t, c.BeginDrag(id, model.ZoneBuffer, grabAt))
	require.True(t, c.DragTo(vec.Vec2{X: 50, Y: 260}))

	p, _ = s.Get(id)
	assert.Equal(t, model.ZoneBuffer, p.Zone)
}

func TestDrag_IgnoredWhileIdle(t *testing.T) {
	c, s, _ := setup(t)
	before := s.Snapshot()
	assert.False(t, c.DragTo(vec.Vec2{X: 10, Y: 10}))
	assert.Equal(t, before, s.Snapshot())
	assert.Equal(t, Idle, c.State())
}

func TestBeginDrag_UnknownID(t *testing.T) {
	c, _, _ := setup(t)
	assert.False(t, c.BeginDrag(999, model.ZoneBuffer, vec.Vec2{X: 1, Y: 1}))
	assert.Equal(t, Idle, c.State())
}

func TestHandlePointer_DragFlow(t *testing.T) {
	c, s, id := setup(t)
	now := time.Now()

	c.HandlePointer(PointerEvent{Phase: Down, Pos: vec.Vec2{X: 110, Y: 60}, At: now, Target: id, Zone: model.ZoneBuffer})
	assert.Equal(t, Dragging, c.State())

	changed := c.HandlePointer(PointerEvent{Phase: Move, Pos: vec.Vec2{X: 510, Y: 460}, At: now.Add(time.Millisecond)})
	assert.True(t, changed)

	// a stale event delivered late is dropped
	assert.False(t, c.HandlePointer(PointerEvent{Phase: Move, Pos: vec.Vec2{X: 20, Y: 20}, At: now}))

	c.HandlePointer(PointerEvent{Phase: Up, Pos: vec.Vec2{X: 510, Y: 460}, At: now.Add(2 * time.Millisecond)})
	assert.Equal(t, Idle, c.State())

	p, _ := s.Get(id)
	assert.Equal(t, model.ZoneWork, p.Zone)
	assert.Equal(t, model.Point2D{X: 500, Y: 150}, p.Pos)
}

func TestHandlePointer_PanWritesView(t *testing.T) {
	c, s, _ := setup(t)

	c.HandlePointer(PointerEvent{Phase: Down, Pos: vec.Vec2{X: 500, Y: 500}})
	assert.Equal(t, Panning, c.State())

	assert.True(t, c.HandlePointer(PointerEvent{Phase: Move, Pos: vec.Vec2{X: 530, Y: 480}}))
	assert.Equal(t, model.View{Scale: 1, TX: 30, TY: -20}, s.View())

	c.HandlePointer(PointerEvent{Phase: Up, Pos: vec.Vec2{X: 530, Y: 480}})
	assert.Equal(t, Idle, c.State())
	assert.False(t, c.work.Panning())

	assert.False(t, c.HandlePointer(PointerEvent{Phase: Move, Pos: vec.Vec2{X: 600, Y: 600}}))
	assert.Equal(t, model.View{Scale: 1, TX: 30, TY: -20}, s.View())
}

func TestHandlePointer_EmptyBufferPressDoesNothing(t *testing.T) {
	c, _, _ := setup(t)
	c.HandlePointer(PointerEvent{Phase: Down, Pos: vec.Vec2{X: 700, Y: 200}})
	assert.Equal(t, Idle, c.State())
}

func TestHandleWheel(t *testing.T) {
	c, s, _ := setup(t)

	assert.False(t, c.HandleWheel(WheelEvent{Pos: vec.Vec2{X: 100, Y: 100}, Delta: 1}), "buffer never zooms")
	assert.Equal(t, model.DefaultView(), s.View())

	anchor := vec.Vec2{X: 100, Y: 400}
	before := c.work.ToWorld(anchor)
	require.True(t, c.HandleWheel(WheelEvent{Pos: anchor, Delta: 1}))
	assert.InDelta(t, 1.1, s.View().Scale, 1e-12)
	assert.Equal(t, c.work.View(), s.View())

	after := c.work.ToWorld(anchor)
	assert.InDelta(t, before.X, after.X, 1e-6)
	assert.InDelta(t, before.Y, after.Y, 1e-6)
}

func TestHandleResize(t *testing.T) {
	c, _, _ := setup(t)
	nb := rect.Rect{LLx: 0, LLy: 400, URx: 1200, URy: 1000}
	c.HandleResize(ResizeEvent{Zone: model.ZoneWork, Bounds: nb})
	assert.Equal(t, nb, c.Viewport(model.ZoneWork).Bounds())

	c.HandleResize(ResizeEvent{Zone: model.Zone("attic"), Bounds: rect.Rect{}})
	assert.Equal(t, bufferRect, c.Viewport(model.ZoneBuffer).Bounds())
}

func TestResetView(t *testing.T) {
	c, s, _ := setup(t)
	c.HandleWheel(WheelEvent{Pos: vec.Vec2{X: 100, Y: 400}, Delta: 1})
	require.NotEqual(t, model.DefaultView(), s.View())

	c.ResetView()
	assert.Equal(t, model.DefaultView(), s.View())
	assert.Equal(t, model.DefaultView(), c.work.View())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "panning", Panning.String())
	assert.Equal(t, "up", Up.String())
}
