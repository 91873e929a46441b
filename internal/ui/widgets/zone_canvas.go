package widgets

import (
	"fmt"
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"github.com/piwi3910/polyboard/internal/interact"
	"github.com/piwi3910/polyboard/internal/model"
)

// Polygon colors, picked by id so a shape keeps its color across zones.
var polyColors = []color.NRGBA{
	{R: 76, G: 175, B: 80, A: 255},
	{R: 33, G: 150, B: 243, A: 255},
	{R: 255, G: 152, B: 0, A: 255},
	{R: 156, G: 39, B: 176, A: 255},
	{R: 0, G: 188, B: 212, A: 255},
	{R: 244, G: 67, B: 54, A: 255},
	{R: 205, G: 180, B: 0, A: 255},
	{R: 121, G: 85, B: 72, A: 255},
}

var (
	bufferBackground = color.NRGBA{R: 245, G: 245, B: 240, A: 255}
	workBackground   = color.NRGBA{R: 252, G: 252, B: 252, A: 255}
	gridColor        = color.NRGBA{R: 0, G: 0, B: 0, A: 28}
	gridLabelColor   = color.NRGBA{R: 90, G: 90, B: 90, A: 255}
	borderColor      = color.NRGBA{R: 120, G: 120, B: 120, A: 255}
	dropColor        = color.NRGBA{R: 33, G: 150, B: 243, A: 255}
)

// gridSpacing is the minimum on-screen distance between grid lines.
const gridSpacing = 60

// Board is the read side of the store a zone canvas draws from.
type Board interface {
	ByZone(z model.Zone) []model.Polygon
	PickAt(z model.Zone, p model.Point2D) (int, bool)
}

// ZoneCanvas renders the polygons of one zone and forwards pointer input to
// the drag controller. Events are reported in absolute canvas coordinates,
// so a drag that starts here keeps resolving correctly over a peer zone.
type ZoneCanvas struct {
	widget.BaseWidget

	zone  model.Zone
	board Board
	ctrl  *interact.Controller
	peers []*ZoneCanvas

	// OnChanged is called after input changed the board or the view.
	OnChanged func()
}

// NewZoneCanvas creates the canvas for zone z.
func NewZoneCanvas(z model.Zone, board Board, ctrl *interact.Controller) *ZoneCanvas {
	zc := &ZoneCanvas{zone: z, board: board, ctrl: ctrl}
	zc.ExtendBaseWidget(zc)
	return zc
}

// Link makes every canvas aware of the others, so bounds of all zones are
// current whenever one of them handles input.
func Link(canvases ...*ZoneCanvas) {
	for _, a := range canvases {
		a.peers = nil
		for _, b := range canvases {
			if a != b {
				a.peers = append(a.peers, b)
			}
		}
	}
}

// Zone returns the zone this canvas shows.
func (zc *ZoneCanvas) Zone() model.Zone {
	return zc.zone
}

// ScreenBounds returns the canvas rectangle in absolute coordinates.
func (zc *ZoneCanvas) ScreenBounds() rect.Rect {
	pos := fyne.NewPos(0, 0)
	if app := fyne.CurrentApp(); app != nil {
		pos = app.Driver().AbsolutePositionForObject(zc)
	}
	size := zc.Size()
	return rect.Rect{
		LLx: float64(pos.X),
		LLy: float64(pos.Y),
		URx: float64(pos.X + size.Width),
		URy: float64(pos.Y + size.Height),
	}
}

// SyncBounds reports the current rectangle of this canvas and its peers to
// the controller.
func (zc *ZoneCanvas) SyncBounds() {
	zc.ctrl.HandleResize(interact.ResizeEvent{Zone: zc.zone, Bounds: zc.ScreenBounds()})
	for _, p := range zc.peers {
		p.ctrl.HandleResize(interact.ResizeEvent{Zone: p.zone, Bounds: p.ScreenBounds()})
	}
}

func toVec(p fyne.Position) vec.Vec2 {
	return vec.Vec2{X: float64(p.X), Y: float64(p.Y)}
}

func (zc *ZoneCanvas) changed() {
	if zc.OnChanged != nil {
		zc.OnChanged()
		return
	}
	zc.Refresh()
}

// MouseDown picks the topmost polygon under the pointer and starts a drag,
// or a pan when the press lands on empty work zone space.
func (zc *ZoneCanvas) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	zc.SyncBounds()
	p := toVec(ev.AbsolutePosition)
	w := zc.ctrl.Viewport(zc.zone).ToWorld(p)
	id, _ := zc.board.PickAt(zc.zone, model.Point2D{X: w.X, Y: w.Y})
	zc.ctrl.HandlePointer(interact.PointerEvent{
		Phase:  interact.Down,
		Pos:    p,
		At:     time.Now(),
		Target: id,
		Zone:   zc.zone,
	})
	if id != 0 {
		zc.changed()
	}
}

// MouseUp ends the current gesture.
func (zc *ZoneCanvas) MouseUp(ev *desktop.MouseEvent) {
	zc.release(ev.AbsolutePosition)
}

// Dragged moves the dragged polygon or pans the work zone.
func (zc *ZoneCanvas) Dragged(ev *fyne.DragEvent) {
	if zc.ctrl.HandlePointer(interact.PointerEvent{
		Phase: interact.Move,
		Pos:   toVec(ev.AbsolutePosition),
		At:    time.Now(),
	}) {
		zc.changed()
	}
}

// DragEnd ends the current gesture.
func (zc *ZoneCanvas) DragEnd() {
	zc.release(fyne.Position{})
}

func (zc *ZoneCanvas) release(at fyne.Position) {
	if zc.ctrl.State() == interact.Idle {
		return
	}
	zc.ctrl.HandlePointer(interact.PointerEvent{
		Phase: interact.Up,
		Pos:   toVec(at),
		At:    time.Now(),
	})
	zc.changed()
}

// Scrolled zooms the work zone around the pointer.
func (zc *ZoneCanvas) Scrolled(ev *fyne.ScrollEvent) {
	zc.SyncBounds()
	if zc.ctrl.HandleWheel(interact.WheelEvent{
		Pos:   toVec(ev.AbsolutePosition),
		Delta: float64(ev.Scrolled.DY),
	}) {
		zc.changed()
	}
}

func (zc *ZoneCanvas) CreateRenderer() fyne.WidgetRenderer {
	return newZoneCanvasRenderer(zc)
}

type zoneCanvasRenderer struct {
	zc      *ZoneCanvas
	objects []fyne.CanvasObject
}

func newZoneCanvasRenderer(zc *ZoneCanvas) *zoneCanvasRenderer {
	r := &zoneCanvasRenderer{zc: zc}
	r.rebuild()
	return r
}

func (r *zoneCanvasRenderer) rebuild() {
	r.objects = nil

	zc := r.zc
	size := zc.Size()
	vp := zc.ctrl.Viewport(zc.zone)

	bgColor := bufferBackground
	if zc.zone == model.ZoneWork {
		bgColor = workBackground
	}
	bg := canvas.NewRectangle(bgColor)
	bg.Resize(size)
	r.objects = append(r.objects, bg)

	if zc.zone == model.ZoneWork {
		r.drawGrid(size)
	}

	dragID, dragging := zc.ctrl.Dragging()
	for _, p := range zc.board.ByZone(zc.zone) {
		col := polyColors[p.ID%len(polyColors)]
		width := float32(1.5)
		if dragging && p.ID == dragID {
			width = 3
		}

		silhouette := p.Silhouette()
		pts := make([]fyne.Position, len(silhouette))
		for i, v := range silhouette {
			l := vp.FromWorld(vec.Vec2{X: v.X, Y: v.Y})
			pts[i] = fyne.NewPos(float32(l.X), float32(l.Y))
		}
		for i := range pts {
			edge := canvas.NewLine(col)
			edge.StrokeWidth = width
			edge.Position1 = pts[i]
			edge.Position2 = pts[(i+1)%len(pts)]
			r.objects = append(r.objects, edge)
		}

		min, max := p.Bounds()
		tl := vp.FromWorld(vec.Vec2{X: min.X, Y: min.Y})
		br := vp.FromWorld(vec.Vec2{X: max.X, Y: max.Y})
		if br.X-tl.X > 24 && br.Y-tl.Y > 14 {
			label := canvas.NewText(fmt.Sprintf("#%d", p.ID), col)
			label.TextSize = 9
			label.Move(fyne.NewPos(float32(tl.X)+2, float32(tl.Y)+1))
			r.objects = append(r.objects, label)
		}
	}

	// Highlight every zone as a drop target while a drag is in progress
	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = borderColor
	border.StrokeWidth = 1
	if dragging {
		border.StrokeColor = dropColor
		border.StrokeWidth = 2
	}
	border.Resize(size)
	r.objects = append(r.objects, border)
}

func (r *zoneCanvasRenderer) drawGrid(size fyne.Size) {
	for _, gl := range r.zc.ctrl.Viewport(model.ZoneWork).Grid(gridSpacing) {
		line := canvas.NewLine(gridColor)
		line.StrokeWidth = 1
		label := canvas.NewText(gl.Label, gridLabelColor)
		label.TextSize = 8

		pos := float32(gl.Pos)
		if gl.Vertical {
			line.Position1 = fyne.NewPos(pos, 0)
			line.Position2 = fyne.NewPos(pos, size.Height)
			label.Move(fyne.NewPos(pos+2, 2))
		} else {
			line.Position1 = fyne.NewPos(0, pos)
			line.Position2 = fyne.NewPos(size.Width, pos)
			label.Move(fyne.NewPos(2, pos+1))
		}
		r.objects = append(r.objects, line, label)
	}
}

func (r *zoneCanvasRenderer) Layout(size fyne.Size) {
	r.zc.SyncBounds()
	r.rebuild()
}

func (r *zoneCanvasRenderer) Refresh() {
	r.rebuild()
	canvas.Refresh(r.zc)
}

func (r *zoneCanvasRenderer) Destroy()                     {}
func (r *zoneCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }

func (r *zoneCanvasRenderer) MinSize() fyne.Size {
	if r.zc.zone == model.ZoneBuffer {
		return fyne.NewSize(320, 180)
	}
	return fyne.NewSize(320, 240)
}
