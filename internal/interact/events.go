package interact

import (
	"time"

	"github.com/piwi3910/polyboard/internal/model"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// Phase is the stage of a pointer gesture.
type Phase int

const (
	Down Phase = iota
	Move
	Up
)

func (p Phase) String() string {
	switch p {
	case Down:
		return "down"
	case Move:
		return "move"
	case Up:
		return "up"
	}
	return "unknown"
}

// PointerEvent is a pointer press, motion or release in screen coordinates.
type PointerEvent struct {
	Phase  Phase
	Pos    vec.Vec2
	At     time.Time
	Target int        // Polygon under the pointer on Down, 0 for none
	Zone   model.Zone // Zone the Target lives in
}

// WheelEvent is a scroll notch. Positive Delta scrolls up.
type WheelEvent struct {
	Pos   vec.Vec2
	Delta float64
}

// ResizeEvent reports the new screen rectangle of a zone.
type ResizeEvent struct {
	Zone   model.Zone
	Bounds rect.Rect
}
