// Package export writes the board state to PDF, SVG, XLSX and DXF files.
package export

import (
	"errors"
	"fmt"
	"math"

	"github.com/piwi3910/polyboard/internal/model"
)

// polyColor represents an RGB color for a polygon.
type polyColor struct {
	R, G, B int
}

// polyColors mirrors the color scheme used in the zone canvas widget.
var polyColors = []polyColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// colorFor picks the palette entry of polygon id.
func colorFor(id int) polyColor {
	if id < 0 {
		id = -id
	}
	return polyColors[id%len(polyColors)]
}

// ErrEmptyBoard is returned by every exporter when there is nothing to write.
var ErrEmptyBoard = errors.New("no polygons to export")

// framePadding is the world-space gap kept around the work zone content.
const framePadding = 20.0

// Board is the exported state: the snapshot plus the buffer container size
// the polygons were packed into.
type Board struct {
	Snapshot     model.Snapshot
	BufferWidth  float64
	BufferHeight float64
}

// NewBoard bundles a snapshot with the buffer size, falling back to the
// default container when the size is unusable.
func NewBoard(snap model.Snapshot, bufferWidth, bufferHeight float64) Board {
	cfg := model.AppConfig{BufferWidth: bufferWidth, BufferHeight: bufferHeight}
	w, h := cfg.BufferSize()
	return Board{Snapshot: snap, BufferWidth: w, BufferHeight: h}
}

// Empty reports whether the board holds no polygons at all.
func (b Board) Empty() bool {
	return len(b.Snapshot.Polygons) == 0
}

// Zone returns the polygons of zone z in insertion order.
func (b Board) Zone(z model.Zone) []model.Polygon {
	var out []model.Polygon
	for _, p := range b.Snapshot.Polygons {
		if p.Zone == z {
			out = append(out, p)
		}
	}
	return out
}

// Frame returns the region of zone z worth drawing. The buffer frame is its
// container, grown if anything sticks out. The work zone frame is the padded
// extent of its content.
func (b Board) Frame(z model.Zone) (min, max model.Point2D) {
	polys := b.Zone(z)
	if z == model.ZoneBuffer {
		min = model.Point2D{}
		max = model.Point2D{X: b.BufferWidth, Y: b.BufferHeight}
	} else if len(polys) == 0 {
		return model.Point2D{}, model.Point2D{X: 100, Y: 100}
	} else {
		min = model.Point2D{X: math.Inf(1), Y: math.Inf(1)}
		max = model.Point2D{X: math.Inf(-1), Y: math.Inf(-1)}
	}

	for _, p := range polys {
		lo, hi := p.Bounds()
		min.X = math.Min(min.X, lo.X)
		min.Y = math.Min(min.Y, lo.Y)
		max.X = math.Max(max.X, hi.X)
		max.Y = math.Max(max.Y, hi.Y)
	}

	if z == model.ZoneWork {
		min = min.Sub(model.Point2D{X: framePadding, Y: framePadding})
		max = max.Add(model.Point2D{X: framePadding, Y: framePadding})
	}
	return min, max
}

// zoneTitle is the heading used for zone z in every export.
func zoneTitle(z model.Zone) string {
	switch z {
	case model.ZoneBuffer:
		return "Buffer zone"
	case model.ZoneWork:
		return "Work zone"
	}
	return string(z)
}

// polygonName is the short label of a polygon.
func polygonName(p model.Polygon) string {
	return fmt.Sprintf("#%d", p.ID)
}
