package export

import (
	"fmt"
	"io"
	"math"
	"os"

	svg "github.com/ajstarks/svgo"
	"github.com/piwi3910/polyboard/internal/model"
)

// SVG layout, in output pixels.
const (
	svgMargin   = 20
	svgGap      = 40
	svgTitle    = 24
	svgMaxWidth = 1200.0
)

// ExportSVG writes both zones stacked vertically into an SVG file.
func ExportSVG(path string, board Board) error {
	if board.Empty() {
		return ErrEmptyBoard
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create svg file: %w", err)
	}
	if err := WriteSVG(f, board); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteSVG renders the board as SVG to w. Each zone is scaled to a common
// maximum width; coordinates are rounded to whole pixels.
func WriteSVG(w io.Writer, board Board) error {
	type zoneLayout struct {
		zone     model.Zone
		min      model.Point2D
		scale    float64
		w, h, y0 int
	}

	var layouts []zoneLayout
	width := 0
	y := svgMargin
	for _, z := range model.Zones {
		min, max := board.Frame(z)
		fw, fh := max.X-min.X, max.Y-min.Y
		scale := math.Min(1, svgMaxWidth/fw)
		l := zoneLayout{
			zone:  z,
			min:   min,
			scale: scale,
			w:     int(math.Ceil(fw * scale)),
			h:     int(math.Ceil(fh * scale)),
			y0:    y + svgTitle,
		}
		layouts = append(layouts, l)
		y = l.y0 + l.h + svgGap
		if l.w > width {
			width = l.w
		}
	}
	height := y - svgGap + svgMargin
	width += 2 * svgMargin

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:rgb(255,255,255)")

	for _, l := range layouts {
		polys := board.Zone(l.zone)
		canvas.Text(svgMargin, l.y0-8, fmt.Sprintf("%s (%d)", zoneTitle(l.zone), len(polys)),
			"font-family:sans-serif;font-size:14px;font-weight:bold;fill:#333")
		canvas.Rect(svgMargin, l.y0, l.w, l.h, "fill:#fafafa;stroke:#999;stroke-width:1")

		for _, p := range polys {
			silhouette := p.Silhouette()
			xs := make([]int, len(silhouette))
			ys := make([]int, len(silhouette))
			for i, v := range silhouette {
				xs[i] = svgMargin + int(math.Round((v.X-l.min.X)*l.scale))
				ys[i] = l.y0 + int(math.Round((v.Y-l.min.Y)*l.scale))
			}
			col := colorFor(p.ID)
			style := fmt.Sprintf("fill:rgb(%d,%d,%d);fill-opacity:0.8;stroke:#1e1e1e;stroke-width:1", col.R, col.G, col.B)
			canvas.Polygon(xs, ys, style)

			lo, hi := p.Bounds()
			cx := svgMargin + int(math.Round(((lo.X+hi.X)/2-l.min.X)*l.scale))
			cy := l.y0 + int(math.Round(((lo.Y+hi.Y)/2-l.min.Y)*l.scale))
			canvas.Text(cx, cy+4, polygonName(p), "text-anchor:middle;font-family:sans-serif;font-size:10px;fill:#000")
		}
	}

	canvas.End()
	return nil
}
