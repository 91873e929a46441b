package importer

import (
	"fmt"
	"math"
	"sort"

	"github.com/piwi3910/polyboard/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"
)

const (
	circleSegments = 32
	arcSegments    = 16
	chainTolerance = 0.01
	minShapeSize   = 0.01
)

// segment is a loose edge from a LINE or a flattened ARC, waiting to be
// chained into a closed outline.
type segment struct {
	start model.Point2D
	end   model.Point2D
}

// dxfShapes collects the closed outlines and loose segments of a drawing.
type dxfShapes struct {
	closed []model.Outline
	loose  []segment
	result *ImportResult
}

func (s *dxfShapes) visit(ent entity.Entity) {
	switch e := ent.(type) {
	case *entity.LwPolyline:
		if o := lwPolylineToOutline(e); len(o) >= 3 {
			s.closed = append(s.closed, o)
		} else {
			s.result.warnf("Skipped LWPOLYLINE with %d vertices", len(o))
		}
	case *entity.Circle:
		s.closed = append(s.closed, circleToOutline(e, circleSegments))
	case *entity.Arc:
		pts := arcToPoints(e, arcSegments)
		for i := 1; i < len(pts); i++ {
			s.loose = append(s.loose, segment{start: pts[i-1], end: pts[i]})
		}
	case *entity.Line:
		s.loose = append(s.loose, segment{
			start: model.Point2D{X: e.Start[0], Y: e.Start[1]},
			end:   model.Point2D{X: e.End[0], Y: e.End[1]},
		})
	}
}

// ImportDXF reads closed shapes from a DXF drawing: LWPOLYLINEs, CIRCLEs and
// chains of LINEs and ARCs. DXF is y-up, so shapes are mirrored into board
// space and normalized to the origin.
func ImportDXF(path string) ImportResult {
	var result ImportResult

	drawing, err := dxf.Open(path)
	if err != nil {
		result.errorf("Cannot open DXF file: %v", err)
		return result
	}
	ents := drawing.Entities()
	if len(ents) == 0 {
		result.errorf("DXF file contains no entities")
		return result
	}

	shapes := dxfShapes{result: &result}
	for _, ent := range ents {
		shapes.visit(ent)
	}
	outlines := append(shapes.closed, chainSegments(shapes.loose, chainTolerance)...)

	for i, o := range outlines {
		mirrored := make(model.Outline, len(o))
		for j, p := range o {
			mirrored[j] = model.Point2D{X: p.X, Y: -p.Y}
		}
		mirrored = mirrored.Normalize()
		if w, h := mirrored.Size(); w < minShapeSize || h < minShapeSize {
			result.warnf("Skipped degenerate shape (%.2f x %.2f)", w, h)
			continue
		}
		result.add(fmt.Sprintf("DXF shape %d", i+1), mirrored)
	}

	if len(result.Outlines) == 0 && len(result.Errors) == 0 {
		result.errorf("No closed shapes found in DXF file")
	}
	return result
}

// sampleArc returns n+1 points on the circle (c, r) starting at angle from
// and turning by sweep radians.
func sampleArc(c model.Point2D, r, from, sweep float64, n int) []model.Point2D {
	pts := make([]model.Point2D, n+1)
	for i := range pts {
		a := from + sweep*float64(i)/float64(n)
		pts[i] = model.Point2D{X: c.X + r*math.Cos(a), Y: c.Y + r*math.Sin(a)}
	}
	return pts
}

// lwPolylineToOutline flattens a LWPOLYLINE, expanding bulged edges into arcs.
func lwPolylineToOutline(lw *entity.LwPolyline) model.Outline {
	n := len(lw.Vertices)
	var o model.Outline
	for i, v := range lw.Vertices {
		p := model.Point2D{X: v[0], Y: v[1]}
		var bulge float64
		if i < len(lw.Bulges) {
			bulge = lw.Bulges[i]
		}
		if math.Abs(bulge) <= 1e-9 {
			o = append(o, p)
			continue
		}
		next := lw.Vertices[(i+1)%n]
		arc := bulgeArcPoints(p, model.Point2D{X: next[0], Y: next[1]}, bulge, arcSegments)
		o = append(o, arc[:len(arc)-1]...)
	}
	return o
}

// bulgeArcPoints flattens the edge p1->p2 with DXF bulge b (tangent of a
// quarter of the included angle, positive counter-clockwise) into n+1 points
// ending exactly at p2.
func bulgeArcPoints(p1, p2 model.Point2D, b float64, n int) model.Outline {
	d := p2.Sub(p1)
	chord := math.Hypot(d.X, d.Y)
	if chord < 1e-9 {
		return model.Outline{p1, p2}
	}

	// centre offset along the chord's left normal, negative past a semicircle
	off := chord * (1 - b*b) / (4 * b)
	centre := model.Point2D{
		X: (p1.X+p2.X)/2 - d.Y/chord*off,
		Y: (p1.Y+p2.Y)/2 + d.X/chord*off,
	}
	r := chord * (1 + b*b) / (4 * math.Abs(b))
	from := math.Atan2(p1.Y-centre.Y, p1.X-centre.X)

	pts := sampleArc(centre, r, from, 4*math.Atan(b), n)
	pts[n] = p2
	return pts
}

func circleToOutline(c *entity.Circle, n int) model.Outline {
	centre := model.Point2D{X: c.Center[0], Y: c.Center[1]}
	return sampleArc(centre, c.Radius, 0, 2*math.Pi, n)[:n]
}

// arcToPoints flattens an ARC, which runs counter-clockwise from its start
// angle to its end angle in degrees.
func arcToPoints(a *entity.Arc, n int) []model.Point2D {
	centre := model.Point2D{X: a.Circle.Center[0], Y: a.Circle.Center[1]}
	from := a.Angle[0] * math.Pi / 180
	sweep := a.Angle[1]*math.Pi/180 - from
	if sweep <= 0 {
		sweep += 2 * math.Pi
	}
	return sampleArc(centre, a.Circle.Radius, from, sweep, n)
}

func near(a, b model.Point2D, tol float64) bool {
	return math.Hypot(a.X-b.X, a.Y-b.Y) <= tol
}

// chainSegments links segments end to end into closed outlines, largest
// first. Chains that do not return to their start are dropped.
func chainSegments(segs []segment, tol float64) []model.Outline {
	used := make([]bool, len(segs))

	// nextFrom finds an unused segment touching p and returns its far end.
	nextFrom := func(p model.Point2D) (model.Point2D, bool) {
		for i, s := range segs {
			if used[i] {
				continue
			}
			if near(p, s.start, tol) {
				used[i] = true
				return s.end, true
			}
			if near(p, s.end, tol) {
				used[i] = true
				return s.start, true
			}
		}
		return model.Point2D{}, false
	}

	var outlines []model.Outline
	for i, s := range segs {
		if used[i] {
			continue
		}
		used[i] = true
		chain := model.Outline{s.start, s.end}
		for {
			p, ok := nextFrom(chain[len(chain)-1])
			if !ok {
				break
			}
			chain = append(chain, p)
		}
		if len(chain) >= 4 && near(chain[0], chain[len(chain)-1], tol) {
			outlines = append(outlines, chain[:len(chain)-1])
		}
	}

	sort.SliceStable(outlines, func(i, j int) bool { return outlines[i].Area() > outlines[j].Area() })
	return outlines
}
