package export

import (
	"fmt"
	"math"
	"strconv"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/polyboard/internal/model"
)

// A4 landscape, in mm.
const (
	pageW    = 297.0
	pageH    = 210.0
	margin   = 15.0
	titleH   = 12.0
	legendH  = 20.0
	rowH     = 6.0
	contentW = pageW - 2*margin
)

// pdfDoc adds the few text helpers the board pages share.
type pdfDoc struct {
	*fpdf.Fpdf
}

func (d pdfDoc) text(x, y, w, h float64, s, align string) {
	d.SetXY(x, y)
	d.CellFormat(w, h, s, "", 0, align, false, 0, "")
}

// centred writes s centred on x at the given baseline box.
func (d pdfDoc) centred(x, y, h float64, s string) {
	w := d.GetStringWidth(s)
	d.text(x-w/2, y, w, h, s, "C")
}

// pageMap maps a world frame onto a page rectangle with a uniform scale.
type pageMap struct {
	origin model.Point2D
	scale  float64
	x, y   float64 // page position of origin
	w, h   float64 // page size of the frame
}

func newPageMap(min, max model.Point2D, x, y, maxW, maxH float64) pageMap {
	fw, fh := max.X-min.X, max.Y-min.Y
	s := math.Min(maxW/fw, maxH/fh)
	m := pageMap{origin: min, scale: s, w: fw * s, h: fh * s, y: y}
	m.x = x + (maxW-m.w)/2
	return m
}

func (m pageMap) at(p model.Point2D) fpdf.PointType {
	return fpdf.PointType{X: m.x + (p.X-m.origin.X)*m.scale, Y: m.y + (p.Y-m.origin.Y)*m.scale}
}

// ExportPDF writes one page per zone followed by a summary table of every
// polygon.
func ExportPDF(path string, board Board) error {
	if board.Empty() {
		return ErrEmptyBoard
	}

	doc := pdfDoc{fpdf.New("L", "mm", "A4", "")}
	doc.SetAutoPageBreak(false, margin)
	for _, z := range model.Zones {
		doc.AddPage()
		doc.zonePage(board, z)
	}
	doc.AddPage()
	doc.summaryPage(board)
	return doc.OutputFileAndClose(path)
}

func (d pdfDoc) zonePage(board Board, z model.Zone) {
	polys := board.Zone(z)
	min, max := board.Frame(z)

	d.SetFont("Helvetica", "B", 14)
	d.text(margin, margin, contentW, titleH, fmt.Sprintf("%s (%d polygons)", zoneTitle(z), len(polys)), "L")
	d.SetFont("Helvetica", "", 10)
	d.text(margin, margin+titleH, contentW, 5, fmt.Sprintf("Extent: %.0f x %.0f | Covered area: %.0f | Vertices: %d",
		max.X-min.X, max.Y-min.Y, totalArea(polys), totalVertices(polys)), "L")

	top := margin + titleH + 5
	m := newPageMap(min, max, margin, top, contentW, pageH-top-margin-legendH)

	if z == model.ZoneWork {
		d.SetFillColor(250, 250, 255)
	} else {
		d.SetFillColor(245, 245, 240)
	}
	d.SetDrawColor(100, 100, 100)
	d.SetLineWidth(0.5)
	d.Rect(m.x, m.y, m.w, m.h, "FD")

	for _, p := range polys {
		d.polygon(m, p)
	}

	// extent labels below and left of the frame
	d.SetFont("Helvetica", "", 8)
	d.SetTextColor(80, 80, 80)
	d.centred(m.x+m.w/2, m.y+m.h+1, 4, strconv.FormatFloat(max.X-min.X, 'f', 0, 64))
	d.TransformBegin()
	d.TransformRotate(90, m.x-3, m.y+m.h/2)
	d.centred(m.x-3, m.y+m.h/2-2, 4, strconv.FormatFloat(max.Y-min.Y, 'f', 0, 64))
	d.TransformEnd()
	d.SetTextColor(0, 0, 0)

	d.legend(polys, m.y+m.h+6)
}

func (d pdfDoc) polygon(m pageMap, p model.Polygon) {
	sil := p.Silhouette()
	pts := make([]fpdf.PointType, 0, len(sil))
	for _, v := range sil {
		pts = append(pts, m.at(v))
	}
	col := colorFor(p.ID)
	d.SetFillColor(col.R, col.G, col.B)
	d.SetDrawColor(30, 30, 30)
	d.SetLineWidth(0.3)
	d.Polygon(pts, "FD")

	lo, hi := p.Bounds()
	w, h := (hi.X-lo.X)*m.scale, (hi.Y-lo.Y)*m.scale
	if w <= 8 || h <= 5 {
		return
	}
	c := m.at(model.Point2D{X: (lo.X + hi.X) / 2, Y: (lo.Y + hi.Y) / 2})
	d.SetFont("Helvetica", "", labelFontSize(w, h))
	d.centred(c.X, c.Y-2, 4, polygonName(p))
}

// legend lists the zone's polygons as colour swatches, wrapping lines until
// the page runs out.
func (d pdfDoc) legend(polys []model.Polygon, y float64) {
	if len(polys) == 0 {
		return
	}
	d.SetFont("Helvetica", "B", 8)
	d.text(margin, y, 30, 4, "Polygons:", "L")
	d.SetFont("Helvetica", "", 7)

	x := margin + 32
	for _, p := range polys {
		entry := fmt.Sprintf("%s (%d pts)", polygonName(p), len(p.Points))
		w := d.GetStringWidth(entry) + 6
		if x+w > pageW-margin {
			x, y = margin, y+5
			if y > pageH-margin {
				return
			}
		}
		col := colorFor(p.ID)
		d.SetFillColor(col.R, col.G, col.B)
		d.Rect(x, y+0.5, 3, 3, "F")
		d.text(x+4, y, w-4, 4, entry, "L")
		x += w + 2
	}
}

var summaryColumns = []struct {
	title string
	width float64
}{
	{"ID", 20}, {"Zone", 30}, {"Vertices", 25}, {"Position", 60}, {"Size", 50}, {"Area", 40},
}

func (d pdfDoc) tableRow(y float64, cells []string, fill bool) {
	x := margin
	for i, c := range cells {
		d.SetXY(x, y)
		d.CellFormat(summaryColumns[i].width, rowH, c, "1", 0, "C", fill, 0, "")
		x += summaryColumns[i].width
	}
}

func (d pdfDoc) tableHeader(y float64) {
	titles := make([]string, len(summaryColumns))
	for i, c := range summaryColumns {
		titles[i] = c.title
	}
	d.SetFont("Helvetica", "B", 9)
	d.SetFillColor(230, 230, 230)
	d.tableRow(y, titles, true)
	d.SetFont("Helvetica", "", 9)
}

func (d pdfDoc) summaryPage(board Board) {
	snap := board.Snapshot

	d.SetFont("Helvetica", "B", 16)
	d.text(margin, margin, contentW, 10, "Board Summary", "L")
	d.SetDrawColor(0, 0, 0)
	d.SetLineWidth(0.5)
	d.Line(margin, margin+12, pageW-margin, margin+12)

	facts := [][2]string{
		{"Buffer polygons", strconv.Itoa(snap.Count(model.ZoneBuffer))},
		{"Work polygons", strconv.Itoa(snap.Count(model.ZoneWork))},
		{"Buffer size", fmt.Sprintf("%.0f x %.0f", board.BufferWidth, board.BufferHeight)},
		{"Work view", fmt.Sprintf("scale %.2f, offset (%.1f, %.1f)", snap.View.Scale, snap.View.TX, snap.View.TY)},
	}
	y := margin + 18
	for _, f := range facts {
		d.SetFont("Helvetica", "", 10)
		d.text(margin+5, y, 60, rowH, f[0]+":", "L")
		d.SetFont("Helvetica", "B", 10)
		d.CellFormat(80, rowH, f[1], "", 0, "L", false, 0, "")
		y += 7
	}

	y += 5
	d.tableHeader(y)
	y += rowH
	for i, p := range snap.Polygons {
		if y+rowH > pageH-margin {
			d.AddPage()
			y = margin
			d.tableHeader(y)
			y += rowH
		}
		if i%2 == 0 {
			d.SetFillColor(245, 245, 245)
		} else {
			d.SetFillColor(255, 255, 255)
		}
		w, h := p.Points.Size()
		d.tableRow(y, []string{
			strconv.Itoa(p.ID),
			string(p.Zone),
			strconv.Itoa(len(p.Points)),
			fmt.Sprintf("(%.1f, %.1f)", p.Pos.X, p.Pos.Y),
			fmt.Sprintf("%.1f x %.1f", w, h),
			fmt.Sprintf("%.0f", p.Points.Area()),
		}, true)
		y += rowH
	}

	d.SetFont("Helvetica", "I", 8)
	d.SetTextColor(120, 120, 120)
	d.text(margin, pageH-margin, contentW, 4, "Generated by PolyBoard", "C")
	d.SetTextColor(0, 0, 0)
}

// labelFontSize sizes polygon labels by the smaller side of their on-page box.
func labelFontSize(w, h float64) float64 {
	side := math.Min(w, h)
	if side > 40 {
		return 8
	}
	if side > 20 {
		return 7
	}
	return 6
}

func totalArea(polys []model.Polygon) (a float64) {
	for _, p := range polys {
		a += p.Points.Area()
	}
	return a
}

func totalVertices(polys []model.Polygon) (n int) {
	for _, p := range polys {
		n += len(p.Points)
	}
	return n
}
