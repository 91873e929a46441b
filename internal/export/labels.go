package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"
	"github.com/piwi3910/polyboard/internal/model"
	qrcode "github.com/skip2/go-qrcode"
)

// LabelInfo is the JSON payload of a polygon label's QR code.
type LabelInfo struct {
	Batch    string  `json:"batch"` // Shared by every label of one export
	ID       int     `json:"id"`
	Zone     string  `json:"zone"`
	Vertices int     `json:"vertices"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

// Avery 5160 sheet on US Letter: 3 x 10 cells of 66.7 x 25.4 mm.
const (
	sheetTop    = 12.7
	sheetLeft   = 4.8
	cellW       = 66.7
	cellH       = 25.4
	sheetCols   = 3
	sheetRows   = 10
	cellPad     = 2.0
	qrSide      = 20.0
	thumbSide   = 9.0
	qrPixels    = 256
	cellsOnPage = sheetCols * sheetRows
)

var pngImage = fpdf.ImageOptions{ImageType: "PNG"}

// cellOrigin returns the top-left corner of the i-th label and whether it
// starts a new page.
func cellOrigin(i int) (x, y float64, newPage bool) {
	slot := i % cellsOnPage
	x = sheetLeft + float64(slot%sheetCols)*cellW
	y = sheetTop + float64(slot/sheetCols)*cellH
	return x, y, slot == 0
}

// ExportLabels writes a sheet of QR-coded labels, one per polygon, and
// returns the batch id stamped on all of them. Each label carries the id,
// a thumbnail of the outline, the size, the position and a QR code of its
// LabelInfo.
func ExportLabels(path string, snap model.Snapshot) (string, error) {
	batch := uuid.New().String()
	infos := CollectLabelInfos(snap, batch)
	if len(infos) == 0 {
		return "", ErrEmptyBoard
	}

	outlines := make(map[int]model.Outline, len(snap.Polygons))
	for _, p := range snap.Polygons {
		outlines[p.ID] = p.Points
	}

	doc := pdfDoc{fpdf.New("P", "mm", "Letter", "")}
	doc.SetAutoPageBreak(false, 0)
	for i, info := range infos {
		x, y, fresh := cellOrigin(i)
		if fresh {
			doc.AddPage()
		}
		if err := doc.label(x, y, info, outlines[info.ID]); err != nil {
			return "", fmt.Errorf("label for polygon %d: %w", info.ID, err)
		}
	}

	if err := doc.OutputFileAndClose(path); err != nil {
		return "", err
	}
	return batch, nil
}

func (d pdfDoc) label(x, y float64, info LabelInfo, outline model.Outline) error {
	payload, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("encoding label payload: %w", err)
	}
	png, err := qrcode.Encode(string(payload), qrcode.Medium, qrPixels)
	if err != nil {
		return fmt.Errorf("encoding QR code: %w", err)
	}

	// cutting guide
	d.SetDrawColor(200, 200, 200)
	d.SetLineWidth(0.1)
	d.Rect(x, y, cellW, cellH, "D")

	name := fmt.Sprintf("qr-%s-%d", info.Batch, info.ID)
	d.RegisterImageOptionsReader(name, pngImage, bytes.NewReader(png))
	d.ImageOptions(name, x+cellW-qrSide-cellPad, y+(cellH-qrSide)/2, qrSide, qrSide, false, pngImage, 0, "")

	d.thumbnail(x+cellPad, y+(cellH-thumbSide)/2, outline, colorFor(info.ID))

	tx := x + thumbSide + 2*cellPad
	tw := cellW - qrSide - thumbSide - 4*cellPad
	lines := []struct {
		style string
		size  float64
		grey  int
		h     float64
		text  string
	}{
		{"B", 9, 0, 4.5, fmt.Sprintf("Polygon #%d", info.ID)},
		{"", 7, 0, 3.5, fmt.Sprintf("%.0f x %.0f, %d vertices", info.Width, info.Height, info.Vertices)},
		{"", 6, 100, 3, fmt.Sprintf("%s @ (%.0f, %.0f)", info.Zone, info.X, info.Y)},
	}
	ty := y + cellPad
	for _, l := range lines {
		d.SetFont("Helvetica", l.style, l.size)
		d.SetTextColor(l.grey, l.grey, l.grey)
		d.text(tx, ty, tw, l.h, l.text, "L")
		ty += l.h + 0.5
	}
	d.SetTextColor(0, 0, 0)
	return nil
}

// thumbnail draws the outline scaled into a thumbSide square at (x, y).
func (d pdfDoc) thumbnail(x, y float64, outline model.Outline, col polyColor) {
	if len(outline) < 3 {
		return
	}
	o := outline.Normalize()
	w, h := o.Size()
	side := max(w, h)
	if side <= 0 {
		return
	}
	pts := make([]fpdf.PointType, 0, len(o))
	for _, p := range o {
		pts = append(pts, fpdf.PointType{X: x + p.X*thumbSide/side, Y: y + p.Y*thumbSide/side})
	}
	d.SetFillColor(col.R, col.G, col.B)
	d.SetDrawColor(30, 30, 30)
	d.SetLineWidth(0.1)
	d.Polygon(pts, "FD")
}

// CollectLabelInfos returns one LabelInfo per polygon, buffer zone first.
func CollectLabelInfos(snap model.Snapshot, batch string) []LabelInfo {
	infos := make([]LabelInfo, 0, len(snap.Polygons))
	for _, z := range model.Zones {
		for _, p := range snap.Polygons {
			if p.Zone != z {
				continue
			}
			w, h := p.Points.Size()
			infos = append(infos, LabelInfo{
				Batch: batch, ID: p.ID, Zone: string(p.Zone), Vertices: len(p.Points),
				Width: w, Height: h, X: p.Pos.X, Y: p.Pos.Y,
			})
		}
	}
	return infos
}
