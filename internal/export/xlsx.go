package export

import (
	"fmt"

	"github.com/piwi3910/polyboard/internal/model"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the workbook export. The vertex sheet is the one the
// importer reads back.
const (
	PolygonsSheet = "Polygons"
	VerticesSheet = "Vertices"
)

var (
	polygonHeaders = []string{"ID", "Zone", "X", "Y", "Vertices", "Width", "Height", "Area"}
	vertexHeaders  = []string{"Polygon", "Index", "X", "Y"}
)

// ExportXLSX writes the snapshot to an Excel workbook with one row per
// polygon on the Polygons sheet and one row per vertex on the Vertices sheet.
// Vertex coordinates are relative to the polygon position.
func ExportXLSX(path string, snap model.Snapshot) error {
	if len(snap.Polygons) == 0 {
		return ErrEmptyBoard
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), PolygonsSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if _, err := f.NewSheet(VerticesSheet); err != nil {
		return fmt.Errorf("failed to add sheet: %w", err)
	}

	if err := writeRow(f, PolygonsSheet, 1, toCells(polygonHeaders)); err != nil {
		return err
	}
	if err := writeRow(f, VerticesSheet, 1, toCells(vertexHeaders)); err != nil {
		return err
	}

	vrow := 2
	for i, p := range snap.Polygons {
		w, h := p.Points.Size()
		cells := []interface{}{p.ID, string(p.Zone), p.Pos.X, p.Pos.Y, len(p.Points), w, h, p.Points.Area()}
		if err := writeRow(f, PolygonsSheet, i+2, cells); err != nil {
			return err
		}

		for j, v := range p.Points {
			if err := writeRow(f, VerticesSheet, vrow, []interface{}{p.ID, j + 1, v.X, v.Y}); err != nil {
				return err
			}
			vrow++
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// writeRow fills consecutive cells of a row starting at column A.
func writeRow(f *excelize.File, sheet string, row int, cells []interface{}) error {
	for col, v := range cells {
		name, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, name, v); err != nil {
			return fmt.Errorf("failed to write %s!%s: %w", sheet, name, err)
		}
	}
	return nil
}

func toCells(s []string) []interface{} {
	out := make([]interface{}, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}
