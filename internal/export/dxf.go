package export

import (
	"fmt"

	"github.com/piwi3910/polyboard/internal/model"
	"github.com/yofu/dxf"
)

// ExportDXF writes every polygon as a closed LWPOLYLINE on a layer named
// after its zone. DXF is y-up, so y coordinates are negated.
func ExportDXF(path string, snap model.Snapshot) error {
	if len(snap.Polygons) == 0 {
		return ErrEmptyBoard
	}

	d := dxf.NewDrawing()
	for _, z := range model.Zones {
		if snap.Count(z) == 0 {
			continue
		}
		if _, err := d.AddLayer(string(z), dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
			return fmt.Errorf("failed to add layer %s: %w", z, err)
		}
		for _, p := range snap.Polygons {
			if p.Zone != z {
				continue
			}
			silhouette := p.Silhouette()
			verts := make([][]float64, len(silhouette))
			for i, v := range silhouette {
				verts[i] = []float64{v.X, -v.Y}
			}
			if _, err := d.LwPolyline(true, verts...); err != nil {
				return fmt.Errorf("failed to write polygon %d: %w", p.ID, err)
			}
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save dxf: %w", err)
	}
	return nil
}
