package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/piwi3910/polyboard/internal/model"
)

// boardReport is the printable summary of a board.
type boardReport struct {
	State    string       `json:"state" yaml:"state"`
	Buffer   int          `json:"buffer" yaml:"buffer"`
	Work     int          `json:"work" yaml:"work"`
	NextID   int          `json:"next_id" yaml:"next_id"`
	View     model.View   `json:"view" yaml:"view"`
	Polygons []polygonRow `json:"polygons" yaml:"polygons"`
}

type polygonRow struct {
	ID       int        `json:"id" yaml:"id"`
	Zone     model.Zone `json:"zone" yaml:"zone"`
	X        float64    `json:"x" yaml:"x"`
	Y        float64    `json:"y" yaml:"y"`
	Width    float64    `json:"width" yaml:"width"`
	Height   float64    `json:"height" yaml:"height"`
	Vertices int        `json:"vertices" yaml:"vertices"`
	Area     float64    `json:"area" yaml:"area"`
}

// buildReport summarizes the session board. An empty zone lists every
// polygon, buffer first.
func buildReport(s *session, only model.Zone) boardReport {
	buffer, work := s.store.Counts()
	r := boardReport{
		State:    s.statePath,
		Buffer:   buffer,
		Work:     work,
		NextID:   s.store.NextID(),
		View:     s.store.View(),
		Polygons: []polygonRow{},
	}
	for _, z := range model.Zones {
		if only != "" && z != only {
			continue
		}
		for _, p := range s.store.ByZone(z) {
			w, h := p.Points.Size()
			r.Polygons = append(r.Polygons, polygonRow{
				ID:       p.ID,
				Zone:     p.Zone,
				X:        p.Pos.X,
				Y:        p.Pos.Y,
				Width:    w,
				Height:   h,
				Vertices: len(p.Points),
				Area:     p.Points.Area(),
			})
		}
	}
	return r
}

func printBoard(out io.Writer, r boardReport, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	case "text", "":
		printBoardText(out, r)
		return nil
	}
	return fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
}

func printBoardText(out io.Writer, r boardReport) {
	fmt.Fprintf(out, "State: %s\n", r.State)
	fmt.Fprintf(out, "Buffer zone: %d polygons\n", r.Buffer)
	fmt.Fprintf(out, "Work zone:   %d polygons\n", r.Work)
	fmt.Fprintf(out, "View:        scale %g, tx %g, ty %g\n", r.View.Scale, r.View.TX, r.View.TY)
	if len(r.Polygons) == 0 {
		return
	}

	fmt.Fprintln(out)
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tZONE\tX\tY\tSIZE\tVERTS\tAREA")
	for _, p := range r.Polygons {
		fmt.Fprintf(tw, "%d\t%s\t%.1f\t%.1f\t%.0fx%.0f\t%d\t%.0f\n",
			p.ID, p.Zone, p.X, p.Y, p.Width, p.Height, p.Vertices, p.Area)
	}
	tw.Flush()
}
