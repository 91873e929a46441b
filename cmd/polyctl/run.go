package main

import (
	"fmt"
	"io"
	"log"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/piwi3910/polyboard/internal/engine"
	"github.com/piwi3910/polyboard/internal/export"
	"github.com/piwi3910/polyboard/internal/importer"
	"github.com/piwi3910/polyboard/internal/model"
	"github.com/piwi3910/polyboard/internal/project"
	"github.com/piwi3910/polyboard/internal/store"
)

// session is an opened state file plus the config it was resolved from.
type session struct {
	config     model.AppConfig
	configPath string
	configured string // StatePath as stored in the config file
	statePath  string
	gateway    *project.FileGateway
	store      *store.Store
}

// openSession loads the config and the board it points at. A missing state
// file yields an empty board.
func openSession(g *globals) (*session, error) {
	configPath := g.configPath
	if configPath == "" {
		configPath = project.DefaultConfigPath()
	}
	config, err := project.LoadAppConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	configured := config.StatePath
	if g.statePath != "" {
		config.StatePath = g.statePath
	}

	s := &session{
		config:     config,
		configPath: configPath,
		configured: configured,
		statePath:  project.StatePath(config),
	}
	s.gateway = project.NewFileGateway(s.statePath)
	s.store = store.New(s.gateway, engine.NewPacker(config.Packing, config.Seed))
	if !s.store.Load() {
		log.Printf("no board at %s, starting empty", s.statePath)
	}
	return s, nil
}

func (s *session) save() error {
	if err := s.store.Save(); err != nil {
		return fmt.Errorf("saving board: %w", err)
	}
	return nil
}

// saveConfig writes cfg back to the config file. A --state override is
// never persisted.
func (s *session) saveConfig(cfg model.AppConfig) error {
	cfg.StatePath = s.configured
	return project.SaveAppConfig(s.configPath, cfg)
}

func runGenerate(out io.Writer, g *globals, width, height float64, seed int64) error {
	s, err := openSession(g)
	if err != nil {
		return err
	}
	if seed != 0 {
		s.store.SetPacker(engine.NewPacker(s.config.Packing, seed))
	}
	w, h := s.config.BufferSize()
	if width > 0 {
		w = width
	}
	if height > 0 {
		h = height
	}

	created := s.store.CreateRandomInBuffer(w, h)
	if err := s.save(); err != nil {
		return err
	}
	if len(created) == 0 {
		fmt.Fprintln(out, "Generated no polygons")
		return nil
	}
	fmt.Fprintf(out, "Generated %d polygons in a %.0f x %.0f buffer (ids %d-%d)\n",
		len(created), w, h, created[0].ID, created[len(created)-1].ID)
	return nil
}

func runShow(out io.Writer, g *globals, output, zone string) error {
	s, err := openSession(g)
	if err != nil {
		return err
	}
	var only model.Zone
	if zone != "" {
		if only, err = model.ParseZone(zone); err != nil {
			return err
		}
	}
	return printBoard(out, buildReport(s, only), output)
}

func runMove(out io.Writer, g *globals, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid id %q: %w", args[0], err)
	}
	zone, err := model.ParseZone(args[1])
	if err != nil {
		return err
	}
	x, err := parseCoord("x", args[2])
	if err != nil {
		return err
	}
	y, err := parseCoord("y", args[3])
	if err != nil {
		return err
	}

	s, err := openSession(g)
	if err != nil {
		return err
	}
	if !s.store.MoveTo(id, zone, model.Point2D{X: x, Y: y}) {
		return fmt.Errorf("no polygon with id %d", id)
	}
	if err := s.save(); err != nil {
		return err
	}
	fmt.Fprintf(out, "Moved #%d to %s at (%g, %g)\n", id, zone, x, y)
	return nil
}

// parseCoord parses a finite number given on the command line.
func parseCoord(name, arg string) (float64, error) {
	v, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, arg, err)
	}
	if err := checkFinite(name, v); err != nil {
		return 0, err
	}
	return v, nil
}

func checkFinite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("invalid %s %v: must be a finite number", name, v)
	}
	return nil
}

func runView(out io.Writer, g *globals, changed func(string) bool, scale, tx, ty float64, reset bool) error {
	for name, v := range map[string]float64{"scale": scale, "tx": tx, "ty": ty} {
		if err := checkFinite(name, v); err != nil {
			return err
		}
	}
	s, err := openSession(g)
	if err != nil {
		return err
	}

	if reset {
		s.store.SetView(model.PatchOf(model.DefaultView()))
	} else {
		var patch model.ViewPatch
		if changed("scale") {
			patch.Scale = &scale
		}
		if changed("tx") {
			patch.TX = &tx
		}
		if changed("ty") {
			patch.TY = &ty
		}
		s.store.SetView(patch)
	}
	if err := s.save(); err != nil {
		return err
	}
	v := s.store.View()
	fmt.Fprintf(out, "View: scale %g, tx %g, ty %g\n", v.Scale, v.TX, v.TY)
	return nil
}

func runReset(out io.Writer, g *globals) error {
	s, err := openSession(g)
	if err != nil {
		return err
	}
	if err := s.store.Reset(); err != nil {
		return err
	}
	fmt.Fprintf(out, "Cleared %s\n", s.statePath)
	return nil
}

func runExport(out io.Writer, g *globals, format, path string) error {
	s, err := openSession(g)
	if err != nil {
		return err
	}
	snap := s.store.Snapshot()
	w, h := s.config.BufferSize()

	switch strings.ToLower(format) {
	case "pdf":
		err = export.ExportPDF(path, export.NewBoard(snap, w, h))
	case "svg":
		err = export.ExportSVG(path, export.NewBoard(snap, w, h))
	case "labels":
		var batch string
		if batch, err = export.ExportLabels(path, snap); err == nil {
			fmt.Fprintf(out, "Label batch %s\n", batch)
		}
	case "xlsx":
		err = export.ExportXLSX(path, snap)
	case "dxf":
		err = export.ExportDXF(path, snap)
	default:
		return fmt.Errorf("unknown export format %q (want pdf, svg, labels, xlsx or dxf)", format)
	}
	if err != nil {
		return err
	}

	s.config.AddRecentExport(path, 10)
	if err := s.saveConfig(s.config); err != nil {
		log.Printf("failed to record recent export: %v", err)
	}
	fmt.Fprintf(out, "Exported %d polygons to %s\n", len(snap.Polygons), path)
	return nil
}

func runImport(out io.Writer, g *globals, path string) error {
	var result importer.ImportResult
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		result = importer.ImportCSV(path)
	case ".xlsx", ".xlsm", ".xls":
		result = importer.ImportExcel(path)
	case ".dxf":
		result = importer.ImportDXF(path)
	default:
		return fmt.Errorf("unsupported import file %q", path)
	}

	for _, w := range result.Warnings {
		log.Printf("import: %s", w)
	}
	for _, e := range result.Errors {
		fmt.Fprintf(out, "  error: %s\n", e)
	}
	if len(result.Outlines) == 0 {
		return fmt.Errorf("nothing imported from %s", path)
	}

	s, err := openSession(g)
	if err != nil {
		return err
	}
	w, h := s.config.BufferSize()
	placed := s.store.ImportToBuffer(result.Outlines, w, h)
	if err := s.save(); err != nil {
		return err
	}
	fmt.Fprintf(out, "Imported %d polygons into the buffer zone\n", len(placed))
	return nil
}

func runBackup(out io.Writer, g *globals, path string) error {
	s, err := openSession(g)
	if err != nil {
		return err
	}
	cfg := s.config
	cfg.StatePath = s.configured
	id, err := project.ExportAllData(path, cfg, s.store.Snapshot())
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Backup %s written to %s\n", id, path)
	return nil
}

func runRestore(out io.Writer, g *globals, path string) error {
	s, err := openSession(g)
	if err != nil {
		return err
	}
	backup, err := project.ImportAllData(path)
	if err != nil {
		return err
	}
	data, err := backup.StateBytes()
	if err != nil {
		return err
	}
	if err := s.gateway.Set(data); err != nil {
		return fmt.Errorf("writing board: %w", err)
	}

	cfg := backup.Config
	cfg.Storage = s.config.Storage
	if err := s.saveConfig(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Fprintf(out, "Restored %d polygons from backup %s (%s)\n",
		len(backup.State.Polygons), backup.ID, backup.CreatedAt)
	return nil
}
