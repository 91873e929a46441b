package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/piwi3910/polyboard/internal/model"
	"github.com/piwi3910/polyboard/internal/project"
)

type cli struct {
	t      *testing.T
	dir    string
	config string
	state  string
}

func newCLI(t *testing.T) *cli {
	dir := t.TempDir()
	c := &cli{
		t:      t,
		dir:    dir,
		config: filepath.Join(dir, "config.json"),
		state:  filepath.Join(dir, "state.json"),
	}
	cfg := model.DefaultAppConfig()
	cfg.Seed = 11
	require.NoError(t, project.SaveAppConfig(c.config, cfg))
	return c
}

func (c *cli) run(args ...string) (string, error) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", c.config, "--state", c.state}, args...))
	err := root.Execute()
	return out.String(), err
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	require.NoError(c.t, err, out)
	return out
}

func (c *cli) report() boardReport {
	c.t.Helper()
	var r boardReport
	require.NoError(c.t, json.Unmarshal([]byte(c.mustRun("show", "-o", "json")), &r))
	return r
}

func TestGenerateAndShow(t *testing.T) {
	c := newCLI(t)
	out := c.mustRun("generate")
	assert.Contains(t, out, "800 x 260")

	r := c.report()
	assert.GreaterOrEqual(t, r.Buffer, 5)
	assert.LessOrEqual(t, r.Buffer, 20)
	assert.Zero(t, r.Work)
	assert.Len(t, r.Polygons, r.Buffer)
	assert.Equal(t, c.state, r.State)
	assert.Equal(t, r.Buffer+1, r.NextID)

	text := c.mustRun("show")
	assert.Contains(t, text, "Buffer zone: ")
	assert.Contains(t, text, "ID")
}

func TestGenerateKeepsWorkZone(t *testing.T) {
	c := newCLI(t)
	c.mustRun("generate")
	first := c.report().Polygons[0]
	c.mustRun("move", strconv.Itoa(first.ID), "work", "5", "6")

	c.mustRun("generate", "--width", "400", "--height", "200", "--seed", "99")
	r := c.report()
	assert.Equal(t, 1, r.Work)
	for _, p := range r.Polygons {
		if p.Zone == model.ZoneWork {
			assert.Equal(t, first.ID, p.ID)
			continue
		}
		assert.Greater(t, p.ID, first.ID)
		assert.LessOrEqual(t, p.X+p.Width, 400.0)
	}
}

func TestMove(t *testing.T) {
	c := newCLI(t)
	c.mustRun("generate")
	id := c.report().Polygons[0].ID

	out := c.mustRun("move", strconv.Itoa(id), "work", "120", "40")
	assert.Contains(t, out, "Moved #")

	var r boardReport
	require.NoError(t, yaml.Unmarshal([]byte(c.mustRun("show", "-o", "yaml", "--zone", "work")), &r))
	require.Len(t, r.Polygons, 1)
	assert.Equal(t, id, r.Polygons[0].ID)
	assert.Equal(t, 120.0, r.Polygons[0].X)
	assert.Equal(t, 40.0, r.Polygons[0].Y)
}

func TestMoveErrors(t *testing.T) {
	c := newCLI(t)
	c.mustRun("generate")

	_, err := c.run("move", "999", "work", "0", "0")
	assert.Error(t, err)
	_, err = c.run("move", "1", "attic", "0", "0")
	assert.Error(t, err)
	_, err = c.run("move", "x", "work", "0", "0")
	assert.Error(t, err)
	_, err = c.run("move", "1", "work", "NaN", "0")
	assert.Error(t, err)
	_, err = c.run("move", "1", "work", "0", "+Inf")
	assert.Error(t, err)
}

func TestView(t *testing.T) {
	c := newCLI(t)
	c.mustRun("view", "--tx", "15")
	assert.Equal(t, model.View{Scale: 1, TX: 15, TY: 0}, c.report().View)

	c.mustRun("view", "--scale", "50", "--ty=-3")
	assert.Equal(t, model.View{Scale: model.MaxScale, TX: 15, TY: -3}, c.report().View)

	c.mustRun("view", "--reset")
	assert.Equal(t, model.DefaultView(), c.report().View)
}

func TestView_RejectsNonFinite(t *testing.T) {
	c := newCLI(t)
	c.mustRun("view", "--tx", "15")

	_, err := c.run("view", "--scale", "NaN")
	assert.Error(t, err)
	_, err = c.run("view", "--tx=-Inf")
	assert.Error(t, err)
	assert.Equal(t, model.View{Scale: 1, TX: 15, TY: 0}, c.report().View, "a rejected view leaves the board alone")
}

func TestReset(t *testing.T) {
	c := newCLI(t)
	c.mustRun("generate")
	c.mustRun("reset")

	_, err := os.Stat(c.state)
	assert.True(t, os.IsNotExist(err))
	r := c.report()
	assert.Zero(t, r.Buffer)
	assert.Equal(t, 1, r.NextID)
}

func TestExport(t *testing.T) {
	c := newCLI(t)
	c.mustRun("generate")

	for _, format := range []string{"pdf", "svg", "labels", "xlsx", "dxf"} {
		path := filepath.Join(c.dir, "board."+format)
		c.mustRun("export", format, path)
		info, err := os.Stat(path)
		require.NoError(t, err, format)
		assert.NotZero(t, info.Size(), format)
	}

	_, err := c.run("export", "bmp", filepath.Join(c.dir, "board.bmp"))
	assert.Error(t, err)

	cfg, err := project.LoadAppConfig(c.config)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(c.dir, "board.dxf"), cfg.RecentExports[0])
	assert.Empty(t, cfg.StatePath, "--state override must not be persisted")
}

func TestImportCSV(t *testing.T) {
	c := newCLI(t)
	path := filepath.Join(c.dir, "shapes.csv")
	data := "polygon,x,y\na,0,0\na,30,0\na,15,20\nb,0,0\nb,10,0\nb,10,10\nb,0,10\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	out := c.mustRun("import", path)
	assert.Contains(t, out, "Imported 2 polygons")
	assert.Equal(t, 2, c.report().Buffer)

	_, err := c.run("import", filepath.Join(c.dir, "shapes.json"))
	assert.Error(t, err)
}

func TestBackupRestore(t *testing.T) {
	c := newCLI(t)
	c.mustRun("generate")
	c.mustRun("view", "--scale", "2")
	want := c.report()

	backup := filepath.Join(c.dir, "backup.json")
	out := c.mustRun("backup", backup)
	assert.Contains(t, out, "written to")

	c.mustRun("reset")
	out = c.mustRun("restore", backup)
	assert.True(t, strings.HasPrefix(out, "Restored "))

	got := c.report()
	assert.Equal(t, want.Polygons, got.Polygons)
	assert.Equal(t, want.View, got.View)
}

func TestShowRejectsUnknownFormat(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("show", "-o", "xml")
	assert.Error(t, err)
	_, err = c.run("show", "--zone", "attic")
	assert.Error(t, err)
}
