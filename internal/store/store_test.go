package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/piwi3910/polyboard/internal/engine"
	"github.com/piwi3910/polyboard/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(gw Gateway) *Store {
	return New(gw, engine.NewPacker(model.DefaultPackSettings(), 1))
}

func triangle() model.Outline {
	return model.Outline{{X: 0, Y: 0}, {X: 20, Y: 0}, {X: 10, Y: 20}}
}

type failingGateway struct {
	MemoryGateway
}

func (failingGateway) Set([]byte) error { return errors.New("disk full") }
func (failingGateway) Remove() error    { return errors.New("read only") }

func TestNew_IsEmpty(t *testing.T) {
	s := newTestStore(&MemoryGateway{})
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 1, s.NextID())
	assert.Equal(t, model.DefaultView(), s.View())
	assert.Empty(t, s.ByZone(model.ZoneBuffer))
	assert.NotNil(t, s.ByZone(model.ZoneWork))
}

func TestCreateRandomInBuffer_ReplacesOnlyBuffer(t *testing.T) {
	s := newTestStore(&MemoryGateway{})

	first := s.CreateRandomInBuffer(800, 260)
	require.GreaterOrEqual(t, len(first), 5)
	require.LessOrEqual(t, len(first), 20)

	moved := first[0].ID
	require.True(t, s.MoveTo(moved, model.ZoneWork, model.Point2D{X: 300, Y: 300}))

	second := s.CreateRandomInBuffer(800, 260)
	require.GreaterOrEqual(t, len(second), 5)
	require.LessOrEqual(t, len(second), 20)

	buf := s.ByZone(model.ZoneBuffer)
	work := s.ByZone(model.ZoneWork)
	assert.Len(t, buf, len(second))
	require.Len(t, work, 1)
	assert.Equal(t, moved, work[0].ID)
	assert.Equal(t, model.Point2D{X: 300, Y: 300}, work[0].Pos)

	// old buffer polygons are gone, new ids continue past the first batch
	for _, p := range buf {
		assert.Greater(t, p.ID, first[len(first)-1].ID)
		assert.Equal(t, model.ZoneBuffer, p.Zone)
	}
	for _, p := range first[1:] {
		_, ok := s.Get(p.ID)
		assert.False(t, ok)
	}
}

func TestCreateRandomInBuffer_PositionsInsideMargins(t *testing.T) {
	s := newTestStore(&MemoryGateway{})
	for _, p := range s.CreateRandomInBuffer(800, 260) {
		min, max := p.Bounds()
		assert.GreaterOrEqual(t, min.X, 10.0)
		assert.GreaterOrEqual(t, min.Y, 10.0)
		assert.LessOrEqual(t, max.X, 790.0+1e-9)
		assert.LessOrEqual(t, max.Y, 250.0+1e-9)
	}
}

func TestIDs_StrictlyIncreasing(t *testing.T) {
	s := newTestStore(&MemoryGateway{})
	last := 0
	for round := 0; round < 4; round++ {
		for _, p := range s.CreateRandomInBuffer(800, 260) {
			assert.Greater(t, p.ID, last)
			last = p.ID
		}
	}
	assert.Equal(t, last+1, s.NextID())
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	gw := &MemoryGateway{}
	s := newTestStore(gw)
	s.CreateRandomInBuffer(800, 260)
	ids := s.ByZone(model.ZoneBuffer)
	s.MoveTo(ids[0].ID, model.ZoneWork, model.Point2D{X: -40, Y: 12.5})
	scale, tx := 2.0, 15.0
	s.SetView(model.ViewPatch{Scale: &scale, TX: &tx})
	require.NoError(t, s.Save())

	loaded := newTestStore(gw)
	require.True(t, loaded.Load())

	assert.Equal(t, s.Snapshot(), loaded.Snapshot())
	assert.Equal(t, s.NextID(), loaded.NextID())

	// new ids keep increasing after a reload
	created := loaded.CreateRandomInBuffer(800, 260)
	assert.Greater(t, created[0].ID, ids[len(ids)-1].ID)
}

func TestSave_WireFormat(t *testing.T) {
	gw := &MemoryGateway{}
	s := newTestStore(gw)
	s.ImportToBuffer([]model.Outline{triangle()}, 800, 260)
	require.NoError(t, s.Save())

	data, err := gw.Get()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Contains(t, doc, "polygons")
	assert.Contains(t, doc, "view")

	polys := doc["polygons"].([]any)
	require.Len(t, polys, 1)
	p := polys[0].(map[string]any)
	assert.Equal(t, float64(1), p["id"])
	assert.Equal(t, "buffer", p["zone"])
	assert.Equal(t, []any{0.0, 0.0}, p["points"].([]any)[0])
	assert.Contains(t, p["pos"], "x")

	view := doc["view"].(map[string]any)
	assert.Equal(t, map[string]any{"scale": 1.0, "tx": 0.0, "ty": 0.0}, view)
}

func TestLoad_MissingOrMalformed(t *testing.T) {
	cases := map[string]*MemoryGateway{
		"missing":   {},
		"empty":     NewMemoryGateway([]byte{}),
		"garbage":   NewMemoryGateway([]byte("{not json")),
		"wrongtype": NewMemoryGateway([]byte(`{"polygons": 3}`)),
	}
	for name, gw := range cases {
		t.Run(name, func(t *testing.T) {
			s := newTestStore(gw)
			s.ImportToBuffer([]model.Outline{triangle()}, 800, 260)

			assert.False(t, s.Load())
			assert.Equal(t, 0, s.Len())
			assert.Equal(t, 1, s.NextID())
			assert.Equal(t, model.DefaultView(), s.View())
		})
	}
}

func TestLoad_DropsInvalidEntries(t *testing.T) {
	doc := `{
		"polygons": [
			{"id": 4, "points": [[0,0],[10,0],[5,8]], "pos": {"x": 1, "y": 2}, "zone": "work"},
			{"id": 9, "points": [[0,0],[10,0],[5,8]], "pos": {"x": 0, "y": 0}, "zone": "attic"},
			{"id": 12, "points": [[0,0],[10,0]], "pos": {"x": 0, "y": 0}, "zone": "buffer"},
			{"id": 4, "points": [[0,0],[10,0],[5,8]], "pos": {"x": 0, "y": 0}, "zone": "buffer"},
			{"id": 0, "points": [[0,0],[10,0],[5,8]], "pos": {"x": 0, "y": 0}, "zone": "buffer"},
			{"id": 7, "points": [[0,0],[10,0],[5,8]], "pos": {"x": 3, "y": 3}, "zone": "buffer"}
		],
		"view": {"scale": 50, "tx": 4, "ty": -2}
	}`
	s := newTestStore(NewMemoryGateway([]byte(doc)))
	require.True(t, s.Load())

	assert.Equal(t, 2, s.Len())
	p, ok := s.Get(4)
	require.True(t, ok)
	assert.Equal(t, model.ZoneWork, p.Zone)
	assert.Equal(t, model.Point2D{X: 1, Y: 2}, p.Pos)
	_, ok = s.Get(7)
	assert.True(t, ok)

	// counter resumes after the highest surviving id
	assert.Equal(t, 8, s.NextID())
	assert.Equal(t, model.View{Scale: model.MaxScale, TX: 4, TY: -2}, s.View())
}

func TestLoad_DropsIDsAboveCeiling(t *testing.T) {
	doc := `{
		"polygons": [
			{"id": 9223372036854775807, "points": [[0,0],[10,0],[5,8]], "pos": {"x": 0, "y": 0}, "zone": "work"},
			{"id": 3, "points": [[0,0],[10,0],[5,8]], "pos": {"x": 0, "y": 0}, "zone": "work"}
		]
	}`
	gw := NewMemoryGateway([]byte(doc))
	s := newTestStore(gw)
	require.True(t, s.Load())
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 4, s.NextID())

	created := s.CreateRandomInBuffer(800, 260)
	require.NotEmpty(t, created)
	for _, p := range created {
		assert.Greater(t, p.ID, 3)
	}

	require.NoError(t, s.Save())
	reloaded := newTestStore(gw)
	require.True(t, reloaded.Load())
	buffer, work := reloaded.Counts()
	assert.Equal(t, len(created), buffer, "created polygons survive a reload")
	assert.Equal(t, 1, work)
}

func TestLoad_KeepsIDAtCeiling(t *testing.T) {
	doc := fmt.Sprintf(`{"polygons": [{"id": %d, "points": [[0,0],[10,0],[5,8]], "pos": {"x": 0, "y": 0}, "zone": "buffer"}]}`, MaxID)
	s := newTestStore(NewMemoryGateway([]byte(doc)))
	require.True(t, s.Load())
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, MaxID+1, int64(s.NextID()))
}

func TestLoad_MissingViewFallsBackToDefault(t *testing.T) {
	s := newTestStore(NewMemoryGateway([]byte(`{"polygons": []}`)))
	require.True(t, s.Load())
	assert.Equal(t, model.DefaultView(), s.View())

	s = newTestStore(NewMemoryGateway([]byte(`{"polygons": [], "view": {"scale": 0}}`)))
	require.True(t, s.Load())
	assert.Equal(t, model.DefaultView(), s.View())
}

func TestMoveTo(t *testing.T) {
	s := newTestStore(&MemoryGateway{})
	created := s.ImportToBuffer([]model.Outline{triangle(), triangle()}, 800, 260)
	require.Len(t, created, 2)

	id := created[1].ID
	assert.True(t, s.MoveTo(id, model.ZoneWork, model.Point2D{X: 5, Y: 6}))

	p, _ := s.Get(id)
	assert.Equal(t, model.ZoneWork, p.Zone)
	assert.Equal(t, model.Point2D{X: 5, Y: 6}, p.Pos)
	assert.Equal(t, created[1].Points, p.Points)

	before := s.Snapshot()
	assert.False(t, s.MoveTo(999, model.ZoneWork, model.Point2D{}))
	assert.False(t, s.MoveTo(id, model.Zone("attic"), model.Point2D{}))
	assert.Equal(t, before, s.Snapshot())
}

func TestByZone_ReturnsCopies(t *testing.T) {
	s := newTestStore(&MemoryGateway{})
	s.ImportToBuffer([]model.Outline{triangle()}, 800, 260)

	got := s.ByZone(model.ZoneBuffer)
	got[0].Points[0].X = 1000
	got[0].Pos.X = -1

	again := s.ByZone(model.ZoneBuffer)
	assert.Equal(t, 0.0, again[0].Points[0].X)
	assert.NotEqual(t, -1.0, again[0].Pos.X)
}

func TestSetView_Merges(t *testing.T) {
	s := newTestStore(&MemoryGateway{})

	tx := 30.0
	s.SetView(model.ViewPatch{TX: &tx})
	assert.Equal(t, model.View{Scale: 1, TX: 30, TY: 0}, s.View())

	scale, ty := 0.01, -5.0
	s.SetView(model.ViewPatch{Scale: &scale, TY: &ty})
	assert.Equal(t, model.View{Scale: model.MinScale, TX: 30, TY: -5}, s.View())
}

func TestPickAt_Topmost(t *testing.T) {
	s := newTestStore(&MemoryGateway{})
	created := s.ImportToBuffer([]model.Outline{triangle(), triangle()}, 800, 260)
	a, b := created[0].ID, created[1].ID
	s.MoveTo(a, model.ZoneWork, model.Point2D{X: 0, Y: 0})
	s.MoveTo(b, model.ZoneWork, model.Point2D{X: 0, Y: 0})

	id, ok := s.PickAt(model.ZoneWork, model.Point2D{X: 10, Y: 5})
	require.True(t, ok)
	assert.Equal(t, b, id)

	_, ok = s.PickAt(model.ZoneBuffer, model.Point2D{X: 10, Y: 5})
	assert.False(t, ok)
	_, ok = s.PickAt(model.ZoneWork, model.Point2D{X: 100, Y: 100})
	assert.False(t, ok)
}

func TestReset(t *testing.T) {
	gw := &MemoryGateway{}
	s := newTestStore(gw)
	s.CreateRandomInBuffer(800, 260)
	scale := 3.0
	s.SetView(model.ViewPatch{Scale: &scale})
	require.NoError(t, s.Save())

	require.NoError(t, s.Reset())
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 1, s.NextID())
	assert.Equal(t, model.DefaultView(), s.View())

	_, err := gw.Get()
	assert.ErrorIs(t, err, ErrNotFound)

	created := s.CreateRandomInBuffer(800, 260)
	assert.Equal(t, 1, created[0].ID)
}

func TestReset_ClearsStateWhenGatewayFails(t *testing.T) {
	s := newTestStore(&failingGateway{})
	s.CreateRandomInBuffer(800, 260)

	err := s.Reset()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read only")
	assert.Equal(t, 0, s.Len())
}

func TestSave_PropagatesGatewayError(t *testing.T) {
	s := newTestStore(&failingGateway{})
	err := s.Save()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestCounts(t *testing.T) {
	s := newTestStore(&MemoryGateway{})
	created := s.ImportToBuffer([]model.Outline{triangle(), triangle(), triangle()}, 800, 260)
	s.MoveTo(created[0].ID, model.ZoneWork, model.Point2D{})

	buf, work := s.Counts()
	assert.Equal(t, 2, buf)
	assert.Equal(t, 1, work)
	assert.Equal(t, 2, s.Snapshot().Count(model.ZoneBuffer))
}

func TestImportToBuffer_SkipsDegenerateOutlines(t *testing.T) {
	s := newTestStore(&MemoryGateway{})
	created := s.ImportToBuffer([]model.Outline{
		triangle(),
		{{X: 0, Y: 0}, {X: 1, Y: 1}},
	}, 800, 260)
	assert.Len(t, created, 1)
}

func TestSetPacker_AppliesToNextBatch(t *testing.T) {
	s := newTestStore(&MemoryGateway{})
	settings := model.DefaultPackSettings()
	settings.MinBatch, settings.MaxBatch = 3, 3
	settings.MinVertices, settings.MaxVertices = 5, 5
	s.SetPacker(engine.NewPacker(settings, 9))

	created := s.CreateRandomInBuffer(800, 260)
	require.Len(t, created, 3)
	for _, p := range created {
		assert.Len(t, p.Points, 5)
	}
}

func TestMemoryGateway_CopiesData(t *testing.T) {
	buf := []byte("abc")
	gw := NewMemoryGateway(buf)
	buf[0] = 'x'

	got, err := gw.Get()
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))

	require.NoError(t, gw.Remove())
	_, err = gw.Get()
	assert.ErrorIs(t, err, ErrNotFound)
}
