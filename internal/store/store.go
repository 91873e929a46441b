// Package store owns every polygon on the board, their zone membership and
// the work zone view. It is the only place polygon ids are assigned.
//
// A Store is not safe for concurrent use; it is driven synchronously from
// the input event loop.
package store

import (
	"encoding/json"
	"fmt"

	"github.com/piwi3910/polyboard/internal/engine"
	"github.com/piwi3910/polyboard/internal/model"
)

// MaxID is the largest polygon id kept on load: the largest integer a
// float64 holds exactly.
const MaxID int64 = 1<<53 - 1

// Store is the single source of truth for the board state.
type Store struct {
	polygons []model.Polygon
	index    map[int]int // id -> position in polygons
	view     model.View
	nextID   int

	gateway Gateway
	packer  *engine.Packer
}

// New creates an empty store persisting through gw and populating the buffer
// with packer.
func New(gw Gateway, packer *engine.Packer) *Store {
	s := &Store{
		gateway: gw,
		packer:  packer,
	}
	s.clear()
	return s
}

func (s *Store) clear() {
	s.polygons = []model.Polygon{}
	s.index = map[int]int{}
	s.view = model.DefaultView()
	s.nextID = 1
}

func (s *Store) reindex() {
	s.index = make(map[int]int, len(s.polygons))
	for i, p := range s.polygons {
		s.index[p.ID] = i
	}
}

// Load hydrates the store from the gateway. A missing or unreadable snapshot
// leaves the store empty and returns false. Entries with an unknown zone,
// fewer than three points, a repeated id or an id outside [1, MaxID] are
// dropped, and the id counter is recomputed from the ids that survive.
func (s *Store) Load() bool {
	s.clear()

	data, err := s.gateway.Get()
	if err != nil || len(data) == 0 {
		return false
	}

	var raw struct {
		Polygons []model.Polygon `json:"polygons"`
		View     *model.View     `json:"view"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return false
	}

	seen := make(map[int]bool, len(raw.Polygons))
	for _, p := range raw.Polygons {
		if p.ID <= 0 || int64(p.ID) > MaxID || seen[p.ID] || !p.Zone.Valid() || len(p.Points) < 3 {
			continue
		}
		seen[p.ID] = true
		s.polygons = append(s.polygons, p)
	}
	s.reindex()

	if raw.View != nil {
		s.view = raw.View.Sanitize()
	}

	maxID := 0
	for _, p := range s.polygons {
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	s.nextID = maxID + 1
	return true
}

// Save writes the full snapshot to the gateway.
func (s *Store) Save() error {
	data, err := json.Marshal(s.Snapshot())
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := s.gateway.Set(data); err != nil {
		return fmt.Errorf("failed to persist snapshot: %w", err)
	}
	return nil
}

// Reset clears every polygon, restores the default view, restarts ids at 1
// and removes the persisted snapshot. The in-memory state is cleared even if
// the gateway fails.
func (s *Store) Reset() error {
	s.clear()
	if err := s.gateway.Remove(); err != nil {
		return fmt.Errorf("failed to clear persisted snapshot: %w", err)
	}
	return nil
}

// SetPacker swaps the packer used by later batches and imports.
func (s *Store) SetPacker(p *engine.Packer) {
	s.packer = p
}

// CreateRandomInBuffer replaces every buffer polygon with a freshly generated
// batch packed into a width x height container. Work zone polygons are kept.
// The created polygons are returned.
func (s *Store) CreateRandomInBuffer(width, height float64) []model.Polygon {
	return s.replaceBuffer(s.packer.PackBatch(width, height))
}

// ImportToBuffer replaces every buffer polygon with the given outlines,
// packed into a width x height container.
func (s *Store) ImportToBuffer(outlines []model.Outline, width, height float64) []model.Polygon {
	valid := make([]model.Outline, 0, len(outlines))
	for _, o := range outlines {
		if len(o) >= 3 {
			valid = append(valid, o)
		}
	}
	return s.replaceBuffer(s.packer.Pack(valid, width, height))
}

func (s *Store) replaceBuffer(placements []engine.Placement) []model.Polygon {
	kept := s.polygons[:0:0]
	for _, p := range s.polygons {
		if p.Zone != model.ZoneBuffer {
			kept = append(kept, p)
		}
	}

	created := make([]model.Polygon, 0, len(placements))
	for _, pl := range placements {
		p := model.Polygon{
			ID:     s.nextID,
			Points: pl.Outline.Clone(),
			Pos:    pl.Pos,
			Zone:   model.ZoneBuffer,
		}
		s.nextID++
		kept = append(kept, p)
		created = append(created, p.Clone())
	}

	s.polygons = kept
	s.reindex()
	return created
}

// ByZone returns copies of the polygons in zone z in insertion order.
func (s *Store) ByZone(z model.Zone) []model.Polygon {
	out := []model.Polygon{}
	for _, p := range s.polygons {
		if p.Zone == z {
			out = append(out, p.Clone())
		}
	}
	return out
}

// Get returns a copy of the polygon with the given id.
func (s *Store) Get(id int) (model.Polygon, bool) {
	i, ok := s.index[id]
	if !ok {
		return model.Polygon{}, false
	}
	return s.polygons[i].Clone(), true
}

// PickAt returns the id of the topmost polygon in zone z whose silhouette
// contains the zone point p. Later polygons are drawn on top.
func (s *Store) PickAt(z model.Zone, p model.Point2D) (int, bool) {
	for i := len(s.polygons) - 1; i >= 0; i-- {
		poly := s.polygons[i]
		if poly.Zone == z && poly.Contains(p) {
			return poly.ID, true
		}
	}
	return 0, false
}

// MoveTo sets the zone and position of polygon id in one step. Unknown ids
// are ignored and reported as false.
func (s *Store) MoveTo(id int, z model.Zone, pos model.Point2D) bool {
	i, ok := s.index[id]
	if !ok || !z.Valid() {
		return false
	}
	s.polygons[i].Zone = z
	s.polygons[i].Pos = pos
	return true
}

// SetView merges the patch into the current view.
func (s *Store) SetView(patch model.ViewPatch) {
	s.view = patch.Apply(s.view)
}

// View returns the current work zone view.
func (s *Store) View() model.View {
	return s.view
}

// Counts returns how many polygons sit in the buffer and work zones.
func (s *Store) Counts() (buffer, work int) {
	for _, p := range s.polygons {
		switch p.Zone {
		case model.ZoneBuffer:
			buffer++
		case model.ZoneWork:
			work++
		}
	}
	return buffer, work
}

// Len returns the total number of polygons.
func (s *Store) Len() int {
	return len(s.polygons)
}

// NextID returns the id the next created polygon will receive.
func (s *Store) NextID() int {
	return s.nextID
}

// Snapshot returns a deep copy of the full board state.
func (s *Store) Snapshot() model.Snapshot {
	snap := model.Snapshot{
		Polygons: make([]model.Polygon, len(s.polygons)),
		View:     s.view,
	}
	for i, p := range s.polygons {
		snap.Polygons[i] = p.Clone()
	}
	return snap
}
