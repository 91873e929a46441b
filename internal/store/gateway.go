package store

import "errors"

// StorageKey is the fixed key the board snapshot is persisted under.
const StorageKey = "wc-polygons-v1"

// ErrNotFound is returned by Gateway.Get when nothing has been stored yet.
var ErrNotFound = errors.New("store: no persisted snapshot")

// Gateway persists the snapshot as an opaque blob under a single key.
type Gateway interface {
	Get() ([]byte, error)
	Set(data []byte) error
	Remove() error
}

// MemoryGateway keeps the blob in memory. The zero value is ready to use.
type MemoryGateway struct {
	data []byte
	ok   bool
}

// NewMemoryGateway returns a gateway preloaded with data, or an empty one
// when data is nil.
func NewMemoryGateway(data []byte) *MemoryGateway {
	g := &MemoryGateway{}
	if data != nil {
		_ = g.Set(data)
	}
	return g
}

func (g *MemoryGateway) Get() ([]byte, error) {
	if !g.ok {
		return nil, ErrNotFound
	}
	cp := make([]byte, len(g.data))
	copy(cp, g.data)
	return cp, nil
}

func (g *MemoryGateway) Set(data []byte) error {
	g.data = make([]byte, len(data))
	copy(g.data, data)
	g.ok = true
	return nil
}

func (g *MemoryGateway) Remove() error {
	g.data = nil
	g.ok = false
	return nil
}
