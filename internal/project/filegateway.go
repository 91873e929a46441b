package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/polyboard/internal/store"
)

// FileGateway persists the board snapshot as a single file on disk.
type FileGateway struct {
	Path string
}

// NewFileGateway returns a gateway storing the snapshot at path.
func NewFileGateway(path string) *FileGateway {
	return &FileGateway{Path: path}
}

func (g *FileGateway) Get() ([]byte, error) {
	data, err := os.ReadFile(g.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}
	return data, nil
}

// Set replaces the state file atomically.
func (g *FileGateway) Set(data []byte) error {
	if err := writeFile(g.Path, data); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	return nil
}

func (g *FileGateway) Remove() error {
	if err := os.Remove(g.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove state file: %w", err)
	}
	return nil
}

// writeFile creates the parent directories of path and replaces the file
// through a temporary sibling and a rename.
func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// writeJSON writes v as indented JSON with writeFile.
func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return writeFile(path, data)
}
