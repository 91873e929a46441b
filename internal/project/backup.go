package project

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/piwi3910/polyboard/internal/model"
)

// BackupVersion is written into every backup file.
const BackupVersion = "1.0.0"

// BackupData is the top-level structure for import/export of all application data.
type BackupData struct {
	ID        string          `json:"id"`
	Version   string          `json:"version"`
	CreatedAt string          `json:"created_at"`
	Config    model.AppConfig `json:"config"`
	State     model.Snapshot  `json:"state"`
}

// ExportAllData writes the config and the board snapshot to a single JSON
// file at the specified path. The new backup id is returned.
func ExportAllData(exportPath string, config model.AppConfig, state model.Snapshot) (string, error) {
	backup := BackupData{
		ID:        uuid.New().String(),
		Version:   BackupVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Config:    config,
		State:     state,
	}
	if backup.State.Polygons == nil {
		backup.State.Polygons = []model.Polygon{}
	}
	if err := writeJSON(exportPath, backup); err != nil {
		return "", fmt.Errorf("failed to write backup file: %w", err)
	}
	return backup.ID, nil
}

// ImportAllData reads a backup JSON file and returns the contained data.
// The caller is responsible for applying the imported config and state.
func ImportAllData(importPath string) (BackupData, error) {
	data, err := os.ReadFile(importPath)
	if err != nil {
		return BackupData{}, fmt.Errorf("failed to read backup file: %w", err)
	}
	var backup BackupData
	if err := json.Unmarshal(data, &backup); err != nil {
		return BackupData{}, fmt.Errorf("failed to parse backup file: %w", err)
	}
	if backup.Version == "" {
		return BackupData{}, fmt.Errorf("invalid backup file: missing version field")
	}
	if backup.ID != "" {
		if _, err := uuid.Parse(backup.ID); err != nil {
			return BackupData{}, fmt.Errorf("invalid backup file: bad id: %w", err)
		}
	}
	if backup.Config.RecentExports == nil {
		backup.Config.RecentExports = []string{}
	}
	if backup.State.Polygons == nil {
		backup.State.Polygons = []model.Polygon{}
	}
	backup.State.View = backup.State.View.Sanitize()
	backup.Config.Packing = backup.Config.Packing.Normalize()
	return backup, nil
}

// StateBytes encodes the backed up snapshot in the persisted wire format so
// it can be written straight through a store gateway.
func (b BackupData) StateBytes() ([]byte, error) {
	data, err := json.Marshal(b.State)
	if err != nil {
		return nil, fmt.Errorf("failed to encode backup state: %w", err)
	}
	return data, nil
}
