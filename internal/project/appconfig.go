package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/polyboard/internal/model"
	"github.com/piwi3910/polyboard/internal/store"
)

// DefaultConfigDir returns the default directory for application data.
// On all platforms this is ~/.polyboard/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".polyboard")
}

// DefaultConfigPath returns the default path for the application config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// DefaultStatePath returns the default path of the persisted board snapshot.
func DefaultStatePath() string {
	return filepath.Join(DefaultConfigDir(), store.StorageKey+".json")
}

// StatePath resolves the snapshot location for a config, falling back to
// DefaultStatePath when none is configured.
func StatePath(config model.AppConfig) string {
	if config.StatePath != "" {
		return config.StatePath
	}
	return DefaultStatePath()
}

// SaveAppConfig writes config to path as indented JSON, creating missing
// directories.
func SaveAppConfig(path string, config model.AppConfig) error {
	if err := writeJSON(path, config); err != nil {
		return fmt.Errorf("failed to save config %s: %w", path, err)
	}
	return nil
}

// LoadAppConfig reads an AppConfig from the given path.
// If the file does not exist, it returns DefaultAppConfig with no error.
// Fields missing from the file keep their default values.
func LoadAppConfig(path string) (model.AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.DefaultAppConfig(), nil
		}
		return model.AppConfig{}, err
	}
	config := model.DefaultAppConfig()
	if err := json.Unmarshal(data, &config); err != nil {
		return model.AppConfig{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	config.Packing = config.Packing.Normalize()
	if config.Storage != model.StoragePreferences {
		config.Storage = model.StorageFile
	}
	// Ensure RecentExports is never nil
	if config.RecentExports == nil {
		config.RecentExports = []string{}
	}
	return config, nil
}
