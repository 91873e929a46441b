package model

// Fallback buffer size used when the buffer zone cannot be measured yet.
const (
	DefaultBufferWidth  = 800.0
	DefaultBufferHeight = 260.0
)

// Snapshot storage backends for the desktop application.
const (
	StorageFile        = "file"        // JSON file shared with the CLI
	StoragePreferences = "preferences" // Fyne app preferences
)

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Generator defaults applied to every new batch
	Packing PackSettings `json:"packing"`
	Seed    int64        `json:"seed"` // 0 = seed from the clock

	// Buffer size used by the CLI and before the first layout pass
	BufferWidth  float64 `json:"buffer_width"`
	BufferHeight float64 `json:"buffer_height"`

	// Application preferences
	Storage       string   `json:"storage"`    // StorageFile or StoragePreferences
	StatePath     string   `json:"state_path"` // Empty = default location
	RecentExports []string `json:"recent_exports"`
	Theme         string   `json:"theme"` // "light", "dark", "system"
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Packing:       DefaultPackSettings(),
		Seed:          0,
		BufferWidth:   DefaultBufferWidth,
		BufferHeight:  DefaultBufferHeight,
		Storage:       StorageFile,
		StatePath:     "",
		RecentExports: []string{},
		Theme:         "system",
	}
}

// BufferSize returns the configured buffer size, falling back to the
// defaults for unusable values.
func (c AppConfig) BufferSize() (w, h float64) {
	w, h = c.BufferWidth, c.BufferHeight
	if w <= 0 {
		w = DefaultBufferWidth
	}
	if h <= 40 {
		h = DefaultBufferHeight
	}
	return w, h
}

// FitBuffer returns the measured buffer size, substituting the configured
// size for a width that is not positive or a height of 40 or less.
func (c AppConfig) FitBuffer(measuredW, measuredH float64) (w, h float64) {
	w, h = c.BufferSize()
	if measuredW > 0 {
		w = measuredW
	}
	if measuredH > 40 {
		h = measuredH
	}
	return w, h
}

// AddRecentExport records path at the front of the recent exports list,
// keeping at most max entries and no duplicates.
func (c *AppConfig) AddRecentExport(path string, max int) {
	list := []string{path}
	for _, p := range c.RecentExports {
		if p != path {
			list = append(list, p)
		}
	}
	if len(list) > max {
		list = list[:max]
	}
	c.RecentExports = list
}
