package ui

import (
	"fyne.io/fyne/v2"

	"github.com/piwi3910/polyboard/internal/store"
)

// PreferencesGateway persists the board snapshot in the fyne application
// preferences under store.StorageKey.
type PreferencesGateway struct {
	prefs fyne.Preferences
	key   string
}

// NewPreferencesGateway returns a gateway backed by prefs.
func NewPreferencesGateway(prefs fyne.Preferences) *PreferencesGateway {
	return &PreferencesGateway{prefs: prefs, key: store.StorageKey}
}

func (g *PreferencesGateway) Get() ([]byte, error) {
	v := g.prefs.String(g.key)
	if v == "" {
		return nil, store.ErrNotFound
	}
	return []byte(v), nil
}

func (g *PreferencesGateway) Set(data []byte) error {
	g.prefs.SetString(g.key, string(data))
	return nil
}

func (g *PreferencesGateway) Remove() error {
	g.prefs.RemoveValue(g.key)
	return nil
}
