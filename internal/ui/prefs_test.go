package ui

import (
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/polyboard/internal/engine"
	"github.com/piwi3910/polyboard/internal/model"
	"github.com/piwi3910/polyboard/internal/store"
)

func TestPreferencesGateway_MissingKey(t *testing.T) {
	a := test.NewTempApp(t)
	gw := NewPreferencesGateway(a.Preferences())

	_, err := gw.Get()
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPreferencesGateway_SetGetRemove(t *testing.T) {
	a := test.NewTempApp(t)
	gw := NewPreferencesGateway(a.Preferences())

	require.NoError(t, gw.Set([]byte(`{"polygons":[]}`)))
	data, err := gw.Get()
	require.NoError(t, err)
	assert.Equal(t, `{"polygons":[]}`, string(data))
	assert.Equal(t, `{"polygons":[]}`, a.Preferences().String(store.StorageKey))

	require.NoError(t, gw.Remove())
	_, err = gw.Get()
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPreferencesGateway_StoreRoundTrip(t *testing.T) {
	a := test.NewTempApp(t)
	gw := NewPreferencesGateway(a.Preferences())

	st := store.New(gw, engine.NewPacker(model.DefaultPackSettings(), 7))
	created := st.CreateRandomInBuffer(800, 260)
	require.NotEmpty(t, created)
	st.SetView(model.PatchOf(model.View{Scale: 2, TX: 5, TY: -3}))
	require.NoError(t, st.Save())
	want := st.Snapshot()

	reloaded := store.New(NewPreferencesGateway(a.Preferences()), engine.NewPacker(model.DefaultPackSettings(), 1))
	require.True(t, reloaded.Load())
	assert.Equal(t, want, reloaded.Snapshot())
}

func TestThemeForName(t *testing.T) {
	assert.False(t, ThemeForName("system").forced)
	assert.True(t, ThemeForName("dark").forced)
	assert.True(t, ThemeForName("light").forced)
}
