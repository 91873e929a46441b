package ui

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/polyboard/internal/engine"
	"github.com/piwi3910/polyboard/internal/model"
	"github.com/piwi3910/polyboard/internal/project"
)

// showSettingsDialog displays the application settings editor.
func (a *App) showSettingsDialog() {
	cfg := a.config

	floatEntry := func(val *float64) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(strconv.FormatFloat(*val, 'f', -1, 64))
		e.OnChanged = func(text string) {
			if v, err := strconv.ParseFloat(text, 64); err == nil {
				*val = v
			}
		}
		return e
	}

	intEntry := func(val *int) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(strconv.Itoa(*val))
		e.OnChanged = func(text string) {
			if v, err := strconv.Atoi(text); err == nil {
				*val = v
			}
		}
		return e
	}

	seedEntry := widget.NewEntry()
	seedEntry.SetText(strconv.FormatInt(cfg.Seed, 10))
	seedEntry.OnChanged = func(text string) {
		if v, err := strconv.ParseInt(text, 10, 64); err == nil {
			cfg.Seed = v
		}
	}

	themeSelect := widget.NewSelect([]string{"system", "light", "dark"}, func(selected string) {
		cfg.Theme = selected
	})
	themeSelect.SetSelected(cfg.Theme)

	storageSelect := widget.NewSelect([]string{model.StorageFile, model.StoragePreferences}, func(selected string) {
		cfg.Storage = selected
	})
	storageSelect.SetSelected(cfg.Storage)

	statePath := widget.NewEntry()
	statePath.SetPlaceHolder(project.DefaultStatePath())
	statePath.SetText(cfg.StatePath)
	statePath.OnChanged = func(text string) { cfg.StatePath = text }

	p := &cfg.Packing
	formItems := []*widget.FormItem{
		widget.NewFormItem("Theme", themeSelect),
		widget.NewFormItem("Board Storage", storageSelect),
		widget.NewFormItem("State File", statePath),
		widget.NewFormItem("", widget.NewSeparator()),
		widget.NewFormItem("Polygons per Batch (min)", intEntry(&p.MinBatch)),
		widget.NewFormItem("Polygons per Batch (max)", intEntry(&p.MaxBatch)),
		widget.NewFormItem("Vertices (min)", intEntry(&p.MinVertices)),
		widget.NewFormItem("Vertices (max)", intEntry(&p.MaxVertices)),
		widget.NewFormItem("Radius (min)", floatEntry(&p.RadiusMin)),
		widget.NewFormItem("Radius (max)", floatEntry(&p.RadiusMax)),
		widget.NewFormItem("Edge Margin", floatEntry(&p.Margin)),
		widget.NewFormItem("Padding", floatEntry(&p.Padding)),
		widget.NewFormItem("Placement Attempts", intEntry(&p.MaxAttempts)),
		widget.NewFormItem("Random Seed (0=clock)", seedEntry),
		widget.NewFormItem("", widget.NewSeparator()),
		widget.NewFormItem("Fallback Buffer Width", floatEntry(&cfg.BufferWidth)),
		widget.NewFormItem("Fallback Buffer Height", floatEntry(&cfg.BufferHeight)),
	}

	d := dialog.NewForm("Settings", "Save", "Cancel", formItems,
		func(ok bool) {
			if !ok {
				return
			}
			restart := cfg.Storage != a.config.Storage || cfg.StatePath != a.config.StatePath
			cfg.Packing = cfg.Packing.Normalize()
			a.config = cfg
			a.store.SetPacker(engine.NewPacker(cfg.Packing, cfg.Seed))
			a.app.Settings().SetTheme(ThemeForName(cfg.Theme))

			if err := a.saveConfig(); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save settings: %w", err), a.window)
				return
			}
			msg := "Application settings have been saved."
			if restart {
				msg += "\n\nThe new board storage is used after a restart."
			}
			dialog.ShowInformation("Settings Saved", msg, a.window)
		},
		a.window,
	)
	d.Resize(fyne.NewSize(500, 620))
	d.Show()
}

// showBackupDialog displays the backup export and restore dialog.
func (a *App) showBackupDialog() {
	exportBtn := widget.NewButton("Export Backup...", func() {
		d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
			if err != nil || writer == nil {
				return
			}
			path := writer.URI().Path()
			writer.Close()
			if _, err := project.ExportAllData(path, a.config, a.store.Snapshot()); err != nil {
				dialog.ShowError(err, a.window)
			} else {
				dialog.ShowInformation("Export Complete",
					fmt.Sprintf("Board and settings exported to:\n%s", path), a.window)
			}
		}, a.window)
		d.SetFileName("polyboard-backup.json")
		d.Show()
	})

	importBtn := widget.NewButton("Restore Backup...", func() {
		dialog.ShowConfirm("Restore Backup",
			"Restoring replaces the current board and settings.\n\nAre you sure you want to continue?",
			func(ok bool) {
				if !ok {
					return
				}
				d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
					if err != nil || reader == nil {
						return
					}
					defer reader.Close()
					if err := a.restoreBackup(reader.URI().Path()); err != nil {
						dialog.ShowError(err, a.window)
						return
					}
					dialog.ShowInformation("Restore Complete", "Board and settings restored.", a.window)
				}, a.window)
				d.Show()
			},
			a.window,
		)
	})

	content := container.NewVBox(
		widget.NewLabel("Export the board and application settings to a backup file,\nor restore a previously exported backup."),
		widget.NewSeparator(),
		exportBtn,
		widget.NewSeparator(),
		importBtn,
	)

	d := dialog.NewCustom("Backup and Restore", "Close", content, a.window)
	d.Resize(fyne.NewSize(450, 250))
	d.Show()
}

// restoreBackup applies the settings of a backup file and writes its board
// through the active gateway before reloading. Storage location settings of
// the running session are kept.
func (a *App) restoreBackup(path string) error {
	backup, err := project.ImportAllData(path)
	if err != nil {
		return err
	}
	data, err := backup.StateBytes()
	if err != nil {
		return err
	}
	if err := a.gateway.Set(data); err != nil {
		return fmt.Errorf("failed to write restored board: %w", err)
	}

	cfg := backup.Config
	cfg.Storage = a.config.Storage
	cfg.StatePath = a.config.StatePath
	a.config = cfg
	a.store.SetPacker(engine.NewPacker(cfg.Packing, cfg.Seed))
	a.app.Settings().SetTheme(ThemeForName(cfg.Theme))
	if err := a.saveConfig(); err != nil {
		return fmt.Errorf("failed to save restored settings: %w", err)
	}
	a.reload()
	return nil
}

// saveConfig persists the current app config to disk.
func (a *App) saveConfig() error {
	return project.SaveAppConfig(a.configPath, a.config)
}
