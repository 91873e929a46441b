package ui

import (
	"fmt"
	"log"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	fynetooltip "github.com/dweymouth/fyne-tooltip"
	"seehuhn.de/go/geom/rect"

	"github.com/piwi3910/polyboard/internal/engine"
	"github.com/piwi3910/polyboard/internal/export"
	"github.com/piwi3910/polyboard/internal/importer"
	"github.com/piwi3910/polyboard/internal/interact"
	"github.com/piwi3910/polyboard/internal/model"
	"github.com/piwi3910/polyboard/internal/project"
	"github.com/piwi3910/polyboard/internal/store"
	"github.com/piwi3910/polyboard/internal/ui/widgets"
	"github.com/piwi3910/polyboard/internal/viewport"
)

// Title is the base window title.
const Title = "PolyBoard"

const (
	flashDuration    = 1200 * time.Millisecond
	maxRecentExports = 10
)

// App holds all application state and UI references.
type App struct {
	app        fyne.App
	window     fyne.Window
	config     model.AppConfig
	configPath string

	gateway store.Gateway
	store   *store.Store
	ctrl    *interact.Controller

	// UI references for dynamic updates
	bufferCanvas *widgets.ZoneCanvas
	workCanvas   *widgets.ZoneCanvas
	bufferCount  *widget.Label
	workCount    *widget.Label
	flashTimer   *time.Timer
}

// NewApp builds the board around gw and hydrates it from the last saved
// snapshot. Settings changes are written back to configPath.
func NewApp(app fyne.App, window fyne.Window, config model.AppConfig, configPath string, gw store.Gateway) *App {
	a := &App{
		app:        app,
		window:     window,
		config:     config,
		configPath: configPath,
		gateway:    gw,
	}
	a.store = store.New(gw, engine.NewPacker(config.Packing, config.Seed))
	if !a.store.Load() {
		log.Printf("no saved board, starting empty")
	}
	a.ctrl = interact.NewController(a.store,
		viewport.NewFixed(rect.Rect{}),
		viewport.NewPanZoom(rect.Rect{}, a.store.View()))

	a.bufferCanvas = widgets.NewZoneCanvas(model.ZoneBuffer, a.store, a.ctrl)
	a.workCanvas = widgets.NewZoneCanvas(model.ZoneWork, a.store, a.ctrl)
	widgets.Link(a.bufferCanvas, a.workCanvas)
	a.bufferCanvas.OnChanged = a.refresh
	a.workCanvas.OnChanged = a.refresh

	a.bufferCount = widget.NewLabel("")
	a.workCount = widget.NewLabel("")
	a.updateCounters()
	return a
}

// GatewayFor picks the snapshot storage selected in config.
func GatewayFor(app fyne.App, config model.AppConfig) store.Gateway {
	if config.Storage == model.StoragePreferences {
		return NewPreferencesGateway(app.Preferences())
	}
	return project.NewFileGateway(project.StatePath(config))
}

// SetupMenus creates the native menu bar for the application.
func (a *App) SetupMenus() {
	// File Menu
	exportMenu := fyne.NewMenuItem("Export", nil)
	exportMenu.ChildMenu = fyne.NewMenu("",
		fyne.NewMenuItem("Layout PDF...", func() { a.exportFile("polyboard.pdf", a.writePDF) }),
		fyne.NewMenuItem("Polygon Labels PDF...", func() { a.exportFile("polyboard-labels.pdf", a.writeLabels) }),
		fyne.NewMenuItem("SVG...", func() { a.exportFile("polyboard.svg", a.writeSVG) }),
		fyne.NewMenuItem("Excel Workbook...", func() {
			a.exportFile("polyboard.xlsx", func(path string) error { return export.ExportXLSX(path, a.store.Snapshot()) })
		}),
		fyne.NewMenuItem("DXF...", func() {
			a.exportFile("polyboard.dxf", func(path string) error { return export.ExportDXF(path, a.store.Snapshot()) })
		}),
	)
	importMenu := fyne.NewMenuItem("Import into Buffer", nil)
	importMenu.ChildMenu = fyne.NewMenu("",
		fyne.NewMenuItem("CSV...", func() { a.importFile(importer.ImportCSV) }),
		fyne.NewMenuItem("Excel...", func() { a.importFile(importer.ImportExcel) }),
		fyne.NewMenuItem("DXF...", func() { a.importFile(importer.ImportDXF) }),
	)

	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Save", a.save),
		fyne.NewMenuItemSeparator(),
		importMenu,
		exportMenu,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Backup and Restore...", a.showBackupDialog),
		fyne.NewMenuItem("Settings...", a.showSettingsDialog),
	)

	// Board Menu
	boardMenu := fyne.NewMenu("Board",
		fyne.NewMenuItem("Create Batch", a.createBatch),
		fyne.NewMenuItem("Reset View", a.resetView),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Clear Board", a.reset),
	)

	// Help Menu
	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", a.showAboutDialog),
	)

	a.window.SetMainMenu(fyne.NewMainMenu(fileMenu, boardMenu, helpMenu))
}

func (a *App) showAboutDialog() {
	dialog.ShowInformation(
		"About PolyBoard",
		"PolyBoard: polygon staging board\n\n"+
			"Generate polygons into the buffer zone and drag them\n"+
			"onto the pannable, zoomable work zone.\n\n"+
			"Version 1.0.0",
		a.window,
	)
}

// Build assembles the main window content.
func (a *App) Build() fyne.CanvasObject {
	toolbar := container.NewHBox(
		toolButton("Create", theme.ContentAddIcon(), "Replace the buffer with a new random batch", a.createBatch),
		toolButton("Save", theme.DocumentSaveIcon(), "Save the board", a.save),
		toolButton("Reset", theme.DeleteIcon(), "Clear every polygon and the saved board", a.reset),
		layout.NewSpacer(),
		widget.NewLabel("Zoom: mouse wheel. Pan: drag empty work zone space."),
	)

	buffer := container.NewBorder(
		a.zoneHeader("Buffer zone", a.bufferCount, nil), nil, nil, nil,
		a.bufferCanvas,
	)
	work := container.NewBorder(
		a.zoneHeader("Work zone", a.workCount,
			toolButton("", theme.ZoomFitIcon(), "Reset pan and zoom", a.resetView)),
		nil, nil, nil,
		a.workCanvas,
	)

	split := container.NewVSplit(buffer, work)
	split.SetOffset(0.35)

	content := container.NewBorder(toolbar, nil, nil, nil, split)
	return fynetooltip.AddWindowToolTipLayer(content, a.window.Canvas())
}

func (a *App) zoneHeader(title string, count *widget.Label, extra fyne.CanvasObject) fyne.CanvasObject {
	heading := widget.NewLabel(title)
	heading.TextStyle = fyne.TextStyle{Bold: true}
	items := []fyne.CanvasObject{heading, count, layout.NewSpacer()}
	if extra != nil {
		items = append(items, extra)
	}
	return container.NewHBox(items...)
}

// refresh redraws both zones and the counters.
func (a *App) refresh() {
	a.bufferCanvas.Refresh()
	a.workCanvas.Refresh()
	a.updateCounters()
}

func (a *App) updateCounters() {
	buffer, work := a.store.Counts()
	a.bufferCount.SetText(fmt.Sprintf("polygons: %d", buffer))
	a.workCount.SetText(fmt.Sprintf("polygons: %d", work))
}

// flash shows text in the window title for a moment.
func (a *App) flash(text string) {
	if a.flashTimer != nil {
		a.flashTimer.Stop()
	}
	a.window.SetTitle(fmt.Sprintf("%s - %s", Title, text))
	drv := a.app.Driver()
	a.flashTimer = time.AfterFunc(flashDuration, func() {
		drv.DoFromGoroutine(func() { a.window.SetTitle(Title) }, false)
	})
}

// bufferSize returns the measured buffer zone size. An axis that has not
// been laid out yet, or a strip 40 units tall or less, takes the configured
// fallback.
func (a *App) bufferSize() (w, h float64) {
	size := a.bufferCanvas.Size()
	if size.Width > 0 && size.Height > 0 {
		a.bufferCanvas.SyncBounds()
	}
	return a.config.FitBuffer(float64(size.Width), float64(size.Height))
}

// ─── Actions ───────────────────────────────────────────────

func (a *App) createBatch() {
	w, h := a.bufferSize()
	a.store.CreateRandomInBuffer(w, h)
	a.refresh()
}

func (a *App) save() {
	if err := a.store.Save(); err != nil {
		dialog.ShowError(fmt.Errorf("failed to save board: %w", err), a.window)
		return
	}
	a.flash("Saved")
}

func (a *App) reset() {
	err := a.store.Reset()
	a.ctrl.ResetView()
	a.refresh()
	if err != nil {
		dialog.ShowError(fmt.Errorf("board cleared but saved data could not be removed: %w", err), a.window)
		return
	}
	a.flash("Cleared")
}

func (a *App) resetView() {
	a.ctrl.ResetView()
	a.workCanvas.Refresh()
}

// reload rebuilds the board after the gateway contents changed underneath.
func (a *App) reload() {
	a.store.Load()
	a.ctrl.SyncView()
	a.refresh()
}

// ─── Export Functions ──────────────────────────────────────

func (a *App) board() export.Board {
	w, h := a.bufferSize()
	return export.NewBoard(a.store.Snapshot(), w, h)
}

func (a *App) writePDF(path string) error {
	return export.ExportPDF(path, a.board())
}

func (a *App) writeSVG(path string) error {
	return export.ExportSVG(path, a.board())
}

func (a *App) writeLabels(path string) error {
	_, err := export.ExportLabels(path, a.store.Snapshot())
	return err
}

func (a *App) exportFile(defaultName string, write func(path string) error) {
	if a.store.Len() == 0 {
		dialog.ShowInformation("Nothing to export", "Create or import some polygons first.", a.window)
		return
	}
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()
		if err := write(path); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.config.AddRecentExport(path, maxRecentExports)
		if err := a.saveConfig(); err != nil {
			log.Printf("failed to record recent export: %v", err)
		}
		dialog.ShowInformation("Export Complete", fmt.Sprintf("Board exported to %s", path), a.window)
	}, a.window)
	d.SetFileName(defaultName)
	d.Show()
}

// ─── Import Functions ──────────────────────────────────────

func (a *App) importFile(read func(path string) importer.ImportResult) {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		a.handleImportResult(read(reader.URI().Path()))
	}, a.window)
}

func (a *App) handleImportResult(result importer.ImportResult) {
	if len(result.Errors) > 0 {
		errorMsg := "Errors encountered during import:\n\n" + strings.Join(result.Errors, "\n")
		dialog.ShowError(fmt.Errorf("%s", errorMsg), a.window)
	}

	if len(result.Warnings) > 0 {
		log.Printf("import warnings: %v", result.Warnings)
	}

	if len(result.Outlines) == 0 {
		return
	}

	w, h := a.bufferSize()
	placed := a.store.ImportToBuffer(result.Outlines, w, h)
	a.refresh()

	msg := fmt.Sprintf("Imported %d polygons into the buffer zone.", len(placed))
	if len(result.Errors) > 0 {
		msg += fmt.Sprintf("\n\nHowever, %d rows had errors and were skipped.", len(result.Errors))
	}
	dialog.ShowInformation("Import Complete", msg, a.window)
}
