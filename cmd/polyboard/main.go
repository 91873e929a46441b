// PolyBoard: polygon staging board
//
// A desktop application that generates random polygons into a buffer zone
// and lets them be dragged onto a pannable, zoomable work zone. The board is
// persisted under the key wc-polygons-v1.
//
// Build:
//   go build -o polyboard ./cmd/polyboard
//
// Cross-compile with fyne-cross:
//   go install github.com/fyne-io/fyne-cross@latest
//   fyne-cross windows -arch=amd64
//   fyne-cross darwin  -arch=amd64,arm64

package main

import (
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/piwi3910/polyboard/internal/model"
	"github.com/piwi3910/polyboard/internal/project"
	"github.com/piwi3910/polyboard/internal/ui"
)

func main() {
	configPath := project.DefaultConfigPath()
	config, err := project.LoadAppConfig(configPath)
	if err != nil {
		log.Printf("using default settings: %v", err)
		config = model.DefaultAppConfig()
	}

	application := app.NewWithID("com.piwi3910.polyboard")
	application.Settings().SetTheme(ui.ThemeForName(config.Theme))
	window := application.NewWindow(ui.Title)

	appUI := ui.NewApp(application, window, config, configPath, ui.GatewayFor(application, config))
	appUI.SetupMenus()
	window.SetContent(appUI.Build())
	window.Resize(fyne.NewSize(1200, 800))
	window.CenterOnScreen()
	window.ShowAndRun()
}
