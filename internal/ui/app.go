// Package ui is the desktop front end: a drawing board, a toolbar and the
// dialogs around saving, sharing and importing.
package ui

import (
	"fmt"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"smART/internal/config"
	"smART/internal/export"
	"smART/internal/state"
)

// App is one drawing window and the canvas behind it.
type App struct {
	window  fyne.Window
	cfg     config.Config
	canvas  *state.Canvas
	board   *BoardWidget
	toolbar *fyne.Container
	status  *widget.Label

	library export.Sink
	share   export.Sink
}

// New builds the drawing window. share may be nil when LAN sharing is off.
func New(fa fyne.App, cfg config.Config, share export.Sink) (*App, error) {
	return newApp(fa, cfg, share, fyne.Do)
}

func newApp(fa fyne.App, cfg config.Config, share export.Sink, post func(func())) (*App, error) {
	c, err := state.NewCanvas(state.Options{
		Color:         cfg.BrushColor(),
		Width:         cfg.Brush.Width,
		FlashPalette:  cfg.FlashPalette(),
		FlashInterval: cfg.FlashInterval(),
		Post:          post,
		Clock:         state.SystemClock(),
	})
	if err != nil {
		return nil, err
	}

	a := &App{
		window:  fa.NewWindow("smART"),
		cfg:     cfg,
		canvas:  c,
		status:  widget.NewLabel("Ready"),
		library: export.Library{Dir: cfg.LibraryDir(), Album: cfg.Library.Album},
		share:   share,
	}
	a.board = NewBoardWidget(c)
	a.board.OnChange = a.onChange
	c.Flasher().OnTick = a.board.Refresh
	a.toolbar = container.NewStack(a.newToolbar())

	a.window.Resize(fyne.NewSize(1024, 768))
	a.window.SetContent(container.NewBorder(a.toolbar, a.status, nil, nil, a.board))
	a.window.Canvas().SetOnTypedKey(func(k *fyne.KeyEvent) {
		if k.Name == fyne.KeyEscape {
			a.board.Cancel()
		}
	})
	a.window.SetOnClosed(c.Close)
	a.showTool()
	return a, nil
}

func (a *App) onChange(o state.Outcome) {
	if n := len(o.Erased); n > 0 {
		a.status.SetText(fmt.Sprintf("Erased %d strokes", n))
	}
}

// ApplyConfig takes a reloaded configuration. The drawing and the current
// tool are kept; the toolbar, eraser flash and save location follow cfg.
func (a *App) ApplyConfig(cfg config.Config) {
	a.cfg = cfg
	a.library = export.Library{Dir: cfg.LibraryDir(), Album: cfg.Library.Album}
	a.canvas.Flasher().Configure(cfg.FlashPalette(), cfg.FlashInterval())
	a.toolbar.Objects = []fyne.CanvasObject{a.newToolbar()}
	a.toolbar.Refresh()
	log.Println("[UI] Configuration reloaded")
}

func (a *App) Window() fyne.Window { return a.window }

// ShowAndRun shows the window and blocks until the app quits.
func (a *App) ShowAndRun() {
	a.window.ShowAndRun()
}
