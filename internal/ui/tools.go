package ui

import (
	"errors"
	"fmt"
	"image/color"
	"log"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"smART/internal/backdrop"
	"smART/internal/export"
	"smART/internal/fault"
	"smART/internal/state"
)

var imageFilter = storage.NewExtensionFileFilter([]string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp"})

// --- Color swatches ---
type colorSwatch struct {
	widget.BaseWidget
	Color    state.Color
	OnTapped func(state.Color)
}

func newColorSwatch(c state.Color, tapped func(state.Color)) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.Color.NRGBA())
	rect.SetMinSize(fyne.NewSize(32, 32))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Color)
	}
}

func formatWidth(w float64) string {
	return strconv.FormatFloat(w, 'g', -1, 64)
}

// --- The main toolbar ---
func (a *App) newToolbar() fyne.CanvasObject {
	swatches := container.NewHBox()
	for _, c := range a.cfg.Palette() {
		swatches.Add(newColorSwatch(c, a.selectColor))
	}
	eraser := widget.NewButtonWithIcon("", theme.ContentClearIcon(), a.selectEraser)

	labels := make([]string, 0, len(a.cfg.Brush.Sizes))
	for _, w := range a.cfg.Brush.Sizes {
		labels = append(labels, formatWidth(w))
	}
	sizes := widget.NewRadioGroup(labels, a.selectWidth)
	sizes.Horizontal = true
	sizes.Required = true
	sizes.SetSelected(formatWidth(a.canvas.Width()))

	actions := widget.NewToolbar(
		widget.NewToolbarAction(theme.ContentUndoIcon(), a.undo),
		widget.NewToolbarAction(theme.DeleteIcon(), a.confirmClear),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.FileImageIcon(), a.pickBackdrop),
		widget.NewToolbarAction(theme.FolderOpenIcon(), a.openDrawing),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), a.saveDrawing),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.DownloadIcon(), a.saveImage),
		widget.NewToolbarAction(theme.MailSendIcon(), a.shareImage),
		widget.NewToolbarAction(theme.DocumentPrintIcon(), a.exportPDF),
	)

	return container.NewHBox(
		widget.NewLabel("Color:"),
		swatches,
		eraser,
		widget.NewSeparator(),
		widget.NewLabel("Size:"),
		sizes,
		layout.NewSpacer(),
		actions,
	)
}

func (a *App) selectColor(c state.Color) {
	if err := a.canvas.SelectColor(c); err != nil {
		a.notify(err)
		return
	}
	a.showTool()
}

func (a *App) selectEraser() {
	a.canvas.SelectEraser()
	a.showTool()
}

func (a *App) selectWidth(label string) {
	w, err := strconv.ParseFloat(label, 64)
	if err == nil {
		err = a.canvas.SetWidth(w)
	}
	if err != nil {
		log.Printf("[UI] Ignoring brush size %q: %v", label, err)
		return
	}
	a.showTool()
}

func (a *App) showTool() {
	if a.canvas.Mode() == state.ModeErase {
		a.status.SetText(fmt.Sprintf("Eraser, %spx", formatWidth(a.canvas.Width())))
	} else {
		a.status.SetText(fmt.Sprintf("Brush %s, %spx", a.canvas.Color(), formatWidth(a.canvas.Width())))
	}
	a.board.Refresh()
}

func (a *App) undo() {
	if s, ok := a.canvas.Undo(); ok {
		a.status.SetText(fmt.Sprintf("Removed stroke %s", s.ID))
	}
	a.board.Refresh()
}

func (a *App) confirmClear() {
	dialog.ShowConfirm("Are you sure?", "This will clear your entire drawing.", func(ok bool) {
		if ok {
			a.clear()
		}
	}, a.window)
}

func (a *App) clear() {
	a.canvas.Clear()
	a.status.SetText("Cleared")
	a.board.Refresh()
}

func (a *App) pickBackdrop() {
	d := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
		if err != nil {
			a.notify(fault.FromIO("import background", err, fault.KindUnknown))
			return
		}
		if r == nil {
			return
		}
		defer r.Close()
		a.loadBackdrop(r)
	}, a.window)
	d.SetFilter(imageFilter)
	d.Show()
}

func (a *App) loadBackdrop(r fyne.URIReadCloser) {
	img, err := backdrop.Decode(r, a.cfg.Backdrop.MaxDimension)
	if err != nil {
		a.notify(err)
		return
	}
	a.canvas.SetBackdrop(img)
	a.status.SetText("Background: " + r.URI().Name())
	a.board.Refresh()
}

func (a *App) saveDrawing() {
	d := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
		if err != nil {
			a.notify(fault.FromIO("save drawing", err, fault.KindExportFailed))
			return
		}
		if w == nil {
			return
		}
		a.writeDrawing(w)
	}, a.window)
	d.SetFileName("drawing.json")
	d.Show()
}

// writeDrawing saves the strokes to w. Storage backends may only commit
// the file on Close, so its error counts as a failed save.
func (a *App) writeDrawing(w fyne.URIWriteCloser) {
	strokes := a.canvas.Strokes()
	err := state.WriteDocument(w, strokes)
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		a.notify(fault.FromIO("save drawing", err, fault.KindExportFailed))
		return
	}
	a.status.SetText(fmt.Sprintf("Saved %d strokes", len(strokes)))
}

func (a *App) openDrawing() {
	d := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
		if err != nil {
			a.notify(fault.FromIO("open drawing", err, fault.KindUnknown))
			return
		}
		if r == nil {
			return
		}
		defer r.Close()
		a.loadDrawing(r)
	}, a.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".json"}))
	d.Show()
}

func (a *App) loadDrawing(r fyne.URIReadCloser) {
	strokes, err := state.ReadDocument(r)
	if err != nil {
		a.notify(err)
		return
	}
	a.board.Cancel()
	a.canvas.Load(strokes)
	a.status.SetText(fmt.Sprintf("Loaded %d strokes", len(strokes)))
	a.board.Refresh()
}

// captureSize is the on-screen board size, or the configured export size
// before the board has been laid out.
func (a *App) captureSize() (int, int) {
	size := a.board.Size()
	if size.Width < 1 || size.Height < 1 {
		return a.cfg.Export.Width, a.cfg.Export.Height
	}
	return int(size.Width), int(size.Height)
}

func (a *App) capture() (export.Artifact, error) {
	w, h := a.captureSize()
	return export.Capture(a.canvas.Frame(), w, h)
}

func (a *App) saveImage() {
	art, err := a.capture()
	if err != nil {
		a.notify(err)
		return
	}
	where, err := a.library.Publish(art)
	if err != nil {
		a.notify(err)
		return
	}
	log.Printf("[UI] Saved %s", where)
	a.status.SetText("Saved " + art.Name)
	dialog.ShowInformation("Saved!", "Your artwork has been saved to the "+a.cfg.Library.Album+" album.", a.window)
}

func (a *App) shareImage() {
	if a.share == nil {
		a.notify(fault.New(fault.KindExportFailed, "share", errors.New("sharing is disabled")))
		return
	}
	art, err := a.capture()
	if err != nil {
		a.notify(err)
		return
	}
	link, err := a.share.Publish(art)
	if err != nil {
		a.notify(err)
		return
	}
	a.status.SetText("Shared at " + link)
	dialog.ShowInformation("Shared", "Your artwork is available at "+link, a.window)
}

func (a *App) exportPDF() {
	d := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
		if err != nil {
			a.notify(fault.FromIO("export pdf", err, fault.KindExportFailed))
			return
		}
		if w == nil {
			return
		}
		a.writePDF(w)
	}, a.window)
	d.SetFileName("smART.pdf")
	d.Show()
}

func (a *App) writePDF(w fyne.URIWriteCloser) {
	width, height := a.captureSize()
	err := export.WritePDF(w, a.canvas.Frame(), width, height)
	if cerr := w.Close(); err == nil && cerr != nil {
		err = fault.FromIO("export pdf", cerr, fault.KindExportFailed)
	}
	if err != nil {
		a.notify(err)
		return
	}
	a.status.SetText("Exported " + w.URI().Name())
}

// notify reports err to the user. Failures never change the drawing.
func (a *App) notify(err error) {
	title, msg := fault.Notice(err)
	log.Printf("[UI] %s: %v", title, err)
	a.status.SetText(msg)
	dialog.ShowInformation(title, msg, a.window)
}
