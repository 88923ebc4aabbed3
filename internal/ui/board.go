package ui

import (
	"image"
	"image/color"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"smART/internal/backdrop"
	"smART/internal/state"
)

// BoardWidget turns pointer gestures into canvas operations and draws the
// canvas. A drag is one gesture; a tap is a single-point gesture.
type BoardWidget struct {
	widget.BaseWidget
	canvas   *state.Canvas
	dragging bool

	// OnChange runs after a gesture committed or erased strokes.
	OnChange func(state.Outcome)
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ fyne.Tappable = (*BoardWidget)(nil)

func NewBoardWidget(c *state.Canvas) *BoardWidget {
	b := &BoardWidget{canvas: c}
	b.ExtendBaseWidget(b)
	return b
}

func toPoint(p fyne.Position) state.Point {
	return state.Point{X: float64(p.X), Y: float64(p.Y)}
}

func (b *BoardWidget) Dragged(e *fyne.DragEvent) {
	if !b.dragging {
		// the first event already carries the distance moved since the press
		b.canvas.Begin(toPoint(e.Position.Subtract(e.Dragged)))
		b.dragging = true
	}
	if err := b.canvas.Extend(toPoint(e.Position)); err != nil {
		log.Printf("[UI] Drag ignored: %v", err)
	}
	b.Refresh()
}

func (b *BoardWidget) DragEnd() {
	if !b.dragging {
		return
	}
	b.dragging = false
	b.finish(b.canvas.End())
}

func (b *BoardWidget) Tapped(e *fyne.PointEvent) {
	if b.dragging {
		return
	}
	b.canvas.Begin(toPoint(e.Position))
	b.finish(b.canvas.End())
}

// Cancel abandons the gesture in progress.
func (b *BoardWidget) Cancel() {
	if !b.dragging {
		return
	}
	b.dragging = false
	b.canvas.Cancel()
	b.Refresh()
}

func (b *BoardWidget) finish(o state.Outcome) {
	if (o.Committed != nil || len(o.Erased) > 0) && b.OnChange != nil {
		b.OnChange(o)
	}
	b.Refresh()
}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	r := &boardRenderer{
		board:      b,
		background: canvas.NewRectangle(color.White),
		backdrop:   &canvas.Image{FillMode: canvas.ImageFillStretch},
	}
	r.rebuild()
	return r
}

type boardRenderer struct {
	board      *BoardWidget
	background *canvas.Rectangle
	backdrop   *canvas.Image

	// cover crop of the last backdrop, reused until the image or size changes
	coverOf   image.Image
	coverSize fyne.Size

	objects []fyne.CanvasObject
}

func (r *boardRenderer) rebuild() {
	frame := r.board.canvas.Frame()
	size := r.board.Size()

	objects := []fyne.CanvasObject{r.background}
	if frame.Backdrop != nil && size.Width >= 1 && size.Height >= 1 {
		if frame.Backdrop != r.coverOf || size != r.coverSize {
			r.backdrop.Image = backdrop.Cover(frame.Backdrop, int(size.Width), int(size.Height))
			r.coverOf, r.coverSize = frame.Backdrop, size
			r.backdrop.Refresh()
		}
		r.backdrop.Resize(size)
		objects = append(objects, r.backdrop)
	} else {
		r.coverOf = nil
	}

	for _, s := range frame.Strokes {
		objects = appendPath(objects, s.Path, s.Color, s.Width)
	}
	if live := frame.Live; live != nil {
		objects = appendPath(objects, live.Path, live.Color, live.Width)
	}
	r.objects = objects
}

// appendPath adds line segments for p, or a dot when p is a single point.
func appendPath(objects []fyne.CanvasObject, p state.Path, c state.Color, width float64) []fyne.CanvasObject {
	col := c.NRGBA()
	if len(p) == 1 {
		radius := float32(width / 2)
		dot := canvas.NewCircle(col)
		dot.Position1 = fyne.NewPos(float32(p[0].X)-radius, float32(p[0].Y)-radius)
		dot.Position2 = fyne.NewPos(float32(p[0].X)+radius, float32(p[0].Y)+radius)
		return append(objects, dot)
	}
	for i := 1; i < len(p); i++ {
		seg := canvas.NewLine(col)
		seg.StrokeWidth = float32(width)
		seg.Position1 = fyne.NewPos(float32(p[i-1].X), float32(p[i-1].Y))
		seg.Position2 = fyne.NewPos(float32(p[i].X), float32(p[i].Y))
		objects = append(objects, seg)
	}
	return objects
}

func (r *boardRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *boardRenderer) Refresh() {
	r.rebuild()
	canvas.Refresh(r.board)
}

func (r *boardRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)
	r.rebuild()
}

func (r *boardRenderer) MinSize() fyne.Size {
	return fyne.NewSize(300, 300)
}

func (r *boardRenderer) Destroy() {}
