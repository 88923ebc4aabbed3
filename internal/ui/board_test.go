package ui

import (
	"image"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smART/internal/state"
)

func newTestBoard(t *testing.T) (*BoardWidget, *state.Canvas) {
	t.Helper()
	test.NewTempApp(t)
	c, err := state.NewCanvas(state.Options{Post: func(func()) {}})
	require.NoError(t, err)
	t.Cleanup(c.Close)
	b := NewBoardWidget(c)
	b.Resize(fyne.NewSize(200, 200))
	return b, c
}

func drag(b *BoardWidget, from fyne.Position, steps ...fyne.Position) {
	prev := from
	for _, p := range steps {
		b.Dragged(&fyne.DragEvent{
			PointEvent: fyne.PointEvent{Position: p},
			Dragged:    fyne.NewDelta(p.X-prev.X, p.Y-prev.Y),
		})
		prev = p
	}
	b.DragEnd()
}

func countObjects(objs []fyne.CanvasObject) (lines, dots, images int) {
	for _, o := range objs {
		switch o.(type) {
		case *canvas.Line:
			lines++
		case *canvas.Circle:
			dots++
		case *canvas.Image:
			images++
		}
	}
	return
}

func TestDragCommitsStroke(t *testing.T) {
	b, c := newTestBoard(t)
	var changes []state.Outcome
	b.OnChange = func(o state.Outcome) { changes = append(changes, o) }

	drag(b, fyne.NewPos(10, 10), fyne.NewPos(20, 10), fyne.NewPos(30, 15))

	strokes := c.Strokes()
	require.Len(t, strokes, 1)
	assert.Equal(t, state.Path{{X: 10, Y: 10}, {X: 20, Y: 10}, {X: 30, Y: 15}}, strokes[0].Path)
	require.Len(t, changes, 1)
	assert.NotNil(t, changes[0].Committed)
	assert.Nil(t, c.InProgress())
}

func TestTapCommitsDot(t *testing.T) {
	b, c := newTestBoard(t)
	b.Tapped(&fyne.PointEvent{Position: fyne.NewPos(50, 60)})

	strokes := c.Strokes()
	require.Len(t, strokes, 1)
	assert.Equal(t, state.Path{{X: 50, Y: 60}}, strokes[0].Path)
}

func TestCancelDropsGesture(t *testing.T) {
	b, c := newTestBoard(t)
	b.Dragged(&fyne.DragEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(20, 20)},
		Dragged:    fyne.NewDelta(10, 10),
	})
	assert.Len(t, c.InProgress(), 2)

	b.Cancel()
	b.DragEnd()
	assert.Empty(t, c.Strokes())
	assert.Nil(t, c.InProgress())
}

func TestEraseDragRemovesStroke(t *testing.T) {
	b, c := newTestBoard(t)
	drag(b, fyne.NewPos(10, 50), fyne.NewPos(100, 50))
	drag(b, fyne.NewPos(10, 150), fyne.NewPos(100, 150))
	require.Len(t, c.Strokes(), 2)

	var erased int
	b.OnChange = func(o state.Outcome) { erased += len(o.Erased) }
	c.SelectEraser()
	drag(b, fyne.NewPos(100, 30), fyne.NewPos(102, 52))

	assert.Equal(t, 1, erased)
	strokes := c.Strokes()
	require.Len(t, strokes, 1)
	assert.Equal(t, 150.0, strokes[0].Path[0].Y)
}

func TestEraseMissDoesNotNotify(t *testing.T) {
	b, c := newTestBoard(t)
	drag(b, fyne.NewPos(10, 50), fyne.NewPos(100, 50))
	c.SelectEraser()

	called := false
	b.OnChange = func(state.Outcome) { called = true }
	drag(b, fyne.NewPos(10, 150), fyne.NewPos(100, 150))

	assert.False(t, called)
	assert.Len(t, c.Strokes(), 1)
}

func TestRendererDrawsFrame(t *testing.T) {
	b, c := newTestBoard(t)
	drag(b, fyne.NewPos(10, 10), fyne.NewPos(20, 10), fyne.NewPos(30, 10))
	b.Tapped(&fyne.PointEvent{Position: fyne.NewPos(80, 80)})

	r := b.CreateRenderer()
	r.Layout(b.Size())
	lines, dots, images := countObjects(r.Objects())
	assert.Equal(t, 2, lines)
	assert.Equal(t, 1, dots)
	assert.Equal(t, 0, images)

	c.SetBackdrop(image.NewRGBA(image.Rect(0, 0, 400, 100)))
	b.Dragged(&fyne.DragEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(60, 60)},
		Dragged:    fyne.NewDelta(5, 5),
	})
	r.Refresh()
	lines, dots, images = countObjects(r.Objects())
	assert.Equal(t, 3, lines, "live segment is drawn")
	assert.Equal(t, 1, dots)
	assert.Equal(t, 1, images)

	img := r.(*boardRenderer).backdrop.Image
	require.NotNil(t, img)
	assert.Equal(t, image.Rect(0, 0, 200, 200), img.Bounds())
}
