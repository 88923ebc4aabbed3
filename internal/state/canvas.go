package state

import (
	"image"
	"log"
	"time"
)

// Options configures a new Canvas. Zero values fall back to the defaults.
type Options struct {
	Color         Color
	Width         float64
	FlashPalette  []Color
	FlashInterval time.Duration
	// Post schedules flasher ticks on the event loop that owns the canvas.
	Post  func(func())
	Clock Clock
}

// Outcome describes what ending a gesture changed.
type Outcome struct {
	Committed *Stroke
	Erased    []Stroke
}

// LiveStroke is the in-progress path with the colour it is drawn in.
type LiveStroke struct {
	Path  Path
	Color Color
	Width float64
}

// Frame is everything a renderer needs for one frame.
type Frame struct {
	Backdrop image.Image
	Strokes  []Stroke
	Live     *LiveStroke
}

// Canvas is the state of one drawing session. It is owned by a single event
// loop and must not be shared between goroutines.
type Canvas struct {
	strokes  []Stroke
	recorder Recorder
	mode     Mode
	color    Color
	width    float64
	backdrop image.Image
	flasher  *Flasher
	clock    Clock

	// colour and width in effect when the current gesture began
	gestureColor Color
	gestureWidth float64
}

// NewCanvas creates an empty canvas in draw mode.
func NewCanvas(opts Options) (*Canvas, error) {
	c := &Canvas{
		strokes: make([]Stroke, 0),
		mode:    ModeDraw,
		color:   DefaultColor,
		width:   DefaultWidth,
		clock:   opts.Clock,
		flasher: NewFlasher(opts.FlashPalette, opts.FlashInterval, opts.Post),
	}
	if opts.Color != "" {
		col, err := ParseColor(string(opts.Color))
		if err != nil {
			return nil, err
		}
		c.color = col
	}
	if opts.Width != 0 {
		if !ValidWidth(opts.Width) {
			return nil, ErrInvalidWidth
		}
		c.width = opts.Width
	}
	return c, nil
}

// Begin starts a gesture at p.
func (c *Canvas) Begin(p Point) {
	c.recorder.Begin(p)
	c.gestureColor = c.color
	c.gestureWidth = c.width
}

// Extend adds p to the current gesture.
func (c *Canvas) Extend(p Point) error {
	return c.recorder.Extend(p)
}

// End finishes the current gesture. In draw mode the path becomes a new
// stroke; in erase mode every stroke it touches is removed. The in-progress
// path is cleared either way.
func (c *Canvas) End() Outcome {
	path, ok := c.recorder.End()
	if !ok {
		return Outcome{}
	}

	if c.mode == ModeErase {
		survivors, erased := partition(c.strokes, path, c.width)
		c.strokes = survivors
		if len(erased) > 0 {
			log.Printf("[CANVAS] Erased %d strokes (radius %.1f)", len(erased), c.width)
		}
		return Outcome{Erased: erased}
	}

	id, now := c.clock.stamp()
	s := Stroke{
		ID:        id,
		Path:      path,
		Color:     c.gestureColor,
		Width:     c.gestureWidth,
		CreatedAt: now,
	}
	c.strokes = append(c.strokes, s)
	log.Printf("[CANVAS] Stroke committed: %s (%d points)", s.ID, len(s.Path))
	return Outcome{Committed: &s}
}

// Cancel drops the current gesture without committing or erasing anything.
func (c *Canvas) Cancel() {
	c.recorder.Cancel()
}

// Undo removes the most recently committed stroke.
func (c *Canvas) Undo() (Stroke, bool) {
	if len(c.strokes) == 0 {
		return Stroke{}, false
	}
	last := c.strokes[len(c.strokes)-1]
	c.strokes = c.strokes[:len(c.strokes)-1]
	log.Printf("[CANVAS] Undo: %s", last.ID)
	return last, true
}

// Clear removes every stroke and the in-progress path.
func (c *Canvas) Clear() {
	c.strokes = make([]Stroke, 0)
	c.recorder.Cancel()
	log.Println("[CANVAS] Cleared")
}

// Load replaces all strokes, e.g. when opening a saved drawing.
func (c *Canvas) Load(strokes []Stroke) {
	c.strokes = append(make([]Stroke, 0, len(strokes)), strokes...)
	c.recorder.Cancel()
	log.Printf("[CANVAS] Loaded %d strokes", len(strokes))
}

// SelectColor makes col the brush colour and switches to draw mode.
func (c *Canvas) SelectColor(col Color) error {
	parsed, err := ParseColor(string(col))
	if err != nil {
		return err
	}
	c.color = parsed
	c.setMode(ModeDraw)
	return nil
}

// SelectEraser switches to erase mode.
func (c *Canvas) SelectEraser() {
	c.setMode(ModeErase)
}

// SetWidth changes the brush width. It is also the eraser radius.
func (c *Canvas) SetWidth(w float64) error {
	if !ValidWidth(w) {
		return ErrInvalidWidth
	}
	c.width = w
	return nil
}

func (c *Canvas) setMode(m Mode) {
	if c.mode == m {
		return
	}
	c.mode = m
	if m == ModeErase {
		c.flasher.Start()
	} else {
		c.flasher.Stop()
	}
	log.Printf("[CANVAS] Mode: %s", m)
}

// SetBackdrop sets the image drawn beneath all strokes. nil removes it.
func (c *Canvas) SetBackdrop(img image.Image) {
	c.backdrop = img
}

func (c *Canvas) Backdrop() image.Image { return c.backdrop }
func (c *Canvas) Mode() Mode            { return c.mode }
func (c *Canvas) Color() Color          { return c.color }
func (c *Canvas) Width() float64        { return c.width }
func (c *Canvas) Flasher() *Flasher     { return c.flasher }

// InProgress returns the path of the current gesture, or nil.
func (c *Canvas) InProgress() Path {
	return c.recorder.Current()
}

// Strokes returns a copy of the committed strokes in drawing order.
func (c *Canvas) Strokes() []Stroke {
	return append(make([]Stroke, 0, len(c.strokes)), c.strokes...)
}

// Frame snapshots the canvas for rendering. The live stroke follows the
// current tool: the brush colour while drawing, the flash colour while
// erasing.
func (c *Canvas) Frame() Frame {
	f := Frame{Backdrop: c.backdrop, Strokes: c.Strokes()}
	if cur := c.recorder.Current(); len(cur) > 0 {
		live := &LiveStroke{Path: cur.Clone(), Color: c.color, Width: c.width}
		if c.mode == ModeErase {
			live.Color = c.flasher.Color()
		}
		f.Live = live
	}
	return f
}

// Close releases the flash ticker.
func (c *Canvas) Close() {
	c.flasher.Stop()
}
