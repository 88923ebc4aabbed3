package state

import (
	"context"
	"time"
)

// DefaultFlashPalette is cycled on the live path while erasing so the eraser
// trace stays visible on light and dark backgrounds.
var DefaultFlashPalette = []Color{"#FFFFFF", "#AAAAAA", "#000000", "#AAAAAA"}

const DefaultFlashInterval = 150 * time.Millisecond

// Flasher produces a periodic index into a fixed palette. Ticks are handed
// to post so the index is only touched from the caller's event loop.
type Flasher struct {
	palette  []Color
	interval time.Duration
	post     func(func())

	// OnTick runs after every advance, on the goroutine that post schedules on.
	OnTick func()

	index  int
	cancel context.CancelFunc
	done   chan struct{}
}

// NewFlasher builds a stopped flasher. A nil post runs ticks on the ticker
// goroutine.
func NewFlasher(palette []Color, interval time.Duration, post func(func())) *Flasher {
	if len(palette) == 0 {
		palette = DefaultFlashPalette
	}
	if interval <= 0 {
		interval = DefaultFlashInterval
	}
	if post == nil {
		post = func(fn func()) { fn() }
	}
	return &Flasher{palette: append([]Color(nil), palette...), interval: interval, post: post}
}

// Color returns the palette entry for the current index.
func (f *Flasher) Color() Color {
	return f.palette[f.index]
}

// Index returns the current palette index.
func (f *Flasher) Index() int {
	return f.index
}

// Running reports whether the ticker is active.
func (f *Flasher) Running() bool {
	return f.cancel != nil
}

// Advance moves to the next palette entry.
func (f *Flasher) Advance() {
	f.index = (f.index + 1) % len(f.palette)
}

// Start launches the ticker. Calling Start on a running flasher does nothing.
func (f *Flasher) Start() {
	if f.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	f.cancel = cancel
	f.done = make(chan struct{})
	go f.run(ctx, f.done, f.interval)
}

// Stop cancels the ticker, waits for it to exit and resets the index.
// Ticks already posted but not yet run are dropped.
func (f *Flasher) Stop() {
	if f.cancel != nil {
		f.cancel()
		<-f.done
		f.cancel = nil
		f.done = nil
	}
	f.index = 0
}

// Configure replaces the palette and interval, restarting a running ticker.
func (f *Flasher) Configure(palette []Color, interval time.Duration) {
	running := f.Running()
	f.Stop()
	if len(palette) > 0 {
		f.palette = append([]Color(nil), palette...)
	}
	if interval > 0 {
		f.interval = interval
	}
	if running {
		f.Start()
	}
}

func (f *Flasher) run(ctx context.Context, done chan struct{}, interval time.Duration) {
	defer close(done)
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			f.post(func() {
				if ctx.Err() != nil {
					return
				}
				f.Advance()
				if f.OnTick != nil {
					f.OnTick()
				}
			})
		}
	}
}
