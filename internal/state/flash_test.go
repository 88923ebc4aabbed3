package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// queuedPost collects ticks so the test goroutine can run them in order.
func queuedPost() (func(func()), chan func()) {
	ch := make(chan func(), 64)
	return func(fn func()) {
		select {
		case ch <- fn:
		default:
		}
	}, ch
}

func TestFlasherCycles(t *testing.T) {
	f := NewFlasher(nil, time.Millisecond, nil)
	want := []Color{"#AAAAAA", "#000000", "#AAAAAA", "#FFFFFF"}
	assert.Equal(t, Color("#FFFFFF"), f.Color())
	for _, c := range want {
		f.Advance()
		assert.Equal(t, c, f.Color())
	}
}

func TestFlasherTicksThroughPost(t *testing.T) {
	post, queue := queuedPost()
	f := NewFlasher(nil, time.Millisecond, post)
	ticks := 0
	f.OnTick = func() { ticks++ }

	f.Start()
	f.Start() // second start is a no-op
	select {
	case fn := <-queue:
		fn()
	case <-time.After(2 * time.Second):
		t.Fatal("no tick delivered")
	}
	assert.Equal(t, 1, f.Index())
	assert.Equal(t, 1, ticks)

	f.Stop()
	assert.False(t, f.Running())
	assert.Equal(t, 0, f.Index())

	// anything still queued belongs to the cancelled ticker
	for len(queue) > 0 {
		(<-queue)()
	}
	assert.Equal(t, 0, f.Index())
	assert.Equal(t, 1, ticks)
}

func TestFlasherStopWhenIdle(t *testing.T) {
	f := NewFlasher(nil, 0, nil)
	f.Advance()
	f.Stop()
	assert.Equal(t, 0, f.Index())
}

func TestFlasherConfigure(t *testing.T) {
	post, _ := queuedPost()
	f := NewFlasher(nil, time.Hour, post)
	f.Start()
	f.Configure([]Color{"#111111", "#222222"}, time.Hour)
	require.True(t, f.Running())
	assert.Equal(t, Color("#111111"), f.Color())
	f.Stop()
}
