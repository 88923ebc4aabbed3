package state

import (
	"time"

	"github.com/google/uuid"
)

// Clock stamps new strokes with an identifier and creation time.
type Clock struct {
	Now   func() time.Time
	NewID func() string
}

// SystemClock uses wall time and random UUIDs.
func SystemClock() Clock {
	return Clock{Now: time.Now, NewID: uuid.NewString}
}

func (c Clock) stamp() (string, time.Time) {
	if c.Now == nil || c.NewID == nil {
		c = SystemClock()
	}
	return c.NewID(), c.Now()
}
