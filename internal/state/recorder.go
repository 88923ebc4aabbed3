package state

import "errors"

// ErrNoGesture is returned by Extend when no gesture is in progress.
var ErrNoGesture = errors.New("no gesture in progress")

// Recorder turns one pointer gesture into a Path.
type Recorder struct {
	path Path
}

// Begin starts a new path at p, discarding any path already in progress.
func (r *Recorder) Begin(p Point) {
	r.path = Path{p}
}

// Extend appends p to the path in progress.
func (r *Recorder) Extend(p Point) error {
	if len(r.path) == 0 {
		return ErrNoGesture
	}
	r.path = append(r.path, p)
	return nil
}

// End returns the finished path and clears the recorder. ok is false when
// nothing was recorded.
func (r *Recorder) End() (p Path, ok bool) {
	p, r.path = r.path, nil
	return p, len(p) > 0
}

// Cancel drops the path in progress.
func (r *Recorder) Cancel() {
	r.path = nil
}

// Active reports whether a gesture is in progress.
func (r *Recorder) Active() bool {
	return len(r.path) > 0
}

// Current returns the path in progress. The caller must not modify it.
func (r *Recorder) Current() Path {
	return r.path
}
