package state

// Erase returns the strokes that survive an erase gesture, in their original
// order. A stroke is removed when any of its points lies within radius of any
// gesture point.
func Erase(strokes []Stroke, gesture Path, radius float64) []Stroke {
	survivors, _ := partition(strokes, gesture, radius)
	return survivors
}

func partition(strokes []Stroke, gesture Path, radius float64) (survivors, erased []Stroke) {
	survivors = make([]Stroke, 0, len(strokes))
	if len(gesture) == 0 || radius < 0 {
		return append(survivors, strokes...), nil
	}
	area := gesture.Bounds()
	for _, s := range strokes {
		if s.Path.Bounds().Inflate(radius).Overlaps(area) && Intersects(s, gesture, radius) {
			erased = append(erased, s)
			continue
		}
		survivors = append(survivors, s)
	}
	return survivors, erased
}

// Intersects reports whether some point of s is within radius of some point
// of gesture.
func Intersects(s Stroke, gesture Path, radius float64) bool {
	if radius < 0 {
		return false
	}
	r2 := radius * radius
	for _, sp := range s.Path {
		for _, ep := range gesture {
			dx, dy := sp.X-ep.X, sp.Y-ep.Y
			if dx*dx+dy*dy <= r2 {
				return true
			}
		}
	}
	return false
}
