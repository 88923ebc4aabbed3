package state

// Rect is an axis-aligned rectangle. Edges are inclusive.
type Rect struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

func boundsOf(points []Point) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	r := Rect{MinX: points[0].X, MinY: points[0].Y, MaxX: points[0].X, MaxY: points[0].Y}
	for _, pt := range points[1:] {
		if pt.X < r.MinX {
			r.MinX = pt.X
		}
		if pt.X > r.MaxX {
			r.MaxX = pt.X
		}
		if pt.Y < r.MinY {
			r.MinY = pt.Y
		}
		if pt.Y > r.MaxY {
			r.MaxY = pt.Y
		}
	}
	return r
}

// Inflate grows r by d on every side.
func (r Rect) Inflate(d float64) Rect {
	return Rect{MinX: r.MinX - d, MinY: r.MinY - d, MaxX: r.MaxX + d, MaxY: r.MaxY + d}
}

// Overlaps reports whether r and o share at least one point.
func (r Rect) Overlaps(o Rect) bool {
	return !(r.MaxX < o.MinX || o.MaxX < r.MinX ||
		r.MaxY < o.MinY || o.MaxY < r.MinY)
}

// Width and Height of the rectangle.
func (r Rect) Width() float64  { return r.MaxX - r.MinX }
func (r Rect) Height() float64 { return r.MaxY - r.MinY }
