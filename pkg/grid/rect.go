package grid

// Rect is an axis-aligned rectangle in container-local coordinates.
// Y grows downward from the top of the container.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Size is a width/height pair.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// MaxX returns the right edge of r.
func (r Rect) MaxX() float64 { return r.X + r.Width }

// MaxY returns the bottom edge of r.
func (r Rect) MaxY() float64 { return r.Y + r.Height }

// Empty reports whether r encloses no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Intersects reports whether r and s overlap with non-zero area on both
// axes. Rectangles that only share an edge do not intersect.
func (r Rect) Intersects(s Rect) bool {
	return r.X < s.MaxX() && s.X < r.MaxX() &&
		r.Y < s.MaxY() && s.Y < r.MaxY()
}

// Intersect returns the overlap of r and s, or the zero Rect if they do not
// intersect.
func (r Rect) Intersect(s Rect) Rect {
	if !r.Intersects(s) {
		return Rect{}
	}
	x0, y0 := max(r.X, s.X), max(r.Y, s.Y)
	x1, y1 := min(r.MaxX(), s.MaxX()), min(r.MaxY(), s.MaxY())
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}
