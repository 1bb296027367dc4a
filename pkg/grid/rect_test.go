package grid

import "testing"

func TestRectEdges(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 30, Height: 40}
	if r.MaxX() != 40 {
		t.Errorf("MaxX() = %v, want 40", r.MaxX())
	}
	if r.MaxY() != 60 {
		t.Errorf("MaxY() = %v, want 60", r.MaxY())
	}
}

func TestRectEmpty(t *testing.T) {
	tests := []struct {
		name string
		rect Rect
		want bool
	}{
		{"positive", Rect{Width: 1, Height: 1}, false},
		{"zero width", Rect{Width: 0, Height: 1}, true},
		{"zero height", Rect{Width: 1, Height: 0}, true},
		{"negative", Rect{Width: -1, Height: 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rect.Empty(); got != tt.want {
				t.Errorf("Empty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRectIntersects(t *testing.T) {
	base := Rect{X: 0, Y: 0, Width: 10, Height: 10}

	tests := []struct {
		name  string
		other Rect
		want  bool
	}{
		{"identical", base, true},
		{"contained", Rect{X: 2, Y: 2, Width: 2, Height: 2}, true},
		{"containing", Rect{X: -5, Y: -5, Width: 20, Height: 20}, true},
		{"partial overlap", Rect{X: 5, Y: 5, Width: 10, Height: 10}, true},
		{"touching right edge", Rect{X: 10, Y: 0, Width: 5, Height: 10}, false},
		{"touching bottom edge", Rect{X: 0, Y: 10, Width: 10, Height: 5}, false},
		{"touching corner", Rect{X: 10, Y: 10, Width: 5, Height: 5}, false},
		{"disjoint", Rect{X: 20, Y: 20, Width: 5, Height: 5}, false},
		{"zero area inside", Rect{X: 5, Y: 5, Width: 0, Height: 0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Intersects(tt.other); got != tt.want {
				t.Errorf("Intersects(%+v) = %v, want %v", tt.other, got, tt.want)
			}
			if got := tt.other.Intersects(base); got != tt.want {
				t.Errorf("symmetric Intersects(%+v) = %v, want %v", tt.other, got, tt.want)
			}
		})
	}
}

func TestRectIntersect(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	b := Rect{X: 5, Y: 4, Width: 10, Height: 10}

	want := Rect{X: 5, Y: 4, Width: 5, Height: 6}
	if got := a.Intersect(b); got != want {
		t.Errorf("Intersect() = %+v, want %+v", got, want)
	}

	if got := a.Intersect(Rect{X: 10, Y: 0, Width: 5, Height: 5}); got != (Rect{}) {
		t.Errorf("Intersect() of touching rects = %+v, want zero Rect", got)
	}
}
