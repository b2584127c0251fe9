package geom

import "testing"

func TestRectCenter(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 100, Height: 40}
	c := r.Center()
	if c.X != 60 || c.Y != 40 {
		t.Errorf("Center() = (%v, %v), want (60, 40)", c.X, c.Y)
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"Inside", Point{5, 5}, true},
		{"TopLeftEdge", Point{0, 0}, true},
		{"BottomRightEdge", Point{10, 10}, true},
		{"Outside", Point{11, 5}, false},
		{"Negative", Point{-1, 5}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.p); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestSizeIsPositive(t *testing.T) {
	if (Size{}).IsPositive() {
		t.Error("zero Size should not be positive")
	}
	if (Size{Width: 10}).IsPositive() {
		t.Error("Size with zero height should not be positive")
	}
	if !(Size{Width: 1, Height: 1}).IsPositive() {
		t.Error("Size{1,1} should be positive")
	}
}

func TestRectTranslated(t *testing.T) {
	r := Rect{X: 1, Y: 2, Width: 3, Height: 4}
	got := r.Translated(10, -2)
	if got.X != 11 || got.Y != 0 || got.Width != 3 || got.Height != 4 {
		t.Errorf("Translated() = %+v", got)
	}
}
