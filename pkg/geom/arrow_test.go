package geom

import (
	"math"
	"testing"
)

const tol = 1e-9

func TestClipArrowOutside(t *testing.T) {
	box := Rect{X: 300, Y: 100, W: 120, H: 60}

	tests := []struct {
		name   string
		anchor Point
		want   Point
	}{
		{"left", Point{X: 60, Y: 130}, Point{X: 300, Y: 130}},
		{"right", Point{X: 600, Y: 130}, Point{X: 420, Y: 130}},
		{"above", Point{X: 360, Y: -200}, Point{X: 360, Y: 100}},
		{"below", Point{X: 360, Y: 500}, Point{X: 360, Y: 160}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClipArrow(tt.anchor, box)
			if math.Abs(got.X-tt.want.X) > tol || math.Abs(got.Y-tt.want.Y) > tol {
				t.Errorf("ClipArrow(%v) = %v, want %v", tt.anchor, got, tt.want)
			}
		})
	}
}

func TestClipArrowDominantAxisRatio(t *testing.T) {
	box := Rect{X: 100, Y: 100, W: 100, H: 100} // center (150,150)
	anchor := Point{X: 0, Y: 100}                // dx=150, dy=50

	got := ClipArrow(anchor, box)
	// r = (100-0)/150, y = 100 + r*50
	wantY := 100 + (100.0/150.0)*50
	if got.X != 100 || math.Abs(got.Y-wantY) > tol {
		t.Errorf("ClipArrow = %v, want (100, %v)", got, wantY)
	}
}

func TestClipArrowBoundaryProperty(t *testing.T) {
	boxes := []Rect{
		{X: 0, Y: 0, W: 120, H: 60},
		{X: -50, Y: 20, W: 400, H: 10}, // wide and flat
		{X: 10, Y: 10, W: 5, H: 300},   // tall and thin
	}
	anchors := []Point{
		{X: -100, Y: -60}, {X: 500, Y: -60}, {X: 500, Y: 400}, {X: -100, Y: 400},
		{X: 60, Y: -300}, {X: 60, Y: 300}, {X: -300, Y: 30}, {X: 700, Y: 25},
	}

	for _, box := range boxes {
		for _, a := range anchors {
			if box.Contains(a.X, a.Y) {
				continue
			}
			e := ClipArrow(a, box)
			if !box.OnBoundary(e, 1e-7) {
				t.Errorf("box %v anchor %v: terminal %v not on boundary", box, a, e)
			}
			// Every point strictly before the terminal stays outside.
			for _, f := range []float64{0.25, 0.5, 0.9, 0.999} {
				px := a.X + f*(e.X-a.X)
				py := a.Y + f*(e.Y-a.Y)
				if box.Contains(px, py) {
					t.Errorf("box %v anchor %v: segment enters interior at f=%v", box, a, f)
				}
			}
		}
	}
}

func TestClipArrowInside(t *testing.T) {
	box := Rect{X: 0, Y: 0, W: 200, H: 100} // center (100,50)

	tests := []struct {
		name   string
		anchor Point
		want   Point
	}{
		{"left of center", Point{X: 60, Y: 50}, Point{X: 0, Y: 50}},
		{"above center", Point{X: 100, Y: 20}, Point{X: 100, Y: 0}},
		{"diagonal", Point{X: 90, Y: 45}, Point{X: 0, Y: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClipArrow(tt.anchor, box)
			if math.Abs(got.X-tt.want.X) > tol || math.Abs(got.Y-tt.want.Y) > tol {
				t.Errorf("ClipArrow(%v) = %v, want %v", tt.anchor, got, tt.want)
			}
			if !box.OnBoundary(got, tol) {
				t.Errorf("terminal %v not on boundary", got)
			}
		})
	}
}

func TestClipArrowDegenerate(t *testing.T) {
	box := Rect{X: 10, Y: 10, W: 100, H: 40}
	got := ClipArrow(box.Center(), box)
	want := Point{X: 10, Y: 30}
	if got != want {
		t.Errorf("ClipArrow(center) = %v, want %v", got, want)
	}
}

func TestClipArrowIdempotent(t *testing.T) {
	box := Rect{X: 300, Y: 100, W: 120, H: 60}
	a := Point{X: 17, Y: 250}
	first := ArrowFor(a, box)
	for i := 0; i < 5; i++ {
		if got := ArrowFor(a, box); got != first {
			t.Fatalf("ArrowFor changed between calls: %v != %v", got, first)
		}
	}
}

func TestRectContainsStrict(t *testing.T) {
	r := Rect{X: 0, Y: 0, W: 10, H: 10}
	tests := []struct {
		x, y float64
		want bool
	}{
		{5, 5, true},
		{0, 5, false},
		{10, 5, false},
		{5, 0, false},
		{5, 10, false},
		{-1, 5, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.x, tt.y); got != tt.want {
			t.Errorf("Contains(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestRectUnion(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 10, H: 10}
	b := Rect{X: 20, Y: -5, W: 5, H: 5}
	got := a.Union(b)
	want := Rect{X: 0, Y: -5, W: 25, H: 15}
	if got != want {
		t.Errorf("Union = %v, want %v", got, want)
	}
	if got := (Rect{}).Union(b); got != b {
		t.Errorf("empty Union = %v, want %v", got, b)
	}
}
