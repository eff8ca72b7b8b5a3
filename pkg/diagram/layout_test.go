package diagram

import (
	"testing"

	"github.com/matzehuels/structboard/pkg/geom"
)

func TestStructLayout(t *testing.T) {
	tests := []struct {
		name      string
		children  int
		wantWidth float64
	}{
		{"Empty", 0, 200},
		{"One", 1, 200},
		{"Two", 2, 320},
		{"Three", 3, 440},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDoc()
			s := d.NewStruct(100, 100, "s")
			var kids []*Element
			for i := 0; i < tt.children; i++ {
				c := d.NewDataCell(0, 0, "c", "")
				d.Add(s.ID(), c.ID())
				kids = append(kids, c)
			}
			if got := s.Bounds(); got.W != tt.wantWidth || got.H != StructHeight {
				t.Errorf("size = %vx%v, want %vx%v", got.W, got.H, tt.wantWidth, StructHeight)
			}
			for i, c := range kids {
				wantX := 100 + 20 + float64(i)*130
				if b := c.Bounds(); b.X != wantX || b.Y != 140 {
					t.Errorf("child %d at (%v, %v), want (%v, 140)", i, b.X, b.Y, wantX)
				}
			}
		})
	}
}

func TestStackLayout(t *testing.T) {
	tests := []struct {
		name     string
		ordering Ordering
		wantY    []float64 // per child, in push order
	}{
		{"Stack", Stack, []float64{210, 145, 80}},
		{"Queue", Queue, []float64{80, 145, 210}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDoc()
			sq := d.NewStackQueue(0, 0, "sq", tt.ordering)
			var kids []*Element
			for range tt.wantY {
				c := d.NewDataCell(500, 500, "c", "")
				d.Add(sq.ID(), c.ID())
				kids = append(kids, c)
			}
			if want := (geom.Rect{W: 150, H: 285}); sq.Bounds() != want {
				t.Errorf("Bounds() = %+v, want %+v", sq.Bounds(), want)
			}
			for i, c := range kids {
				if b := c.Bounds(); b.X != 15 || b.Y != tt.wantY[i] {
					t.Errorf("child %d at (%v, %v), want (15, %v)", i, b.X, b.Y, tt.wantY[i])
				}
			}
		})
	}
}

func TestStackMinHeight(t *testing.T) {
	d := newTestDoc()
	sq := d.NewStackQueue(0, 0, "sq", Stack)
	if sq.Bounds().H != StackMinHeight {
		t.Errorf("empty height = %v", sq.Bounds().H)
	}
	c := d.NewDataCell(0, 0, "c", "")
	d.Add(sq.ID(), c.ID())
	if got := sq.Bounds().H; got != 155 {
		t.Errorf("height with one child = %v, want 155", got)
	}
}

func TestFreeLayoutKeepsPositions(t *testing.T) {
	d := newTestDoc()
	box := d.NewContainer(0, 0, "box", 400, 300)
	c := d.NewDataCell(37, 91, "c", "")
	d.Add(box.ID(), c.ID())
	if got := c.Bounds(); got.X != 37 || got.Y != 91 {
		t.Errorf("child moved to (%v, %v)", got.X, got.Y)
	}
	if got := box.Bounds(); got.W != 400 || got.H != 300 {
		t.Errorf("container resized to %vx%v", got.W, got.H)
	}
}

func TestNestedResizePropagates(t *testing.T) {
	d := newTestDoc()
	sq := d.NewStackQueue(0, 0, "sq", Stack)
	s := d.NewStruct(0, 0, "s")
	d.Add(sq.ID(), s.ID())
	// struct centered on 150-wide stack
	if got := s.Bounds().X; got != -25 {
		t.Errorf("struct x = %v, want -25", got)
	}
	heightBefore := sq.Bounds().H

	a := d.NewDataCell(0, 0, "a", "")
	b := d.NewDataCell(0, 0, "b", "")
	d.Add(s.ID(), a.ID())
	d.Add(s.ID(), b.ID())

	// the struct grew to 320, so the stack re-centered it
	if got := s.Bounds(); got.W != 320 || got.X != (150-320)/2 {
		t.Errorf("struct bounds = %+v", got)
	}
	if got := a.Bounds().X; got != s.Bounds().X+20 {
		t.Errorf("grandchild x = %v, want %v", got, s.Bounds().X+20)
	}
	if sq.Bounds().H != heightBefore {
		t.Errorf("stack height changed from %v to %v", heightBefore, sq.Bounds().H)
	}
	mustValid(t, d)
}

func TestRelayoutDeterministic(t *testing.T) {
	d := newTestDoc()
	s := d.NewStruct(0, 0, "s")
	sq := d.NewStackQueue(400, 0, "sq", Queue)
	for i := 0; i < 3; i++ {
		d.Add(s.ID(), d.NewDataCell(float64(i*7), 0, "c", "").ID())
		d.Add(sq.ID(), d.NewDataCell(0, float64(i*13), "q", "").ID())
	}
	snapshot := func() map[string]geom.Rect {
		out := make(map[string]geom.Rect)
		for _, e := range d.Elements() {
			out[e.ID()] = e.Bounds()
		}
		return out
	}
	before := snapshot()
	d.RelayoutAll()
	d.RelayoutAll()
	after := snapshot()
	for id, r := range before {
		if after[id] != r {
			t.Errorf("%s moved from %+v to %+v", id, r, after[id])
		}
	}
	if d.Relayout(d.ChildrenOf(s.ID())[0].ID()) {
		t.Error("Relayout of a leaf returned true")
	}
	if !d.Relayout(s.ID()) {
		t.Error("Relayout of a struct returned false")
	}
}

func TestPopTop(t *testing.T) {
	tests := []struct {
		name     string
		ordering Ordering
		want     []string
	}{
		{"StackIsLIFO", Stack, []string{"c", "b", "a"}},
		{"QueueIsFIFO", Queue, []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDoc()
			sq := d.NewStackQueue(0, 0, "sq", tt.ordering)
			for _, name := range []string{"a", "b", "c"} {
				d.Add(sq.ID(), d.NewDataCell(0, 0, name, "").ID())
			}
			var got []string
			for {
				e, ok := d.PopTop(sq.ID())
				if !ok {
					break
				}
				if e.Parent() != "" {
					t.Errorf("popped %s still has parent", e.Name())
				}
				if b := e.Bounds(); b.X != 150+MoveOutMargin || b.Y != 0 {
					t.Errorf("popped %s at (%v, %v)", e.Name(), b.X, b.Y)
				}
				got = append(got, e.Name())
			}
			if !equalIDs(got, tt.want) {
				t.Errorf("pop order = %v, want %v", got, tt.want)
			}
			if sq.Bounds().H != StackMinHeight {
				t.Errorf("empty height = %v", sq.Bounds().H)
			}
			mustValid(t, d)
		})
	}

	t.Run("NotAStack", func(t *testing.T) {
		d := newTestDoc()
		s := d.NewStruct(0, 0, "s")
		d.Add(s.ID(), d.NewDataCell(0, 0, "c", "").ID())
		if _, ok := d.PopTop(s.ID()); ok {
			t.Error("PopTop on struct succeeded")
		}
	})
}
