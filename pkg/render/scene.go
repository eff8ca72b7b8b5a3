package render

import (
	"fmt"

	"github.com/matzehuels/structboard/pkg/diagram"
	"github.com/matzehuels/structboard/pkg/geom"
)

// Palette of the whiteboard.
const (
	ColorBackground  = "#F5F5F5"
	ColorDataCell    = "#E8F5E9"
	ColorPointerCell = "#FFF3E0"
	ColorStruct      = "#E0F7FA"
	ColorStackQueue  = "#FCE4EC"
	ColorContainer   = "#FFFFFF"
	ColorHighlight   = "#FFA726"
	ColorArrow       = "#616161"
	ColorOutline     = "#000000"
	ColorAnchor      = "#FF0000"
	ColorGrid        = "#DDDDDD"
)

const (
	// DefaultPadding surrounds the diagram on every side.
	DefaultPadding = 20.0
	// DefaultGridSpacing is the distance between background grid lines.
	DefaultGridSpacing = 30.0

	anchorRadius  = diagram.AnchorRadius
	outlineWidth  = 2.0
	arrowWidth    = 2.0
	arrowHeadSize = 10.0
	labelInset    = 10.0
	lineSpacing   = 1.25
	cellFontSize  = 10.0
	groupFontSize = 12.0
)

// Shape is one element box as drawn.
type Shape struct {
	ID       string
	Kind     diagram.Kind
	Bounds   geom.Rect
	Fill     string
	Stroke   string
	Lines    []string
	FontSize float64
	Depth    int
	// Anchor is the grab dot of a pointer cell; nil for other kinds.
	Anchor *geom.Point
}

// Arrow is one pointer link as drawn.
type Arrow struct {
	Pointer string
	Target  string
	Segment geom.Segment
}

// Scene is an immutable snapshot of a diagram ready for a sink. Shapes are
// in paint order; arrows are drawn above every shape.
type Scene struct {
	// Origin is the canvas coordinate drawn at the scene's top-left corner.
	Origin     geom.Point
	Width      float64
	Height     float64
	Background string
	// Grid is the grid spacing, or 0 for no grid.
	Grid   float64
	Shapes []Shape
	Arrows []Arrow
}

// Local converts a canvas coordinate to scene coordinates.
func (s *Scene) Local(p geom.Point) geom.Point {
	return geom.Point{X: p.X - s.Origin.X, Y: p.Y - s.Origin.Y}
}

// Option configures scene construction.
type Option func(*sceneConfig)

type sceneConfig struct {
	grid      float64
	padding   float64
	highlight string
}

// WithGrid draws a background grid. A non-positive spacing selects
// [DefaultGridSpacing].
func WithGrid(spacing float64) Option {
	return func(c *sceneConfig) {
		if spacing <= 0 {
			spacing = DefaultGridSpacing
		}
		c.grid = spacing
	}
}

// WithPadding overrides [DefaultPadding].
func WithPadding(p float64) Option {
	return func(c *sceneConfig) { c.padding = max(0, p) }
}

// WithHighlight outlines the element with the given ID in the highlight color.
func WithHighlight(id string) Option {
	return func(c *sceneConfig) { c.highlight = id }
}

// FromDocument snapshots d.
func FromDocument(d *diagram.Document, opts ...Option) *Scene {
	cfg := sceneConfig{padding: DefaultPadding}
	for _, opt := range opts {
		opt(&cfg)
	}

	b := d.Bounds()
	s := &Scene{
		Origin:     geom.Point{X: b.X - cfg.padding, Y: b.Y - cfg.padding},
		Width:      b.W + 2*cfg.padding,
		Height:     b.H + 2*cfg.padding,
		Background: ColorBackground,
		Grid:       cfg.grid,
	}

	d.Walk(func(e *diagram.Element, depth int) bool {
		s.Shapes = append(s.Shapes, shapeFor(e, depth, cfg.highlight))
		if seg, ok := e.Arrow(); ok {
			s.Arrows = append(s.Arrows, Arrow{Pointer: e.ID(), Target: e.Target(), Segment: seg})
		}
		return true
	})
	return s
}

func shapeFor(e *diagram.Element, depth int, highlight string) Shape {
	sh := Shape{
		ID:       e.ID(),
		Kind:     e.Kind(),
		Bounds:   e.Bounds(),
		Stroke:   ColorOutline,
		Lines:    []string{e.Name()},
		FontSize: groupFontSize,
		Depth:    depth,
	}
	if e.ID() == highlight {
		sh.Stroke = ColorHighlight
	}

	switch e.Kind() {
	case diagram.KindDataCell:
		sh.Fill = ColorDataCell
		sh.FontSize = cellFontSize
		sh.Lines = append(sh.Lines, "Value: "+e.Value())
	case diagram.KindPointerCell:
		sh.Fill = ColorPointerCell
		sh.FontSize = cellFontSize
		a := e.Anchor()
		sh.Anchor = &a
	case diagram.KindStruct:
		sh.Fill = ColorStruct
	case diagram.KindStackQueue:
		sh.Fill = ColorStackQueue
		sh.Lines = append(sh.Lines, fmt.Sprintf("Elements: %d", len(e.Children())))
	default:
		sh.Fill = ColorContainer
	}
	return sh
}
