package render

import (
	"bytes"
	"fmt"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/matzehuels/structboard/pkg/geom"
)

var (
	monoOnce sync.Once
	monoFont *truetype.Font
	monoErr  error
)

func loadMono() (*truetype.Font, error) {
	monoOnce.Do(func() {
		monoFont, monoErr = truetype.Parse(gomono.TTF)
		if monoErr != nil {
			monoErr = fmt.Errorf("parse font: %w", monoErr)
		}
	})
	return monoFont, monoErr
}

// RenderPNG rasterizes a scene. A scale of 2 doubles the pixel size of
// the output; non-positive scales are treated as 1.
func RenderPNG(s *Scene, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = 1
	}
	ttf, err := loadMono()
	if err != nil {
		return nil, err
	}

	w := max(1, int(math.Ceil(s.Width*scale)))
	h := max(1, int(math.Ceil(s.Height*scale)))
	dc := gg.NewContext(w, h)
	dc.Scale(scale, scale)

	dc.SetHexColor(s.Background)
	dc.Clear()

	if s.Grid > 0 {
		dc.SetHexColor(ColorGrid)
		dc.SetLineWidth(1)
		for _, x := range gridLines(s.Origin.X, s.Width, s.Grid) {
			dc.DrawLine(x, 0, x, s.Height)
			dc.Stroke()
		}
		for _, y := range gridLines(s.Origin.Y, s.Height, s.Grid) {
			dc.DrawLine(0, y, s.Width, y)
			dc.Stroke()
		}
	}

	faces := map[float64]font.Face{}
	for _, sh := range s.Shapes {
		face, ok := faces[sh.FontSize]
		if !ok {
			// glyphs are not affected by the context transform
			face = truetype.NewFace(ttf, &truetype.Options{
				Size:    sh.FontSize * scale,
				DPI:     72,
				Hinting: font.HintingFull,
			})
			faces[sh.FontSize] = face
		}
		drawShapePNG(dc, s, sh, face)
	}

	for _, a := range s.Arrows {
		drawArrowPNG(dc, s.Local(a.Segment.From), s.Local(a.Segment.To))
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func drawShapePNG(dc *gg.Context, s *Scene, sh Shape, face font.Face) {
	p := s.Local(sh.Bounds.TopLeft())
	dc.DrawRectangle(p.X, p.Y, sh.Bounds.W, sh.Bounds.H)
	dc.SetHexColor(sh.Fill)
	dc.FillPreserve()
	dc.SetHexColor(sh.Stroke)
	dc.SetLineWidth(outlineWidth)
	dc.Stroke()

	dc.SetFontFace(face)
	dc.SetHexColor(ColorOutline)
	for i, line := range sh.Lines {
		y := p.Y + labelInset + sh.FontSize + float64(i)*sh.FontSize*lineSpacing
		dc.DrawString(line, p.X+labelInset, y)
	}

	if sh.Anchor != nil {
		a := s.Local(*sh.Anchor)
		dc.DrawCircle(a.X, a.Y, anchorRadius)
		dc.SetHexColor(ColorAnchor)
		dc.FillPreserve()
		dc.SetHexColor(ColorOutline)
		dc.SetLineWidth(1)
		dc.Stroke()
	}
}

func drawArrowPNG(dc *gg.Context, from, to geom.Point) {
	dc.SetHexColor(ColorArrow)
	dc.SetLineWidth(arrowWidth)
	dc.DrawLine(from.X, from.Y, to.X, to.Y)
	dc.Stroke()

	tip, left, right, ok := arrowHead(from, to)
	if !ok {
		return
	}
	dc.MoveTo(tip.X, tip.Y)
	dc.LineTo(left.X, left.Y)
	dc.LineTo(right.X, right.Y)
	dc.ClosePath()
	dc.Fill()
}

// arrowHead returns the triangle drawn at the end of a segment. ok is false
// for segments too short to have a direction.
func arrowHead(from, to geom.Point) (tip, left, right geom.Point, ok bool) {
	dx, dy := to.X-from.X, to.Y-from.Y
	length := math.Hypot(dx, dy)
	if length < 0.1 {
		return geom.Point{}, geom.Point{}, geom.Point{}, false
	}
	dx /= length
	dy /= length
	half := arrowHeadSize / 2
	base := geom.Point{X: to.X - arrowHeadSize*dx, Y: to.Y - arrowHeadSize*dy}
	left = geom.Point{X: base.X + half*dy, Y: base.Y - half*dx}
	right = geom.Point{X: base.X - half*dy, Y: base.Y + half*dx}
	return to, left, right, true
}
