package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
)

// RenderSVG draws a scene as a standalone SVG document.
func RenderSVG(s *Scene) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		s.Width, s.Height, s.Width, s.Height)

	fmt.Fprintf(&buf, `  <defs>
    <marker id="arrowhead" markerWidth="%.0f" markerHeight="%.0f" refX="%.0f" refY="%.1f" orient="auto" markerUnits="userSpaceOnUse">
      <path d="M0,0 L%.0f,%.1f L0,%.0f Z" fill="%s"/>
    </marker>
  </defs>
`, arrowHeadSize, arrowHeadSize, arrowHeadSize, arrowHeadSize/2, arrowHeadSize, arrowHeadSize/2, arrowHeadSize, ColorArrow)

	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", s.Background)
	renderGridSVG(&buf, s)

	for _, sh := range s.Shapes {
		renderShapeSVG(&buf, s, sh)
	}
	for _, a := range s.Arrows {
		from, to := s.Local(a.Segment.From), s.Local(a.Segment.To)
		fmt.Fprintf(&buf, `  <line class="arrow" data-pointer="%s" data-target="%s" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="%.0f" marker-end="url(#arrowhead)"/>`+"\n",
			escapeXML(a.Pointer), escapeXML(a.Target), from.X, from.Y, to.X, to.Y, ColorArrow, arrowWidth)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderGridSVG(buf *bytes.Buffer, s *Scene) {
	if s.Grid <= 0 {
		return
	}
	buf.WriteString(`  <g class="grid">` + "\n")
	for _, x := range gridLines(s.Origin.X, s.Width, s.Grid) {
		fmt.Fprintf(buf, `    <line x1="%.1f" y1="0" x2="%.1f" y2="%.1f" stroke="%s"/>`+"\n", x, x, s.Height, ColorGrid)
	}
	for _, y := range gridLines(s.Origin.Y, s.Height, s.Grid) {
		fmt.Fprintf(buf, `    <line x1="0" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s"/>`+"\n", y, s.Width, y, ColorGrid)
	}
	buf.WriteString("  </g>\n")
}

// gridLines returns the scene offsets of the grid lines crossing an axis
// that starts at canvas coordinate origin. Lines sit on canvas multiples of
// spacing so the grid does not shift with the diagram's bounds.
func gridLines(origin, length, spacing float64) []float64 {
	var out []float64
	for c := math.Ceil(origin/spacing) * spacing; c-origin <= length; c += spacing {
		out = append(out, c-origin)
	}
	return out
}

func renderShapeSVG(buf *bytes.Buffer, s *Scene, sh Shape) {
	p := s.Local(sh.Bounds.TopLeft())
	fmt.Fprintf(buf, `  <rect id="el-%s" class="element %s" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" stroke="%s" stroke-width="%.0f"/>`+"\n",
		escapeXML(sh.ID), sh.Kind, p.X, p.Y, sh.Bounds.W, sh.Bounds.H, sh.Fill, sh.Stroke, outlineWidth)

	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-family="Arial, sans-serif" font-size="%.0f" dominant-baseline="hanging">`,
		p.X+labelInset, p.Y+labelInset, sh.FontSize)
	for i, line := range sh.Lines {
		if i == 0 {
			fmt.Fprintf(buf, `<tspan x="%.1f">%s</tspan>`, p.X+labelInset, escapeXML(line))
			continue
		}
		fmt.Fprintf(buf, `<tspan x="%.1f" dy="%.1f">%s</tspan>`, p.X+labelInset, sh.FontSize*lineSpacing, escapeXML(line))
	}
	buf.WriteString("</text>\n")

	if sh.Anchor != nil {
		a := s.Local(*sh.Anchor)
		fmt.Fprintf(buf, `  <circle class="anchor" cx="%.1f" cy="%.1f" r="%.0f" fill="%s" stroke="%s"/>`+"\n",
			a.X, a.Y, anchorRadius, ColorAnchor, ColorOutline)
	}
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
