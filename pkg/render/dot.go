package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/structboard/pkg/diagram"
)

// ToDOT converts a diagram to Graphviz DOT. Containers become clusters
// holding their children, and pointer links become edges. Graphviz picks
// its own positions; canvas coordinates are not carried over.
//
// Every cluster holds an invisible node with the container's ID so that
// edges can target it; such edges are clipped at the cluster border.
func ToDOT(d *diagram.Document) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  compound=true;\n")
	buf.WriteString("  rankdir=LR;\n")
	fmt.Fprintf(&buf, "  bgcolor=%q;\n", ColorBackground)
	buf.WriteString("  node [shape=box, style=filled, fontname=\"Arial\", fontsize=10];\n")
	fmt.Fprintf(&buf, "  edge [color=%q, penwidth=2];\n", ColorArrow)
	buf.WriteString("\n")

	for _, e := range d.TopLevel() {
		writeDOTElement(&buf, d, e, "  ")
	}

	buf.WriteString("\n")
	d.Walk(func(e *diagram.Element, _ int) bool {
		if e.Target() == "" {
			return true
		}
		t := d.Get(e.Target())
		if t != nil && t.IsContainer() {
			fmt.Fprintf(&buf, "  %q -> %q [lhead=%q];\n", e.ID(), t.ID(), clusterName(t.ID()))
		} else {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.ID(), e.Target())
		}
		return true
	})

	buf.WriteString("}\n")
	return buf.String()
}

func writeDOTElement(buf *bytes.Buffer, d *diagram.Document, e *diagram.Element, indent string) {
	sh := shapeFor(e, 0, "")
	if !e.IsContainer() {
		fmt.Fprintf(buf, "%s%q [label=%q, fillcolor=%q];\n", indent, e.ID(), strings.Join(sh.Lines, "\n"), sh.Fill)
		return
	}
	fmt.Fprintf(buf, "%ssubgraph %q {\n", indent, clusterName(e.ID()))
	inner := indent + "  "
	fmt.Fprintf(buf, "%slabel=%q;\n", inner, strings.Join(sh.Lines, "\n"))
	fmt.Fprintf(buf, "%sstyle=filled;\n", inner)
	fmt.Fprintf(buf, "%sfillcolor=%q;\n", inner, sh.Fill)
	fmt.Fprintf(buf, "%s%q [shape=point, style=invis, label=\"\"];\n", inner, e.ID())
	for _, c := range d.ChildrenOf(e.ID()) {
		writeDOTElement(buf, d, c, inner)
	}
	fmt.Fprintf(buf, "%s}\n", indent)
}

func clusterName(id string) string { return "cluster_" + id }

// RenderDOTSVG lays out a DOT graph with Graphviz and returns SVG.
func RenderDOTSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root tag so the drawing starts at the
// origin and its pixel size matches the viewBox.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
