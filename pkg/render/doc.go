// Package render draws structboard diagrams.
//
// # Overview
//
// Rendering starts from a [Scene], an immutable snapshot of a diagram built
// by [FromDocument]. A scene holds every element box in paint order, every
// pointer arrow, and the canvas size. Scenes carry no reference back to the
// diagram, so several sinks can draw the same scene concurrently.
//
//	scene := render.FromDocument(d, render.WithGrid(30))
//	svg := render.RenderSVG(scene)
//	png, err := render.RenderPNG(scene, 2.0)  // 2x scale
//
// # Sinks
//
//   - [RenderSVG]: hand-written SVG, one rect per element
//   - [RenderPNG]: raster output via fogleman/gg using the Go Mono font
//   - [ToDOT] and [RenderDOTSVG]: Graphviz, with containers as clusters
//
// [Render] dispatches on the output format names in [Formats], including
// the json and yaml document encodings.
//
// # Colors
//
// Fills follow the whiteboard palette: green data cells, orange pointer
// cells, cyan structs and pink stacks. Arrows are grey with a filled head.
package render
