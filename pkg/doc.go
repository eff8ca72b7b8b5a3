// Package pkg provides the libraries behind structboard, a whiteboard for
// drawing data structures as boxes and arrows.
//
// # Overview
//
// The pkg directory is organized into three areas:
//
//  1. Model: [diagram] holds the element arena (cells, pointers, structs,
//     stacks, queues and free containers) with containment, layout and
//     arrows; [geom] has the rectangle and segment math under it.
//  2. Encoding and output: [document] reads and writes the JSON/YAML
//     record tree; [render] draws SVG, PNG and Graphviz DOT.
//  3. Infrastructure: [pipeline] renders through a [cache]; [store] keeps
//     named diagrams in a directory, SQLite or MongoDB; [config],
//     [observability], [errors] and [buildinfo] are shared by both the CLI
//     and the HTTP server.
//
// # Architecture
//
//	diagram file / store record tree
//	         ↓
//	    [document] package (two-pass decode, dangling targets dropped)
//	         ↓
//	    [diagram] package (edit, lay out, drag, arrows)
//	         ↓
//	    [pipeline] package (snapshot once, render formats concurrently)
//	         ↓
//	    SVG/PNG/DOT/JSON/YAML output
//
// # Quick Start
//
//	d := diagram.New()
//	node := d.NewStruct(100, 100, "node")
//	d.Add(node.ID(), d.NewDataCell(0, 0, "val", "42").ID())
//	head := d.NewPointerCell(0, 100, "head")
//	d.CreateArrow(head.ID(), node.ID())
//
//	svg, err := render.Render(ctx, d, render.FormatSVG, render.Options{Grid: true})
//	err = document.WriteFile("board.json", d)
//
// [diagram]: https://pkg.go.dev/github.com/matzehuels/structboard/pkg/diagram
// [geom]: https://pkg.go.dev/github.com/matzehuels/structboard/pkg/geom
// [document]: https://pkg.go.dev/github.com/matzehuels/structboard/pkg/document
// [render]: https://pkg.go.dev/github.com/matzehuels/structboard/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/structboard/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/structboard/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/structboard/pkg/store
// [config]: https://pkg.go.dev/github.com/matzehuels/structboard/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/structboard/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/structboard/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/structboard/pkg/buildinfo
package pkg
