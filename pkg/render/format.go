package render

import (
	"context"
	"strings"

	"github.com/matzehuels/structboard/pkg/diagram"
	"github.com/matzehuels/structboard/pkg/document"
	"github.com/matzehuels/structboard/pkg/errors"
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatDOT  = "dot"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Formats lists every output format in a stable order.
var Formats = []string{FormatSVG, FormatPNG, FormatDOT, FormatJSON, FormatYAML}

// ParseFormats splits a comma-separated format list and validates each entry.
func ParseFormats(s string) ([]string, error) {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" {
			continue
		}
		if err := errors.ValidateFormat(f, Formats); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	if len(out) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "no output format given")
	}
	return out, nil
}

// ContentType returns the MIME type of a format.
func ContentType(format string) string {
	switch format {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatDOT:
		return "text/vnd.graphviz"
	case FormatJSON:
		return "application/json"
	case FormatYAML:
		return "application/yaml"
	}
	return "application/octet-stream"
}

// Options selects how a diagram is drawn.
type Options struct {
	// Grid draws the background grid.
	Grid bool
	// Scale multiplies the PNG pixel size.
	Scale float64
	// Highlight outlines one element.
	Highlight string
	// AutoLayout renders SVG through Graphviz instead of canvas positions.
	AutoLayout bool
}

func (o Options) sceneOptions() []Option {
	var opts []Option
	if o.Grid {
		opts = append(opts, WithGrid(DefaultGridSpacing))
	}
	if o.Highlight != "" {
		opts = append(opts, WithHighlight(o.Highlight))
	}
	return opts
}

// Snapshot holds the inputs of every sink, taken from a diagram in one
// pass. Sinks read only the snapshot, so they can run concurrently while
// the diagram is not touched.
type Snapshot struct {
	Scene *Scene
	DOT   string
	JSON  []byte
	YAML  []byte
}

// Take reads d once and builds a snapshot for the given options.
func Take(d *diagram.Document, o Options) (*Snapshot, error) {
	js, err := document.Marshal(d, document.FormatJSON)
	if err != nil {
		return nil, err
	}
	ys, err := document.Marshal(d, document.FormatYAML)
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		Scene: FromDocument(d, o.sceneOptions()...),
		DOT:   ToDOT(d),
		JSON:  js,
		YAML:  ys,
	}, nil
}

// Render produces one artifact from the snapshot.
func (s *Snapshot) Render(ctx context.Context, format string, o Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		if o.AutoLayout {
			return RenderDOTSVG(ctx, s.DOT)
		}
		return RenderSVG(s.Scene), nil
	case FormatPNG:
		return RenderPNG(s.Scene, o.Scale)
	case FormatDOT:
		return []byte(s.DOT), nil
	case FormatJSON:
		return s.JSON, nil
	case FormatYAML:
		return s.YAML, nil
	}
	return nil, errors.ValidateFormat(format, Formats)
}

// Render produces one artifact of d in the given format.
func Render(ctx context.Context, d *diagram.Document, format string, o Options) ([]byte, error) {
	if err := errors.ValidateFormat(format, Formats); err != nil {
		return nil, err
	}
	s, err := Take(d, o)
	if err != nil {
		return nil, err
	}
	return s.Render(ctx, format, o)
}
