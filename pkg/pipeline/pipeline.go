// Package pipeline renders diagrams with caching.
//
// A render run has two stages:
//
//  1. Snapshot: encode the document, hash it, and build the render inputs
//     (a render.Scene and a DOT graph) once
//  2. Render: look up every requested format in the cache and render the
//     misses concurrently from the snapshot
//
// The document is only read during the snapshot stage, so the concurrent
// sinks never touch it.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Render(ctx, d, pipeline.Options{
//	    Formats: []string{"svg", "png"},
//	    Grid:    true,
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"time"

	"github.com/matzehuels/structboard/pkg/cache"
	"github.com/matzehuels/structboard/pkg/errors"
	"github.com/matzehuels/structboard/pkg/render"
)

// DefaultScale is the PNG scale used when none is given.
const DefaultScale = 1.0

// Options configures a render run.
// This struct supports JSON serialization for API requests.
type Options struct {
	Formats    []string `json:"formats"`
	Grid       bool     `json:"grid,omitempty"`
	Scale      float64  `json:"scale,omitempty"`
	Highlight  string   `json:"highlight,omitempty"`
	AutoLayout bool     `json:"auto_layout,omitempty"`

	// Refresh skips cache reads; results are still written back.
	Refresh bool `json:"refresh,omitempty"`
}

// ValidateAndSetDefaults fills in defaults and rejects unknown formats.
// Duplicate formats are dropped.
func (o *Options) ValidateAndSetDefaults() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{render.FormatSVG}
	}
	seen := make(map[string]bool, len(o.Formats))
	formats := o.Formats[:0:0]
	for _, f := range o.Formats {
		if err := errors.ValidateFormat(f, render.Formats); err != nil {
			return err
		}
		if !seen[f] {
			seen[f] = true
			formats = append(formats, f)
		}
	}
	o.Formats = formats
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Scale < 0 || o.Scale > 8 {
		return errors.New(errors.ErrCodeInvalidInput, "scale %v out of range (0, 8]", o.Scale)
	}
	return nil
}

// keyOpts returns the options that affect one format's bytes. Options a
// format ignores are left out so they do not split its cache entries.
func (o Options) keyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case render.FormatSVG:
		k.AutoLayout = o.AutoLayout
		if !o.AutoLayout {
			k.Grid, k.Highlight = o.Grid, o.Highlight
		}
	case render.FormatPNG:
		k.Grid, k.Highlight, k.Scale = o.Grid, o.Highlight, o.Scale
	}
	return k
}

func (o Options) renderOptions() render.Options {
	return render.Options{
		Grid:       o.Grid,
		Scale:      o.Scale,
		Highlight:  o.Highlight,
		AutoLayout: o.AutoLayout,
	}
}

// Result holds the artifacts of one run.
type Result struct {
	// Artifacts maps each requested format to its bytes.
	Artifacts map[string][]byte

	// DocHash is the SHA-256 of the document's JSON encoding.
	DocHash string

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats describes the rendered document and the time spent.
type Stats struct {
	Elements     int
	Arrows       int
	SnapshotTime time.Duration
	RenderTime   time.Duration
}

// CacheInfo records which formats were served from the cache.
type CacheInfo struct {
	Hits map[string]bool
}

// AllHit reports whether every format came from the cache.
func (c CacheInfo) AllHit() bool {
	for _, hit := range c.Hits {
		if !hit {
			return false
		}
	}
	return len(c.Hits) > 0
}
