package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/structboard/pkg/diagram"
	"github.com/matzehuels/structboard/pkg/errors"
	"github.com/matzehuels/structboard/pkg/pipeline"
	"github.com/matzehuels/structboard/pkg/render"
	"github.com/matzehuels/structboard/pkg/store"
)

type renderFlags struct {
	formats   string
	output    string
	grid      bool
	scale     float64
	highlight string
	auto      bool
	refresh   bool
	stored    bool
}

func (f *renderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "output formats, comma-separated: svg, png, dot, json, yaml (default from config)")
	cmd.Flags().BoolVar(&f.grid, "grid", false, "draw the background grid")
	cmd.Flags().Float64Var(&f.scale, "scale", 0, "PNG scale factor (default from config)")
	cmd.Flags().StringVar(&f.highlight, "highlight", "", "outline one element by ID or name")
	cmd.Flags().BoolVar(&f.auto, "auto-layout", false, "lay the SVG out with Graphviz instead of canvas positions")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached artifacts")
	cmd.Flags().BoolVar(&f.stored, "stored", false, "treat the argument as a store name instead of a file")
}

// renderOptions merges flags over the render section of the config.
func (c *CLI) renderOptions(cmd *cobra.Command, f renderFlags) (pipeline.Options, error) {
	opts := pipeline.Options{
		Formats:    c.cfg.Render.Formats,
		Grid:       c.cfg.Render.Grid,
		Scale:      c.cfg.Render.Scale,
		AutoLayout: f.auto,
		Refresh:    f.refresh,
	}
	if f.formats != "" {
		formats, err := render.ParseFormats(f.formats)
		if err != nil {
			return opts, err
		}
		opts.Formats = formats
	}
	if cmd.Flags().Changed("grid") {
		opts.Grid = f.grid
	}
	if cmd.Flags().Changed("scale") {
		opts.Scale = f.scale
	}
	return opts, opts.ValidateAndSetDefaults()
}

// loadSource reads a diagram from a file or, when stored is set, from the store.
func (c *CLI) loadSource(ctx context.Context, ref string, stored bool) (*diagram.Document, error) {
	if !stored {
		d, _, err := loadFile(ctx, ref)
		return d, err
	}
	s, err := c.openStore(ctx)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	d, _, err := store.Load(ctx, s, ref)
	return d, err
}

// render runs the pipeline, showing a spinner on a terminal.
func (c *CLI) render(ctx context.Context, d *diagram.Document, opts pipeline.Options, highlight string) (*pipeline.Result, error) {
	if highlight != "" {
		e, err := resolve(d, highlight)
		if err != nil {
			return nil, err
		}
		opts.Highlight = e.ID()
	}
	runner, ch, err := c.newRunner(ctx)
	if err != nil {
		return nil, err
	}
	defer ch.Close()

	var result *pipeline.Result
	run := func(ctx context.Context) (err error) {
		result, err = runner.Render(ctx, d, opts)
		return err
	}
	if isatty.IsTerminal(os.Stderr.Fd()) {
		err = withSpinner(ctx, os.Stderr, "Rendering...", run)
	} else {
		err = run(ctx)
	}
	return result, err
}

func (c *CLI) renderCommand() *cobra.Command {
	var f renderFlags
	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Render a diagram to SVG, PNG, DOT, JSON or YAML",
		Long: `Render a diagram to one or more formats.

Each format is written to <output>.<format>. With a single format, -o may
name the file directly, and "-o -" writes to stdout. Artifacts are cached
by document content; --refresh re-renders them.`,
		Example: `  structboard render board.json
  structboard render board.yaml -f svg,png --scale 2 --grid
  structboard render board.json -f dot -o -
  structboard render --stored lists -f png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts, err := c.renderOptions(cmd, f)
			if err != nil {
				return err
			}
			d, err := c.loadSource(ctx, args[0], f.stored)
			if err != nil {
				return err
			}
			prog := newProgress(loggerFromContext(ctx))
			result, err := c.render(ctx, d, opts, f.highlight)
			if err != nil {
				return err
			}
			if f.output == "-" {
				if len(opts.Formats) != 1 {
					return errors.New(errors.ErrCodeInvalidInput, "stdout output needs exactly one format")
				}
				_, err := c.out.Write(result.Artifacts[opts.Formats[0]])
				return err
			}

			paths, err := writeArtifacts(result, opts.Formats, outputBase(args[0], f.output, f.stored))
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Rendered %d formats", len(paths)))
			p := c.printer()
			p.success("Rendered %s", args[0])
			for _, path := range paths {
				p.file(path)
			}
			p.stats(result.Stats.Elements, result.Stats.Arrows, result.CacheInfo.AllHit())
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file or base path (default: input path without extension)")
	return cmd
}

// outputBase picks the path prefix for rendered files.
func outputBase(src, output string, stored bool) string {
	switch {
	case output != "":
		return output
	case stored:
		return src
	}
	return trimExt(src)
}

// writeArtifacts writes each format to base.<format>, or to base itself
// when there is one format and base already carries its extension.
func writeArtifacts(result *pipeline.Result, formats []string, base string) ([]string, error) {
	var paths []string
	for _, format := range formats {
		path := base + "." + format
		if len(formats) == 1 && filepath.Ext(base) == "."+format {
			path = base
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create %s: %w", dir, err)
			}
		}
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
