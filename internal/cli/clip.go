package cli

import (
	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/matzehuels/structboard/pkg/errors"
	"github.com/matzehuels/structboard/pkg/render"
)

// clipFormats are the text formats that fit on a clipboard.
var clipFormats = []string{render.FormatSVG, render.FormatDOT, render.FormatJSON, render.FormatYAML}

// clipboardWrite is replaced in tests.
var clipboardWrite = clipboard.WriteAll

func (c *CLI) clipCommand() *cobra.Command {
	var f renderFlags
	cmd := &cobra.Command{
		Use:   "clip FILE",
		Short: "Copy a rendered diagram to the system clipboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if f.formats == "" {
				f.formats = render.FormatSVG
			}
			opts, err := c.renderOptions(cmd, f)
			if err != nil {
				return err
			}
			if len(opts.Formats) != 1 {
				return errors.New(errors.ErrCodeInvalidInput, "clip takes one format")
			}
			format := opts.Formats[0]
			if err := errors.ValidateFormat(format, clipFormats); err != nil {
				return err
			}
			d, err := c.loadSource(ctx, args[0], f.stored)
			if err != nil {
				return err
			}
			result, err := c.render(ctx, d, opts, f.highlight)
			if err != nil {
				return err
			}
			if err := clipboardWrite(string(result.Artifacts[format])); err != nil {
				return errors.Wrap(errors.ErrCodeUnsupported, err, "write clipboard")
			}
			c.printer().success("Copied %s of %s to the clipboard", format, args[0])
			return nil
		},
	}
	f.register(cmd)
	return cmd
}
