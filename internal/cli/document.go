package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss/tree"
	"github.com/spf13/cobra"

	"github.com/matzehuels/structboard/pkg/diagram"
	"github.com/matzehuels/structboard/pkg/document"
	"github.com/matzehuels/structboard/pkg/errors"
)

func (c *CLI) newCommand() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "new FILE",
		Short: "Create an empty diagram file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.create(args[0], diagram.New(), force)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func (c *CLI) demoCommand() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "demo FILE",
		Short: "Write a sample diagram: a linked list feeding a stack",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.create(args[0], demoDiagram(), force)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func (c *CLI) create(path string, d *diagram.Document, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.New(errors.ErrCodeInvalidInput, "%s exists (use --force to overwrite)", path)
	}
	if err := document.WriteFile(path, d); err != nil {
		return err
	}
	c.printer().success("Wrote %s", path)
	c.printer().stats(d.Len(), arrowCount(d), false)
	return nil
}

// demoDiagram builds two list nodes, a head pointer and a call stack.
func demoDiagram() *diagram.Document {
	d := diagram.New()

	head := d.NewPointerCell(40, 60, "head")
	var nodes []*diagram.Element
	for i, v := range []string{"1", "2"} {
		n := d.NewStruct(200+float64(i)*260, 40, fmt.Sprintf("node%d", i+1))
		d.Add(n.ID(), d.NewDataCell(0, 0, "val", v).ID())
		d.Add(n.ID(), d.NewPointerCell(0, 0, "next").ID())
		nodes = append(nodes, n)
	}
	d.CreateArrow(head.ID(), nodes[0].ID())
	next := d.ChildrenOf(nodes[0].ID())[1]
	d.CreateArrow(next.ID(), nodes[1].ID())

	st := d.NewStackQueue(200, 320, "calls", diagram.Stack)
	for _, f := range []string{"main", "push", "grow"} {
		d.Add(st.ID(), d.NewDataCell(0, 0, "frame", f).ID())
	}
	return d
}

func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect FILE",
		Short: "Print a diagram's element tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, rep, err := loadFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			p := c.printer()
			printTree(p, args[0], d)
			p.stats(d.Len(), arrowCount(d), false)
			printReport(p, rep)
			return nil
		},
	}
}

// printTree prints every top-level element with its nested children.
func printTree(p printer, title string, d *diagram.Document) {
	p.line(styleTitle.Render(title))
	root := tree.New().Enumerator(tree.RoundedEnumerator)
	for _, e := range d.TopLevel() {
		root.Child(elementTree(d, e))
	}
	p.line(root.String())
}

func elementTree(d *diagram.Document, e *diagram.Element) any {
	label := describe(d, e)
	if !e.IsContainer() {
		return label
	}
	t := tree.Root(label)
	for _, ch := range d.ChildrenOf(e.ID()) {
		t.Child(elementTree(d, ch))
	}
	return t
}

// describe renders one element as "Kind name (id) extra".
func describe(d *diagram.Document, e *diagram.Element) string {
	s := fmt.Sprintf("%s %s %s", kind(e.Kind()), styleValue.Render(e.Name()), styleDim.Render(e.ID()))
	switch e.Kind() {
	case diagram.KindDataCell:
		s += " = " + styleNumber.Render(e.Value())
	case diagram.KindPointerCell:
		if t := d.Get(e.Target()); t != nil {
			s += " " + iconArrow + " " + t.Name()
		}
	case diagram.KindStackQueue:
		s += " " + styleDim.Render(e.Ordering().String())
	}
	return s
}

func printReport(p printer, rep document.Report) {
	if rep.Clean() {
		return
	}
	p.warning("%d records skipped, %d dangling pointers", rep.Skipped, rep.Dangling)
	for _, prob := range rep.Problems {
		p.detail("%s", errors.UserMessage(prob))
	}
}

func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE...",
		Short: "Check that diagram files decode cleanly",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := c.printer()
			bad := 0
			for _, path := range args {
				d, rep, err := loadFile(cmd.Context(), path)
				if err != nil {
					p.failure("%s: %s", path, errors.UserMessage(err))
					bad++
					continue
				}
				if err := d.Validate(); err != nil {
					p.failure("%s: %v", path, err)
					bad++
					continue
				}
				if !rep.Clean() {
					p.failure("%s", path)
					printReport(p, rep)
					bad++
					continue
				}
				p.success("%s (%d elements)", path, rep.Records)
			}
			if bad > 0 {
				return errors.New(errors.ErrCodeInvalidDocument, "%d of %d files invalid", bad, len(args))
			}
			return nil
		},
	}
}

func (c *CLI) convertCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "convert IN OUT",
		Short: "Re-encode a diagram, e.g. JSON to YAML",
		Long: `Re-encode a diagram. Formats follow the file extensions (.json, .yaml).

Legacy documents are upgraded on the way: old type tags and ID fields are
rewritten, container sizes are recomputed and dangling targets dropped.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, rep, err := loadFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := document.WriteFile(args[1], d); err != nil {
				return err
			}
			p := c.printer()
			p.success("Converted %s", args[0])
			p.file(args[1])
			printReport(p, rep)
			return nil
		},
	}
}

func arrowCount(d *diagram.Document) int {
	n := 0
	for _, e := range d.Elements() {
		if e.Target() != "" {
			n++
		}
	}
	return n
}
