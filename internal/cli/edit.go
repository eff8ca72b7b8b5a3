package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/structboard/pkg/diagram"
	"github.com/matzehuels/structboard/pkg/document"
	"github.com/matzehuels/structboard/pkg/errors"
)

// editFunc applies one change and returns a line describing it. An
// unchanged result means the operation was refused and nothing is written.
type editFunc func(d *diagram.Document) (msg string, changed bool, err error)

// edit loads path, applies fn and writes the diagram back. A file that
// did not load cleanly is left alone unless --force is set, since writing
// it back drops the skipped records and dangling targets.
func (c *CLI) edit(ctx context.Context, path string, fn editFunc) error {
	d, rep, err := loadFile(ctx, path)
	if err != nil {
		return err
	}
	if !rep.Clean() && !c.force {
		return errors.New(errors.ErrCodeInvalidDocument,
			"%s: %d records skipped, %d dangling pointers; saving would drop them (use --force to edit anyway)",
			path, rep.Skipped, rep.Dangling)
	}
	msg, changed, err := fn(d)
	if err != nil {
		return err
	}
	if !changed {
		return errors.New(errors.ErrCodeStructural, "%s", msg)
	}
	if err := d.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "edit left %s inconsistent", path)
	}
	if err := document.WriteFile(path, d); err != nil {
		return err
	}
	c.printer().success("%s", msg)
	return nil
}

// editCommand groups the commands that change a diagram file in place.
// Elements are addressed by ID or by a unique name.
func (c *CLI) editCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Change a diagram file in place",
		Long: `Change a diagram file in place.

Elements are addressed by ID or, when it is unique, by name.

Files with skipped records or dangling pointers are refused unless --force
is given; saving them drops what did not load.`,
	}
	cmd.PersistentFlags().BoolVar(&c.force, "force", false, "edit a file that did not load cleanly")
	cmd.AddCommand(c.editAddCommand())
	cmd.AddCommand(c.editPutCommand())
	cmd.AddCommand(c.editRemoveCommand())
	cmd.AddCommand(c.editMoveOutCommand())
	cmd.AddCommand(c.editLinkCommand())
	cmd.AddCommand(c.editUnlinkCommand())
	cmd.AddCommand(c.editDeleteCommand())
	cmd.AddCommand(c.editPopCommand())
	cmd.AddCommand(c.editRenameCommand())
	cmd.AddCommand(c.editSetValueCommand())
	cmd.AddCommand(c.editCopyCommand())
	cmd.AddCommand(c.editMoveCommand())
	cmd.AddCommand(c.editDragCommand())
	cmd.AddCommand(c.editRelayoutCommand())
	cmd.AddCommand(c.editClearCommand())
	return cmd
}

// Element kinds accepted by "edit add".
var addKinds = []string{"data", "pointer", "struct", "stack", "queue", "container"}

type addOptions struct {
	name   string
	value  string
	x, y   float64
	w, h   float64
	parent string
}

func (c *CLI) editAddCommand() *cobra.Command {
	var opts addOptions
	cmd := &cobra.Command{
		Use:       "add KIND FILE",
		Short:     "Create an element (data, pointer, struct, stack, queue, container)",
		Args:      cobra.ExactArgs(2),
		ValidArgs: addKinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, path := args[0], args[1]
			if err := errors.ValidateFormat(kind, addKinds); err != nil {
				return err
			}
			return c.edit(cmd.Context(), path, func(d *diagram.Document) (string, bool, error) {
				var parent *diagram.Element
				if opts.parent != "" {
					p, err := resolveKind(d, opts.parent, isContainer, "container")
					if err != nil {
						return "", false, err
					}
					parent = p
				}
				e := addElement(d, kind, opts)
				if parent != nil && !d.Add(parent.ID(), e.ID()) {
					return fmt.Sprintf("%s cannot hold %s", parent.Name(), e.Kind()), false, nil
				}
				return fmt.Sprintf("Added %s %s (%s)", e.Kind(), e.Name(), e.ID()), true, nil
			})
		},
	}
	cmd.Flags().StringVar(&opts.name, "name", "", "element name (defaults to the kind)")
	cmd.Flags().StringVar(&opts.value, "value", "", "value of a data cell")
	cmd.Flags().Float64Var(&opts.x, "x", 0, "left edge")
	cmd.Flags().Float64Var(&opts.y, "y", 0, "top edge")
	cmd.Flags().Float64Var(&opts.w, "width", 300, "container width")
	cmd.Flags().Float64Var(&opts.h, "height", 200, "container height")
	cmd.Flags().StringVar(&opts.parent, "into", "", "container to put the element into")
	return cmd
}

func addElement(d *diagram.Document, kind string, o addOptions) *diagram.Element {
	name := o.name
	if name == "" {
		name = kind
	}
	switch kind {
	case "data":
		return d.NewDataCell(o.x, o.y, name, o.value)
	case "pointer":
		return d.NewPointerCell(o.x, o.y, name)
	case "struct":
		return d.NewStruct(o.x, o.y, name)
	case "stack":
		return d.NewStackQueue(o.x, o.y, name, diagram.Stack)
	case "queue":
		return d.NewStackQueue(o.x, o.y, name, diagram.Queue)
	}
	return d.NewContainer(o.x, o.y, name, o.w, o.h)
}

func (c *CLI) editPutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "put FILE CONTAINER ELEMENT",
		Short: "Put an element into a container",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.edit(cmd.Context(), args[0], func(d *diagram.Document) (string, bool, error) {
				ct, err := resolveKind(d, args[1], isContainer, "container")
				if err != nil {
					return "", false, err
				}
				e, err := resolve(d, args[2])
				if err != nil {
					return "", false, err
				}
				if !d.Add(ct.ID(), e.ID()) {
					return fmt.Sprintf("%s cannot take %s", ct.Name(), e.Name()), false, nil
				}
				return fmt.Sprintf("Put %s into %s", e.Name(), ct.Name()), true, nil
			})
		},
	}
}

func (c *CLI) editRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove FILE CONTAINER ELEMENT",
		Short: "Take an element out of a container, keeping it on the canvas",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.edit(cmd.Context(), args[0], func(d *diagram.Document) (string, bool, error) {
				ct, err := resolveKind(d, args[1], isContainer, "container")
				if err != nil {
					return "", false, err
				}
				e, err := resolve(d, args[2])
				if err != nil {
					return "", false, err
				}
				if !d.Remove(ct.ID(), e.ID()) {
					return fmt.Sprintf("%s is not in %s", e.Name(), ct.Name()), false, nil
				}
				return fmt.Sprintf("Removed %s from %s", e.Name(), ct.Name()), true, nil
			})
		},
	}
}

func (c *CLI) editMoveOutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "move-out FILE ELEMENT",
		Short: "Detach an element from its container",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.edit(cmd.Context(), args[0], func(d *diagram.Document) (string, bool, error) {
				e, err := resolve(d, args[1])
				if err != nil {
					return "", false, err
				}
				if !d.MoveOut(e.ID()) {
					return fmt.Sprintf("%s is not in a container", e.Name()), false, nil
				}
				return fmt.Sprintf("Moved %s out", e.Name()), true, nil
			})
		},
	}
}

func (c *CLI) editLinkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "link FILE POINTER TARGET",
		Short: "Point a pointer cell at an element",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.edit(cmd.Context(), args[0], func(d *diagram.Document) (string, bool, error) {
				p, err := resolveKind(d, args[1], isPointer, "pointer cell")
				if err != nil {
					return "", false, err
				}
				t, err := resolve(d, args[2])
				if err != nil {
					return "", false, err
				}
				if !d.CreateArrow(p.ID(), t.ID()) {
					return fmt.Sprintf("%s cannot point at %s", p.Name(), t.Name()), false, nil
				}
				return fmt.Sprintf("Linked %s %s %s", p.Name(), iconArrow, t.Name()), true, nil
			})
		},
	}
}

func (c *CLI) editUnlinkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unlink FILE POINTER",
		Short: "Clear a pointer's target",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.edit(cmd.Context(), args[0], func(d *diagram.Document) (string, bool, error) {
				p, err := resolveKind(d, args[1], isPointer, "pointer cell")
				if err != nil {
					return "", false, err
				}
				if !d.ClearArrow(p.ID()) {
					return fmt.Sprintf("%s has no target", p.Name()), false, nil
				}
				return fmt.Sprintf("Unlinked %s", p.Name()), true, nil
			})
		},
	}
}

func (c *CLI) editDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete FILE ELEMENT",
		Short: "Delete an element and everything inside it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.edit(cmd.Context(), args[0], func(d *diagram.Document) (string, bool, error) {
				e, err := resolve(d, args[1])
				if err != nil {
					return "", false, err
				}
				name, before := e.Name(), d.Len()
				res := d.Delete(e.ID())
				return fmt.Sprintf("%s %s (%d elements removed)", res, name, before-d.Len()), res == diagram.Deleted, nil
			})
		},
	}
}

func (c *CLI) editPopCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pop FILE STACK",
		Short: "Remove the top element of a stack or queue",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.edit(cmd.Context(), args[0], func(d *diagram.Document) (string, bool, error) {
				s, err := resolveKind(d, args[1], isStack, "stack or queue")
				if err != nil {
					return "", false, err
				}
				top, ok := d.PopTop(s.ID())
				if !ok {
					return fmt.Sprintf("%s is empty", s.Name()), false, nil
				}
				return fmt.Sprintf("Popped %s from %s %s", top.Name(), s.Ordering(), s.Name()), true, nil
			})
		},
	}
}

func (c *CLI) editRenameCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rename FILE ELEMENT NAME",
		Short: "Rename an element",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.edit(cmd.Context(), args[0], func(d *diagram.Document) (string, bool, error) {
				e, err := resolve(d, args[1])
				if err != nil {
					return "", false, err
				}
				old := e.Name()
				d.Rename(e.ID(), args[2])
				return fmt.Sprintf("Renamed %s to %s", old, args[2]), true, nil
			})
		},
	}
}

func (c *CLI) editSetValueCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-value FILE CELL VALUE",
		Short: "Set the value of a data cell",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.edit(cmd.Context(), args[0], func(d *diagram.Document) (string, bool, error) {
				e, err := resolve(d, args[1])
				if err != nil {
					return "", false, err
				}
				if !d.EditValue(e.ID(), args[2]) {
					return fmt.Sprintf("%s is a %s and has no value", e.Name(), e.Kind()), false, nil
				}
				return fmt.Sprintf("Set %s = %s", e.Name(), args[2]), true, nil
			})
		},
	}
}

func (c *CLI) editCopyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "copy FILE ELEMENT",
		Short: "Duplicate an element next to the original",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.edit(cmd.Context(), args[0], func(d *diagram.Document) (string, bool, error) {
				e, err := resolve(d, args[1])
				if err != nil {
					return "", false, err
				}
				cp, ok := d.Copy(e.ID())
				if !ok {
					return fmt.Sprintf("cannot copy %s", e.Name()), false, nil
				}
				return fmt.Sprintf("Copied %s (%s)", e.Name(), cp.ID()), true, nil
			})
		},
	}
}

func (c *CLI) editMoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "move FILE ELEMENT DX DY",
		Short: "Move an element and everything inside it by an offset",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			delta, err := parseFloats(args[2:])
			if err != nil {
				return err
			}
			return c.edit(cmd.Context(), args[0], func(d *diagram.Document) (string, bool, error) {
				e, err := resolve(d, args[1])
				if err != nil {
					return "", false, err
				}
				if !d.Move(e.ID(), delta[0], delta[1]) {
					return fmt.Sprintf("cannot move %s", e.Name()), false, nil
				}
				b := e.Bounds()
				return fmt.Sprintf("Moved %s to (%.0f, %.0f)", e.Name(), b.X, b.Y), true, nil
			})
		},
	}
}

var dropNames = map[diagram.DropResult]string{
	diagram.DropNone:     "no containment change",
	diagram.DropAdded:    "added to container",
	diagram.DropDetached: "detached",
}

func (c *CLI) editDragCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "drag FILE X1 Y1 X2 Y2",
		Short: "Press at one canvas point and release at another",
		Long: `Press at (X1, Y1) and release at (X2, Y2), as a pointer gesture would.

Pressing a pointer's anchor dot retargets it to whatever lies under the
release point. Pressing anywhere else moves the element, and releasing
over a container drops it in.`,
		Args: cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			pts, err := parseFloats(args[1:])
			if err != nil {
				return err
			}
			return c.edit(cmd.Context(), args[0], func(d *diagram.Document) (string, bool, error) {
				g := d.BeginDrag(pts[0], pts[1])
				if g == nil {
					return fmt.Sprintf("nothing at (%.0f, %.0f)", pts[0], pts[1]), false, nil
				}
				g.MoveTo(pts[2], pts[3])
				e := g.Element()
				if g.Mode() == diagram.DragLink {
					g.End(pts[2], pts[3])
					if e.Target() == "" {
						return fmt.Sprintf("Dragged %s's arrow onto empty canvas", e.Name()), true, nil
					}
					return fmt.Sprintf("Linked %s %s %s", e.Name(), iconArrow, d.Get(e.Target()).Name()), true, nil
				}
				res := g.End(pts[2], pts[3])
				return fmt.Sprintf("Dragged %s (%s)", e.Name(), dropNames[res]), true, nil
			})
		},
	}
}

func (c *CLI) editRelayoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "relayout FILE",
		Short: "Recompute every container's size and child positions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.edit(cmd.Context(), args[0], func(d *diagram.Document) (string, bool, error) {
				d.RelayoutAll()
				return fmt.Sprintf("Relaid out %d elements", d.Len()), true, nil
			})
		},
	}
}

func (c *CLI) editClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear FILE",
		Short: "Remove every element",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.edit(cmd.Context(), args[0], func(d *diagram.Document) (string, bool, error) {
				n := d.Len()
				d.Clear()
				return fmt.Sprintf("Cleared %d elements", n), true, nil
			})
		},
	}
}

func parseFloats(args []string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "%q is not a number", a)
		}
		out[i] = v
	}
	return out, nil
}
