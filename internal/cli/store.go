package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/structboard/pkg/document"
	"github.com/matzehuels/structboard/pkg/store"
)

// storeCommand groups the commands that work on named, stored diagrams.
func (c *CLI) storeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Save, load and list named diagrams",
		Long: `Save, load and list named diagrams in the configured store
(a directory, a SQLite database or MongoDB).`,
	}
	cmd.AddCommand(c.storePutCommand())
	cmd.AddCommand(c.storeGetCommand())
	cmd.AddCommand(c.storeListCommand())
	cmd.AddCommand(c.storeRemoveCommand())
	cmd.AddCommand(c.storeBrowseCommand())
	return cmd
}

func (c *CLI) storePutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "put NAME FILE",
		Short: "Store a diagram file under a name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d, rep, err := loadFile(ctx, args[1])
			if err != nil {
				return err
			}
			s, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close()
			if err := store.Save(ctx, s, args[0], d); err != nil {
				return err
			}
			p := c.printer()
			p.success("Stored %s as %s", args[1], args[0])
			p.stats(d.Len(), arrowCount(d), false)
			printReport(p, rep)
			return nil
		},
	}
}

func (c *CLI) storeGetCommand() *cobra.Command {
	var (
		output string
		format string
	)
	cmd := &cobra.Command{
		Use:   "get NAME",
		Short: "Write a stored diagram to a file or stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close()
			d, _, err := store.Load(ctx, s, args[0])
			if err != nil {
				return err
			}
			if output != "" {
				if err := document.WriteFile(output, d); err != nil {
					return err
				}
				c.printer().success("Wrote %s", output)
				return nil
			}
			f, err := document.ParseFormat(format)
			if err != nil {
				return err
			}
			return document.Write(c.out, d, f)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file; the extension picks the format")
	cmd.Flags().StringVar(&format, "format", "json", "stdout encoding: json or yaml")
	return cmd
}

func (c *CLI) storeListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored diagrams",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close()
			items, err := s.List(ctx)
			if err != nil {
				return err
			}
			p := c.printer()
			if len(items) == 0 {
				p.info("No stored diagrams")
				return nil
			}
			for _, it := range items {
				p.line(fmt.Sprintf("%-24s %s  %s", styleValue.Render(it.Name),
					styleNumber.Render(fmt.Sprintf("%4d", it.Elements)),
					styleDim.Render(it.UpdatedAt.Local().Format("2006-01-02 15:04"))))
			}
			return nil
		},
	}
}

func (c *CLI) storeRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm NAME...",
		Aliases: []string{"delete"},
		Short:   "Delete stored diagrams",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close()
			for _, name := range args {
				if err := s.Delete(ctx, name); err != nil {
					return err
				}
				c.printer().success("Deleted %s", name)
			}
			return nil
		},
	}
}

func (c *CLI) storeBrowseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Pick a stored diagram interactively and print its tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close()
			items, err := s.List(ctx)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				c.printer().info("No stored diagrams")
				return nil
			}

			final, err := tea.NewProgram(newDiagramListModel(items), tea.WithContext(ctx)).Run()
			if err != nil {
				return err
			}
			m := final.(diagramListModel)
			if m.selected == nil {
				return nil
			}

			d, rep, err := store.Load(ctx, s, m.selected.Name)
			if err != nil {
				return err
			}
			p := c.printer()
			printTree(p, m.selected.Name, d)
			printReport(p, rep)
			return nil
		},
	}
}
