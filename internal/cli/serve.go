package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/structboard/internal/server"
)

func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve stored diagrams and renders over HTTP",
		Long: `Serve the configured store over HTTP.

  GET    /diagrams                       list stored diagrams
  GET    /diagrams/{name}                fetch a diagram (?format=yaml)
  PUT    /diagrams/{name}                store a diagram
  DELETE /diagrams/{name}                delete a diagram
  GET    /diagrams/{name}/render/{fmt}   render (?grid, scale, highlight, auto)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if addr == "" {
				addr = c.cfg.Server.Addr
			}
			s, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close()
			runner, ch, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer ch.Close()

			return server.New(s, runner, c.Logger).ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}
