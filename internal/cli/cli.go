// Package cli implements the structboard command-line interface.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/structboard/pkg/buildinfo"
	"github.com/matzehuels/structboard/pkg/cache"
	"github.com/matzehuels/structboard/pkg/config"
	"github.com/matzehuels/structboard/pkg/observability"
	"github.com/matzehuels/structboard/pkg/pipeline"
	"github.com/matzehuels/structboard/pkg/store"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	out     io.Writer
	cfgPath string
	cfg     config.Config
	verbose bool
	noCache bool
	force   bool
}

// New creates a CLI that logs to w and prints command output to stdout.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		out:    os.Stdout,
		cfg:    config.Default(),
	}
}

// SetOutput redirects command output.
func (c *CLI) SetOutput(w io.Writer) { c.out = w }

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) { c.Logger.SetLevel(level) }

func (c *CLI) printer() printer { return printer{w: c.out} }

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "structboard",
		Short: "Structboard draws data structures as boxes and arrows",
		Long: `Structboard edits, stores and renders data-structure diagrams: data
cells, pointer cells with arrows, structs, stacks, queues and free-form
containers.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}
	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.out)

	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.cfgPath, "config", "", "config file (default "+config.Path()+")")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable the render cache")

	root.AddCommand(c.newCommand())
	root.AddCommand(c.demoCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.clipCommand())
	root.AddCommand(c.storeCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads configuration and attaches the logger before any command runs.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	if c.verbose {
		c.SetLogLevel(LogDebug)
		observability.NewLogHooks(c.Logger).Register()
	}
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	path := c.cfgPath
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.Logger.Debug("config loaded", "path", path, "store", cfg.Store.Backend, "cache", cfg.Cache.Backend)

	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// =============================================================================
// Backends
// =============================================================================

func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	return store.Open(ctx, c.cfg.Store.Options())
}

func (c *CLI) openCache(ctx context.Context) (cache.Cache, error) {
	if c.noCache {
		return cache.NewNullCache(), nil
	}
	return cache.Open(ctx, c.cfg.Cache.Options())
}

// newRunner creates a pipeline runner over the configured cache. The caller
// closes the returned cache.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, cache.Cache, error) {
	ch, err := c.openCache(ctx)
	if err != nil {
		return nil, nil, err
	}
	r := pipeline.NewRunner(ch, nil, c.Logger)
	r.TTL = c.cfg.Cache.TTL.Duration
	return r, ch, nil
}
