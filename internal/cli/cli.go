// Package cli implements the waypoint command-line interface.
//
// Commands operate on the navigator tree described by a configuration file
// (--config, default waypoint.toml) and on the navigation state kept in the
// store that file names, so successive invocations continue where the last
// one stopped.
//
// # Commands
//
//   - init: write a starter configuration
//   - dispatch: apply actions to the stored tree
//   - rehydrate: resolve a partial state against the configuration
//   - partial: print the persisted projection of a state
//   - graph: render the tree as DOT or SVG
//   - explore: navigate the tree interactively
//   - serve: expose the tree over HTTP
//   - store: inspect or clear the stored state
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/waypoint/pkg/buildinfo"
	"github.com/matzehuels/waypoint/pkg/config"
	"github.com/matzehuels/waypoint/pkg/container"
	"github.com/matzehuels/waypoint/pkg/errors"
	"github.com/matzehuels/waypoint/pkg/nav"
	"github.com/matzehuels/waypoint/pkg/persist"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "waypoint"

	// defaultConfig is the configuration file used without --config.
	defaultConfig = "waypoint.toml"
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

	configPath string
	out        io.Writer
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:     newLogger(w, level),
		configPath: defaultConfig,
		out:        os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// SetOutput redirects command output (not logs) to w.
func (c *CLI) SetOutput(w io.Writer) {
	c.out = w
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Waypoint drives navigator trees from the command line",
		Long: `Waypoint is a navigation-state engine: stack, tab and drawer navigators
nested into a tree, driven by actions that bubble from the focused screen
outward. The CLI applies actions to a persisted tree, renders it, and serves
it over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), commandLogger(c.Logger, cmd.Name())))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", defaultConfig, "navigator configuration file (.toml, .yaml)")
	_ = root.RegisterFlagCompletionFunc("config", completeConfigPath)

	root.AddCommand(c.initCommand())
	root.AddCommand(c.dispatchCommand())
	root.AddCommand(c.rehydrateCommand())
	root.AddCommand(c.partialCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.storeCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Session - configuration, store and container
// =============================================================================

// session bundles what a command needs to work on the configured tree.
type session struct {
	file      *config.File
	store     persist.Store
	container *container.Container
}

// Close releases the store.
func (s *session) Close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}

func (c *CLI) loadConfig() (*config.File, error) {
	return config.Load(c.configPath)
}

// openSession loads the configuration, opens its store and builds a
// container that persists to it. The tree is not resolved yet.
func (c *CLI) openSession(ctx context.Context, noStore bool) (*session, error) {
	logger := loggerFromContext(ctx)
	f, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	spec, err := f.Build()
	if err != nil {
		return nil, err
	}

	cfg := f.Store.Persist()
	if noStore {
		cfg.Backend = persist.BackendNone
	}
	store, err := persist.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Debug("opened store", "backend", cfg.Backend, "key", f.Store.Key)

	ct, err := container.New(spec,
		container.WithLogger(logger),
		container.WithStore(store, f.Store.Key),
	)
	if err != nil {
		store.Close()
		return nil, err
	}
	return &session{file: f, store: store, container: ct}, nil
}

// restore resolves the session's tree from its store.
func (s *session) restore(ctx context.Context) error {
	found, err := s.container.Restore(ctx)
	if err != nil {
		return err
	}
	loggerFromContext(ctx).Debug("restored navigation state", "found", found)
	return nil
}

// =============================================================================
// Input / Output helpers
// =============================================================================

// readInput reads the named file, or stdin for "" and "-".
func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "" || name == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(name)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "%s not found", name)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", name)
	}
	return data, nil
}

// writeState prints state as indented JSON.
func (c *CLI) writeState(state *nav.State) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(state)
}
