package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/waypoint/internal/server"
	"github.com/matzehuels/waypoint/pkg/config"
	"github.com/matzehuels/waypoint/pkg/observability"
	"github.com/matzehuels/waypoint/pkg/observability/prom"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr   string
		watch  bool
		noProm bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the navigation tree over HTTP",
		Long: `Restore the navigation tree from the configured store and serve it over
HTTP. Actions posted to /actions are applied one at a time and every
committed state is persisted.

With --watch (the default) edits to the configuration file are picked up
live: the tree is rehydrated against the new navigators, keeping every
route that still exists.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			opts := []server.Option{server.WithLogger(logger)}
			if !noProm {
				hooks := prom.New()
				observability.SetNavigationHooks(hooks)
				observability.SetStoreHooks(hooks)
				defer observability.Reset()
				opts = append(opts, server.WithMetrics(hooks.Handler()))
			}

			sess, err := c.openSession(ctx, false)
			if err != nil {
				return err
			}
			defer sess.Close()
			if err := sess.restore(ctx); err != nil {
				return err
			}

			opts = append(opts, server.WithQueueSize(sess.file.Server.QueueSize))
			srv := server.New(sess.container, opts...)

			if watch {
				go func() {
					err := config.Watch(ctx, c.configPath, logger, func(f *config.File) {
						if err := srv.Reload(ctx, f); err != nil {
							logger.Error("reload failed", "error", err)
						}
					})
					if err != nil {
						logger.Error("config watch stopped", "error", err)
					}
				}()
			}

			if addr == "" {
				addr = sess.file.Server.Addr
			}
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&watch, "watch", true, "reload the configuration when it changes")
	cmd.Flags().BoolVar(&noProm, "no-metrics", false, "disable the /metrics endpoint")
	return cmd
}
