package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/waypoint/pkg/persist"
)

// storeCommand creates the store management command.
func (c *CLI) storeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Inspect or clear the stored navigation state",
	}

	cmd.AddCommand(c.storePathCommand())
	cmd.AddCommand(c.storeShowCommand())
	cmd.AddCommand(c.storeClearCommand())

	return cmd
}

// storePathCommand creates the "store path" subcommand.
func (c *CLI) storePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the state is stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := c.openSession(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer sess.Close()

			cfg := sess.file.Store
			printKeyValue("backend", cfg.Backend)
			printKeyValue("key", cfg.Prefix+cfg.Key)
			switch cfg.Backend {
			case persist.BackendRedis:
				printKeyValue("addr", cfg.Addr)
			case persist.BackendMongo:
				printKeyValue("database", cfg.Database)
			}
			if path, ok := persist.Locate(sess.store, cfg.Key); ok {
				printFile(path)
			}
			return nil
		},
	}
}

// storeShowCommand creates the "store show" subcommand.
func (c *CLI) storeShowCommand() *cobra.Command {
	var tree bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the stored partial state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := c.openSession(ctx, false)
			if err != nil {
				return err
			}
			defer sess.Close()

			state, err := sess.store.Load(ctx, sess.file.Store.Key)
			if err != nil {
				return err
			}
			if state == nil {
				printInfo("Nothing stored under %q", sess.file.Store.Key)
				return nil
			}
			if tree {
				c.out.Write([]byte(renderTree(state) + "\n"))
				return nil
			}
			return c.writeState(state)
		},
	}

	cmd.Flags().BoolVarP(&tree, "tree", "t", false, "print as a tree instead of JSON")
	return cmd
}

// storeClearCommand creates the "store clear" subcommand.
func (c *CLI) storeClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete the stored state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := c.openSession(ctx, false)
			if err != nil {
				return err
			}
			defer sess.Close()

			if err := sess.store.Delete(ctx, sess.file.Store.Key); err != nil {
				return err
			}
			printSuccess("Cleared stored state %q", sess.file.Store.Key)
			return nil
		},
	}
}
