package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/waypoint/pkg/nav"
)

// rehydrateCommand creates the rehydrate command.
func (c *CLI) rehydrateCommand() *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "rehydrate [FILE|-]",
		Short: "Resolve a partial state against the configuration",
		Long: `Read a partial navigation state (JSON, from FILE or stdin) and print the
live tree it rehydrates to: missing keys are assigned, unknown routes are
dropped, and nested navigators on the focused path are mounted.

With --save the result also replaces the stored state.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			data, err := readInput(cmd, firstArg(args))
			if err != nil {
				return err
			}
			partial, err := nav.DecodePartial(data)
			if err != nil {
				return err
			}

			sess, err := c.openSession(ctx, !save)
			if err != nil {
				return err
			}
			defer sess.Close()

			state, err := sess.container.Resolve(ctx, partial)
			if err != nil {
				return err
			}
			if save {
				printSuccess("Saved rehydrated state as %q", sess.file.Store.Key)
			}
			return c.writeState(state)
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "persist the rehydrated state")
	return cmd
}

// partialCommand creates the partial command.
func (c *CLI) partialCommand() *cobra.Command {
	var stored bool

	cmd := &cobra.Command{
		Use:   "partial [FILE|-]",
		Short: "Print the persisted projection of a state",
		Long: `Print the partial projection of a navigation state: navigator keys and
route name lists are removed and every navigator is marked stale. This is the
form states are persisted and deep-linked in.

With --stored the state is read from the configured store.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var state *nav.State
			if stored {
				sess, err := c.openSession(ctx, false)
				if err != nil {
					return err
				}
				defer sess.Close()
				if err := sess.restore(ctx); err != nil {
					return err
				}
				state = sess.container.State()
			} else {
				data, err := readInput(cmd, firstArg(args))
				if err != nil {
					return err
				}
				if state, err = nav.DecodePartial(data); err != nil {
					return err
				}
			}
			return c.writeState(nav.Partial(state))
		},
	}

	cmd.Flags().BoolVar(&stored, "stored", false, "project the stored state instead of reading input")
	return cmd
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
