package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/waypoint/pkg/errors"
	"github.com/matzehuels/waypoint/pkg/nav"
)

// dispatchCommand creates the dispatch command.
func (c *CLI) dispatchCommand() *cobra.Command {
	var (
		params  string
		target  string
		source  string
		asJSON  bool
		tree    bool
		strict  bool
		noStore bool
	)

	cmd := &cobra.Command{
		Use:   "dispatch ACTION...",
		Short: "Apply actions to the stored navigation tree",
		Long: `Apply actions, in order, to the navigation tree kept in the configured store.

Actions are JSON objects or the shorthand TYPE[:ARG]:

  waypoint dispatch PUSH:Article --params '{"id": 42}'
  waypoint dispatch GO_BACK POP:2 TOGGLE_DRAWER
  waypoint dispatch '{"type":"NAVIGATE","payload":{"name":"Settings"}}'

An action nobody handles is reported but is not an error unless --strict.`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: c.completeActions,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			p, err := parseParams(params)
			if err != nil {
				return err
			}
			actions := make([]nav.Action, 0, len(args))
			for _, arg := range args {
				a, err := parseAction(arg, p)
				if err != nil {
					return err
				}
				if target != "" {
					a = a.WithTarget(target)
				}
				if source != "" {
					a = a.WithSource(source)
				}
				actions = append(actions, a)
			}

			prog := newProgress(loggerFromContext(ctx))
			sess, err := c.openSession(ctx, noStore)
			if err != nil {
				return err
			}
			defer sess.Close()
			if err := sess.restore(ctx); err != nil {
				return err
			}

			unhandled := 0
			for _, a := range actions {
				handled, err := sess.container.Dispatch(ctx, a)
				if err != nil {
					return err
				}
				if handled {
					printSuccess("%s", StyleHighlight.Render(a.String()))
					continue
				}
				unhandled++
				printWarning("%s was not handled", a.String())
			}

			prog.done("Dispatched", "actions", len(actions), "unhandled", unhandled)
			if leaf, ok := sess.container.State().FocusedLeaf(); ok {
				printKeyValue("focused", leaf.Name+" "+StyleDim.Render(leaf.Key))
			}
			if tree {
				fmt.Fprintln(c.out, renderTree(sess.container.State()))
			}
			if asJSON {
				if err := c.writeState(sess.container.State()); err != nil {
					return err
				}
			}
			if strict && unhandled > 0 {
				return errors.New(errors.ErrCodeInvalidAction, "%d of %d actions were not handled", unhandled, len(actions))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&params, "params", "", "JSON params for actions that name a route")
	cmd.Flags().StringVar(&target, "target", "", "pin actions to the navigator with this key")
	cmd.Flags().StringVar(&source, "source", "", "route key the actions originate from")
	cmd.Flags().BoolVarP(&asJSON, "print", "p", false, "print the resulting state as JSON")
	cmd.Flags().BoolVarP(&tree, "tree", "t", false, "print the resulting tree")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when an action is not handled")
	cmd.Flags().BoolVar(&noStore, "no-store", false, "start from the initial state and do not persist")
	return cmd
}
