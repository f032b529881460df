package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/waypoint/pkg/errors"
	"github.com/matzehuels/waypoint/pkg/nav"
	"github.com/matzehuels/waypoint/pkg/visualize"
)

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		format   string
		output   string
		input    string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Render the navigation tree as DOT or SVG",
		Long: `Render the stored navigation tree (or a state read with --input) as a
Graphviz diagram. The focused path is drawn in bold.

  waypoint graph > nav.dot
  waypoint graph -f svg -o nav.svg --detailed`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if format != "dot" && format != "svg" {
				return errors.New(errors.ErrCodeInvalidInput, "unknown format %q (want dot or svg)", format)
			}
			prog := newProgress(loggerFromContext(ctx))

			sess, err := c.openSession(ctx, input != "")
			if err != nil {
				return err
			}
			defer sess.Close()

			if input != "" {
				data, err := readInput(cmd, input)
				if err != nil {
					return err
				}
				partial, err := nav.DecodePartial(data)
				if err != nil {
					return err
				}
				if _, err := sess.container.Resolve(ctx, partial); err != nil {
					return err
				}
			} else if err := sess.restore(ctx); err != nil {
				return err
			}

			out := []byte(visualize.ToDOT(sess.container.State(), visualize.Options{Detailed: detailed}))
			if format == "svg" {
				if out, err = visualize.RenderSVG(ctx, string(out)); err != nil {
					return err
				}
			}

			if output == "" {
				_, err := c.out.Write(out)
				return err
			}
			if err := os.WriteFile(output, out, 0o644); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "write %s", output)
			}
			prog.done("Rendered", "format", format, "file", output)
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "dot", "output format: dot or svg")
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions([]string{"dot", "svg"}, cobra.ShellCompDirectiveNoFileComp))
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&input, "input", "i", "", "render this state file instead of the stored tree")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include params and history in labels")
	return cmd
}
