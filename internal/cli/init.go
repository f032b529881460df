package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/waypoint/pkg/config"
	"github.com/matzehuels/waypoint/pkg/errors"
)

// initCommand creates the init command.
func (c *CLI) initCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a starter navigator configuration",
		Long: `Write a starter configuration: a drawer whose Home screen hosts a stack
and whose Settings screen hosts tabs. Defaults to the --config path.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.configPath
			if len(args) == 1 {
				path = args[0]
			}
			format, err := config.FormatOf(path)
			if err != nil {
				return err
			}
			if format != config.FormatTOML {
				return errors.New(errors.ErrCodeInvalidInput, "init writes TOML; use a .toml path")
			}
			if _, err := os.Stat(path); err == nil && !force {
				return errors.New(errors.ErrCodeInvalidInput, "%s already exists (use --force to overwrite)", path)
			}

			if err := os.WriteFile(path, []byte(config.Template), 0o644); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
			}
			printSuccess("Wrote configuration")
			printFile(path)
			printNextStep("Push a screen", appName+" dispatch PUSH:Article")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}
