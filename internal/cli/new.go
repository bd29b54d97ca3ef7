package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/changelog-gen/internal/changelog"
	clierrors "github.com/ariel-frischer/changelog-gen/internal/errors"
	"github.com/ariel-frischer/changelog-gen/internal/output"
)

var newForce bool

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a changelog from the default template",
	Long: `Create a changelog with a standard header and an empty unreleased
section. An existing file is only replaced with --force.`,
	Example: `  changelog-gen new
  changelog-gen new --file docs/CHANGELOG.md --force`,
	Args: cobra.NoArgs,
	RunE: runNew,
}

func init() {
	newCmd.GroupID = GroupSetup
	rootCmd.AddCommand(newCmd)

	newCmd.Flags().BoolVar(&newForce, "force", false, "Overwrite an existing changelog")
}

func runNew(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	path := cfg.File
	if _, err := os.Stat(path); err == nil && !newForce {
		return clierrors.ChangelogExists(path)
	}

	c, err := changelog.LoadDefault()
	if err != nil {
		return err
	}
	if err := writeOutput(cmd, c, path, false); err != nil {
		return err
	}
	output.PrintSuccess(cmd.OutOrStdout(), "Changelog successfully created at %s", path)
	return nil
}
