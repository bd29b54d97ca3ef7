package cli

import (
	"regexp"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/changelog-gen/internal/changelog"
	clierrors "github.com/ariel-frischer/changelog-gen/internal/errors"
	"github.com/ariel-frischer/changelog-gen/internal/output"
)

var removeFlags struct {
	n       int
	version string
	stdout  bool
}

var removeCmd = &cobra.Command{
	Use:   "remove",
	Short: "Delete releases from the changelog",
	Long: `Delete one release by index, or every release whose version matches a
regular expression. The unreleased section is only removed by index
(-n -1); a version pattern never matches it.`,
	Example: `  # Drop the latest release
  changelog-gen remove

  # Drop every release candidate
  changelog-gen remove --version '-rc\.'`,
	Args: cobra.NoArgs,
	RunE: runRemove,
}

func init() {
	removeCmd.GroupID = GroupRelease
	rootCmd.AddCommand(removeCmd)

	f := removeCmd.Flags()
	f.IntVarP(&removeFlags.n, "nth", "n", 0, "Release index: -1 unreleased, 0 latest, 1 the one before")
	f.StringVar(&removeFlags.version, "version", "", "Regular expression matched against release versions")
	f.BoolVar(&removeFlags.stdout, "stdout", false, "Print the changelog instead of writing the file")
}

func runRemove(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	c, err := readChangelog(cmd, cfg.File)
	if err != nil {
		return err
	}

	errOut := cmd.ErrOrStderr()
	if removeFlags.version != "" {
		re, err := regexp.Compile(removeFlags.version)
		if err != nil {
			return clierrors.InvalidPattern(removeFlags.version, err)
		}
		removed := c.RemoveMatching(re)
		if len(removed) == 0 {
			return &changelog.ReleaseNotFoundError{Pattern: removeFlags.version, AvailableVersions: c.ListVersions()}
		}
		for _, v := range removed {
			output.PrintInfo(errOut, "Removed %s", v)
		}
	} else {
		r, err := c.RemoveNthRelease(removeFlags.n)
		if err != nil {
			return err
		}
		output.PrintInfo(errOut, "Removed %s", r.Release.Title.Version)
	}

	c.Sanitize(changelog.SanitizeOptions{})
	return writeOutput(cmd, c, cfg.File, removeFlags.stdout)
}
