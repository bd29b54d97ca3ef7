package cli

import (
	"fmt"
	"io"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/changelog-gen/internal/changelog"
	clierrors "github.com/ariel-frischer/changelog-gen/internal/errors"
	"github.com/ariel-frischer/changelog-gen/internal/output"
)

var showFlags struct {
	n       int
	version string
	pretty  bool
	list    bool
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print releases of the changelog",
	Long: `Print the notes of one or more releases without their title line, ready
to paste into a release page.

Releases are numbered from the newest: -n 0 is the latest release and
-n -1 the unreleased section. --version selects every release whose
version matches a regular expression instead.`,
	Example: `  # Notes of the latest release
  changelog-gen show

  # Unreleased notes
  changelog-gen show -n -1

  # Every 1.x release, styled for the terminal
  changelog-gen show --version '^1\.' --pretty

  # List releases with their index
  changelog-gen show --list`,
	Args: cobra.NoArgs,
	RunE: runShow,
}

func init() {
	showCmd.GroupID = GroupChangelog
	rootCmd.AddCommand(showCmd)

	f := showCmd.Flags()
	f.IntVarP(&showFlags.n, "nth", "n", 0, "Release index: -1 unreleased, 0 latest, 1 the one before")
	f.StringVar(&showFlags.version, "version", "", "Regular expression matched against release versions")
	f.BoolVar(&showFlags.pretty, "pretty", false, "Colored terminal output")
	f.BoolVar(&showFlags.list, "list", false, "List releases with their index and note count")
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	c, err := readChangelog(cmd, cfg.File)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if showFlags.list {
		return listReleases(out, c)
	}

	releases, err := selectReleases(c, showFlags.version, showFlags.n)
	if err != nil {
		return err
	}

	if showFlags.pretty {
		return output.WriteReleases(out, releases, output.ReleaseOptions{})
	}
	// A single release prints bare; several keep their titles apart.
	opts := changelog.ReleaseFormatOptions{OmitTitle: len(releases) == 1}
	for i, r := range releases {
		if i > 0 {
			fmt.Fprintln(out)
		}
		if _, err := io.WriteString(out, changelog.FormatRelease(r.Release, opts)); err != nil {
			return err
		}
	}
	return nil
}

// selectReleases picks releases by version pattern when one is given,
// otherwise by index.
func selectReleases(c *changelog.ChangeLog, pattern string, n int) ([]changelog.NthRelease, error) {
	if pattern != "" {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, clierrors.InvalidPattern(pattern, err)
		}
		return c.MatchReleases(re)
	}
	r, err := c.NthRelease(n)
	if err != nil {
		return nil, err
	}
	return []changelog.NthRelease{r}, nil
}

func listReleases(out io.Writer, c *changelog.ChangeLog) error {
	all := c.All()
	if len(all) == 0 {
		fmt.Fprintln(out, "No release found.")
		return nil
	}
	plain := !output.IsTerminalWriter(out)
	for _, r := range all {
		fmt.Fprintln(out, output.Summary(r, output.ReleaseOptions{Plain: plain}))
	}
	return nil
}
