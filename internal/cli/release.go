package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/changelog-gen/internal/changelog"
	"github.com/ariel-frischer/changelog-gen/internal/config"
	clierrors "github.com/ariel-frischer/changelog-gen/internal/errors"
	"github.com/ariel-frischer/changelog-gen/internal/git"
	"github.com/ariel-frischer/changelog-gen/internal/logging"
	"github.com/ariel-frischer/changelog-gen/internal/output"
	"github.com/ariel-frischer/changelog-gen/internal/provider"
)

var releaseFlags struct {
	previous string
	header   string
	force    bool
	stdout   bool
	repoPath string
}

var releaseCmd = &cobra.Command{
	Use:   "release [version]",
	Short: "Promote the unreleased notes to a new release",
	Long: `Turn the unreleased section into a release and leave an empty
unreleased section behind.

Without a version argument, the last version tag of the repository is
used. The version must not start with "v"; use tag_prefix for tags like
v1.2.0.

Pre-releases of the released version (1.2.0-rc.1, 1.2.0-beta) are merged
into it unless merge_dev_versions is "no". A "Full Changelog" link to the
diff with the previous version is added unless --omit-diff is set.`,
	Example: `  # Release 1.2.0
  changelog-gen release 1.2.0

  # Release the version of the last tag
  changelog-gen release

  # Replace an existing 1.2.0 and compare with 1.0.0
  changelog-gen release 1.2.0 --force --previous-version 1.0.0`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRelease,
}

func init() {
	releaseCmd.GroupID = GroupRelease
	rootCmd.AddCommand(releaseCmd)

	f := releaseCmd.Flags()
	f.StringVar(&releaseFlags.previous, "previous-version", "", "Version the diff link starts from (default the release below)")
	f.StringVar(&releaseFlags.header, "header", "", "Text placed at the top of the release")
	f.BoolVar(&releaseFlags.force, "force", false, "Replace the release if the version already exists")
	f.BoolVar(&releaseFlags.stdout, "stdout", false, "Print the changelog instead of writing the file")
	f.StringVar(&releaseFlags.repoPath, "repo-path", "", "Path inside the git repository (default working directory)")

	f.Bool("omit-diff", false, "Do not add the Full Changelog link")
	f.String("merge-dev-versions", "", "Merge pre-releases into the release: auto | yes | no")
	f.String("provider", "", "Code-hosting provider: github | none")
	f.String("repo", "", "Repository as owner/name")
	f.String("tag-prefix", "", "Prefix turning versions into tag names, e.g. v")
}

func runRelease(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyReleaseFlags(cmd, cfg); err != nil {
		return err
	}

	opts := changelog.PromoteOptions{
		PreviousVersion:  releaseFlags.previous,
		Header:           releaseFlags.header,
		MergeDevVersions: cfg.MergeDevVersions.Enabled(),
		OmitDiff:         cfg.OmitDiff,
		Force:            releaseFlags.force,
		Sanitize:         cfg.SanitizeOptions(),
	}

	if len(args) == 1 {
		if strings.HasPrefix(args[0], "v") {
			return clierrors.InvalidVersion(args[0])
		}
		opts.Version = args[0]
	} else if repo, err := git.Open(releaseFlags.repoPath); err == nil {
		opts.Tags = repo
	} else {
		logging.Debug("no repository for tag lookup", "error", err)
	}

	if links := releaseLinks(cmd, cfg); links != nil {
		opts.Links = links
	}

	c, err := readChangelog(cmd, cfg.File)
	if err != nil {
		return err
	}

	res, err := c.Promote(opts)
	if err != nil {
		return err
	}

	errOut := cmd.ErrOrStderr()
	for _, w := range res.Warnings {
		output.PrintWarning(errOut, "%v", w)
	}
	if res.Overwritten {
		output.PrintInfo(errOut, "Replaced the existing release %s", res.Version)
	}
	for _, v := range res.Merged {
		output.PrintInfo(errOut, "Merged %s into %s", v, res.Version)
	}

	if err := writeOutput(cmd, c, cfg.File, releaseFlags.stdout); err != nil {
		return err
	}
	output.PrintSuccess(errOut, "New release %s successfully created.", res.Version)
	return nil
}

func applyReleaseFlags(cmd *cobra.Command, cfg *config.Configuration) error {
	f := cmd.Flags()
	if f.Changed("omit-diff") {
		cfg.OmitDiff, _ = f.GetBool("omit-diff")
	}
	if f.Changed("merge-dev-versions") {
		v, _ := f.GetString("merge-dev-versions")
		cfg.MergeDevVersions = config.MergeDevVersions(strings.ToLower(v))
	}
	if f.Changed("provider") {
		cfg.Provider, _ = f.GetString("provider")
	}
	if f.Changed("repo") {
		cfg.Repo, _ = f.GetString("repo")
	}
	if f.Changed("tag-prefix") {
		cfg.TagPrefix, _ = f.GetString("tag-prefix")
	}

	if err := config.ValidateConfigValues(cfg, "flags"); err != nil {
		return clierrors.Wrap(err, clierrors.Argument)
	}
	return nil
}

// releaseLinks returns the link builder for the release, or nil when the
// provider cannot build links.
func releaseLinks(cmd *cobra.Command, cfg *config.Configuration) changelog.LinkProvider {
	if cfg.Provider == provider.NameNone {
		return nil
	}
	if cfg.Repo == "" {
		if !cfg.OmitDiff {
			output.PrintWarning(cmd.ErrOrStderr(), "repository is not set; release links are omitted")
		}
		return nil
	}
	prov, err := provider.New(cfg.Provider, cfg.Repo)
	if err != nil {
		output.PrintWarning(cmd.ErrOrStderr(), "%v; release links are omitted", err)
		return nil
	}
	return provider.Links{Provider: prov, TagPrefix: cfg.TagPrefix}
}
