package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/changelog-gen/internal/changelog"
	"github.com/ariel-frischer/changelog-gen/internal/config"
	clierrors "github.com/ariel-frischer/changelog-gen/internal/errors"
	"github.com/ariel-frischer/changelog-gen/internal/generate"
	"github.com/ariel-frischer/changelog-gen/internal/git"
	"github.com/ariel-frischer/changelog-gen/internal/logging"
	"github.com/ariel-frischer/changelog-gen/internal/output"
	"github.com/ariel-frischer/changelog-gen/internal/progress"
	"github.com/ariel-frischer/changelog-gen/internal/provider"
)

var generateFlags struct {
	specific  string
	useRange  bool
	since     string
	until     string
	milestone string
	stdout    bool
	mapFile   string
	repoPath  string
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Add unreleased notes from commits",
	Long: `Generate release notes from conventional commits and add them to the
unreleased section of the changelog.

Commits come from one of three sources:
  - a single commit (--specific, default HEAD)
  - a range of commits (--range, from --since to --until)
  - a milestone on the code-hosting provider (--milestone)

A commit is skipped when it edits the changelog itself or when its
message contains "(skip changelog)", "(ignore changelog)" or
"!changelog" (also with log, chglog or notes).`,
	Example: `  # Note for the last commit
  changelog-gen generate

  # Notes for everything since the last tag
  changelog-gen generate --range

  # Notes between two revisions, printed instead of written
  changelog-gen generate --since v1.0.0 --until HEAD --stdout

  # Notes for the pull requests of a milestone
  changelog-gen generate --milestone 1.2.0`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	generateCmd.GroupID = GroupChangelog
	rootCmd.AddCommand(generateCmd)

	f := generateCmd.Flags()
	f.StringVarP(&generateFlags.specific, "specific", "s", "", "Commit to generate a note for (default HEAD)")
	f.BoolVar(&generateFlags.useRange, "range", false, "Use every commit from --since to --until")
	f.StringVar(&generateFlags.since, "since", "", "Start of the range, excluded (default last version tag)")
	f.StringVar(&generateFlags.until, "until", "", "End of the range, included (default HEAD)")
	f.StringVar(&generateFlags.milestone, "milestone", "", "Use the pull requests of this milestone")
	f.BoolVar(&generateFlags.stdout, "stdout", false, "Print the changelog instead of writing the file")
	f.StringVar(&generateFlags.mapFile, "map", "", "JSON or YAML file mapping sections to commit types")
	f.StringVar(&generateFlags.repoPath, "repo-path", "", "Path inside the git repository (default working directory)")

	f.String("parsing", "", "Commit parsing: smart | strict")
	f.String("provider", "", "Code-hosting provider: github | none")
	f.String("repo", "", "Repository as owner/name")
	f.Bool("exclude-unidentified", false, "Drop commits whose section cannot be found")
	f.Bool("exclude-not-pr", false, "Drop commits without a pull request")
	f.Bool("omit-pr-link", false, "Do not link the pull request")
	f.Bool("omit-thanks", false, "Do not thank the author")
	f.Int("max-parallel", 0, "Concurrent pull request lookups")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyGenerateFlags(cmd, cfg); err != nil {
		return err
	}

	c, err := readChangelog(cmd, cfg.File)
	if err != nil {
		return err
	}

	repo, err := git.Open(generateFlags.repoPath)
	if err != nil {
		return clierrors.NotGitRepository(err)
	}

	prov, err := newProvider(cmd, cfg, generateFlags.milestone != "")
	if err != nil {
		return err
	}

	classifier, err := cfg.Classifier()
	if err != nil {
		return clierrors.Wrap(err, clierrors.Configuration, "Set 'parsing' to smart or strict")
	}

	sp := progress.NewSpinner(cmd.ErrOrStderr(), terminalCaps(cmd.ErrOrStderr()))

	gen := generate.New(repo, prov, classifier, generate.Options{
		ChangelogPath: changelogInRepo(repo, cfg.File),
		ExcludeNotPR:  cfg.ExcludeNotPR,
		OmitPRLink:    cfg.OmitPRLink,
		OmitThanks:    cfg.OmitThanks,
		MaxParallel:   cfg.MaxParallel,
	}, generate.WithProgress(func(done, total int) {
		sp.Update(fmt.Sprintf("Processing commits (%d/%d)", done, total))
	}))

	sp.Start("Collecting commits")
	report, err := gen.Generate(cmd.Context(), c, generate.Request{
		Rev:       generateFlags.specific,
		Range:     generateFlags.useRange || generateFlags.since != "" || generateFlags.until != "",
		Since:     generateFlags.since,
		Until:     generateFlags.until,
		Milestone: generateFlags.milestone,
	})
	if err != nil {
		sp.Fail("Generating notes failed")
		return err
	}
	sp.Success(fmt.Sprintf("Generated %d note(s)", len(report.Notes)))

	reportGeneration(cmd, report)

	c.Sanitize(cfg.SanitizeOptions())
	return writeOutput(cmd, c, cfg.File, generateFlags.stdout)
}

// applyGenerateFlags copies explicitly set flags over the configuration.
func applyGenerateFlags(cmd *cobra.Command, cfg *config.Configuration) error {
	f := cmd.Flags()
	if f.Changed("parsing") {
		cfg.Parsing, _ = f.GetString("parsing")
	}
	if f.Changed("provider") {
		cfg.Provider, _ = f.GetString("provider")
	}
	if f.Changed("repo") {
		cfg.Repo, _ = f.GetString("repo")
	}
	if f.Changed("exclude-unidentified") {
		cfg.ExcludeUnidentified, _ = f.GetBool("exclude-unidentified")
	}
	if f.Changed("exclude-not-pr") {
		cfg.ExcludeNotPR, _ = f.GetBool("exclude-not-pr")
	}
	if f.Changed("omit-pr-link") {
		cfg.OmitPRLink, _ = f.GetBool("omit-pr-link")
	}
	if f.Changed("omit-thanks") {
		cfg.OmitThanks, _ = f.GetBool("omit-thanks")
	}
	if f.Changed("max-parallel") {
		cfg.MaxParallel, _ = f.GetInt("max-parallel")
	}

	if generateFlags.mapFile != "" {
		m, err := config.LoadMapFile(generateFlags.mapFile)
		if err != nil {
			return clierrors.WrapWithMessage(err, clierrors.Configuration, "loading --map",
				"The map file holds section titles with lists of commit types, e.g. {\"Added\": [\"feat\"]}")
		}
		cfg.Map = m
	}

	if err := config.ValidateConfigValues(cfg, "flags"); err != nil {
		return clierrors.Wrap(err, clierrors.Argument)
	}
	return nil
}

// newProvider builds the configured provider. Without a repository the
// github provider falls back to none unless it is required.
func newProvider(cmd *cobra.Command, cfg *config.Configuration, required bool) (provider.Provider, error) {
	if cfg.Provider == provider.NameGitHub && cfg.Repo == "" {
		if required {
			return nil, clierrors.MissingRepo()
		}
		output.PrintWarning(cmd.ErrOrStderr(), "repository is not set; pull request lookups are disabled")
		return provider.None{}, nil
	}

	prov, err := provider.New(cfg.Provider, cfg.Repo, provider.WithTokenEnv(cfg.GitHubTokenEnv))
	if err != nil {
		return nil, clierrors.Wrap(err, clierrors.Configuration, "Set 'provider' to github or none", "Set 'repo' to owner/name")
	}
	if required && prov.Name() == provider.NameNone {
		return nil, clierrors.Wrap(provider.ErrNoProvider, clierrors.Configuration,
			"--milestone needs 'provider: github' and 'repo: owner/name'")
	}
	return prov, nil
}

// changelogInRepo returns the changelog path relative to the repository
// root, as git reports changed files.
func changelogInRepo(repo *git.Repository, path string) string {
	abs, err := filepath.Abs(path)
	if err != nil || repo.Root() == "" {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(repo.Root(), abs)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func reportGeneration(cmd *cobra.Command, report *generate.Report) {
	errOut := cmd.ErrOrStderr()
	for _, w := range report.Warnings {
		output.PrintWarning(errOut, "%s", w)
	}
	for _, s := range report.Skipped {
		if s.Err != nil && !errors.Is(s.Err, generate.ErrNotAttachedToPR) {
			output.PrintWarning(errOut, "skipped %s %q: %v", shortSHA(s.SHA), s.Title, s.Err)
			continue
		}
		logging.Info("commit skipped", "sha", s.SHA, "title", s.Title, "reason", s.Reason)
	}
	for _, n := range report.Notes {
		logging.Debug("note added", "sha", n.SHA, "section", n.Section,
			"note", strings.TrimSuffix(changelog.FormatNote(n.Note), "\n"))
	}
}

func shortSHA(sha string) string {
	return git.Commit{SHA: sha}.ShortSHA()
}
