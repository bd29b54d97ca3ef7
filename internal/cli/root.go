// Package cli implements the changelog-gen command line.
package cli

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	clierrors "github.com/ariel-frischer/changelog-gen/internal/errors"
	"github.com/ariel-frischer/changelog-gen/internal/git"
	"github.com/ariel-frischer/changelog-gen/internal/logging"
)

// Command groups shown in help output.
const (
	GroupChangelog = "changelog"
	GroupRelease   = "release"
	GroupSetup     = "setup"
)

var (
	configPath  string
	changelogFn string
	debugMode   bool
	verboseMode bool
)

var rootCmd = &cobra.Command{
	Use:   "changelog-gen",
	Short: "Keep a Changelog parser, formatter and release manager",
	Long: `changelog-gen reads, validates and rewrites CHANGELOG.md files that follow
the Keep a Changelog format.

It generates unreleased notes from conventional commits, promotes the
unreleased section to a versioned release, and shows or removes releases.

The changelog is read from stdin when stdin is not a terminal and is not
empty, otherwise from --file (default CHANGELOG.md).`,
	Example: `  # Add notes for the commits since the last tag
  changelog-gen generate --range

  # Release the unreleased notes as 1.2.0
  changelog-gen release 1.2.0

  # Print the notes of the latest release
  changelog-gen show

  # Check and reformat the changelog
  changelog-gen validate --format`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogging()
	},
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupChangelog, Title: "Changelog Commands:"},
		&cobra.Group{ID: GroupRelease, Title: "Release Commands:"},
		&cobra.Group{ID: GroupSetup, Title: "Setup Commands:"},
	)

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "Project config file (default .changelog-gen/config.yml)")
	pf.StringVarP(&changelogFn, "file", "f", "", "Changelog file (default from config, CHANGELOG.md)")
	pf.BoolVar(&debugMode, "debug", false, "Enable debug logging")
	pf.BoolVarP(&verboseMode, "verbose", "v", false, "Log what each command does")
}

func initLogging() {
	level := slog.LevelWarn
	switch {
	case debugMode:
		level = slog.LevelDebug
	case verboseMode:
		level = slog.LevelInfo
	}
	logging.Init(level, logging.FormatFromEnv(), nil)
	git.SetDebugLogger(logging.Debugf("git"))
}

// Execute runs the root command and reports any error on stderr.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	var reported *ExitError
	if err != nil && !errors.As(err, &reported) {
		clierrors.FprintAny(rootCmd.ErrOrStderr(), err)
	}
	return err
}
