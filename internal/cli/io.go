package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ariel-frischer/changelog-gen/internal/changelog"
	"github.com/ariel-frischer/changelog-gen/internal/config"
	clierrors "github.com/ariel-frischer/changelog-gen/internal/errors"
	"github.com/ariel-frischer/changelog-gen/internal/logging"
	"github.com/ariel-frischer/changelog-gen/internal/progress"
)

// loadConfig loads the layered configuration; --file overrides its file key.
func loadConfig(cmd *cobra.Command) (*config.Configuration, error) {
	cfg, err := config.LoadWithOptions(config.LoadOptions{
		ProjectConfigPath: configPath,
		WarningWriter:     cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, clierrors.WrapWithMessage(err, clierrors.Configuration, "loading configuration",
			"Check .changelog-gen/config.yml and CHANGELOG_GEN_* variables",
			"Run 'changelog-gen config init' to write a commented config")
	}
	if changelogFn != "" {
		cfg.File = changelogFn
	}
	return cfg, nil
}

// readInput returns the changelog text. Stdin wins when it is not a
// terminal and has content; otherwise the file at path is read.
func readInput(cmd *cobra.Command, path string) (string, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		data, err := io.ReadAll(in)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		if len(data) > 0 {
			logging.Debug("changelog read from stdin", "bytes", len(data))
			return string(data), nil
		}
		logging.Debug("stdin is empty, falling back to file", "path", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", clierrors.ChangelogNotFound(path)
		}
		return "", fmt.Errorf("reading changelog: %w", err)
	}
	return string(data), nil
}

// readChangelog reads and parses the changelog.
func readChangelog(cmd *cobra.Command, path string) (*changelog.ChangeLog, error) {
	text, err := readInput(cmd, path)
	if err != nil {
		return nil, err
	}
	c, err := changelog.Parse(text)
	if err != nil {
		return nil, clierrors.ParseFailed(path, err)
	}
	return c, nil
}

// writeOutput prints the changelog with --stdout, otherwise rewrites path.
func writeOutput(cmd *cobra.Command, c *changelog.ChangeLog, path string, stdout bool) error {
	if stdout {
		return changelog.RenderMarkdown(c, cmd.OutOrStdout(), changelog.FormatOptions{})
	}

	f, err := os.Create(path)
	if err != nil {
		return clierrors.WriteFailed(path, err)
	}
	if err := changelog.RenderMarkdown(c, f, changelog.FormatOptions{}); err != nil {
		_ = f.Close()
		return clierrors.WriteFailed(path, err)
	}
	if err := f.Close(); err != nil {
		return clierrors.WriteFailed(path, err)
	}
	logging.Info("changelog written", "path", path)
	return nil
}

// terminalCaps detects the capabilities of w; writers other than files
// are treated as plain pipes.
func terminalCaps(w io.Writer) progress.TerminalCapabilities {
	if f, ok := w.(*os.File); ok {
		return progress.DetectTerminalCapabilities(f)
	}
	return progress.TerminalCapabilities{}
}
