// Package health runs the environment checks behind 'changelog-gen doctor':
// the configuration loads, the changelog parses, the git repository opens
// and the code-hosting provider is usable.
package health

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ariel-frischer/changelog-gen/internal/changelog"
	"github.com/ariel-frischer/changelog-gen/internal/config"
	"github.com/ariel-frischer/changelog-gen/internal/git"
	"github.com/ariel-frischer/changelog-gen/internal/provider"
)

// CheckResult represents the result of a single health check
type CheckResult struct {
	Name    string
	Passed  bool
	Message string
	// Optional checks only limit some commands; failing one does not fail
	// the report.
	Optional bool
}

// HealthReport contains all health check results
type HealthReport struct {
	Checks []CheckResult
	Passed bool
}

// Options holds what the checks inspect.
type Options struct {
	// Config is the loaded configuration; ConfigErr is the load error.
	Config    *config.Configuration
	ConfigErr error
	// RepoPath is a path inside the git repository, "" for the working
	// directory.
	RepoPath string
}

// RunHealthChecks runs all health checks and returns a report.
// Checks that need the configuration are skipped when it failed to load.
func RunHealthChecks(opts Options) *HealthReport {
	report := &HealthReport{Passed: true}
	add := func(c CheckResult) {
		report.Checks = append(report.Checks, c)
		if !c.Passed && !c.Optional {
			report.Passed = false
		}
	}

	add(CheckConfig(opts.ConfigErr))
	if opts.ConfigErr == nil && opts.Config != nil {
		add(CheckChangelog(opts.Config.File))
	}
	add(CheckGitRepository(opts.RepoPath))
	if opts.ConfigErr == nil && opts.Config != nil {
		add(CheckProvider(opts.Config))
	}
	return report
}

// CheckConfig reports whether the configuration loaded.
func CheckConfig(err error) CheckResult {
	if err != nil {
		return CheckResult{Name: "Configuration", Message: err.Error()}
	}
	return CheckResult{Name: "Configuration", Passed: true, Message: "loaded"}
}

// CheckChangelog checks that the changelog exists and parses.
func CheckChangelog(path string) CheckResult {
	result := CheckResult{Name: "Changelog"}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			result.Message = fmt.Sprintf("%s not found - run 'changelog-gen new' to create it", path)
			return result
		}
		result.Message = fmt.Sprintf("reading %s: %v", path, err)
		return result
	}

	c, err := changelog.Parse(string(data))
	if err != nil {
		result.Message = fmt.Sprintf("%s: %v", path, err)
		return result
	}

	stats := c.Stats()
	result.Passed = true
	result.Message = fmt.Sprintf("%s (%d release(s), %d note(s))", path, stats.Releases, stats.Notes)
	return result
}

// CheckGitRepository checks for a repository and its last version tag.
// Only generate and tag-based release need one, so the check is optional.
func CheckGitRepository(path string) CheckResult {
	result := CheckResult{Name: "Git repository", Optional: true}

	if !git.IsGitRepository(path) {
		result.Message = "not found - generate and 'release' without a version need one"
		return result
	}
	repo, err := git.Open(path)
	if err != nil {
		result.Message = fmt.Sprintf("cannot be opened: %v", err)
		return result
	}

	result.Passed = true
	tag, err := repo.LastTagName()
	switch {
	case err != nil:
		result.Message = fmt.Sprintf("%s (listing tags: %v)", repo.Root(), err)
	case tag == "":
		result.Message = fmt.Sprintf("%s (no version tag yet)", repo.Root())
	default:
		result.Message = fmt.Sprintf("%s (last tag %s)", repo.Root(), tag)
	}
	return result
}

// CheckProvider checks that links and pull request lookups can work.
func CheckProvider(cfg *config.Configuration) CheckResult {
	result := CheckResult{Name: "Provider", Optional: true}

	switch {
	case cfg.Provider == provider.NameNone:
		result.Passed = true
		result.Message = "none (links disabled)"
	case cfg.Repo == "":
		result.Message = "repository not set - set 'repo' or GITHUB_REPOSITORY to enable links"
	case os.Getenv(cfg.GitHubTokenEnv) == "":
		result.Passed = true
		result.Message = fmt.Sprintf("%s %s (no token in $%s, API calls are rate limited)",
			cfg.Provider, cfg.Repo, cfg.GitHubTokenEnv)
	default:
		result.Passed = true
		result.Message = fmt.Sprintf("%s %s (token from $%s)", cfg.Provider, cfg.Repo, cfg.GitHubTokenEnv)
	}
	return result
}

// FormatReport formats the health report for console output
func FormatReport(report *HealthReport) string {
	var b strings.Builder
	for _, check := range report.Checks {
		mark := "✓"
		switch {
		case check.Passed:
		case check.Optional:
			mark = "○"
		default:
			mark = "✗"
		}
		fmt.Fprintf(&b, "%s %s: %s\n", mark, check.Name, check.Message)
	}
	return b.String()
}
