package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/ariel-frischer/changelog-gen/internal/changelog"
	"github.com/ariel-frischer/changelog-gen/internal/commitparse"
	"github.com/ariel-frischer/changelog-gen/internal/provider"
)

// Common error messages for the changelog-gen CLI.
// These templates ensure consistent, actionable error messages.

// ChangelogNotFound creates an error for a missing changelog file.
func ChangelogNotFound(path string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("changelog not found: %s", path),
		"Run 'changelog-gen new' to create one from the default template",
		"Or point to an existing file with --file",
	)
}

// ChangelogExists creates an error when 'new' would overwrite a file.
func ChangelogExists(path string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("%s already exists", path),
		"changelog-gen new --force",
		"Use --force to overwrite it",
	)
}

// WriteFailed creates an error for a changelog that could not be written.
func WriteFailed(path string, err error) *CLIError {
	cliErr := NewRuntimeError(
		fmt.Sprintf("writing %s: %v", path, err),
		"Check that the directory exists and is writable",
		"Use --stdout to print the result instead",
	)
	cliErr.Cause = err
	return cliErr
}

// ParseFailed creates an error for a changelog that does not parse.
func ParseFailed(path string, err error) *CLIError {
	cliErr := &CLIError{
		Category: Validation,
		Message:  fmt.Sprintf("%s: %v", path, err),
		Cause:    err,
		Remediation: []string{
			"Release titles look like: ## [1.2.0] - 2024-05-01",
			"Sections (### Added) must follow a release title",
			"Run 'changelog-gen validate --ast' to inspect what was parsed",
		},
	}

	var pe *changelog.ParseError
	if stderrors.As(err, &pe) {
		cliErr.Message = fmt.Sprintf("%s:%d:%d: %s", path, pe.Line, pe.Column, pe.Message)
		if pe.Err != nil {
			cliErr.Message += ": " + pe.Err.Error()
		}
		if pe.Near != "" {
			cliErr.Snippet = pe.Near + "\n^"
		}
	}
	return cliErr
}

// VersionExists creates an error for releasing a version that is already
// in the changelog.
func VersionExists(version string) *CLIError {
	return &CLIError{
		Category: Validation,
		Message:  fmt.Sprintf("version %s already exists in the changelog", version),
		Usage:    fmt.Sprintf("changelog-gen release %s --force", version),
		Remediation: []string{
			"Use --force to overwrite the existing release",
			"Or release a different version",
		},
	}
}

// NoVersion creates an error when release cannot determine a version.
func NoVersion() *CLIError {
	return NewArgumentErrorWithUsage(
		"no version provided and no version tag found",
		"changelog-gen release <version>",
		"Pass the version to release, e.g. changelog-gen release 1.2.0",
		"Or tag the release commit first: git tag 1.2.0",
	)
}

// VersionOrder creates an error for a previous version greater than the new one.
func VersionOrder(err error) *CLIError {
	return &CLIError{
		Category: Validation,
		Message:  err.Error(),
		Cause:    err,
		Remediation: []string{
			"Check the --previous-version flag",
			"The previous version must be lower than the released one",
		},
	}
}

// InvalidVersion creates an error for an unparseable version argument.
func InvalidVersion(text string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("invalid version %q", text),
		"Use semantic versioning: MAJOR.MINOR.PATCH[-PRERELEASE][+BUILD]",
		"Partial versions like 24.04 are accepted; a leading 'v' is not",
	)
}

// ReleaseNotFound creates an error when no release matches a pattern.
func ReleaseNotFound(pattern string, available []string) *CLIError {
	remediation := []string{"Run 'changelog-gen show' to list releases"}
	if len(available) > 0 {
		remediation = append(remediation, fmt.Sprintf("Available versions: %v", available))
	}
	return NewArgumentError(fmt.Sprintf("no release found matching %q", pattern), remediation...)
}

// ReleaseIndexOutOfRange creates an error for -n outside the release list.
func ReleaseIndexOutOfRange(err error) *CLIError {
	return &CLIError{
		Category:    Argument,
		Message:     err.Error(),
		Cause:       err,
		Remediation: []string{"-n 0 is the newest release, -n -1 the unreleased section"},
	}
}

// InvalidPattern creates an error for a --version regular expression that
// does not compile.
func InvalidPattern(pattern string, err error) *CLIError {
	return &CLIError{
		Category:    Argument,
		Message:     fmt.Sprintf("invalid version pattern %q: %v", pattern, err),
		Cause:       err,
		Remediation: []string{"The pattern is a Go regular expression, e.g. '^1\\.2\\.'"},
	}
}

// NotGitRepository creates an error when generate runs outside a repository.
func NotGitRepository(err error) *CLIError {
	return &CLIError{
		Category: Prerequisite,
		Message:  fmt.Sprintf("not a git repository: %v", err),
		Cause:    err,
		Remediation: []string{
			"Run changelog-gen from inside the project's git repository",
			"Or pass the repository path with --repo-path",
		},
	}
}

// MissingRepo creates an error when the github provider has no repository.
func MissingRepo() *CLIError {
	return NewConfigError(
		"repository is not set for the github provider",
		"Set 'repo: owner/name' in .changelog-gen/config.yml",
		"Or export GITHUB_REPOSITORY=owner/name",
		"Or disable links with 'provider: none'",
	)
}

// CommitRejected creates an error for a commit the classifier refused.
func CommitRejected(err error) *CLIError {
	return &CLIError{
		Category: Validation,
		Message:  err.Error(),
		Cause:    err,
		Remediation: []string{
			"Use conventional commits: type(scope): message",
			"Or switch to 'parsing: smart' to fall back on keyword detection",
			"Add the commit type to the 'map' config to give it a section",
		},
	}
}

// FromError maps an error to a CLIError. CLIErrors are returned unchanged
// and known core errors get tailored remediation.
func FromError(err error) *CLIError {
	if err == nil {
		return nil
	}
	if cliErr := AsCLIError(err); cliErr != nil {
		return cliErr
	}

	var (
		exists   *changelog.VersionExistsError
		notFound *changelog.ReleaseNotFoundError
		invalid  *changelog.InvalidVersionError
	)
	switch {
	case changelog.IsParseError(err):
		return ParseFailed("changelog", err)
	case stderrors.As(err, &exists):
		return VersionExists(exists.Version.String())
	case stderrors.Is(err, changelog.ErrNoVersionAvailable):
		return NoVersion()
	case stderrors.Is(err, changelog.ErrPreviousVersionGreater):
		return VersionOrder(err)
	case stderrors.As(err, &notFound):
		return ReleaseNotFound(notFound.Pattern, notFound.AvailableVersions)
	case stderrors.Is(err, changelog.ErrReleaseOutOfRange):
		return ReleaseIndexOutOfRange(err)
	case stderrors.As(err, &invalid):
		return InvalidVersion(invalid.Text)
	case stderrors.Is(err, commitparse.ErrInvalidSyntax),
		stderrors.Is(err, commitparse.ErrUnknownType),
		stderrors.Is(err, commitparse.ErrUnidentified):
		return CommitRejected(err)
	case stderrors.Is(err, provider.ErrNoProvider):
		return Wrap(err, Configuration, "Set 'provider: github' and 'repo: owner/name' to enable links")
	case stderrors.Is(err, os.ErrNotExist):
		return Wrap(err, Prerequisite, "Check the --file path", "Run 'changelog-gen new' to create a changelog")
	default:
		return Wrap(err, Runtime)
	}
}
