package errors

import (
	stderrors "errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/changelog-gen/internal/changelog"
	"github.com/ariel-frischer/changelog-gen/internal/commitparse"
)

func TestFromError(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err          error
		wantCategory ErrorCategory
		wantMessage  string
	}{
		"version exists": {
			err:          &changelog.VersionExistsError{Version: changelog.MustParseVersion("1.2.0")},
			wantCategory: Validation,
			wantMessage:  "version 1.2.0 already exists in the changelog",
		},
		"wrapped version order": {
			err: fmt.Errorf("promoting: %w", &changelog.VersionOrderError{
				Previous: changelog.MustParseVersion("2.0.0"),
				New:      changelog.MustParseVersion("1.0.0"),
			}),
			wantCategory: Validation,
			wantMessage:  "promoting: the new version 1.0.0 is lower than the previous version 2.0.0",
		},
		"no version": {
			err:          changelog.ErrNoVersionAvailable,
			wantCategory: Argument,
			wantMessage:  "no version provided and no version tag found",
		},
		"release not found": {
			err:          &changelog.ReleaseNotFoundError{Pattern: "^9", AvailableVersions: []string{"1.0.0"}},
			wantCategory: Argument,
			wantMessage:  `no release found matching "^9"`,
		},
		"index out of range": {
			err:          &changelog.ReleaseIndexError{Index: 5, Count: 2},
			wantCategory: Argument,
			wantMessage:  "release index 5 out of range (valid: -1 to 1)",
		},
		"invalid version": {
			err:          &changelog.InvalidVersionError{Text: "v1.0"},
			wantCategory: Argument,
			wantMessage:  `invalid version "v1.0"`,
		},
		"rejected commit": {
			err:          fmt.Errorf("commit abc: %w", commitparse.ErrUnknownType),
			wantCategory: Validation,
			wantMessage:  "commit abc: no section for commit type",
		},
		"unknown error": {
			err:          stderrors.New("boom"),
			wantCategory: Runtime,
			wantMessage:  "boom",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := FromError(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantCategory, got.Category)
			assert.Equal(t, tt.wantMessage, got.Message)
		})
	}
}

func TestFromError_KeepsCLIError(t *testing.T) {
	t.Parallel()

	orig := MissingRepo()
	assert.Same(t, orig, FromError(fmt.Errorf("loading: %w", orig)))
	assert.Nil(t, FromError(nil))
}

func TestFromError_UnwrapsCause(t *testing.T) {
	t.Parallel()

	cause := &changelog.VersionOrderError{
		Previous: changelog.MustParseVersion("2.0.0"),
		New:      changelog.MustParseVersion("1.0.0"),
	}
	got := FromError(cause)
	assert.ErrorIs(t, got, changelog.ErrPreviousVersionGreater)
}

func TestParseFailed(t *testing.T) {
	t.Parallel()

	_, err := changelog.Parse("# Changelog\n\n## [not a version]\n")
	require.Error(t, err)

	var pe *changelog.ParseError
	require.ErrorAs(t, err, &pe)

	got := ParseFailed("CHANGELOG.md", err)
	assert.Equal(t, Validation, got.Category)
	assert.Contains(t, got.Message, fmt.Sprintf("CHANGELOG.md:%d:%d:", pe.Line, pe.Column))
	if pe.Near != "" {
		assert.Equal(t, pe.Near+"\n^", got.Snippet)
	}

	out := FormatErrorPlain(got)
	assert.Contains(t, out, "Error [Validation Error]: CHANGELOG.md:")
	assert.Contains(t, out, "To fix this:")
}

func TestWriteFailed(t *testing.T) {
	t.Parallel()

	got := WriteFailed("out/CHANGELOG.md", os.ErrNotExist)
	assert.Equal(t, Runtime, got.Category)
	assert.ErrorIs(t, got, os.ErrNotExist)
	assert.Contains(t, got.Message, "writing out/CHANGELOG.md")
	assert.Contains(t, FormatErrorPlain(got), "Use --stdout to print the result instead")
}

func TestFormatErrorPlain(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err  *CLIError
		want string
	}{
		"message only": {
			err:  NewRuntimeError("boom"),
			want: "Error [Runtime Error]: boom\n",
		},
		"usage and remediation": {
			err:  ChangelogExists("CHANGELOG.md"),
			want: "Error [Argument Error]: CHANGELOG.md already exists\n\nUsage: changelog-gen new --force\n\nTo fix this:\n  • Use --force to overwrite it\n",
		},
		"snippet is indented": {
			err:  &CLIError{Category: Validation, Message: "bad", Snippet: "## [x]\n^"},
			want: "Error [Validation Error]: bad\n\n    ## [x]\n    ^\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, FormatErrorPlain(tt.err))
		})
	}
}

func TestFormatAny(t *testing.T) {
	t.Parallel()

	assert.Empty(t, FormatAny(nil, false))
	assert.Equal(t,
		"Error [Runtime Error]: boom\n",
		FormatAny(stderrors.New("boom"), false))
}
