package changelog

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		changelog func() *ChangeLog
		opts      FormatOptions
		want      string
	}{
		"empty changelog": {
			changelog: func() *ChangeLog { return &ChangeLog{} },
			want:      "",
		},
		"new changelog": {
			changelog: New,
			want:      "## [Unreleased]\n",
		},
		"releases newest first": {
			changelog: func() *ChangeLog {
				c := &ChangeLog{Header: "# Changelog"}
				for _, v := range []string{"0.2.0", "0.10.0", "0.1.0"} {
					c.Releases.Set(MustParseVersion(v), &Release{Title: ReleaseTitle{Version: v}})
				}
				return c
			},
			want: "# Changelog\n\n## [0.10.0]\n\n## [0.2.0]\n\n## [0.1.0]\n",
		},
		"title with link and suffix": {
			changelog: func() *ChangeLog {
				c := &ChangeLog{}
				c.Releases.Set(MustParseVersion("1.0.0"), &Release{Title: ReleaseTitle{
					Version:     "1.0.0",
					ReleaseLink: "https://example.com/1.0.0",
					Title:       "2024-01-01",
				}})
				return c
			},
			want: "## [1.0.0](https://example.com/1.0.0) - 2024-01-01\n",
		},
		"empty sections are skipped": {
			changelog: func() *ChangeLog {
				c := New()
				c.Unreleased.Sections.GetOrCreate("Removed")
				c.Unreleased.AddNote("Fixed", ReleaseSectionNote{Message: "bug"})
				return c
			},
			want: "## [Unreleased]\n\n### Fixed\n\n- bug\n",
		},
		"footer links close the document": {
			changelog: func() *ChangeLog {
				c := New()
				c.FooterLinks = []FooterLink{{Text: "Unreleased", Link: "https://example.com/compare/HEAD"}}
				return c
			},
			want: "## [Unreleased]\n\n[Unreleased]: https://example.com/compare/HEAD\n",
		},
		"omit title": {
			changelog: func() *ChangeLog {
				c := &ChangeLog{}
				rel := &Release{Title: ReleaseTitle{Version: "1.0.0"}, Header: "Intro", Footer: "Outro"}
				rel.AddNote("Added", ReleaseSectionNote{Scope: "cli", Message: "flag", Context: []string{"details"}})
				c.Releases.Set(MustParseVersion("1.0.0"), rel)
				return c
			},
			opts: FormatOptions{Release: ReleaseFormatOptions{OmitTitle: true}},
			want: "Intro\n\n### Added\n\n- cli: flag\n  details\n\nOutro\n",
		},
		"omit title skips unreleased and empty releases": {
			changelog: func() *ChangeLog {
				c, err := Parse("# H\n\n## [Unreleased]\n\n### Fixed\n\n- pending\n\n## [1.1.0]\n\n## [1.0.0]\n\n### Added\n\n- a\n")
				if err != nil {
					panic(err)
				}
				return c
			},
			opts: FormatOptions{Release: ReleaseFormatOptions{OmitTitle: true}},
			want: "# H\n\n### Added\n\n- a\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			c := tt.changelog()
			got := Format(c, tt.opts)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, Format(c, tt.opts), "formatting must be deterministic")
		})
	}
}

func TestFormatRelease(t *testing.T) {
	t.Parallel()

	r := &Release{Title: ReleaseTitle{Version: "1.0.0"}}
	r.AddNote("Added", ReleaseSectionNote{Message: "a"})

	assert.Equal(t, "### Added\n\n- a\n", FormatRelease(r, ReleaseFormatOptions{OmitTitle: true}))
	assert.Equal(t, "## [1.0.0]\n\n### Added\n\n- a\n", FormatRelease(r, ReleaseFormatOptions{}))
}

func TestFormatNote(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		note ReleaseSectionNote
		want string
	}{
		"message only":  {note: ReleaseSectionNote{Message: "m"}, want: "- m\n"},
		"scope":         {note: ReleaseSectionNote{Scope: "s", Message: "m"}, want: "- s: m\n"},
		"context lines": {note: ReleaseSectionNote{Message: "m", Context: []string{"a", "b"}}, want: "- m\n  a\n  b\n"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, FormatNote(tt.note))
		})
	}
}

func TestRenderMarkdown(t *testing.T) {
	t.Parallel()

	c, err := Parse(fullChangelog)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, RenderMarkdown(c, &buf, FormatOptions{}))
	assert.Equal(t, fullChangelog, buf.String())
}
