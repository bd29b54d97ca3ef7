package changelog

import (
	"io"
	"strings"
)

// FormatOptions controls how a changelog is written back to Markdown.
// The zero value writes every release with its title line.
type FormatOptions struct {
	Release ReleaseFormatOptions
}

// ReleaseFormatOptions controls how a single release is written.
type ReleaseFormatOptions struct {
	// OmitTitle skips the "## [version]" line, for showing a bare release.
	OmitTitle bool
}

// Format serializes the changelog in canonical order: header, unreleased,
// releases from newest to oldest, then footer links. Non-empty blocks are
// separated by exactly one blank line. The output is deterministic.
//
// With Release.OmitTitle the unreleased release is left out, since it
// cannot be told apart from the releases without its title.
func Format(c *ChangeLog, opts FormatOptions) string {
	var b strings.Builder

	block := func(text string) {
		if text == "" {
			return
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(text)
	}

	if c.Header != "" {
		block(c.Header + "\n")
	}

	if c.Unreleased != nil && !opts.Release.OmitTitle {
		block(FormatRelease(c.Unreleased, opts.Release))
	}

	for _, rel := range c.Releases.Descending() {
		block(FormatRelease(rel, opts.Release))
	}

	if len(c.FooterLinks) > 0 {
		var links strings.Builder
		for _, link := range c.FooterLinks {
			links.WriteString("[" + link.Text + "]: " + link.Link + "\n")
		}
		block(links.String())
	}

	return b.String()
}

// RenderMarkdown writes Format's output to w.
func RenderMarkdown(c *ChangeLog, w io.Writer, opts FormatOptions) error {
	_, err := io.WriteString(w, Format(c, opts))
	return err
}

// FormatRelease serializes a single release.
func FormatRelease(r *Release, opts ReleaseFormatOptions) string {
	var b strings.Builder
	writeRelease(&b, r, opts)
	return b.String()
}

// FormatNote serializes a single note with its context lines.
func FormatNote(n ReleaseSectionNote) string {
	var b strings.Builder
	writeNote(&b, n)
	return b.String()
}

// FormatTitle renders the "## [version](link) - title" line without a newline.
func FormatTitle(t ReleaseTitle) string {
	s := "## [" + t.Version + "]"
	if t.ReleaseLink != "" {
		s += "(" + t.ReleaseLink + ")"
	}
	if t.Title != "" {
		s += " - " + t.Title
	}
	return s
}

func writeRelease(b *strings.Builder, r *Release, opts ReleaseFormatOptions) {
	wrote := false

	if !opts.OmitTitle {
		b.WriteString(FormatTitle(r.Title))
		b.WriteByte('\n')
		wrote = true
	}

	if r.Header != "" {
		if wrote {
			b.WriteByte('\n')
		}
		b.WriteString(r.Header)
		b.WriteByte('\n')
		wrote = true
	}

	for _, sec := range r.Sections {
		if len(sec.Notes) == 0 {
			continue
		}
		if wrote {
			b.WriteByte('\n')
		}
		wrote = true

		b.WriteString("### " + sec.Title + "\n\n")
		for _, n := range sec.Notes {
			writeNote(b, n)
		}
	}

	if r.Footer != "" {
		if wrote {
			b.WriteByte('\n')
		}
		b.WriteString(r.Footer)
		b.WriteByte('\n')
	}
}

func writeNote(b *strings.Builder, n ReleaseSectionNote) {
	if n.Scope != "" {
		b.WriteString("- " + n.Scope + ": " + n.Message + "\n")
	} else {
		b.WriteString("- " + n.Message + "\n")
	}
	for _, line := range n.Context {
		b.WriteString("  " + line + "\n")
	}
}
