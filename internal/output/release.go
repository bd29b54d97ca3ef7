package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/ariel-frischer/changelog-gen/internal/changelog"
)

// SectionStyle defines the color and icon for a release section.
type SectionStyle struct {
	Color *color.Color
	Icon  string
}

// sectionStyles maps lowercased Keep a Changelog section titles to their
// terminal styling. Other titles use defaultSectionStyle.
var sectionStyles = map[string]SectionStyle{
	"added":         {Color: color.New(color.FgGreen), Icon: "✓"},
	"changed":       {Color: color.New(color.FgBlue), Icon: "~"},
	"deprecated":    {Color: color.New(color.FgRed), Icon: "⚠"},
	"removed":       {Color: color.New(color.FgRed), Icon: "✗"},
	"fixed":         {Color: color.New(color.FgYellow), Icon: "⚡"},
	"security":      {Color: color.New(color.FgMagenta), Icon: "🔒"},
	"documentation": {Color: color.New(color.FgCyan), Icon: "✎"},
}

var defaultSectionStyle = SectionStyle{Color: color.New(color.FgWhite), Icon: "•"}

// ReleaseOptions controls the terminal rendering of releases.
type ReleaseOptions struct {
	Plain    bool // Disable colors and icons
	MaxWidth int  // Maximum line width (0 = auto-detect)
}

// StyleFor returns the style used for a section title.
func StyleFor(title string) SectionStyle {
	if style, ok := sectionStyles[strings.ToLower(title)]; ok {
		return style
	}
	return defaultSectionStyle
}

// WriteReleases writes releases with terminal styling, separated by a blank line.
func WriteReleases(w io.Writer, releases []changelog.NthRelease, opts ReleaseOptions) error {
	for i, r := range releases {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if err := WriteRelease(w, r.Release, opts); err != nil {
			return fmt.Errorf("writing release %s: %w", r.Release.Title.Version, err)
		}
	}
	return nil
}

// WriteRelease writes a single release with a bold title and color-coded
// section headers.
func WriteRelease(w io.Writer, r *changelog.Release, opts ReleaseOptions) error {
	width := opts.MaxWidth
	if width <= 0 {
		width = GetTerminalWidth()
	}

	if err := writeReleaseTitle(w, r.Title, opts); err != nil {
		return fmt.Errorf("writing title: %w", err)
	}

	if r.Header != "" {
		if _, err := fmt.Fprintf(w, "\n%s\n", r.Header); err != nil {
			return err
		}
	}

	for _, sec := range r.Sections {
		if len(sec.Notes) == 0 {
			continue
		}
		if err := writeSection(w, sec, opts, width); err != nil {
			return err
		}
	}

	if r.Footer != "" {
		if _, err := fmt.Fprintf(w, "\n%s\n", r.Footer); err != nil {
			return err
		}
	}

	return nil
}

func writeReleaseTitle(w io.Writer, t changelog.ReleaseTitle, opts ReleaseOptions) error {
	header := t.Version
	if t.Version != changelog.UnreleasedVersion {
		header = "v" + t.Version
	}
	if t.Title != "" {
		header += " (" + t.Title + ")"
	}

	if opts.Plain {
		_, err := fmt.Fprintf(w, "## %s\n", header)
		return err
	}

	bold := color.New(color.Bold).SprintFunc()
	_, err := fmt.Fprintf(w, "## %s\n", bold(header))
	return err
}

func writeSection(w io.Writer, sec *changelog.ReleaseSection, opts ReleaseOptions, width int) error {
	style := StyleFor(sec.Title)

	if opts.Plain {
		if _, err := fmt.Fprintf(w, "\n### %s\n", sec.Title); err != nil {
			return err
		}
	} else {
		colored := style.Color.SprintFunc()
		if _, err := fmt.Fprintf(w, "\n%s %s\n", colored(style.Icon), colored(sec.Title)); err != nil {
			return err
		}
	}

	for _, n := range sec.Notes {
		if err := writeNote(w, n, style, opts, width); err != nil {
			return err
		}
	}
	return nil
}

func writeNote(w io.Writer, n changelog.ReleaseSectionNote, style SectionStyle, opts ReleaseOptions, width int) error {
	prefix := "  - "
	text := n.Message
	if n.Scope != "" {
		text = n.Scope + ": " + n.Message
	}

	if opts.Plain {
		if _, err := fmt.Fprintf(w, "%s%s\n", prefix, text); err != nil {
			return err
		}
	} else {
		wrapped := wrapText(text, width-len(prefix), "    ")
		if _, err := fmt.Fprintf(w, "%s%s\n", prefix, style.Color.Sprint(wrapped)); err != nil {
			return err
		}
	}

	for _, line := range n.Context {
		if _, err := fmt.Fprintf(w, "    %s\n", line); err != nil {
			return err
		}
	}
	return nil
}

// wrapText wraps text to fit within maxWidth, using indent for continuation lines.
func wrapText(text string, maxWidth int, indent string) string {
	if maxWidth <= 0 || len(text) <= maxWidth {
		return text
	}

	var lines []string
	remaining := text

	for len(remaining) > maxWidth {
		breakPoint := maxWidth
		for i := maxWidth - 1; i > 0; i-- {
			if remaining[i] == ' ' {
				breakPoint = i
				break
			}
		}

		lines = append(lines, remaining[:breakPoint])
		remaining = strings.TrimLeft(remaining[breakPoint:], " ")
	}

	if len(remaining) > 0 {
		lines = append(lines, remaining)
	}

	return strings.Join(lines, "\n"+indent)
}

// Summary returns a one-line description of a release for listings.
func Summary(r changelog.NthRelease, opts ReleaseOptions) string {
	label := r.Release.Title.Version
	count := r.Release.NoteCount()
	text := fmt.Sprintf("[%d] %s (%d notes)", r.Index, label, count)
	if opts.Plain {
		return text
	}
	cyan := color.New(color.FgCyan).SprintFunc()
	return fmt.Sprintf("%s %s (%d notes)", cyan(fmt.Sprintf("[%d]", r.Index)), label, count)
}
