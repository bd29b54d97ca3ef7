package changelog

import (
	"strings"
)

// grammar holds the input of a single parse. Every rule is a method taking
// a start position and returning its value, the position after the match
// and whether it matched. Rules never mutate the grammar, so any rule can
// be retried from an earlier position (backtracking) or used as a
// lookahead without side effects.
//
// Repetitions are greedy and never backtrack into themselves, and an
// optional element that matched stays matched even when the rest of the
// sequence fails.
type grammar struct {
	in []rune
}

const (
	whitespace = " \t\r\n"
	blankLine  = " \n"
)

func (g grammar) lit(pos int, s string) (int, bool) {
	for _, r := range s {
		if pos >= len(g.in) || g.in[pos] != r {
			return pos, false
		}
		pos++
	}
	return pos, true
}

// span consumes runes while in(set) == want and returns the end position.
func (g grammar) span(pos int, set string, want bool) int {
	for pos < len(g.in) && strings.ContainsRune(set, g.in[pos]) == want {
		pos++
	}
	return pos
}

// noneOf matches one or more runes outside set.
func (g grammar) noneOf(pos int, set string) (int, bool) {
	end := g.span(pos, set, false)
	return end, end > pos
}

// oneOf matches exactly one rune from set.
func (g grammar) oneOf(pos int, set string) (int, bool) {
	if pos < len(g.in) && strings.ContainsRune(set, g.in[pos]) {
		return pos + 1, true
	}
	return pos, false
}

// text returns the trimmed input between start and end.
func (g grammar) text(start, end int) string {
	return strings.TrimSpace(string(g.in[start:end]))
}

// releaseTitle := "## [" [^\n\]]+ "]" ("(" [^\n)]+ ")")? (" - " [^\n\]]+)?
//
// The trailing newline is not part of the title.
func (g grammar) releaseTitle(pos int) (ReleaseTitle, int, bool) {
	var title ReleaseTitle

	p, ok := g.lit(pos, "## [")
	if !ok {
		return title, pos, false
	}
	end, ok := g.noneOf(p, "\n]")
	if !ok {
		return title, pos, false
	}
	title.Version = g.text(p, end)
	if p, ok = g.lit(end, "]"); !ok {
		return title, pos, false
	}

	if q, ok := g.lit(p, "("); ok {
		if end, ok := g.noneOf(q, "\n)"); ok {
			if after, ok := g.lit(end, ")"); ok {
				title.ReleaseLink = g.text(q, end)
				p = after
			}
		}
	}

	if q, ok := g.lit(p, " - "); ok {
		if end, ok := g.noneOf(q, "\n]"); ok {
			title.Title = g.text(q, end)
			p = end
		}
	}

	return title, p, true
}

// note := [ \n]* "- " (scope ":")? [^\n]+ "\n" context*
// scope := [^ \t\r`:\n]+
// context := [ \t] [^\n]+ "\n"
func (g grammar) note(pos int) (ReleaseSectionNote, int, bool) {
	var note ReleaseSectionNote

	p, ok := g.lit(g.span(pos, blankLine, true), "- ")
	if !ok {
		return note, pos, false
	}

	if end, ok := g.noneOf(p, " \t\r`:\n"); ok {
		if after, ok := g.lit(end, ":"); ok {
			note.Scope = g.text(p, end)
			p = after
		}
	}

	end, ok := g.noneOf(p, "\n")
	if !ok {
		return note, pos, false
	}
	note.Message = g.text(p, end)
	if p, ok = g.lit(end, "\n"); !ok {
		return note, pos, false
	}

	for {
		q, ok := g.oneOf(p, " \t")
		if !ok {
			break
		}
		end, ok := g.noneOf(q, "\n")
		if !ok {
			break
		}
		after, ok := g.lit(end, "\n")
		if !ok {
			break
		}
		note.Context = append(note.Context, g.text(q, end))
		p = after
	}

	return note, p, true
}

// section := ws* "### " [^\n]+ "\n" ws* note*
func (g grammar) section(pos int) (*ReleaseSection, int, bool) {
	p, ok := g.lit(g.span(pos, whitespace, true), "### ")
	if !ok {
		return nil, pos, false
	}
	end, ok := g.noneOf(p, "\n")
	if !ok {
		return nil, pos, false
	}
	sec := &ReleaseSection{Title: g.text(p, end)}
	if p, ok = g.lit(end, "\n"); !ok {
		return nil, pos, false
	}
	p = g.span(p, whitespace, true)

	for {
		note, next, ok := g.note(p)
		if !ok || next == p {
			break
		}
		sec.Notes = append(sec.Notes, note)
		p = next
	}

	return sec, p, true
}

// releaseText consumes free text up to the next title, section or
// trailing footer-link block.
func (g grammar) releaseText(pos int) (string, int) {
	p := pos
	for p < len(g.in) {
		if _, _, ok := g.releaseTitle(p); ok {
			break
		}
		if _, _, ok := g.section(p); ok {
			break
		}
		if _, _, ok := g.footerLinks(p); ok {
			break
		}
		p++
	}
	return g.text(pos, p), p
}

// release := releaseTitle releaseText section* releaseText
func (g grammar) release(pos int) (*Release, int, bool) {
	title, p, ok := g.releaseTitle(pos)
	if !ok {
		return nil, pos, false
	}
	rel := &Release{Title: title}

	rel.Header, p = g.releaseText(p)

	for {
		sec, next, ok := g.section(p)
		if !ok || next == p {
			break
		}
		rel.Sections.Put(sec)
		p = next
	}

	rel.Footer, p = g.releaseText(p)

	return rel, p, true
}

// footerLink := "[" [^\n\]]+ "]: " [^\n]+ "\n"
func (g grammar) footerLink(pos int) (FooterLink, int, bool) {
	var link FooterLink

	p, ok := g.lit(pos, "[")
	if !ok {
		return link, pos, false
	}
	end, ok := g.noneOf(p, "\n]")
	if !ok {
		return link, pos, false
	}
	link.Text = g.text(p, end)
	if p, ok = g.lit(end, "]: "); !ok {
		return link, pos, false
	}
	if end, ok = g.noneOf(p, "\n"); !ok {
		return link, pos, false
	}
	link.Link = g.text(p, end)
	if p, ok = g.lit(end, "\n"); !ok {
		return link, pos, false
	}
	return link, p, true
}

// footerLinks := ws* footerLink* ws* EOF
func (g grammar) footerLinks(pos int) ([]FooterLink, int, bool) {
	var links []FooterLink

	p := g.span(pos, whitespace, true)
	for {
		link, next, ok := g.footerLink(p)
		if !ok {
			break
		}
		links = append(links, link)
		p = next
	}
	p = g.span(p, whitespace, true)

	if p != len(g.in) {
		return nil, p, false
	}
	return links, p, true
}

// header consumes the document preamble up to the first release title.
// A release always matches once its title does, so checking the title
// alone is enough.
func (g grammar) header(pos int) (string, int) {
	p := pos
	for p < len(g.in) {
		if _, _, ok := g.releaseTitle(p); ok {
			break
		}
		p++
	}
	return g.text(pos, p), p
}

// document := header release* footerLinks
//
// On failure it returns the position where the trailing footer-link block
// was expected.
func (g grammar) document() (*document, int, bool) {
	doc := &document{}

	var p int
	doc.header, p = g.header(0)

	for {
		rel, next, ok := g.release(p)
		if !ok || next == p {
			break
		}
		doc.releases = append(doc.releases, rel)
		p = next
	}

	links, _, ok := g.footerLinks(p)
	if !ok {
		return nil, p, false
	}
	doc.footerLinks = links

	return doc, len(g.in), true
}

// document is the raw grammar output before versions are resolved.
type document struct {
	header      string
	releases    []*Release
	footerLinks []FooterLink
}
