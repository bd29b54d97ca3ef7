package changelog

import (
	"slices"
)

// SanitizeOptions configures Sanitize.
type SanitizeOptions struct {
	// SectionOrder lists section titles that go first, in this order.
	// Other sections keep their relative order after them.
	SectionOrder []string
	// SortScope groups notes sharing a scope into contiguous blocks,
	// largest block first. Notes without a scope go last.
	SortScope bool
}

// Sanitize normalizes the unreleased release and every stored release:
// duplicate notes are collapsed to their first occurrence, notes with an
// empty message and sections without notes are dropped, then sections
// (and optionally notes) are reordered. Afterwards Unreleased is never nil.
func (c *ChangeLog) Sanitize(opts SanitizeOptions) {
	if c.Unreleased != nil {
		c.Unreleased.Sanitize(opts)
	}
	for _, rel := range c.Releases.Ascending() {
		rel.Sanitize(opts)
	}
	if c.Unreleased == nil {
		c.Unreleased = NewUnreleased()
	}
}

// Sanitize applies the release-level steps of ChangeLog.Sanitize.
// A release left without sections keeps its footer text as part of the
// header, which is where parsing places it.
func (r *Release) Sanitize(opts SanitizeOptions) {
	r.Deduplicate()
	r.RemoveEmpty()
	if len(r.Sections) == 0 {
		r.foldFooter()
	}
	r.SortSections(opts.SectionOrder)
	if opts.SortScope {
		for _, sec := range r.Sections {
			sec.GroupByScope()
		}
	}
}

// Deduplicate keeps the first occurrence of every note in each section.
func (r *Release) Deduplicate() {
	for _, sec := range r.Sections {
		var unique []ReleaseSectionNote
		for _, n := range sec.Notes {
			if !slices.ContainsFunc(unique, n.Equal) {
				unique = append(unique, n)
			}
		}
		sec.Notes = unique
	}
}

func (r *Release) foldFooter() {
	switch {
	case r.Footer == "":
		return
	case r.Header == "":
		r.Header = r.Footer
	default:
		r.Header += "\n\n" + r.Footer
	}
	r.Footer = ""
}

// RemoveEmpty drops notes with an empty message, then sections left
// without notes.
func (r *Release) RemoveEmpty() {
	var kept Sections
	for _, sec := range r.Sections {
		sec.Notes = slices.DeleteFunc(sec.Notes, func(n ReleaseSectionNote) bool {
			return n.Message == ""
		})
		if len(sec.Notes) == 0 {
			sec.Notes = nil
			continue
		}
		kept = append(kept, sec)
	}
	r.Sections = kept
}

// SortSections moves the sections named in order to the front, in that
// order. Unnamed sections follow in their current relative order.
func (r *Release) SortSections(order []string) {
	if len(order) == 0 || len(r.Sections) == 0 {
		return
	}

	sorted := make(Sections, 0, len(r.Sections))
	placed := make(map[*ReleaseSection]bool, len(r.Sections))
	for _, title := range order {
		if sec, ok := r.Sections.Get(title); ok && !placed[sec] {
			sorted = append(sorted, sec)
			placed[sec] = true
		}
	}
	for _, sec := range r.Sections {
		if !placed[sec] {
			sorted = append(sorted, sec)
		}
	}
	r.Sections = sorted
}

// GroupByScope reorders notes into blocks sharing a scope. Blocks are
// ordered by descending size, ties by first appearance; scopeless notes
// keep their relative order at the end.
func (s *ReleaseSection) GroupByScope() {
	type block struct {
		scope string
		notes []ReleaseSectionNote
	}

	var (
		blocks    []*block
		byScope   = make(map[string]*block)
		scopeless []ReleaseSectionNote
	)
	for _, n := range s.Notes {
		if n.Scope == "" {
			scopeless = append(scopeless, n)
			continue
		}
		b, ok := byScope[n.Scope]
		if !ok {
			b = &block{scope: n.Scope}
			byScope[n.Scope] = b
			blocks = append(blocks, b)
		}
		b.notes = append(b.notes, n)
	}

	slices.SortStableFunc(blocks, func(a, b *block) int {
		return len(b.notes) - len(a.notes)
	})

	notes := make([]ReleaseSectionNote, 0, len(s.Notes))
	for _, b := range blocks {
		notes = append(notes, b.notes...)
	}
	notes = append(notes, scopeless...)
	if len(notes) == 0 {
		notes = nil
	}
	s.Notes = notes
}
