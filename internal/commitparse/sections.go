package commitparse

import (
	"slices"
	"strings"
	"unicode"
)

// Unidentified is the section used for commits whose type cannot be
// determined in smart mode.
const Unidentified = "Unidentified"

// SectionMap maps changelog section titles to the commit types that feed
// them. Sections keep their insertion order, which doubles as the default
// section order of the changelog.
type SectionMap struct {
	sections []sectionTypes
}

type sectionTypes struct {
	title string
	types []string
}

// DefaultSectionMap returns the built-in commit type mapping.
func DefaultSectionMap() SectionMap {
	var m SectionMap
	m.Add("Fixed", "fix")
	m.Add("Added", "feat")
	m.Add("Changed", "improve", "impr", "refactor", "perf")
	m.Add("Removed", "remove")
	m.Add("Security", "security")
	m.Add("Documentation", "doc", "docs")
	return m
}

// NewSectionMap builds a map from an unordered section → types map.
// Sections listed in order come first; the others follow alphabetically.
func NewSectionMap(types map[string][]string, order []string) SectionMap {
	var m SectionMap
	for _, title := range order {
		if t, ok := types[title]; ok && !m.Has(title) {
			m.Add(title, t...)
		}
	}

	var rest []string
	for title := range types {
		if !m.Has(title) {
			rest = append(rest, title)
		}
	}
	slices.Sort(rest)
	for _, title := range rest {
		m.Add(title, types[title]...)
	}
	return m
}

// Add appends commit types to a section, creating it at the end when
// missing. Types are stored lowercased and without duplicates.
func (m *SectionMap) Add(title string, types ...string) {
	i := m.index(title)
	if i < 0 {
		m.sections = append(m.sections, sectionTypes{title: title})
		i = len(m.sections) - 1
	}
	for _, t := range types {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" && !slices.Contains(m.sections[i].types, t) {
			m.sections[i].types = append(m.sections[i].types, t)
		}
	}
}

// Has reports whether a section with this title exists.
func (m SectionMap) Has(title string) bool {
	return m.index(title) >= 0
}

// Sections returns the section titles in order.
func (m SectionMap) Sections() []string {
	titles := make([]string, len(m.sections))
	for i, s := range m.sections {
		titles[i] = s.title
	}
	return titles
}

// Types returns the commit types of a section.
func (m SectionMap) Types(title string) []string {
	if i := m.index(title); i >= 0 {
		return slices.Clone(m.sections[i].types)
	}
	return nil
}

// Len returns the number of sections.
func (m SectionMap) Len() int { return len(m.sections) }

// Section returns the section fed by a commit type. The lookup ignores case.
func (m SectionMap) Section(commitType string) (string, bool) {
	commitType = strings.ToLower(commitType)
	for _, s := range m.sections {
		if slices.Contains(s.types, commitType) {
			return s.title, true
		}
	}
	return "", false
}

// Search looks for a known commit type among the words of texts and
// returns the section of the first section (in map order) that has a match.
func (m SectionMap) Search(texts ...string) (string, bool) {
	words := make(map[string]struct{})
	for _, text := range texts {
		for _, w := range strings.FieldsFunc(strings.ToLower(text), isWordSeparator) {
			words[w] = struct{}{}
		}
	}

	for _, s := range m.sections {
		for _, t := range s.types {
			if _, ok := words[t]; ok {
				return s.title, true
			}
		}
	}
	return "", false
}

// ToMap returns the mapping as a plain map, for configuration dumps.
func (m SectionMap) ToMap() map[string][]string {
	out := make(map[string][]string, len(m.sections))
	for _, s := range m.sections {
		out[s.title] = slices.Clone(s.types)
	}
	return out
}

func (m SectionMap) index(title string) int {
	return slices.IndexFunc(m.sections, func(s sectionTypes) bool { return s.title == title })
}

func isWordSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
