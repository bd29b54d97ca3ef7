package changelog

import (
	"fmt"
	"regexp"
	"strings"
)

// ReleaseNotFoundError is returned when no release matches a version pattern.
type ReleaseNotFoundError struct {
	Pattern           string
	AvailableVersions []string
}

func (e *ReleaseNotFoundError) Error() string {
	if len(e.AvailableVersions) == 0 {
		return fmt.Sprintf("no release matches %q (changelog has no releases)", e.Pattern)
	}
	return fmt.Sprintf("no release matches %q (available: %s)",
		e.Pattern, strings.Join(e.AvailableVersions, ", "))
}

// All returns the unreleased release (if any) followed by stored releases
// from newest to oldest, each with its NthRelease index.
func (c *ChangeLog) All() []NthRelease {
	all := make([]NthRelease, 0, c.Releases.Len()+1)
	if c.Unreleased != nil {
		all = append(all, NthRelease{Index: -1, Release: c.Unreleased})
	}
	i := 0
	for v, rel := range c.Releases.Descending() {
		all = append(all, NthRelease{Index: i, Version: v, Release: rel})
		i++
	}
	return all
}

// ListVersions returns the title of every release in All order.
func (c *ChangeLog) ListVersions() []string {
	all := c.All()
	versions := make([]string, len(all))
	for i, r := range all {
		versions[i] = r.Release.Title.Version
	}
	return versions
}

// MatchReleases returns the releases whose title version matches re, in
// All order. It returns a ReleaseNotFoundError when nothing matches.
func (c *ChangeLog) MatchReleases(re *regexp.Regexp) ([]NthRelease, error) {
	var matched []NthRelease
	for _, r := range c.All() {
		if re.MatchString(r.Release.Title.Version) {
			matched = append(matched, r)
		}
	}
	if len(matched) == 0 {
		return nil, &ReleaseNotFoundError{Pattern: re.String(), AvailableVersions: c.ListVersions()}
	}
	return matched, nil
}

// RemoveMatching deletes every stored release whose title version matches
// re and returns the removed versions in ascending order. The unreleased
// release is never removed this way.
func (c *ChangeLog) RemoveMatching(re *regexp.Regexp) []Version {
	removed := c.Releases.Extract(func(_ Version, r *Release) bool {
		return re.MatchString(r.Title.Version)
	})
	versions := make([]Version, len(removed))
	for i, r := range removed {
		versions[i] = r.Version
	}
	return versions
}

// Stats summarizes a changelog for display.
type Stats struct {
	Releases      int
	Notes         int
	HasUnreleased bool
	Latest        string
}

// Stats counts releases and notes.
func (c *ChangeLog) Stats() Stats {
	s := Stats{Releases: c.Releases.Len(), HasUnreleased: c.Unreleased != nil}
	if c.Unreleased != nil {
		s.Notes += c.Unreleased.NoteCount()
	}
	for _, rel := range c.Releases.Ascending() {
		s.Notes += rel.NoteCount()
	}
	if _, rel, ok := c.Releases.Last(); ok {
		s.Latest = rel.Title.Version
	}
	return s
}
