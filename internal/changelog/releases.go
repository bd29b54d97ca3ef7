package changelog

import (
	"iter"
	"slices"
)

type releaseEntry struct {
	version Version
	release *Release
}

// Releases maps versions to releases, kept sorted in ascending version
// order with unique keys. The zero value is an empty map.
type Releases struct {
	entries []releaseEntry
}

func (rs *Releases) search(v Version) (int, bool) {
	return slices.BinarySearchFunc(rs.entries, v, func(e releaseEntry, target Version) int {
		return e.version.Compare(target)
	})
}

// Len returns the number of stored releases.
func (rs *Releases) Len() int {
	return len(rs.entries)
}

// Get returns the release stored at v.
func (rs *Releases) Get(v Version) (*Release, bool) {
	i, found := rs.search(v)
	if !found {
		return nil, false
	}
	return rs.entries[i].release, true
}

// Has reports whether a release is stored at v.
func (rs *Releases) Has(v Version) bool {
	_, found := rs.search(v)
	return found
}

// Set stores r at v, replacing any release already there.
// It reports whether a previous release was replaced.
func (rs *Releases) Set(v Version, r *Release) bool {
	i, found := rs.search(v)
	if found {
		rs.entries[i] = releaseEntry{version: v, release: r}
		return true
	}
	rs.entries = slices.Insert(rs.entries, i, releaseEntry{version: v, release: r})
	return false
}

// Delete removes the release stored at v and returns it.
func (rs *Releases) Delete(v Version) (*Release, bool) {
	i, found := rs.search(v)
	if !found {
		return nil, false
	}
	r := rs.entries[i].release
	rs.entries = slices.Delete(rs.entries, i, i+1)
	if len(rs.entries) == 0 {
		rs.entries = nil
	}
	return r, true
}

// Last returns the highest version and its release.
func (rs *Releases) Last() (Version, *Release, bool) {
	if len(rs.entries) == 0 {
		return Version{}, nil, false
	}
	e := rs.entries[len(rs.entries)-1]
	return e.version, e.release, true
}

// Versions returns the stored versions in ascending order.
func (rs *Releases) Versions() []Version {
	versions := make([]Version, len(rs.entries))
	for i, e := range rs.entries {
		versions[i] = e.version
	}
	return versions
}

// Ascending iterates from the oldest to the newest release.
func (rs *Releases) Ascending() iter.Seq2[Version, *Release] {
	return func(yield func(Version, *Release) bool) {
		for _, e := range rs.entries {
			if !yield(e.version, e.release) {
				return
			}
		}
	}
}

// Descending iterates from the newest to the oldest release.
func (rs *Releases) Descending() iter.Seq2[Version, *Release] {
	return func(yield func(Version, *Release) bool) {
		for i := len(rs.entries) - 1; i >= 0; i-- {
			if !yield(rs.entries[i].version, rs.entries[i].release) {
				return
			}
		}
	}
}

// Below returns the greatest stored version strictly lower than v.
func (rs *Releases) Below(v Version) (Version, bool) {
	i, _ := rs.search(v)
	if i == 0 {
		return Version{}, false
	}
	return rs.entries[i-1].version, true
}

// ExtractedRelease is a release removed by Extract.
type ExtractedRelease struct {
	Version Version
	Release *Release
}

// Extract removes every release for which match returns true and returns
// them in ascending version order.
func (rs *Releases) Extract(match func(Version, *Release) bool) []ExtractedRelease {
	var extracted []ExtractedRelease
	kept := rs.entries[:0]
	for _, e := range rs.entries {
		if match(e.version, e.release) {
			extracted = append(extracted, ExtractedRelease{Version: e.version, Release: e.release})
			continue
		}
		kept = append(kept, e)
	}
	clear(rs.entries[len(kept):])
	rs.entries = kept
	if len(rs.entries) == 0 {
		rs.entries = nil
	}
	return extracted
}
