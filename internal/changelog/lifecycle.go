package changelog

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoVersionAvailable is returned by Promote when no version was given
	// and the tag source has none.
	ErrNoVersionAvailable = errors.New("no version provided and no tag to fall back to")
	// ErrVersionAlreadyExists is matched by every VersionExistsError.
	ErrVersionAlreadyExists = errors.New("version already exists")
	// ErrPreviousVersionGreater is matched by every VersionOrderError.
	ErrPreviousVersionGreater = errors.New("previous version is greater than the new version")
	// ErrReleaseOutOfRange is matched by every ReleaseIndexError.
	ErrReleaseOutOfRange = errors.New("release index out of range")
)

// VersionExistsError is returned when promoting onto a stored version.
type VersionExistsError struct {
	Version Version
}

func (e *VersionExistsError) Error() string {
	return fmt.Sprintf("version %s already exists", e.Version)
}

func (e *VersionExistsError) Is(target error) bool {
	return target == ErrVersionAlreadyExists
}

// VersionOrderError is returned when an explicit previous version is
// greater than the version being released.
type VersionOrderError struct {
	Previous Version
	New      Version
}

func (e *VersionOrderError) Error() string {
	return fmt.Sprintf("the new version %s is lower than the previous version %s", e.New, e.Previous)
}

func (e *VersionOrderError) Is(target error) bool {
	return target == ErrPreviousVersionGreater
}

// ReleaseIndexError is returned by NthRelease for an index that does not
// address a release.
type ReleaseIndexError struct {
	Index int
	Count int
}

func (e *ReleaseIndexError) Error() string {
	if e.Count == 0 {
		return fmt.Sprintf("release index %d out of range: no releases", e.Index)
	}
	return fmt.Sprintf("release index %d out of range (valid: -1 to %d)", e.Index, e.Count-1)
}

func (e *ReleaseIndexError) Is(target error) bool {
	return target == ErrReleaseOutOfRange
}

// TagSource supplies the most recent version tag of the repository.
type TagSource interface {
	LastTag() (Version, bool, error)
}

// LinkProvider builds links to a hosted repository.
// DiffLink receives an empty prev when there is no previous version.
type LinkProvider interface {
	ReleaseLink(version string) (string, error)
	DiffLink(prev, next string) (string, error)
}

// LastVersion returns the highest stored version.
func (c *ChangeLog) LastVersion() (Version, bool) {
	v, _, ok := c.Releases.Last()
	return v, ok
}

// UnreleasedOrDefault returns the unreleased release, materializing an
// empty one first if needed.
func (c *ChangeLog) UnreleasedOrDefault() *Release {
	if c.Unreleased == nil {
		c.Unreleased = NewUnreleased()
	}
	return c.Unreleased
}

// NthRelease is a release addressed by index. Version is the zero Version
// for the unreleased release.
type NthRelease struct {
	Index   int
	Version Version
	Release *Release
}

// NthRelease addresses releases from newest to oldest: -1 is the unreleased
// release (materialized when absent), 0 the newest stored release and k the
// k-th older one.
func (c *ChangeLog) NthRelease(n int) (NthRelease, error) {
	if n == -1 {
		return NthRelease{Index: n, Release: c.UnreleasedOrDefault()}, nil
	}

	count := c.Releases.Len()
	if n < -1 || n >= count {
		return NthRelease{}, &ReleaseIndexError{Index: n, Count: count}
	}

	e := c.Releases.entries[count-1-n]
	return NthRelease{Index: n, Version: e.version, Release: e.release}, nil
}

// RemoveNthRelease deletes the release addressed as in NthRelease.
// Removing -1 leaves an empty unreleased release behind.
func (c *ChangeLog) RemoveNthRelease(n int) (NthRelease, error) {
	nth, err := c.NthRelease(n)
	if err != nil {
		return NthRelease{}, err
	}
	if n == -1 {
		c.Unreleased = NewUnreleased()
		return nth, nil
	}
	c.Releases.Delete(nth.Version)
	return nth, nil
}

// AddNote appends note to the named section, creating the section if it
// does not exist. Notes are not deduplicated here; see Sanitize.
func (r *Release) AddNote(section string, note ReleaseSectionNote) {
	sec := r.Sections.GetOrCreate(section)
	sec.Notes = append(sec.Notes, note)
}

// MergeSections appends the notes of every section to the section with the
// same title, creating missing ones in order.
func (r *Release) MergeSections(sections Sections) {
	for _, sec := range sections {
		target := r.Sections.GetOrCreate(sec.Title)
		target.Notes = append(target.Notes, sec.Notes...)
	}
}

// PromoteOptions configures Promote.
type PromoteOptions struct {
	// Version to release. When empty, Tags supplies it.
	Version string
	// PreviousVersion used for the diff link. When empty, the greatest
	// stored version below the new one is used.
	PreviousVersion string
	// Header is prepended as the first line of the release header.
	Header string
	// MergeDevVersions folds releases sharing the new version's
	// major.minor.patch into the new release. It only applies when the
	// new version has no pre-release qualifier.
	MergeDevVersions bool
	// OmitDiff skips the "Full Changelog" footer line.
	OmitDiff bool
	// Force replaces an existing release at the new version.
	Force bool

	Tags     TagSource
	Links    LinkProvider
	Sanitize SanitizeOptions
}

// PromoteResult describes a successful promotion.
type PromoteResult struct {
	Version Version
	// Previous is the version the diff link starts from, zero when none.
	Previous Version
	// Overwritten is set when Force discarded an existing release.
	Overwritten bool
	// Merged lists dev versions folded into the new release, ascending.
	Merged []Version
	// Warnings collects non-fatal link failures.
	Warnings []error
}

// Promote turns the unreleased notes into a release at the new version,
// leaves an empty unreleased release behind and sanitizes the document.
func (c *ChangeLog) Promote(opts PromoteOptions) (*PromoteResult, error) {
	newVersion, err := c.resolveNewVersion(opts)
	if err != nil {
		return nil, err
	}

	var previous Version
	if opts.PreviousVersion != "" {
		previous, err = ParseVersion(opts.PreviousVersion)
		if err != nil {
			return nil, fmt.Errorf("previous version: %w", err)
		}
		if previous.Compare(newVersion) > 0 {
			return nil, &VersionOrderError{Previous: previous, New: newVersion}
		}
	}

	res := &PromoteResult{Version: newVersion}

	if c.Releases.Has(newVersion) {
		if !opts.Force {
			return nil, &VersionExistsError{Version: newVersion}
		}
		c.Releases.Delete(newVersion)
		res.Overwritten = true
	}

	rel := c.UnreleasedOrDefault()
	c.Unreleased = NewUnreleased()

	rel.Title.Version = newVersion.String()

	if opts.Header != "" {
		if rel.Header != "" {
			rel.Header = opts.Header + "\n" + rel.Header
		} else {
			rel.Header = opts.Header
		}
	}

	if opts.Links != nil {
		link, err := opts.Links.ReleaseLink(newVersion.String())
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Errorf("release link: %w", err))
		} else {
			rel.Title.ReleaseLink = link
		}
	}

	if opts.MergeDevVersions && newVersion.Prerelease() == "" {
		dev := c.Releases.Extract(func(v Version, _ *Release) bool {
			return v.SameCore(newVersion)
		})
		for _, d := range dev {
			rel.MergeSections(d.Release.Sections)
			res.Merged = append(res.Merged, d.Version)
		}
	}

	if previous.IsZero() {
		previous, _ = c.Releases.Below(newVersion)
	}
	res.Previous = previous

	if !opts.OmitDiff && opts.Links != nil {
		prev := ""
		if !previous.IsZero() {
			prev = previous.String()
		}
		link, err := opts.Links.DiffLink(prev, newVersion.String())
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Errorf("diff link: %w", err))
		} else {
			appendFooter(rel, "Full Changelog: "+link)
		}
	}

	c.Releases.Set(newVersion, rel)
	c.Sanitize(opts.Sanitize)

	return res, nil
}

func (c *ChangeLog) resolveNewVersion(opts PromoteOptions) (Version, error) {
	if opts.Version != "" {
		return ParseVersion(opts.Version)
	}
	if opts.Tags == nil {
		return Version{}, ErrNoVersionAvailable
	}
	v, ok, err := opts.Tags.LastTag()
	if err != nil {
		return Version{}, fmt.Errorf("looking up last tag: %w", err)
	}
	if !ok {
		return Version{}, ErrNoVersionAvailable
	}
	return v, nil
}

func appendFooter(r *Release, line string) {
	if strings.TrimSpace(r.Footer) == "" {
		r.Footer = line
		return
	}
	r.Footer += "\n\n" + line
}
