package changelog

// UnreleasedVersion is the reserved title label of the staging release.
const UnreleasedVersion = "Unreleased"

// ChangeLog is the root of a parsed changelog document.
// Optional text fields use the empty string for "absent".
type ChangeLog struct {
	// Header is the free text preceding the first release.
	Header string
	// Unreleased is the staging release, or nil when the document has none.
	Unreleased *Release
	// Releases holds every versioned release in ascending version order.
	Releases Releases
	// FooterLinks are the reference-style links at the end of the document.
	FooterLinks []FooterLink
}

// Release is a single "## [version]" block.
type Release struct {
	Title    ReleaseTitle
	Header   string
	Sections Sections
	Footer   string
}

// ReleaseTitle is the parsed "## [version](link) - title" line.
type ReleaseTitle struct {
	Version     string
	ReleaseLink string
	Title       string
}

// ReleaseSection is a "### Title" block with its notes.
type ReleaseSection struct {
	Title string
	Notes []ReleaseSectionNote
}

// ReleaseSectionNote is a single "- scope: message" bullet.
// Context holds the indented continuation lines, trimmed.
type ReleaseSectionNote struct {
	Scope   string
	Message string
	Context []string
}

// FooterLink is a "[text]: link" reference definition.
type FooterLink struct {
	Text string
	Link string
}

// New returns a changelog holding an empty unreleased release and nothing else.
func New() *ChangeLog {
	return &ChangeLog{Unreleased: NewUnreleased()}
}

// NewUnreleased returns an empty release titled with UnreleasedVersion.
func NewUnreleased() *Release {
	return &Release{Title: ReleaseTitle{Version: UnreleasedVersion}}
}

// IsUnreleased reports whether the release carries the reserved label.
func (r *Release) IsUnreleased() bool {
	return r.Title.Version == UnreleasedVersion
}

// NoteCount returns the number of notes across all sections.
func (r *Release) NoteCount() int {
	n := 0
	for _, s := range r.Sections {
		n += len(s.Notes)
	}
	return n
}

// Equal compares the full (scope, message, context) tuple.
func (n ReleaseSectionNote) Equal(other ReleaseSectionNote) bool {
	if n.Scope != other.Scope || n.Message != other.Message {
		return false
	}
	if len(n.Context) != len(other.Context) {
		return false
	}
	for i := range n.Context {
		if n.Context[i] != other.Context[i] {
			return false
		}
	}
	return true
}

// Sections is an insertion-ordered collection of sections keyed by title.
type Sections []*ReleaseSection

// Get returns the section with the given title.
func (s Sections) Get(title string) (*ReleaseSection, bool) {
	for _, sec := range s {
		if sec.Title == title {
			return sec, true
		}
	}
	return nil, false
}

// GetOrCreate returns the section with the given title, appending an
// empty one when it does not exist yet.
func (s *Sections) GetOrCreate(title string) *ReleaseSection {
	if sec, ok := s.Get(title); ok {
		return sec
	}
	sec := &ReleaseSection{Title: title}
	*s = append(*s, sec)
	return sec
}

// Put stores sec under its title. An existing section with the same title
// is replaced in place, keeping its position.
func (s *Sections) Put(sec *ReleaseSection) {
	for i, existing := range *s {
		if existing.Title == sec.Title {
			(*s)[i] = sec
			return
		}
	}
	*s = append(*s, sec)
}

// Titles returns the section titles in order.
func (s Sections) Titles() []string {
	titles := make([]string, len(s))
	for i, sec := range s {
		titles[i] = sec.Title
	}
	return titles
}
