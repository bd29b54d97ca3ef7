package changelog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ParseError describes where the document stopped matching the grammar.
// Line and Column are 1-based; Offset counts runes from the start.
type ParseError struct {
	Line    int
	Column  int
	Offset  int
	Near    string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "parse error at line %d, column %d: %s", e.Line, e.Column, e.Message)
	if e.Near != "" {
		fmt.Fprintf(&b, " (near %q)", e.Near)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsParseError returns true if the error is a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// Parse turns changelog text into a ChangeLog. The whole document must
// match; there is no partial result.
//
// A release titled exactly UnreleasedVersion goes to the Unreleased slot
// instead of the version map (the last such release wins). Every other
// release title must hold a valid Version. When two releases share a
// version, the later one wins.
func Parse(text string) (*ChangeLog, error) {
	g := grammar{in: []rune(text)}

	doc, pos, ok := g.document()
	if !ok {
		return nil, g.errorAt(g.span(pos, whitespace, true),
			"section must follow a release title or another section", nil)
	}

	c := &ChangeLog{
		Header:      doc.header,
		FooterLinks: doc.footerLinks,
	}

	for _, rel := range doc.releases {
		if rel.IsUnreleased() {
			c.Unreleased = rel
			continue
		}
		v, err := ParseVersion(rel.Title.Version)
		if err != nil {
			return nil, g.errorAt(g.titlePosition(rel.Title.Version),
				fmt.Sprintf("release %q", rel.Title.Version), err)
		}
		c.Releases.Set(v, rel)
	}

	return c, nil
}

// Load reads and parses a changelog file from the given path.
func Load(path string) (*ChangeLog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening changelog file: %w", err)
	}
	defer f.Close()

	return LoadFromReader(f)
}

// LoadFromReader reads and parses a changelog from an io.Reader.
func LoadFromReader(r io.Reader) (*ChangeLog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading changelog: %w", err)
	}

	c, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("parsing changelog: %w", err)
	}
	return c, nil
}

func (g grammar) errorAt(pos int, msg string, cause error) *ParseError {
	line, col := 1, 1
	for _, r := range g.in[:pos] {
		if r == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}

	end := min(g.span(pos, "\n", false), pos+40)
	near := string(g.in[pos:end])

	return &ParseError{
		Line:    line,
		Column:  col,
		Offset:  pos,
		Near:    near,
		Message: msg,
		Err:     cause,
	}
}

// titlePosition finds the title line holding version, for error reporting.
func (g grammar) titlePosition(version string) int {
	for p := range g.in {
		if title, _, ok := g.releaseTitle(p); ok && title.Version == version {
			return p
		}
	}
	return 0
}
