package commitparse

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors returned by Classify.
var (
	ErrInvalidSyntax = errors.New("invalid commit syntax")
	ErrUnknownType   = errors.New("no section for commit type")
	ErrUnidentified  = errors.New("unidentified commit type")
)

// Parsing selects how strictly commit messages must follow the
// conventional-commit format.
type Parsing string

const (
	// Smart falls back to a keyword search when the header does not parse
	// or its type is unknown.
	Smart Parsing = "smart"
	// Strict rejects any commit that is not a conventional commit with a
	// known type.
	Strict Parsing = "strict"
)

// ParseParsing validates a parsing mode name.
func ParseParsing(s string) (Parsing, error) {
	switch p := Parsing(strings.ToLower(s)); p {
	case Smart, Strict:
		return p, nil
	case "":
		return Smart, nil
	default:
		return "", fmt.Errorf("invalid parsing mode %q (valid: smart, strict)", s)
	}
}

// Classification is the outcome of classifying a commit.
type Classification struct {
	Section  string
	Type     string
	Scope    string
	Message  string
	Breaking bool
}

// Classifier maps commits to changelog sections.
type Classifier struct {
	Map                 SectionMap
	Parsing             Parsing
	ExcludeUnidentified bool
}

// NewClassifier returns a smart classifier over the default section map.
func NewClassifier() *Classifier {
	return &Classifier{Map: DefaultSectionMap(), Parsing: Smart}
}

// Classify determines the section, scope and message of a commit from its
// title and body.
func (c *Classifier) Classify(title, body string) (Classification, error) {
	title = strings.TrimSpace(title)

	h, err := ParseHeader(title)
	if err != nil {
		if c.Parsing == Strict {
			return Classification{}, err
		}
		return c.fallback(title, body)
	}

	section, ok := c.Map.Section(h.Type)
	if !ok {
		if c.Parsing == Strict {
			return Classification{}, fmt.Errorf("%w: %s", ErrUnknownType, h.Type)
		}
		fb, err := c.fallback(title, body)
		if err != nil {
			return Classification{}, err
		}
		section = fb.Section
	}

	return Classification{
		Section:  section,
		Type:     h.Type,
		Scope:    h.Scope,
		Message:  h.Message,
		Breaking: h.Breaking,
	}, nil
}

// fallback searches title and body for a known commit type and keeps the
// whole title as the message.
func (c *Classifier) fallback(title, body string) (Classification, error) {
	section, ok := c.Map.Search(title, body)
	if !ok {
		if c.ExcludeUnidentified {
			return Classification{}, ErrUnidentified
		}
		section = Unidentified
	}
	return Classification{Section: section, Message: title}, nil
}
