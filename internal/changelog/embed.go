package changelog

import (
	_ "embed"
	"fmt"
)

//go:embed default_changelog.md
var defaultChangelog string

// DefaultTemplate returns the raw text written by "changelog-gen new".
// It is embedded at build time.
func DefaultTemplate() string {
	return defaultChangelog
}

// LoadDefault parses the embedded template.
func LoadDefault() (*ChangeLog, error) {
	if defaultChangelog == "" {
		return nil, fmt.Errorf("embedded changelog template is empty (binary may have been built without embedded content)")
	}
	return Parse(defaultChangelog)
}
