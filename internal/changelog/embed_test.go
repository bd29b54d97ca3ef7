package changelog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTemplate(t *testing.T) {
	content := DefaultTemplate()
	assert.NotEmpty(t, content, "embedded template should not be empty")
	assert.Contains(t, content, "## [Unreleased]")
}

func TestLoadDefault(t *testing.T) {
	tests := map[string]struct {
		assertion func(t *testing.T, c *ChangeLog, err error)
	}{
		"loads without error": {
			assertion: func(t *testing.T, c *ChangeLog, err error) {
				require.NoError(t, err)
				assert.NotNil(t, c)
			},
		},
		"has a header": {
			assertion: func(t *testing.T, c *ChangeLog, err error) {
				require.NoError(t, err)
				assert.Contains(t, c.Header, "# Changelog")
			},
		},
		"has an empty unreleased release": {
			assertion: func(t *testing.T, c *ChangeLog, err error) {
				require.NoError(t, err)
				require.NotNil(t, c.Unreleased)
				assert.Zero(t, c.Unreleased.NoteCount())
				assert.Zero(t, c.Releases.Len())
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			c, err := LoadDefault()
			tt.assertion(t, c, err)
		})
	}
}
