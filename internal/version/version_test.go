package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShortCommit(t *testing.T) {
	tests := map[string]struct {
		commit string
		want   string
	}{
		"full hash is truncated": {commit: "0123456789abcdef", want: "01234567"},
		"short hash unchanged":   {commit: "abc", want: "abc"},
		"unknown unchanged":      {commit: "unknown", want: "unknown"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			old := Commit
			t.Cleanup(func() { Commit = old })

			Commit = tt.commit
			assert.Equal(t, tt.want, ShortCommit())
		})
	}
}

func TestPlain(t *testing.T) {
	oldVersion, oldCommit := Version, Commit
	t.Cleanup(func() { Version, Commit = oldVersion, oldCommit })

	Version, Commit = "1.4.0", "deadbeefcafe"

	out := Plain()
	assert.Contains(t, out, "changelog-gen 1.4.0\n")
	assert.Contains(t, out, "commit: deadbeefcafe\n")
	assert.Contains(t, out, "go: "+runtime.Version()+"\n")
	assert.False(t, IsDevBuild())
}

func TestFields(t *testing.T) {
	fields := Fields()
	assert.Len(t, fields, 5)
	assert.Equal(t, "Version", fields[0].Label)
	assert.Equal(t, Version, fields[0].Value)
}
