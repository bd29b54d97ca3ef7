package changelog

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangeLog_All(t *testing.T) {
	t.Parallel()

	c := stagedChangelog(t, "0.1.0", "0.2.0")

	all := c.All()
	require.Len(t, all, 3)
	assert.Equal(t, -1, all[0].Index)
	assert.Equal(t, 0, all[1].Index)
	assert.Equal(t, "0.2.0", all[1].Version.String())
	assert.Equal(t, []string{"Unreleased", "0.2.0", "0.1.0"}, c.ListVersions())
}

func TestChangeLog_MatchReleases(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		pattern string
		want    []string
		wantErr bool
	}{
		"minor line":      {pattern: `^0\.2\.`, want: []string{"0.2.1", "0.2.0"}},
		"unreleased":      {pattern: `^Unreleased$`, want: []string{"Unreleased"}},
		"prerelease only": {pattern: `-rc`, want: []string{"0.3.0-rc.1"}},
		"no match":        {pattern: `^9\.`, wantErr: true},
		"everything":      {pattern: `.`, want: []string{"Unreleased", "0.3.0-rc.1", "0.2.1", "0.2.0", "0.1.0"}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			c := stagedChangelog(t, "0.1.0", "0.2.0", "0.2.1", "0.3.0-rc.1")
			matched, err := c.MatchReleases(regexp.MustCompile(tt.pattern))
			if tt.wantErr {
				var nf *ReleaseNotFoundError
				require.ErrorAs(t, err, &nf)
				assert.Len(t, nf.AvailableVersions, 5)
				return
			}
			require.NoError(t, err)

			var got []string
			for _, m := range matched {
				got = append(got, m.Release.Title.Version)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChangeLog_RemoveMatching(t *testing.T) {
	t.Parallel()

	c := stagedChangelog(t, "0.1.0", "0.2.0", "0.2.1")
	removed := c.RemoveMatching(regexp.MustCompile(`^0\.2\.`))

	require.Len(t, removed, 2)
	assert.Equal(t, "0.2.0", removed[0].String())
	assert.Equal(t, []string{"Unreleased", "0.1.0"}, c.ListVersions())

	assert.Empty(t, c.RemoveMatching(regexp.MustCompile(`Unreleased`)))
	assert.NotNil(t, c.Unreleased)
}

func TestChangeLog_Stats(t *testing.T) {
	t.Parallel()

	c := stagedChangelog(t, "0.1.0", "0.2.0")
	assert.Equal(t, Stats{Releases: 2, Notes: 3, HasUnreleased: true, Latest: "0.2.0"}, c.Stats())
}
