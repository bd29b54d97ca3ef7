package changelog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input       string
		wantMajor   uint64
		wantMinor   uint64
		wantPatch   uint64
		wantPre     string
		wantString  string
		wantPartial bool
	}{
		"strict triple": {
			input:      "1.2.3",
			wantMajor:  1,
			wantMinor:  2,
			wantPatch:  3,
			wantString: "1.2.3",
		},
		"strict with prerelease": {
			input:      "1.0.0-rc.1",
			wantMajor:  1,
			wantPre:    "rc.1",
			wantString: "1.0.0-rc.1",
		},
		"partial two components": {
			input:       "24.04",
			wantMajor:   24,
			wantMinor:   4,
			wantString:  "24.04",
			wantPartial: true,
		},
		"partial zero minor": {
			input:       "24.00",
			wantMajor:   24,
			wantString:  "24.00",
			wantPartial: true,
		},
		"partial leading zeros": {
			input:       "03.04",
			wantMajor:   3,
			wantMinor:   4,
			wantString:  "03.04",
			wantPartial: true,
		},
		"partial four components keeps display text": {
			input:       "2024.4.1.7",
			wantMajor:   2024,
			wantMinor:   4,
			wantString:  "2024.4.1.7",
			wantPartial: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			v, err := ParseVersion(tt.input)
			require.NoError(t, err)

			assert.Equal(t, tt.wantMajor, v.Major())
			assert.Equal(t, tt.wantMinor, v.Minor())
			assert.Equal(t, tt.wantPatch, v.Patch())
			assert.Equal(t, tt.wantPre, v.Prerelease())
			assert.Equal(t, tt.wantString, v.String())
			assert.Equal(t, tt.wantPartial, v.IsPartial())
		})
	}
}

func TestParseVersion_Invalid(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input string
	}{
		"empty":             {input: ""},
		"single component":  {input: "1"},
		"v prefix":          {input: "v1.2.3"},
		"words":             {input: "latest"},
		"non numeric minor": {input: "1.x"},
		"negative":          {input: "-1.2"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseVersion(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidVersionFormat)

			var ive *InvalidVersionError
			require.ErrorAs(t, err, &ive)
			assert.Equal(t, tt.input, ive.Text)
		})
	}
}

func TestVersion_Compare(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		a, b string
		want int
	}{
		"equal strict":                 {a: "1.0.0", b: "1.0.0", want: 0},
		"partial equals strict":        {a: "24.04", b: "24.4.0", want: 0},
		"partial equals other partial": {a: "24.04", b: "24.4", want: 0},
		"major wins":                   {a: "2.0.0", b: "1.9.9", want: 1},
		"numeric not lexical":          {a: "0.10.0", b: "0.9.0", want: 1},
		"prerelease before release":    {a: "1.0.0-rc.1", b: "1.0.0", want: -1},
		"prerelease ordering":          {a: "1.0.0-alpha", b: "1.0.0-beta", want: -1},
		"build metadata ignored":       {a: "1.0.0+build.1", b: "1.0.0+build.2", want: 0},
		"partial before strict":        {a: "1.2", b: "1.2.1", want: -1},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			a := MustParseVersion(tt.a)
			b := MustParseVersion(tt.b)

			assert.Equal(t, tt.want, a.Compare(b))
			assert.Equal(t, -tt.want, b.Compare(a))
			assert.Equal(t, tt.want == 0, a.Equal(b))
			assert.Equal(t, tt.want < 0, a.LessThan(b))
		})
	}
}

func TestVersion_SameCore(t *testing.T) {
	t.Parallel()

	base := MustParseVersion("1.2.0")

	assert.True(t, base.SameCore(MustParseVersion("1.2.0-rc.1")))
	assert.True(t, base.SameCore(MustParseVersion("1.2")))
	assert.False(t, base.SameCore(MustParseVersion("1.2.1-rc.1")))
}

func TestVersion_Zero(t *testing.T) {
	t.Parallel()

	var zero Version
	assert.True(t, zero.IsZero())
	assert.Equal(t, "", zero.String())
	assert.Equal(t, -1, zero.Compare(MustParseVersion("0.0.0")))
	assert.Equal(t, 0, zero.Compare(Version{}))
}
