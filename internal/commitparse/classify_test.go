package commitparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifier_Classify(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		classifier *Classifier
		title      string
		body       string
		want       Classification
		wantErr    error
	}{
		"conventional commit": {
			classifier: NewClassifier(),
			title:      "feat(ui): dark mode",
			want:       Classification{Section: "Added", Type: "feat", Scope: "ui", Message: "dark mode"},
		},
		"type lookup ignores case": {
			classifier: NewClassifier(),
			title:      "FIX: crash on start",
			want:       Classification{Section: "Fixed", Type: "FIX", Message: "crash on start"},
		},
		"smart: unknown type falls back to keywords": {
			classifier: NewClassifier(),
			title:      "chore(deps): bump and fix lockfile",
			want:       Classification{Section: "Fixed", Type: "chore", Scope: "deps", Message: "bump and fix lockfile"},
		},
		"smart: free text uses body keywords": {
			classifier: NewClassifier(),
			title:      "Update dependencies",
			body:       "security: patched CVE",
			want:       Classification{Section: "Security", Message: "Update dependencies"},
		},
		"smart: nothing found is unidentified": {
			classifier: NewClassifier(),
			title:      "wip",
			want:       Classification{Section: Unidentified, Message: "wip"},
		},
		"smart: unidentified excluded": {
			classifier: &Classifier{Map: DefaultSectionMap(), Parsing: Smart, ExcludeUnidentified: true},
			title:      "wip",
			wantErr:    ErrUnidentified,
		},
		"strict: invalid syntax": {
			classifier: &Classifier{Map: DefaultSectionMap(), Parsing: Strict},
			title:      "fixed the thing",
			wantErr:    ErrInvalidSyntax,
		},
		"strict: unknown type": {
			classifier: &Classifier{Map: DefaultSectionMap(), Parsing: Strict},
			title:      "chore: fix lockfile",
			wantErr:    ErrUnknownType,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := tt.classifier.Classify(tt.title, tt.body)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseParsing(t *testing.T) {
	t.Parallel()

	p, err := ParseParsing("STRICT")
	require.NoError(t, err)
	assert.Equal(t, Strict, p)

	p, err = ParseParsing("")
	require.NoError(t, err)
	assert.Equal(t, Smart, p)

	_, err = ParseParsing("fuzzy")
	assert.Error(t, err)
}

func TestIgnoreMarker(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		title      string
		body       string
		wantMarker string
	}{
		"bang in title":         {title: "fix: something !log", wantMarker: "!log"},
		"skip in body":          {title: "fix: x", body: "(skip changelog)", wantMarker: "(skip changelog)"},
		"ignore notes":          {title: "chore: (ignore notes)", wantMarker: "(ignore notes)"},
		"bare word is kept":     {title: "fix: something log"},
		"unrelated parentheses": {title: "fix(log): rotate"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			marker, ok := IgnoreMarker(tt.title, tt.body)
			assert.Equal(t, tt.wantMarker != "", ok)
			assert.Equal(t, tt.wantMarker, marker)
		})
	}
}
