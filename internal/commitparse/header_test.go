package commitparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHeader(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		title   string
		want    Header
		wantErr bool
	}{
		"type and message": {
			title: "fix: handle empty input",
			want:  Header{Type: "fix", Message: "handle empty input"},
		},
		"with scope": {
			title: "feat(parser): support footers",
			want:  Header{Type: "feat", Scope: "parser", Message: "support footers"},
		},
		"scope with spaces is trimmed": {
			title: "fix( cli tools ): exit code",
			want:  Header{Type: "fix", Scope: "cli tools", Message: "exit code"},
		},
		"breaking marker": {
			title: "feat(api)!: drop v1 endpoints",
			want:  Header{Type: "feat", Scope: "api", Breaking: true, Message: "drop v1 endpoints"},
		},
		"message keeps colons and parens": {
			title: "docs: explain config (see: README)",
			want:  Header{Type: "docs", Message: "explain config (see: README)"},
		},
		"only first line is parsed": {
			title: "fix: first\nsecond line",
			want:  Header{Type: "fix", Message: "first"},
		},
		"no colon":          {title: "update readme", wantErr: true},
		"space before type": {title: "fix stuff: x", wantErr: true},
		"empty message":     {title: "fix:   ", wantErr: true},
		"empty scope":       {title: "fix(): x", wantErr: true},
		"nested parens":     {title: "fix(a(b)): x", wantErr: true},
		"empty":             {title: "", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseHeader(tt.title)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidSyntax)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
