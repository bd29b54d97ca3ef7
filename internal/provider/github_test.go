package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGitHub(t *testing.T, handler http.Handler) *GitHub {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewGitHub("octo/widgets",
		WithAPIBase(server.URL),
		WithHTTPClient(server.Client()),
		WithTokenEnv("CHANGELOG_GEN_TEST_TOKEN"),
	)
}

func TestGitHub_Links(t *testing.T) {
	t.Parallel()

	g := NewGitHub("octo/widgets")

	tests := map[string]struct {
		tags DiffTags
		want string
	}{
		"first release lists commits": {
			tags: DiffTags{Current: "v0.1.0"},
			want: "https://github.com/octo/widgets/commits/v0.1.0",
		},
		"compare with previous tag": {
			tags: DiffTags{Prev: "v2024.7", Current: "v2024.7.30"},
			want: "https://github.com/octo/widgets/compare/v2024.7...v2024.7.30",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := g.DiffLink(tt.tags)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	link, err := g.ReleaseLink("1.2.0")
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/octo/widgets/releases/tag/1.2.0", link)
}

func TestGitHub_RelatedPR(t *testing.T) {
	tests := map[string]struct {
		handler    http.HandlerFunc
		want       RelatedPR
		wantErrMsg string
	}{
		"pull request found": {
			handler: func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/repos/octo/widgets/commits/abc123/pulls" {
					w.WriteHeader(http.StatusNotFound)
					return
				}
				_, _ = w.Write([]byte(`[{"html_url":"https://github.com/octo/widgets/pull/42","number":42,"title":"Add export","user":{"login":"mona"}}]`))
			},
			want: RelatedPR{
				URL:        "https://github.com/octo/widgets/pull/42",
				ID:         "#42",
				Author:     "mona",
				AuthorLink: "https://github.com/mona",
				Title:      "Add export",
				IsPR:       true,
			},
		},
		"falls back to the commit": {
			handler: func(w http.ResponseWriter, r *http.Request) {
				switch r.URL.Path {
				case "/repos/octo/widgets/commits/abc123/pulls":
					_, _ = w.Write([]byte(`[]`))
				case "/repos/octo/widgets/commits/abc123":
					_, _ = w.Write([]byte(`{"html_url":"https://github.com/octo/widgets/commit/abc123","author":{"login":"hubot"}}`))
				default:
					w.WriteHeader(http.StatusNotFound)
				}
			},
			want: RelatedPR{
				URL:        "https://github.com/octo/widgets/commit/abc123",
				ID:         "commit",
				Author:     "hubot",
				AuthorLink: "https://github.com/hubot",
			},
		},
		"server error": {
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			wantErrMsg: "status 500",
		},
		"missing login": {
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`[{"html_url":"https://x","number":1}]`))
			},
			wantErrMsg: "no user login",
		},
		"invalid JSON": {
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{not json`))
			},
			wantErrMsg: "decoding response",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			g := newTestGitHub(t, tt.handler)

			got, err := g.RelatedPR(context.Background(), "abc123")

			if tt.wantErrMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGitHub_RequestHeaders(t *testing.T) {
	t.Setenv("CHANGELOG_GEN_TEST_TOKEN", "s3cret")

	var gotAuth, gotAgent string
	g := newTestGitHub(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAgent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`[{"html_url":"https://x","number":1,"user":{"login":"a"}}]`))
	}))

	_, err := g.RelatedPR(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "Bearer s3cret", gotAuth)
	assert.Equal(t, "changelog-gen", gotAgent)
}

func TestGitHub_StatusError(t *testing.T) {
	g := newTestGitHub(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))

	_, err := g.RelatedPR(context.Background(), "abc")

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
}

func TestGitHub_ContextTimeout(t *testing.T) {
	g := newTestGitHub(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		_, _ = w.Write([]byte(`[]`))
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := g.RelatedPR(ctx, "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "making request")
}

func TestGitHub_MilestonePRs(t *testing.T) {
	var gotQuery string
	g := newTestGitHub(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		_, _ = w.Write([]byte(`{"items":[
			{"html_url":"https://github.com/octo/widgets/pull/7","number":7,"title":"feat: search","user":{"login":"mona"}},
			{"html_url":"https://github.com/octo/widgets/pull/9","number":9,"title":"fix: crash","user":{"login":"hubot"}}
		]}`))
	}))

	prs, err := g.MilestonePRs(context.Background(), "0.13")
	require.NoError(t, err)

	assert.Equal(t, `repo:octo/widgets is:pr is:merged milestone:"0.13"`, gotQuery)
	require.Len(t, prs, 2)
	assert.Equal(t, "#7", prs[0].ID)
	assert.Equal(t, "feat: search", prs[0].Title)
	assert.Equal(t, "hubot", prs[1].Author)
}
