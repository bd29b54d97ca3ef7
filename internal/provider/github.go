package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultTimeout bounds every GitHub API request.
const DefaultTimeout = 10 * time.Second

const (
	defaultAPIBase  = "https://api.github.com"
	defaultWebBase  = "https://github.com"
	defaultTokenEnv = "GITHUB_TOKEN"
	userAgent       = "changelog-gen"
)

// GitHub resolves links and pull requests through the GitHub REST API.
type GitHub struct {
	repo     string
	apiBase  string
	webBase  string
	tokenEnv string
	client   *http.Client
}

// GitHubOption configures a GitHub provider.
type GitHubOption func(*GitHub)

// WithHTTPClient sets the HTTP client used for API calls.
func WithHTTPClient(c *http.Client) GitHubOption {
	return func(g *GitHub) { g.client = c }
}

// WithAPIBase overrides the REST API root, e.g. for GitHub Enterprise.
func WithAPIBase(base string) GitHubOption {
	return func(g *GitHub) { g.apiBase = strings.TrimRight(base, "/") }
}

// WithWebBase overrides the root used for human-facing links.
func WithWebBase(base string) GitHubOption {
	return func(g *GitHub) { g.webBase = strings.TrimRight(base, "/") }
}

// WithTokenEnv names the environment variable holding the bearer token.
func WithTokenEnv(name string) GitHubOption {
	return func(g *GitHub) {
		if name != "" {
			g.tokenEnv = name
		}
	}
}

// NewGitHub creates a provider for the "owner/name" repository.
func NewGitHub(repo string, opts ...GitHubOption) *GitHub {
	g := &GitHub{
		repo:     repo,
		apiBase:  defaultAPIBase,
		webBase:  defaultWebBase,
		tokenEnv: defaultTokenEnv,
		client:   &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *GitHub) Name() string { return NameGitHub }

// DiffLink returns the compare page between two tags, or the commit list of
// the current tag when there is no previous one.
func (g *GitHub) DiffLink(tags DiffTags) (string, error) {
	base := g.webBase + "/" + g.repo
	if tags.Prev == "" {
		return fmt.Sprintf("%s/commits/%s", base, tags.Current), nil
	}
	return fmt.Sprintf("%s/compare/%s...%s", base, tags.Prev, tags.Current), nil
}

// ReleaseLink returns the release page of tag.
func (g *GitHub) ReleaseLink(tag string) (string, error) {
	return fmt.Sprintf("%s/%s/releases/tag/%s", g.webBase, g.repo, tag), nil
}

type apiUser struct {
	Login string `json:"login"`
}

type apiPull struct {
	HTMLURL string   `json:"html_url"`
	Number  uint64   `json:"number"`
	Title   string   `json:"title"`
	User    *apiUser `json:"user"`
}

type apiCommit struct {
	HTMLURL string   `json:"html_url"`
	Author  *apiUser `json:"author"`
}

type apiSearch struct {
	Items []apiPull `json:"items"`
}

// RelatedPR returns the first pull request associated with sha. When the
// commit was pushed without a pull request, the commit page and its author
// are returned with IsPR false.
func (g *GitHub) RelatedPR(ctx context.Context, sha string) (RelatedPR, error) {
	var pulls []apiPull
	if err := g.get(ctx, fmt.Sprintf("/repos/%s/commits/%s/pulls", g.repo, sha), &pulls); err != nil {
		return RelatedPR{}, err
	}
	if len(pulls) > 0 {
		return g.fromPull(pulls[0])
	}

	var commit apiCommit
	if err := g.get(ctx, fmt.Sprintf("/repos/%s/commits/%s", g.repo, sha), &commit); err != nil {
		return RelatedPR{}, err
	}
	if commit.HTMLURL == "" {
		return RelatedPR{}, fmt.Errorf("commit %s: no html_url in response", sha)
	}
	if commit.Author == nil || commit.Author.Login == "" {
		return RelatedPR{}, fmt.Errorf("commit %s: no author login in response", sha)
	}
	return RelatedPR{
		URL:        commit.HTMLURL,
		ID:         "commit",
		Author:     commit.Author.Login,
		AuthorLink: g.userLink(commit.Author.Login),
	}, nil
}

// MilestonePRs returns the merged pull requests of a milestone.
func (g *GitHub) MilestonePRs(ctx context.Context, milestone string) ([]RelatedPR, error) {
	q := fmt.Sprintf("repo:%s is:pr is:merged milestone:%q", g.repo, milestone)
	var res apiSearch
	if err := g.get(ctx, "/search/issues?q="+url.QueryEscape(q), &res); err != nil {
		return nil, err
	}

	prs := make([]RelatedPR, 0, len(res.Items))
	for _, item := range res.Items {
		pr, err := g.fromPull(item)
		if err != nil {
			return nil, err
		}
		prs = append(prs, pr)
	}
	return prs, nil
}

func (g *GitHub) fromPull(p apiPull) (RelatedPR, error) {
	if p.HTMLURL == "" {
		return RelatedPR{}, fmt.Errorf("pull request: no html_url in response")
	}
	if p.User == nil || p.User.Login == "" {
		return RelatedPR{}, fmt.Errorf("pull request #%d: no user login in response", p.Number)
	}
	return RelatedPR{
		URL:        p.HTMLURL,
		ID:         "#" + strconv.FormatUint(p.Number, 10),
		Author:     p.User.Login,
		AuthorLink: g.userLink(p.User.Login),
		Title:      p.Title,
		IsPR:       true,
	}, nil
}

func (g *GitHub) userLink(login string) string {
	return g.webBase + "/" + login
}

// get performs an authenticated GET against the API and decodes the JSON
// body into out.
func (g *GitHub) get(ctx context.Context, path string, out any) error {
	endpoint := g.apiBase + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/vnd.github+json")
	if token := os.Getenv(g.tokenEnv); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{URL: endpoint, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding response from %s: %w", endpoint, err)
	}
	return nil
}

// StatusError reports a non-200 answer from the API.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GitHub API returned status %d for %s", e.StatusCode, e.URL)
}
