// Package provider talks to the code-hosting service of the repository:
// it builds release and diff links and resolves the pull request behind a
// commit.
package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ariel-frischer/changelog-gen/internal/changelog"
)

// ErrNoProvider is returned by the "none" provider for every lookup.
var ErrNoProvider = errors.New("no git provider was selected")

// Names of the supported providers.
const (
	NameGitHub = "github"
	NameNone   = "none"
)

// RelatedPR describes the pull request (or bare commit) a change came from.
type RelatedPR struct {
	URL        string
	ID         string // "#123", or "commit" when no pull request exists
	Author     string
	AuthorLink string
	Title      string
	IsPR       bool
}

// DiffTags names the two tags a diff link compares. Prev is empty for the
// first release.
type DiffTags struct {
	Prev    string
	Current string
}

// Provider is the code-hosting collaborator.
type Provider interface {
	Name() string
	DiffLink(tags DiffTags) (string, error)
	ReleaseLink(tag string) (string, error)
	RelatedPR(ctx context.Context, sha string) (RelatedPR, error)
	MilestonePRs(ctx context.Context, milestone string) ([]RelatedPR, error)
}

// New returns the provider registered under name for the given
// "owner/name" repository.
func New(name, repo string, opts ...GitHubOption) (Provider, error) {
	switch strings.ToLower(name) {
	case NameGitHub, "":
		if repo == "" {
			return nil, fmt.Errorf("github provider: repository is not set (expected owner/name)")
		}
		if _, _, ok := strings.Cut(repo, "/"); !ok {
			return nil, fmt.Errorf("github provider: invalid repository %q (expected owner/name)", repo)
		}
		return NewGitHub(repo, opts...), nil
	case NameNone, "other":
		return None{}, nil
	default:
		return nil, fmt.Errorf("unknown provider %q (valid: %s, %s)", name, NameGitHub, NameNone)
	}
}

// None is the provider used when links and pull requests are not wanted.
type None struct{}

func (None) Name() string { return NameNone }
func (None) DiffLink(DiffTags) (string, error) { return "", ErrNoProvider }
func (None) ReleaseLink(string) (string, error) { return "", ErrNoProvider }
func (None) RelatedPR(context.Context, string) (RelatedPR, error) {
	return RelatedPR{}, ErrNoProvider
}
func (None) MilestonePRs(context.Context, string) ([]RelatedPR, error) {
	return nil, ErrNoProvider
}

// Links adapts a Provider to changelog.LinkProvider. Versions are turned
// into tags with TagPrefix.
type Links struct {
	Provider  Provider
	TagPrefix string
}

var _ changelog.LinkProvider = Links{}

// ReleaseLink implements changelog.LinkProvider.
func (l Links) ReleaseLink(version string) (string, error) {
	return l.Provider.ReleaseLink(l.TagPrefix + version)
}

// DiffLink implements changelog.LinkProvider.
func (l Links) DiffLink(prev, next string) (string, error) {
	tags := DiffTags{Current: l.TagPrefix + next}
	if prev != "" {
		tags.Prev = l.TagPrefix + prev
	}
	return l.Provider.DiffLink(tags)
}
