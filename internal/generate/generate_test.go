package generate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/changelog-gen/internal/changelog"
	"github.com/ariel-frischer/changelog-gen/internal/commitparse"
	"github.com/ariel-frischer/changelog-gen/internal/git"
	"github.com/ariel-frischer/changelog-gen/internal/provider"
)

type fakeSource struct {
	commits map[string]git.Commit
	order   []string
	lastTag string
	ranges  [][2]string
}

func newFakeSource(commits ...git.Commit) *fakeSource {
	s := &fakeSource{commits: make(map[string]git.Commit)}
	for _, c := range commits {
		s.commits[c.SHA] = c
		s.order = append(s.order, c.SHA)
	}
	return s
}

func (s *fakeSource) LastCommitSHA() (string, error) {
	if len(s.order) == 0 {
		return "", errors.New("no commits")
	}
	return s.order[len(s.order)-1], nil
}

func (s *fakeSource) Commit(rev string) (git.Commit, error) {
	c, ok := s.commits[rev]
	if !ok {
		return git.Commit{}, fmt.Errorf("unknown revision %s", rev)
	}
	return c, nil
}

func (s *fakeSource) CommitsInRange(since, until string) ([]string, error) {
	s.ranges = append(s.ranges, [2]string{since, until})
	return s.order, nil
}

func (s *fakeSource) LastTagName() (string, error) { return s.lastTag, nil }

type fakeProvider struct {
	provider.None
	mu        sync.Mutex
	prs       map[string]provider.RelatedPR
	failing   map[string]bool
	lookups   int
	milestone []provider.RelatedPR
}

func (p *fakeProvider) RelatedPR(_ context.Context, sha string) (provider.RelatedPR, error) {
	p.mu.Lock()
	p.lookups++
	p.mu.Unlock()
	if p.failing[sha] {
		return provider.RelatedPR{}, errors.New("rate limited")
	}
	pr, ok := p.prs[sha]
	if !ok {
		return provider.RelatedPR{URL: "https://example.com/commit/" + sha, ID: "commit", Author: "dev", AuthorLink: "https://example.com/dev"}, nil
	}
	return pr, nil
}

func (p *fakeProvider) MilestonePRs(context.Context, string) ([]provider.RelatedPR, error) {
	return p.milestone, nil
}

func pr(n int, author string) provider.RelatedPR {
	return provider.RelatedPR{
		URL:        fmt.Sprintf("https://github.com/o/r/pull/%d", n),
		ID:         fmt.Sprintf("#%d", n),
		Author:     author,
		AuthorLink: "https://github.com/" + author,
		IsPR:       true,
	}
}

func TestGenerator_SingleCommit(t *testing.T) {
	t.Parallel()

	src := newFakeSource(
		git.Commit{SHA: "aaa1111", Title: "fix(parser): handle tabs"},
		git.Commit{SHA: "bbb2222", Title: "feat: export to csv"},
	)
	p := &fakeProvider{prs: map[string]provider.RelatedPR{"bbb2222": pr(12, "mona")}}
	g := New(src, p, nil, Options{})

	c := changelog.New()
	report, err := g.Generate(context.Background(), c, Request{})
	require.NoError(t, err)

	require.Len(t, report.Notes, 1)
	assert.Equal(t, "bbb2222", report.Notes[0].SHA)

	added, ok := c.Unreleased.Sections.Get("Added")
	require.True(t, ok)
	assert.Equal(t, []changelog.ReleaseSectionNote{{
		Message: "export to csv in [#12](https://github.com/o/r/pull/12) by [@mona](https://github.com/mona)",
	}}, added.Notes)
}

func TestGenerator_SingleCommitErrors(t *testing.T) {
	t.Parallel()

	src := newFakeSource(git.Commit{SHA: "aaa1111", Title: "update stuff"})
	strict := &commitparse.Classifier{Map: commitparse.DefaultSectionMap(), Parsing: commitparse.Strict}
	g := New(src, nil, strict, Options{})

	_, err := g.Generate(context.Background(), changelog.New(), Request{Rev: "aaa1111"})
	require.ErrorIs(t, err, commitparse.ErrInvalidSyntax)

	_, err = g.Generate(context.Background(), changelog.New(), Request{Rev: "missing"})
	assert.ErrorContains(t, err, "reading commit missing")
}

func TestGenerator_Range(t *testing.T) {
	t.Parallel()

	src := newFakeSource(
		git.Commit{SHA: "c1", Title: "feat(ui): dark mode"},
		git.Commit{SHA: "c2", Title: "docs: update changelog", Files: []string{"CHANGELOG.md"}},
		git.Commit{SHA: "c3", Title: "fix: crash", Body: "(skip changelog)"},
		git.Commit{SHA: "c4", Title: "random words"},
		git.Commit{SHA: "c5", Title: "fix(ui): contrast"},
		git.Commit{SHA: "c6", Title: "feat: search"},
	)
	src.lastTag = "v1.0.0"
	p := &fakeProvider{
		prs: map[string]provider.RelatedPR{
			"c1": pr(1, "a"),
			"c5": pr(5, "b"),
		},
		failing: map[string]bool{"c6": true},
	}

	var progress []int
	var mu sync.Mutex
	g := New(src, p, nil, Options{ChangelogPath: "./CHANGELOG.md", OmitThanks: true, MaxParallel: 2},
		WithProgress(func(done, total int) {
			mu.Lock()
			progress = append(progress, done)
			mu.Unlock()
			assert.Equal(t, 6, total)
		}))

	c := changelog.New()
	report, err := g.Generate(context.Background(), c, Request{Range: true})
	require.NoError(t, err)

	assert.Equal(t, [][2]string{{"v1.0.0", ""}}, src.ranges)
	assert.Len(t, progress, 6)

	var shas []string
	for _, n := range report.Notes {
		shas = append(shas, n.SHA)
	}
	assert.Equal(t, []string{"c1", "c4", "c5", "c6"}, shas)

	require.Len(t, report.Skipped, 2)
	assert.Equal(t, "c2", report.Skipped[0].SHA)
	assert.Nil(t, report.Skipped[0].Err)
	assert.Contains(t, report.Skipped[1].Reason, "(skip changelog)")

	require.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0], "rate limited")

	added, _ := c.Unreleased.Sections.Get("Added")
	assert.Equal(t, []changelog.ReleaseSectionNote{
		{Scope: "ui", Message: "dark mode in [#1](https://github.com/o/r/pull/1)"},
		{Message: "search"},
	}, added.Notes)

	unidentified, ok := c.Unreleased.Sections.Get(commitparse.Unidentified)
	require.True(t, ok)
	assert.Equal(t, "random words in [commit](https://example.com/commit/c4)", unidentified.Notes[0].Message)
}

func TestGenerator_ExcludeNotPR(t *testing.T) {
	t.Parallel()

	src := newFakeSource(
		git.Commit{SHA: "c1", Title: "feat: one"},
		git.Commit{SHA: "c2", Title: "feat: two"},
	)
	p := &fakeProvider{prs: map[string]provider.RelatedPR{"c1": pr(1, "a")}}
	g := New(src, p, nil, Options{ExcludeNotPR: true})

	report, err := g.Generate(context.Background(), changelog.New(), Request{Range: true})
	require.NoError(t, err)

	require.Len(t, report.Notes, 1)
	require.Len(t, report.Skipped, 1)
	assert.ErrorIs(t, report.Skipped[0].Err, ErrNotAttachedToPR)
}

func TestGenerator_OmitBothSkipsLookups(t *testing.T) {
	t.Parallel()

	src := newFakeSource(git.Commit{SHA: "c1", Title: "fix: one"})
	p := &fakeProvider{}
	g := New(src, p, nil, Options{OmitPRLink: true, OmitThanks: true})

	report, err := g.Generate(context.Background(), changelog.New(), Request{})
	require.NoError(t, err)
	assert.Zero(t, p.lookups)
	assert.Equal(t, "one", report.Notes[0].Note.Message)
}

func TestGenerator_Milestone(t *testing.T) {
	t.Parallel()

	first := pr(7, "mona")
	first.Title = "feat(api): pagination"
	second := pr(9, "hubot")
	second.Title = "fix: off by one"
	p := &fakeProvider{milestone: []provider.RelatedPR{first, second}}

	g := New(newFakeSource(), p, nil, Options{OmitPRLink: true})
	c := changelog.New()

	report, err := g.Generate(context.Background(), c, Request{Milestone: "1.0"})
	require.NoError(t, err)

	require.Len(t, report.Notes, 2)
	assert.Zero(t, p.lookups)
	fixed, _ := c.Unreleased.Sections.Get("Fixed")
	assert.Equal(t, "off by one by [@hubot](https://github.com/hubot)", fixed.Notes[0].Message)
}

func TestDecoration(t *testing.T) {
	t.Parallel()

	p := pr(3, "mona")
	tests := map[string]struct {
		omitLink   bool
		omitThanks bool
		want       string
	}{
		"both":        {want: " in [#3](https://github.com/o/r/pull/3) by [@mona](https://github.com/mona)"},
		"link only":   {omitThanks: true, want: " in [#3](https://github.com/o/r/pull/3)"},
		"thanks only": {omitLink: true, want: " by [@mona](https://github.com/mona)"},
		"neither":     {omitLink: true, omitThanks: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Decoration(p, tt.omitLink, tt.omitThanks))
		})
	}
}
