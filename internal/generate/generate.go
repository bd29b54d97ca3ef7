// Package generate turns commits into unreleased changelog notes.
//
// Commits come from a single revision, a revision range or a milestone on
// the code-hosting provider. Each one is filtered, classified into a
// section, decorated with its pull request and author, and appended to the
// unreleased release.
package generate

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ariel-frischer/changelog-gen/internal/changelog"
	"github.com/ariel-frischer/changelog-gen/internal/commitparse"
	"github.com/ariel-frischer/changelog-gen/internal/git"
	"github.com/ariel-frischer/changelog-gen/internal/provider"
)

// ErrNotAttachedToPR is reported when exclude_not_pr drops a commit.
var ErrNotAttachedToPR = errors.New("commit is not attached to a pull request")

// CommitSource is the git collaborator.
type CommitSource interface {
	LastCommitSHA() (string, error)
	Commit(rev string) (git.Commit, error)
	CommitsInRange(since, until string) ([]string, error)
	LastTagName() (string, error)
}

// Request selects the commits to generate notes for. Milestone wins over
// Range; with neither, the single commit Rev (HEAD when empty) is used.
type Request struct {
	Rev       string
	Range     bool
	Since     string // defaults to the last version tag
	Until     string // defaults to HEAD
	Milestone string
}

// Options control filtering and decoration.
type Options struct {
	// ChangelogPath is compared with the files of each commit; commits that
	// edited the changelog are skipped. Relative to the repository root.
	ChangelogPath string
	ExcludeNotPR  bool
	OmitPRLink    bool
	OmitThanks    bool
	MaxParallel   int
}

// Generator produces notes from commits.
type Generator struct {
	source     CommitSource
	provider   provider.Provider
	classifier *commitparse.Classifier
	opts       Options
	onProgress func(done, total int)
}

// Option configures a Generator.
type Option func(*Generator)

// WithProgress registers a callback invoked after each commit is processed.
func WithProgress(fn func(done, total int)) Option {
	return func(g *Generator) { g.onProgress = fn }
}

// New creates a Generator. A nil provider disables pull request lookups.
func New(source CommitSource, p provider.Provider, classifier *commitparse.Classifier, opts Options, options ...Option) *Generator {
	if p == nil {
		p = provider.None{}
	}
	if classifier == nil {
		classifier = commitparse.NewClassifier()
	}
	if opts.MaxParallel < 1 {
		opts.MaxParallel = 4
	}
	g := &Generator{source: source, provider: p, classifier: classifier, opts: opts}
	for _, o := range options {
		o(g)
	}
	return g
}

// Note is a note produced from one commit or pull request.
type Note struct {
	SHA     string
	Section string
	Note    changelog.ReleaseSectionNote
}

// Skipped is a commit that produced no note.
type Skipped struct {
	SHA    string
	Title  string
	Reason string
	Err    error // nil when the commit was ignored on purpose
}

// Report describes what Generate did.
type Report struct {
	Notes    []Note
	Skipped  []Skipped
	Warnings []string
}

// candidate is a commit (or milestone pull request) awaiting processing.
type candidate struct {
	commit git.Commit
	pr     *provider.RelatedPR
}

// outcome is the per-candidate result, stored by index to keep order.
type outcome struct {
	note    *Note
	skipped *Skipped
	warning string
}

// Generate collects the requested commits and appends their notes to the
// unreleased release of c. The document is not sanitized here.
//
// In single-commit mode a commit that cannot be classified is an error.
// In range and milestone modes it is reported in Report.Skipped instead.
func (g *Generator) Generate(ctx context.Context, c *changelog.ChangeLog, req Request) (*Report, error) {
	candidates, err := g.collect(ctx, req)
	if err != nil {
		return nil, err
	}
	single := req.Milestone == "" && !req.Range

	outcomes := make([]outcome, len(candidates))
	var (
		mu   sync.Mutex
		done int
	)

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.opts.MaxParallel)
	for i, cand := range candidates {
		eg.Go(func() error {
			out := g.process(ctx, cand)
			outcomes[i] = out

			mu.Lock()
			done++
			if g.onProgress != nil {
				g.onProgress(done, len(candidates))
			}
			mu.Unlock()

			if single && out.skipped != nil && out.skipped.Err != nil {
				return out.skipped.Err
			}
			return ctx.Err()
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	report := &Report{}
	unreleased := c.UnreleasedOrDefault()
	for _, out := range outcomes {
		if out.warning != "" {
			report.Warnings = append(report.Warnings, out.warning)
		}
		switch {
		case out.note != nil:
			unreleased.AddNote(out.note.Section, out.note.Note)
			report.Notes = append(report.Notes, *out.note)
		case out.skipped != nil:
			report.Skipped = append(report.Skipped, *out.skipped)
		}
	}
	return report, nil
}

// collect resolves the request into candidates, oldest first.
func (g *Generator) collect(ctx context.Context, req Request) ([]candidate, error) {
	if req.Milestone != "" {
		prs, err := g.provider.MilestonePRs(ctx, req.Milestone)
		if err != nil {
			return nil, fmt.Errorf("listing pull requests of milestone %s: %w", req.Milestone, err)
		}
		cands := make([]candidate, len(prs))
		for i, pr := range prs {
			cands[i] = candidate{commit: git.Commit{Title: pr.Title}, pr: &prs[i]}
		}
		return cands, nil
	}

	var shas []string
	if req.Range {
		since := req.Since
		if since == "" {
			tag, err := g.source.LastTagName()
			if err != nil {
				return nil, fmt.Errorf("finding last tag: %w", err)
			}
			since = tag
		}
		var err error
		shas, err = g.source.CommitsInRange(since, req.Until)
		if err != nil {
			return nil, fmt.Errorf("listing commits: %w", err)
		}
	} else {
		rev := req.Rev
		if rev == "" {
			sha, err := g.source.LastCommitSHA()
			if err != nil {
				return nil, fmt.Errorf("finding last commit: %w", err)
			}
			rev = sha
		}
		shas = []string{rev}
	}

	cands := make([]candidate, 0, len(shas))
	for _, sha := range shas {
		commit, err := g.source.Commit(sha)
		if err != nil {
			return nil, fmt.Errorf("reading commit %s: %w", sha, err)
		}
		cands = append(cands, candidate{commit: commit})
	}
	return cands, nil
}

func (g *Generator) process(ctx context.Context, cand candidate) outcome {
	commit := cand.commit
	skip := func(reason string, err error) outcome {
		return outcome{skipped: &Skipped{SHA: commit.SHA, Title: commit.Title, Reason: reason, Err: err}}
	}

	if reason, ok := g.ignoreReason(commit); ok {
		return skip(reason, nil)
	}

	cls, err := g.classifier.Classify(commit.Title, commit.Body)
	if err != nil {
		return skip(err.Error(), fmt.Errorf("classifying %q: %w", commit.Title, err))
	}

	var out outcome
	pr := cand.pr
	if pr == nil && !(g.opts.OmitPRLink && g.opts.OmitThanks) && commit.SHA != "" {
		found, err := g.provider.RelatedPR(ctx, commit.SHA)
		switch {
		case err == nil:
			pr = &found
		case !errors.Is(err, provider.ErrNoProvider):
			out.warning = fmt.Sprintf("looking up pull request of %s: %v", commit.ShortSHA(), err)
		}
	}

	if g.opts.ExcludeNotPR && (pr == nil || !pr.IsPR) {
		err := fmt.Errorf("%w: %s", ErrNotAttachedToPR, commit.ShortSHA())
		o := skip(err.Error(), err)
		o.warning = out.warning
		return o
	}

	message := cls.Message
	if pr != nil {
		message += Decoration(*pr, g.opts.OmitPRLink, g.opts.OmitThanks)
	}

	out.note = &Note{
		SHA:     commit.SHA,
		Section: cls.Section,
		Note:    changelog.ReleaseSectionNote{Scope: cls.Scope, Message: message},
	}
	return out
}

// ignoreReason reports why a commit must not produce a note.
func (g *Generator) ignoreReason(c git.Commit) (string, bool) {
	if g.opts.ChangelogPath != "" {
		target := filepath.ToSlash(filepath.Clean(g.opts.ChangelogPath))
		if slices.Contains(c.Files, target) {
			return "the changelog was modified in this commit", true
		}
	}
	if marker, ok := commitparse.IgnoreMarker(c.Title, c.Body); ok {
		return fmt.Sprintf("the pattern %q was matched in the commit message", marker), true
	}
	return "", false
}

// Decoration returns the suffix appended to a note message: a link to the
// pull request and a thanks to its author.
func Decoration(pr provider.RelatedPR, omitLink, omitThanks bool) string {
	var s string
	if !omitLink {
		s += fmt.Sprintf(" in [%s](%s)", pr.ID, pr.URL)
	}
	if !omitThanks {
		s += fmt.Sprintf(" by [@%s](%s)", pr.Author, pr.AuthorLink)
	}
	return s
}
