// Package git reads the history of the repository a changelog belongs to:
// version tags, commit ranges and the files a commit touched. It is built
// on go-git, so no git binary is required.
package git

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/ariel-frischer/changelog-gen/internal/changelog"
)

// debugLogger is a function that logs debug messages when debug mode is enabled.
// By default, it's a no-op. Set it via SetDebugLogger to enable debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// openRepo opens the repository containing path, walking up the directory
// tree to find it. An empty path means the current working directory.
func openRepo(path string) (*git.Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}
	return repo, nil
}

// Repository is a read-only view of a git repository.
type Repository struct {
	repo *git.Repository
	root string
}

var _ changelog.TagSource = (*Repository)(nil)

// Open opens the repository containing path ("" for the working directory).
func Open(path string) (*Repository, error) {
	repo, err := openRepo(path)
	if err != nil {
		return nil, err
	}

	r := &Repository{repo: repo}
	if wt, err := repo.Worktree(); err == nil {
		r.root = wt.Filesystem.Root()
	}
	return r, nil
}

// IsGitRepository reports whether path lies within a git repository.
func IsGitRepository(path string) bool {
	_, err := openRepo(path)
	return err == nil
}

// Root returns the worktree root, or "" for bare repositories.
func (r *Repository) Root() string { return r.root }

// Commit holds the parts of a commit the changelog needs.
type Commit struct {
	SHA    string
	Author string
	Title  string
	Body   string
	Files  []string
}

// ShortSHA returns the abbreviated commit hash.
func (c Commit) ShortSHA() string {
	if len(c.SHA) > 7 {
		return c.SHA[:7]
	}
	return c.SHA
}

// LastCommitSHA returns the hash of HEAD.
func (r *Repository) LastCommitSHA() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD reference: %w", err)
	}
	return head.Hash().String(), nil
}

// Commit reads the commit named by rev (a hash, short hash, tag or branch).
func (r *Repository) Commit(rev string) (Commit, error) {
	c, err := r.resolveCommit(rev)
	if err != nil {
		return Commit{}, err
	}

	files, err := changedFiles(c)
	if err != nil {
		return Commit{}, fmt.Errorf("listing files of %s: %w", rev, err)
	}

	title, body, _ := strings.Cut(strings.TrimSpace(c.Message), "\n")
	return Commit{
		SHA:    c.Hash.String(),
		Author: c.Author.Name,
		Title:  strings.TrimSpace(title),
		Body:   strings.TrimSpace(body),
		Files:  files,
	}, nil
}

func (r *Repository) resolveCommit(rev string) (*object.Commit, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("resolving %q: %w", rev, err)
	}
	c, err := r.repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("reading commit %s: %w", hash, err)
	}
	return c, nil
}

// changedFiles lists the paths a commit modified relative to its first
// parent. A root commit reports every file it contains.
func changedFiles(c *object.Commit) ([]string, error) {
	tree, err := c.Tree()
	if err != nil {
		return nil, err
	}

	var files []string
	if c.NumParents() == 0 {
		err = tree.Files().ForEach(func(f *object.File) error {
			files = append(files, f.Name)
			return nil
		})
		return files, err
	}

	parent, err := c.Parent(0)
	if err != nil {
		return nil, err
	}
	parentTree, err := parent.Tree()
	if err != nil {
		return nil, err
	}

	changes, err := object.DiffTree(parentTree, tree)
	if err != nil {
		return nil, err
	}
	for _, ch := range changes {
		name := ch.To.Name
		if name == "" {
			name = ch.From.Name
		}
		files = append(files, name)
	}
	slices.Sort(files)
	return files, nil
}

// Tag is a version tag.
type Tag struct {
	Name    string
	Version changelog.Version
	Commit  string
}

// Tags returns the tags that carry a version, in ascending version order.
// A leading "v" is accepted. Other tags are skipped.
func (r *Repository) Tags() ([]Tag, error) {
	iter, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}

	var tags []Tag
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		v, err := changelog.ParseVersion(strings.TrimPrefix(name, "v"))
		if err != nil {
			logDebug("[git] skipping tag %s: %v", name, err)
			return nil
		}

		commit, err := r.tagCommit(ref)
		if err != nil {
			return fmt.Errorf("resolving tag %s: %w", name, err)
		}
		tags = append(tags, Tag{Name: name, Version: v, Commit: commit})
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(tags, func(a, b Tag) int { return a.Version.Compare(b.Version) })
	logDebug("[git] found %d version tags", len(tags))
	return tags, nil
}

// tagCommit returns the commit hash a lightweight or annotated tag points to.
func (r *Repository) tagCommit(ref *plumbing.Reference) (string, error) {
	obj, err := r.repo.TagObject(ref.Hash())
	switch {
	case errors.Is(err, plumbing.ErrObjectNotFound):
		return ref.Hash().String(), nil
	case err != nil:
		return "", err
	}
	c, err := obj.Commit()
	if err != nil {
		return "", err
	}
	return c.Hash.String(), nil
}

// LastTag returns the highest version tag.
func (r *Repository) LastTag() (changelog.Version, bool, error) {
	tags, err := r.Tags()
	if err != nil {
		return changelog.Version{}, false, err
	}
	if len(tags) == 0 {
		return changelog.Version{}, false, nil
	}
	return tags[len(tags)-1].Version, true, nil
}

// LastTagName returns the name of the highest version tag, or "" when the
// repository has none.
func (r *Repository) LastTagName() (string, error) {
	tags, err := r.Tags()
	if err != nil || len(tags) == 0 {
		return "", err
	}
	return tags[len(tags)-1].Name, nil
}

// CommitsInRange returns the hashes of commits reachable from until but not
// from since, oldest first. An empty since walks the whole history and an
// empty until means HEAD.
func (r *Repository) CommitsInRange(since, until string) ([]string, error) {
	if until == "" {
		until = "HEAD"
	}
	to, err := r.resolveCommit(until)
	if err != nil {
		return nil, err
	}

	excluded := make(map[plumbing.Hash]struct{})
	if since != "" {
		from, err := r.resolveCommit(since)
		if err != nil {
			return nil, err
		}
		err = r.log(from.Hash, func(c *object.Commit) {
			excluded[c.Hash] = struct{}{}
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", since, err)
		}
	}

	var shas []string
	err = r.log(to.Hash, func(c *object.Commit) {
		if _, ok := excluded[c.Hash]; !ok {
			shas = append(shas, c.Hash.String())
		}
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", until, err)
	}

	slices.Reverse(shas)
	logDebug("[git] %d commits in %s..%s", len(shas), since, until)
	return shas, nil
}

// log visits the commits reachable from start, newest first.
func (r *Repository) log(start plumbing.Hash, fn func(*object.Commit)) error {
	iter, err := r.repo.Log(&git.LogOptions{From: start, Order: git.LogOrderCommitterTime})
	if err != nil {
		return err
	}
	defer iter.Close()

	return iter.ForEach(func(c *object.Commit) error {
		fn(c)
		return nil
	})
}
