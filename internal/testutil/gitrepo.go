// Package testutil provides fixtures shared by changelog-gen tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// GitRepo is a throwaway repository with deterministic commit times.
type GitRepo struct {
	Dir  string
	Repo *git.Repository

	t    *testing.T
	when time.Time
}

// NewGitRepo initializes an empty repository in a temporary directory.
func NewGitRepo(t *testing.T) *GitRepo {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	return &GitRepo{Dir: dir, Repo: repo, t: t, when: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

// signature returns an author one minute after the previous one, so
// commit order by time matches creation order.
func (r *GitRepo) signature() *object.Signature {
	r.when = r.when.Add(time.Minute)
	return &object.Signature{Name: "Test", Email: "test@test.com", When: r.when}
}

// Commit writes files and commits them, returning the commit hash. A nil
// map creates an empty commit.
func (r *GitRepo) Commit(message string, files map[string]string) string {
	r.t.Helper()
	wt, err := r.Repo.Worktree()
	require.NoError(r.t, err)

	for name, content := range files {
		WriteFile(r.t, r.Dir, name, content)
		_, err = wt.Add(name)
		require.NoError(r.t, err)
	}

	hash, err := wt.Commit(message, &git.CommitOptions{Author: r.signature(), AllowEmptyCommits: true})
	require.NoError(r.t, err)
	return hash.String()
}

// Tag tags HEAD, annotated or lightweight.
func (r *GitRepo) Tag(name string, annotated bool) {
	r.t.Helper()
	head, err := r.Repo.Head()
	require.NoError(r.t, err)

	var opts *git.CreateTagOptions
	if annotated {
		opts = &git.CreateTagOptions{Tagger: r.signature(), Message: "release " + name}
	}
	_, err = r.Repo.CreateTag(name, head.Hash(), opts)
	require.NoError(r.t, err)
}

// WriteFile writes content to dir/name, creating parent directories.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// ReadFile returns the content of dir/name.
func ReadFile(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	return string(data)
}
