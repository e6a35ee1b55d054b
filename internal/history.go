package internal

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/cache"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

const (
	DefaultBranch = "main"
	DefaultAuthor = "askgate"
	DefaultEmail  = "askgate@local"
)

type Commit struct {
	Hash      string
	Message   string
	Author    string
	Timestamp time.Time
	Parents   []string
}

// CorpusHistory versions the corpus directory so builds and gate reports
// can name the exact revision they judged. Git storage lives under the
// state dir; the corpus itself stays a plain directory.
type CorpusHistory struct {
	repo     *git.Repository
	worktree *git.Worktree
	root     string
}

func openStorage(ws Workspace) *filesystem.Storage {
	fs := osfs.New(ws.GitPath())
	return filesystem.NewStorage(fs, cache.NewObjectLRUDefault())
}

// InitHistory creates the history repository and commits the corpus as it
// stands. An empty corpus still gets an initial commit.
func InitHistory(ws Workspace, corpusPath string) error {
	if err := os.MkdirAll(ws.GitPath(), 0755); err != nil {
		return fmt.Errorf("create git directory: %w", err)
	}

	repo, err := git.Init(openStorage(ws), osfs.New(corpusPath))
	if err != nil {
		return fmt.Errorf("init history: %w", err)
	}

	cfg, err := repo.Config()
	if err != nil {
		return fmt.Errorf("get config: %w", err)
	}
	cfg.Init.DefaultBranch = DefaultBranch
	if err := repo.SetConfig(cfg); err != nil {
		return fmt.Errorf("set config: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("get worktree: %w", err)
	}
	excludeStateDir(worktree)

	if err := worktree.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return fmt.Errorf("stage corpus: %w", err)
	}

	_, err = worktree.Commit("init: track corpus", &git.CommitOptions{
		AllowEmptyCommits: true,
		Author:            signature(),
	})
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}

	return nil
}

func OpenHistory(ws Workspace, corpusPath string) (*CorpusHistory, error) {
	if _, err := os.Stat(ws.GitPath()); os.IsNotExist(err) {
		return nil, fmt.Errorf("history not initialized: %w", ErrNotInitialized)
	}

	repo, err := git.Open(openStorage(ws), osfs.New(corpusPath))
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("get worktree: %w", err)
	}
	excludeStateDir(worktree)

	return &CorpusHistory{
		repo:     repo,
		worktree: worktree,
		root:     corpusPath,
	}, nil
}

// excludeStateDir keeps askgate's own state out of history when the corpus
// is the workspace root.
func excludeStateDir(wt *git.Worktree) {
	wt.Excludes = append(wt.Excludes, gitignore.ParsePattern(StateDirName+"/", nil))
}

func signature() *object.Signature {
	return &object.Signature{
		Name:  DefaultAuthor,
		Email: DefaultEmail,
		When:  time.Now(),
	}
}

// Clean reports whether the corpus matches the last commit.
func (h *CorpusHistory) Clean(ctx context.Context) (bool, error) {
	status, err := h.worktree.Status()
	if err != nil {
		return false, fmt.Errorf("get status: %w", err)
	}
	return status.IsClean(), nil
}

// CommitAll stages every corpus change and commits it. Committing a clean
// worktree is an error; call Clean first.
func (h *CorpusHistory) CommitAll(ctx context.Context, message string) (*Commit, error) {
	if err := h.worktree.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return nil, fmt.Errorf("stage corpus: %w", err)
	}

	hash, err := h.worktree.Commit(message, &git.CommitOptions{
		Author: signature(),
	})
	if err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	commit, err := h.repo.CommitObject(hash)
	if err != nil {
		return nil, fmt.Errorf("get commit: %w", err)
	}

	return toCommit(commit), nil
}

// Head returns the current corpus revision hash.
func (h *CorpusHistory) Head(ctx context.Context) (string, error) {
	head, err := h.repo.Head()
	if err != nil {
		return "", fmt.Errorf("get HEAD: %w", err)
	}
	return head.Hash().String(), nil
}

func (h *CorpusHistory) Log(ctx context.Context, limit int) ([]*Commit, error) {
	iter, err := h.repo.Log(&git.LogOptions{})
	if err != nil {
		return nil, fmt.Errorf("get log: %w", err)
	}
	defer iter.Close()

	var commits []*Commit
	count := 0

	err = iter.ForEach(func(c *object.Commit) error {
		if limit > 0 && count >= limit {
			return io.EOF
		}
		commits = append(commits, toCommit(c))
		count++
		return nil
	})
	if err != nil && err != io.EOF {
		return nil, err
	}

	return commits, nil
}

// Revert resets the corpus to an earlier revision, e.g. the last one that
// passed the gate.
func (h *CorpusHistory) Revert(ctx context.Context, ref string) error {
	resolved, err := h.repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return fmt.Errorf("resolve ref: %w", err)
	}

	if err := h.worktree.Reset(&git.ResetOptions{
		Commit: *resolved,
		Mode:   git.HardReset,
	}); err != nil {
		return fmt.Errorf("reset: %w", err)
	}

	return nil
}

func toCommit(c *object.Commit) *Commit {
	var parents []string
	for _, p := range c.ParentHashes {
		parents = append(parents, p.String())
	}

	return &Commit{
		Hash:      c.Hash.String(),
		Message:   strings.TrimSpace(c.Message),
		Author:    c.Author.Name,
		Timestamp: c.Author.When,
		Parents:   parents,
	}
}
