// Package git creates the initial repository for a freshly scaffolded project.
package git

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// InitialCommitMessage is used for the first commit of every project.
const InitialCommitMessage = "Initial commit from vitetail"

// ErrAlreadyRepository is returned when the project directory already holds
// a git repository.
var ErrAlreadyRepository = errors.New("directory is already a git repository")

// Author signs the initial commit.
type Author struct {
	Name  string
	Email string
}

// CommitResult represents the outcome of repository initialization.
type CommitResult struct {
	Committed bool // false when there was nothing to commit
	Hash      string
	Files     int // number of staged paths
}

// InitRepository runs git init in dir, stages everything not excluded by
// the project's .gitignore and records the initial commit.
func InitRepository(dir string, author Author) (*CommitResult, error) {
	repo, err := git.PlainInit(dir, false)
	if errors.Is(err, git.ErrRepositoryAlreadyExists) {
		return nil, ErrAlreadyRepository
	}
	if err != nil {
		return nil, fmt.Errorf("failed to init repository: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}

	// Equivalent to git add -A; ignored paths such as node_modules stay out.
	if err := worktree.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return nil, fmt.Errorf("failed to stage files: %w", err)
	}

	status, err := worktree.Status()
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}

	staged := 0
	for _, s := range status {
		if s.Staging != git.Unmodified && s.Staging != git.Untracked {
			staged++
		}
	}
	if staged == 0 {
		return &CommitResult{Committed: false}, nil
	}

	hash, err := worktree.Commit(InitialCommitMessage, &git.CommitOptions{
		Author: &object.Signature{
			Name:  author.Name,
			Email: author.Email,
			When:  time.Now(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}

	return &CommitResult{
		Committed: true,
		Hash:      hash.String(),
		Files:     staged,
	}, nil
}
