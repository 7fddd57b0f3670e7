// Package gitinfo reads the revision of the git repository a site lives in.
package gitinfo

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"git.home.luguber.info/inful/mockingbird/internal/value"
)

// ErrNotRepository is returned when no repository encloses the directory.
var ErrNotRepository = errors.New("not a git repository")

// Revision describes the checked out commit.
type Revision struct {
	Commit string
	// Branch is empty for a detached HEAD.
	Branch string
}

// Short returns the abbreviated commit hash.
func (r Revision) Short() string {
	if len(r.Commit) > 8 {
		return r.Commit[:8]
	}
	return r.Commit
}

// Value exposes the revision to templates.
func (r Revision) Value() value.Value {
	return value.DictOf(value.Dict{
		"commit": value.String(r.Commit),
		"short":  value.String(r.Short()),
		"branch": value.String(r.Branch),
	})
}

// Lookup opens the repository enclosing dir and resolves HEAD. The
// repository is only read.
func Lookup(dir string) (Revision, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return Revision{}, ErrNotRepository
	}
	if err != nil {
		return Revision{}, fmt.Errorf("open repository: %w", err)
	}

	ref, err := repo.Head()
	if err != nil {
		return Revision{}, fmt.Errorf("resolve HEAD: %w", err)
	}
	rev := Revision{Commit: ref.Hash().String()}
	if ref.Name() != plumbing.HEAD && ref.Name().IsBranch() {
		rev.Branch = ref.Name().Short()
	}
	return rev, nil
}
