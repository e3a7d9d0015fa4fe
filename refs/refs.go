// Package refs resolves the image tag for a build from git state: either the
// local working copy's HEAD or the tip of a named remote branch.
package refs

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/jtarchie/launchpad/config"
)

// ErrBranchNotFound is returned when the named branch does not exist on the
// remote.
var ErrBranchNotFound = errors.New("branch not found on remote")

// short hashes match what `git rev-parse --short` prints by default.
const shortHashLength = 7

// Lister enumerates the references a remote advertises. *git.Remote
// satisfies it.
type Lister interface {
	List(options *git.ListOptions) ([]*plumbing.Reference, error)
}

// ResolveBranch maps the configured branch selector to a short commit hash
// usable as an image tag. The sentinel selector resolves against the local
// repository's HEAD; anything else resolves against the tip of that branch
// on the "origin" remote.
//
// A local dev build is therefore tagged with a commit hash that was never
// pushed under a branch name, so a later pull by branch cannot find it. That
// mismatch is inherited behavior; callers building locally should push with
// an explicit --version instead.
func ResolveBranch(repoPath, branch string) (string, error) {
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		return "", fmt.Errorf("could not open repository %q: %w", repoPath, err)
	}

	if branch == config.DevBranch {
		head, err := repo.Head()
		if err != nil {
			return "", fmt.Errorf("could not resolve HEAD: %w", err)
		}

		return ShortHash(head.Hash()), nil
	}

	remote, err := repo.Remote(git.DefaultRemoteName)
	if err != nil {
		return "", fmt.Errorf("could not find remote %q: %w", git.DefaultRemoteName, err)
	}

	return ResolveRemoteBranch(remote, branch)
}

// ResolveRemoteBranch returns the short hash of the branch's current tip as
// advertised by the remote.
func ResolveRemoteBranch(remote Lister, branch string) (string, error) {
	references, err := remote.List(&git.ListOptions{})
	if err != nil {
		return "", fmt.Errorf("could not list remote references: %w", err)
	}

	want := plumbing.NewBranchReferenceName(branch)

	for _, reference := range references {
		if reference.Name() == want {
			return ShortHash(reference.Hash()), nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrBranchNotFound, branch)
}

// ShortHash abbreviates a commit hash to the length used for image tags.
func ShortHash(hash plumbing.Hash) string {
	return hash.String()[:shortHashLength]
}
