/*
Copyright 2026 Assistbot Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package housekeeping cleans up repository state a run leaves behind, such
// as work branches the tool created but never committed to.
package housekeeping

import (
	"context"
	"fmt"

	"github.com/chainguard-dev/clog"
	"github.com/google/go-github/v84/github"
)

// RepoComparer is the slice of the GitHub repositories API branch cleanup
// needs. *github.RepositoriesService satisfies it.
type RepoComparer interface {
	CompareCommits(ctx context.Context, owner, repo, base, head string, opts *github.ListOptions) (*github.CommitsComparison, *github.Response, error)
}

// GitService is the slice of the GitHub git data API branch cleanup needs.
// *github.GitService satisfies it.
type GitService interface {
	DeleteRef(ctx context.Context, owner, repo, ref string) (*github.Response, error)
}

// CleanupBranch deletes branch if it has no commits beyond base, reporting
// whether it deleted anything. Branches with commits are always kept.
func CleanupBranch(ctx context.Context, git GitService, repos RepoComparer, owner, repo, base, branch string) (bool, error) {
	log := clog.FromContext(ctx)

	comparison, _, err := repos.CompareCommits(ctx, owner, repo, base, branch, &github.ListOptions{PerPage: 1})
	if err != nil {
		return false, fmt.Errorf("comparing %s...%s: %w", base, branch, err)
	}
	if n := comparison.GetTotalCommits(); n > 0 {
		log.Infof("Keeping branch %s with %d commits", branch, n)
		return false, nil
	}

	log.Infof("Deleting branch %s with no commits", branch)
	if _, err := git.DeleteRef(ctx, owner, repo, "heads/"+branch); err != nil {
		return false, fmt.Errorf("deleting branch %s: %w", branch, err)
	}
	return true, nil
}
