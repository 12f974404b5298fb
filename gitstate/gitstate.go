/*
Copyright 2026 Assistbot Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package gitstate inspects the local checkout after a tool run to report
// what the tool actually changed.
package gitstate

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	gogit "github.com/go-git/go-git/v5"
)

// Commit is one commit added on top of the base revision.
type Commit struct {
	SHA     string
	Message string
	Author  string
}

// CommitsSince opens the repository at dir and returns the commits reachable
// from HEAD but not from baseSHA, oldest first. A HEAD equal to the base
// yields nil; a base missing from HEAD's history is an error.
func CommitsSince(dir, baseSHA string) ([]Commit, error) {
	repo, err := gogit.PlainOpen(dir)
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", dir, err)
	}
	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolving HEAD: %w", err)
	}
	if head.Hash().String() == baseSHA {
		return nil, nil
	}

	iter, err := repo.Log(&gogit.LogOptions{From: head.Hash()})
	if err != nil {
		return nil, fmt.Errorf("walking history: %w", err)
	}
	defer iter.Close()

	var commits []Commit
	found := false
	for {
		c, err := iter.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("walking history: %w", err)
		}
		if c.Hash.String() == baseSHA {
			found = true
			break
		}
		commits = append(commits, Commit{
			SHA:     c.Hash.String(),
			Message: firstLine(c.Message),
			Author:  c.Author.Name,
		})
	}
	if !found {
		return nil, fmt.Errorf("base commit %s not found in history", baseSHA)
	}

	slices.Reverse(commits)
	return commits, nil
}

// Dirty reports whether the worktree at dir has uncommitted changes.
func Dirty(dir string) (bool, error) {
	repo, err := gogit.PlainOpen(dir)
	if err != nil {
		return false, fmt.Errorf("opening repository at %s: %w", dir, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("resolving worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return false, fmt.Errorf("reading worktree status: %w", err)
	}
	return !status.IsClean(), nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
