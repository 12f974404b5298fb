/*
Copyright 2026 Assistbot Authors
SPDX-License-Identifier: Apache-2.0
*/

package gitstate

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// initRepo creates a temporary git repo with one initial commit and returns
// the worktree, the repo root, and the initial commit SHA.
func initRepo(t *testing.T) (*gogit.Worktree, string, string) {
	t.Helper()

	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	if err != nil {
		t.Fatal(err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatal(err)
	}

	base := commitFile(t, wt, dir, "README.md", "hello", "initial commit")
	return wt, dir, base
}

func commitFile(t *testing.T, wt *gogit.Worktree, dir, name, content, message string) string {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := wt.Add(name); err != nil {
		t.Fatal(err)
	}
	hash, err := wt.Commit(message, &gogit.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@test", When: time.Now()},
	})
	if err != nil {
		t.Fatal(err)
	}
	return hash.String()
}

func TestCommitsSince(t *testing.T) {
	wt, dir, base := initRepo(t)

	t.Run("no new commits", func(t *testing.T) {
		commits, err := CommitsSince(dir, base)
		if err != nil {
			t.Fatalf("CommitsSince: %v", err)
		}
		if len(commits) != 0 {
			t.Errorf("commits = %v, want none", commits)
		}
	})

	second := commitFile(t, wt, dir, "a.txt", "a", "add a\n\nlong description")
	third := commitFile(t, wt, dir, "b.txt", "b", "add b")

	t.Run("new commits oldest first", func(t *testing.T) {
		commits, err := CommitsSince(dir, base)
		if err != nil {
			t.Fatalf("CommitsSince: %v", err)
		}
		want := []Commit{
			{SHA: second, Message: "add a", Author: "test"},
			{SHA: third, Message: "add b", Author: "test"},
		}
		if diff := cmp.Diff(want, commits, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("commits mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("unknown base", func(t *testing.T) {
		if _, err := CommitsSince(dir, "0000000000000000000000000000000000000000"); err == nil {
			t.Error("CommitsSince succeeded with unknown base, want error")
		}
	})

	t.Run("not a repository", func(t *testing.T) {
		if _, err := CommitsSince(t.TempDir(), base); err == nil {
			t.Error("CommitsSince succeeded outside a repo, want error")
		}
	})
}

func TestDirty(t *testing.T) {
	wt, dir, _ := initRepo(t)

	dirty, err := Dirty(dir)
	if err != nil {
		t.Fatalf("Dirty: %v", err)
	}
	if dirty {
		t.Error("Dirty = true for a clean worktree")
	}

	if err := os.WriteFile(filepath.Join(dir, "scratch.txt"), []byte("wip"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := wt.Add("scratch.txt"); err != nil {
		t.Fatal(err)
	}

	dirty, err = Dirty(dir)
	if err != nil {
		t.Fatalf("Dirty: %v", err)
	}
	if !dirty {
		t.Error("Dirty = false with staged changes")
	}
}
