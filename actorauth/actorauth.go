/*
Copyright 2026 Assistbot Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package actorauth authorizes the actor behind a triggering event: humans
// by account type and repository permission, bots by an explicit allowlist.
package actorauth

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/go-github/v84/github"
)

// UserGetter is the slice of the GitHub users API the authorizer needs.
// *github.UsersService satisfies it.
type UserGetter interface {
	Get(ctx context.Context, login string) (*github.User, *github.Response, error)
}

// PermissionGetter is the slice of the GitHub repositories API the
// authorizer needs. *github.RepositoriesService satisfies it.
type PermissionGetter interface {
	GetPermissionLevel(ctx context.Context, owner, repo, user string) (*github.RepositoryPermissionLevel, *github.Response, error)
}

// UnauthorizedActorError reports an actor that may not trigger runs.
type UnauthorizedActorError struct {
	Actor       string
	AccountType string
	AllowedBots []string
}

func (e *UnauthorizedActorError) Error() string {
	return fmt.Sprintf("actor %q (account type %s) is not allowed to trigger runs; allowed bots: %v",
		e.Actor, e.AccountType, e.AllowedBots)
}

// PermissionCheckError reports that the permission lookup itself failed, as
// opposed to a successful lookup that found insufficient access.
type PermissionCheckError struct {
	Actor string
	Err   error
}

func (e *PermissionCheckError) Error() string {
	return fmt.Sprintf("checking permissions for %q: %v", e.Actor, e.Err)
}

func (e *PermissionCheckError) Unwrap() error { return e.Err }

// CheckAllowedActor verifies that the actor is a human account or an
// allowlisted bot. Bot allowlist matching is exact and case-sensitive.
// Every other account type, including Organization, is rejected.
func CheckAllowedActor(ctx context.Context, users UserGetter, actor string, allowedBots []string) error {
	user, _, err := users.Get(ctx, actor)
	if err != nil {
		return fmt.Errorf("fetching actor %q: %w", actor, err)
	}
	accountType := user.GetType()
	switch accountType {
	case "User":
		return nil
	case "Bot":
		if slices.Contains(allowedBots, actor) {
			return nil
		}
	}
	return &UnauthorizedActorError{Actor: actor, AccountType: accountType, AllowedBots: allowedBots}
}

// CheckWritePermissions reports whether the actor can write to owner/repo.
// Allowlisted bots pass without consulting the API. Lookup failures
// propagate as a PermissionCheckError, never as a boolean.
func CheckWritePermissions(ctx context.Context, repos PermissionGetter, owner, repo, actor string, allowedBots []string) (bool, error) {
	if slices.Contains(allowedBots, actor) {
		return true, nil
	}
	level, _, err := repos.GetPermissionLevel(ctx, owner, repo, actor)
	if err != nil {
		return false, &PermissionCheckError{Actor: actor, Err: err}
	}
	switch level.GetPermission() {
	case "admin", "write":
		return true, nil
	}
	return false, nil
}
