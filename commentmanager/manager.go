/*
Copyright 2026 Assistbot Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package commentmanager maintains the single tracking comment that reports
// run progress back to the issue or pull request that triggered the run.
//
// The comment is identified by a hidden HTML marker rather than by stored
// state, so reruns of the workflow find and update the comment left by an
// earlier run instead of stacking new ones.
package commentmanager

import (
	"context"
	"fmt"
	"strings"

	"github.com/chainguard-dev/clog"
	"github.com/google/go-github/v84/github"
	"github.com/shurcooL/githubv4"
)

// Marker is embedded in every tracking comment body. Comment discovery
// matches on it verbatim, so it must never change between releases.
const Marker = "<!-- assistbot:mention-action -->"

// Manager finds, creates, and updates the tracking comment for one
// repository. Reads go through GraphQL to fetch the comment list in a single
// request; writes go through REST.
type Manager struct {
	rest  *github.Client
	gql   *githubv4.Client
	owner string
	repo  string
}

// New creates a Manager for the given repository.
func New(rest *github.Client, gql *githubv4.Client, owner, repo string) *Manager {
	return &Manager{
		rest:  rest,
		gql:   gql,
		owner: owner,
		repo:  repo,
	}
}

// GraphQL types for querying issue comments
type gqlCommentNode struct {
	DatabaseId int64
	Body       string
}

type gqlCommentsConnection struct {
	Nodes []gqlCommentNode
}

// EnsureTracking makes sure a tracking comment exists on the given issue or
// pull request and sets its body, returning the comment's database ID. An
// existing marked comment is edited in place; otherwise a new comment is
// created.
//
// Pull requests share the issue comment API, so review-triggered runs track
// on the PR conversation like everything else.
func (m *Manager) EnsureTracking(ctx context.Context, number int, body string) (int64, error) {
	log := clog.FromContext(ctx)

	id, found, err := m.findTracking(ctx, number)
	if err != nil {
		return 0, err
	}

	if found {
		log.Infof("Updating tracking comment %d on #%d", id, number)
		if err := m.Update(ctx, id, body); err != nil {
			return 0, err
		}
		return id, nil
	}

	log.Infof("Creating tracking comment on #%d", number)
	comment, _, err := m.rest.Issues.CreateComment(ctx, m.owner, m.repo, number, &github.IssueComment{
		Body: github.Ptr(body),
	})
	if err != nil {
		return 0, fmt.Errorf("creating tracking comment on #%d: %w", number, err)
	}
	return comment.GetID(), nil
}

// Update rewrites the body of an existing tracking comment.
func (m *Manager) Update(ctx context.Context, id int64, body string) error {
	if _, _, err := m.rest.Issues.EditComment(ctx, m.owner, m.repo, id, &github.IssueComment{
		Body: github.Ptr(body),
	}); err != nil {
		return fmt.Errorf("updating tracking comment %d: %w", id, err)
	}
	return nil
}

// findTracking looks for an existing marked comment among the most recent
// comments on the issue or pull request. issueOrPullRequest handles both
// kinds of number, which matters because issue numbers and PR numbers share
// one sequence.
func (m *Manager) findTracking(ctx context.Context, number int) (int64, bool, error) {
	var q struct {
		Repository struct {
			IssueOrPullRequest struct {
				Issue struct {
					Comments gqlCommentsConnection `graphql:"comments(last: 100)"`
				} `graphql:"... on Issue"`
				PullRequest struct {
					Comments gqlCommentsConnection `graphql:"comments(last: 100)"`
				} `graphql:"... on PullRequest"`
			} `graphql:"issueOrPullRequest(number: $number)"`
		} `graphql:"repository(owner: $owner, name: $repo)"`
	}

	variables := map[string]any{
		"owner":  githubv4.String(m.owner),
		"repo":   githubv4.String(m.repo),
		"number": githubv4.Int(number),
	}

	if err := m.gql.Query(ctx, &q, variables); err != nil {
		return 0, false, fmt.Errorf("querying comments on #%d: %w", number, err)
	}

	// Only one of the union fragments is populated.
	nodes := q.Repository.IssueOrPullRequest.Issue.Comments.Nodes
	nodes = append(nodes, q.Repository.IssueOrPullRequest.PullRequest.Comments.Nodes...)

	id, found := latestMarked(nodes)
	return id, found, nil
}

// latestMarked returns the database ID of the newest comment carrying the
// tracking marker. Comments arrive oldest-first, so the last match wins.
func latestMarked(nodes []gqlCommentNode) (int64, bool) {
	var (
		id    int64
		found bool
	)
	for _, n := range nodes {
		if strings.Contains(n.Body, Marker) {
			id = n.DatabaseId
			found = true
		}
	}
	return id, found
}
