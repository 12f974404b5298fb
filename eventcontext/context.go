/*
Copyright 2026 Assistbot Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package eventcontext assembles the immutable per-invocation snapshot the
// rest of the action works from: the triggering GitHub event, where it
// happened, who caused it, and the effective merged configuration.
package eventcontext

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/go-github/v84/github"
	"github.com/sethvargo/go-envconfig"
	"github.com/sethvargo/go-githubactions"
)

// EventContext is built once in FromEnvironment and read-only afterwards.
type EventContext struct {
	EventName string
	Action    string
	Owner     string
	Repo      string
	Actor     string
	Number    int
	BaseSHA   string
	RunURL    string
	Workspace string
	TempDir   string

	// Payload is the typed webhook payload from github.ParseWebHook, e.g.
	// *github.IssueCommentEvent.
	Payload any

	Config *Config
}

// FromEnvironment assembles the EventContext for the current Actions run.
func FromEnvironment(ctx context.Context) (*EventContext, error) {
	ghc, err := githubactions.New().Context()
	if err != nil {
		return nil, fmt.Errorf("reading Actions context: %w", err)
	}
	owner, repo := ghc.Repo()
	if owner == "" || repo == "" {
		return nil, &MissingConfigurationError{Name: "GITHUB_REPOSITORY"}
	}
	if ghc.EventName == "" {
		return nil, &MissingConfigurationError{Name: "GITHUB_EVENT_NAME"}
	}
	if ghc.EventPath == "" {
		return nil, &MissingConfigurationError{Name: "GITHUB_EVENT_PATH"}
	}

	in, err := LoadInputs(ctx, envconfig.OsLookuper())
	if err != nil {
		return nil, err
	}
	fc := &FileConfig{}
	if ghc.Workspace != "" {
		if fc, err = LoadFileConfig(filepath.Join(ghc.Workspace, ConfigFilePath)); err != nil {
			return nil, err
		}
	}
	cfg, err := Merge(in, fc)
	if err != nil {
		return nil, err
	}

	payload, err := LoadEvent(ghc.EventName, ghc.EventPath)
	if err != nil {
		return nil, err
	}

	temp := os.Getenv("RUNNER_TEMP")
	if temp == "" {
		temp = os.TempDir()
	}

	ec := &EventContext{
		EventName: ghc.EventName,
		Owner:     owner,
		Repo:      repo,
		Actor:     ghc.Actor,
		BaseSHA:   ghc.SHA,
		RunURL:    fmt.Sprintf("%s/%s/actions/runs/%d", ghc.ServerURL, ghc.Repository, ghc.RunID),
		Workspace: ghc.Workspace,
		TempDir:   temp,
		Payload:   payload,
		Config:    cfg,
	}
	ec.Action, ec.Number = payloadFacts(payload)
	return ec, nil
}

// LoadEvent parses the webhook payload the runner wrote to disk into its
// typed representation.
func LoadEvent(eventName, payloadPath string) (any, error) {
	data, err := os.ReadFile(payloadPath)
	if err != nil {
		return nil, fmt.Errorf("reading event payload: %w", err)
	}
	payload, err := github.ParseWebHook(eventName, data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s event: %w", eventName, err)
	}
	return payload, nil
}

// payloadFacts extracts the action verb and conversation number common to
// the supported event types.
func payloadFacts(payload any) (action string, number int) {
	switch e := payload.(type) {
	case *github.IssuesEvent:
		return e.GetAction(), e.GetIssue().GetNumber()
	case *github.IssueCommentEvent:
		return e.GetAction(), e.GetIssue().GetNumber()
	case *github.PullRequestEvent:
		return e.GetAction(), e.GetPullRequest().GetNumber()
	case *github.PullRequestReviewEvent:
		return e.GetAction(), e.GetPullRequest().GetNumber()
	case *github.PullRequestReviewCommentEvent:
		return e.GetAction(), e.GetPullRequest().GetNumber()
	}
	return "", 0
}

// Texts returns the candidate text fields for mention scanning, in priority
// order: bodies before titles, and only for event/action pairs that carry
// user-authored text.
func (ec *EventContext) Texts() []string {
	var texts []string
	add := func(ss ...string) {
		for _, s := range ss {
			if s != "" {
				texts = append(texts, s)
			}
		}
	}
	switch e := ec.Payload.(type) {
	case *github.IssuesEvent:
		if e.GetAction() == "opened" {
			add(e.GetIssue().GetBody(), e.GetIssue().GetTitle())
		}
	case *github.IssueCommentEvent:
		add(e.GetComment().GetBody())
	case *github.PullRequestEvent:
		add(e.GetPullRequest().GetBody(), e.GetPullRequest().GetTitle())
	case *github.PullRequestReviewEvent:
		if a := e.GetAction(); a == "submitted" || a == "edited" {
			add(e.GetReview().GetBody())
		}
	case *github.PullRequestReviewCommentEvent:
		add(e.GetComment().GetBody())
	}
	return texts
}

// AssigneeLogin returns the login assigned by an issues/assigned event, or
// empty for every other payload.
func (ec *EventContext) AssigneeLogin() string {
	if e, ok := ec.Payload.(*github.IssuesEvent); ok && e.GetAction() == "assigned" {
		return e.GetAssignee().GetLogin()
	}
	return ""
}

// IsPullRequest reports whether the conversation is a pull request rather
// than an issue.
func (ec *EventContext) IsPullRequest() bool {
	switch e := ec.Payload.(type) {
	case *github.PullRequestEvent, *github.PullRequestReviewEvent, *github.PullRequestReviewCommentEvent:
		return true
	case *github.IssuesEvent:
		return e.GetIssue().IsPullRequest()
	case *github.IssueCommentEvent:
		return e.GetIssue().IsPullRequest()
	}
	return false
}
