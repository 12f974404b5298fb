/*
Copyright 2026 Assistbot Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package runner executes the mention pipeline for one workflow invocation:
// detect a trigger, authorize the actor, post a tracking comment, dispatch
// the AI tool, and report what happened.
package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chainguard-dev/clog"
	"github.com/sethvargo/go-githubactions"

	"github.com/assistbot/mention-action/actorauth"
	"github.com/assistbot/mention-action/clidispatch"
	"github.com/assistbot/mention-action/commentmanager"
	"github.com/assistbot/mention-action/eventcontext"
	"github.com/assistbot/mention-action/gitstate"
	"github.com/assistbot/mention-action/housekeeping"
	"github.com/assistbot/mention-action/trigger"
)

// Names of the files the run leaves in the runner temp directory.
const (
	promptFileName = "prompt.txt"
	outputFileName = "execution-output.json"
)

// CommentTracker is the slice of the comment manager the pipeline needs.
// *commentmanager.Manager satisfies it.
type CommentTracker interface {
	EnsureTracking(ctx context.Context, number int, body string) (int64, error)
	Update(ctx context.Context, id int64, body string) error
}

// Deps are the injected collaborators for one pipeline run. Every field must
// be set; cmd wires the production implementations and tests substitute
// fakes per stage.
type Deps struct {
	Users    actorauth.UserGetter
	Perms    actorauth.PermissionGetter
	Comments CommentTracker
	Git      housekeeping.GitService
	Repos    housekeeping.RepoComparer

	Invoke       func(context.Context, *clidispatch.Invocation) (*clidispatch.Outcome, error)
	CommitsSince func(dir, baseSHA string) ([]gitstate.Commit, error)

	Actions *githubactions.Action
}

// Run executes the pipeline for the event in ec. An event that matches no
// trigger is a successful no-op. Authorization and dispatch failures are
// reported to the tracking comment before they propagate, so the requester
// learns the outcome without opening the workflow log.
func Run(ctx context.Context, deps *Deps, ec *eventcontext.EventContext) error {
	log := clog.FromContext(ctx)
	cfg := ec.Config

	res := trigger.Detect(ec)
	if !res.Triggered {
		log.Infof("Not triggered: %s", res.Reason)
		deps.Actions.SetOutput("contains_trigger", "false")
		return nil
	}
	log.With("provider", res.Provider).Infof("Triggered: %s", res.Reason)
	deps.Actions.SetOutput("contains_trigger", "true")
	deps.Actions.SetOutput("ai_provider", string(res.Provider))

	// fail reports a terminal error to the tracking comment once one exists.
	var commentID int64
	fail := func(err error) error {
		if commentID != 0 {
			if uerr := deps.Comments.Update(ctx, commentID, commentmanager.FailureBody(ec.RunURL, err)); uerr != nil {
				log.With("error", uerr).Warn("Failed to update tracking comment")
			}
		}
		return err
	}

	if err := actorauth.CheckAllowedActor(ctx, deps.Users, ec.Actor, cfg.AllowedBots); err != nil {
		return fail(err)
	}
	ok, err := actorauth.CheckWritePermissions(ctx, deps.Perms, ec.Owner, ec.Repo, ec.Actor, cfg.AllowedBots)
	if err != nil {
		return fail(err)
	}
	if !ok {
		return fail(fmt.Errorf("actor %q does not have write access to %s/%s", ec.Actor, ec.Owner, ec.Repo))
	}

	// Events without a conversation, such as a direct prompt on a push
	// workflow, run without a tracking comment.
	if ec.Number > 0 {
		if commentID, err = deps.Comments.EnsureTracking(ctx, ec.Number, commentmanager.WorkingBody(ec.RunURL)); err != nil {
			return fail(fmt.Errorf("posting tracking comment: %w", err))
		}
	}

	promptPath := filepath.Join(ec.TempDir, promptFileName)
	if err := os.WriteFile(promptPath, []byte(promptText(ec, res)), 0o600); err != nil {
		return fail(fmt.Errorf("writing prompt file: %w", err))
	}

	inv, err := clidispatch.Resolve(clidispatch.ToolID(cfg.CLITool), clidispatch.Options{
		PromptPath:      promptPath,
		OutputPath:      filepath.Join(ec.TempDir, outputFileName),
		AllowedTools:    cfg.AllowedTools,
		DisallowedTools: cfg.DisallowedTools,
		Model:           cfg.Model,
		MaxTurns:        cfg.MaxTurns,
		MCPConfigPath:   cfg.MCPConfig,
		APIKey:          cfg.APIKey,
		UseBedrock:      cfg.UseBedrock,
		UseVertex:       cfg.UseVertex,
		Install:         cfg.InstallCLI,
		Timeout:         cfg.Timeout,
	})
	if err != nil {
		return fail(err)
	}

	out, runErr := deps.Invoke(ctx, inv)
	if out == nil {
		// The tool never ran, so there is no outcome to report.
		return fail(runErr)
	}

	var commits []gitstate.Commit
	if ec.Workspace != "" && ec.BaseSHA != "" {
		if commits, err = deps.CommitsSince(ec.Workspace, ec.BaseSHA); err != nil {
			log.With("error", err).Warn("Failed to inspect checkout for commits")
			commits = nil
		}
	}

	if commentID != 0 {
		if err := deps.Comments.Update(ctx, commentID, commentmanager.OutcomeBody(ec.RunURL, out, commits)); err != nil {
			log.With("error", err).Warn("Failed to update tracking comment")
		}
	}
	deps.Actions.AddStepSummary(commentmanager.Summary(res, inv.Tool, out, commits))
	deps.Actions.SetOutput("conclusion", out.Conclusion)
	deps.Actions.SetOutput("execution_file", out.OutputPath)

	if cfg.CleanupBranch != "" {
		if err := cleanupBranch(ctx, deps, ec); err != nil {
			log.With("error", err).Warn("Failed to clean up branch")
		}
	}

	// Propagate the dispatch error so the workflow step fails with the tool.
	return runErr
}

// cleanupBranch deletes the configured work branch when the run left no
// commits on it.
func cleanupBranch(ctx context.Context, deps *Deps, ec *eventcontext.EventContext) error {
	base := ec.Config.BaseBranch
	if base == "" {
		base = "main"
	}
	_, err := housekeeping.CleanupBranch(ctx, deps.Git, deps.Repos, ec.Owner, ec.Repo, base, ec.Config.CleanupBranch)
	return err
}

// promptText assembles what the tool reads on stdin. A direct prompt is
// passed through verbatim; otherwise the event is summarized with the text
// that carried the trigger.
func promptText(ec *eventcontext.EventContext, res trigger.Result) string {
	if ec.Config.DirectPrompt != "" {
		return ec.Config.DirectPrompt
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "You are responding to a GitHub %s event in %s/%s", ec.EventName, ec.Owner, ec.Repo)
	if ec.Number > 0 {
		fmt.Fprintf(&sb, " (#%d)", ec.Number)
	}
	sb.WriteString(".\n")
	fmt.Fprintf(&sb, "Triggered by @%s: %s.\n", ec.Actor, res.Reason)
	if texts := ec.Texts(); len(texts) > 0 {
		sb.WriteString("\nRequest:\n")
		for _, t := range texts {
			sb.WriteString(t)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
