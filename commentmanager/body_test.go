/*
Copyright 2026 Assistbot Authors
SPDX-License-Identifier: Apache-2.0
*/

package commentmanager

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/assistbot/mention-action/clidispatch"
	"github.com/assistbot/mention-action/gitstate"
	"github.com/assistbot/mention-action/trigger"
)

const testRunURL = "https://github.com/octo/widgets/actions/runs/42"

func TestWorkingBody(t *testing.T) {
	body := WorkingBody(testRunURL)

	for _, s := range []string{Marker, testRunURL, "Working"} {
		if !strings.Contains(body, s) {
			t.Errorf("WorkingBody() missing %q in output:\n%s", s, body)
		}
	}
}

func TestOutcomeBody(t *testing.T) {
	tests := []struct {
		name     string
		out      *clidispatch.Outcome
		commits  []gitstate.Commit
		contains []string
		absent   []string
	}{{
		name: "success with commits",
		out: &clidispatch.Outcome{
			Conclusion: clidispatch.ConclusionSuccess,
			Duration:   90 * time.Second,
		},
		commits: []gitstate.Commit{
			{SHA: "0123456789abcdef0123456789abcdef01234567", Message: "Fix the widget", Author: "bot"},
			{SHA: "89abcdef", Message: "Add a test", Author: "bot"},
		},
		contains: []string{
			Marker,
			"✅ Finished in 1m30s.",
			testRunURL,
			"**Commits:**",
			"`0123456` Fix the widget",
			"`89abcde` Add a test",
		},
	}, {
		name: "failure with exit code",
		out: &clidispatch.Outcome{
			Conclusion: clidispatch.ConclusionFailure,
			ExitCode:   2,
			Duration:   5 * time.Second,
		},
		contains: []string{Marker, "❌ Failed with exit code 2 after 5s.", testRunURL},
		absent:   []string{"**Commits:**", "✅"},
	}, {
		name: "timed out",
		out: &clidispatch.Outcome{
			Conclusion: clidispatch.ConclusionFailure,
			ExitCode:   -1,
			Duration:   30 * time.Minute,
			TimedOut:   true,
		},
		contains: []string{Marker, "❌ Timed out after 30m0s."},
		absent:   []string{"exit code"},
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := OutcomeBody(testRunURL, tt.out, tt.commits)
			for _, s := range tt.contains {
				if !strings.Contains(body, s) {
					t.Errorf("OutcomeBody() missing %q in output:\n%s", s, body)
				}
			}
			for _, s := range tt.absent {
				if strings.Contains(body, s) {
					t.Errorf("OutcomeBody() unexpectedly contains %q:\n%s", s, body)
				}
			}
		})
	}
}

func TestFailureBody(t *testing.T) {
	body := FailureBody(testRunURL, errors.New("actor \"foo\" (account type Organization) is not allowed to trigger runs"))

	for _, s := range []string{Marker, "❌ Run failed:", "account type Organization", testRunURL} {
		if !strings.Contains(body, s) {
			t.Errorf("FailureBody() missing %q in output:\n%s", s, body)
		}
	}
}

func TestSummary(t *testing.T) {
	res := trigger.Result{
		Triggered: true,
		Provider:  trigger.ProviderClaude,
		Reason:    "mention of @claude found",
	}

	t.Run("with outcome", func(t *testing.T) {
		out := &clidispatch.Outcome{
			Conclusion: clidispatch.ConclusionSuccess,
			ExitCode:   0,
			Duration:   42 * time.Second,
		}
		commits := []gitstate.Commit{{SHA: "abc", Message: "m", Author: "a"}}

		md := Summary(res, clidispatch.ToolClaude, out, commits)
		for _, s := range []string{
			"## Mention run",
			"mention of @claude found",
			"claude-cli",
			"success",
			"42s",
			"Commits",
		} {
			if !strings.Contains(md, s) {
				t.Errorf("Summary() missing %q in output:\n%s", s, md)
			}
		}
	})

	t.Run("nil outcome", func(t *testing.T) {
		md := Summary(res, clidispatch.ToolClaude, nil, nil)
		for _, s := range []string{"Exit code", "Conclusion", "Duration"} {
			if strings.Contains(md, s) {
				t.Errorf("Summary() unexpectedly contains %q:\n%s", s, md)
			}
		}
		if !strings.Contains(md, "## Mention run") {
			t.Errorf("Summary() missing header in output:\n%s", md)
		}
	})
}
