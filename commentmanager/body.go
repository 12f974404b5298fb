/*
Copyright 2026 Assistbot Authors
SPDX-License-Identifier: Apache-2.0
*/

package commentmanager

import (
	"fmt"
	"strings"
	"time"

	"github.com/assistbot/mention-action/clidispatch"
	"github.com/assistbot/mention-action/gitstate"
)

// WorkingBody renders the initial tracking comment, posted before the tool
// starts so the requester gets immediate feedback.
func WorkingBody(runURL string) string {
	var sb strings.Builder
	sb.WriteString(Marker)
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("⏳ Working on this request… ([view run](%s))\n", runURL))
	return sb.String()
}

// OutcomeBody renders the final tracking comment after the tool has run.
func OutcomeBody(runURL string, out *clidispatch.Outcome, commits []gitstate.Commit) string {
	var sb strings.Builder
	sb.WriteString(Marker)
	sb.WriteString("\n\n")

	elapsed := out.Duration.Round(time.Second)
	switch {
	case out.TimedOut:
		sb.WriteString(fmt.Sprintf("❌ Timed out after %s.", elapsed))
	case out.Conclusion == clidispatch.ConclusionSuccess:
		sb.WriteString(fmt.Sprintf("✅ Finished in %s.", elapsed))
	default:
		sb.WriteString(fmt.Sprintf("❌ Failed with exit code %d after %s.", out.ExitCode, elapsed))
	}
	sb.WriteString(fmt.Sprintf(" ([view run](%s))\n", runURL))

	if len(commits) > 0 {
		sb.WriteString("\n**Commits:**\n")
		for _, c := range commits {
			sb.WriteString(fmt.Sprintf("- `%s` %s\n", shortSHA(c.SHA), c.Message))
		}
	}

	return sb.String()
}

// FailureBody renders the tracking comment for runs that never produced an
// outcome, such as authorization failures or a tool that could not start.
func FailureBody(runURL string, err error) string {
	var sb strings.Builder
	sb.WriteString(Marker)
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("❌ Run failed: %v\n", err))
	sb.WriteString(fmt.Sprintf("\n[View run](%s)\n", runURL))
	return sb.String()
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
