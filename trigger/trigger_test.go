/*
Copyright 2026 Assistbot Authors
SPDX-License-Identifier: Apache-2.0
*/

package trigger

import (
	"testing"

	"github.com/assistbot/mention-action/eventcontext"
	"github.com/google/go-github/v84/github"
)

func TestMatchesWord(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		token string
		want  bool
	}{{
		name:  "bare mention",
		text:  "@claude",
		token: "@claude",
		want:  true,
	}, {
		name:  "mention at start",
		text:  "@claude fix this",
		token: "@claude",
		want:  true,
	}, {
		name:  "mention at end",
		text:  "this needs @claude",
		token: "@claude",
		want:  true,
	}, {
		name:  "mention mid-sentence",
		text:  "hey @claude can you help",
		token: "@claude",
		want:  true,
	}, {
		name:  "followed by comma",
		text:  "@claude, can you help?",
		token: "@claude",
		want:  true,
	}, {
		name:  "followed by period",
		text:  "ping @claude.",
		token: "@claude",
		want:  true,
	}, {
		name:  "followed by question mark",
		text:  "thoughts, @claude?",
		token: "@claude",
		want:  true,
	}, {
		name:  "followed by colon",
		text:  "@claude: summarize this thread",
		token: "@claude",
		want:  true,
	}, {
		name:  "preceded by newline",
		text:  "first line\n@claude second line",
		token: "@claude",
		want:  true,
	}, {
		name:  "embedded in a longer handle",
		text:  "@claudette wrote this",
		token: "@claude",
		want:  false,
	}, {
		name:  "embedded in a word",
		text:  "claudette wrote this",
		token: "@claude",
		want:  false,
	}, {
		name:  "embedded in an email address",
		text:  "mail me at hi@claude.com",
		token: "@claude",
		want:  false,
	}, {
		name:  "wrong case",
		text:  "@Claude please",
		token: "@claude",
		want:  false,
	}, {
		name:  "followed by dash",
		text:  "@claude-bot please",
		token: "@claude",
		want:  false,
	}, {
		name:  "empty text",
		text:  "",
		token: "@claude",
		want:  false,
	}, {
		name:  "empty token",
		text:  "@claude",
		token: "",
		want:  false,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchesWord(tt.text, tt.token); got != tt.want {
				t.Errorf("MatchesWord(%q, %q) = %v, want %v", tt.text, tt.token, got, tt.want)
			}
		})
	}
}

func TestWordPatternEscapesMetacharacters(t *testing.T) {
	// A phrase full of regex metacharacters must match only its literal text.
	phrase := "hey.*claude(+)"
	if !MatchesWord("well hey.*claude(+) hello", phrase) {
		t.Errorf("literal occurrence of %q did not match", phrase)
	}
	if MatchesWord("hey!!claude(+) hello", phrase) {
		t.Errorf("%q matched non-literal text", phrase)
	}
	if MatchesWord("heyXclaudeY hello", phrase) {
		t.Errorf("%q matched as a pattern", phrase)
	}
}

func defaultConfig() *eventcontext.Config {
	return &eventcontext.Config{TriggerPhrase: eventcontext.DefaultTriggerPhrase}
}

func commentContext(body string, cfg *eventcontext.Config) *eventcontext.EventContext {
	return &eventcontext.EventContext{
		EventName: "issue_comment",
		Action:    "created",
		Number:    1,
		Payload: &github.IssueCommentEvent{
			Action:  github.Ptr("created"),
			Issue:   &github.Issue{Number: github.Ptr(1)},
			Comment: &github.IssueComment{Body: github.Ptr(body)},
		},
		Config: cfg,
	}
}

func issueContext(action, title, body string, assignee string, cfg *eventcontext.Config) *eventcontext.EventContext {
	ev := &github.IssuesEvent{
		Action: github.Ptr(action),
		Issue: &github.Issue{
			Number: github.Ptr(2),
			Title:  github.Ptr(title),
			Body:   github.Ptr(body),
		},
	}
	if assignee != "" {
		ev.Assignee = &github.User{Login: github.Ptr(assignee)}
	}
	return &eventcontext.EventContext{
		EventName: "issues",
		Action:    action,
		Number:    2,
		Payload:   ev,
		Config:    cfg,
	}
}

func TestDetectMentions(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		wantTrigger  bool
		wantProvider Provider
	}{{
		name:         "claude mention in a comment",
		body:         "@claude, can you help?",
		wantTrigger:  true,
		wantProvider: ProviderClaude,
	}, {
		name:         "augment mention in a comment",
		body:         "@augment take a look",
		wantTrigger:  true,
		wantProvider: ProviderAugment,
	}, {
		name:         "augment wins when both are mentioned",
		body:         "@claude and @augment should both see this",
		wantTrigger:  true,
		wantProvider: ProviderAugment,
	}, {
		name:         "augment wins regardless of order",
		body:         "@augment after @claude",
		wantTrigger:  true,
		wantProvider: ProviderAugment,
	}, {
		name:        "embedded mention does not trigger",
		body:        "claudette and hi@claude.com say hi",
		wantTrigger: false,
	}, {
		name:        "unrelated comment",
		body:        "LGTM",
		wantTrigger: false,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Detect(commentContext(tt.body, defaultConfig()))
			if got.Triggered != tt.wantTrigger {
				t.Fatalf("Triggered = %v, want %v (reason %q)", got.Triggered, tt.wantTrigger, got.Reason)
			}
			if tt.wantTrigger && got.Provider != tt.wantProvider {
				t.Errorf("Provider = %q, want %q", got.Provider, tt.wantProvider)
			}
		})
	}
}

func TestDetectDirectPrompt(t *testing.T) {
	cfg := defaultConfig()
	cfg.DirectPrompt = "Update the dependencies"

	// Direct prompt outranks everything, including an @augment mention in
	// the event text.
	got := Detect(commentContext("@augment please", cfg))
	if !got.Triggered {
		t.Fatalf("Triggered = false, want true (reason %q)", got.Reason)
	}
	if got.Provider != ProviderClaude {
		t.Errorf("Provider = %q, want %q", got.Provider, ProviderClaude)
	}
}

func TestDetectAssigneeTrigger(t *testing.T) {
	tests := []struct {
		name     string
		trigger  string
		action   string
		assignee string
		want     bool
	}{{
		name:     "assignment matches with at-prefix stripped",
		trigger:  "@claude-helper",
		action:   "assigned",
		assignee: "claude-helper",
		want:     true,
	}, {
		name:     "assignment matches bare login",
		trigger:  "claude-helper",
		action:   "assigned",
		assignee: "claude-helper",
		want:     true,
	}, {
		name:     "different assignee",
		trigger:  "claude-helper",
		action:   "assigned",
		assignee: "someone-else",
		want:     false,
	}, {
		name:     "unassignment does not trigger",
		trigger:  "claude-helper",
		action:   "unassigned",
		assignee: "claude-helper",
		want:     false,
	}, {
		name:     "no assignee trigger configured",
		trigger:  "",
		action:   "assigned",
		assignee: "claude-helper",
		want:     false,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			cfg.AssigneeTrigger = tt.trigger
			got := Detect(issueContext(tt.action, "title", "body", tt.assignee, cfg))
			if got.Triggered != tt.want {
				t.Errorf("Triggered = %v, want %v (reason %q)", got.Triggered, tt.want, got.Reason)
			}
			if got.Triggered && got.Provider != ProviderClaude {
				t.Errorf("Provider = %q, want %q", got.Provider, ProviderClaude)
			}
		})
	}
}

func TestDetectCustomPhrase(t *testing.T) {
	cfg := defaultConfig()
	cfg.TriggerPhrase = "/assist"

	got := Detect(commentContext("/assist with this failure", cfg))
	if !got.Triggered || got.Provider != ProviderClaude {
		t.Fatalf("Detect = %+v, want claude trigger", got)
	}

	// The custom phrase does not match embedded.
	got = Detect(commentContext("we went/assisted them", cfg))
	if got.Triggered {
		t.Fatalf("Detect = %+v, want no trigger", got)
	}

	// Provider mentions still work alongside a custom phrase.
	got = Detect(commentContext("@augment hello", cfg))
	if !got.Triggered || got.Provider != ProviderAugment {
		t.Fatalf("Detect = %+v, want augment trigger", got)
	}
}

func TestDetectScansTitleAndBody(t *testing.T) {
	cfg := defaultConfig()

	// Augment wins across fields, not just within one.
	ec := issueContext("opened", "ask @claude about this", "@augment really", "", cfg)
	got := Detect(ec)
	if !got.Triggered || got.Provider != ProviderAugment {
		t.Fatalf("Detect = %+v, want augment across fields", got)
	}

	// Title alone still triggers.
	ec = issueContext("opened", "ask @claude about this", "no mentions here", "", cfg)
	got = Detect(ec)
	if !got.Triggered || got.Provider != ProviderClaude {
		t.Fatalf("Detect = %+v, want claude via title", got)
	}

	// Edited issues carry no candidate text.
	ec = issueContext("edited", "ask @claude about this", "@claude too", "", cfg)
	if got = Detect(ec); got.Triggered {
		t.Fatalf("Detect = %+v, want no trigger for edited issues", got)
	}
}
