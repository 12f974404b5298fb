/*
Copyright 2026 Assistbot Authors
SPDX-License-Identifier: Apache-2.0
*/

package trigger

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/assistbot/mention-action/eventcontext"
)

// Provider identifies which AI assistant a trigger selects.
type Provider string

const (
	ProviderClaude  Provider = "claude"
	ProviderAugment Provider = "augment"
)

// Result reports whether an event should start a run, which provider it
// selected, and a human-readable reason for the decision either way.
type Result struct {
	Triggered bool
	Provider  Provider
	Reason    string
}

const (
	mentionAugment = "@augment"
	mentionClaude  = "@claude"
)

var (
	augmentPattern = wordPattern(mentionAugment)
	claudePattern  = wordPattern(mentionClaude)
)

// Detect decides whether the event should start a run. Checks run in
// priority order: explicit direct prompt, issue-assignment trigger, provider
// mentions, then the configured trigger phrase. Detection never errors; an
// event that matches nothing yields Result{Triggered: false}.
func Detect(ec *eventcontext.EventContext) Result {
	cfg := ec.Config

	if cfg.DirectPrompt != "" {
		return Result{Triggered: true, Provider: ProviderClaude, Reason: "direct prompt provided"}
	}

	if want := strings.TrimPrefix(cfg.AssigneeTrigger, "@"); want != "" {
		if ec.EventName == "issues" && ec.Action == "assigned" && ec.AssigneeLogin() == want {
			return Result{Triggered: true, Provider: ProviderClaude, Reason: fmt.Sprintf("issue assigned to %s", want)}
		}
	}

	texts := ec.Texts()

	for _, text := range texts {
		if augmentPattern.MatchString(text) {
			return Result{Triggered: true, Provider: ProviderAugment, Reason: mentionAugment + " mention"}
		}
	}
	for _, text := range texts {
		if claudePattern.MatchString(text) {
			return Result{Triggered: true, Provider: ProviderClaude, Reason: mentionClaude + " mention"}
		}
	}

	if cfg.TriggerPhrase != "" {
		pattern := wordPattern(cfg.TriggerPhrase)
		for _, text := range texts {
			if pattern.MatchString(text) {
				return Result{Triggered: true, Provider: ProviderClaude, Reason: fmt.Sprintf("trigger phrase %q", cfg.TriggerPhrase)}
			}
		}
	}

	return Result{Reason: "no trigger in event"}
}

// MatchesWord reports whether token appears in text as a whole word under
// the package's boundary rule.
func MatchesWord(text, token string) bool {
	if token == "" {
		return false
	}
	return wordPattern(token).MatchString(text)
}

// wordPattern compiles the whole-word matcher for a literal token: preceded
// by start-of-string or whitespace, followed by end-of-string, whitespace,
// or sentence punctuation.
func wordPattern(token string) *regexp.Regexp {
	return regexp.MustCompile(`(?:^|\s)` + regexp.QuoteMeta(token) + `(?:$|[\s.,!?;:])`)
}
