/*
Copyright 2026 Assistbot Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package trigger decides whether a GitHub event should start an assistant
// run, and which AI provider the run should use.
//
// Detection runs a fixed priority ladder; the first rung that matches wins:
//
//  1. Direct prompt. A non-empty direct_prompt input triggers
//     unconditionally and selects claude. No event text is consulted.
//  2. Assignee trigger. An issue assigned to the configured login (leading
//     "@" ignored) triggers and selects claude.
//  3. Mention scan. The event's text fields are scanned in order, bodies
//     before titles, for the provider mentions "@augment" and "@claude". If
//     "@augment" appears anywhere, the run uses augment even when "@claude"
//     also appears.
//  4. Trigger phrase. The configured phrase (default "@claude") is matched
//     literally as a fallback and selects claude.
//
// # Word boundaries
//
// Mentions and phrases only count as whole words: the match must be preceded
// by start-of-string or whitespace, and followed by end-of-string,
// whitespace, or sentence punctuation (. , ! ? ; :). This keeps embedded
// occurrences from triggering runs:
//
//	"@claude fix this"          triggers
//	"hey @claude, thoughts?"    triggers
//	"claudette wrote this"      does not trigger
//	"mail me at hi@claude.com"  does not trigger
//
// Matching is case-sensitive throughout, and configured phrases are treated
// as literal text (regex metacharacters have no effect).
//
// # Which events carry text
//
// Only user-authored text is scanned: bodies of new issues and pull requests
// (then their titles), issue comments, submitted or edited reviews, and
// review comments. Other events and actions never trigger via text.
package trigger
