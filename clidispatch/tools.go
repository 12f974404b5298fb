/*
Copyright 2026 Assistbot Authors
SPDX-License-Identifier: Apache-2.0
*/

package clidispatch

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ToolID names a dispatchable AI CLI tool.
type ToolID string

const (
	ToolClaude  ToolID = "claude-cli"
	ToolGemini  ToolID = "gemini-cli"
	ToolCodex   ToolID = "codex-cli"
	ToolAugment ToolID = "augment-cli"
)

// SupportedTools lists the dispatchable tools in stable order.
func SupportedTools() []ToolID {
	return []ToolID{ToolClaude, ToolGemini, ToolCodex, ToolAugment}
}

// UnsupportedToolError reports a tool id outside the supported set.
type UnsupportedToolError struct {
	ID        ToolID
	Supported []ToolID
}

func (e *UnsupportedToolError) Error() string {
	names := make([]string, 0, len(e.Supported))
	for _, id := range e.Supported {
		names = append(names, string(id))
	}
	return fmt.Sprintf("unsupported CLI tool %q; supported tools: %s", e.ID, strings.Join(names, ", "))
}

// Options carries the runtime configuration interpolated into a tool's
// argument template. Zero values mean "omit the flag".
type Options struct {
	PromptPath      string
	OutputPath      string
	AllowedTools    string
	DisallowedTools string
	Model           string
	MaxTurns        int
	MCPConfigPath   string
	APIKey          string
	UseBedrock      bool
	UseVertex       bool
	Install         bool
	Timeout         time.Duration
}

// Invocation is a fully resolved tool run: what to execute, with which
// arguments and environment overlay, and where the prompt and output live.
type Invocation struct {
	Tool       ToolID
	Command    string
	Args       []string
	Env        []string // KEY=value entries appended to the inherited environment
	Install    *InstallStep
	PromptPath string
	OutputPath string
	Timeout    time.Duration
}

// InstallStep installs the tool before the main run.
type InstallStep struct {
	Command string
	Args    []string
}

// Resolve maps a tool id and options onto a concrete Invocation. The switch
// is exhaustive over the supported set; unknown ids fail before any
// subprocess work.
func Resolve(id ToolID, opts Options) (*Invocation, error) {
	inv := &Invocation{
		Tool:       id,
		PromptPath: opts.PromptPath,
		OutputPath: opts.OutputPath,
		Timeout:    opts.Timeout,
	}

	switch id {
	case ToolClaude:
		inv.Command = "claude"
		inv.Args = []string{"-p", "--verbose", "--output-format", "stream-json"}
		if opts.AllowedTools != "" {
			inv.Args = append(inv.Args, "--allowedTools", opts.AllowedTools)
		}
		if opts.DisallowedTools != "" {
			inv.Args = append(inv.Args, "--disallowedTools", opts.DisallowedTools)
		}
		if opts.MaxTurns > 0 {
			inv.Args = append(inv.Args, "--max-turns", strconv.Itoa(opts.MaxTurns))
		}
		inv.Args = appendModel(inv.Args, opts.Model)
		if opts.MCPConfigPath != "" {
			inv.Args = append(inv.Args, "--mcp-config", opts.MCPConfigPath)
		}
		inv.Env = appendKey(inv.Env, "ANTHROPIC_API_KEY", opts.APIKey)
		if opts.UseBedrock {
			inv.Env = append(inv.Env, "CLAUDE_CODE_USE_BEDROCK=1")
		}
		if opts.UseVertex {
			inv.Env = append(inv.Env, "CLAUDE_CODE_USE_VERTEX=1")
		}
		if opts.Install {
			inv.Install = npmInstall("@anthropic-ai/claude-code")
		}

	case ToolGemini:
		inv.Command = "gemini"
		inv.Args = []string{"--yolo"}
		inv.Args = appendModel(inv.Args, opts.Model)
		inv.Env = appendKey(inv.Env, "GEMINI_API_KEY", opts.APIKey)
		if opts.Install {
			inv.Install = npmInstall("@google/gemini-cli")
		}

	case ToolCodex:
		inv.Command = "codex"
		inv.Args = []string{"exec", "--full-auto"}
		inv.Args = appendModel(inv.Args, opts.Model)
		// Trailing "-" makes codex read the prompt from stdin.
		inv.Args = append(inv.Args, "-")
		inv.Env = appendKey(inv.Env, "OPENAI_API_KEY", opts.APIKey)
		if opts.Install {
			inv.Install = npmInstall("@openai/codex")
		}

	case ToolAugment:
		inv.Command = "auggie"
		inv.Args = []string{"--print", "--quiet"}
		inv.Args = appendModel(inv.Args, opts.Model)
		inv.Env = appendKey(inv.Env, "AUGMENT_API_TOKEN", opts.APIKey)
		if opts.Install {
			inv.Install = npmInstall("@augmentcode/auggie")
		}

	default:
		return nil, &UnsupportedToolError{ID: id, Supported: SupportedTools()}
	}

	return inv, nil
}

func appendModel(args []string, model string) []string {
	if model == "" {
		return args
	}
	return append(args, "--model", model)
}

func appendKey(env []string, key, value string) []string {
	if value == "" {
		return env
	}
	return append(env, key+"="+value)
}

func npmInstall(pkg string) *InstallStep {
	return &InstallStep{Command: "npm", Args: []string{"install", "-g", pkg}}
}
