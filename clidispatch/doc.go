/*
Copyright 2026 Assistbot Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package clidispatch resolves which AI CLI tool to run and runs it as a
// subprocess.
//
// The tool table is a closed set: claude-cli, gemini-cli, codex-cli and
// augment-cli. Resolution is an exhaustive switch over the set, so adding a
// tool means adding a case; an id outside the set fails fast with an error
// that enumerates the supported tools, before any subprocess work.
//
// # Invocation model
//
// Resolve turns a tool id plus runtime options into a concrete Invocation:
// the command, a fixed argument template with optional flags appended, an
// environment overlay for the tool's credentials, and an optional install
// step. Invoke then executes it:
//
//  1. The install step, when present, runs first. A non-zero install aborts
//     the run with an InstallError.
//  2. The main command runs synchronously under a deadline applied at spawn.
//     The prompt streams in on stdin; stdout tees into a capped in-memory
//     buffer and the output artifact file.
//  3. The run concludes success exactly when the process exits zero.
//     Anything else, including a deadline kill, is a failure carrying the
//     exit code.
//
// # Output artifact
//
// Tools that emit structured output produce the artifact themselves via the
// stdout tee. The artifact file is created lazily on the first byte of
// output, so when a run ends with nothing at the expected path (the binary
// was missing, the process died before writing), Invoke synthesizes a
// minimal JSON record of the attempt: type, status, exit code, command line
// and timestamp. Downstream reporting can therefore always rely on the file
// existing.
//
// One subprocess runs at a time; there is no retry and no mid-run streaming
// to GitHub.
package clidispatch
