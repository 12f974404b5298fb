/*
Copyright 2026 Assistbot Authors
SPDX-License-Identifier: Apache-2.0
*/

package clidispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/chainguard-dev/clog"
)

// maxCapturedOutput caps how much subprocess output is retained in memory
// per stream.
const maxCapturedOutput = 10 << 20

// Conclusions reported in Outcome.Conclusion and the action's conclusion
// output.
const (
	ConclusionSuccess = "success"
	ConclusionFailure = "failure"
)

// Outcome reports a finished, or failed-to-start, tool run.
type Outcome struct {
	Conclusion string // ConclusionSuccess or ConclusionFailure
	ExitCode   int
	OutputPath string
	Stdout     string
	Stderr     string
	Duration   time.Duration
	TimedOut   bool
}

// InstallError reports an install step that exited non-zero. The main run
// is not attempted.
type InstallError struct {
	Tool     ToolID
	ExitCode int
	Output   string
}

func (e *InstallError) Error() string {
	return fmt.Sprintf("installing %s failed with exit code %d", e.Tool, e.ExitCode)
}

// RunError reports a main run that did not exit zero.
type RunError struct {
	Tool     ToolID
	ExitCode int
	TimedOut bool
}

func (e *RunError) Error() string {
	if e.TimedOut {
		return fmt.Sprintf("%s run timed out", e.Tool)
	}
	return fmt.Sprintf("%s run failed with exit code %d", e.Tool, e.ExitCode)
}

// Invoke executes the resolved invocation: optional install step, then the
// main command, synchronously. The returned Outcome is populated in the
// RunError case too, so callers can report exit details.
func Invoke(ctx context.Context, inv *Invocation) (*Outcome, error) {
	log := clog.FromContext(ctx)

	if inv.Install != nil {
		if err := runInstall(ctx, inv); err != nil {
			return nil, err
		}
	}

	runCtx := ctx
	if inv.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, inv.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, inv.Command, inv.Args...)
	cmd.Env = append(os.Environ(), inv.Env...)

	if inv.PromptPath != "" {
		prompt, err := os.Open(inv.PromptPath)
		if err != nil {
			return nil, fmt.Errorf("opening prompt file: %w", err)
		}
		defer prompt.Close()
		cmd.Stdin = prompt
	}

	stdout := newCappedBuffer(maxCapturedOutput)
	stderr := newCappedBuffer(maxCapturedOutput)
	artifact := &lazyFile{path: inv.OutputPath}
	if inv.OutputPath != "" {
		cmd.Stdout = io.MultiWriter(stdout, artifact)
	} else {
		cmd.Stdout = stdout
	}
	cmd.Stderr = stderr

	log.With("tool", inv.Tool).Infof("Running %s", commandLine(inv))
	start := time.Now()
	err := cmd.Run()
	if closeErr := artifact.Close(); closeErr != nil {
		log.With("error", closeErr).Warn("Failed to close output artifact")
	}

	out := &Outcome{
		Conclusion: ConclusionSuccess,
		OutputPath: inv.OutputPath,
		Stdout:     stdout.String(),
		Stderr:     stderr.String(),
		Duration:   time.Since(start),
	}
	if err != nil {
		out.Conclusion = ConclusionFailure
		out.TimedOut = errors.Is(runCtx.Err(), context.DeadlineExceeded)
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			out.ExitCode = exitErr.ExitCode()
		} else {
			out.ExitCode = -1
		}
	}

	if synthErr := ensureArtifact(inv, out); synthErr != nil {
		log.With("error", synthErr).Warn("Failed to write output artifact")
	}

	if err != nil {
		return out, &RunError{Tool: inv.Tool, ExitCode: out.ExitCode, TimedOut: out.TimedOut}
	}
	return out, nil
}

func runInstall(ctx context.Context, inv *Invocation) error {
	log := clog.FromContext(ctx)
	cmd := exec.CommandContext(ctx, inv.Install.Command, inv.Install.Args...)
	output := newCappedBuffer(maxCapturedOutput)
	cmd.Stdout = output
	cmd.Stderr = output

	log.With("tool", inv.Tool).Infof("Installing via %s %s", inv.Install.Command, strings.Join(inv.Install.Args, " "))
	if err := cmd.Run(); err != nil {
		code := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		return &InstallError{Tool: inv.Tool, ExitCode: code, Output: tail(output.String(), 2000)}
	}
	return nil
}

// artifactRecord is the minimal execution record synthesized when the tool
// produced no output file of its own.
type artifactRecord struct {
	Type      string `json:"type"`
	Status    string `json:"status"`
	ExitCode  int    `json:"exit_code"`
	Command   string `json:"command"`
	Timestamp string `json:"timestamp"`
}

func ensureArtifact(inv *Invocation, out *Outcome) error {
	if inv.OutputPath == "" {
		return nil
	}
	if _, err := os.Stat(inv.OutputPath); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("checking output artifact: %w", err)
	}
	data, err := json.Marshal(artifactRecord{
		Type:      "result",
		Status:    out.Conclusion,
		ExitCode:  out.ExitCode,
		Command:   commandLine(inv),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	if err := os.WriteFile(inv.OutputPath, data, 0o644); err != nil {
		return fmt.Errorf("writing output artifact: %w", err)
	}
	return nil
}

func commandLine(inv *Invocation) string {
	return strings.Join(append([]string{inv.Command}, inv.Args...), " ")
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

// cappedBuffer keeps at most limit bytes and drops the rest, recording that
// truncation happened. Writes never fail, so a full buffer cannot stall the
// subprocess pipe.
type cappedBuffer struct {
	buf       bytes.Buffer
	limit     int
	truncated bool
}

func newCappedBuffer(limit int) *cappedBuffer { return &cappedBuffer{limit: limit} }

func (b *cappedBuffer) Write(p []byte) (int, error) {
	if room := b.limit - b.buf.Len(); room >= len(p) {
		b.buf.Write(p)
	} else {
		if room > 0 {
			b.buf.Write(p[:room])
		}
		if len(p) > 0 {
			b.truncated = true
		}
	}
	return len(p), nil
}

func (b *cappedBuffer) String() string {
	if b.truncated {
		return b.buf.String() + "\n[output truncated]"
	}
	return b.buf.String()
}

// lazyFile creates its file on the first written byte, so a subprocess that
// never starts leaves nothing at the path. Write errors are recorded rather
// than returned to keep the stdout tee flowing.
type lazyFile struct {
	path string
	f    *os.File
	err  error
}

func (l *lazyFile) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if l.err == nil && l.f == nil {
		l.f, l.err = os.Create(l.path)
	}
	if l.err == nil {
		if _, err := l.f.Write(p); err != nil {
			l.err = err
		}
	}
	return len(p), nil
}

func (l *lazyFile) Close() error {
	if l.f == nil {
		return nil
	}
	return l.f.Close()
}
