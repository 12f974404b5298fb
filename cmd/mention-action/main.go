/*
Copyright 2026 Assistbot Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package main implements the mention-action binary invoked by the composite
// GitHub Action: it reads the triggering event from the Actions environment,
// decides whether an AI assistant was summoned, and runs the full pipeline.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/chainguard-dev/clog"
	"github.com/sethvargo/go-githubactions"
	"github.com/spf13/cobra"

	"github.com/assistbot/mention-action/clidispatch"
	"github.com/assistbot/mention-action/commentmanager"
	"github.com/assistbot/mention-action/eventcontext"
	"github.com/assistbot/mention-action/ghclient"
	"github.com/assistbot/mention-action/gitstate"
	"github.com/assistbot/mention-action/runner"
	"github.com/assistbot/mention-action/trigger"
)

const version = "0.1.0"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	ctx = clog.WithLogger(ctx, clog.New(slog.NewTextHandler(os.Stderr, nil)))

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		clog.FatalContextf(ctx, "%v", err)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "mention-action",
		Short:         "Responds to AI assistant mentions in GitHub events",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd(), newDetectCmd(), newVersionCmd())
	return root
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the full mention pipeline for the current event",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			ec, err := eventcontext.FromEnvironment(ctx)
			if err != nil {
				return err
			}
			clients, err := ghclient.New(ctx, ec.Config)
			if err != nil {
				return err
			}

			deps := &runner.Deps{
				Users:        clients.REST.Users,
				Perms:        clients.REST.Repositories,
				Comments:     commentmanager.New(clients.REST, clients.GraphQL, ec.Owner, ec.Repo),
				Git:          clients.REST.Git,
				Repos:        clients.REST.Repositories,
				Invoke:       clidispatch.Invoke,
				CommitsSince: gitstate.CommitsSince,
				Actions:      githubactions.New(),
			}
			return runner.Run(ctx, deps, ec)
		},
	}
}

func newDetectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect",
		Short: "Report whether the current event contains a trigger, without running anything",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			ec, err := eventcontext.FromEnvironment(ctx)
			if err != nil {
				return err
			}

			res := trigger.Detect(ec)
			clog.FromContext(ctx).With("provider", res.Provider).Infof("Detection: triggered=%t (%s)", res.Triggered, res.Reason)

			actions := githubactions.New()
			actions.SetOutput("contains_trigger", strconv.FormatBool(res.Triggered))
			if res.Triggered {
				actions.SetOutput("ai_provider", string(res.Provider))
			}
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(*cobra.Command, []string) {
			os.Stdout.WriteString("mention-action " + version + "\n")
		},
	}
}
