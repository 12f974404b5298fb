/*
Copyright 2026 Assistbot Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package ghclient constructs the authenticated GitHub API clients used by
// the rest of the action.
package ghclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v84/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/assistbot/mention-action/eventcontext"
)

// Clients bundles the REST and GraphQL surfaces over one authenticated
// transport. Reads that want pagination-free comment scans go through
// GraphQL; every mutation goes through REST.
type Clients struct {
	REST    *github.Client
	GraphQL *githubv4.Client
}

// New builds the clients from the effective configuration. A token wins when
// both auth modes are configured; GitHub App installation credentials are
// the fallback.
func New(ctx context.Context, cfg *eventcontext.Config) (*Clients, error) {
	httpClient, err := newHTTPClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Clients{
		REST:    github.NewClient(httpClient),
		GraphQL: githubv4.NewClient(httpClient),
	}, nil
}

func newHTTPClient(ctx context.Context, cfg *eventcontext.Config) (*http.Client, error) {
	if cfg.GitHubToken != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.GitHubToken})
		return oauth2.NewClient(ctx, ts), nil
	}
	if cfg.AppID != 0 && cfg.InstallationID != 0 && cfg.AppPrivateKey != "" {
		transport, err := ghinstallation.New(http.DefaultTransport, cfg.AppID, cfg.InstallationID, []byte(cfg.AppPrivateKey))
		if err != nil {
			return nil, fmt.Errorf("building GitHub App transport: %w", err)
		}
		return &http.Client{Transport: transport}, nil
	}
	return nil, &eventcontext.MissingConfigurationError{Name: "github_token"}
}
