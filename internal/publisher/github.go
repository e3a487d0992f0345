package publisher

import (
	"context"
	"fmt"

	"codeberg.org/algopatterns/forge/internal/config"
	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
)

// NewGitHubClient creates a GitHub client authenticated with token.
// baseURL selects a GitHub Enterprise host; empty means github.com.
func NewGitHubClient(ctx context.Context, token config.Secret, baseURL string) (*github.Client, error) {
	if !token.IsSet() {
		return nil, fmt.Errorf("GitHub token not set")
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token.Value()})
	client := github.NewClient(oauth2.NewClient(ctx, ts))

	if baseURL == "" {
		return client, nil
	}

	client, err := client.WithEnterpriseURLs(baseURL, baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid GitHub API URL: %w", err)
	}

	return client, nil
}
