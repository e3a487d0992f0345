package main

import (
	"context"
	"fmt"

	"codeberg.org/algopatterns/forge/internal/config"
	"codeberg.org/algopatterns/forge/internal/generation"
	"codeberg.org/algopatterns/forge/internal/llm"
	"codeberg.org/algopatterns/forge/internal/orchestrator"
	"codeberg.org/algopatterns/forge/internal/publisher"
	"codeberg.org/algopatterns/forge/internal/retry"
)

// creates and configures all service clients; credentials are passed in
// explicitly and never read from the environment here
func InitializeServices(ctx context.Context, cfg *config.Config, ledger publisher.Ledger) (*Services, error) {
	engine, err := llm.NewTextGenerator(llm.Config{
		Provider:    llm.Provider(cfg.Generation.Provider),
		APIKey:      cfg.Credentials.GenerationKey.Value(),
		Model:       cfg.Generation.Model,
		MaxTokens:   cfg.Generation.MaxTokens,
		Temperature: cfg.Generation.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create generation engine: %w", err)
	}

	policy := retryPolicy(cfg.Retry)

	gen := generation.New(engine,
		generation.WithTimeout(cfg.Generation.Timeout),
		generation.WithMaxRequirement(cfg.Generation.MaxRequirement),
		generation.WithRetryPolicy(policy),
	)

	githubClient, err := publisher.NewGitHubClient(ctx, cfg.Credentials.RepoToken, cfg.Publish.APIURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}

	pub := publisher.New(githubClient,
		publisher.WithBranch(cfg.Publish.Branch),
		publisher.WithPathPrefix(cfg.Publish.PathPrefix),
		publisher.WithTimeout(cfg.Publish.Timeout),
		publisher.WithRetryPolicy(policy),
		publisher.WithLedger(ledger),
	)

	orch := orchestrator.New(gen, pub,
		orchestrator.WithStageTimeout(cfg.StageTimeout),
		orchestrator.WithProduction(cfg.Environment == "production"),
		orchestrator.WithSecrets(cfg.Credentials.Values()...),
		orchestrator.WithSecrets(cfg.APIJWTSecret.Value()),
	)

	return &Services{
		Generation:   gen,
		Publisher:    pub,
		Orchestrator: orch,
		Ledger:       ledger,
	}, nil
}

// shared by generation and publish
func retryPolicy(cfg config.RetryConfig) retry.Policy {
	return retry.Policy{
		Attempts:   cfg.Attempts,
		BaseDelay:  cfg.BaseDelay,
		MaxDelay:   cfg.MaxDelay,
		Multiplier: cfg.Multiplier,
		Jitter:     cfg.Jitter,
	}
}
