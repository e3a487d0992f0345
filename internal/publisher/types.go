package publisher

import (
	"time"

	"codeberg.org/algopatterns/forge/internal/retry"
	"github.com/google/go-github/v57/github"
	"golang.org/x/sync/singleflight"
)

const (
	defaultTimeout    = 30 * time.Second
	defaultPathPrefix = "generated"
	defaultBranch     = "main"

	// commits inspected when looking for an earlier publish of an artifact
	historyDepth = 20
)

// writes artifacts into GitHub repositories as commits
type Publisher struct {
	client     *github.Client
	branch     string // empty: the repository's default branch
	pathPrefix string
	timeout    time.Duration
	policy     retry.Policy
	ledger     Ledger
	inflight   singleflight.Group
}

type Option func(*Publisher)

// commits to branch instead of the repository default
func WithBranch(branch string) Option {
	return func(p *Publisher) {
		p.branch = branch
	}
}

func WithPathPrefix(prefix string) Option {
	return func(p *Publisher) {
		if prefix != "" {
			p.pathPrefix = prefix
		}
	}
}

// bounds each GitHub API call
func WithTimeout(d time.Duration) Option {
	return func(p *Publisher) {
		if d > 0 {
			p.timeout = d
		}
	}
}

func WithRetryPolicy(policy retry.Policy) Option {
	return func(p *Publisher) {
		p.policy = policy
	}
}

func WithLedger(l Ledger) Option {
	return func(p *Publisher) {
		if l != nil {
			p.ledger = l
		}
	}
}
