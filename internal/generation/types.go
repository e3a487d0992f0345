package generation

import (
	"time"

	"codeberg.org/algopatterns/forge/internal/llm"
	"codeberg.org/algopatterns/forge/internal/retry"
)

const (
	defaultTimeout        = 60 * time.Second
	defaultMaxRequirement = 16000
)

// wraps the code-generation engine behind Generate
type Client struct {
	engine         llm.TextGenerator
	timeout        time.Duration
	maxRequirement int
	policy         retry.Policy
}

type Option func(*Client)

// bounds each engine call
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// sets the longest accepted requirement, in runes
func WithMaxRequirement(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxRequirement = n
		}
	}
}

func WithRetryPolicy(p retry.Policy) Option {
	return func(c *Client) {
		c.policy = p
	}
}
