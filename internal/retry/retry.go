package retry

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	apperrors "codeberg.org/algopatterns/forge/internal/errors"
	"codeberg.org/algopatterns/forge/internal/logger"
)

// Policy configures retry behavior for calls to remote services.
type Policy struct {
	// Attempts is the total number of calls, including the first.
	// Default: 3
	Attempts int

	// BaseDelay is the wait before the second attempt.
	// Default: 500ms
	BaseDelay time.Duration

	// MaxDelay caps any single wait.
	// Default: 10s
	MaxDelay time.Duration

	// Multiplier grows the delay between attempts.
	// Default: 2
	Multiplier float64

	// Jitter is the +/- fraction applied to each delay, below 1.
	// Negative disables jitter. Default: 0.2
	Jitter float64
}

// DefaultPolicy returns the retry policy shared by generation and publish.
func DefaultPolicy() Policy {
	return Policy{
		Attempts:   3,
		BaseDelay:  500 * time.Millisecond,
		MaxDelay:   10 * time.Second,
		Multiplier: 2.0,
		Jitter:     0.2,
	}
}

// ApplyDefaults sets default values for unset fields.
func (p *Policy) ApplyDefaults() {
	defaults := DefaultPolicy()

	if p.Attempts <= 0 {
		p.Attempts = defaults.Attempts
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = defaults.BaseDelay
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = defaults.MaxDelay
	}
	if p.Multiplier < 1 {
		p.Multiplier = defaults.Multiplier
	}
	if p.Jitter == 0 || p.Jitter >= 1 {
		p.Jitter = defaults.Jitter
	}
}

// Delay returns the un-jittered wait after the given failed attempt (1-based).
func (p Policy) Delay(attempt int) time.Duration {
	d := float64(p.BaseDelay)
	for i := 1; i < attempt; i++ {
		d *= p.Multiplier
		if d >= float64(p.MaxDelay) {
			return p.MaxDelay
		}
	}

	return min(time.Duration(d), p.MaxDelay)
}

func (p Policy) jittered(attempt int) time.Duration {
	d := p.Delay(attempt)
	if p.Jitter <= 0 {
		return d
	}

	spread := (rand.Float64()*2 - 1) * p.Jitter
	return time.Duration(float64(d) * (1 + spread))
}

// Do calls fn until it succeeds, returns an error that is not transient,
// attempts run out, or ctx ends. The last error is returned unchanged so
// callers keep its classification.
func Do(ctx context.Context, p Policy, op string, fn func(ctx context.Context) error) error {
	p.ApplyDefaults()

	log := logger.FromContext(ctx)
	start := time.Now()

	var lastErr error
	for attempt := 1; attempt <= p.Attempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			if attempt > 1 {
				log.Info("operation recovered after retries",
					"op", op,
					"attempts", attempt,
					"total_time", time.Since(start),
				)
			}
			return nil
		}

		lastErr = err

		if !apperrors.IsRetryable(err) {
			log.Debug("error is not retryable", "op", op, "kind", apperrors.KindOf(err), "error", err)
			return err
		}

		if attempt == p.Attempts {
			break
		}

		wait := p.jittered(attempt)
		log.Info("retrying operation after transient error",
			"op", op,
			"attempt", attempt,
			"max_attempts", p.Attempts,
			"backoff", wait,
			"error", err,
		)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return apperrors.Transient(op, fmt.Errorf("retry aborted after %d attempts: %w", attempt, ctx.Err()))
		case <-timer.C:
		}
	}

	log.Warn("operation failed after all retries exhausted",
		"op", op,
		"total_attempts", p.Attempts,
		"total_time", time.Since(start),
		"error", lastErr,
	)

	return lastErr
}
