package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "codeberg.org/algopatterns/forge/internal/errors"
	"golang.org/x/time/rate"
)

const maxErrorBody = 512

// shared HTTP client for provider calls; reuses one connection pool
// across all concurrent requests. Per-call deadlines come from ctx.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
}

// rate limiter for provider calls (50 requests/second with burst capacity of 10)
var sharedRateLimiter = rate.NewLimiter(50, 10)

// posts body as JSON and decodes a 200 response into out.
// non-200 responses and transport failures come back classified.
func postJSON(ctx context.Context, op, url string, headers map[string]string, secret string, body, out any) error {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return apperrors.Internal(op, fmt.Errorf("failed to marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return apperrors.Internal(op, fmt.Errorf("failed to create request: %w", err))
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	// rate limiting
	if err := sharedRateLimiter.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%s: %w", op, ctx.Err())
		}

		// the deadline is too close to wait for a token
		return apperrors.Transient(op, fmt.Errorf("rate limiter: %w", err))
	}

	resp, err := sharedHTTPClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%s: %w", op, ctx.Err())
		}

		return apperrors.Transient(op, fmt.Errorf("failed to send request: %s", apperrors.Redact(err.Error(), secret)))
	}

	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody)) //nolint:errcheck
		cause := fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, apperrors.Redact(string(body), secret))

		return apperrors.Wrap(classifyStatus(resp.StatusCode), op, cause)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		// a truncated body is a network fault, not a contract change
		return apperrors.Transient(op, fmt.Errorf("failed to decode response: %w", err))
	}

	return nil
}

// maps a provider HTTP status to a failure kind
func classifyStatus(status int) apperrors.Kind {
	switch {
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return apperrors.KindAuthorization
	case status == http.StatusRequestTimeout,
		status == http.StatusConflict,
		status == http.StatusTooEarly,
		status == http.StatusTooManyRequests:
		return apperrors.KindTransient
	case status >= 500:
		return apperrors.KindTransient
	default:
		return apperrors.KindPermanent
	}
}
