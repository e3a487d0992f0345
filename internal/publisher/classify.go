package publisher

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	apperrors "codeberg.org/algopatterns/forge/internal/errors"
	"github.com/google/go-github/v57/github"
)

// classifies a GitHub API failure. notFound is the kind reported for 404,
// which means "no access" when looking up the repository itself.
func classify(op string, resp *github.Response, err error, notFound apperrors.Kind) error {
	if err == nil {
		return nil
	}

	// caller went away or our own deadline passed; KindOf maps these
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}

	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &rateErr) || errors.As(err, &abuseErr) {
		return apperrors.Transient(op, err)
	}

	status := statusCode(resp)
	switch {
	case status == 0:
		// no response at all: network-level failure
		return apperrors.Transient(op, err)
	case status == http.StatusUnauthorized:
		return apperrors.Authorization(op, err)
	case status == http.StatusForbidden:
		// forbidden can be a secondary rate limit that go-github did not type
		if resp.Rate.Limit > 0 && resp.Rate.Remaining == 0 {
			return apperrors.Transient(op, err)
		}
		return apperrors.Authorization(op, err)
	case status == http.StatusNotFound:
		return apperrors.Wrap(notFound, op, err)
	case status == http.StatusTooManyRequests, status >= 500:
		return apperrors.Transient(op, err)
	default:
		return apperrors.Permanent(op, err)
	}
}

// reports whether an update-ref failure means the branch moved under us
func isNotFastForward(resp *github.Response) bool {
	status := statusCode(resp)
	return status == http.StatusUnprocessableEntity || status == http.StatusConflict
}

// statusCode safely extracts the HTTP status code from a GitHub response.
func statusCode(resp *github.Response) int {
	if resp != nil && resp.Response != nil {
		return resp.Response.StatusCode
	}
	return 0
}
