package publisher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"codeberg.org/algopatterns/forge/internal/artifact"
	apperrors "codeberg.org/algopatterns/forge/internal/errors"
	"github.com/google/go-github/v57/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func response(status int) *github.Response {
	return &github.Response{Response: &http.Response{StatusCode: status}}
}

func TestClassify(t *testing.T) {
	cause := errors.New("api error")

	rateLimited := response(http.StatusForbidden)
	rateLimited.Rate = github.Rate{Limit: 5000, Remaining: 0}

	tests := []struct {
		name     string
		resp     *github.Response
		err      error
		notFound apperrors.Kind
		want     apperrors.Kind
	}{
		{"no response", nil, cause, apperrors.KindPermanent, apperrors.KindTransient},
		{"unauthorized", response(401), cause, apperrors.KindPermanent, apperrors.KindAuthorization},
		{"forbidden", response(403), cause, apperrors.KindPermanent, apperrors.KindAuthorization},
		{"rate limited forbidden", rateLimited, cause, apperrors.KindPermanent, apperrors.KindTransient},
		{"typed rate limit", response(403), &github.RateLimitError{Message: "slow down"}, apperrors.KindPermanent, apperrors.KindTransient},
		{"secondary rate limit", response(403), &github.AbuseRateLimitError{Message: "abuse"}, apperrors.KindPermanent, apperrors.KindTransient},
		{"repository not found", response(404), cause, apperrors.KindAuthorization, apperrors.KindAuthorization},
		{"ref not found", response(404), cause, apperrors.KindPermanent, apperrors.KindPermanent},
		{"unprocessable", response(422), cause, apperrors.KindPermanent, apperrors.KindPermanent},
		{"too many requests", response(429), cause, apperrors.KindPermanent, apperrors.KindTransient},
		{"bad gateway", response(502), cause, apperrors.KindPermanent, apperrors.KindTransient},
		{"canceled", nil, fmt.Errorf("get: %w", context.Canceled), apperrors.KindPermanent, apperrors.KindCanceled},
		{"deadline", nil, context.DeadlineExceeded, apperrors.KindPermanent, apperrors.KindTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify("github.op", tt.resp, tt.err, tt.notFound)
			require.Error(t, err)
			assert.Equal(t, tt.want, apperrors.KindOf(err))
		})
	}

	assert.NoError(t, classify("github.op", response(200), nil, apperrors.KindPermanent))
}

func TestIsNotFastForward(t *testing.T) {
	assert.True(t, isNotFastForward(response(http.StatusUnprocessableEntity)))
	assert.True(t, isNotFastForward(response(http.StatusConflict)))
	assert.False(t, isNotFastForward(response(http.StatusBadGateway)))
	assert.False(t, isNotFastForward(nil))
}

func TestFilePath(t *testing.T) {
	id := "0123456789abcdef0123456789abcdef"

	assert.Equal(t, "generated/0123456789ab/main.go", filePath("generated", id, "go"))
	assert.Equal(t, "generated/0123456789ab/main.py", filePath("generated", id, "Python"))
	assert.Equal(t, "out/0123456789ab/main.txt", filePath("out", id, ""))
	assert.Equal(t, "out/0123456789ab/main.txt", filePath("out", id, "elixir"))
}

func TestCommitMessage(t *testing.T) {
	long := "implement a very long requirement that keeps going well past the subject limit\nwith more detail"
	req, err := artifact.NewRequest(long, "acme/widgets")
	require.NoError(t, err)

	a := &artifact.Artifact{Content: "x", Source: req}
	msg := commitMessage(a, a.ID())

	subject, _, _ := strings.Cut(msg, "\n")
	assert.LessOrEqual(t, len([]rune(subject)), len("forge: ")+maxSubjectLength)
	assert.Contains(t, subject, "...")
	assert.Contains(t, msg, "with more detail")
	assert.True(t, hasTrailer(msg, a.ID()))
	assert.False(t, hasTrailer(msg, "ffffffffffffffffffffffffffffffff"))
}
