package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "codeberg.org/algopatterns/forge/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnthropicGenerator_GenerateText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "sk-ant-test", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))

		var body anthropicRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "system prompt", body.System)
		assert.Equal(t, 2048, body.MaxTokens)
		require.Len(t, body.Messages, 1)
		assert.Equal(t, "add a health check endpoint", body.Messages[0].Content)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_1",
			"content": [{"type": "text", "text": "  def health(): return 'ok'  "}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 12, "output_tokens": 7}
		}`))
	}))
	defer srv.Close()

	gen := NewAnthropicGenerator(Config{APIKey: "sk-ant-test", BaseURL: srv.URL})

	resp, err := gen.GenerateText(context.Background(), TextGenerationRequest{
		SystemPrompt: "system prompt",
		Messages:     []Message{{Role: "user", Content: "add a health check endpoint"}},
	})

	require.NoError(t, err)
	assert.Equal(t, "def health(): return 'ok'", resp.Text)
	assert.Equal(t, "end_turn", resp.StopReason)
	assert.Equal(t, 12, resp.Usage.InputTokens)
	assert.Equal(t, defaultAnthropicModel, gen.Model())
}

func TestOpenAIGenerator_GenerateText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-openai-test", r.Header.Get("Authorization"))

		var body chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Messages, 2)
		assert.Equal(t, "system", body.Messages[0].Role)

		_, _ = w.Write([]byte(`{
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "print('hi')"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 5, "completion_tokens": 3}
		}`))
	}))
	defer srv.Close()

	gen := NewOpenAIGenerator(Config{APIKey: "sk-openai-test", BaseURL: srv.URL, Model: "gpt-test"})

	resp, err := gen.GenerateText(context.Background(), TextGenerationRequest{
		SystemPrompt: "system",
		Messages:     []Message{{Role: "user", Content: "say hi"}},
	})

	require.NoError(t, err)
	assert.Equal(t, "print('hi')", resp.Text)
	assert.Equal(t, 3, resp.Usage.OutputTokens)
	assert.Equal(t, "gpt-test", gen.Model())
}

func TestGenerateText_ClassifiesStatus(t *testing.T) {
	tests := []struct {
		status int
		want   apperrors.Kind
	}{
		{http.StatusUnauthorized, apperrors.KindAuthorization},
		{http.StatusForbidden, apperrors.KindAuthorization},
		{http.StatusBadRequest, apperrors.KindPermanent},
		{http.StatusUnprocessableEntity, apperrors.KindPermanent},
		{http.StatusTooManyRequests, apperrors.KindTransient},
		{http.StatusInternalServerError, apperrors.KindTransient},
		{529, apperrors.KindTransient},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				// providers sometimes echo the key back in error bodies
				_, _ = w.Write([]byte(`{"error": "bad key sk-ant-secret"}`))
			}))
			defer srv.Close()

			gen := NewAnthropicGenerator(Config{APIKey: "sk-ant-secret", BaseURL: srv.URL})
			_, err := gen.GenerateText(context.Background(), TextGenerationRequest{
				Messages: []Message{{Role: "user", Content: "x"}},
			})

			require.Error(t, err)
			assert.Equal(t, tt.want, apperrors.KindOf(err))
			assert.NotContains(t, err.Error(), "sk-ant-secret")
		})
	}
}

func TestGenerateText_EmptyContentIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content": [], "stop_reason": "max_tokens"}`))
	}))
	defer srv.Close()

	gen := NewAnthropicGenerator(Config{APIKey: "k", BaseURL: srv.URL})
	_, err := gen.GenerateText(context.Background(), TextGenerationRequest{
		Messages: []Message{{Role: "user", Content: "x"}},
	})

	require.Error(t, err)
	assert.Equal(t, apperrors.KindTransient, apperrors.KindOf(err))
}

func TestGenerateText_CanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the server")
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gen := NewAnthropicGenerator(Config{APIKey: "k", BaseURL: srv.URL})
	_, err := gen.GenerateText(ctx, TextGenerationRequest{Messages: []Message{{Role: "user", Content: "x"}}})

	require.Error(t, err)
	assert.Equal(t, apperrors.KindCanceled, apperrors.KindOf(err))
}

func TestGenerateText_RateLimitedIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the server")
	}))
	defer srv.Close()

	// drain the burst so the next token is further away than the deadline
	for sharedRateLimiter.Allow() {
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	gen := NewAnthropicGenerator(Config{APIKey: "k", BaseURL: srv.URL})
	_, err := gen.GenerateText(ctx, TextGenerationRequest{Messages: []Message{{Role: "user", Content: "x"}}})

	require.Error(t, err)
	assert.Equal(t, apperrors.KindTransient, apperrors.KindOf(err))
	assert.True(t, apperrors.IsRetryable(err))
}

func TestNewTextGenerator(t *testing.T) {
	gen, err := NewTextGenerator(Config{Provider: ProviderOpenAI, APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAIGenerator{}, gen)

	gen, err = NewTextGenerator(Config{APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &AnthropicGenerator{}, gen)

	_, err = NewTextGenerator(Config{Provider: "llama", APIKey: "k"})
	assert.Error(t, err)

	_, err = NewTextGenerator(Config{Provider: ProviderOpenAI})
	assert.Error(t, err)
}
