package generation

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"codeberg.org/algopatterns/forge/internal/artifact"
	apperrors "codeberg.org/algopatterns/forge/internal/errors"
	"codeberg.org/algopatterns/forge/internal/llm"
	"codeberg.org/algopatterns/forge/internal/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// implements llm.TextGenerator for testing
type mockEngine struct {
	generateTextFunc func(ctx context.Context, req llm.TextGenerationRequest) (*llm.TextGenerationResponse, error)
	calls            atomic.Int32
}

func (m *mockEngine) GenerateText(ctx context.Context, req llm.TextGenerationRequest) (*llm.TextGenerationResponse, error) {
	m.calls.Add(1)

	if m.generateTextFunc != nil {
		return m.generateTextFunc(ctx, req)
	}

	return &llm.TextGenerationResponse{Text: "```python\ndef health(): return 'ok'\n```"}, nil
}

func (m *mockEngine) Model() string {
	return "mock-model"
}

func fastRetry() retry.Policy {
	return retry.Policy{Attempts: 3, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond, Multiplier: 2, Jitter: -1}
}

func mustRequest(t *testing.T, requirement string) artifact.Request {
	t.Helper()

	req, err := artifact.NewRequest(requirement, "acme/widgets")
	require.NoError(t, err)

	return req
}

func TestGenerate_Success(t *testing.T) {
	engine := &mockEngine{
		generateTextFunc: func(_ context.Context, req llm.TextGenerationRequest) (*llm.TextGenerationResponse, error) {
			assert.NotEmpty(t, req.SystemPrompt)
			require.Len(t, req.Messages, 1)
			assert.Contains(t, req.Messages[0].Content, "add a health check endpoint")

			return &llm.TextGenerationResponse{Text: "def health(): return 'ok'"}, nil
		},
	}

	client := New(engine, WithRetryPolicy(fastRetry()))
	req := mustRequest(t, "add a health check endpoint")

	art, err := client.Generate(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, "def health(): return 'ok'", art.Content)
	assert.Equal(t, "python", art.LanguageHint)
	assert.Equal(t, req, art.Source)
	assert.Equal(t, int32(1), engine.calls.Load())
}

func TestGenerate_RejectsInvalidRequirement(t *testing.T) {
	engine := &mockEngine{}
	client := New(engine, WithMaxRequirement(10), WithRetryPolicy(fastRetry()))

	_, err := client.Generate(context.Background(), artifact.Request{})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	_, err = client.Generate(context.Background(), mustRequest(t, strings.Repeat("é", 11)))
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	assert.Equal(t, int32(0), engine.calls.Load(), "engine must not be called for invalid input")
}

func TestGenerate_RetriesTransient(t *testing.T) {
	engine := &mockEngine{}
	engine.generateTextFunc = func(context.Context, llm.TextGenerationRequest) (*llm.TextGenerationResponse, error) {
		if engine.calls.Load() < 3 {
			return nil, apperrors.Transient("mock", errors.New("429 rate limited"))
		}
		return &llm.TextGenerationResponse{Text: "```go\npackage main\n\nfunc main() {}\n```"}, nil
	}

	client := New(engine, WithRetryPolicy(fastRetry()))
	art, err := client.Generate(context.Background(), mustRequest(t, "hello world in go"))

	require.NoError(t, err)
	assert.Equal(t, "go", art.LanguageHint)
	assert.Equal(t, int32(3), engine.calls.Load())
}

func TestGenerate_TransientExhausted(t *testing.T) {
	engine := &mockEngine{
		generateTextFunc: func(context.Context, llm.TextGenerationRequest) (*llm.TextGenerationResponse, error) {
			return nil, apperrors.Transient("mock", errors.New("503"))
		},
	}

	client := New(engine, WithRetryPolicy(fastRetry()))
	_, err := client.Generate(context.Background(), mustRequest(t, "x"))

	require.Error(t, err)
	assert.Equal(t, apperrors.KindTransient, apperrors.KindOf(err))
	assert.Equal(t, int32(3), engine.calls.Load(), "default policy makes 3 attempts")
}

func TestGenerate_PermanentNotRetried(t *testing.T) {
	for _, kind := range []apperrors.Kind{apperrors.KindAuthorization, apperrors.KindPermanent} {
		t.Run(string(kind), func(t *testing.T) {
			engine := &mockEngine{
				generateTextFunc: func(context.Context, llm.TextGenerationRequest) (*llm.TextGenerationResponse, error) {
					return nil, apperrors.Wrap(kind, "mock", errors.New("rejected"))
				},
			}

			client := New(engine, WithRetryPolicy(fastRetry()))
			_, err := client.Generate(context.Background(), mustRequest(t, "x"))

			require.Error(t, err)
			assert.Equal(t, kind, apperrors.KindOf(err))
			assert.Equal(t, int32(1), engine.calls.Load())
		})
	}
}

func TestGenerate_EmptyOutputIsRetried(t *testing.T) {
	engine := &mockEngine{}
	engine.generateTextFunc = func(context.Context, llm.TextGenerationRequest) (*llm.TextGenerationResponse, error) {
		if engine.calls.Load() == 1 {
			return &llm.TextGenerationResponse{Text: "```\n\n```"}, nil
		}
		return &llm.TextGenerationResponse{Text: "echo ok"}, nil
	}

	client := New(engine, WithRetryPolicy(fastRetry()))
	art, err := client.Generate(context.Background(), mustRequest(t, "x"))

	require.NoError(t, err)
	assert.Equal(t, "echo ok", art.Content)
	assert.Equal(t, int32(2), engine.calls.Load())
}

func TestGenerate_PerAttemptTimeout(t *testing.T) {
	engine := &mockEngine{}
	engine.generateTextFunc = func(ctx context.Context, _ llm.TextGenerationRequest) (*llm.TextGenerationResponse, error) {
		if engine.calls.Load() == 1 {
			<-ctx.Done()
			return nil, ctx.Err()
		}
		return &llm.TextGenerationResponse{Text: "def f(): pass"}, nil
	}

	client := New(engine, WithTimeout(10*time.Millisecond), WithRetryPolicy(fastRetry()))
	art, err := client.Generate(context.Background(), mustRequest(t, "x"))

	require.NoError(t, err)
	assert.Equal(t, "def f(): pass", art.Content)
	assert.Equal(t, int32(2), engine.calls.Load())
}

func TestExtractCode(t *testing.T) {
	tests := []struct {
		name     string
		response string
		code     string
		lang     string
	}{
		{"plain", "def health(): return 'ok'", "def health(): return 'ok'", ""},
		{"single fence", "Here you go:\n```python\nprint(1)\n```\nEnjoy", "print(1)", "python"},
		{"longest fence wins", "```sh\npip install x\n```\n```py\nimport x\nx.run()\n```", "import x\nx.run()", "py"},
		{"unterminated fence", "```go\npackage main", "```go\npackage main", ""},
		{"empty", "   ", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, lang := extractCode(tt.response)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.lang, lang)
		})
	}
}

func TestLanguageHint(t *testing.T) {
	assert.Equal(t, "python", languageHint("py", ""))
	assert.Equal(t, "shell", languageHint("BASH", ""))
	assert.Equal(t, "elixir", languageHint("elixir", ""))
	assert.Equal(t, "go", languageHint("", "package main\n\nfunc main() {}"))
	assert.Equal(t, "rust", languageHint("", "fn main() {}"))
	assert.Equal(t, "shell", languageHint("", "#!/bin/bash\necho hi"))
	assert.Equal(t, "", languageHint("", "SELECT 1"))
}
