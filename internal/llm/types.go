package llm

import "context"

// represents different LLM providers
type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
)

// generates text from a prompt; implementations classify their errors
// with the internal/errors kinds
type TextGenerator interface {
	GenerateText(ctx context.Context, req TextGenerationRequest) (*TextGenerationResponse, error)
	Model() string
}

type TextGenerationRequest struct {
	SystemPrompt string
	Messages     []Message
	MaxTokens    int // 0 uses the generator's configured value
}

type TextGenerationResponse struct {
	Text       string
	StopReason string
	Usage      Usage
}

type Usage struct {
	InputTokens  int
	OutputTokens int
}

// a single conversation turn
type Message struct {
	Role    string `json:"role"`    // "user" or "assistant"
	Content string `json:"content"` // message content
}

// holds configuration for generator initialization
type Config struct {
	Provider    Provider
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
	BaseURL     string // overrides the provider endpoint; used by tests and proxies
}
