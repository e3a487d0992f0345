package llm

import (
	"context"
	"fmt"
	"strings"

	apperrors "codeberg.org/algopatterns/forge/internal/errors"
)

const (
	openaiChatURL      = "https://api.openai.com/v1/chat/completions"
	defaultOpenAIModel = "gpt-4o"
)

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float32   `json:"temperature"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index        int     `json:"index"`
		Message      Message `json:"message"`
		FinishReason string  `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

type OpenAIGenerator struct {
	config Config
	url    string
}

func NewOpenAIGenerator(config Config) *OpenAIGenerator {
	if config.Model == "" {
		config.Model = defaultOpenAIModel
	}

	if config.MaxTokens == 0 {
		config.MaxTokens = defaultMaxTokens
	}

	if config.Temperature == 0 {
		config.Temperature = defaultTemperature
	}

	url := openaiChatURL
	if config.BaseURL != "" {
		url = strings.TrimRight(config.BaseURL, "/") + "/v1/chat/completions"
	}

	return &OpenAIGenerator{config: config, url: url}
}

func (g *OpenAIGenerator) Model() string {
	return g.config.Model
}

func (g *OpenAIGenerator) GenerateText(ctx context.Context, req TextGenerationRequest) (*TextGenerationResponse, error) {
	const op = "openai.generate"

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = g.config.MaxTokens
	}

	// openai takes the system prompt as the first message
	messages := make([]Message, 0, len(req.Messages)+1)
	if req.SystemPrompt != "" {
		messages = append(messages, Message{Role: "system", Content: req.SystemPrompt})
	}
	messages = append(messages, req.Messages...)

	reqBody := chatRequest{
		Model:       g.config.Model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: g.config.Temperature,
	}

	headers := map[string]string{
		"Authorization": fmt.Sprintf("Bearer %s", g.config.APIKey),
	}

	var apiResp chatResponse
	if err := postJSON(ctx, op, g.url, headers, g.config.APIKey, reqBody, &apiResp); err != nil {
		return nil, err
	}

	if len(apiResp.Choices) == 0 || strings.TrimSpace(apiResp.Choices[0].Message.Content) == "" {
		return nil, apperrors.Transient(op, fmt.Errorf("no content in response"))
	}

	choice := apiResp.Choices[0]

	return &TextGenerationResponse{
		Text:       strings.TrimSpace(choice.Message.Content),
		StopReason: choice.FinishReason,
		Usage: Usage{
			InputTokens:  apiResp.Usage.PromptTokens,
			OutputTokens: apiResp.Usage.CompletionTokens,
		},
	}, nil
}
