package llm

import (
	"context"
	"fmt"
	"strings"

	apperrors "codeberg.org/algopatterns/forge/internal/errors"
)

const (
	anthropicMessagesURL  = "https://api.anthropic.com/v1/messages"
	anthropicVersion      = "2023-06-01"
	defaultAnthropicModel = "claude-sonnet-4-20250514"
	defaultMaxTokens      = 2048
	defaultTemperature    = 0.2
)

type anthropicRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	System      string    `json:"system,omitempty"`
	Messages    []Message `json:"messages"`
	Temperature float32   `json:"temperature"`
}

type anthropicResponse struct {
	ID         string             `json:"id"`
	Type       string             `json:"type"`
	Role       string             `json:"role"`
	Content    []anthropicContent `json:"content"`
	Model      string             `json:"model"`
	StopReason string             `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type AnthropicGenerator struct {
	config Config
	url    string
}

func NewAnthropicGenerator(config Config) *AnthropicGenerator {
	if config.Model == "" {
		config.Model = defaultAnthropicModel
	}

	if config.MaxTokens == 0 {
		config.MaxTokens = defaultMaxTokens
	}

	if config.Temperature == 0 {
		config.Temperature = defaultTemperature
	}

	url := anthropicMessagesURL
	if config.BaseURL != "" {
		url = strings.TrimRight(config.BaseURL, "/") + "/v1/messages"
	}

	return &AnthropicGenerator{config: config, url: url}
}

func (g *AnthropicGenerator) Model() string {
	return g.config.Model
}

func (g *AnthropicGenerator) GenerateText(ctx context.Context, req TextGenerationRequest) (*TextGenerationResponse, error) {
	const op = "anthropic.generate"

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = g.config.MaxTokens
	}

	reqBody := anthropicRequest{
		Model:       g.config.Model,
		MaxTokens:   maxTokens,
		System:      req.SystemPrompt,
		Temperature: g.config.Temperature,
		Messages:    req.Messages,
	}

	headers := map[string]string{
		"x-api-key":         g.config.APIKey,
		"anthropic-version": anthropicVersion,
	}

	var apiResp anthropicResponse
	if err := postJSON(ctx, op, g.url, headers, g.config.APIKey, reqBody, &apiResp); err != nil {
		return nil, err
	}

	var text strings.Builder
	for _, block := range apiResp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	if text.Len() == 0 {
		return nil, apperrors.Transient(op, fmt.Errorf("no text content in response (stop_reason=%s)", apiResp.StopReason))
	}

	return &TextGenerationResponse{
		Text:       strings.TrimSpace(text.String()),
		StopReason: apiResp.StopReason,
		Usage: Usage{
			InputTokens:  apiResp.Usage.InputTokens,
			OutputTokens: apiResp.Usage.OutputTokens,
		},
	}, nil
}
