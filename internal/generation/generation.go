package generation

import (
	"context"
	"fmt"
	"unicode/utf8"

	"codeberg.org/algopatterns/forge/internal/artifact"
	apperrors "codeberg.org/algopatterns/forge/internal/errors"
	"codeberg.org/algopatterns/forge/internal/llm"
	"codeberg.org/algopatterns/forge/internal/logger"
	"codeberg.org/algopatterns/forge/internal/retry"
)

const op = "generation.generate"

func New(engine llm.TextGenerator, opts ...Option) *Client {
	c := &Client{
		engine:         engine,
		timeout:        defaultTimeout,
		maxRequirement: defaultMaxRequirement,
		policy:         retry.DefaultPolicy(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// returns the engine's model name
func (c *Client) Model() string {
	return c.engine.Model()
}

// produces an artifact for req. Transient engine failures are retried;
// authorization and malformed-request failures are returned immediately.
func (c *Client) Generate(ctx context.Context, req artifact.Request) (*artifact.Artifact, error) {
	if req.IsZero() {
		return nil, apperrors.Validation(op, "requirement is required")
	}

	if n := utf8.RuneCountInString(req.Requirement()); n > c.maxRequirement {
		return nil, apperrors.Validation(op, fmt.Sprintf("requirement is %d characters, limit is %d", n, c.maxRequirement))
	}

	var result *artifact.Artifact

	err := retry.Do(ctx, c.policy, op, func(ctx context.Context) error {
		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		resp, err := c.engine.GenerateText(attemptCtx, llm.TextGenerationRequest{
			SystemPrompt: systemPrompt,
			Messages:     buildMessages(req.Requirement()),
		})

		if err != nil {
			// our own per-attempt deadline is a timeout, which is transient
			if ctx.Err() == nil && attemptCtx.Err() != nil && apperrors.KindOf(err) != apperrors.KindTransient {
				return apperrors.Transient(op, fmt.Errorf("engine call timed out after %s: %w", c.timeout, err))
			}

			return err
		}

		code, tag := extractCode(resp.Text)
		if code == "" {
			return apperrors.Transient(op, fmt.Errorf("engine returned no code"))
		}

		result = &artifact.Artifact{
			Content:      code,
			LanguageHint: languageHint(tag, code),
			Source:       req,
		}

		logger.FromContext(ctx).Debug("generation attempt succeeded",
			"model", c.engine.Model(),
			"input_tokens", resp.Usage.InputTokens,
			"output_tokens", resp.Usage.OutputTokens,
			"language", result.LanguageHint,
		)

		return nil
	})

	if err != nil {
		return nil, err
	}

	return result, nil
}
