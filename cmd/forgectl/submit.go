package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"codeberg.org/algopatterns/forge/api/rest/generate"
	"codeberg.org/algopatterns/forge/internal/config"
)

const maxResponseBytes = 1 << 20

// what the server answered for one submission
type submitResult struct {
	HTTPStatus int
	generate.Response
}

func (r submitResult) Pretty() string {
	data, err := json.MarshalIndent(r.Response, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", r.Response)
	}

	return string(data)
}

// posts one generate request and decodes the outcome
func Submit(flags config.SubmitFlags) (*submitResult, error) {
	if strings.TrimSpace(flags.Requirement) == "" || flags.Repository == "" {
		return nil, fmt.Errorf("-requirement and -repo are required")
	}

	body, err := json.Marshal(generate.Request{
		Requirement:      flags.Requirement,
		TargetRepository: flags.Repository,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), flags.Timeout)
	defer cancel()

	url := strings.TrimRight(flags.Server, "/") + "/api/v1/generate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if flags.Token != "" {
		req.Header.Set("Authorization", "Bearer "+flags.Token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	result := &submitResult{HTTPStatus: resp.StatusCode}
	if err := json.Unmarshal(data, &result.Response); err != nil || result.Status == "" {
		// transport-level rejections (auth, rate limit) use the error envelope
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	return result, nil
}
