package orchestrator

import (
	"context"
	"time"

	"codeberg.org/algopatterns/forge/internal/artifact"
	apperrors "codeberg.org/algopatterns/forge/internal/errors"
)

// produces code for a validated request
type Generator interface {
	Generate(ctx context.Context, req artifact.Request) (*artifact.Artifact, error)
}

// writes an artifact into a repository
type Publisher interface {
	Publish(ctx context.Context, a *artifact.Artifact, repo artifact.Repository) (*artifact.PublishResult, error)
}

type State string

const (
	StateReceived   State = "received"
	StateValidating State = "validating"
	StateGenerating State = "generating"
	StatePublishing State = "publishing"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
)

// where a failure is attributed
type Stage string

const (
	StageValidation Stage = "validation"
	StageGeneration Stage = "generation"
	StagePublish    Stage = "publish"
)

type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// terminal result of one pipeline run
type Outcome struct {
	Status     Status
	Reference  string // set on success
	Stage      Stage  // set on failure
	Kind       apperrors.Kind
	Repository string
	Message    string // sanitized failure detail
	Err        error  // unsanitized cause, never serialized
}

// wire form of an Outcome
type Response struct {
	Status    Status `json:"status" example:"success"`
	Reference string `json:"reference,omitempty" example:"commit:abc123"`
	Stage     Stage  `json:"stage,omitempty" example:"publish"`
	Error     string `json:"error,omitempty" example:"conflict_error"`
	Message   string `json:"message,omitempty"`
}

const defaultStageTimeout = 5 * time.Minute

// runs generate-then-publish for inbound requests
type Orchestrator struct {
	generator    Generator
	publisher    Publisher
	stageTimeout time.Duration
	production   bool
	secrets      []string
}

type Option func(*Orchestrator)

// bounds each stage, including any retries inside it
func WithStageTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.stageTimeout = d
		}
	}
}

// replaces failure detail with a generic message per kind
func WithProduction(production bool) Option {
	return func(o *Orchestrator) {
		o.production = production
	}
}

// values scrubbed from every failure message
func WithSecrets(secrets ...string) Option {
	return func(o *Orchestrator) {
		o.secrets = append(o.secrets, secrets...)
	}
}
