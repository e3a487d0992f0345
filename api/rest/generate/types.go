package generate

import (
	"context"

	"codeberg.org/algopatterns/forge/internal/orchestrator"
)

// Request represents the request body for code generation
type Request struct {
	Requirement      string `json:"requirement" binding:"required" example:"add a health check endpoint"`
	TargetRepository string `json:"target_repository" binding:"required,repository" example:"acme/widgets"`
}

// Response is the outcome of one generate-and-publish run
type Response = orchestrator.Response

// runs the generate-then-publish pipeline
type Runner interface {
	Run(ctx context.Context, requirement, target string) orchestrator.Outcome
}
