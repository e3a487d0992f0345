package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"codeberg.org/algopatterns/forge/internal/artifact"
	apperrors "codeberg.org/algopatterns/forge/internal/errors"
	"codeberg.org/algopatterns/forge/internal/logger"
)

func New(gen Generator, pub Publisher, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		generator:    gen,
		publisher:    pub,
		stageTimeout: defaultStageTimeout,
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Run validates the request, generates code for it and publishes the code
// to the target repository. Publishing starts only after generation has
// fully succeeded. Every failure is reported in the outcome with the stage
// it happened in; Run itself never fails.
//
// If ctx ends while a stage is in flight, the remote call keeps running
// but its result is discarded and the outcome is canceled. A publish that
// commits after the caller left stays committed; resubmitting the request
// returns the same reference.
func (o *Orchestrator) Run(ctx context.Context, requirement, target string) Outcome {
	log := logger.FromContext(ctx).With("repository", target)
	start := time.Now()

	transition(log, StateReceived, StateValidating)

	req, err := artifact.NewRequest(requirement, target)
	if err != nil {
		return o.fail(log, StageValidation, target, err)
	}

	transition(log, StateValidating, StateGenerating)

	art, err := await(ctx, o.stageTimeout, func(ctx context.Context) (*artifact.Artifact, error) {
		return o.generator.Generate(ctx, req)
	})
	if err != nil {
		return o.fail(log, StageGeneration, target, err)
	}

	if art == nil || art.Content == "" {
		return o.fail(log, StageGeneration, target, apperrors.Internal("orchestrator.generate", fmt.Errorf("generator returned no content")))
	}

	// the caller left while generating; nothing is published for it
	if ctx.Err() != nil {
		return o.fail(log, StageGeneration, target, apperrors.Wrap(apperrors.KindCanceled, "orchestrator", context.Cause(ctx)))
	}

	transition(log, StateGenerating, StatePublishing, "language", art.LanguageHint, "bytes", len(art.Content))

	result, err := await(ctx, o.stageTimeout, func(ctx context.Context) (*artifact.PublishResult, error) {
		return o.publisher.Publish(ctx, art, req.Target())
	})
	if err != nil {
		return o.fail(log, StagePublish, target, err)
	}

	if result == nil || !result.Committed || result.Reference == "" {
		return o.fail(log, StagePublish, target, apperrors.Internal("orchestrator.publish", fmt.Errorf("publisher reported no commit")))
	}

	transition(log, StatePublishing, StateCompleted, "reference", result.Reference)

	log.Info("request completed",
		"reference", result.Reference,
		"deduped", result.Deduped,
		"duration", time.Since(start),
	)

	return Outcome{
		Status:     StatusSuccess,
		Reference:  result.Reference,
		Repository: req.Target().String(),
	}
}

func (o *Orchestrator) fail(log *slog.Logger, stage Stage, target string, err error) Outcome {
	kind := apperrors.KindOf(err)

	transition(log, stateFor(stage), StateFailed, "stage", stage, "kind", kind)

	// failures below the handler are logged once, here
	level := slog.LevelWarn
	if kind == apperrors.KindInternal {
		level = slog.LevelError
	}
	log.Log(context.Background(), level, "request failed",
		"stage", stage,
		"kind", kind,
		"error", apperrors.Redact(err.Error(), o.secrets...),
	)

	return Outcome{
		Status:     StatusFailed,
		Stage:      stage,
		Kind:       kind,
		Repository: target,
		Message:    apperrors.Sanitize(err, o.production, o.secrets...),
		Err:        err,
	}
}

func stateFor(stage Stage) State {
	switch stage {
	case StageGeneration:
		return StateGenerating
	case StagePublish:
		return StatePublishing
	default:
		return StateValidating
	}
}

func transition(log *slog.Logger, from, to State, args ...any) {
	log.Debug("pipeline transition", append([]any{"from", from, "to", to}, args...)...)
}

// runs call detached from ctx cancellation but bounded by timeout, and
// stops waiting when ctx ends
func await[T any](ctx context.Context, timeout time.Duration, call func(ctx context.Context) (T, error)) (T, error) {
	type result struct {
		value T
		err   error
	}

	done := make(chan result, 1)

	go func() {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		defer cancel()

		v, err := call(callCtx)
		done <- result{v, err}
	}()

	select {
	case r := <-done:
		return r.value, r.err
	case <-ctx.Done():
		var zero T
		return zero, apperrors.Wrap(apperrors.KindCanceled, "orchestrator", context.Cause(ctx))
	}
}
