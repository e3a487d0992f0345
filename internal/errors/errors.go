package errors

import (
	"context"
	"errors"
	"fmt"
)

// Error Handling Guidelines:
//
// For services/clients (generation, publisher, llm):
//   - Classify every failure into a Kind before returning it
//   - Wrap with the operation name: errors.Transient("anthropic.generate", err)
//   - Do not log errors in non-handler code (avoid double logging)
//
// For the orchestrator:
//   - Never reclassify a lower component's Kind; only attach the stage
//
// For HTTP handlers:
//   - Use the gin helpers in http.go for transport errors (binding, auth)
//   - Pipeline failures are returned as an outcome body, not an ErrorResponse

// classifies a failure
type Kind string

const (
	KindValidation    Kind = "validation"
	KindConfig        Kind = "config"
	KindTransient     Kind = "transient"
	KindAuthorization Kind = "authorization"
	KindConflict      Kind = "conflict"
	KindPermanent     Kind = "permanent"
	KindCanceled      Kind = "canceled"
	KindInternal      Kind = "internal"
)

// returns the wire category, e.g. "validation_error"
func (k Kind) Code() string {
	return string(k) + "_error"
}

// a classified failure
type Error struct {
	Kind    Kind
	Op      string // operation that failed, e.g. "github.update_ref"
	Message string // optional human readable summary
	Err     error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	default:
		return fmt.Sprintf("%s: %s failure", e.Op, e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrorKind lets KindOf find the classification through wrapping
func (e *Error) ErrorKind() Kind {
	return e.Kind
}

// implemented by any error carrying its own classification
type kinded interface {
	ErrorKind() Kind
}

// creates a classified error without an underlying cause
func New(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// classifies err under kind
func Wrap(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func Validation(op, message string) error {
	return New(KindValidation, op, message)
}

func Transient(op string, err error) error {
	return Wrap(KindTransient, op, err)
}

func Authorization(op string, err error) error {
	return Wrap(KindAuthorization, op, err)
}

func Conflict(op string, err error) error {
	return Wrap(KindConflict, op, err)
}

func Permanent(op string, err error) error {
	return Wrap(KindPermanent, op, err)
}

func Internal(op string, err error) error {
	return Wrap(KindInternal, op, err)
}

// returns the classification of err; unclassified errors are internal,
// except bare context errors which are mapped to canceled/transient
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}

	var k kinded
	if errors.As(err, &k) {
		return k.ErrorKind()
	}

	if errors.Is(err, context.Canceled) {
		return KindCanceled
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindTransient
	}

	return KindInternal
}

// reports whether the owning component may retry err
func IsRetryable(err error) bool {
	return KindOf(err) == KindTransient
}

// reports whether err is classified as kind
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
