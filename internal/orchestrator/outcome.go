package orchestrator

import (
	apperrors "codeberg.org/algopatterns/forge/internal/errors"
)

// Response returns the serializable form of the outcome. The error field
// is the failure category; secrets never reach it.
func (o Outcome) Response() Response {
	if o.Status == StatusSuccess {
		return Response{Status: StatusSuccess, Reference: o.Reference}
	}

	return Response{
		Status:  StatusFailed,
		Stage:   o.Stage,
		Error:   o.Kind.Code(),
		Message: o.Message,
	}
}

// HTTPStatus maps the outcome onto a transport status code.
func (o Outcome) HTTPStatus() int {
	if o.Status == StatusSuccess {
		return apperrors.HTTPStatus("")
	}

	return apperrors.HTTPStatus(o.Kind)
}

func (o Outcome) Succeeded() bool {
	return o.Status == StatusSuccess
}
