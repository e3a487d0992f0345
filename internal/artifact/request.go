package artifact

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	apperrors "codeberg.org/algopatterns/forge/internal/errors"
)

// builds a validated request
func NewRequest(requirement, target string) (Request, error) {
	requirement = strings.TrimSpace(requirement)

	if requirement == "" {
		return Request{}, apperrors.Validation("artifact.new_request", "requirement is required")
	}

	repo, err := ParseRepository(target)
	if err != nil {
		return Request{}, err
	}

	return Request{requirement: requirement, target: repo}, nil
}

func (r Request) Requirement() string {
	return r.requirement
}

func (r Request) Target() Repository {
	return r.target
}

// reports whether r was built by NewRequest
func (r Request) IsZero() bool {
	return r.requirement == ""
}

// returns the dedup key: a hash of the request and the generated content.
// the same artifact always maps to the same id across retries and replicas.
func (a *Artifact) ID() string {
	h := sha256.New()
	h.Write([]byte(a.Source.requirement))
	h.Write([]byte{0})
	h.Write([]byte(a.Source.target.String()))
	h.Write([]byte{0})
	h.Write([]byte(a.Content))

	return hex.EncodeToString(h.Sum(nil)[:16])
}
