package artifact

import (
	"fmt"
	"regexp"
	"strings"

	apperrors "codeberg.org/algopatterns/forge/internal/errors"
	"github.com/go-playground/validator/v10"
)

var (
	// GitHub login rules: alphanumerics and single hyphens, no leading/trailing hyphen
	ownerRegex = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9]|-[A-Za-z0-9])*$`)
	nameRegex  = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)
)

const (
	maxOwnerLen = 39
	maxNameLen  = 100
)

// parses and validates an owner/name identifier
func ParseRepository(s string) (Repository, error) {
	const op = "artifact.parse_repository"

	s = strings.TrimSpace(s)
	owner, name, ok := strings.Cut(s, "/")

	if !ok || strings.Contains(name, "/") {
		return Repository{}, apperrors.Validation(op, fmt.Sprintf("target_repository %q must be in owner/name form", s))
	}

	if len(owner) == 0 || len(owner) > maxOwnerLen || !ownerRegex.MatchString(owner) {
		return Repository{}, apperrors.Validation(op, fmt.Sprintf("invalid repository owner %q", owner))
	}

	if len(name) == 0 || len(name) > maxNameLen || !nameRegex.MatchString(name) || name == "." || name == ".." {
		return Repository{}, apperrors.Validation(op, fmt.Sprintf("invalid repository name %q", name))
	}

	return Repository{Owner: owner, Name: name}, nil
}

// reports whether s is a well-formed identifier
func IsValidRepository(s string) bool {
	_, err := ParseRepository(s)
	return err == nil
}

// adds the "repository" validation tag
func RegisterValidators(v *validator.Validate) error {
	return v.RegisterValidation("repository", func(fl validator.FieldLevel) bool {
		return IsValidRepository(fl.Field().String())
	})
}
