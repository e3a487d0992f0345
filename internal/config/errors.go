package config

import (
	"fmt"

	apperrors "codeberg.org/algopatterns/forge/internal/errors"
)

// reported when a required setting is absent or empty; startup-fatal
type ConfigError struct {
	Variable string
	Reason   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s environment variable %s", e.Variable, e.Reason)
}

// ErrorKind classifies ConfigError for apperrors.KindOf
func (e *ConfigError) ErrorKind() apperrors.Kind {
	return apperrors.KindConfig
}

func missing(variable string) *ConfigError {
	return &ConfigError{Variable: variable, Reason: "is required"}
}
