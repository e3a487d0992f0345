package errors

import (
	"errors"
	"os"
	"strings"
)

const redacted = "[REDACTED]"

func isProduction() bool {
	return os.Getenv("ENVIRONMENT") == "production"
}

// replaces every occurrence of a secret value in msg
func Redact(msg string, secrets ...string) string {
	for _, s := range secrets {
		if s == "" {
			continue
		}

		msg = strings.ReplaceAll(msg, s, redacted)
	}

	return msg
}

// returns a client-safe message for err. In production the message is
// reduced to a generic sentence for its kind; otherwise the full chain is
// returned with any given secrets redacted.
func Sanitize(err error, production bool, secrets ...string) string {
	if err == nil {
		return ""
	}

	if !production {
		return Redact(err.Error(), secrets...)
	}

	switch KindOf(err) {
	case KindValidation:
		// validation messages are produced by us and describe the input
		var e *Error
		if errors.As(err, &e) && e.Message != "" {
			return Redact(e.Message, secrets...)
		}

		return "validation failed"
	case KindTransient:
		return "upstream service temporarily unavailable"
	case KindAuthorization:
		return "permission denied"
	case KindConflict:
		return "target branch changed during publish"
	case KindPermanent:
		return "request rejected by upstream service"
	case KindCanceled:
		return "request canceled"
	case KindConfig:
		return "service misconfigured"
	default:
		return "an error occurred"
	}
}
