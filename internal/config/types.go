package config

import (
	"encoding/json"
	"time"
)

// Secret wraps strings that should be redacted in logs and serialization.
// The zero value is an unset secret.
type Secret string

// String implements fmt.Stringer. Always redacted.
func (s Secret) String() string {
	if s == "" {
		return ""
	}

	return "[REDACTED]"
}

// GoString implements fmt.GoStringer for %#v formatting.
func (s Secret) GoString() string {
	return "Secret([REDACTED])"
}

// Value returns the actual secret value. Use sparingly.
func (s Secret) Value() string {
	return string(s)
}

// IsSet returns true if the secret has a non-empty value.
func (s Secret) IsSet() bool {
	return s != ""
}

// MarshalJSON implements json.Marshaler. Always returns redacted value.
func (s Secret) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// MarshalText implements encoding.TextMarshaler. Always returns redacted value.
func (s Secret) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// the two secrets the pipeline needs; loaded once, never mutated
type Credentials struct {
	GenerationKey Secret
	RepoToken     Secret
}

// returns the raw secret values, for redaction of outbound error text
func (c Credentials) Values() []string {
	return []string{c.GenerationKey.Value(), c.RepoToken.Value()}
}

type Config struct {
	Credentials Credentials
	Environment string
	Port        string

	Generation GenerationConfig
	Publish    PublishConfig
	Retry      RetryConfig

	// bounds each pipeline stage; the HTTP write timeout is derived from it
	StageTimeout time.Duration

	RedisURL     string // optional shared dedup ledger and rate limit store
	APIJWTSecret Secret // optional; when set, /api/v1/generate requires a bearer token
	RateLimit    string // ulule/limiter formatted rate, e.g. "30-M"
	CORSOrigins  []string
}

// WriteTimeout covers both pipeline stages plus time to write the outcome.
func (c *Config) WriteTimeout() time.Duration {
	return 2*c.StageTimeout + writeTimeoutMargin
}

type GenerationConfig struct {
	Provider       string // "anthropic" or "openai"
	Model          string
	MaxTokens      int
	Temperature    float32
	Timeout        time.Duration
	MaxRequirement int // in runes
}

type PublishConfig struct {
	Branch     string // empty means the repository default branch
	PathPrefix string
	Timeout    time.Duration
	APIURL     string // GitHub Enterprise base URL, empty for github.com
}

type RetryConfig struct {
	Attempts   int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Multiplier float64
	Jitter     float64 // negative disables jitter
}

// client flags for cmd/forgectl
type SubmitFlags struct {
	Server      string
	Requirement string
	Repository  string
	Token       string
	Timeout     time.Duration
}

type TokenFlags struct {
	Subject string
	TTL     time.Duration
}
