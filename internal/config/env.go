package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"codeberg.org/algopatterns/forge/internal/logger"
	"github.com/joho/godotenv"
)

const (
	EnvGenerationKey = "GENERATION_API_KEY"
	EnvRepoToken     = "GITHUB_TOKEN"
	EnvAPIJWTSecret  = "API_JWT_SECRET"
)

// defaults
const (
	defaultPort           = "8080"
	defaultProvider       = "anthropic"
	defaultMaxTokens      = 2048
	defaultTemperature    = 0.2
	defaultGenTimeout     = 60 * time.Second
	defaultMaxRequirement = 16000
	defaultPathPrefix     = "generated"
	defaultPublishTimeout = 30 * time.Second
	defaultRetryAttempts  = 3
	defaultRetryBase      = 500 * time.Millisecond
	defaultRetryMax       = 10 * time.Second
	defaultRetryFactor    = 2.0
	defaultRetryJitter    = 0.2
	defaultStageTimeout   = 5 * time.Minute
	writeTimeoutMargin    = 30 * time.Second
	defaultRateLimit      = "30-M"
)

// loads .env if present; production environments may not have one
func loadDotEnv() {
	_ = godotenv.Load()
}

// reads the two required secrets. This is the only place credentials are read.
func LoadCredentials() (Credentials, error) {
	loadDotEnv()

	generationKey := strings.TrimSpace(os.Getenv(EnvGenerationKey))
	repoToken := strings.TrimSpace(os.Getenv(EnvRepoToken))

	if generationKey == "" {
		return Credentials{}, missing(EnvGenerationKey)
	}

	if repoToken == "" {
		return Credentials{}, missing(EnvRepoToken)
	}

	return Credentials{
		GenerationKey: Secret(generationKey),
		RepoToken:     Secret(repoToken),
	}, nil
}

// reads the API token signing secret, for tools that only mint tokens
func LoadAPIJWTSecret() (Secret, error) {
	loadDotEnv()

	secret := strings.TrimSpace(os.Getenv(EnvAPIJWTSecret))
	if secret == "" {
		return "", missing(EnvAPIJWTSecret)
	}

	return Secret(secret), nil
}

// loads configuration from environment variables
func LoadEnvironmentVariables() (*Config, error) {
	creds, err := LoadCredentials()
	if err != nil {
		return nil, err
	}

	environment := os.Getenv("ENVIRONMENT")
	if environment == "" {
		environment = "development"
	}

	provider := strings.ToLower(os.Getenv("GENERATION_PROVIDER"))
	if provider == "" {
		provider = defaultProvider
	}

	if provider != "anthropic" && provider != "openai" {
		return nil, &ConfigError{Variable: "GENERATION_PROVIDER", Reason: "must be anthropic or openai"}
	}

	return &Config{
		Credentials: creds,
		Environment: environment,
		Port:        stringOr("PORT", defaultPort),
		Generation: GenerationConfig{
			Provider:       provider,
			Model:          os.Getenv("GENERATION_MODEL"),
			MaxTokens:      intOr("GENERATION_MAX_TOKENS", defaultMaxTokens),
			Temperature:    floatOr("GENERATION_TEMPERATURE", defaultTemperature),
			Timeout:        durationOr("GENERATION_TIMEOUT", defaultGenTimeout),
			MaxRequirement: intOr("GENERATION_MAX_REQUIREMENT", defaultMaxRequirement),
		},
		Publish: PublishConfig{
			Branch:     os.Getenv("PUBLISH_BRANCH"),
			PathPrefix: stringOr("PUBLISH_PATH_PREFIX", defaultPathPrefix),
			Timeout:    durationOr("PUBLISH_TIMEOUT", defaultPublishTimeout),
			APIURL:     os.Getenv("GITHUB_API_URL"),
		},
		Retry: RetryConfig{
			Attempts:   intOr("RETRY_ATTEMPTS", defaultRetryAttempts),
			BaseDelay:  durationOr("RETRY_BASE_DELAY", defaultRetryBase),
			MaxDelay:   durationOr("RETRY_MAX_DELAY", defaultRetryMax),
			Multiplier: float64(floatOr("RETRY_MULTIPLIER", defaultRetryFactor)),
			Jitter:     float64(floatOr("RETRY_JITTER", defaultRetryJitter)),
		},
		StageTimeout: durationOr("STAGE_TIMEOUT", defaultStageTimeout),
		RedisURL:     os.Getenv("REDIS_URL"),
		APIJWTSecret: Secret(strings.TrimSpace(os.Getenv(EnvAPIJWTSecret))),
		RateLimit:    stringOr("RATE_LIMIT", defaultRateLimit),
		CORSOrigins:  listOr("CORS_ORIGINS", []string{"*"}),
	}, nil
}

func stringOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func intOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}

		logger.Warn("ignoring invalid integer setting", "key", key)
	}

	return fallback
}

func floatOr(key string, fallback float32) float32 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil {
			return float32(f)
		}

		logger.Warn("ignoring invalid float setting", "key", key)
	}

	return fallback
}

func durationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}

		logger.Warn("ignoring invalid duration setting", "key", key)
	}

	return fallback
}

func listOr(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	if len(out) == 0 {
		return fallback
	}

	return out
}
