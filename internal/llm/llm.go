package llm

import "fmt"

// creates a text generator for the configured provider
func NewTextGenerator(config Config) (TextGenerator, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("generation API key is required")
	}

	switch config.Provider {
	case ProviderAnthropic, "":
		return NewAnthropicGenerator(config), nil
	case ProviderOpenAI:
		return NewOpenAIGenerator(config), nil
	default:
		return nil, fmt.Errorf("unsupported generation provider: %s", config.Provider)
	}
}
