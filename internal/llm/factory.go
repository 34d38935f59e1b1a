package llm

import (
	"fmt"
	"strings"
)

// NewProvider creates a provider based on the configuration.
// An empty provider name returns (nil, nil): pricing falls back to the
// severity matrix and no network calls are made.
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config)
	case "anthropic":
		return NewAnthropicProvider(config)
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown provider: %s (supported: openai, anthropic)", config.Provider)
	}
}
