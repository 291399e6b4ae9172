package config

import "github.com/papercomputeco/askpplx/pkg/perplexity"

const (
	defaultModel   = "sonar-reasoning-pro"
	defaultContext = string(perplexity.SearchContextHigh)
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	stream := true
	return &Config{
		Version:      CurrentV,
		Model:        defaultModel,
		Context:      defaultContext,
		Stream:       &stream,
		ShowThinking: false,
		API: APIConfig{
			BaseURL: perplexity.DefaultBaseURL,
			Timeout: perplexity.DefaultTimeout.String(),
		},
	}
}
