package credentials

// Credentials represents the stored API credentials in credentials.toml.
type Credentials struct {
	Version          int    `toml:"version"`
	PerplexityAPIKey string `toml:"perplexity_api_key,omitempty"`
}
