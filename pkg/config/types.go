package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/papercomputeco/askpplx/pkg/perplexity"
)

// Config represents the persistent askpplx configuration stored as
// config.toml in the config directory.
type Config struct {
	Version      int       `toml:"version"`
	Model        string    `toml:"model,omitempty"`
	Context      string    `toml:"context,omitempty"`
	Stream       *bool     `toml:"stream,omitempty"`
	ShowThinking bool      `toml:"show_thinking,omitempty"`
	API          APIConfig `toml:"api"`
}

// APIConfig holds Perplexity API connection settings.
type APIConfig struct {
	BaseURL string `toml:"base_url,omitempty"`
	Timeout string `toml:"timeout,omitempty"`
}

// StreamEnabled reports whether incremental output is enabled. An unset
// value means enabled.
func (c *Config) StreamEnabled() bool {
	return c.Stream == nil || *c.Stream
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"model": {
		get: func(c *Config) string { return c.Model },
		set: func(c *Config, v string) error { c.Model = v; return nil },
	},
	"context": {
		get: func(c *Config) string { return c.Context },
		set: func(c *Config, v string) error {
			size, err := perplexity.ParseSearchContextSize(v)
			if err != nil {
				return err
			}
			c.Context = string(size)
			return nil
		},
	},
	"stream": {
		get: func(c *Config) string { return strconv.FormatBool(c.StreamEnabled()) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid value for stream: %w", err)
			}
			c.Stream = &b
			return nil
		},
	},
	"show_thinking": {
		get: func(c *Config) string { return strconv.FormatBool(c.ShowThinking) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid value for show_thinking: %w", err)
			}
			c.ShowThinking = b
			return nil
		},
	},
	"api.base_url": {
		get: func(c *Config) string { return c.API.BaseURL },
		set: func(c *Config, v string) error { c.API.BaseURL = v; return nil },
	},
	"api.timeout": {
		get: func(c *Config) string { return c.API.Timeout },
		set: func(c *Config, v string) error {
			if _, err := time.ParseDuration(v); err != nil {
				return fmt.Errorf("invalid value for api.timeout: %w", err)
			}
			c.API.Timeout = v
			return nil
		},
	},
}
