package config

import (
	"fmt"
	"os"
)

// Discrepancy checker providers.
const (
	ProviderComparison = "comparison"
	ProviderArk        = "ark"
)

const (
	EnvAgentProvider = "LANDMARK_AGENT_PROVIDER"
	EnvAgentBaseURL  = "LANDMARK_AGENT_BASE_URL"
	EnvAgentAPIKey   = "LANDMARK_AGENT_API_KEY"
	EnvAgentModel    = "LANDMARK_AGENT_MODEL"
)

// AgentConfig selects the discrepancy checker. The comparison provider needs
// no model; ark calls a chat model and requires api_key and model.
type AgentConfig struct {
	Provider string `toml:"provider"`
	BaseURL  string `toml:"base_url"`
	APIKey   string `toml:"api_key"`
	Model    string `toml:"model"`
}

// UsesModel reports whether the configured checker calls a chat model.
func (c *AgentConfig) UsesModel() bool {
	return c.Provider != ProviderComparison
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *AgentConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *AgentConfig) Merge(overlay *AgentConfig) {
	if overlay.Provider != "" {
		c.Provider = overlay.Provider
	}
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
}

func (c *AgentConfig) loadDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderComparison
	}
}

func (c *AgentConfig) loadEnv() {
	if v := os.Getenv(EnvAgentProvider); v != "" {
		c.Provider = v
	}
	if v := os.Getenv(EnvAgentBaseURL); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(EnvAgentAPIKey); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv(EnvAgentModel); v != "" {
		c.Model = v
	}
}

func (c *AgentConfig) validate() error {
	switch c.Provider {
	case ProviderComparison:
		return nil
	case ProviderArk:
		if c.APIKey == "" {
			return fmt.Errorf("api_key required for provider %s", c.Provider)
		}
		if c.Model == "" {
			return fmt.Errorf("model required for provider %s", c.Provider)
		}
		return nil
	}
	return fmt.Errorf("unknown provider %q", c.Provider)
}
