package auth

import (
	"fmt"
	"os"
	"strconv"
)

// Authentication modes.
const (
	ModeOIDC   = "oidc"
	ModeHeader = "header"
)

// Config selects and configures the request authenticator.
type Config struct {
	Mode            string `toml:"mode"`
	Issuer          string `toml:"issuer"`
	ClientID        string `toml:"client_id"`
	SkipExpiryCheck bool   `toml:"skip_expiry_check"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Mode            string
	Issuer          string
	ClientID        string
	SkipExpiryCheck string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Mode != "" {
		c.Mode = overlay.Mode
	}
	if overlay.Issuer != "" {
		c.Issuer = overlay.Issuer
	}
	if overlay.ClientID != "" {
		c.ClientID = overlay.ClientID
	}
	if overlay.SkipExpiryCheck {
		c.SkipExpiryCheck = true
	}
}

func (c *Config) loadDefaults() {
	if c.Mode == "" {
		c.Mode = ModeOIDC
	}
}

func (c *Config) loadEnv(env *Env) {
	if v := getenv(env.Mode); v != "" {
		c.Mode = v
	}
	if v := getenv(env.Issuer); v != "" {
		c.Issuer = v
	}
	if v := getenv(env.ClientID); v != "" {
		c.ClientID = v
	}
	if v := getenv(env.SkipExpiryCheck); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.SkipExpiryCheck = b
		}
	}
}

func (c *Config) validate() error {
	switch c.Mode {
	case ModeOIDC:
		if c.Issuer == "" {
			return fmt.Errorf("issuer required for oidc mode")
		}
		if c.ClientID == "" {
			return fmt.Errorf("client_id required for oidc mode")
		}
	case ModeHeader:
	default:
		return fmt.Errorf("unsupported mode %q: must be %s or %s", c.Mode, ModeOIDC, ModeHeader)
	}
	return nil
}

func getenv(key string) string {
	if key == "" {
		return ""
	}
	return os.Getenv(key)
}
