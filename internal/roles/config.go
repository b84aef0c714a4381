package roles

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config is the injected role policy. Emails pin exact addresses to a tier;
// Domains map a trusted domain (and its subdomains) to a tier.
type Config struct {
	Emails           map[string]Role `toml:"emails"`
	Domains          map[string]Role `toml:"domains"`
	PreserveElevated *bool           `toml:"preserve_elevated"`
}

// Env maps environment variable names for role configuration.
// Emails and Domains use the form "key=role,key=role".
type Env struct {
	Emails           string
	Domains          string
	PreserveElevated string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		if err := c.loadEnv(env); err != nil {
			return err
		}
	}
	return c.validate()
}

// Merge overwrites fields that are set in overlay. Maps replace wholesale.
func (c *Config) Merge(overlay *Config) {
	if overlay.Emails != nil {
		c.Emails = overlay.Emails
	}
	if overlay.Domains != nil {
		c.Domains = overlay.Domains
	}
	if overlay.PreserveElevated != nil {
		c.PreserveElevated = overlay.PreserveElevated
	}
}

// Preserve reports whether stored reviewer tiers survive recomputation.
func (c *Config) Preserve() bool {
	return c.PreserveElevated == nil || *c.PreserveElevated
}

func (c *Config) loadDefaults() {
	if c.Emails == nil {
		c.Emails = map[string]Role{}
	}
	if c.Domains == nil {
		c.Domains = map[string]Role{}
	}
	if c.PreserveElevated == nil {
		preserve := true
		c.PreserveElevated = &preserve
	}
}

func (c *Config) loadEnv(env *Env) error {
	if env.Emails != "" {
		if v := os.Getenv(env.Emails); v != "" {
			m, err := parsePairs(v)
			if err != nil {
				return fmt.Errorf("%s: %w", env.Emails, err)
			}
			c.Emails = m
		}
	}
	if env.Domains != "" {
		if v := os.Getenv(env.Domains); v != "" {
			m, err := parsePairs(v)
			if err != nil {
				return fmt.Errorf("%s: %w", env.Domains, err)
			}
			c.Domains = m
		}
	}
	if env.PreserveElevated != "" {
		if v := os.Getenv(env.PreserveElevated); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				c.PreserveElevated = &b
			}
		}
	}
	return nil
}

func (c *Config) validate() error {
	for email, role := range c.Emails {
		if !strings.Contains(email, "@") {
			return fmt.Errorf("emails: %q is not an email address", email)
		}
		if _, err := Parse(string(role)); err != nil {
			return fmt.Errorf("emails: %s: %w", email, err)
		}
	}
	for domain, role := range c.Domains {
		if domain == "" || strings.Contains(domain, "@") {
			return fmt.Errorf("domains: %q is not a domain", domain)
		}
		if _, err := Parse(string(role)); err != nil {
			return fmt.Errorf("domains: %s: %w", domain, err)
		}
	}
	return nil
}

func parsePairs(s string) (map[string]Role, error) {
	out := make(map[string]Role)
	for pair := range strings.SplitSeq(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("malformed entry %q", pair)
		}
		role, err := Parse(strings.TrimSpace(value))
		if err != nil {
			return nil, err
		}
		out[strings.TrimSpace(key)] = role
	}
	return out, nil
}
