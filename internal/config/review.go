package config

import (
	"fmt"
	"os"
	"time"
)

const (
	EnvReviewCheckTimeout      = "LANDMARK_REVIEW_CHECK_TIMEOUT"
	EnvReviewReferenceTimeout  = "LANDMARK_REVIEW_REFERENCE_TIMEOUT"
	EnvReviewDiscrepancyMarker = "LANDMARK_REVIEW_DISCREPANCY_MARKER"
)

// ReviewConfig bounds the collaborator calls made while triaging a submission.
// DiscrepancyMarker drives the stub reference resolver.
type ReviewConfig struct {
	CheckTimeout      string `toml:"check_timeout"`
	ReferenceTimeout  string `toml:"reference_timeout"`
	DiscrepancyMarker string `toml:"discrepancy_marker"`
}

// CheckTimeoutDuration returns CheckTimeout as a time.Duration.
func (c *ReviewConfig) CheckTimeoutDuration() time.Duration {
	return duration(c.CheckTimeout)
}

// ReferenceTimeoutDuration returns ReferenceTimeout as a time.Duration.
func (c *ReviewConfig) ReferenceTimeoutDuration() time.Duration {
	return duration(c.ReferenceTimeout)
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ReviewConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ReviewConfig) Merge(overlay *ReviewConfig) {
	if overlay.CheckTimeout != "" {
		c.CheckTimeout = overlay.CheckTimeout
	}
	if overlay.ReferenceTimeout != "" {
		c.ReferenceTimeout = overlay.ReferenceTimeout
	}
	if overlay.DiscrepancyMarker != "" {
		c.DiscrepancyMarker = overlay.DiscrepancyMarker
	}
}

func (c *ReviewConfig) loadDefaults() {
	if c.CheckTimeout == "" {
		c.CheckTimeout = "20s"
	}
	if c.ReferenceTimeout == "" {
		c.ReferenceTimeout = "5s"
	}
	if c.DiscrepancyMarker == "" {
		c.DiscrepancyMarker = "discrepancy"
	}
}

func (c *ReviewConfig) loadEnv() {
	if v := os.Getenv(EnvReviewCheckTimeout); v != "" {
		c.CheckTimeout = v
	}
	if v := os.Getenv(EnvReviewReferenceTimeout); v != "" {
		c.ReferenceTimeout = v
	}
	if v := os.Getenv(EnvReviewDiscrepancyMarker); v != "" {
		c.DiscrepancyMarker = v
	}
}

func (c *ReviewConfig) validate() error {
	for name, v := range map[string]string{
		"check_timeout":     c.CheckTimeout,
		"reference_timeout": c.ReferenceTimeout,
	} {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
		if d <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	return nil
}
