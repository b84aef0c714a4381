package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/landmark/internal/roles"
	"github.com/JaimeStill/landmark/pkg/auth"
	"github.com/JaimeStill/landmark/pkg/database"
	"github.com/JaimeStill/landmark/pkg/events"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"
	DotEnvFile           = ".env"

	EnvLandmarkEnv             = "LANDMARK_ENV"
	EnvLandmarkShutdownTimeout = "LANDMARK_SHUTDOWN_TIMEOUT"
	EnvLandmarkVersion         = "LANDMARK_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "LANDMARK_DB_HOST",
	Port:            "LANDMARK_DB_PORT",
	Name:            "LANDMARK_DB_NAME",
	User:            "LANDMARK_DB_USER",
	Password:        "LANDMARK_DB_PASSWORD",
	SSLMode:         "LANDMARK_DB_SSL_MODE",
	MaxOpenConns:    "LANDMARK_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "LANDMARK_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "LANDMARK_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "LANDMARK_DB_CONN_TIMEOUT",
}

var authEnv = &auth.Env{
	Mode:            "LANDMARK_AUTH_MODE",
	Issuer:          "LANDMARK_AUTH_ISSUER",
	ClientID:        "LANDMARK_AUTH_CLIENT_ID",
	SkipExpiryCheck: "LANDMARK_AUTH_SKIP_EXPIRY_CHECK",
}

var rolesEnv = &roles.Env{
	Emails:           "LANDMARK_ROLES_EMAILS",
	Domains:          "LANDMARK_ROLES_DOMAINS",
	PreserveElevated: "LANDMARK_ROLES_PRESERVE_ELEVATED",
}

var eventsEnv = &events.Env{
	Enabled:      "LANDMARK_EVENTS_ENABLED",
	Brokers:      "LANDMARK_EVENTS_BROKERS",
	Topic:        "LANDMARK_EVENTS_TOPIC",
	WriteTimeout: "LANDMARK_EVENTS_WRITE_TIMEOUT",
}

// Config is the root configuration for the Landmark service.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	Database        database.Config `toml:"database"`
	API             APIConfig       `toml:"api"`
	Auth            auth.Config     `toml:"auth"`
	Roles           roles.Config    `toml:"roles"`
	Review          ReviewConfig    `toml:"review"`
	Agent           AgentConfig     `toml:"agent"`
	Events          events.Config   `toml:"events"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env returns the LANDMARK_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvLandmarkEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	return duration(c.ShutdownTimeout)
}

// Load reads .env (if present) into the process environment, then the base
// config (if present), applies any environment overlay, and finalizes all
// values. Variables already set in the environment take precedence over .env.
func Load() (*Config, error) {
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", DotEnvFile, err)
	}

	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// LoadDatabase resolves only the database section from .env and LANDMARK_DB_*
// variables. Tools that never serve requests use it to skip unrelated validation.
func LoadDatabase() (*database.Config, error) {
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", DotEnvFile, err)
	}

	cfg := &database.Config{}
	if err := cfg.Finalize(databaseEnv); err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.API.Merge(&overlay.API)
	c.Auth.Merge(&overlay.Auth)
	c.Roles.Merge(&overlay.Roles)
	c.Review.Merge(&overlay.Review)
	c.Agent.Merge(&overlay.Agent)
	c.Events.Merge(&overlay.Events)
}

// Finalize applies defaults, environment overrides, and validation to every section.
func (c *Config) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Auth.Finalize(authEnv); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := c.Roles.Finalize(rolesEnv); err != nil {
		return fmt.Errorf("roles: %w", err)
	}
	if err := c.Review.Finalize(); err != nil {
		return fmt.Errorf("review: %w", err)
	}
	if err := c.Agent.Finalize(); err != nil {
		return fmt.Errorf("agent: %w", err)
	}
	if err := c.Events.Finalize(eventsEnv); err != nil {
		return fmt.Errorf("events: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvLandmarkShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvLandmarkVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvLandmarkEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
