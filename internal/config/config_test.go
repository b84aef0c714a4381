package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/landmark/internal/config"
	"github.com/JaimeStill/landmark/internal/roles"
	"github.com/JaimeStill/landmark/pkg/auth"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

const baseTOML = `
version = "1.2.0"

[database]
name = "landmark"
user = "landmark"

[auth]
mode = "header"

[roles.emails]
"founder@landmark.ng" = "cto"

[roles.domains]
"landmark.ng" = "manager"

[review]
check_timeout = "3s"
`

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, dir, config.BaseConfigFile, baseTOML)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Version != "1.2.0" {
		t.Errorf("version = %q", cfg.Version)
	}
	if cfg.Server.Port != 8080 || cfg.API.BasePath != "/api" {
		t.Errorf("server/api defaults not applied: %d %q", cfg.Server.Port, cfg.API.BasePath)
	}
	if cfg.API.MaxBodySizeBytes() != 64*1024 {
		t.Errorf("max body = %d", cfg.API.MaxBodySizeBytes())
	}
	if cfg.Review.CheckTimeoutDuration() != 3*time.Second {
		t.Errorf("check timeout = %v", cfg.Review.CheckTimeoutDuration())
	}
	if cfg.Review.ReferenceTimeoutDuration() != 5*time.Second {
		t.Errorf("reference timeout = %v", cfg.Review.ReferenceTimeoutDuration())
	}
	if cfg.Agent.Provider != config.ProviderComparison || cfg.Agent.UsesModel() {
		t.Errorf("agent provider = %q", cfg.Agent.Provider)
	}
	if cfg.Roles.Emails["founder@landmark.ng"] != roles.CTO || !cfg.Roles.Preserve() {
		t.Errorf("roles = %+v", cfg.Roles)
	}
	if cfg.Events.Enabled {
		t.Error("events should default to disabled")
	}
	if cfg.ShutdownTimeoutDuration() != 30*time.Second {
		t.Errorf("shutdown timeout = %v", cfg.ShutdownTimeoutDuration())
	}
}

func TestLoadOverlayAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, dir, config.BaseConfigFile, baseTOML)
	writeFile(t, dir, "config.staging.toml", `
[server]
port = 9090

[roles]
preserve_elevated = false
`)

	t.Setenv(config.EnvLandmarkEnv, "staging")
	t.Setenv("LANDMARK_DB_HOST", "db.internal")
	t.Setenv("LANDMARK_REVIEW_CHECK_TIMEOUT", "7s")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Env() != "staging" {
		t.Errorf("Env() = %q", cfg.Env())
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("overlay port = %d", cfg.Server.Port)
	}
	if cfg.Roles.Preserve() {
		t.Error("overlay preserve_elevated = false not applied")
	}
	if len(cfg.Roles.Domains) != 1 {
		t.Error("base domains should survive an overlay without domains")
	}
	if cfg.Database.Host != "db.internal" {
		t.Errorf("db host = %q", cfg.Database.Host)
	}
	if cfg.Review.CheckTimeoutDuration() != 7*time.Second {
		t.Errorf("env check timeout = %v", cfg.Review.CheckTimeoutDuration())
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, dir, config.DotEnvFile, strings.Join([]string{
		"LANDMARK_DB_NAME=fromdotenv",
		"LANDMARK_DB_USER=fromdotenv",
		"LANDMARK_AUTH_MODE=header",
		"LANDMARK_SERVER_PORT=7070",
	}, "\n"))

	// t.Setenv restores these after the test, including values godotenv sets
	for _, key := range []string{"LANDMARK_DB_NAME", "LANDMARK_DB_USER", "LANDMARK_AUTH_MODE"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Setenv("LANDMARK_SERVER_PORT", "6060")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Database.Name != "fromdotenv" {
		t.Errorf("db name = %q", cfg.Database.Name)
	}
	if cfg.Server.Port != 6060 {
		t.Errorf("process environment should win over .env, port = %d", cfg.Server.Port)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		toml    string
		wantErr string
	}{
		{
			name:    "oidc without issuer",
			toml:    "[database]\nname = \"l\"\nuser = \"l\"\n",
			wantErr: "auth",
		},
		{
			name:    "ark without key",
			toml:    "[database]\nname = \"l\"\nuser = \"l\"\n[auth]\nmode = \"header\"\n[agent]\nprovider = \"ark\"\nmodel = \"m\"\n",
			wantErr: "api_key",
		},
		{
			name:    "unknown provider",
			toml:    "[database]\nname = \"l\"\nuser = \"l\"\n[auth]\nmode = \"header\"\n[agent]\nprovider = \"openai\"\n",
			wantErr: "unknown provider",
		},
		{
			name:    "bad timeout",
			toml:    "[database]\nname = \"l\"\nuser = \"l\"\n[auth]\nmode = \"header\"\n[review]\ncheck_timeout = \"soon\"\n",
			wantErr: "check_timeout",
		},
		{
			name:    "bad body size",
			toml:    "[database]\nname = \"l\"\nuser = \"l\"\n[auth]\nmode = \"header\"\n[api]\nmax_body_size = \"lots\"\n",
			wantErr: "max_body_size",
		},
		{
			name:    "events without brokers",
			toml:    "[database]\nname = \"l\"\nuser = \"l\"\n[auth]\nmode = \"header\"\n[events]\nenabled = true\n",
			wantErr: "events",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			t.Chdir(dir)
			writeFile(t, dir, config.BaseConfigFile, tt.toml)

			_, err := config.Load()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestServerTimeouts(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, dir, config.BaseConfigFile, baseTOML+`
[server]
host = "::1"
port = 9000
idle_timeout = "5m"
`)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got := cfg.Server.Addr(); got != "[::1]:9000" {
		t.Errorf("Addr() = %q", got)
	}
	if cfg.Server.IdleTimeoutDuration() != 5*time.Minute {
		t.Errorf("idle timeout = %v", cfg.Server.IdleTimeoutDuration())
	}
	if cfg.Server.ReadHeaderTimeoutDuration() != 10*time.Second {
		t.Errorf("read header timeout = %v", cfg.Server.ReadHeaderTimeoutDuration())
	}

	t.Setenv(config.EnvServerWriteTimeout, "0s")
	if _, err := config.Load(); err == nil || !strings.Contains(err.Error(), "write_timeout") {
		t.Errorf("zero write_timeout should fail, got %v", err)
	}
}

func TestLoadDatabase(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LANDMARK_DB_NAME", "landmark")
	t.Setenv("LANDMARK_DB_USER", "migrator")
	t.Setenv("LANDMARK_DB_PASSWORD", "p@ss")

	db, err := config.LoadDatabase()
	if err != nil {
		t.Fatalf("LoadDatabase failed: %v", err)
	}

	dsn := db.Dsn()
	if !strings.HasPrefix(dsn, "postgres://migrator:p%40ss@") || !strings.Contains(dsn, "/landmark?") {
		t.Errorf("Dsn() = %q", dsn)
	}
}

func TestShippedConfigAuthMode(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{config.BaseConfigFile, "config.dev.toml"} {
		data, err := os.ReadFile(filepath.Join("..", "..", name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		writeFile(t, dir, name, string(data))
	}
	t.Chdir(dir)

	tests := []struct {
		env  string
		want string
	}{
		{"production", auth.ModeOIDC},
		{"dev", auth.ModeHeader},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv(config.EnvLandmarkEnv, tt.env)

			cfg, err := config.Load()
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if cfg.Auth.Mode != tt.want {
				t.Errorf("auth mode = %q, want %q", cfg.Auth.Mode, tt.want)
			}
		})
	}
}
