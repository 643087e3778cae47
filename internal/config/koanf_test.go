// CarMatch - Vehicle Listing Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carmatch

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()

	if cfg.Server.Port != 8080 || cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.Catalog.Path != "cars.csv" || cfg.Catalog.RefreshInterval != time.Minute {
		t.Errorf("Catalog = %+v", cfg.Catalog)
	}
	if cfg.Recommend.DefaultLimit != 10 || cfg.Recommend.MaxLimit != 40 {
		t.Errorf("Recommend limits = %d/%d, want 10/40", cfg.Recommend.DefaultLimit, cfg.Recommend.MaxLimit)
	}
	if cfg.Recommend.WeightBudget != 0.4 || cfg.Recommend.WeightAttribute != 0.4 || cfg.Recommend.WeightPreference != 0.2 {
		t.Errorf("Recommend weights = %+v", cfg.Recommend)
	}
	if cfg.Recommend.DiversityLambda != 0 {
		t.Errorf("DiversityLambda = %f, want 0 (MMR off)", cfg.Recommend.DiversityLambda)
	}
	if cfg.Profiles.Store != StoreMemory {
		t.Errorf("Profiles.Store = %q, want memory", cfg.Profiles.Store)
	}
	if cfg.TextGen.APIKey != "" || cfg.TextGen.Active() {
		t.Error("text generation should be inactive without an API key")
	}
	if len(cfg.Security.CORSOrigins) != 1 || cfg.Security.CORSOrigins[0] != "*" {
		t.Errorf("CORSOrigins = %v, want [*]", cfg.Security.CORSOrigins)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

// TestEnvTransformFunc verifies environment variable name transformations
func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"HTTP_PORT", "server.port"},
		{"CATALOG_PATH", "catalog.path"},
		{"catalog_refresh_interval", "catalog.refresh_interval"},
		{"RECOMMEND_MAX_LIMIT", "recommend.max_limit"},
		{"RECOMMEND_WEIGHT_PREFERENCE", "recommend.weight_preference"},
		{"PROFILE_STORE", "profiles.store"},
		{"PROFILE_STORE_PATH", "profiles.path"},
		{"TEXTGEN_API_KEY", "textgen.api_key"},
		{"TEXTGEN_RATE_PER_SECOND", "textgen.rate_per_second"},
		{"CORS_ORIGINS", "security.cors_origins"},
		{"DISABLE_RATE_LIMIT", "security.rate_limit_disabled"},
		{"LOG_LEVEL", "logging.level"},

		// Unmapped variables are dropped
		{"PATH", ""},
		{"HOME", ""},
		{"GEMINI_API_KEY", ""},
	}

	for _, tt := range tests {
		if got := envTransformFunc(tt.input); got != tt.expected {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFindConfigFile(t *testing.T) {
	dir := t.TempDir()
	custom := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(custom, []byte("server:\n  port: 9000\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Run("env path wins", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, custom)
		if got := findConfigFile(); got != custom {
			t.Errorf("findConfigFile() = %q, want %q", got, custom)
		}
	})

	t.Run("missing env path is ignored", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, filepath.Join(dir, "missing.yaml"))
		if got := findConfigFile(); got != "" {
			t.Errorf("findConfigFile() = %q, want empty", got)
		}
	})
}

func TestLoadWithKoanfEnvVars(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("CATALOG_PATH", "/srv/listings.csv")
	t.Setenv("CATALOG_REFRESH_INTERVAL", "0s")
	t.Setenv("RECOMMEND_MAX_LIMIT", "25")
	t.Setenv("PROFILE_STORE", "badger")
	t.Setenv("PROFILE_TTL", "24h")
	t.Setenv("TEXTGEN_API_KEY", "test-key")
	t.Setenv("GEMINI_API_KEY", "ignored-key")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Catalog.Path != "/srv/listings.csv" || cfg.Catalog.RefreshInterval != 0 {
		t.Errorf("Catalog = %+v", cfg.Catalog)
	}
	if cfg.Recommend.MaxLimit != 25 {
		t.Errorf("Recommend.MaxLimit = %d, want 25", cfg.Recommend.MaxLimit)
	}
	if cfg.Profiles.Store != StoreBadger || cfg.Profiles.TTL != 24*time.Hour {
		t.Errorf("Profiles = %+v", cfg.Profiles)
	}
	if cfg.TextGen.APIKey != "test-key" || !cfg.TextGen.Active() {
		t.Errorf("TextGen.APIKey = %q, want test-key", cfg.TextGen.APIKey)
	}
	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.Security.CORSOrigins) != len(want) {
		t.Fatalf("CORSOrigins = %v, want %v", cfg.Security.CORSOrigins, want)
	}
	for i := range want {
		if cfg.Security.CORSOrigins[i] != want[i] {
			t.Errorf("CORSOrigins[%d] = %q, want %q", i, cfg.Security.CORSOrigins[i], want[i])
		}
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoadWithKoanfFallbackAPIKey(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("TEXTGEN_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "fallback-key")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.TextGen.APIKey != "fallback-key" {
		t.Errorf("TextGen.APIKey = %q, want fallback-key", cfg.TextGen.APIKey)
	}
}

func TestLoadWithKoanfConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 7000
recommend:
  default_limit: 5
  weight_preference: 0.5
security:
  cors_origins:
    - https://dealer.example
logging:
  format: console
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	// Env overrides the file.
	t.Setenv("HTTP_PORT", "7100")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Server.Port != 7100 {
		t.Errorf("Server.Port = %d, want env override 7100", cfg.Server.Port)
	}
	if cfg.Recommend.DefaultLimit != 5 || cfg.Recommend.WeightPreference != 0.5 {
		t.Errorf("Recommend = %+v", cfg.Recommend)
	}
	if cfg.Recommend.MaxLimit != 40 {
		t.Errorf("Recommend.MaxLimit = %d, want default 40", cfg.Recommend.MaxLimit)
	}
	if len(cfg.Security.CORSOrigins) != 1 || cfg.Security.CORSOrigins[0] != "https://dealer.example" {
		t.Errorf("CORSOrigins = %v", cfg.Security.CORSOrigins)
	}
	if cfg.Logging.Format != "console" {
		t.Errorf("Logging.Format = %q, want console", cfg.Logging.Format)
	}
}

func TestLoadWithKoanfInvalid(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("PROFILE_STORE", "redis")

	if _, err := LoadWithKoanf(); err == nil {
		t.Error("LoadWithKoanf() should reject an unknown profile store")
	}
}

func TestLoadWithKoanfMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	if _, err := LoadWithKoanf(); err == nil {
		t.Error("LoadWithKoanf() should fail on malformed YAML")
	}
}
