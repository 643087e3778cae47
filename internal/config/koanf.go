// CarMatch - Vehicle Listing Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carmatch

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/carmatch/internal/textgen"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/carmatch/config.yaml",
	"/etc/carmatch/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:    8080,
			Host:    "0.0.0.0",
			Timeout: 30 * time.Second,
		},
		Catalog: CatalogConfig{
			Path:            "cars.csv",
			RefreshInterval: time.Minute,
		},
		Recommend: RecommendConfig{
			DefaultLimit:           10,
			MaxLimit:               40,
			WeightBudget:           0.4,
			WeightAttribute:        0.4,
			WeightPreference:       0.2,
			DiversityLambda:        0, // MMR off; model diversity always runs
			DescriptionConcurrency: 4,
			DescriptionCacheSize:   5000,
			DescriptionCacheTTL:    30 * time.Minute,
		},
		Profiles: ProfilesConfig{
			Store: StoreMemory,
			Path:  "/data/profiles",
			TTL:   7 * 24 * time.Hour,
		},
		TextGen: TextGenConfig{
			Enabled:       true,
			BaseURL:       textgen.DefaultBaseURL,
			Model:         textgen.DefaultModel,
			Temperature:   textgen.DefaultTemperature,
			Timeout:       textgen.DefaultTimeout,
			RatePerSecond: 2,
			Burst:         4,
		},
		Security: SecurityConfig{
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any mapped setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// CATALOG_PATH -> catalog.path, TEXTGEN_API_KEY -> textgen.api_key
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := applyFallbackKeys(k); err != nil {
		return nil, err
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file, or "" when none exists.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// fallbackAPIKeyEnvVar is read when TEXTGEN_API_KEY and the config file leave the key empty.
const fallbackAPIKeyEnvVar = "GEMINI_API_KEY"

// applyFallbackKeys fills textgen.api_key from GEMINI_API_KEY.
func applyFallbackKeys(k *koanf.Koanf) error {
	if k.String("textgen.api_key") != "" {
		return nil
	}
	if key := os.Getenv(fallbackAPIKeyEnvVar); key != "" {
		if err := k.Set("textgen.api_key", key); err != nil {
			return fmt.Errorf("failed to set textgen.api_key: %w", err)
		}
	}
	return nil
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings; YAML lists are left alone.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps lowercased environment variable names to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_port":    "server.port",
	"http_host":    "server.host",
	"http_timeout": "server.timeout",

	// Catalog
	"catalog_path":             "catalog.path",
	"catalog_refresh_interval": "catalog.refresh_interval",

	// Recommendation engine
	"recommend_default_limit":           "recommend.default_limit",
	"recommend_max_limit":               "recommend.max_limit",
	"recommend_weight_budget":           "recommend.weight_budget",
	"recommend_weight_attribute":        "recommend.weight_attribute",
	"recommend_weight_preference":       "recommend.weight_preference",
	"recommend_diversity_lambda":        "recommend.diversity_lambda",
	"recommend_description_concurrency": "recommend.description_concurrency",
	"recommend_description_cache_size":  "recommend.description_cache_size",
	"recommend_description_cache_ttl":   "recommend.description_cache_ttl",

	// Profiles
	"profile_store":      "profiles.store",
	"profile_store_path": "profiles.path",
	"profile_ttl":        "profiles.ttl",

	// Text generation
	"textgen_enabled":         "textgen.enabled",
	"textgen_api_key":         "textgen.api_key",
	"textgen_base_url":        "textgen.base_url",
	"textgen_model":           "textgen.model",
	"textgen_temperature":     "textgen.temperature",
	"textgen_timeout":         "textgen.timeout",
	"textgen_rate_per_second": "textgen.rate_per_second",
	"textgen_burst":           "textgen.burst",

	// Security
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps an environment variable name to its koanf path.
// Unmapped variables return "" and are skipped, so unrelated environment
// variables never reach the configuration.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
