// CarMatch - Vehicle Listing Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carmatch

package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/carmatch/internal/recommend"
	"github.com/tomtom215/carmatch/internal/recommend/storage"
	"github.com/tomtom215/carmatch/internal/textgen"
)

// Config holds all application configuration loaded from defaults, an
// optional YAML file and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in defaults for every setting
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any mapped setting
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal("Failed to load config:", err)
//	}
//	engine, err := recommend.NewEngine(cfg.EngineConfig(), catalog, store, logger)
//
// Config is immutable after Load() and safe for concurrent reads.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	Recommend RecommendConfig `koanf:"recommend"`
	Profiles  ProfilesConfig  `koanf:"profiles"`
	TextGen   TextGenConfig   `koanf:"textgen"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port    int           `koanf:"port"`
	Host    string        `koanf:"host"`
	Timeout time.Duration `koanf:"timeout"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// CatalogConfig locates the listings CSV.
//
// Environment Variables:
//   - CATALOG_PATH: path to the CSV file (default: cars.csv)
//   - CATALOG_REFRESH_INTERVAL: mtime poll interval, 0 disables (default: 1m)
type CatalogConfig struct {
	Path            string        `koanf:"path"`
	RefreshInterval time.Duration `koanf:"refresh_interval"`
}

// RecommendConfig tunes the ranking engine.
//
// Environment Variables:
//   - RECOMMEND_DEFAULT_LIMIT (default: 10)
//   - RECOMMEND_MAX_LIMIT (default: 40)
//   - RECOMMEND_WEIGHT_BUDGET, RECOMMEND_WEIGHT_ATTRIBUTE, RECOMMEND_WEIGHT_PREFERENCE
//     (default: 0.4, 0.4, 0.2)
//   - RECOMMEND_DIVERSITY_LAMBDA: MMR trade-off, 0 disables MMR (default: 0)
//   - RECOMMEND_DESCRIPTION_CONCURRENCY (default: 4)
//   - RECOMMEND_DESCRIPTION_CACHE_SIZE (default: 5000)
//   - RECOMMEND_DESCRIPTION_CACHE_TTL (default: 30m)
type RecommendConfig struct {
	DefaultLimit int `koanf:"default_limit"`
	MaxLimit     int `koanf:"max_limit"`

	WeightBudget     float64 `koanf:"weight_budget"`
	WeightAttribute  float64 `koanf:"weight_attribute"`
	WeightPreference float64 `koanf:"weight_preference"`

	// DiversityLambda enables the MMR reranker when in (0, 1].
	DiversityLambda float64 `koanf:"diversity_lambda"`

	DescriptionConcurrency int           `koanf:"description_concurrency"`
	DescriptionCacheSize   int           `koanf:"description_cache_size"`
	DescriptionCacheTTL    time.Duration `koanf:"description_cache_ttl"`
}

// Profile store kinds.
const (
	StoreMemory = "memory"
	StoreBadger = "badger"
)

// ProfilesConfig selects the preference profile store.
//
// Environment Variables:
//   - PROFILE_STORE: memory or badger (default: memory)
//   - PROFILE_STORE_PATH: Badger directory (default: /data/profiles)
//   - PROFILE_TTL: profile expiry for badger, 0 keeps forever (default: 168h)
type ProfilesConfig struct {
	Store string        `koanf:"store"`
	Path  string        `koanf:"path"`
	TTL   time.Duration `koanf:"ttl"`
}

// TextGenConfig configures the optional description generator. Descriptions
// fall back to a template when disabled or when no API key is set.
//
// Environment Variables:
//   - TEXTGEN_ENABLED (default: true)
//   - TEXTGEN_API_KEY, falling back to GEMINI_API_KEY
//   - TEXTGEN_BASE_URL, TEXTGEN_MODEL, TEXTGEN_TEMPERATURE, TEXTGEN_TIMEOUT
//   - TEXTGEN_RATE_PER_SECOND, TEXTGEN_BURST
type TextGenConfig struct {
	Enabled       bool          `koanf:"enabled"`
	APIKey        string        `koanf:"api_key"`
	BaseURL       string        `koanf:"base_url"`
	Model         string        `koanf:"model"`
	Temperature   float64       `koanf:"temperature"`
	Timeout       time.Duration `koanf:"timeout"`
	RatePerSecond float64       `koanf:"rate_per_second"`
	Burst         int           `koanf:"burst"`
}

// Active reports whether descriptions should be generated.
func (t TextGenConfig) Active() bool {
	return t.Enabled && t.APIKey != ""
}

// SecurityConfig holds CORS and inbound rate limit settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging settings.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load loads configuration with LoadWithKoanf.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// EngineConfig maps the recommend section onto the engine's configuration.
func (c *Config) EngineConfig() *recommend.Config {
	cfg := recommend.DefaultConfig()
	cfg.Limits.DefaultLimit = c.Recommend.DefaultLimit
	cfg.Limits.MaxLimit = c.Recommend.MaxLimit
	cfg.Blend = recommend.BlendWeights{
		Budget:     c.Recommend.WeightBudget,
		Attribute:  c.Recommend.WeightAttribute,
		Preference: c.Recommend.WeightPreference,
	}
	cfg.Descriptions.Concurrency = c.Recommend.DescriptionConcurrency
	cfg.Descriptions.CacheSize = c.Recommend.DescriptionCacheSize
	cfg.Descriptions.CacheTTL = c.Recommend.DescriptionCacheTTL
	if c.TextGen.Timeout > 0 {
		cfg.Descriptions.Timeout = c.TextGen.Timeout
	}
	return cfg
}

// StorageOptions maps the profiles section onto Badger options.
func (c *Config) StorageOptions() storage.Options {
	return storage.Options{
		Path: c.Profiles.Path,
		TTL:  c.Profiles.TTL,
	}
}

// ClientConfig maps the textgen section onto the HTTP client configuration.
func (c *Config) ClientConfig() textgen.ClientConfig {
	return textgen.ClientConfig{
		BaseURL:     c.TextGen.BaseURL,
		APIKey:      c.TextGen.APIKey,
		Model:       c.TextGen.Model,
		Temperature: c.TextGen.Temperature,
		Timeout:     c.TextGen.Timeout,
	}
}

// GuardConfig maps the textgen section onto the rate limiter and breaker.
func (c *Config) GuardConfig() textgen.GuardConfig {
	g := textgen.DefaultGuardConfig()
	g.RatePerSecond = c.TextGen.RatePerSecond
	g.Burst = c.TextGen.Burst
	return g
}
