// CarMatch - Vehicle Listing Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carmatch

package config

import (
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/tomtom215/carmatch/internal/logging"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateCatalog(); err != nil {
		return err
	}

	if err := c.validateRecommend(); err != nil {
		return err
	}

	if err := c.validateProfiles(); err != nil {
		return err
	}

	if err := c.validateTextGen(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %v", c.Server.Timeout)
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if strings.TrimSpace(c.Catalog.Path) == "" {
		return fmt.Errorf("CATALOG_PATH is required")
	}
	if c.Catalog.RefreshInterval < 0 {
		return fmt.Errorf("CATALOG_REFRESH_INTERVAL must not be negative, got %v", c.Catalog.RefreshInterval)
	}
	return nil
}

// validateRecommend delegates to the engine's own checks so that the two
// never disagree, then checks the settings the engine does not own.
func (c *Config) validateRecommend() error {
	if err := c.EngineConfig().Validate(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}
	lambda := c.Recommend.DiversityLambda
	if math.IsNaN(lambda) || lambda < 0 || lambda > 1 {
		return fmt.Errorf("RECOMMEND_DIVERSITY_LAMBDA must be between 0 and 1, got %f", lambda)
	}
	return nil
}

func (c *Config) validateProfiles() error {
	switch c.Profiles.Store {
	case StoreMemory:
		return nil
	case StoreBadger:
		if strings.TrimSpace(c.Profiles.Path) == "" {
			return fmt.Errorf("PROFILE_STORE_PATH is required when PROFILE_STORE=badger")
		}
		if c.Profiles.TTL < 0 {
			return fmt.Errorf("PROFILE_TTL must not be negative, got %v", c.Profiles.TTL)
		}
		return nil
	default:
		return fmt.Errorf("PROFILE_STORE must be %q or %q, got %q", StoreMemory, StoreBadger, c.Profiles.Store)
	}
}

// validateTextGen only checks the generator settings when it will be used.
func (c *Config) validateTextGen() error {
	if !c.TextGen.Active() {
		return nil
	}
	if err := validateHTTPURL(c.TextGen.BaseURL); err != nil {
		return fmt.Errorf("TEXTGEN_BASE_URL is invalid: %w", err)
	}
	if strings.TrimSpace(c.TextGen.Model) == "" {
		return fmt.Errorf("TEXTGEN_MODEL is required when text generation is enabled")
	}
	if c.TextGen.Temperature < 0 || c.TextGen.Temperature > 2 {
		return fmt.Errorf("TEXTGEN_TEMPERATURE must be between 0 and 2, got %f", c.TextGen.Temperature)
	}
	if c.TextGen.Timeout <= 0 {
		return fmt.Errorf("TEXTGEN_TIMEOUT must be positive, got %v", c.TextGen.Timeout)
	}
	if c.TextGen.RatePerSecond <= 0 {
		return fmt.Errorf("TEXTGEN_RATE_PER_SECOND must be positive, got %f", c.TextGen.RatePerSecond)
	}
	if c.TextGen.Burst < 1 {
		return fmt.Errorf("TEXTGEN_BURST must be at least 1, got %d", c.TextGen.Burst)
	}
	return nil
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("host is required")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if len(c.Security.CORSOrigins) == 0 {
		return fmt.Errorf("CORS_ORIGINS must list at least one origin")
	}
	if c.Security.RateLimitDisabled {
		return nil
	}
	return c.validateRateLimits()
}

func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow < time.Second {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be at least 1s, got %v", c.Security.RateLimitWindow)
	}
	return nil
}

// HasWildcardCORS reports whether any origin is allowed.
func (c *Config) HasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
		return nil
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
}
