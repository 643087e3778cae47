// CarMatch - Vehicle Listing Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carmatch

package recommend

import (
	"fmt"
	"math"
	"time"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Limits bounds the number of results per request.
	Limits LimitsConfig `json:"limits"`

	// Blend weights the budget, attribute and preference sub-scores.
	Blend BlendWeights `json:"blend"`

	// Descriptions controls the per-listing description decorator.
	Descriptions DescriptionConfig `json:"descriptions"`

	// Extractor overrides the note keyword tables. Nil uses DefaultExtractorRules.
	Extractor *ExtractorRules `json:"extractor,omitempty"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// DefaultLimit is used when a request does not specify a limit.
	DefaultLimit int `json:"default_limit"`

	// MaxLimit caps the requested limit.
	MaxLimit int `json:"max_limit"`
}

// DescriptionConfig controls description generation and caching.
type DescriptionConfig struct {
	// Concurrency bounds simultaneous description calls per request.
	Concurrency int `json:"concurrency"`

	// CacheSize is the maximum number of cached descriptions across sessions.
	CacheSize int `json:"cache_size"`

	// CacheTTL expires cached descriptions.
	CacheTTL time.Duration `json:"cache_ttl"`

	// Timeout bounds a single generation call.
	Timeout time.Duration `json:"timeout"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() *Config {
	return &Config{
		Limits: LimitsConfig{
			DefaultLimit: 10,
			MaxLimit:     40,
		},
		Blend: DefaultBlendWeights(),
		Descriptions: DescriptionConfig{
			Concurrency: 4,
			CacheSize:   5000,
			CacheTTL:    30 * time.Minute,
			Timeout:     8 * time.Second,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Limits.DefaultLimit < 1 {
		return fmt.Errorf("limits.default_limit must be positive, got %d", c.Limits.DefaultLimit)
	}
	if c.Limits.MaxLimit < c.Limits.DefaultLimit {
		return fmt.Errorf("limits.max_limit must be >= limits.default_limit, got %d < %d", c.Limits.MaxLimit, c.Limits.DefaultLimit)
	}

	for name, w := range map[string]float64{
		"budget":     c.Blend.Budget,
		"attribute":  c.Blend.Attribute,
		"preference": c.Blend.Preference,
	} {
		if w < 0 || math.IsNaN(w) {
			return fmt.Errorf("blend.%s must be non-negative, got %f", name, w)
		}
	}
	if sum := c.Blend.Budget + c.Blend.Attribute + c.Blend.Preference; sum <= 0 {
		return fmt.Errorf("blend weights must sum to a positive value, got %f", sum)
	}

	if c.Descriptions.Concurrency < 1 {
		return fmt.Errorf("descriptions.concurrency must be positive, got %d", c.Descriptions.Concurrency)
	}
	if c.Descriptions.CacheSize < 1 {
		return fmt.Errorf("descriptions.cache_size must be positive, got %d", c.Descriptions.CacheSize)
	}
	if c.Descriptions.CacheTTL <= 0 {
		return fmt.Errorf("descriptions.cache_ttl must be positive, got %v", c.Descriptions.CacheTTL)
	}
	if c.Descriptions.Timeout <= 0 {
		return fmt.Errorf("descriptions.timeout must be positive, got %v", c.Descriptions.Timeout)
	}

	return nil
}

// ClampLimit maps a requested limit into [1, MaxLimit], using DefaultLimit for zero.
func (c *Config) ClampLimit(requested int) int {
	if requested == 0 {
		requested = c.Limits.DefaultLimit
	}
	return max(1, min(requested, c.Limits.MaxLimit))
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	cp := *c
	if c.Extractor != nil {
		rules := *c.Extractor
		cp.Extractor = &rules
	}
	return &cp
}
