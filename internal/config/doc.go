// CarMatch - Vehicle Listing Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carmatch

/*
Package config provides centralized configuration management for CarMatch.

# Configuration Sources

Configuration is layered with Koanf v2, later layers overriding earlier ones:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: $CONFIG_PATH, ./config.yaml, /etc/carmatch/config.yaml
 3. Mapped environment variables

cmd/server calls LoadDotEnv first, so a local .env file can supply
environment variables during development. Variables already exported in the
shell are never overwritten.

# Sections

  - server: listen host, port and timeout
  - catalog: CSV path and refresh interval
  - recommend: result limits, blend weights, MMR lambda, description fan-out and cache
  - profiles: memory or badger store, path and TTL
  - textgen: generation endpoint, model, key, timeout and outbound rate
  - security: CORS origins and inbound rate limiting
  - logging: level, format and caller

# Environment Variables

Server:
  - HTTP_HOST (default: 0.0.0.0)
  - HTTP_PORT (default: 8080)
  - HTTP_TIMEOUT (default: 30s)

Catalog:
  - CATALOG_PATH (default: cars.csv)
  - CATALOG_REFRESH_INTERVAL (default: 1m, 0 disables reloads)

Profiles:
  - PROFILE_STORE: memory or badger (default: memory)
  - PROFILE_STORE_PATH (default: /data/profiles)
  - PROFILE_TTL (default: 168h)

Text generation:
  - TEXTGEN_API_KEY or GEMINI_API_KEY; without a key descriptions use the template
  - TEXTGEN_ENABLED, TEXTGEN_BASE_URL, TEXTGEN_MODEL, TEXTGEN_TEMPERATURE, TEXTGEN_TIMEOUT
  - TEXTGEN_RATE_PER_SECOND, TEXTGEN_BURST

Security:
  - CORS_ORIGINS: comma-separated (default: *)
  - RATE_LIMIT_REQUESTS (default: 100), RATE_LIMIT_WINDOW (default: 1m)
  - DISABLE_RATE_LIMIT (default: false)

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

Unmapped environment variables are ignored.

# Validation

LoadWithKoanf calls Config.Validate, which rejects out-of-range ports,
inconsistent limits, negative or all-zero blend weights, unknown store kinds
and malformed generator settings. The recommend checks are delegated to
recommend.Config.Validate so both layers agree.
*/
package config
