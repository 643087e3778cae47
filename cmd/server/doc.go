// CarMatch - Vehicle Listing Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carmatch

/*
Package main is the entry point for the CarMatch server.

CarMatch ranks vehicle listings from a CSV catalog against a shopper's
structured filter and free-text notes, learns from like/reject feedback per
session, and optionally attaches short generated descriptions to the top
results.

# Application Architecture

Long-running components run under a Suture v4 supervisor tree:

	RootSupervisor ("carmatch")
	├── DataSupervisor ("data-layer")
	│   ├── Catalog refresher (reloads the CSV when it changes)
	│   └── Badger profile store GC (PROFILE_STORE=badger only)
	└── APISupervisor ("api-layer")
	    ├── HTTP Server
	    └── Stats reporter

Initialization order:

 1. Environment: optional .env files (godotenv)
 2. Configuration: Koanf v2 with defaults, config file and environment
 3. Logging: zerolog, bridged to slog for the supervisor
 4. Catalog: first load of CATALOG_PATH; failures are retried by the refresher
 5. Profile store: in-memory or BadgerDB
 6. Engine: scoring, rerankers (MMR, model diversity) and text generation
 7. HTTP Server: Chi router, see package api for the endpoint list

# Configuration

Commonly used environment variables:

	HTTP_PORT            listen port (default: 8080)
	CATALOG_PATH         listings CSV (default: cars.csv)
	PROFILE_STORE        memory or badger (default: memory)
	TEXTGEN_API_KEY      enables generated descriptions
	CORS_ORIGINS         comma separated allowed origins
	LOG_LEVEL            trace, debug, info, warn, error

See package config for the full list.

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server stops accepting
connections and drains in-flight requests for up to 10 seconds, then the
profile store is closed.

# Example Usage

	export CATALOG_PATH=./data/cars.csv
	export TEXTGEN_API_KEY=your-key
	./carmatch-server
*/
package main
