// CarMatch - Vehicle Listing Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carmatch

// Package logging provides the zerolog-based global logger for CarMatch.
//
// # Overview
//
// The package provides:
//   - JSON output for production and console output for development
//   - request and correlation ids carried on context.Context
//   - an slog.Handler backed by zerolog for sutureslog
//
// Long-lived components do not call the global helpers directly; they take a
// zerolog.Logger at construction and derive a child:
//
//	logger.With().Str("component", "catalog").Logger()
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json", Timestamp: true})
//	logging.Info().Str("addr", addr).Msg("server listening")
//	logging.Ctx(r.Context()).Warn().Err(err).Msg("recommendation failed")
//
// # Configuration
//
//	LOG_LEVEL   trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  json, console (default: json)
//	LOG_CALLER  include caller file:line (default: false)
//
// Always terminate a chain with Msg or Send; an unterminated event is dropped.
package logging
