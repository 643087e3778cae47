// CarMatch - Vehicle Listing Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carmatch

// Package storage provides durable session profile persistence.
//
// BadgerStore implements recommend.ProfileStore on top of BadgerDB so learned
// preferences survive restarts. The in-process recommend.MemoryStore remains
// the default for tests and single-shot CLI runs.
//
// # Storage Format
//
// Each profile is one key-value pair:
//
//	key:   profile:{session_id}
//	value: JSON-encoded recommend.UserProfile (goccy/go-json)
//
// With a positive TTL every Put refreshes the entry's expiry, so idle sessions
// age out without a sweeper. Expired entries are reclaimed by BadgerDB value
// log garbage collection, which Serve runs on an interval.
//
// # Thread Safety
//
// BadgerDB transactions make individual operations safe for concurrent use.
// Read-modify-write cycles on one session are serialized by the engine, not
// by the store.
package storage
