// CarMatch - Vehicle Listing Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carmatch

// Package recommend ranks vehicle listings for a browsing session.
//
// # Architecture
//
// A request flows through a fixed pipeline:
//
//   - Sanitize: coerce the raw filter into finite numbers and deduplicated lists
//   - Extract: infer hard constraints from free-text notes
//   - HardFilter: drop listings that violate the filter or note constraints
//   - Scorer: blend budget fit, attribute match and learned preference
//   - Rerankers: reorder the sorted list (see the reranking package)
//   - Decorator: attach a short description to each result
//
// When the hard filter removes every listing the engine scores the full
// catalog instead of returning nothing.
//
// # Profiles
//
// Each session owns a UserProfile updated by like/reject feedback. Attribute
// counters only grow, and liked prices feed a running mean and variance
// (Welford). Profiles live behind the ProfileStore interface; MemoryStore is
// the default and the storage package provides a Badger-backed store.
// Writes for one session are serialized with striped mutexes.
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), catalog, recommend.NewMemoryStore(), logger)
//	if err != nil {
//	    return err
//	}
//	engine.RegisterReranker(reranking.NewModelDiversity())
//
//	resp, err := engine.Recommend(ctx, recommend.RecommendRequest{
//	    SessionID: sessionID,
//	    Filter:    raw,
//	    Limit:     10,
//	})
//
// # Thread Safety
//
// Engine, Scorer, Extractor and MemoryStore are safe for concurrent use.
package recommend
