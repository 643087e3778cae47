// CarMatch - Vehicle Listing Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carmatch

// Package reranking implements post-scoring rerankers for listing diversity.
//
// Rerankers run after the engine has sorted candidates by score and before the
// result list is truncated to the requested limit:
//
//	Hard Filter -> Scorer -> sort -> Rerankers -> top-N -> Descriptions
//
// # Available Rerankers
//
// Model diversity (ModelDiversity, Promote):
//   - Buckets results by canonical model key ("RAV4 XLE Hybrid" -> "rav4")
//   - Emits results round-robin by depth across buckets
//   - The first pass holds the best listing of every distinct model
//
// Maximal Marginal Relevance (MMR):
//   - Trades score against similarity to already-selected listings
//   - Similarity is Jaccard over canonical model, category, drivetrain and fuel
//   - Lambda 1.0 disables it; it is off by default
//
// # Canonical Model Keys
//
// CanonicalModel checks a table of multi-word overrides first ("grand
// highlander", "land cruiser", "gr corolla"), then drops the brand, trim tokens
// and four-digit years and keeps the first remaining token. The word tables are
// data (CanonicalRules) and can be replaced through configuration.
//
// # Usage Example
//
//	engine.RegisterReranker(reranking.NewModelDiversity(nil))
//
// Or directly:
//
//	top := reranking.Promote(sorted, 10)
//
// # Thread Safety
//
// All rerankers are stateless after construction and safe for concurrent use.
package reranking
