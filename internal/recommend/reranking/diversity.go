// CarMatch - Vehicle Listing Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carmatch

package reranking

import (
	"context"

	"github.com/tomtom215/carmatch/internal/recommend"
)

// maxRerankSize limits slice allocations; k is also bounded by len(results).
const maxRerankSize = 10000

// Promote reorders score-sorted results so base models take turns.
//
// Results are bucketed by canonical model key, buckets ordered by first
// appearance. Output is built in passes of increasing depth: pass d appends
// the d-th result of every bucket that has one. The first pass is therefore
// the best listing of each distinct model, in score order.
func Promote(sorted []recommend.ScoredResult, limit int) []recommend.ScoredResult {
	return promote(defaultCanonicalizer(), sorted, limit)
}

func promote(c *Canonicalizer, sorted []recommend.ScoredResult, limit int) []recommend.ScoredResult {
	if len(sorted) == 0 || limit <= 0 {
		return []recommend.ScoredResult{}
	}
	limit = min(limit, len(sorted), maxRerankSize)

	order := make([]string, 0)
	buckets := make(map[string][]int)
	for i := range sorted {
		key := c.Canonical(sorted[i].Model)
		if _, ok := buckets[key]; !ok {
			order = append(order, key)
		}
		buckets[key] = append(buckets[key], i)
	}

	out := make([]recommend.ScoredResult, 0, limit)
	for depth := 0; len(out) < limit; depth++ {
		added := false
		for _, key := range order {
			bucket := buckets[key]
			if depth >= len(bucket) {
				continue
			}
			out = append(out, sorted[bucket[depth]])
			added = true
			if len(out) == limit {
				break
			}
		}
		if !added {
			break
		}
	}
	return out
}

// ModelDiversity is a Reranker that applies Promote so trim variants of
// one model do not flood the top of the list.
type ModelDiversity struct {
	canon *Canonicalizer
}

// NewModelDiversity creates the reranker. A nil canonicalizer uses the default rules.
func NewModelDiversity(c *Canonicalizer) *ModelDiversity {
	if c == nil {
		c = defaultCanonicalizer()
	}
	return &ModelDiversity{canon: c}
}

// Name returns the reranker identifier.
func (m *ModelDiversity) Name() string {
	return "model_diversity"
}

// Rerank returns at most k results with base models interleaved.
func (m *ModelDiversity) Rerank(_ context.Context, results []recommend.ScoredResult, k int) []recommend.ScoredResult {
	return promote(m.canon, results, k)
}

var _ recommend.Reranker = (*ModelDiversity)(nil)
