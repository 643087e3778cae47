// CarMatch - Vehicle Listing Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carmatch

package reranking

import (
	"context"
	"strings"

	"github.com/tomtom215/carmatch/internal/recommend"
)

// MMR implements Maximal Marginal Relevance reranking over listing attributes.
// It iteratively selects results that are both well scored and unlike the
// results already selected.
//
//	MMR = argmax[lambda * score(i) - (1-lambda) * max(sim(i, s)) for s in selected]
//
// Where:
//   - lambda: balance parameter (1.0 = pure relevance, 0.0 = pure diversity)
//   - score(i): blended score of result i
//   - sim(i, s): Jaccard similarity of the listings' feature sets
//
// Features are the canonical model, category, drivetrain and fuel type, so two
// trims of the same hybrid SUV are near-duplicates while a sedan is not.
//
// Reference:
// Carbonell, J., & Goldstein, J. (1998). "The Use of MMR, Diversity-Based
// Reranking for Reordering Documents and Producing Summaries." SIGIR 1998.
type MMR struct {
	// Lambda balances relevance vs. diversity (0.0 to 1.0)
	lambda float64
	canon  *Canonicalizer
}

// NewMMR creates a new MMR reranker.
func NewMMR(lambda float64) *MMR {
	if lambda < 0 {
		lambda = 0
	}
	if lambda > 1 {
		lambda = 1
	}
	return &MMR{lambda: lambda, canon: defaultCanonicalizer()}
}

// Name returns the reranker identifier.
func (m *MMR) Name() string {
	return "mmr"
}

// Rerank applies MMR reranking and returns at most k results.
func (m *MMR) Rerank(_ context.Context, results []recommend.ScoredResult, k int) []recommend.ScoredResult {
	if len(results) == 0 || k <= 0 {
		return results
	}

	k = min(k, maxRerankSize, len(results))

	// Pure relevance keeps the incoming order.
	if m.lambda >= 1.0 {
		return results[:k]
	}

	features := make([]map[string]struct{}, len(results))
	for i := range results {
		features[i] = m.features(&results[i].Listing)
	}

	selected := make([]recommend.ScoredResult, 0, k)
	taken := make([]bool, len(results))
	// maxSim[i] is the highest similarity of candidate i to any selected
	// listing. It is updated with each new pick only.
	maxSim := make([]float64, len(results))

	for len(selected) < k {
		bestIdx := -1
		bestMMR := 0.0

		for i := range results {
			if taken[i] {
				continue
			}
			score := m.lambda*results[i].Score - (1-m.lambda)*maxSim[i]
			if bestIdx < 0 || score > bestMMR {
				bestMMR = score
				bestIdx = i
			}
		}

		if bestIdx < 0 {
			break
		}
		selected = append(selected, results[bestIdx])
		taken[bestIdx] = true

		for i := range results {
			if taken[i] {
				continue
			}
			if sim := jaccard(features[i], features[bestIdx]); sim > maxSim[i] {
				maxSim[i] = sim
			}
		}
	}

	return selected
}

// features returns the prefixed attribute set used for similarity.
func (m *MMR) features(l *recommend.Listing) map[string]struct{} {
	set := make(map[string]struct{}, 4)
	add := func(kind, value string) {
		if v := strings.ToLower(strings.TrimSpace(value)); v != "" {
			set[kind+":"+v] = struct{}{}
		}
	}
	add("model", m.canon.Canonical(l.Model))
	add("category", l.CategoryLabel())
	add("drivetrain", l.Drivetrain)
	add("fuel", l.FuelType)
	return set
}

// jaccard computes |a ∩ b| / |a ∪ b|, or 0 when both are empty.
func jaccard(a, b map[string]struct{}) float64 {
	intersection := 0
	for f := range a {
		if _, ok := b[f]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// Ensure MMR implements the interface.
var _ recommend.Reranker = (*MMR)(nil)
