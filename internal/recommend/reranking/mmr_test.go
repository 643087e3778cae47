// CarMatch - Vehicle Listing Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carmatch

package reranking

import (
	"context"
	"slices"
	"testing"

	"github.com/tomtom215/carmatch/internal/recommend"
)

func listingResult(id int, model, category, drivetrain, fuel string, score float64) recommend.ScoredResult {
	return recommend.ScoredResult{
		Listing: recommend.Listing{
			ID: id, Model: model, VehicleCategory: category, Drivetrain: drivetrain, FuelType: fuel,
		},
		Score: score,
	}
}

func suvHeavy() []recommend.ScoredResult {
	return []recommend.ScoredResult{
		listingResult(1, "RAV4 XLE Hybrid", "SUVs", "AWD", "Hybrid", 1.0),
		listingResult(2, "RAV4 Limited Hybrid", "SUVs", "AWD", "Hybrid", 0.95),
		listingResult(3, "RAV4 LE Hybrid", "SUVs", "AWD", "Hybrid", 0.9),
		listingResult(4, "Camry SE", "Cars", "FWD", "Fuel", 0.5),
		listingResult(5, "Tacoma TRD", "Trucks", "4WD", "Fuel", 0.4),
	}
}

func TestNewMMR(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		lambda     float64
		wantLambda float64
	}{
		{"normal value", 0.7, 0.7},
		{"zero value", 0.0, 0.0},
		{"one value", 1.0, 1.0},
		{"negative clamped to zero", -0.5, 0.0},
		{"above one clamped to one", 1.5, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			mmr := NewMMR(tt.lambda)
			if mmr.lambda != tt.wantLambda {
				t.Errorf("lambda = %f, want %f", mmr.lambda, tt.wantLambda)
			}
		})
	}
}

func TestMMR_Name(t *testing.T) {
	t.Parallel()

	if got := NewMMR(0.7).Name(); got != "mmr" {
		t.Errorf("Name() = %q, want %q", got, "mmr")
	}
}

func TestMMR_Rerank(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		lambda  float64
		k       int
		wantLen int
	}{
		{"pure relevance", 1.0, 3, 3},
		{"balanced", 0.7, 3, 3},
		{"k larger than input", 0.7, 10, 5},
		{"k zero returns input", 0.7, 0, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := NewMMR(tt.lambda).Rerank(context.Background(), suvHeavy(), tt.k)
			if len(got) != tt.wantLen {
				t.Errorf("len(result) = %d, want %d", len(got), tt.wantLen)
			}
		})
	}
}

func TestMMR_Rerank_DiversityEffect(t *testing.T) {
	t.Parallel()

	if got := ids(NewMMR(1.0).Rerank(context.Background(), suvHeavy(), 3)); !slices.Equal(got, []int{1, 2, 3}) {
		t.Errorf("pure relevance = %v, want [1 2 3]", got)
	}

	got := ids(NewMMR(0.3).Rerank(context.Background(), suvHeavy(), 3))
	if want := []int{1, 4, 5}; !slices.Equal(got, want) {
		t.Errorf("diversity-focused = %v, want %v", got, want)
	}
}

func TestMMR_Rerank_EmptyAndSingle(t *testing.T) {
	t.Parallel()

	mmr := NewMMR(0.7)
	if got := mmr.Rerank(context.Background(), nil, 5); len(got) != 0 {
		t.Errorf("expected empty result for nil input, got %d", len(got))
	}

	single := suvHeavy()[:1]
	got := mmr.Rerank(context.Background(), single, 5)
	if len(got) != 1 || got[0].ID != 1 {
		t.Errorf("single input = %v", ids(got))
	}
}

func TestJaccard(t *testing.T) {
	t.Parallel()

	set := func(keys ...string) map[string]struct{} {
		m := make(map[string]struct{}, len(keys))
		for _, k := range keys {
			m[k] = struct{}{}
		}
		return m
	}

	tests := []struct {
		name string
		a, b map[string]struct{}
		want float64
	}{
		{"identical", set("a", "b"), set("a", "b"), 1},
		{"disjoint", set("a"), set("b"), 0},
		{"half", set("a", "b"), set("b", "c", "a", "d"), 0.5},
		{"both empty", set(), set(), 0},
	}
	for _, tt := range tests {
		if got := jaccard(tt.a, tt.b); got != tt.want {
			t.Errorf("%s: jaccard() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestMMR_FeaturesUseCanonicalModel(t *testing.T) {
	t.Parallel()

	m := NewMMR(0.5)
	a := suvHeavy()[0].Listing
	b := suvHeavy()[2].Listing
	if sim := jaccard(m.features(&a), m.features(&b)); sim != 1 {
		t.Errorf("two RAV4 hybrid trims similarity = %v, want 1", sim)
	}
}
