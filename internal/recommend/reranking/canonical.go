// CarMatch - Vehicle Listing Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carmatch

package reranking

import (
	"strconv"
	"strings"
	"sync"
	"unicode"
)

// CanonicalRules are the word tables used to reduce a model name to its base key.
type CanonicalRules struct {
	// Overrides are multi-word base models matched before any stripping,
	// e.g. "grand highlander" must not collapse to "grand".
	Overrides []string `json:"overrides"`

	// Brands are dropped wherever they appear.
	Brands []string `json:"brands"`

	// Trims are trim, package and drivetrain tokens that never identify a model.
	Trims []string `json:"trims"`
}

// DefaultCanonicalRules returns the built-in Toyota tables.
func DefaultCanonicalRules() CanonicalRules {
	return CanonicalRules{
		Overrides: []string{
			"grand highlander", "land cruiser", "gr corolla", "corolla cross",
			"bz4x", "c-hr", "gr86", "gr supra",
		},
		Brands: []string{"toyota"},
		Trims: []string{
			"le", "se", "xle", "xse", "limited", "platinum", "trd", "pro", "sport",
			"off-road", "hybrid", "awd", "fwd", "rwd", "4wd", "4x4", "nightshade",
			"premium", "woodland", "adventure", "base", "s", "l", "sr", "sr5",
			"capstone", "1794", "v6", "max",
		},
	}
}

// Canonicalizer maps model names to canonical model keys.
// It is immutable after construction and safe for concurrent use.
type Canonicalizer struct {
	overrides [][]string
	drop      map[string]struct{}
}

// NewCanonicalizer builds a Canonicalizer from rules.
func NewCanonicalizer(rules CanonicalRules) *Canonicalizer {
	c := &Canonicalizer{
		overrides: make([][]string, 0, len(rules.Overrides)),
		drop:      make(map[string]struct{}, len(rules.Brands)+len(rules.Trims)),
	}
	for _, o := range rules.Overrides {
		if tokens := modelTokens(o); len(tokens) > 0 {
			c.overrides = append(c.overrides, tokens)
		}
	}
	for _, w := range append(append([]string(nil), rules.Brands...), rules.Trims...) {
		c.drop[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
	}
	return c
}

var defaultCanonicalizer = sync.OnceValue(func() *Canonicalizer {
	return NewCanonicalizer(DefaultCanonicalRules())
})

// CanonicalModel reduces a model name using the default rules:
// "2022 Toyota RAV4 XLE Hybrid" becomes "rav4".
func CanonicalModel(name string) string {
	return defaultCanonicalizer().Canonical(name)
}

// Canonical returns the base model key for name. Overrides win; otherwise the
// first token left after dropping brands, trims and years. A name that is all
// trims maps to itself, lower-cased.
func (c *Canonicalizer) Canonical(name string) string {
	lowered := strings.ToLower(strings.TrimSpace(name))
	tokens := modelTokens(lowered)

	for _, o := range c.overrides {
		if containsRun(tokens, o) {
			return strings.Join(o, " ")
		}
	}

	for _, tok := range tokens {
		if _, skip := c.drop[tok]; skip || isYear(tok) {
			continue
		}
		return tok
	}
	return lowered
}

// modelTokens splits on anything but letters, digits and hyphens.
func modelTokens(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	})
}

// containsRun reports whether run appears contiguously in tokens.
func containsRun(tokens, run []string) bool {
	if len(run) == 0 || len(run) > len(tokens) {
		return false
	}
outer:
	for i := 0; i+len(run) <= len(tokens); i++ {
		for j, r := range run {
			if tokens[i+j] != r {
				continue outer
			}
		}
		return true
	}
	return false
}

func isYear(tok string) bool {
	if len(tok) != 4 {
		return false
	}
	n, err := strconv.Atoi(tok)
	return err == nil && n >= 1900 && n <= 2099
}
