// CarMatch - Vehicle Listing Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carmatch

package recommend

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"
)

// NoteConstraints are hard constraints inferred from free-text notes.
// A nil pointer, false or empty value means the notes did not mention it.
type NoteConstraints struct {
	MinMPG              *float64 `json:"min_mpg,omitempty"`
	RequireAWD          bool     `json:"require_awd,omitempty"`
	MinSeating          *int     `json:"min_seating,omitempty"`
	PreferredCategories []string `json:"preferred_categories,omitempty"`
	MaxMileage          *float64 `json:"max_mileage,omitempty"`
	PreferredFuel       string   `json:"preferred_fuel,omitempty"`
}

// IsEmpty reports whether no constraint was inferred.
func (c *NoteConstraints) IsEmpty() bool {
	return c.MinMPG == nil &&
		!c.RequireAWD &&
		c.MinSeating == nil &&
		len(c.PreferredCategories) == 0 &&
		c.MaxMileage == nil &&
		c.PreferredFuel == ""
}

// PhraseFloor maps a phrase to the numeric floor it implies.
type PhraseFloor struct {
	Phrase string  `json:"phrase"`
	Floor  float64 `json:"floor"`
}

// KeywordCategory maps a body-style keyword to a preferred category.
type KeywordCategory struct {
	Keyword  string `json:"keyword"`
	Category string `json:"category"`
}

// FuelRule maps keywords to a preferred fuel. Rules are evaluated in order.
type FuelRule struct {
	Fuel     string   `json:"fuel"`
	Keywords []string `json:"keywords"`
}

// ExtractorRules holds the keyword tables used by Extractor.
// Phrases are matched case-insensitively on word boundaries.
type ExtractorRules struct {
	// EfficiencyPhrases imply a minimum MPG.
	EfficiencyPhrases []PhraseFloor `json:"efficiency_phrases"`

	// AWDTerms require an all-wheel or four-wheel drivetrain.
	AWDTerms []string `json:"awd_terms"`

	// BodyStyles map keywords to preferred categories.
	BodyStyles []KeywordCategory `json:"body_styles"`

	// SizeAdjectives only count when a SizeContext word is also present.
	SizeAdjectives []string `json:"size_adjectives"`
	SizeContext    []string `json:"size_context"`

	// HaulingPhrases imply a large vehicle on their own.
	HaulingPhrases []string `json:"hauling_phrases"`

	// LargeCategories and LargeMinSeating apply when size or hauling language is found.
	LargeCategories []string `json:"large_categories"`
	LargeMinSeating int      `json:"large_min_seating"`

	// LowMileagePhrases set DefaultMaxMileage when no explicit bound is given.
	LowMileagePhrases []string `json:"low_mileage_phrases"`
	DefaultMaxMileage float64  `json:"default_max_mileage"`

	// FuelRules are checked in order; the first match wins.
	FuelRules []FuelRule `json:"fuel_rules"`

	// FuelIgnorePhrases are removed before fuel detection ("gas mileage").
	FuelIgnorePhrases []string `json:"fuel_ignore_phrases"`
}

// DefaultExtractorRules returns the built-in keyword tables.
func DefaultExtractorRules() ExtractorRules {
	return ExtractorRules{
		EfficiencyPhrases: []PhraseFloor{
			{Phrase: "great mpg", Floor: 35},
			{Phrase: "excellent mpg", Floor: 35},
			{Phrase: "high mpg", Floor: 32},
			{Phrase: "good mpg", Floor: 30},
			{Phrase: "fuel efficient", Floor: 30},
			{Phrase: "good gas mileage", Floor: 30},
		},
		AWDTerms: []string{
			"awd", "4x4", "4wd", "all-wheel", "all wheel", "four wheel drive", "four-wheel drive",
		},
		BodyStyles: []KeywordCategory{
			{Keyword: "suv", Category: "suv"},
			{Keyword: "truck", Category: "truck"},
			{Keyword: "pickup", Category: "truck"},
			{Keyword: "sedan", Category: "car"},
			{Keyword: "car", Category: "car"},
			{Keyword: "van", Category: "van"},
			{Keyword: "minivan", Category: "van"},
		},
		SizeAdjectives: []string{"large", "spacious", "roomy", "full-size", "full size", "big"},
		SizeContext:    []string{"car", "vehicle", "suv", "family", "truck", "van", "ride"},
		HaulingPhrases: []string{
			"third row", "3rd row", "tow", "towing", "haul", "hauling", "cargo space",
		},
		LargeCategories:   []string{"suv", "truck", "van"},
		LargeMinSeating:   6,
		LowMileagePhrases: []string{"low mileage", "low miles"},
		DefaultMaxMileage: 60000,
		FuelRules: []FuelRule{
			{Fuel: "hybrid", Keywords: []string{"hybrid"}},
			{Fuel: "electric", Keywords: []string{"electric", "ev"}},
			{Fuel: "gas", Keywords: []string{"diesel", "gasoline", "gas"}},
		},
		FuelIgnorePhrases: []string{"gas mileage", "gas milage", "gas money"},
	}
}

var (
	explicitMPGPattern     = regexp.MustCompile(`\b(\d{1,3}(?:\.\d+)?)\s*-?\s*mpg\b`)
	explicitSeatPattern    = regexp.MustCompile(`\b(\d{1,2})\s*-?\s*(?:seats?|seaters?|passengers?)\b`)
	explicitMileagePattern = regexp.MustCompile(`\b(?:under|below|less than)\s+(\d[\d,]*(?:\.\d+)?)\s*(k)?\s*(?:miles|mi)\b`)
)

// phraseMatcher matches a literal phrase on word boundaries.
type phraseMatcher struct {
	phrase string
	re     *regexp.Regexp
}

func compilePhrases(phrases []string) []phraseMatcher {
	out := make([]phraseMatcher, 0, len(phrases))
	for _, p := range phrases {
		p = normalizeKey(p)
		if p == "" {
			continue
		}
		out = append(out, phraseMatcher{
			phrase: p,
			re:     regexp.MustCompile(`\b` + regexp.QuoteMeta(p) + `\b`),
		})
	}
	return out
}

func anyPhrase(text string, matchers []phraseMatcher) bool {
	for _, m := range matchers {
		if m.re.MatchString(text) {
			return true
		}
	}
	return false
}

// Extractor turns free-text notes into NoteConstraints.
// It is safe for concurrent use.
type Extractor struct {
	rules ExtractorRules

	efficiency     []phraseMatcher
	awd            []phraseMatcher
	bodyStyles     []phraseMatcher
	sizeAdjectives []phraseMatcher
	sizeContext    []phraseMatcher
	hauling        []phraseMatcher
	lowMileage     []phraseMatcher
	fuelIgnore     []phraseMatcher
	fuel           [][]phraseMatcher
}

// NewExtractor compiles the given rules.
func NewExtractor(rules ExtractorRules) *Extractor {
	x := &Extractor{
		rules:          rules,
		awd:            compilePhrases(rules.AWDTerms),
		sizeAdjectives: compilePhrases(rules.SizeAdjectives),
		sizeContext:    compilePhrases(rules.SizeContext),
		hauling:        compilePhrases(rules.HaulingPhrases),
		lowMileage:     compilePhrases(rules.LowMileagePhrases),
		fuelIgnore:     compilePhrases(rules.FuelIgnorePhrases),
	}

	phrases := make([]string, len(rules.EfficiencyPhrases))
	for i, p := range rules.EfficiencyPhrases {
		phrases[i] = p.Phrase
	}
	x.efficiency = compilePhrases(phrases)

	keywords := make([]string, len(rules.BodyStyles))
	for i, b := range rules.BodyStyles {
		keywords[i] = b.Keyword
	}
	x.bodyStyles = compilePhrases(keywords)

	x.fuel = make([][]phraseMatcher, len(rules.FuelRules))
	for i, r := range rules.FuelRules {
		x.fuel[i] = compilePhrases(r.Keywords)
	}
	return x
}

var defaultExtractor = sync.OnceValue(func() *Extractor {
	return NewExtractor(DefaultExtractorRules())
})

// Extract runs the default extractor over notes.
func Extract(notes string) NoteConstraints {
	return defaultExtractor().Extract(notes)
}

// Extract parses notes. It never fails; unknown text yields empty constraints.
func (x *Extractor) Extract(notes string) NoteConstraints {
	var c NoteConstraints
	text := strings.ToLower(strings.TrimSpace(notes))
	if text == "" {
		return c
	}

	x.extractMPG(text, &c)

	if anyPhrase(text, x.awd) {
		c.RequireAWD = true
	}

	if m := explicitSeatPattern.FindStringSubmatch(text); m != nil {
		if seats, err := strconv.Atoi(m[1]); err == nil && seats > 0 {
			c.MinSeating = &seats
		}
	}

	for i, matcher := range x.bodyStyles {
		if matcher.re.MatchString(text) {
			c.PreferredCategories = appendUnique(c.PreferredCategories, x.rules.BodyStyles[i].Category)
		}
	}

	sized := anyPhrase(text, x.sizeAdjectives) && anyPhrase(text, x.sizeContext)
	if sized || anyPhrase(text, x.hauling) {
		for _, cat := range x.rules.LargeCategories {
			c.PreferredCategories = appendUnique(c.PreferredCategories, cat)
		}
		if c.MinSeating == nil || *c.MinSeating < x.rules.LargeMinSeating {
			c.MinSeating = ptr(x.rules.LargeMinSeating)
		}
	}

	x.extractMileage(text, &c)
	x.extractFuel(text, &c)

	return c
}

func (x *Extractor) extractMPG(text string, c *NoteConstraints) {
	best := 0.0
	for i, matcher := range x.efficiency {
		if matcher.re.MatchString(text) {
			best = max(best, x.rules.EfficiencyPhrases[i].Floor)
		}
	}
	for _, m := range explicitMPGPattern.FindAllStringSubmatch(text, -1) {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			best = max(best, v)
		}
	}
	if best > 0 {
		c.MinMPG = &best
	}
}

func (x *Extractor) extractMileage(text string, c *NoteConstraints) {
	if m := explicitMileagePattern.FindStringSubmatch(text); m != nil {
		v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
		if err == nil && v > 0 {
			if m[2] != "" {
				v *= 1000
			}
			c.MaxMileage = &v
			return
		}
	}
	if anyPhrase(text, x.lowMileage) && x.rules.DefaultMaxMileage > 0 {
		c.MaxMileage = ptr(x.rules.DefaultMaxMileage)
	}
}

func (x *Extractor) extractFuel(text string, c *NoteConstraints) {
	for _, ignore := range x.fuelIgnore {
		text = ignore.re.ReplaceAllString(text, " ")
	}
	for i, matchers := range x.fuel {
		if anyPhrase(text, matchers) {
			c.PreferredFuel = x.rules.FuelRules[i].Fuel
			return
		}
	}
}

func appendUnique(values []string, v string) []string {
	if slices.Contains(values, v) {
		return values
	}
	return append(values, v)
}

// Describe renders constraints as a bullet list for prompts and debugging.
func Describe(c NoteConstraints) string {
	var lines []string
	if c.MinMPG != nil {
		lines = append(lines, fmt.Sprintf("- minimum MPG: %s", strconv.FormatFloat(*c.MinMPG, 'f', -1, 64)))
	}
	if c.RequireAWD {
		lines = append(lines, "- requires AWD/4WD drivetrain")
	}
	if c.MinSeating != nil {
		lines = append(lines, fmt.Sprintf("- minimum seating: %d", *c.MinSeating))
	}
	if len(c.PreferredCategories) > 0 {
		lines = append(lines, "- preferred categories: "+strings.Join(c.PreferredCategories, ", "))
	}
	if c.MaxMileage != nil {
		lines = append(lines, fmt.Sprintf("- max mileage: %.0f miles", *c.MaxMileage))
	}
	if c.PreferredFuel != "" {
		lines = append(lines, "- preferred fuel: "+c.PreferredFuel)
	}
	if len(lines) == 0 {
		return "- no additional hard constraints inferred"
	}
	return strings.Join(lines, "\n")
}
