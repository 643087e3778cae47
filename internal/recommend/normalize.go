// CarMatch - Vehicle Listing Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carmatch

package recommend

import (
	"slices"
	"strings"
)

// colorPalette lists base colors in lookup priority order.
var colorPalette = []string{
	"black", "white", "gray", "silver", "red", "blue", "green", "gold",
	"yellow", "orange", "brown", "beige", "tan", "cream", "purple",
}

// colorGroups lists shades that count as a rough match for each other.
var colorGroups = [][]string{
	{"black", "midnight", "graphite"},
	{"white", "pearl", "cream"},
	{"gray", "silver", "gunmetal"},
	{"red", "burgundy", "crimson"},
	{"blue", "navy", "steel"},
	{"green", "olive", "forest"},
	{"brown", "bronze", "beige", "tan"},
	{"gold", "yellow", "champagne"},
}

// normalizeKey lower-cases and trims a free-form attribute value.
func normalizeKey(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// normalizeCategory maps a category label onto the shared vocabulary
// suv, truck, minivan, crossover and car. Unknown labels pass through lower-cased.
func normalizeCategory(value string) string {
	normalized := normalizeKey(value)
	switch {
	case strings.Contains(normalized, "suv"):
		return "suv"
	case strings.Contains(normalized, "truck"):
		return "truck"
	case strings.Contains(normalized, "mini"):
		return "minivan"
	case strings.Contains(normalized, "cross"):
		return "crossover"
	case strings.Contains(normalized, "sedan"), strings.Contains(normalized, "car"):
		return "car"
	default:
		return normalized
	}
}

// normalizeColorLabel reduces a marketing color name ("Midnight Black Metallic")
// to a base color, falling back to its first word.
func normalizeColorLabel(value string) string {
	if value == "" {
		return ""
	}
	tokens := strings.FieldsFunc(strings.ToLower(value), func(r rune) bool {
		return r < 'a' || r > 'z'
	})
	if len(tokens) == 0 {
		return ""
	}
	for _, color := range colorPalette {
		if slices.Contains(tokens, color) {
			return color
		}
	}
	return tokens[0]
}

// colorsRoughlyMatch reports whether two colors share a base color or shade group.
func colorsRoughlyMatch(target, actual string) bool {
	baseTarget := normalizeColorLabel(target)
	baseActual := normalizeColorLabel(actual)
	if baseTarget == baseActual {
		return true
	}
	for _, group := range colorGroups {
		if slices.Contains(group, baseTarget) && slices.Contains(group, baseActual) {
			return true
		}
	}
	return false
}

// containsAnyKey reports whether the normalized value contains any normalized needle.
func containsAnyKey(value string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(value, normalizeKey(needle)) {
			return true
		}
	}
	return false
}

func clamp(value, lo, hi float64) float64 {
	return min(max(value, lo), hi)
}
