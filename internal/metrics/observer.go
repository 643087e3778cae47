// CarMatch - Vehicle Listing Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carmatch

package metrics

import (
	"strconv"
	"time"

	"github.com/tomtom215/carmatch/internal/recommend"
)

// descriptionCache labels the description cache in the generic cache metrics.
const descriptionCache = "description"

// EngineObserver exports recommendation engine events as Prometheus metrics.
type EngineObserver struct{}

// ObserveRecommendation implements recommend.Observer.
func (EngineObserver) ObserveRecommendation(candidates, returned int, fallback bool, elapsed time.Duration) {
	RecommendationsTotal.WithLabelValues(strconv.FormatBool(fallback)).Inc()
	RecommendationDuration.Observe(elapsed.Seconds())
	RecommendationCandidates.Observe(float64(candidates))
	RecommendationResults.Observe(float64(returned))
}

// ObserveFeedback implements recommend.Observer.
func (EngineObserver) ObserveFeedback(fb recommend.Feedback) {
	FeedbackTotal.WithLabelValues(string(fb)).Inc()
}

// ObserveDescription implements recommend.Observer.
func (EngineObserver) ObserveDescription(source string) {
	DescriptionsTotal.WithLabelValues(source).Inc()
	if source == recommend.DescriptionCached {
		CacheHits.WithLabelValues(descriptionCache).Inc()
	} else {
		CacheMisses.WithLabelValues(descriptionCache).Inc()
	}
}

var _ recommend.Observer = EngineObserver{}
