// CarMatch - Vehicle Listing Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carmatch

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Observer receives engine events, typically to export metrics.
type Observer interface {
	// ObserveRecommendation is called once per successful Recommend call.
	ObserveRecommendation(candidates, returned int, fallback bool, elapsed time.Duration)

	// ObserveFeedback is called once per accepted feedback event.
	ObserveFeedback(fb Feedback)

	// ObserveDescription is called per result with the description source.
	ObserveDescription(source string)
}

type noopObserver struct{}

func (noopObserver) ObserveRecommendation(int, int, bool, time.Duration) {}
func (noopObserver) ObserveFeedback(Feedback)                            {}
func (noopObserver) ObserveDescription(string)                           {}

// Engine ranks catalog listings for a session and learns from feedback.
// It is safe for concurrent use.
type Engine struct {
	// Configuration
	config *Config
	logger zerolog.Logger

	// Collaborators
	catalog   Catalog
	store     ProfileStore
	extractor *Extractor
	scorer    *Scorer
	decorator *Decorator
	observer  Observer

	// Post-scoring rerankers
	rerankers []Reranker
	rrMu      sync.RWMutex

	// Per-session write serialization
	locks sessionLocks

	// Counters
	recommendations   atomic.Int64
	feedbackEvents    atomic.Int64
	catalogFallbacks  atomic.Int64
	validationErrors  atomic.Int64
	lastRecommendedAt atomic.Int64

	now func() time.Time
}

// NewEngine creates an engine over catalog and store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, catalog Catalog, store ProfileStore, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if catalog == nil {
		return nil, errors.New("catalog is required")
	}
	if store == nil {
		store = NewMemoryStore()
	}

	rules := DefaultExtractorRules()
	if cfg.Extractor != nil {
		rules = *cfg.Extractor
	}

	e := &Engine{
		config:    cfg,
		logger:    logger.With().Str("component", "recommend").Logger(),
		catalog:   catalog,
		store:     store,
		extractor: NewExtractor(rules),
		scorer:    NewScorer(cfg.Blend),
		decorator: NewDecorator(cfg.Descriptions, nil, logger),
		observer:  noopObserver{},
		rerankers: make([]Reranker, 0),
		now:       time.Now,
	}
	return e, nil
}

// SetTextGenerator enables generated descriptions. Call before serving requests.
func (e *Engine) SetTextGenerator(gen TextGenerator) {
	e.decorator.generator = gen
}

// SetObserver installs an event observer. Call before serving requests.
func (e *Engine) SetObserver(o Observer) {
	if o == nil {
		o = noopObserver{}
	}
	e.observer = o
	e.decorator.observer = o
}

// RegisterReranker adds a reranker to the post-processing pipeline.
func (e *Engine) RegisterReranker(rr Reranker) {
	e.rrMu.Lock()
	defer e.rrMu.Unlock()

	e.rerankers = append(e.rerankers, rr)
	e.logger.Info().
		Str("reranker", rr.Name()).
		Msg("registered reranker")
}

// Extractor returns the engine's note extractor.
func (e *Engine) Extractor() *Extractor {
	return e.extractor
}

// Scorer returns the engine's scorer.
func (e *Engine) Scorer() *Scorer {
	return e.scorer
}

// Recommend ranks the catalog for a session.
//
// The hard filter runs first; when it removes everything the full catalog is
// scored instead. Results are sorted by score (ties by listing id),
// reranked, truncated to the clamped limit and then described.
//
//nolint:gocritic // request is passed by value to keep the API simple
func (e *Engine) Recommend(ctx context.Context, req RecommendRequest) (*RecommendResponse, error) {
	start := e.now()
	sessionID := sessionKey(req.SessionID)

	filter := Sanitize(req.Filter)
	notes := e.extractor.Extract(filter.Notes)

	profile, err := e.getOrCreate(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	listings := e.catalog.Listings()
	candidates := HardFilter(listings, &filter, &notes)
	fallback := len(candidates) == 0 && len(listings) > 0
	if fallback {
		candidates = listings
		e.catalogFallbacks.Add(1)
		e.logger.Debug().
			Str("session_id", sessionID).
			Int("catalog_size", len(listings)).
			Msg("hard filter matched nothing, scoring full catalog")
	}

	ranked := e.rank(candidates, &filter, profile)
	limit := e.config.ClampLimit(req.Limit)
	top := e.rerank(ctx, ranked, limit)

	e.decorator.Decorate(ctx, sessionID, top, describeContext{
		filter:  &filter,
		notes:   &notes,
		profile: profile,
		target:  BudgetTarget(&filter, profile),
	})

	e.recommendations.Add(1)
	e.lastRecommendedAt.Store(e.now().UnixNano())
	e.observer.ObserveRecommendation(len(candidates), len(top), fallback, e.now().Sub(start))

	e.logger.Debug().
		Str("session_id", sessionID).
		Int("candidates", len(candidates)).
		Int("returned", len(top)).
		Bool("fallback", fallback).
		Msg("recommendations built")

	return &RecommendResponse{SessionID: req.SessionID, Results: top}, nil
}

// rank scores candidates and sorts them by score descending, then id ascending.
func (e *Engine) rank(candidates []Listing, filter *UserFilter, profile *UserProfile) []ScoredResult {
	scored := make([]ScoredResult, len(candidates))
	for i := range candidates {
		scored[i] = ScoredResult{
			Listing: candidates[i],
			Score:   e.scorer.Score(&candidates[i], filter, profile),
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].ID < scored[j].ID
	})
	return scored
}

// rerank runs the reranker chain over the whole ranked list and truncates
// to limit afterwards. Truncating inside the chain would hide models below
// the cut from the model diversity pass.
func (e *Engine) rerank(ctx context.Context, ranked []ScoredResult, limit int) []ScoredResult {
	e.rrMu.RLock()
	rerankers := e.rerankers
	e.rrMu.RUnlock()

	out := ranked
	for _, rr := range rerankers {
		out = rr.Rerank(ctx, out, len(out))
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Feedback records a like or reject for a listing.
// Invalid input and unknown listings leave the profile untouched.
//
//nolint:gocritic // request is passed by value to keep the API simple
func (e *Engine) Feedback(ctx context.Context, req FeedbackRequest) (*FeedbackResponse, error) {
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		return nil, e.invalid(newValidationError("sessionId", "sessionId is required"))
	}
	if req.ListingID <= 0 {
		return nil, e.invalid(newValidationError("listingId", "listingId must be a positive number"))
	}
	fb, err := ParseFeedback(req.Feedback)
	if err != nil {
		return nil, e.invalid(err)
	}

	listing, ok := e.catalog.Lookup(req.ListingID)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrListingNotFound, req.ListingID)
	}

	unlock := e.locks.lock(sessionID)
	defer unlock()

	profile, err := e.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	ApplyFeedback(profile, &listing, fb, e.now())
	if err := e.store.Put(ctx, sessionID, profile); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	e.feedbackEvents.Add(1)
	e.observer.ObserveFeedback(fb)
	e.logger.Debug().
		Str("session_id", sessionID).
		Int("listing_id", listing.ID).
		Str("feedback", string(fb)).
		Msg("feedback recorded")

	return &FeedbackResponse{
		Success:   true,
		SessionID: sessionID,
		Totals:    profile.Totals(),
	}, nil
}

// Profile returns a summary of the session profile.
// It returns ErrProfileNotFound when the session has no profile yet.
func (e *Engine) Profile(ctx context.Context, sessionID string) (ProfileSummary, error) {
	profile, err := e.store.Get(ctx, sessionKey(sessionID))
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return ProfileSummary{}, err
		}
		return ProfileSummary{}, fmt.Errorf("failed to load profile: %w", err)
	}
	return profile.Summary(), nil
}

// ResetProfile deletes the session profile and its cached descriptions.
func (e *Engine) ResetProfile(ctx context.Context, sessionID string) error {
	key := sessionKey(sessionID)

	unlock := e.locks.lock(key)
	defer unlock()

	if err := e.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	dropped := e.decorator.Forget(key)
	e.logger.Info().
		Str("session_id", key).
		Int("descriptions_dropped", dropped).
		Msg("profile reset")
	return nil
}

// Stats returns engine counters.
func (e *Engine) Stats() Stats {
	s := Stats{
		Recommendations:  e.recommendations.Load(),
		FeedbackEvents:   e.feedbackEvents.Load(),
		CatalogFallbacks: e.catalogFallbacks.Load(),
		ValidationErrors: e.validationErrors.Load(),
	}
	if ns := e.lastRecommendedAt.Load(); ns != 0 {
		s.LastRecommendedAt = time.Unix(0, ns)
	}
	return s
}

// getOrCreate returns the session profile, storing an empty one on first use.
func (e *Engine) getOrCreate(ctx context.Context, sessionID string) (*UserProfile, error) {
	unlock := e.locks.lock(sessionID)
	defer unlock()

	profile, err := e.store.Get(ctx, sessionID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, ErrProfileNotFound) {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	profile = NewUserProfile(sessionID, e.now())
	if err := e.store.Put(ctx, sessionID, profile); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return profile, nil
}

// load returns the stored profile or a new one. Caller holds the session lock.
func (e *Engine) load(ctx context.Context, sessionID string) (*UserProfile, error) {
	profile, err := e.store.Get(ctx, sessionID)
	switch {
	case err == nil:
		return profile, nil
	case errors.Is(err, ErrProfileNotFound):
		return NewUserProfile(sessionID, e.now()), nil
	default:
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
}

func (e *Engine) invalid(err error) error {
	e.validationErrors.Add(1)
	return err
}

// sessionKey maps an empty session id to AnonymousSession.
func sessionKey(sessionID string) string {
	if s := strings.TrimSpace(sessionID); s != "" {
		return s
	}
	return AnonymousSession
}
