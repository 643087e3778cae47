// CarMatch - Vehicle Listing Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carmatch

package recommend

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/tomtom215/carmatch/internal/cache"
)

// TextGenerator produces free text from a prompt.
// Implemented by the textgen package.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Description sources reported to the Observer.
const (
	DescriptionCached    = "cache"
	DescriptionGenerated = "generated"
	DescriptionFallback  = "fallback"
)

const promptInstruction = "Write a unique 2 sentence highlight reel for this Toyota listing. " +
	"Mention year, model, vehicle category, price vs budget, mileage, drivetrain, fuel type, " +
	"exterior & interior colors, seating, doors, condition, dealership. Keep it upbeat but grounded."

var openers = []string{"Confident", "Road-trip ready", "City-smart", "Family-focused", "Adventure-tuned"}

// describeContext is everything a description may mention besides the listing.
type describeContext struct {
	filter  *UserFilter
	notes   *NoteConstraints
	profile *UserProfile
	target  *float64
}

// Decorator attaches a generated_description to ranked results.
// Descriptions are cached per session and listing. Generation failures
// fall back to a deterministic template and are never returned.
type Decorator struct {
	generator   TextGenerator
	cache       *cache.LRU[string]
	concurrency int
	timeout     time.Duration
	printer     *message.Printer
	logger      zerolog.Logger
	observer    Observer
}

// NewDecorator creates a Decorator. A nil generator always uses the template.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewDecorator(cfg DescriptionConfig, generator TextGenerator, logger zerolog.Logger) *Decorator {
	return &Decorator{
		generator:   generator,
		cache:       cache.NewLRU[string](cfg.CacheSize, cfg.CacheTTL),
		concurrency: max(cfg.Concurrency, 1),
		timeout:     cfg.Timeout,
		printer:     message.NewPrinter(language.AmericanEnglish),
		logger:      logger.With().Str("component", "describe").Logger(),
		observer:    noopObserver{},
	}
}

// Decorate fills GeneratedDescription for every result in place.
func (d *Decorator) Decorate(ctx context.Context, sessionID string, results []ScoredResult, dc describeContext) {
	var g errgroup.Group
	g.SetLimit(d.concurrency)
	for i := range results {
		g.Go(func() error {
			results[i].GeneratedDescription = d.describe(ctx, sessionID, &results[i].Listing, dc)
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // workers never return errors
}

// Forget drops every cached description for sessionID.
func (d *Decorator) Forget(sessionID string) int {
	prefix := sessionID + ":"
	return d.cache.RemoveFunc(func(key string) bool {
		return strings.HasPrefix(key, prefix)
	})
}

func (d *Decorator) describe(ctx context.Context, sessionID string, l *Listing, dc describeContext) string {
	key := sessionID + ":" + strconv.Itoa(l.ID)
	if text, ok := d.cache.Get(key); ok {
		d.observer.ObserveDescription(DescriptionCached)
		return text
	}

	text := ""
	if d.generator != nil {
		text = d.generate(ctx, l, dc)
	}
	source := DescriptionGenerated
	if text == "" {
		text = d.fallback(l, dc.target)
		source = DescriptionFallback
	}
	d.observer.ObserveDescription(source)

	d.cache.Add(key, text)
	return text
}

func (d *Decorator) generate(ctx context.Context, l *Listing, dc describeContext) string {
	prompt, err := buildPrompt(l, dc)
	if err != nil {
		d.logger.Warn().Err(err).Int("listing_id", l.ID).Msg("failed to build description prompt")
		return ""
	}

	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	text, err := d.generator.Generate(callCtx, prompt)
	if err != nil {
		d.logger.Warn().Err(err).Int("listing_id", l.ID).Msg("description generation failed, using fallback")
		return ""
	}
	return strings.TrimSpace(text)
}

func buildPrompt(l *Listing, dc describeContext) (string, error) {
	listingJSON, err := json.Marshal(l)
	if err != nil {
		return "", err
	}
	filter := dc.filter
	if filter == nil {
		filter = &UserFilter{}
	}
	filterJSON, err := json.Marshal(filter)
	if err != nil {
		return "", err
	}
	var summary ProfileSummary
	if dc.profile != nil {
		summary = dc.profile.Summary()
	}
	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return "", err
	}

	parts := []string{
		promptInstruction,
		"Listing JSON: " + string(listingJSON),
		"User filter: " + string(filterJSON),
		"User profile summary: " + string(summaryJSON),
	}
	if dc.notes != nil && !dc.notes.IsEmpty() {
		parts = append(parts, "Inferred constraints:\n"+Describe(*dc.notes))
	}
	return strings.Join(parts, "\n"), nil
}

// fallback renders the two-sentence template.
func (d *Decorator) fallback(l *Listing, target *float64) string {
	category := orDefault(l.CategoryLabel(), "Toyota")

	mileage := "dealer-verified mileage"
	if l.Mileage != nil {
		mileage = d.printer.Sprintf("%d miles", *l.Mileage)
	}
	seats := "flex seating"
	if l.Seating != nil {
		seats = strconv.Itoa(*l.Seating) + " seats"
	}
	doors := "practical access"
	if l.Doors != nil {
		doors = strconv.Itoa(*l.Doors) + " doors"
	}
	condition := l.Condition
	if condition == "" {
		condition = "New"
		if l.Used {
			condition = "Used"
		}
	}
	dealer := orDefault(l.Dealer, orDefault(l.Location, "a Toyota dealer"))

	exterior := "neutral paint"
	if l.ExteriorColor != "" {
		exterior = normalizeColorLabel(l.ExteriorColor)
	}
	interior := "easy-clean cabin"
	if l.InteriorColor != "" {
		interior = normalizeColorLabel(l.InteriorColor)
	}

	opener := openers[((l.ID%len(openers))+len(openers))%len(openers)]
	vehicle := l.Model
	if l.Year != 0 {
		vehicle = strconv.Itoa(l.Year) + " " + l.Model
	}

	first := opener + " " + vehicle + " " + strings.ToLower(category) +
		" comes in at " + d.currency(l.Price) + " (" + d.budgetPhrase(l.Price, target) + ")."
	second := "It brings " + mileage + ", " +
		orDefault(l.Drivetrain, "versatile drivetrain") + " " + strings.ToLower(orDefault(l.FuelType, "fuel-friendly setup")) + ", " +
		exterior + " outside with " + interior + " inside, plus " +
		seats + ", " + doors + ", and a " + strings.ToLower(condition) + " rating from " + dealer + "."
	return first + " " + second
}

// budgetPhrase describes price relative to the target within $500.
func (d *Decorator) budgetPhrase(price float64, target *float64) string {
	if target == nil || *target <= 0 {
		return "with room to negotiate"
	}
	diff := price - *target
	if math.Abs(diff) < 500 {
		return "right on budget"
	}
	label := "under"
	if diff > 0 {
		label = "over"
	}
	return d.currency(math.Abs(diff)) + " " + label + " budget"
}

func (d *Decorator) currency(v float64) string {
	return d.printer.Sprintf("$%d", int64(math.Round(v)))
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
