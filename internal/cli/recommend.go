// CarMatch - Vehicle Listing Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carmatch

package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tomtom215/carmatch/internal/catalog"
	"github.com/tomtom215/carmatch/internal/recommend"
	"github.com/tomtom215/carmatch/internal/recommend/reranking"
)

// cliSession is the profile key used for offline runs.
const cliSession = "cli"

type recommendOptions struct {
	catalogPath string
	notes       string
	budgetMin   float64
	budgetMax   float64
	categories  []string
	fuelTypes   []string
	likes       []int
	rejects     []int
	limit       int
	diversity   float64
	jsonOutput  bool
	verbose     bool
}

// NewRecommendCmd creates the 'recommend' command.
func NewRecommendCmd() *cobra.Command {
	var opts recommendOptions

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Rank listings from a CSV catalog",
		Long: `Load a listings CSV, apply the filter flags and notes, and print the
top results. --like and --reject record feedback before ranking so the
preference score can be inspected.`,
		Example: `  carmatch recommend --catalog cars.csv --notes "family suv, awd" --budget-max 40000 --limit 5
  carmatch recommend --catalog cars.csv --like 12 --like 40 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter := recommend.RawFilter{
				Notes:           opts.notes,
				VehicleCategory: opts.categories,
				FuelType:        opts.fuelTypes,
			}
			if cmd.Flags().Changed("budget-min") {
				filter.BudgetMin = opts.budgetMin
			}
			if cmd.Flags().Changed("budget-max") {
				filter.BudgetMax = opts.budgetMax
			}
			return runRecommend(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), &opts, filter)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.catalogPath, "catalog", "c", "cars.csv", "Listings CSV file")
	f.StringVarP(&opts.notes, "notes", "n", "", "Free-text shopper notes")
	f.Float64Var(&opts.budgetMin, "budget-min", 0, "Minimum price")
	f.Float64Var(&opts.budgetMax, "budget-max", 0, "Maximum price")
	f.StringSliceVar(&opts.categories, "category", nil, "Vehicle category (repeatable)")
	f.StringSliceVar(&opts.fuelTypes, "fuel", nil, "Fuel type (repeatable)")
	f.IntSliceVar(&opts.likes, "like", nil, "Listing id to like before ranking (repeatable)")
	f.IntSliceVar(&opts.rejects, "reject", nil, "Listing id to reject before ranking (repeatable)")
	f.IntVarP(&opts.limit, "limit", "l", 0, "Number of results (0 uses the default)")
	f.Float64Var(&opts.diversity, "diversity", 0, "MMR lambda, 0 disables")
	f.BoolVarP(&opts.jsonOutput, "json", "j", false, "Output as JSON")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "Log engine decisions to stderr")

	return cmd
}

func runRecommend(ctx context.Context, out, errOut io.Writer, opts *recommendOptions, filter recommend.RawFilter) error {
	if ctx == nil {
		ctx = context.Background()
	}

	logger := zerolog.Nop()
	if opts.verbose {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: errOut, TimeFormat: "15:04:05"}).
			Level(zerolog.DebugLevel).With().Timestamp().Logger()
	}

	listings, err := catalog.LoadCSV(ctx, opts.catalogPath)
	if err != nil {
		return err
	}

	engine, err := recommend.NewEngine(nil, catalog.New(listings), recommend.NewMemoryStore(), logger)
	if err != nil {
		return err
	}
	if opts.diversity > 0 {
		engine.RegisterReranker(reranking.NewMMR(opts.diversity))
	}
	engine.RegisterReranker(reranking.NewModelDiversity(reranking.NewCanonicalizer(reranking.DefaultCanonicalRules())))

	if err := applyFeedback(ctx, engine, opts.likes, recommend.FeedbackLike); err != nil {
		return err
	}
	if err := applyFeedback(ctx, engine, opts.rejects, recommend.FeedbackReject); err != nil {
		return err
	}

	resp, err := engine.Recommend(ctx, recommend.RecommendRequest{
		SessionID: cliSession,
		Filter:    filter,
		Limit:     opts.limit,
	})
	if err != nil {
		return err
	}

	if opts.jsonOutput {
		return writeJSON(out, resp.Results)
	}
	return writeResults(out, resp.Results)
}

func applyFeedback(ctx context.Context, engine *recommend.Engine, ids []int, kind recommend.Feedback) error {
	for _, id := range ids {
		if _, err := engine.Feedback(ctx, recommend.FeedbackRequest{
			SessionID: cliSession,
			ListingID: id,
			Feedback:  string(kind),
		}); err != nil {
			return fmt.Errorf("%s %d: %w", kind, id, err)
		}
	}
	return nil
}

func writeResults(out io.Writer, results []recommend.ScoredResult) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(out, "No listings matched.")
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tID\tSCORE\tYEAR\tMODEL\tPRICE\tMILEAGE\tCATEGORY")
	for i := range results {
		r := &results[i]
		mileage := "-"
		if r.Mileage != nil {
			mileage = strconv.Itoa(*r.Mileage)
		}
		fmt.Fprintf(tw, "%d\t%d\t%.3f\t%d\t%s\t%.0f\t%s\t%s\n",
			i+1, r.ID, r.Score, r.Year, r.Model, r.Price, mileage, r.VehicleCategory)
	}
	return tw.Flush()
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
