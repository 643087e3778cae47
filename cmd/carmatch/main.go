// CarMatch - Vehicle Listing Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carmatch

/*
Package main is the entry point for the carmatch CLI.

carmatch runs the recommendation engine in-process against a listings CSV.

Usage:

	carmatch [command]

Available Commands:

	recommend   Rank listings from a CSV catalog
	extract     Show the constraints inferred from shopper notes
	canonical   Print the canonical model key for a listing name
	version     Show version information

Examples:

	carmatch recommend --catalog cars.csv --notes "family suv" --budget-max 40000 --limit 5
	carmatch extract "need a large family car for roadtrips"
	carmatch canonical "2022 Toyota RAV4 XLE Hybrid"
*/
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/tomtom215/carmatch/internal/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.NewRootCmd(version).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
