// CarMatch - Vehicle Listing Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carmatch

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tomtom215/carmatch/internal/recommend/reranking"
)

// NewCanonicalCmd creates the 'canonical' command, which prints the base
// model key used by the diversity reranker.
func NewCanonicalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "canonical <model name>",
		Short: "Print the canonical model key for a listing name",
		Example: `  carmatch canonical "2022 Toyota RAV4 XLE Hybrid"
  carmatch canonical Highlander Platinum`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), reranking.CanonicalModel(strings.Join(args, " ")))
			return nil
		},
	}
}
