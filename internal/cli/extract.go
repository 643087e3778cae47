// CarMatch - Vehicle Listing Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carmatch

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tomtom215/carmatch/internal/recommend"
)

// NewExtractCmd creates the 'extract' command, which shows the constraints
// inferred from free-text notes.
func NewExtractCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "extract <notes>",
		Short: "Show the constraints inferred from shopper notes",
		Example: `  carmatch extract "need a large family car for roadtrips, under 60k miles"
  carmatch extract --json "awd suv with 7 seats"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := recommend.Extract(strings.Join(args, " "))
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), c)
			}
			fmt.Fprintln(cmd.OutOrStdout(), recommend.Describe(c))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	return cmd
}
