// CarMatch - Vehicle Listing Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carmatch

package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the carmatch command tree.
func NewRootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "carmatch",
		Short: "Rank vehicle listings against a shopper's filter and notes",
		Long: `carmatch runs the CarMatch recommendation engine offline against a
listings CSV. It is useful for tuning scoring weights and note keywords
without starting the HTTP server.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(NewRecommendCmd())
	root.AddCommand(NewExtractCmd())
	root.AddCommand(NewCanonicalCmd())
	root.AddCommand(NewVersionCmd(version))

	return root
}
