// CarMatch - Vehicle Listing Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carmatch

/*
Package cli implements the cobra commands of the carmatch binary.

Commands write to cmd.OutOrStdout so tests can capture their output:

  - recommend: load a CSV, optionally record feedback, print ranked results
  - extract: print the constraints inferred from notes
  - canonical: print the base model key used for diversity
  - version: print build information
*/
package cli
