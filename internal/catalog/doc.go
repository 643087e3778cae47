// CarMatch - Vehicle Listing Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carmatch

/*
Package catalog loads vehicle listings from CSV and serves them to the
recommendation engine.

The CSV is read through an in-memory DuckDB instance using read_csv_auto with
every column typed as text. Each row is mapped to a recommend.Listing:

  - rows without a parseable price are skipped
  - ids are assigned sequentially from 1 in file order
  - fuel, condition, category and seating are derived when the raw column is
    blank or free-form

Catalog keeps the current snapshot behind an atomic pointer so requests never
block on a reload. Service polls the file's modification time and swaps in a
new snapshot when it changes; a failed reload keeps the previous snapshot.
*/
package catalog
