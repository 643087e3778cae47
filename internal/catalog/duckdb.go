// CarMatch - Vehicle Listing Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carmatch

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2" // DuckDB driver

	"github.com/tomtom215/carmatch/internal/recommend"
)

// ErrNoListings is returned when a CSV yields no row with a usable price.
var ErrNoListings = errors.New("catalog contains no priced listings")

// LoadCSV reads the listing CSV through an in-memory DuckDB instance.
// Every column is read as text so that the row mapping owns all parsing.
func LoadCSV(ctx context.Context, path string) ([]recommend.Listing, error) {
	if path == "" {
		return nil, errors.New("catalog path is required")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat catalog: %w", err)
	}

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	defer func() {
		db.SetMaxIdleConns(0)
		_ = db.Close() //nolint:errcheck // read-only in-memory database
	}()

	// read_csv_auto takes its path as a literal; table functions reject bind parameters here.
	query := "SELECT * FROM read_csv_auto(" + quoteLiteral(path) + ", header=true, all_varchar=true)"
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("read catalog csv: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read catalog columns: %w", err)
	}
	for i, c := range columns {
		columns[i] = strings.ToLower(strings.TrimSpace(c))
	}

	values := make([]sql.NullString, len(columns))
	dest := make([]any, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}

	var listings []recommend.Listing
	nextID := 1
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan catalog row: %w", err)
		}
		record := make(map[string]string, len(columns))
		for i, c := range columns {
			if values[i].Valid {
				record[c] = values[i].String
			}
		}
		listing, ok := recordToListing(record, nextID)
		if !ok {
			continue
		}
		listings = append(listings, listing)
		nextID++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catalog rows: %w", err)
	}
	if len(listings) == 0 {
		return nil, ErrNoListings
	}
	return listings, nil
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
