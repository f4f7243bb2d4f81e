// Hybridrec - Hybrid Content and Collaborative Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2" // DuckDB driver

	"github.com/tomtom215/hybridrec/internal/recommend/model"
)

// DefaultItemColumn is the item id column of the interaction logs.
const DefaultItemColumn = "click_article_id"

// InteractionCounts aggregates per-item interaction counts from a CSV or
// Parquet file using an in-memory DuckDB. Rows with a NULL or negative item
// id are ignored.
func InteractionCounts(ctx context.Context, path, itemColumn string) ([]model.ItemCount, error) {
	if path == "" {
		return nil, errors.New("interactions path is required")
	}
	if itemColumn == "" {
		itemColumn = DefaultItemColumn
	}

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	defer func() { _ = db.Close() }() //nolint:errcheck // in-memory database

	col := quoteIdent(itemColumn)
	query := fmt.Sprintf(
		`SELECT CAST(%s AS BIGINT) AS item_id, COUNT(*) AS n FROM %s(%s) WHERE %s IS NOT NULL AND %s >= 0 GROUP BY 1`,
		col, readerFunc(path), quoteLiteral(path), col, col,
	)

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("aggregate interactions from %s: %w", path, err)
	}
	defer func() { _ = rows.Close() }() //nolint:errcheck // error on close after read is not actionable

	var counts []model.ItemCount
	for rows.Next() {
		var id, n int64
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("scan interaction count: %w", err)
		}
		counts = append(counts, model.ItemCount{ItemID: int(id), Count: n})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interaction counts: %w", err)
	}

	return counts, nil
}

// PopularityFromDuckDB builds the popularity table from an interaction log.
func PopularityFromDuckDB(ctx context.Context, path, itemColumn string) (*model.Popularity, error) {
	counts, err := InteractionCounts(ctx, path, itemColumn)
	if err != nil {
		return nil, err
	}
	return model.NewPopularity(counts), nil
}

func readerFunc(path string) string {
	if strings.HasSuffix(strings.ToLower(path), ".parquet") {
		return "read_parquet"
	}
	return "read_csv_auto"
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func quoteLiteral(s string) string {
	return `'` + strings.ReplaceAll(s, `'`, `''`) + `'`
}
