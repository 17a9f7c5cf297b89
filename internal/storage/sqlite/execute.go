// ABOUTME: Runs generated queries and materializes a bounded row set
// ABOUTME: Every failure becomes a QueryFailed answer instead of an error
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/harper/datastory/internal/models"
)

// Execute runs query and returns at most maxRows rows. Connection, syntax,
// execution, and scan errors all come back as models.Failed.
func (db *DB) Execute(ctx context.Context, query string, maxRows int) models.Answer {
	if strings.TrimSpace(query) == "" {
		return models.Failed(errors.New("empty query"))
	}
	if maxRows <= 0 {
		return models.Failed(fmt.Errorf("maxRows must be positive, got %d", maxRows))
	}

	if db.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, db.queryTimeout)
		defer cancel()
	}

	table, err := db.query(ctx, query, maxRows)
	if err != nil {
		return models.Failed(err)
	}
	return models.Ok(table)
}

func (db *DB) query(ctx context.Context, query string, maxRows int) (*models.Table, error) {
	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	table := &models.Table{Columns: columns, Rows: [][]any{}}
	for len(table.Rows) < maxRows && rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		table.Rows = append(table.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return table, nil
}
