// ABOUTME: Table schema introspection via SQLite's table_info pragma
// ABOUTME: Feeds column names and types into question and query prompts
package sqlite

import (
	"context"
	"fmt"

	"github.com/harper/datastory/internal/models"
)

const tableInfoQuery = `SELECT name, type FROM pragma_table_info(?) ORDER BY cid`

// Schema returns the ordered columns of table
func (db *DB) Schema(ctx context.Context, table string) (models.Schema, error) {
	rows, err := db.conn.QueryContext(ctx, tableInfoQuery, table)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema for %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	var schema models.Schema
	for rows.Next() {
		var col models.Column
		if err := rows.Scan(&col.Name, &col.Type); err != nil {
			return nil, fmt.Errorf("failed to scan schema row: %w", err)
		}
		schema = append(schema, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read schema for %s: %w", table, err)
	}

	if len(schema) == 0 {
		return nil, fmt.Errorf("table %q not found", table)
	}
	return schema, nil
}
