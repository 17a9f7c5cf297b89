// ABOUTME: Read-only SQLite connection used as the pipeline's query executor
// ABOUTME: Uses modernc.org/sqlite for pure-Go SQLite support
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "modernc.org/sqlite"
)

// DefaultQueryTimeout bounds a single query when none is configured
const DefaultQueryTimeout = 15 * time.Second

// DB wraps a read-only SQLite database connection
type DB struct {
	conn         *sql.DB
	path         string
	queryTimeout time.Duration
}

// Open opens an existing SQLite database at the given path.
// The connection refuses writes, so generated statements cannot alter the dataset.
func Open(path string) (*DB, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	conn, err := sql.Open("sqlite", path+"?_pragma=query_only(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{
		conn:         conn,
		path:         path,
		queryTimeout: DefaultQueryTimeout,
	}, nil
}

// SetQueryTimeout sets the per-query deadline; d <= 0 disables it
func (db *DB) SetQueryTimeout(d time.Duration) {
	db.queryTimeout = d
}

// Close closes the database connection
func (db *DB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// Conn returns the underlying sql.DB connection for advanced usage
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Path returns the database file path
func (db *DB) Path() string {
	return db.path
}
