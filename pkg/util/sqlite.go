package util

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteClient wraps a single-file SQLite database opened through the
// pure-Go modernc.org/sqlite driver, used by the session log resource to
// persist a durable record of every session lifecycle event.
type SQLiteClient struct {
	db *sql.DB
}

// NewSQLite opens (creating if necessary) the database file at
// dbLocation.
func NewSQLite(dbLocation string) (*SQLiteClient, error) {
	db, err := sql.Open("sqlite", dbLocation)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database %q: %w", dbLocation, err)
	}

	return &SQLiteClient{db: db}, nil
}

// Execute runs a statement that returns no rows (DDL, INSERT, DELETE).
func (c *SQLiteClient) Execute(query string, args ...any) error {
	_, err := c.db.Exec(query, args...)
	return err
}

// Query runs a statement that returns rows.
func (c *SQLiteClient) Query(query string, args ...any) (*sql.Rows, error) {
	return c.db.Query(query, args...)
}

// Close releases the underlying database handle.
func (c *SQLiteClient) Close() error {
	return c.db.Close()
}
