// Package storage keeps local state in SQLite: a key/value table for the
// favorites set and a cache of records seen in fetch results.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// DB wraps the SQLite handle.
type DB struct {
	sql *sql.DB
}

// Open opens the database at path, creating parent directories, and applies
// pending migrations.
func Open(path string) (*DB, error) {
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single connection serializes writers and keeps :memory: databases
	// from splitting across pool connections.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &DB{sql: db}, nil
}

// Close releases the database.
func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}
