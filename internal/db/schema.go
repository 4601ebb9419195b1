package db

import (
	"context"
	"fmt"

	"github.com/erazemk/shramba/internal/model"
)

// schemas holds the items table per dialect. Column set and constraints are
// identical; only the types differ.
var schemas = map[Dialect]string{
	SQLite: `
CREATE TABLE IF NOT EXISTS items (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    name        TEXT NOT NULL CHECK (name <> ''),
    quantity    NUMERIC NOT NULL CHECK (quantity > 0),
    price       DECIMAL(10, 2) NOT NULL CHECK (price > 0),
    currency    CHAR(3) NOT NULL DEFAULT '` + model.DefaultCurrency + `',
    expiry_date DATE
)`,
	Postgres: `
CREATE TABLE IF NOT EXISTS items (
    id          BIGSERIAL PRIMARY KEY,
    name        VARCHAR(100) NOT NULL CHECK (name <> ''),
    quantity    NUMERIC NOT NULL CHECK (quantity > 0),
    price       NUMERIC(10, 2) NOT NULL CHECK (price > 0),
    currency    CHAR(3) NOT NULL DEFAULT '` + model.DefaultCurrency + `',
    expiry_date DATE
)`,
}

// migrations is a list of SQL statements applied in order after schema creation.
// Each migration must be idempotent and valid in every dialect. Append new
// migrations at the end.
var migrations = []string{
	// Migration 1: exact-name search.
	`CREATE INDEX IF NOT EXISTS idx_items_name ON items(name)`,
}

// EnsureSchema creates the items table if it doesn't already exist and applies
// migrations. Safe to run on every launch.
func EnsureSchema(ctx context.Context, db *DB) error {
	schema, ok := schemas[db.dialect]
	if !ok {
		return fmt.Errorf("no schema for dialect %q", db.dialect)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	for i, m := range migrations {
		if _, err := db.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
