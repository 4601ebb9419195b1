package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/erazemk/shramba/internal/db"
	"github.com/erazemk/shramba/internal/model"
)

// ErrUnknownColumn is returned when an update names a column outside the allow-list.
var ErrUnknownColumn = errors.New("unknown item column")

// setClauses maps each mutable column to its fixed SET fragment. Column names
// never reach statement text any other way.
var setClauses = map[model.Column]string{
	model.ColumnQuantity:   "quantity = ?",
	model.ColumnPrice:      "price = ?",
	model.ColumnName:       "name = ?",
	model.ColumnExpiryDate: "expiry_date = ?",
}

const itemColumns = `id, name, quantity, price, currency, expiry_date`

// Result reports the outcome of an insert.
type Result struct {
	ID           int64
	RowsAffected int64
}

// AddItem inserts a new item with the default currency and commits it.
func AddItem(ctx context.Context, d *db.DB, in model.NewItem) (Result, error) {
	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return Result{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var expiry any
	if in.ExpiryDate != nil {
		expiry = *in.ExpiryDate
	}

	var id int64
	err = tx.QueryRowContext(ctx,
		d.Rebind(`INSERT INTO items (name, quantity, price, expiry_date) VALUES (?, ?, ?, ?) RETURNING id`),
		in.Name, in.Quantity, in.Price, expiry,
	).Scan(&id)
	if err != nil {
		return Result{}, fmt.Errorf("adding item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Result{}, fmt.Errorf("committing item: %w", err)
	}
	return Result{ID: id, RowsAffected: 1}, nil
}

// RemoveItem deletes an item by ID and returns the number of rows deleted.
func RemoveItem(ctx context.Context, d *db.DB, id int64) (int64, error) {
	return execCommit(ctx, d, "removing item", `DELETE FROM items WHERE id = ?`, id)
}

// UpdateItem sets one column of an item and returns the number of rows updated.
// The value must already be validated for the column.
func UpdateItem(ctx context.Context, d *db.DB, column model.Column, value any, id int64) (int64, error) {
	clause, ok := setClauses[column]
	if !ok {
		return 0, fmt.Errorf("updating item: %w: %q", ErrUnknownColumn, column)
	}
	return execCommit(ctx, d, "updating item", `UPDATE items SET `+clause+` WHERE id = ?`, value, id)
}

// execCommit runs one mutating statement in its own transaction.
func execCommit(ctx context.Context, d *db.DB, op, query string, args ...any) (int64, error) {
	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, d.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: reading rows affected: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: committing: %w", op, err)
	}
	return n, nil
}

// GetItem returns an item by ID.
func GetItem(ctx context.Context, d *db.DB, id int64) (*model.Item, error) {
	item := &model.Item{}
	err := d.QueryRowContext(ctx,
		d.Rebind(`SELECT `+itemColumns+` FROM items WHERE id = ?`), id,
	).Scan(&item.ID, &item.Name, &item.Quantity, &item.Price, &item.Currency, &item.ExpiryDate)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// ListItems returns every item in storage order.
func ListItems(ctx context.Context, d *db.DB) ([]model.Item, error) {
	rows, err := d.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// SearchItems returns items whose name equals name exactly.
func SearchItems(ctx context.Context, d *db.DB, name string) ([]model.Item, error) {
	rows, err := d.QueryContext(ctx,
		d.Rebind(`SELECT `+itemColumns+` FROM items WHERE name = ? ORDER BY id`), name,
	)
	if err != nil {
		return nil, fmt.Errorf("searching items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

func scanItems(rows *sql.Rows) ([]model.Item, error) {
	var items []model.Item
	for rows.Next() {
		var item model.Item
		if err := rows.Scan(&item.ID, &item.Name, &item.Quantity, &item.Price, &item.Currency, &item.ExpiryDate); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
