package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"mechshop/internal/models"
)

func (db *DB) CreateInventoryItem(ctx context.Context, item *models.InventoryItem) error {
	query := `INSERT INTO inventory (name, price, created_at) VALUES (?, ?, ?)`
	now := time.Now().UTC()
	result, err := db.db.ExecContext(ctx, query, item.Name, item.Price, now)
	if err != nil {
		return fmt.Errorf("failed to create inventory item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	item.ID = id
	item.CreatedAt = now
	return nil
}

func (db *DB) GetInventoryItem(ctx context.Context, id int64) (*models.InventoryItem, error) {
	query := `SELECT id, name, price, created_at FROM inventory WHERE id = ?`

	var item models.InventoryItem
	err := db.db.QueryRowContext(ctx, query, id).Scan(&item.ID, &item.Name, &item.Price, &item.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory item: %w", err)
	}
	return &item, nil
}

func (db *DB) ListInventoryItems(ctx context.Context, offset, limit int) ([]models.InventoryItem, error) {
	offset, limit = normalizeLimit(offset, limit)

	query := `SELECT id, name, price, created_at FROM inventory ORDER BY id LIMIT ? OFFSET ?`
	rows, err := db.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	defer rows.Close()

	var items []models.InventoryItem
	for rows.Next() {
		var item models.InventoryItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Price, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan inventory item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (db *DB) UpdateInventoryItem(ctx context.Context, item *models.InventoryItem) error {
	query := `UPDATE inventory SET name = ?, price = ? WHERE id = ?`
	result, err := db.db.ExecContext(ctx, query, item.Name, item.Price, item.ID)
	if err != nil {
		return fmt.Errorf("failed to update inventory item: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) DeleteInventoryItem(ctx context.Context, id int64) error {
	result, err := db.db.ExecContext(ctx, `DELETE FROM inventory WHERE id = ?`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrPartInUse
		}
		return fmt.Errorf("failed to delete inventory item: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
