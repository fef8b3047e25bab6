package database

import (
	"context"
	"fmt"
)

// Relationship edits use set semantics surfaced as conflicts: attaching
// an existing edge or detaching a missing one is an error, not a no-op.

func (db *DB) AssignMechanic(ctx context.Context, ticketID, mechanicID int64) error {
	query := `INSERT INTO ticket_mechanics (ticket_id, mechanic_id) VALUES (?, ?)`
	_, err := db.db.ExecContext(ctx, query, ticketID, mechanicID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyAssigned
		}
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to assign mechanic: %w", err)
	}
	return nil
}

func (db *DB) RemoveMechanic(ctx context.Context, ticketID, mechanicID int64) error {
	query := `DELETE FROM ticket_mechanics WHERE ticket_id = ? AND mechanic_id = ?`
	result, err := db.db.ExecContext(ctx, query, ticketID, mechanicID)
	if err != nil {
		return fmt.Errorf("failed to remove mechanic: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotAssigned
	}
	return nil
}

func (db *DB) AddPart(ctx context.Context, ticketID, inventoryID int64) error {
	query := `INSERT INTO ticket_parts (ticket_id, inventory_id) VALUES (?, ?)`
	_, err := db.db.ExecContext(ctx, query, ticketID, inventoryID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyAssigned
		}
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to add part: %w", err)
	}
	return nil
}

func (db *DB) RemovePart(ctx context.Context, ticketID, inventoryID int64) error {
	query := `DELETE FROM ticket_parts WHERE ticket_id = ? AND inventory_id = ?`
	result, err := db.db.ExecContext(ctx, query, ticketID, inventoryID)
	if err != nil {
		return fmt.Errorf("failed to remove part: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotAssigned
	}
	return nil
}

func (db *DB) idList(ctx context.Context, query string, arg int64) ([]int64, error) {
	rows, err := db.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// TicketMechanicIDs returns the mechanic ids attached to a ticket.
func (db *DB) TicketMechanicIDs(ctx context.Context, ticketID int64) ([]int64, error) {
	ids, err := db.idList(ctx,
		`SELECT mechanic_id FROM ticket_mechanics WHERE ticket_id = ? ORDER BY mechanic_id`, ticketID)
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket mechanics: %w", err)
	}
	return ids, nil
}

// TicketPartIDs returns the inventory ids attached to a ticket.
func (db *DB) TicketPartIDs(ctx context.Context, ticketID int64) ([]int64, error) {
	ids, err := db.idList(ctx,
		`SELECT inventory_id FROM ticket_parts WHERE ticket_id = ? ORDER BY inventory_id`, ticketID)
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket parts: %w", err)
	}
	return ids, nil
}
