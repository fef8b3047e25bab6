package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"mechshop/internal/models"
)

const ticketColumns = `id, customer_id, vehicle_year, vehicle_make, vehicle_model, vehicle_vin,
                       description, estimated_cost, actual_cost, status, created_at, completed_at`

func scanTicket(row interface{ Scan(dest ...any) error }, ticket *models.ServiceTicket) error {
	var vehicleYear sql.NullInt64
	var estimatedCost, actualCost sql.NullFloat64
	var completedAt sql.NullTime
	err := row.Scan(
		&ticket.ID,
		&ticket.CustomerID,
		&vehicleYear,
		&ticket.VehicleMake,
		&ticket.VehicleModel,
		&ticket.VehicleVIN,
		&ticket.Description,
		&estimatedCost,
		&actualCost,
		&ticket.Status,
		&ticket.CreatedAt,
		&completedAt,
	)
	if err != nil {
		return err
	}
	if vehicleYear.Valid {
		ticket.VehicleYear = &vehicleYear.Int64
	}
	if estimatedCost.Valid {
		ticket.EstimatedCost = &estimatedCost.Float64
	}
	if actualCost.Valid {
		ticket.ActualCost = &actualCost.Float64
	}
	if completedAt.Valid {
		ticket.CompletedAt = &completedAt.Time
	}
	return nil
}

func nullInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func (db *DB) CreateTicket(ctx context.Context, ticket *models.ServiceTicket) error {
	query := `INSERT INTO service_tickets (customer_id, vehicle_year, vehicle_make, vehicle_model, vehicle_vin,
                                           description, estimated_cost, actual_cost, status, created_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now().UTC()
	result, err := db.db.ExecContext(ctx, query,
		ticket.CustomerID,
		nullInt(ticket.VehicleYear),
		ticket.VehicleMake,
		ticket.VehicleModel,
		ticket.VehicleVIN,
		ticket.Description,
		nullFloat(ticket.EstimatedCost),
		nullFloat(ticket.ActualCost),
		ticket.Status,
		now,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to create ticket: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	ticket.ID = id
	ticket.CreatedAt = now
	return nil
}

func (db *DB) GetTicket(ctx context.Context, id int64) (*models.ServiceTicket, error) {
	query := `SELECT ` + ticketColumns + ` FROM service_tickets WHERE id = ?`

	var ticket models.ServiceTicket
	err := scanTicket(db.db.QueryRowContext(ctx, query, id), &ticket)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	return &ticket, nil
}

func (db *DB) listTickets(ctx context.Context, query string, args ...any) ([]models.ServiceTicket, error) {
	rows, err := db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	defer rows.Close()

	var tickets []models.ServiceTicket
	for rows.Next() {
		var ticket models.ServiceTicket
		if err := scanTicket(rows, &ticket); err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tickets, nil
}

func (db *DB) ListTickets(ctx context.Context, offset, limit int) ([]models.ServiceTicket, error) {
	offset, limit = normalizeLimit(offset, limit)
	query := `SELECT ` + ticketColumns + ` FROM service_tickets ORDER BY id LIMIT ? OFFSET ?`
	return db.listTickets(ctx, query, limit, offset)
}

func (db *DB) ListTicketsByCustomer(ctx context.Context, customerID int64) ([]models.ServiceTicket, error) {
	query := `SELECT ` + ticketColumns + ` FROM service_tickets WHERE customer_id = ? ORDER BY id`
	return db.listTickets(ctx, query, customerID)
}

func (db *DB) ListTicketsByMechanic(ctx context.Context, mechanicID int64) ([]models.ServiceTicket, error) {
	query := `SELECT ` + ticketColumns + ` FROM service_tickets
              WHERE id IN (SELECT ticket_id FROM ticket_mechanics WHERE mechanic_id = ?)
              ORDER BY id`
	return db.listTickets(ctx, query, mechanicID)
}

// UpdateTicket persists all mutable ticket fields, including status and
// completed_at as decided by the caller.
func (db *DB) UpdateTicket(ctx context.Context, ticket *models.ServiceTicket) error {
	query := `UPDATE service_tickets SET customer_id = ?, vehicle_year = ?, vehicle_make = ?, vehicle_model = ?,
                  vehicle_vin = ?, description = ?, estimated_cost = ?, actual_cost = ?, status = ?, completed_at = ?
              WHERE id = ?`
	result, err := db.db.ExecContext(ctx, query,
		ticket.CustomerID,
		nullInt(ticket.VehicleYear),
		ticket.VehicleMake,
		ticket.VehicleModel,
		ticket.VehicleVIN,
		ticket.Description,
		nullFloat(ticket.EstimatedCost),
		nullFloat(ticket.ActualCost),
		ticket.Status,
		nullTime(ticket.CompletedAt),
		ticket.ID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update ticket: %w", err)
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

func (db *DB) DeleteTicket(ctx context.Context, id int64) error {
	result, err := db.db.ExecContext(ctx, `DELETE FROM service_tickets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete ticket: %w", err)
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
