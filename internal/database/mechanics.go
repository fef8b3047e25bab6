package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"mechshop/internal/models"
)

func scanMechanic(row interface{ Scan(dest ...any) error }, mechanic *models.Mechanic) error {
	var hourlyRate sql.NullFloat64
	var hireDate sql.NullTime
	err := row.Scan(
		&mechanic.ID,
		&mechanic.FirstName,
		&mechanic.LastName,
		&mechanic.Email,
		&mechanic.Phone,
		&mechanic.Specialty,
		&hourlyRate,
		&hireDate,
		&mechanic.CreatedAt,
	)
	if err != nil {
		return err
	}
	if hourlyRate.Valid {
		mechanic.HourlyRate = &hourlyRate.Float64
	}
	if hireDate.Valid {
		mechanic.HireDate = &hireDate.Time
	}
	return nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullTime(v *time.Time) sql.NullTime {
	if v == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *v, Valid: true}
}

func (db *DB) CreateMechanic(ctx context.Context, mechanic *models.Mechanic) error {
	query := `INSERT INTO mechanics (first_name, last_name, email, phone, specialty, hourly_rate, hire_date, created_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now().UTC()
	result, err := db.db.ExecContext(ctx, query,
		mechanic.FirstName,
		mechanic.LastName,
		mechanic.Email,
		mechanic.Phone,
		mechanic.Specialty,
		nullFloat(mechanic.HourlyRate),
		nullTime(mechanic.HireDate),
		now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create mechanic: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	mechanic.ID = id
	mechanic.CreatedAt = now
	return nil
}

func (db *DB) GetMechanic(ctx context.Context, id int64) (*models.Mechanic, error) {
	query := `SELECT id, first_name, last_name, email, phone, specialty, hourly_rate, hire_date, created_at
              FROM mechanics WHERE id = ?`

	var mechanic models.Mechanic
	err := scanMechanic(db.db.QueryRowContext(ctx, query, id), &mechanic)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get mechanic: %w", err)
	}
	return &mechanic, nil
}

func (db *DB) ListMechanics(ctx context.Context, offset, limit int) ([]models.Mechanic, error) {
	offset, limit = normalizeLimit(offset, limit)

	query := `SELECT id, first_name, last_name, email, phone, specialty, hourly_rate, hire_date, created_at
              FROM mechanics ORDER BY id LIMIT ? OFFSET ?`
	rows, err := db.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list mechanics: %w", err)
	}
	defer rows.Close()

	var mechanics []models.Mechanic
	for rows.Next() {
		var mechanic models.Mechanic
		if err := scanMechanic(rows, &mechanic); err != nil {
			return nil, fmt.Errorf("failed to scan mechanic: %w", err)
		}
		mechanics = append(mechanics, mechanic)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return mechanics, nil
}

// ListMechanicsByWorkload returns all mechanics ordered by descending
// count of tickets ever assigned to them. Mechanics without assignments
// are included with a zero count.
func (db *DB) ListMechanicsByWorkload(ctx context.Context) ([]models.MechanicWorkload, error) {
	query := `SELECT m.id, m.first_name, m.last_name, m.email, m.phone, m.specialty, m.hourly_rate, m.hire_date, m.created_at,
                     COUNT(tm.ticket_id) AS ticket_count
              FROM mechanics m
              LEFT JOIN ticket_mechanics tm ON tm.mechanic_id = m.id
              GROUP BY m.id
              ORDER BY ticket_count DESC, m.id`
	rows, err := db.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list mechanics by workload: %w", err)
	}
	defer rows.Close()

	var workloads []models.MechanicWorkload
	for rows.Next() {
		var w models.MechanicWorkload
		var hourlyRate sql.NullFloat64
		var hireDate sql.NullTime
		if err := rows.Scan(
			&w.ID,
			&w.FirstName,
			&w.LastName,
			&w.Email,
			&w.Phone,
			&w.Specialty,
			&hourlyRate,
			&hireDate,
			&w.CreatedAt,
			&w.TicketCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan workload row: %w", err)
		}
		if hourlyRate.Valid {
			w.HourlyRate = &hourlyRate.Float64
		}
		if hireDate.Valid {
			w.HireDate = &hireDate.Time
		}
		workloads = append(workloads, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return workloads, nil
}

func (db *DB) UpdateMechanic(ctx context.Context, mechanic *models.Mechanic) error {
	query := `UPDATE mechanics SET first_name = ?, last_name = ?, email = ?, phone = ?, specialty = ?, hourly_rate = ?, hire_date = ?
              WHERE id = ?`
	result, err := db.db.ExecContext(ctx, query,
		mechanic.FirstName,
		mechanic.LastName,
		mechanic.Email,
		mechanic.Phone,
		mechanic.Specialty,
		nullFloat(mechanic.HourlyRate),
		nullTime(mechanic.HireDate),
		mechanic.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to update mechanic: %w", err)
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

// DeleteMechanic removes a mechanic unless they are still assigned to
// any service ticket.
func (db *DB) DeleteMechanic(ctx context.Context, id int64) error {
	ticketIDs, err := db.AssignedTicketIDs(ctx, id)
	if err != nil {
		return err
	}
	if len(ticketIDs) > 0 {
		return ErrMechanicAssigned
	}

	result, err := db.db.ExecContext(ctx, `DELETE FROM mechanics WHERE id = ?`, id)
	if err != nil {
		// An assignment created after the lookup still blocks the
		// delete at the constraint.
		if isForeignKeyViolation(err) {
			return ErrMechanicAssigned
		}
		return fmt.Errorf("failed to delete mechanic: %w", err)
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

// AssignedTicketIDs returns the ids of tickets the mechanic is attached to.
func (db *DB) AssignedTicketIDs(ctx context.Context, mechanicID int64) ([]int64, error) {
	rows, err := db.db.QueryContext(ctx,
		`SELECT ticket_id FROM ticket_mechanics WHERE mechanic_id = ? ORDER BY ticket_id`, mechanicID)
	if err != nil {
		return nil, fmt.Errorf("failed to get assigned tickets: %w", err)
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
