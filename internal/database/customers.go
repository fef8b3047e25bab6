package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"mechshop/internal/models"
)

func (db *DB) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	query := `INSERT INTO customers (first_name, last_name, email, phone, address, password_hash, created_at)
              VALUES (?, ?, ?, ?, ?, ?, ?)`
	now := time.Now().UTC()
	result, err := db.db.ExecContext(ctx, query,
		customer.FirstName,
		customer.LastName,
		customer.Email,
		customer.Phone,
		customer.Address,
		customer.PasswordHash,
		now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create customer: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	customer.ID = id
	customer.CreatedAt = now
	return nil
}

func (db *DB) GetCustomer(ctx context.Context, id int64) (*models.Customer, error) {
	query := `SELECT id, first_name, last_name, email, phone, address, password_hash, created_at
              FROM customers WHERE id = ?`

	var customer models.Customer
	err := db.db.QueryRowContext(ctx, query, id).Scan(
		&customer.ID,
		&customer.FirstName,
		&customer.LastName,
		&customer.Email,
		&customer.Phone,
		&customer.Address,
		&customer.PasswordHash,
		&customer.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return &customer, nil
}

func (db *DB) GetCustomerByEmail(ctx context.Context, email string) (*models.Customer, error) {
	query := `SELECT id, first_name, last_name, email, phone, address, password_hash, created_at
              FROM customers WHERE email = ?`

	var customer models.Customer
	err := db.db.QueryRowContext(ctx, query, email).Scan(
		&customer.ID,
		&customer.FirstName,
		&customer.LastName,
		&customer.Email,
		&customer.Phone,
		&customer.Address,
		&customer.PasswordHash,
		&customer.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer by email: %w", err)
	}
	return &customer, nil
}

func (db *DB) ListCustomers(ctx context.Context, offset, limit int) ([]models.Customer, error) {
	offset, limit = normalizeLimit(offset, limit)

	query := `SELECT id, first_name, last_name, email, phone, address, password_hash, created_at
              FROM customers ORDER BY id LIMIT ? OFFSET ?`
	rows, err := db.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	var customers []models.Customer
	for rows.Next() {
		var customer models.Customer
		if err := rows.Scan(
			&customer.ID,
			&customer.FirstName,
			&customer.LastName,
			&customer.Email,
			&customer.Phone,
			&customer.Address,
			&customer.PasswordHash,
			&customer.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, customer)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return customers, nil
}

func (db *DB) UpdateCustomer(ctx context.Context, customer *models.Customer) error {
	query := `UPDATE customers SET first_name = ?, last_name = ?, email = ?, phone = ?, address = ?, password_hash = ?
              WHERE id = ?`
	result, err := db.db.ExecContext(ctx, query,
		customer.FirstName,
		customer.LastName,
		customer.Email,
		customer.Phone,
		customer.Address,
		customer.PasswordHash,
		customer.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to update customer: %w", err)
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

// DeleteCustomer removes a customer. Customers owning service tickets
// cannot be deleted.
func (db *DB) DeleteCustomer(ctx context.Context, id int64) error {
	count, err := db.CountCustomerTickets(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCustomerHasTickets
	}

	result, err := db.db.ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id)
	if err != nil {
		// A ticket created after the count check still blocks the
		// delete at the constraint.
		if isForeignKeyViolation(err) {
			return ErrCustomerHasTickets
		}
		return fmt.Errorf("failed to delete customer: %w", err)
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

func (db *DB) CountCustomerTickets(ctx context.Context, customerID int64) (int, error) {
	var count int
	err := db.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM service_tickets WHERE customer_id = ?`, customerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count customer tickets: %w", err)
	}
	return count, nil
}
