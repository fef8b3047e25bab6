package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mechshop/internal/models"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

type DB struct {
	db     *sql.DB
	logger *zerolog.Logger
}

func NewDB(path string, logger *zerolog.Logger) (*DB, error) {
	if !strings.Contains(path, ":memory:") {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := path + "?_foreign_keys=on"
	if strings.Contains(path, "?") {
		dsn = path + "&_foreign_keys=on"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// An in-memory database exists per connection, so the pool must not
	// grow past one.
	if strings.Contains(path, ":memory:") {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	if logger != nil {
		logger.Info().Str("path", path).Msg("database initialized")
	}
	return &DB{db: db, logger: logger}, nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS customers (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            first_name TEXT NOT NULL,
            last_name TEXT NOT NULL,
            email TEXT UNIQUE NOT NULL,
            phone TEXT NOT NULL DEFAULT '',
            address TEXT NOT NULL DEFAULT '',
            password_hash TEXT NOT NULL,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE TABLE IF NOT EXISTS mechanics (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            first_name TEXT NOT NULL,
            last_name TEXT NOT NULL,
            email TEXT UNIQUE NOT NULL,
            phone TEXT NOT NULL DEFAULT '',
            specialty TEXT NOT NULL DEFAULT '',
            hourly_rate REAL,
            hire_date DATETIME,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE TABLE IF NOT EXISTS inventory (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            price REAL NOT NULL CHECK (price >= 0),
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE TABLE IF NOT EXISTS service_tickets (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            customer_id INTEGER NOT NULL REFERENCES customers(id),
            vehicle_year INTEGER,
            vehicle_make TEXT NOT NULL DEFAULT '',
            vehicle_model TEXT NOT NULL DEFAULT '',
            vehicle_vin TEXT NOT NULL DEFAULT '',
            description TEXT NOT NULL,
            estimated_cost REAL,
            actual_cost REAL,
            status TEXT NOT NULL DEFAULT 'Open',
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            completed_at DATETIME
        )`,
		`CREATE TABLE IF NOT EXISTS ticket_mechanics (
            ticket_id INTEGER NOT NULL REFERENCES service_tickets(id) ON DELETE CASCADE,
            mechanic_id INTEGER NOT NULL REFERENCES mechanics(id),
            PRIMARY KEY (ticket_id, mechanic_id)
        )`,
		`CREATE TABLE IF NOT EXISTS ticket_parts (
            ticket_id INTEGER NOT NULL REFERENCES service_tickets(id) ON DELETE CASCADE,
            inventory_id INTEGER NOT NULL REFERENCES inventory(id),
            PRIMARY KEY (ticket_id, inventory_id)
        )`,

		`CREATE INDEX IF NOT EXISTS idx_customers_email ON customers(email)`,
		`CREATE INDEX IF NOT EXISTS idx_mechanics_email ON mechanics(email)`,
		`CREATE INDEX IF NOT EXISTS idx_tickets_customer_id ON service_tickets(customer_id)`,
		`CREATE INDEX IF NOT EXISTS idx_tickets_status ON service_tickets(status)`,
		`CREATE INDEX IF NOT EXISTS idx_ticket_mechanics_mechanic ON ticket_mechanics(mechanic_id)`,
		`CREATE INDEX IF NOT EXISTS idx_ticket_parts_inventory ON ticket_parts(inventory_id)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}
	return nil
}

func (db *DB) PingContext(ctx context.Context) error {
	return db.db.PingContext(ctx)
}

func (db *DB) Close() error {
	return db.db.Close()
}

func normalizeLimit(offset, limit int) (int, int) {
	if limit <= 0 {
		limit = models.DefaultPageLimit
	}
	if limit > models.MaxPageLimit {
		limit = models.MaxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return offset, limit
}
