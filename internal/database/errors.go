package database

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

var (
	ErrNotFound           = errors.New("record not found")
	ErrDuplicateEmail     = errors.New("email already in use")
	ErrCustomerHasTickets = errors.New("customer has service tickets")
	ErrMechanicAssigned   = errors.New("mechanic is assigned to service tickets")
	ErrPartInUse          = errors.New("inventory item is attached to service tickets")
	ErrAlreadyAssigned    = errors.New("already attached to this ticket")
	ErrNotAssigned        = errors.New("not attached to this ticket")
)

// isUniqueViolation reports whether err is a sqlite unique-constraint
// failure. Concurrent identical creates race at this constraint and the
// loser must surface a conflict, not a crash.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}
	return false
}
