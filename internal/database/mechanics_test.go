package database

import (
	"context"
	"fmt"
	"testing"
	"time"

	"mechshop/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestMechanic(t *testing.T, db *DB, email string) *models.Mechanic {
	t.Helper()
	rate := 45.0
	hired := time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC)
	m := &models.Mechanic{
		FirstName:  "Sam",
		LastName:   "Ortiz",
		Email:      email,
		Specialty:  "brakes",
		HourlyRate: &rate,
		HireDate:   &hired,
	}
	require.NoError(t, db.CreateMechanic(context.Background(), m))
	return m
}

func createTestTicket(t *testing.T, db *DB, customerID int64) *models.ServiceTicket {
	t.Helper()
	ticket := &models.ServiceTicket{CustomerID: customerID, Description: "oil change", Status: models.StatusOpen}
	require.NoError(t, db.CreateTicket(context.Background(), ticket))
	return ticket
}

func TestMechanicCRUD(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	mechanic := createTestMechanic(t, db, "sam@example.com")

	found, err := db.GetMechanic(ctx, mechanic.ID)
	require.NoError(t, err)
	assert.Equal(t, "brakes", found.Specialty)
	require.NotNil(t, found.HourlyRate)
	assert.Equal(t, 45.0, *found.HourlyRate)
	require.NotNil(t, found.HireDate)
	assert.Equal(t, 2022, found.HireDate.Year())

	found.Specialty = "transmission"
	found.HourlyRate = nil
	require.NoError(t, db.UpdateMechanic(ctx, found))

	found, err = db.GetMechanic(ctx, mechanic.ID)
	require.NoError(t, err)
	assert.Equal(t, "transmission", found.Specialty)
	assert.Nil(t, found.HourlyRate)

	require.NoError(t, db.DeleteMechanic(ctx, mechanic.ID))
	_, err = db.GetMechanic(ctx, mechanic.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteMechanic_Assigned(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()

	customer := &models.Customer{FirstName: "A", LastName: "B", Email: "cust@example.com", PasswordHash: "x"}
	require.NoError(t, db.CreateCustomer(ctx, customer))

	mechanic := createTestMechanic(t, db, "busy@example.com")
	ticket := createTestTicket(t, db, customer.ID)

	require.NoError(t, db.AssignMechanic(ctx, ticket.ID, mechanic.ID))

	err := db.DeleteMechanic(ctx, mechanic.ID)
	assert.ErrorIs(t, err, ErrMechanicAssigned)

	ids, err := db.AssignedTicketIDs(ctx, mechanic.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{ticket.ID}, ids)

	require.NoError(t, db.RemoveMechanic(ctx, ticket.ID, mechanic.ID))
	assert.NoError(t, db.DeleteMechanic(ctx, mechanic.ID))
}

func TestDeleteMechanic_AssignmentArrivingMidDelete(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()

	customer := &models.Customer{FirstName: "A", LastName: "B", Email: "late@example.com", PasswordHash: "x"}
	require.NoError(t, db.CreateCustomer(ctx, customer))

	ticket := createTestTicket(t, db, customer.ID)
	mechanic := createTestMechanic(t, db, "late-mech@example.com")

	// Recreate an assignment landing between the lookup and the delete
	// statement.
	_, err := db.db.ExecContext(ctx, fmt.Sprintf(`
        CREATE TRIGGER late_assignment BEFORE DELETE ON mechanics
        BEGIN
            INSERT INTO ticket_mechanics (ticket_id, mechanic_id)
            VALUES (%d, OLD.id);
        END`, ticket.ID))
	require.NoError(t, err)

	err = db.DeleteMechanic(ctx, mechanic.ID)
	assert.ErrorIs(t, err, ErrMechanicAssigned)
}

func TestListMechanicsByWorkload(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()

	customer := &models.Customer{FirstName: "A", LastName: "B", Email: "work@example.com", PasswordHash: "x"}
	require.NoError(t, db.CreateCustomer(ctx, customer))

	busy := createTestMechanic(t, db, "busy@example.com")
	moderate := createTestMechanic(t, db, "moderate@example.com")
	idle := createTestMechanic(t, db, "idle@example.com")

	for i := 0; i < 3; i++ {
		ticket := createTestTicket(t, db, customer.ID)
		require.NoError(t, db.AssignMechanic(ctx, ticket.ID, busy.ID))
		if i < 1 {
			require.NoError(t, db.AssignMechanic(ctx, ticket.ID, moderate.ID))
		}
	}

	workload, err := db.ListMechanicsByWorkload(ctx)
	require.NoError(t, err)
	require.Len(t, workload, 3)

	assert.Equal(t, busy.ID, workload[0].ID)
	assert.Equal(t, int64(3), workload[0].TicketCount)
	assert.Equal(t, moderate.ID, workload[1].ID)
	assert.Equal(t, int64(1), workload[1].TicketCount)
	assert.Equal(t, idle.ID, workload[2].ID)
	assert.Equal(t, int64(0), workload[2].TicketCount)
}
