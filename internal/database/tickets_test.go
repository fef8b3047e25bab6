package database

import (
	"context"
	"testing"
	"time"

	"mechshop/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestCustomer(t *testing.T, db *DB, email string) *models.Customer {
	t.Helper()
	c := &models.Customer{FirstName: "T", LastName: "C", Email: email, PasswordHash: "x"}
	require.NoError(t, db.CreateCustomer(context.Background(), c))
	return c
}

func TestTicketCRUD(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	customer := createTestCustomer(t, db, "tickets@example.com")

	year := int64(2019)
	estimate := 250.0
	ticket := &models.ServiceTicket{
		CustomerID:    customer.ID,
		VehicleYear:   &year,
		VehicleMake:   "Honda",
		VehicleModel:  "Civic",
		VehicleVIN:    "1HGEM21292L047875",
		Description:   "timing belt",
		EstimatedCost: &estimate,
		Status:        models.StatusOpen,
	}
	require.NoError(t, db.CreateTicket(ctx, ticket))
	assert.NotZero(t, ticket.ID)

	found, err := db.GetTicket(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, "Honda", found.VehicleMake)
	require.NotNil(t, found.VehicleYear)
	assert.Equal(t, int64(2019), *found.VehicleYear)
	require.NotNil(t, found.EstimatedCost)
	assert.Equal(t, 250.0, *found.EstimatedCost)
	assert.Nil(t, found.CompletedAt)

	now := time.Now().UTC()
	actual := 310.0
	found.Status = models.StatusCompleted
	found.CompletedAt = &now
	found.ActualCost = &actual
	require.NoError(t, db.UpdateTicket(ctx, found))

	found, err = db.GetTicket(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, found.Status)
	require.NotNil(t, found.CompletedAt)
	require.NotNil(t, found.ActualCost)
	assert.Equal(t, 310.0, *found.ActualCost)

	require.NoError(t, db.DeleteTicket(ctx, ticket.ID))
	_, err = db.GetTicket(ctx, ticket.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateTicket_UnknownCustomer(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ticket := &models.ServiceTicket{CustomerID: 999, Description: "ghost", Status: models.StatusOpen}
	err := db.CreateTicket(context.Background(), ticket)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAssignMechanic_Conflicts(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	customer := createTestCustomer(t, db, "assign@example.com")
	mechanic := createTestMechanic(t, db, "assignee@example.com")
	ticket := createTestTicket(t, db, customer.ID)

	require.NoError(t, db.AssignMechanic(ctx, ticket.ID, mechanic.ID))

	// Second assignment of the same pair conflicts.
	err := db.AssignMechanic(ctx, ticket.ID, mechanic.ID)
	assert.ErrorIs(t, err, ErrAlreadyAssigned)

	// Removing clears the pair so it can be assigned again.
	require.NoError(t, db.RemoveMechanic(ctx, ticket.ID, mechanic.ID))
	err = db.RemoveMechanic(ctx, ticket.ID, mechanic.ID)
	assert.ErrorIs(t, err, ErrNotAssigned)
	assert.NoError(t, db.AssignMechanic(ctx, ticket.ID, mechanic.ID))

	ids, err := db.TicketMechanicIDs(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{mechanic.ID}, ids)
}

func TestAssignMechanic_UnknownIDs(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	customer := createTestCustomer(t, db, "unknown@example.com")
	ticket := createTestTicket(t, db, customer.ID)

	err := db.AssignMechanic(ctx, ticket.ID, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	mechanic := createTestMechanic(t, db, "real@example.com")
	err = db.AssignMechanic(ctx, 999, mechanic.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTicketParts(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	customer := createTestCustomer(t, db, "parts@example.com")
	ticket := createTestTicket(t, db, customer.ID)

	part := &models.InventoryItem{Name: "Brake pad", Price: 39.99}
	require.NoError(t, db.CreateInventoryItem(ctx, part))

	require.NoError(t, db.AddPart(ctx, ticket.ID, part.ID))
	err := db.AddPart(ctx, ticket.ID, part.ID)
	assert.ErrorIs(t, err, ErrAlreadyAssigned)

	// A referenced part cannot be deleted from inventory.
	err = db.DeleteInventoryItem(ctx, part.ID)
	assert.ErrorIs(t, err, ErrPartInUse)

	ids, err := db.TicketPartIDs(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{part.ID}, ids)

	require.NoError(t, db.RemovePart(ctx, ticket.ID, part.ID))
	err = db.RemovePart(ctx, ticket.ID, part.ID)
	assert.ErrorIs(t, err, ErrNotAssigned)

	assert.NoError(t, db.DeleteInventoryItem(ctx, part.ID))
}

func TestListTicketsByCustomerAndMechanic(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	first := createTestCustomer(t, db, "one@example.com")
	second := createTestCustomer(t, db, "two@example.com")
	mechanic := createTestMechanic(t, db, "lists@example.com")

	t1 := createTestTicket(t, db, first.ID)
	createTestTicket(t, db, first.ID)
	t3 := createTestTicket(t, db, second.ID)

	require.NoError(t, db.AssignMechanic(ctx, t1.ID, mechanic.ID))
	require.NoError(t, db.AssignMechanic(ctx, t3.ID, mechanic.ID))

	byCustomer, err := db.ListTicketsByCustomer(ctx, first.ID)
	require.NoError(t, err)
	assert.Len(t, byCustomer, 2)

	byMechanic, err := db.ListTicketsByMechanic(ctx, mechanic.ID)
	require.NoError(t, err)
	assert.Len(t, byMechanic, 2)

	// Deleting a ticket cascades to the join rows.
	require.NoError(t, db.DeleteTicket(ctx, t1.ID))
	byMechanic, err = db.ListTicketsByMechanic(ctx, mechanic.ID)
	require.NoError(t, err)
	assert.Len(t, byMechanic, 1)
}
