package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"mechshop/internal/auth"
	"mechshop/internal/database"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "service-test-secret"

func setupServices(t *testing.T) (*CustomerService, *MechanicService, *InventoryService, *TicketService) {
	t.Helper()
	logger := zerolog.Nop()
	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewCustomerService(db, testJWTSecret, time.Hour, &logger),
		NewMechanicService(db, &logger),
		NewInventoryService(db, &logger),
		NewTicketService(db, &logger)
}

func strPtr(s string) *string     { return &s }
func intPtr(n int64) *int64       { return &n }
func floatPtr(f float64) *float64 { return &f }

func validCustomerInput(email string) CustomerInput {
	return CustomerInput{
		FirstName: strPtr("Dana"),
		LastName:  strPtr("Wells"),
		Email:     strPtr(email),
		Password:  strPtr("sup3rsecret"),
	}
}

func TestCustomerService_CreateAndLogin(t *testing.T) {
	customers, _, _, _ := setupServices(t)
	ctx := context.Background()

	created, err := customers.Create(ctx, validCustomerInput("dana@example.com"))
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.NotEqual(t, "sup3rsecret", created.PasswordHash)

	token, customerID, err := customers.Login(ctx, "dana@example.com", "sup3rsecret")
	require.NoError(t, err)
	assert.Equal(t, created.ID, customerID)

	parsedID, err := auth.ParseToken(testJWTSecret, token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, parsedID)
}

func TestCustomerService_LoginRejectsBadCredentials(t *testing.T) {
	customers, _, _, _ := setupServices(t)
	ctx := context.Background()

	_, err := customers.Create(ctx, validCustomerInput("dana@example.com"))
	require.NoError(t, err)

	_, _, err = customers.Login(ctx, "dana@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Unknown email reports the same error as a wrong password.
	_, _, err = customers.Login(ctx, "nobody@example.com", "sup3rsecret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCustomerService_Validation(t *testing.T) {
	customers, _, _, _ := setupServices(t)
	ctx := context.Background()

	in := CustomerInput{
		FirstName: strPtr(""),
		LastName:  strPtr("Wells"),
		Email:     strPtr("not-an-email"),
		Password:  strPtr("short"),
	}

	_, err := customers.Create(ctx, in)
	var verr ValidationErrors
	require.True(t, errors.As(err, &verr))

	fields := make(map[string]string)
	for _, fe := range verr {
		fields[fe.Field] = fe.Message
	}
	assert.Contains(t, fields, "first_name")
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
	assert.NotContains(t, fields, "last_name")
}

func TestCustomerService_UpdatePartial(t *testing.T) {
	customers, _, _, _ := setupServices(t)
	ctx := context.Background()

	created, err := customers.Create(ctx, validCustomerInput("dana@example.com"))
	require.NoError(t, err)

	updated, err := customers.Update(ctx, created.ID, CustomerInput{Phone: strPtr("555-7788")})
	require.NoError(t, err)
	assert.Equal(t, "555-7788", updated.Phone)
	assert.Equal(t, "Dana", updated.FirstName)
	assert.Equal(t, "dana@example.com", updated.Email)
}

func TestCustomerService_UpdatePasswordRehashes(t *testing.T) {
	customers, _, _, _ := setupServices(t)
	ctx := context.Background()

	created, err := customers.Create(ctx, validCustomerInput("dana@example.com"))
	require.NoError(t, err)

	_, err = customers.Update(ctx, created.ID, CustomerInput{Password: strPtr("brandnewpass")})
	require.NoError(t, err)

	_, _, err = customers.Login(ctx, "dana@example.com", "brandnewpass")
	assert.NoError(t, err)
	_, _, err = customers.Login(ctx, "dana@example.com", "sup3rsecret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCustomerService_DeleteBlockedByTickets(t *testing.T) {
	customers, _, _, tickets := setupServices(t)
	ctx := context.Background()

	created, err := customers.Create(ctx, validCustomerInput("dana@example.com"))
	require.NoError(t, err)

	_, err = tickets.Create(ctx, TicketInput{
		CustomerID:  intPtr(created.ID),
		Description: strPtr("squeaky brakes"),
	})
	require.NoError(t, err)

	err = customers.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, database.ErrCustomerHasTickets)
}

func TestCustomerService_MyTickets(t *testing.T) {
	customers, _, _, tickets := setupServices(t)
	ctx := context.Background()

	created, err := customers.Create(ctx, validCustomerInput("dana@example.com"))
	require.NoError(t, err)

	_, err = tickets.Create(ctx, TicketInput{
		CustomerID:  intPtr(created.ID),
		Description: strPtr("squeaky brakes"),
	})
	require.NoError(t, err)

	mine, err := customers.MyTickets(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	_, err = customers.MyTickets(ctx, 999)
	assert.ErrorIs(t, err, database.ErrNotFound)
}
