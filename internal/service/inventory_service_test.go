package service

import (
	"context"
	"errors"
	"testing"

	"mechshop/internal/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventoryService_CreateRequiresPrice(t *testing.T) {
	_, _, inventory, _ := setupServices(t)

	_, err := inventory.Create(context.Background(), InventoryInput{Name: strPtr("Wiper blade")})
	var verr ValidationErrors
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "price", verr[0].Field)
}

func TestInventoryService_CRUD(t *testing.T) {
	_, _, inventory, _ := setupServices(t)
	ctx := context.Background()

	item, err := inventory.Create(ctx, InventoryInput{Name: strPtr("Spark plug"), Price: floatPtr(8.99)})
	require.NoError(t, err)

	updated, err := inventory.Update(ctx, item.ID, InventoryInput{Price: floatPtr(9.49)})
	require.NoError(t, err)
	assert.Equal(t, 9.49, updated.Price)
	assert.Equal(t, "Spark plug", updated.Name)

	_, err = inventory.Update(ctx, item.ID, InventoryInput{Price: floatPtr(-1)})
	var verr ValidationErrors
	assert.True(t, errors.As(err, &verr))

	require.NoError(t, inventory.Delete(ctx, item.ID))
	_, err = inventory.Get(ctx, item.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestInventoryService_DeleteInUse(t *testing.T) {
	customers, _, inventory, tickets := setupServices(t)
	ctx := context.Background()

	_, ticket := createTicketFixture(t, customers, tickets)
	part, err := inventory.Create(ctx, InventoryInput{Name: strPtr("Radiator"), Price: floatPtr(240)})
	require.NoError(t, err)
	require.NoError(t, tickets.AddPart(ctx, ticket.ID, part.ID))

	err = inventory.Delete(ctx, part.ID)
	assert.ErrorIs(t, err, database.ErrPartInUse)
}
