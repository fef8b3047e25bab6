package domain

import (
	"context"
	"time"

	"mechshop/internal/models"
)

// Repository is the persistence surface the services depend on,
// implemented by database.DB.
type Repository interface {
	CreateCustomer(ctx context.Context, customer *models.Customer) error
	GetCustomer(ctx context.Context, id int64) (*models.Customer, error)
	GetCustomerByEmail(ctx context.Context, email string) (*models.Customer, error)
	ListCustomers(ctx context.Context, offset, limit int) ([]models.Customer, error)
	UpdateCustomer(ctx context.Context, customer *models.Customer) error
	DeleteCustomer(ctx context.Context, id int64) error
	CountCustomerTickets(ctx context.Context, customerID int64) (int, error)

	CreateMechanic(ctx context.Context, mechanic *models.Mechanic) error
	GetMechanic(ctx context.Context, id int64) (*models.Mechanic, error)
	ListMechanics(ctx context.Context, offset, limit int) ([]models.Mechanic, error)
	ListMechanicsByWorkload(ctx context.Context) ([]models.MechanicWorkload, error)
	UpdateMechanic(ctx context.Context, mechanic *models.Mechanic) error
	DeleteMechanic(ctx context.Context, id int64) error
	AssignedTicketIDs(ctx context.Context, mechanicID int64) ([]int64, error)

	CreateInventoryItem(ctx context.Context, item *models.InventoryItem) error
	GetInventoryItem(ctx context.Context, id int64) (*models.InventoryItem, error)
	ListInventoryItems(ctx context.Context, offset, limit int) ([]models.InventoryItem, error)
	UpdateInventoryItem(ctx context.Context, item *models.InventoryItem) error
	DeleteInventoryItem(ctx context.Context, id int64) error

	CreateTicket(ctx context.Context, ticket *models.ServiceTicket) error
	GetTicket(ctx context.Context, id int64) (*models.ServiceTicket, error)
	ListTickets(ctx context.Context, offset, limit int) ([]models.ServiceTicket, error)
	ListTicketsByCustomer(ctx context.Context, customerID int64) ([]models.ServiceTicket, error)
	ListTicketsByMechanic(ctx context.Context, mechanicID int64) ([]models.ServiceTicket, error)
	UpdateTicket(ctx context.Context, ticket *models.ServiceTicket) error
	DeleteTicket(ctx context.Context, id int64) error

	AssignMechanic(ctx context.Context, ticketID, mechanicID int64) error
	RemoveMechanic(ctx context.Context, ticketID, mechanicID int64) error
	AddPart(ctx context.Context, ticketID, inventoryID int64) error
	RemovePart(ctx context.Context, ticketID, inventoryID int64) error
	TicketMechanicIDs(ctx context.Context, ticketID int64) ([]int64, error)
	TicketPartIDs(ctx context.Context, ticketID int64) ([]int64, error)
}

// Cache is a lookaside store for serialized GET responses. Mutating
// handlers invalidate by key prefix so readers never observe data older
// than the last write through this service.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
	Invalidate(ctx context.Context, prefix string) error
}
