package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mechshop/internal/database"
	"mechshop/internal/domain"
	"mechshop/internal/models"

	"github.com/rs/zerolog"
)

type TicketService struct {
	repo   domain.Repository
	logger *zerolog.Logger
}

func NewTicketService(repo domain.Repository, logger *zerolog.Logger) *TicketService {
	return &TicketService{repo: repo, logger: logger}
}

type TicketInput struct {
	CustomerID    *int64   `json:"customer_id"`
	VehicleYear   *int64   `json:"vehicle_year"`
	VehicleMake   *string  `json:"vehicle_make"`
	VehicleModel  *string  `json:"vehicle_model"`
	VehicleVIN    *string  `json:"vehicle_vin"`
	Description   *string  `json:"description"`
	EstimatedCost *float64 `json:"estimated_cost"`
	ActualCost    *float64 `json:"actual_cost"`
	Status        *string  `json:"status"`
}

// TicketDetail is a ticket with its materialized relationship id lists.
type TicketDetail struct {
	models.ServiceTicket
	MechanicIDs []int64 `json:"mechanic_ids"`
	PartIDs     []int64 `json:"part_ids"`
}

// BulkEditResult reports the outcome of a bulk mechanic edit. Valid ids
// are committed even when others produce warnings.
type BulkEditResult struct {
	Added    []int64  `json:"added"`
	Removed  []int64  `json:"removed"`
	Warnings []string `json:"warnings,omitempty"`
}

func validateTicketFields(verr *ValidationErrors, t *models.ServiceTicket) {
	if t.CustomerID <= 0 {
		verr.add("customer_id", "is required")
	}
	if t.Description == "" {
		verr.add("description", "is required")
	}
	if t.VehicleYear != nil && (*t.VehicleYear < 1900 || *t.VehicleYear > 2030) {
		verr.add("vehicle_year", "must be between 1900 and 2030")
	}
	if len(t.VehicleMake) > 50 {
		verr.add("vehicle_make", "must be at most 50 characters")
	}
	if len(t.VehicleModel) > 50 {
		verr.add("vehicle_model", "must be at most 50 characters")
	}
	if len(t.VehicleVIN) > 17 {
		verr.add("vehicle_vin", "must be at most 17 characters")
	}
	if t.EstimatedCost != nil && *t.EstimatedCost < 0 {
		verr.add("estimated_cost", "must not be negative")
	}
	if t.ActualCost != nil && *t.ActualCost < 0 {
		verr.add("actual_cost", "must not be negative")
	}
	if !models.ValidStatus(t.Status) {
		verr.add("status", "must be one of Open, In Progress, Completed, Cancelled")
	}
}

func applyTicketInput(t *models.ServiceTicket, in TicketInput) {
	if in.CustomerID != nil {
		t.CustomerID = *in.CustomerID
	}
	if in.VehicleYear != nil {
		t.VehicleYear = in.VehicleYear
	}
	if in.VehicleMake != nil {
		t.VehicleMake = trimmed(in.VehicleMake)
	}
	if in.VehicleModel != nil {
		t.VehicleModel = trimmed(in.VehicleModel)
	}
	if in.VehicleVIN != nil {
		t.VehicleVIN = trimmed(in.VehicleVIN)
	}
	if in.Description != nil {
		t.Description = trimmed(in.Description)
	}
	if in.EstimatedCost != nil {
		t.EstimatedCost = in.EstimatedCost
	}
	if in.ActualCost != nil {
		t.ActualCost = in.ActualCost
	}
	if in.Status != nil {
		t.Status = trimmed(in.Status)
	}
}

// applyStatus moves a ticket to a new status and keeps completed_at in
// step: set on entering Completed, cleared on leaving it.
func applyStatus(t *models.ServiceTicket, status string, now time.Time) {
	entering := status == models.StatusCompleted && t.Status != models.StatusCompleted
	leaving := status != models.StatusCompleted && t.Status == models.StatusCompleted

	t.Status = status
	if entering {
		completedAt := now
		t.CompletedAt = &completedAt
	}
	if leaving {
		t.CompletedAt = nil
	}
}

func (s *TicketService) Create(ctx context.Context, in TicketInput) (*models.ServiceTicket, error) {
	ticket := &models.ServiceTicket{Status: models.StatusOpen}
	applyTicketInput(ticket, in)

	var verr ValidationErrors
	validateTicketFields(&verr, ticket)
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	// The owning customer must exist before anything is written.
	if _, err := s.repo.GetCustomer(ctx, ticket.CustomerID); err != nil {
		return nil, err
	}

	if ticket.Status == models.StatusCompleted {
		completedAt := time.Now().UTC()
		ticket.CompletedAt = &completedAt
	}

	if err := s.repo.CreateTicket(ctx, ticket); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("ticket_id", ticket.ID).Int64("customer_id", ticket.CustomerID).Msg("ticket created")
	return ticket, nil
}

func (s *TicketService) Get(ctx context.Context, id int64) (*TicketDetail, error) {
	ticket, err := s.repo.GetTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	mechanicIDs, err := s.repo.TicketMechanicIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	partIDs, err := s.repo.TicketPartIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	return &TicketDetail{ServiceTicket: *ticket, MechanicIDs: mechanicIDs, PartIDs: partIDs}, nil
}

func (s *TicketService) List(ctx context.Context, offset, limit int) ([]models.ServiceTicket, error) {
	return s.repo.ListTickets(ctx, offset, limit)
}

func (s *TicketService) Update(ctx context.Context, id int64, in TicketInput) (*models.ServiceTicket, error) {
	ticket, err := s.repo.GetTicket(ctx, id)
	if err != nil {
		return nil, err
	}

	previousStatus := ticket.Status
	applyTicketInput(ticket, in)

	var verr ValidationErrors
	validateTicketFields(&verr, ticket)
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	if in.CustomerID != nil && *in.CustomerID != 0 {
		if _, err := s.repo.GetCustomer(ctx, ticket.CustomerID); err != nil {
			return nil, err
		}
	}

	if in.Status != nil && ticket.Status != previousStatus {
		newStatus := ticket.Status
		ticket.Status = previousStatus
		applyStatus(ticket, newStatus, time.Now().UTC())
	}

	if err := s.repo.UpdateTicket(ctx, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

func (s *TicketService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeleteTicket(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("ticket_id", id).Msg("ticket deleted")
	return nil
}

// AssignMechanic attaches a mechanic to a ticket. Re-assigning an
// already-assigned mechanic is a conflict. The first assignment moves an
// Open ticket to In Progress.
func (s *TicketService) AssignMechanic(ctx context.Context, ticketID, mechanicID int64) error {
	ticket, err := s.repo.GetTicket(ctx, ticketID)
	if err != nil {
		return err
	}
	if _, err := s.repo.GetMechanic(ctx, mechanicID); err != nil {
		return err
	}

	if err := s.repo.AssignMechanic(ctx, ticketID, mechanicID); err != nil {
		return err
	}

	if ticket.Status == models.StatusOpen {
		applyStatus(ticket, models.StatusInProgress, time.Now().UTC())
		if err := s.repo.UpdateTicket(ctx, ticket); err != nil {
			return err
		}
	}

	s.logger.Info().Int64("ticket_id", ticketID).Int64("mechanic_id", mechanicID).Msg("mechanic assigned")
	return nil
}

// RemoveMechanic detaches a mechanic; removing one that is not assigned
// is a conflict.
func (s *TicketService) RemoveMechanic(ctx context.Context, ticketID, mechanicID int64) error {
	if _, err := s.repo.GetTicket(ctx, ticketID); err != nil {
		return err
	}
	if _, err := s.repo.GetMechanic(ctx, mechanicID); err != nil {
		return err
	}
	if err := s.repo.RemoveMechanic(ctx, ticketID, mechanicID); err != nil {
		return err
	}
	s.logger.Info().Int64("ticket_id", ticketID).Int64("mechanic_id", mechanicID).Msg("mechanic removed")
	return nil
}

func (s *TicketService) AddPart(ctx context.Context, ticketID, inventoryID int64) error {
	if _, err := s.repo.GetTicket(ctx, ticketID); err != nil {
		return err
	}
	if _, err := s.repo.GetInventoryItem(ctx, inventoryID); err != nil {
		return err
	}
	if err := s.repo.AddPart(ctx, ticketID, inventoryID); err != nil {
		return err
	}
	s.logger.Info().Int64("ticket_id", ticketID).Int64("inventory_id", inventoryID).Msg("part added")
	return nil
}

func (s *TicketService) RemovePart(ctx context.Context, ticketID, inventoryID int64) error {
	if _, err := s.repo.GetTicket(ctx, ticketID); err != nil {
		return err
	}
	if _, err := s.repo.GetInventoryItem(ctx, inventoryID); err != nil {
		return err
	}
	if err := s.repo.RemovePart(ctx, ticketID, inventoryID); err != nil {
		return err
	}
	s.logger.Info().Int64("ticket_id", ticketID).Int64("inventory_id", inventoryID).Msg("part removed")
	return nil
}

// BulkEditMechanics applies the add and remove lists independently,
// committing the valid subset and collecting a warning per id that
// refers to a missing mechanic or an already-consistent edge.
func (s *TicketService) BulkEditMechanics(ctx context.Context, ticketID int64, addIDs, removeIDs []int64) (*BulkEditResult, error) {
	ticket, err := s.repo.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	result := &BulkEditResult{}

	for _, id := range addIDs {
		if _, err := s.repo.GetMechanic(ctx, id); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				result.Warnings = append(result.Warnings, fmt.Sprintf("mechanic %d not found", id))
				continue
			}
			return nil, err
		}
		err := s.repo.AssignMechanic(ctx, ticketID, id)
		if errors.Is(err, database.ErrAlreadyAssigned) {
			result.Warnings = append(result.Warnings, fmt.Sprintf("mechanic %d already assigned", id))
			continue
		}
		if err != nil {
			return nil, err
		}
		result.Added = append(result.Added, id)
	}

	for _, id := range removeIDs {
		if _, err := s.repo.GetMechanic(ctx, id); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				result.Warnings = append(result.Warnings, fmt.Sprintf("mechanic %d not found", id))
				continue
			}
			return nil, err
		}
		err := s.repo.RemoveMechanic(ctx, ticketID, id)
		if errors.Is(err, database.ErrNotAssigned) {
			result.Warnings = append(result.Warnings, fmt.Sprintf("mechanic %d not assigned", id))
			continue
		}
		if err != nil {
			return nil, err
		}
		result.Removed = append(result.Removed, id)
	}

	if len(result.Added) > 0 && ticket.Status == models.StatusOpen {
		applyStatus(ticket, models.StatusInProgress, time.Now().UTC())
		if err := s.repo.UpdateTicket(ctx, ticket); err != nil {
			return nil, err
		}
	}

	s.logger.Info().
		Int64("ticket_id", ticketID).
		Int("added", len(result.Added)).
		Int("removed", len(result.Removed)).
		Int("warnings", len(result.Warnings)).
		Msg("bulk mechanic edit applied")
	return result, nil
}

func (s *TicketService) TicketsByCustomer(ctx context.Context, customerID int64) ([]models.ServiceTicket, error) {
	if _, err := s.repo.GetCustomer(ctx, customerID); err != nil {
		return nil, err
	}
	return s.repo.ListTicketsByCustomer(ctx, customerID)
}

func (s *TicketService) TicketsByMechanic(ctx context.Context, mechanicID int64) ([]models.ServiceTicket, error) {
	if _, err := s.repo.GetMechanic(ctx, mechanicID); err != nil {
		return nil, err
	}
	return s.repo.ListTicketsByMechanic(ctx, mechanicID)
}
