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

type MechanicService struct {
	repo   domain.Repository
	logger *zerolog.Logger
}

func NewMechanicService(repo domain.Repository, logger *zerolog.Logger) *MechanicService {
	return &MechanicService{repo: repo, logger: logger}
}

type MechanicInput struct {
	FirstName  *string  `json:"first_name"`
	LastName   *string  `json:"last_name"`
	Email      *string  `json:"email"`
	Phone      *string  `json:"phone"`
	Specialty  *string  `json:"specialty"`
	HourlyRate *float64 `json:"hourly_rate"`
	HireDate   *string  `json:"hire_date"`
}

// DeleteConflictError reports which tickets block a mechanic delete.
type DeleteConflictError struct {
	TicketIDs []int64
}

func (e *DeleteConflictError) Error() string {
	return fmt.Sprintf("mechanic is assigned to tickets %v", e.TicketIDs)
}

func (e *DeleteConflictError) Unwrap() error {
	return database.ErrMechanicAssigned
}

const hireDateLayout = "2006-01-02"

func validateMechanicFields(verr *ValidationErrors, m *models.Mechanic) {
	if m.FirstName == "" || len(m.FirstName) > 50 {
		verr.add("first_name", "must be between 1 and 50 characters")
	}
	if m.LastName == "" || len(m.LastName) > 50 {
		verr.add("last_name", "must be between 1 and 50 characters")
	}
	if !validEmail(m.Email) {
		verr.add("email", "must be a valid email address")
	}
	if len(m.Phone) > 20 {
		verr.add("phone", "must be at most 20 characters")
	}
	if len(m.Specialty) > 100 {
		verr.add("specialty", "must be at most 100 characters")
	}
	if m.HourlyRate != nil && *m.HourlyRate < 0 {
		verr.add("hourly_rate", "must not be negative")
	}
}

func applyMechanicInput(verr *ValidationErrors, m *models.Mechanic, in MechanicInput) {
	if in.FirstName != nil {
		m.FirstName = trimmed(in.FirstName)
	}
	if in.LastName != nil {
		m.LastName = trimmed(in.LastName)
	}
	if in.Email != nil {
		m.Email = trimmed(in.Email)
	}
	if in.Phone != nil {
		m.Phone = trimmed(in.Phone)
	}
	if in.Specialty != nil {
		m.Specialty = trimmed(in.Specialty)
	}
	if in.HourlyRate != nil {
		m.HourlyRate = in.HourlyRate
	}
	if in.HireDate != nil {
		parsed, err := time.Parse(hireDateLayout, trimmed(in.HireDate))
		if err != nil {
			verr.add("hire_date", "must be a date in YYYY-MM-DD format")
		} else {
			m.HireDate = &parsed
		}
	}
}

func (s *MechanicService) Create(ctx context.Context, in MechanicInput) (*models.Mechanic, error) {
	var mechanic models.Mechanic
	var verr ValidationErrors
	applyMechanicInput(&verr, &mechanic, in)
	validateMechanicFields(&verr, &mechanic)
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	if err := s.repo.CreateMechanic(ctx, &mechanic); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("mechanic_id", mechanic.ID).Msg("mechanic created")
	return &mechanic, nil
}

func (s *MechanicService) Get(ctx context.Context, id int64) (*models.Mechanic, error) {
	return s.repo.GetMechanic(ctx, id)
}

func (s *MechanicService) List(ctx context.Context, offset, limit int) ([]models.Mechanic, error) {
	return s.repo.ListMechanics(ctx, offset, limit)
}

// ByWorkload returns all mechanics ordered by descending ticket count.
func (s *MechanicService) ByWorkload(ctx context.Context) ([]models.MechanicWorkload, error) {
	return s.repo.ListMechanicsByWorkload(ctx)
}

func (s *MechanicService) Update(ctx context.Context, id int64, in MechanicInput) (*models.Mechanic, error) {
	mechanic, err := s.repo.GetMechanic(ctx, id)
	if err != nil {
		return nil, err
	}

	var verr ValidationErrors
	applyMechanicInput(&verr, mechanic, in)
	validateMechanicFields(&verr, mechanic)
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateMechanic(ctx, mechanic); err != nil {
		return nil, err
	}
	return mechanic, nil
}

// Delete removes a mechanic; when assignments block the delete the
// returned error lists the blocking tickets.
func (s *MechanicService) Delete(ctx context.Context, id int64) error {
	err := s.repo.DeleteMechanic(ctx, id)
	if errors.Is(err, database.ErrMechanicAssigned) {
		ticketIDs, idsErr := s.repo.AssignedTicketIDs(ctx, id)
		if idsErr != nil {
			return err
		}
		return &DeleteConflictError{TicketIDs: ticketIDs}
	}
	if err != nil {
		return err
	}
	s.logger.Info().Int64("mechanic_id", id).Msg("mechanic deleted")
	return nil
}
