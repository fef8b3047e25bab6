package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"mechshop/internal/auth"
	"mechshop/internal/database"
	"mechshop/internal/domain"
	"mechshop/internal/models"

	"github.com/rs/zerolog"
)

type CustomerService struct {
	repo      domain.Repository
	jwtSecret string
	tokenTTL  time.Duration
	logger    *zerolog.Logger
}

func NewCustomerService(repo domain.Repository, jwtSecret string, tokenTTL time.Duration, logger *zerolog.Logger) *CustomerService {
	if tokenTTL <= 0 {
		tokenTTL = models.DefaultTokenTTLHours * time.Hour
	}
	return &CustomerService{
		repo:      repo,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

type CustomerInput struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
	Password  *string `json:"password"`
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

func validateCustomerFields(verr *ValidationErrors, c *models.Customer) {
	if c.FirstName == "" || len(c.FirstName) > 50 {
		verr.add("first_name", "must be between 1 and 50 characters")
	}
	if c.LastName == "" || len(c.LastName) > 50 {
		verr.add("last_name", "must be between 1 and 50 characters")
	}
	if !validEmail(c.Email) {
		verr.add("email", "must be a valid email address")
	}
	if len(c.Phone) > 20 {
		verr.add("phone", "must be at most 20 characters")
	}
	if len(c.Address) > 200 {
		verr.add("address", "must be at most 200 characters")
	}
}

func (s *CustomerService) Create(ctx context.Context, in CustomerInput) (*models.Customer, error) {
	customer := &models.Customer{
		FirstName: trimmed(in.FirstName),
		LastName:  trimmed(in.LastName),
		Email:     trimmed(in.Email),
		Phone:     trimmed(in.Phone),
		Address:   trimmed(in.Address),
	}

	var verr ValidationErrors
	validateCustomerFields(&verr, customer)
	password := trimmed(in.Password)
	if len(password) < 6 {
		verr.add("password", "must be at least 6 characters")
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	customer.PasswordHash = hash

	if err := s.repo.CreateCustomer(ctx, customer); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("customer_id", customer.ID).Msg("customer created")
	return customer, nil
}

func (s *CustomerService) Get(ctx context.Context, id int64) (*models.Customer, error) {
	return s.repo.GetCustomer(ctx, id)
}

func (s *CustomerService) List(ctx context.Context, offset, limit int) ([]models.Customer, error) {
	return s.repo.ListCustomers(ctx, offset, limit)
}

// Update merges the provided fields into the stored record and
// re-validates before persisting.
func (s *CustomerService) Update(ctx context.Context, id int64, in CustomerInput) (*models.Customer, error) {
	customer, err := s.repo.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.FirstName != nil {
		customer.FirstName = trimmed(in.FirstName)
	}
	if in.LastName != nil {
		customer.LastName = trimmed(in.LastName)
	}
	if in.Email != nil {
		customer.Email = trimmed(in.Email)
	}
	if in.Phone != nil {
		customer.Phone = trimmed(in.Phone)
	}
	if in.Address != nil {
		customer.Address = trimmed(in.Address)
	}

	var verr ValidationErrors
	validateCustomerFields(&verr, customer)
	if in.Password != nil {
		password := trimmed(in.Password)
		if len(password) < 6 {
			verr.add("password", "must be at least 6 characters")
		} else {
			hash, err := auth.HashPassword(password)
			if err != nil {
				return nil, err
			}
			customer.PasswordHash = hash
		}
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateCustomer(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *CustomerService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeleteCustomer(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("customer_id", id).Msg("customer deleted")
	return nil
}

// Login verifies credentials and issues a bearer token with the
// customer id as subject.
func (s *CustomerService) Login(ctx context.Context, email, password string) (string, int64, error) {
	customer, err := s.repo.GetCustomerByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return "", 0, ErrInvalidCredentials
		}
		return "", 0, err
	}

	if !auth.CheckPassword(customer.PasswordHash, password) {
		return "", 0, ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(s.jwtSecret, customer.ID, s.tokenTTL)
	if err != nil {
		return "", 0, err
	}
	return token, customer.ID, nil
}

// MyTickets lists the tickets owned by the authenticated customer.
func (s *CustomerService) MyTickets(ctx context.Context, customerID int64) ([]models.ServiceTicket, error) {
	if _, err := s.repo.GetCustomer(ctx, customerID); err != nil {
		return nil, err
	}
	return s.repo.ListTicketsByCustomer(ctx, customerID)
}
