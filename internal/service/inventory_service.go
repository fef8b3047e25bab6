package service

import (
	"context"

	"mechshop/internal/domain"
	"mechshop/internal/models"

	"github.com/rs/zerolog"
)

type InventoryService struct {
	repo   domain.Repository
	logger *zerolog.Logger
}

func NewInventoryService(repo domain.Repository, logger *zerolog.Logger) *InventoryService {
	return &InventoryService{repo: repo, logger: logger}
}

type InventoryInput struct {
	Name  *string  `json:"name"`
	Price *float64 `json:"price"`
}

func validateInventoryFields(verr *ValidationErrors, item *models.InventoryItem) {
	if item.Name == "" || len(item.Name) > 100 {
		verr.add("name", "must be between 1 and 100 characters")
	}
	if item.Price < 0 {
		verr.add("price", "must not be negative")
	}
}

func (s *InventoryService) Create(ctx context.Context, in InventoryInput) (*models.InventoryItem, error) {
	item := &models.InventoryItem{Name: trimmed(in.Name)}
	if in.Price != nil {
		item.Price = *in.Price
	}

	var verr ValidationErrors
	if in.Price == nil {
		verr.add("price", "is required")
	}
	validateInventoryFields(&verr, item)
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	if err := s.repo.CreateInventoryItem(ctx, item); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("inventory_id", item.ID).Msg("inventory item created")
	return item, nil
}

func (s *InventoryService) Get(ctx context.Context, id int64) (*models.InventoryItem, error) {
	return s.repo.GetInventoryItem(ctx, id)
}

func (s *InventoryService) List(ctx context.Context, offset, limit int) ([]models.InventoryItem, error) {
	return s.repo.ListInventoryItems(ctx, offset, limit)
}

func (s *InventoryService) Update(ctx context.Context, id int64, in InventoryInput) (*models.InventoryItem, error) {
	item, err := s.repo.GetInventoryItem(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		item.Name = trimmed(in.Name)
	}
	if in.Price != nil {
		item.Price = *in.Price
	}

	var verr ValidationErrors
	validateInventoryFields(&verr, item)
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateInventoryItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *InventoryService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeleteInventoryItem(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("inventory_id", id).Msg("inventory item deleted")
	return nil
}
