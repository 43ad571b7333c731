package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/rasreserve/autoshop-api/internal/model"
	"github.com/rasreserve/autoshop-api/internal/repository"
)

// Service exposes the read-only service catalog that appointments refer to.
type Service struct {
	repo repository.ServiceRepository
}

func NewService(repo repository.ServiceRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetCategory(ctx context.Context, id uuid.UUID) (*model.ServiceCategory, error) {
	return s.repo.GetCategory(ctx, id)
}

func (s *Service) GetService(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	return s.repo.GetService(ctx, id)
}

func (s *Service) ListCategories(ctx context.Context) ([]*model.ServiceCategory, error) {
	return s.repo.ListCategories(ctx)
}

func (s *Service) ListServices(ctx context.Context, categoryID uuid.UUID) ([]*model.Service, error) {
	return s.repo.ListServices(ctx, categoryID)
}
