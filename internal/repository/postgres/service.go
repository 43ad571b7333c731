package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/rasreserve/autoshop-api/internal/model"
	apperrors "github.com/rasreserve/autoshop-api/pkg/errors"
)

func (r *serviceRepository) GetCategory(ctx context.Context, id uuid.UUID) (*model.ServiceCategory, error) {
	var category model.ServiceCategory
	query := `SELECT id, name, description, created_at, updated_at FROM service_categories WHERE id = $1`
	if err := r.db.GetContext(ctx, &category, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFound("service category", err)
		}
		return nil, fmt.Errorf("failed to get service category: %w", err)
	}
	return &category, nil
}

func (r *serviceRepository) GetService(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	var service model.Service
	query := `SELECT id, category_id, name, description, price, created_at, updated_at FROM services WHERE id = $1`
	if err := r.db.GetContext(ctx, &service, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFound("service", err)
		}
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return &service, nil
}

func (r *serviceRepository) ListCategories(ctx context.Context) ([]*model.ServiceCategory, error) {
	var categories []*model.ServiceCategory
	query := `SELECT id, name, description, created_at, updated_at FROM service_categories ORDER BY name ASC`
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("failed to list service categories: %w", err)
	}
	return categories, nil
}

func (r *serviceRepository) ListServices(ctx context.Context, categoryID uuid.UUID) ([]*model.Service, error) {
	var services []*model.Service
	query := `SELECT id, category_id, name, description, price, created_at, updated_at FROM services WHERE category_id = $1 ORDER BY name ASC`
	if err := r.db.SelectContext(ctx, &services, query, categoryID); err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return services, nil
}
