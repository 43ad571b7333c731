package stock

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/rasreserve/autoshop-api/internal/config"
	"github.com/rasreserve/autoshop-api/internal/model"
	"github.com/rasreserve/autoshop-api/internal/repository"
	apperrors "github.com/rasreserve/autoshop-api/pkg/errors"
)

// Service owns stock items and their append-only change ledger. The item
// quantity is always the fold of its history: every quantity mutation goes
// through the repository as one atomic append-and-increment.
type Service struct {
	repo repository.StockRepository
	cfg  config.ShopConfig
	loc  *time.Location

	now func() time.Time
}

func NewService(repo repository.StockRepository, cfg config.ShopConfig) *Service {
	return &Service{
		repo: repo,
		cfg:  cfg,
		loc:  cfg.Location(),
		now:  time.Now,
	}
}

// Create establishes an item with its seed quantity. Creation does not emit
// a history entry; the ledger records changes, not initial state.
func (s *Service) Create(ctx context.Context, req *model.CreateStockRequest) (*model.Stock, error) {
	if !req.Category.IsValid() {
		return nil, apperrors.BadRequest("invalid stock category", nil)
	}

	now := s.now()
	item := &model.Stock{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Type:     req.Type,
		Category: req.Category,
		Price:    req.Price,
		Quantity: req.Quantity,
		History:  []*model.StockHistoryEntry{},
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Stock, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filters *model.StockFilters, page model.Pagination) ([]*model.Stock, int, error) {
	return s.repo.List(ctx, filters, page)
}

// RecordChange applies a restock or usage of the given magnitude. Quantity
// is not clamped: usage beyond stock drives it negative, which is surfaced
// as an anomaly in analytics rather than blocked here.
func (s *Service) RecordChange(ctx context.Context, id uuid.UUID, magnitude float64, op model.StockOperation) (*model.Stock, error) {
	if magnitude < 0 {
		return nil, apperrors.BadRequest("change must be non-negative", nil)
	}
	if !op.IsValid() {
		return nil, apperrors.BadRequest("invalid stock operation", nil)
	}

	item, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	entry := s.newHistoryEntry(item, magnitude, op)
	return s.repo.ApplyChange(ctx, id, op.SignedChange(magnitude), entry)
}

// Update applies a field patch. A quantity change is indistinguishable from
// an explicit RecordChange after the fact: the delta is written to the
// ledger before the rest of the patch is applied, so the entry snapshots the
// pre-patch type, category and price.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateStockRequest) (*model.Stock, error) {
	item, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var entry *model.StockHistoryEntry
	if req.Quantity != nil && *req.Quantity != item.Quantity {
		delta := *req.Quantity - item.Quantity
		op := model.StockOperationRestock
		if delta < 0 {
			op = model.StockOperationUsage
		}
		entry = s.newHistoryEntry(item, math.Abs(delta), op)
		item.Quantity = *req.Quantity
	}

	if req.Type != nil {
		item.Type = *req.Type
	}
	if req.Category != nil {
		if !req.Category.IsValid() {
			return nil, apperrors.BadRequest("invalid stock category", nil)
		}
		item.Category = *req.Category
	}
	if req.Price != nil {
		item.Price = *req.Price
	}

	if err := s.repo.Update(ctx, item, entry); err != nil {
		return nil, err
	}
	if entry != nil {
		item.History = append(item.History, entry)
	}
	return item, nil
}

// Delete removes the item and its entire history irrecoverably.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) newHistoryEntry(item *model.Stock, magnitude float64, op model.StockOperation) *model.StockHistoryEntry {
	return &model.StockHistoryEntry{
		ID:        uuid.New(),
		StockID:   item.ID,
		Type:      item.Type,
		Category:  item.Category,
		Price:     item.Price,
		Change:    magnitude,
		Operation: op,
		// Recorded in the shop-local offset, not the ambient process zone.
		CreatedAt: s.now().In(s.loc),
	}
}
