package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rasreserve/autoshop-api/internal/model"
)

// All repository interfaces in one file
type (
	// AppointmentRepository persists appointments and answers slot occupancy.
	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, appointment *model.Appointment) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.AppointmentFilters, page model.Pagination) ([]*model.Appointment, int, error)
		// SlotTaken reports whether a slot-holding appointment other than
		// excludeID already occupies (categoryID, t).
		SlotTaken(ctx context.Context, categoryID uuid.UUID, t time.Time, excludeID *uuid.UUID) (bool, error)
	}

	StockRepository interface {
		Create(ctx context.Context, stock *model.Stock) error
		Get(ctx context.Context, id uuid.UUID) (*model.Stock, error)
		// Update persists item fields; the quantity column is written as-is,
		// so callers that change quantity must pass the history entry they
		// synthesized for the delta.
		Update(ctx context.Context, stock *model.Stock, entry *model.StockHistoryEntry) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.StockFilters, page model.Pagination) ([]*model.Stock, int, error)
		// ApplyChange atomically appends a history entry and increments the
		// quantity by the signed change in one transaction.
		ApplyChange(ctx context.Context, id uuid.UUID, signedChange float64, entry *model.StockHistoryEntry) (*model.Stock, error)
		ListItems(ctx context.Context) ([]*model.Stock, error)
		ListHistory(ctx context.Context, from, to time.Time) ([]*model.StockHistoryEntry, error)
		ListHistoryByOperation(ctx context.Context, op model.StockOperation, from, to time.Time) ([]*model.StockHistoryEntry, error)
	}

	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
	}

	ServiceRepository interface {
		GetCategory(ctx context.Context, id uuid.UUID) (*model.ServiceCategory, error)
		GetService(ctx context.Context, id uuid.UUID) (*model.Service, error)
		ListCategories(ctx context.Context) ([]*model.ServiceCategory, error)
		ListServices(ctx context.Context, categoryID uuid.UUID) ([]*model.Service, error)
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errMsg *string) error
	}
)
