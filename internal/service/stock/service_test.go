package stock

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rasreserve/autoshop-api/internal/config"
	"github.com/rasreserve/autoshop-api/internal/model"
	apperrors "github.com/rasreserve/autoshop-api/pkg/errors"
)

type fakeStockRepo struct {
	items   map[uuid.UUID]*model.Stock
	history []*model.StockHistoryEntry
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{items: make(map[uuid.UUID]*model.Stock)}
}

func (r *fakeStockRepo) Create(_ context.Context, stock *model.Stock) error {
	clone := *stock
	r.items[stock.ID] = &clone
	return nil
}

func (r *fakeStockRepo) Get(_ context.Context, id uuid.UUID) (*model.Stock, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, apperrors.NotFound("stock item", nil)
	}
	clone := *item
	clone.History = r.historyFor(id)
	return &clone, nil
}

func (r *fakeStockRepo) Update(_ context.Context, stock *model.Stock, entry *model.StockHistoryEntry) error {
	if _, ok := r.items[stock.ID]; !ok {
		return apperrors.NotFound("stock item", nil)
	}
	if entry != nil {
		r.history = append(r.history, entry)
	}
	clone := *stock
	clone.History = nil
	r.items[stock.ID] = &clone
	return nil
}

func (r *fakeStockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.items[id]; !ok {
		return apperrors.NotFound("stock item", nil)
	}
	delete(r.items, id)
	kept := r.history[:0]
	for _, e := range r.history {
		if e.StockID != id {
			kept = append(kept, e)
		}
	}
	r.history = kept
	return nil
}

func (r *fakeStockRepo) List(_ context.Context, _ *model.StockFilters, _ model.Pagination) ([]*model.Stock, int, error) {
	items, _ := r.ListItems(context.Background())
	return items, len(items), nil
}

func (r *fakeStockRepo) ApplyChange(_ context.Context, id uuid.UUID, signedChange float64, entry *model.StockHistoryEntry) (*model.Stock, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, apperrors.NotFound("stock item", nil)
	}
	item.Quantity += signedChange
	r.history = append(r.history, entry)
	clone := *item
	clone.History = r.historyFor(id)
	return &clone, nil
}

func (r *fakeStockRepo) ListItems(_ context.Context) ([]*model.Stock, error) {
	items := make([]*model.Stock, 0, len(r.items))
	for _, item := range r.items {
		clone := *item
		items = append(items, &clone)
	}
	return items, nil
}

func (r *fakeStockRepo) ListHistory(_ context.Context, from, to time.Time) ([]*model.StockHistoryEntry, error) {
	var entries []*model.StockHistoryEntry
	for _, e := range r.history {
		if !e.CreatedAt.Before(from) && !e.CreatedAt.After(to) {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func (r *fakeStockRepo) ListHistoryByOperation(_ context.Context, op model.StockOperation, from, to time.Time) ([]*model.StockHistoryEntry, error) {
	entries, _ := r.ListHistory(context.Background(), from, to)
	var filtered []*model.StockHistoryEntry
	for _, e := range entries {
		if e.Operation == op {
			filtered = append(filtered, e)
		}
	}
	return filtered, nil
}

func (r *fakeStockRepo) historyFor(id uuid.UUID) []*model.StockHistoryEntry {
	var entries []*model.StockHistoryEntry
	for _, e := range r.history {
		if e.StockID == id {
			entries = append(entries, e)
		}
	}
	return entries
}

func testShopConfig() config.ShopConfig {
	return config.ShopConfig{
		TimezoneOffsetHours: 8,
		LowStockThreshold:   5,
		ForecastWindowDays:  30,
	}
}

func setupStockService(t *testing.T) (*Service, *fakeStockRepo) {
	t.Helper()
	repo := newFakeStockRepo()
	return NewService(repo, testShopConfig()), repo
}

func TestCreateStockEmitsNoHistory(t *testing.T) {
	svc, repo := setupStockService(t)

	item, err := svc.Create(context.Background(), &model.CreateStockRequest{
		Type:     "Castrol GTX 10W-40",
		Category: model.StockCategoryEngineOil,
		Price:    450,
		Quantity: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, 20.0, item.Quantity)
	assert.Empty(t, item.History)
	assert.Empty(t, repo.history)
}

func TestCreateStockInvalidCategory(t *testing.T) {
	svc, _ := setupStockService(t)

	_, err := svc.Create(context.Background(), &model.CreateStockRequest{
		Type:     "Mystery Part",
		Category: "Flux Capacitor",
		Price:    100,
		Quantity: 1,
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))
}

func TestRecordChangeRestock(t *testing.T) {
	svc, _ := setupStockService(t)
	ctx := context.Background()

	item, err := svc.Create(ctx, &model.CreateStockRequest{
		Type:     "NGK Spark Plug",
		Category: model.StockCategorySparkPlug,
		Price:    250,
		Quantity: 10,
	})
	require.NoError(t, err)

	updated, err := svc.RecordChange(ctx, item.ID, 5, model.StockOperationRestock)
	require.NoError(t, err)
	assert.Equal(t, 15.0, updated.Quantity)
	require.Len(t, updated.History, 1)

	entry := updated.History[0]
	assert.Equal(t, 5.0, entry.Change)
	assert.Equal(t, model.StockOperationRestock, entry.Operation)
	assert.Equal(t, "NGK Spark Plug", entry.Type)
	assert.Equal(t, 250.0, entry.Price)
}

func TestRecordChangeUsageCanGoNegative(t *testing.T) {
	svc, _ := setupStockService(t)
	ctx := context.Background()

	item, err := svc.Create(ctx, &model.CreateStockRequest{
		Type:     "Brake Pads",
		Category: model.StockCategoryBrake,
		Price:    1200,
		Quantity: 2,
	})
	require.NoError(t, err)

	// Usage beyond stock is recorded, not blocked.
	updated, err := svc.RecordChange(ctx, item.ID, 5, model.StockOperationUsage)
	require.NoError(t, err)
	assert.Equal(t, -3.0, updated.Quantity)
}

func TestRecordChangeValidation(t *testing.T) {
	svc, _ := setupStockService(t)
	ctx := context.Background()

	item, err := svc.Create(ctx, &model.CreateStockRequest{
		Type:     "Timing Belt",
		Category: model.StockCategoryTimingBelt,
		Price:    800,
		Quantity: 4,
	})
	require.NoError(t, err)

	_, err = svc.RecordChange(ctx, item.ID, -1, model.StockOperationRestock)
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))

	_, err = svc.RecordChange(ctx, item.ID, 1, "teleport")
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))
}

func TestLedgerConservation(t *testing.T) {
	svc, repo := setupStockService(t)
	ctx := context.Background()

	item, err := svc.Create(ctx, &model.CreateStockRequest{
		Type:     "Car Battery 12V",
		Category: model.StockCategoryBattery,
		Price:    3500,
		Quantity: 8,
	})
	require.NoError(t, err)

	changes := []struct {
		magnitude float64
		op        model.StockOperation
	}{
		{10, model.StockOperationRestock},
		{3, model.StockOperationUsage},
		{2, model.StockOperationUsage},
		{6, model.StockOperationRestock},
	}
	for _, ch := range changes {
		_, err := svc.RecordChange(ctx, item.ID, ch.magnitude, ch.op)
		require.NoError(t, err)
	}

	final, err := svc.Get(ctx, item.ID)
	require.NoError(t, err)

	// The quantity is the seed plus the fold of the ledger.
	folded := 8.0
	for _, e := range repo.history {
		folded += e.Operation.SignedChange(e.Change)
	}
	assert.Equal(t, folded, final.Quantity)
	assert.Equal(t, 19.0, final.Quantity)
	assert.Len(t, final.History, len(changes))
}

func TestUpdateQuantitySynthesizesHistory(t *testing.T) {
	svc, repo := setupStockService(t)
	ctx := context.Background()

	item, err := svc.Create(ctx, &model.CreateStockRequest{
		Type:     "Clutch Kit",
		Category: model.StockCategoryClutch,
		Price:    5000,
		Quantity: 6,
	})
	require.NoError(t, err)

	newQty := 2.0
	newPrice := 5500.0
	updated, err := svc.Update(ctx, item.ID, &model.UpdateStockRequest{
		Quantity: &newQty,
		Price:    &newPrice,
	})
	require.NoError(t, err)
	assert.Equal(t, 2.0, updated.Quantity)
	assert.Equal(t, 5500.0, updated.Price)

	require.Len(t, repo.history, 1)
	entry := repo.history[0]
	assert.Equal(t, model.StockOperationUsage, entry.Operation)
	assert.Equal(t, 4.0, entry.Change)
	// The entry snapshots the item before the patch.
	assert.Equal(t, 5000.0, entry.Price)
}

func TestUpdateQuantityIncreaseIsRestock(t *testing.T) {
	svc, repo := setupStockService(t)
	ctx := context.Background()

	item, err := svc.Create(ctx, &model.CreateStockRequest{
		Type:     "All-Season Tire",
		Category: model.StockCategoryTireRotation,
		Price:    2800,
		Quantity: 4,
	})
	require.NoError(t, err)

	newQty := 12.0
	_, err = svc.Update(ctx, item.ID, &model.UpdateStockRequest{Quantity: &newQty})
	require.NoError(t, err)

	require.Len(t, repo.history, 1)
	assert.Equal(t, model.StockOperationRestock, repo.history[0].Operation)
	assert.Equal(t, 8.0, repo.history[0].Change)
}

func TestUpdateWithoutQuantityChangeAddsNothing(t *testing.T) {
	svc, repo := setupStockService(t)
	ctx := context.Background()

	item, err := svc.Create(ctx, &model.CreateStockRequest{
		Type:     "Shell Helix 5W-30",
		Category: model.StockCategoryEngineOil,
		Price:    520,
		Quantity: 9,
	})
	require.NoError(t, err)

	sameQty := 9.0
	newType := "Shell Helix Ultra 5W-30"
	_, err = svc.Update(ctx, item.ID, &model.UpdateStockRequest{
		Quantity: &sameQty,
		Type:     &newType,
	})
	require.NoError(t, err)
	assert.Empty(t, repo.history)
}

func TestDeleteStockRemovesHistory(t *testing.T) {
	svc, repo := setupStockService(t)
	ctx := context.Background()

	item, err := svc.Create(ctx, &model.CreateStockRequest{
		Type:     "Brake Fluid DOT4",
		Category: model.StockCategoryBrake,
		Price:    300,
		Quantity: 15,
	})
	require.NoError(t, err)
	_, err = svc.RecordChange(ctx, item.ID, 5, model.StockOperationUsage)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, item.ID))
	_, err = svc.Get(ctx, item.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
	assert.Empty(t, repo.history)
}

func TestHistoryEntryUsesShopLocalOffset(t *testing.T) {
	repo := newFakeStockRepo()
	svc := NewService(repo, testShopConfig())

	fixed := time.Date(2026, 3, 10, 2, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	item, err := svc.Create(context.Background(), &model.CreateStockRequest{
		Type:     "Motul 7100",
		Category: model.StockCategoryEngineOil,
		Price:    700,
		Quantity: 3,
	})
	require.NoError(t, err)

	_, err = svc.RecordChange(context.Background(), item.ID, 1, model.StockOperationUsage)
	require.NoError(t, err)

	require.Len(t, repo.history, 1)
	entry := repo.history[0]
	_, offset := entry.CreatedAt.Zone()
	assert.Equal(t, 8*3600, offset)
	assert.True(t, entry.CreatedAt.Equal(fixed))
}
