package stock

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rasreserve/autoshop-api/internal/model"
)

func seedItem(t *testing.T, svc *Service, itemType string, category model.StockCategory, price, quantity float64) *model.Stock {
	t.Helper()
	item, err := svc.Create(context.Background(), &model.CreateStockRequest{
		Type:     itemType,
		Category: category,
		Price:    price,
		Quantity: quantity,
	})
	require.NoError(t, err)
	return item
}

func TestAnalyticsRollups(t *testing.T) {
	svc, _ := setupStockService(t)
	ctx := context.Background()

	seedItem(t, svc, "Castrol GTX", model.StockCategoryEngineOil, 400, 10)
	seedItem(t, svc, "Shell Helix", model.StockCategoryEngineOil, 600, 2)
	seedItem(t, svc, "Brake Pads", model.StockCategoryBrake, 1200, 8)

	analytics, err := svc.Analytics(ctx)
	require.NoError(t, err)

	require.Len(t, analytics.ByCategory, 2)
	// Categories come back sorted by name; Brake precedes Engine Oil.
	brake := analytics.ByCategory[0]
	oil := analytics.ByCategory[1]

	assert.Equal(t, model.StockCategoryBrake, brake.Category)
	assert.Equal(t, 1, brake.TotalItems)
	assert.Equal(t, 9600.0, brake.TotalValue)

	assert.Equal(t, model.StockCategoryEngineOil, oil.Category)
	assert.Equal(t, 2, oil.TotalItems)
	assert.Equal(t, 400.0*10+600.0*2, oil.TotalValue)
	assert.Equal(t, 500.0, oil.AveragePrice)
	assert.Equal(t, 1, oil.LowStockItems)

	assert.Equal(t, 3, analytics.Overall.TotalItems)
	assert.Equal(t, 9600.0+5200.0, analytics.Overall.TotalValue)
	assert.Equal(t, 1, analytics.Overall.LowStockItems)
}

func TestAnalyticsLowStockBoundary(t *testing.T) {
	svc, _ := setupStockService(t)
	ctx := context.Background()

	atThreshold := seedItem(t, svc, "At Threshold", model.StockCategoryBattery, 100, 5)
	seedItem(t, svc, "Above Threshold", model.StockCategoryBattery, 100, 6)
	lowest := seedItem(t, svc, "Nearly Out", model.StockCategoryBattery, 100, 1)

	analytics, err := svc.Analytics(ctx)
	require.NoError(t, err)

	// Quantity 5 is low stock, 6 is not; the list is sorted ascending.
	require.Len(t, analytics.LowStockItemsList, 2)
	assert.Equal(t, lowest.ID, analytics.LowStockItemsList[0].ID)
	assert.Equal(t, atThreshold.ID, analytics.LowStockItemsList[1].ID)
}

func TestAnalyticsEmptyInventory(t *testing.T) {
	svc, _ := setupStockService(t)

	analytics, err := svc.Analytics(context.Background())
	require.NoError(t, err)
	assert.Empty(t, analytics.ByCategory)
	assert.Empty(t, analytics.LowStockItemsList)
	assert.Equal(t, 0, analytics.Overall.TotalItems)
}

func TestHistoryBucketsByDayAndOperation(t *testing.T) {
	repo := newFakeStockRepo()
	svc := NewService(repo, testShopConfig())

	loc := testShopConfig().Location()
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, loc)
	svc.now = func() time.Time { return now }

	stockID := uuid.New()
	repo.items[stockID] = &model.Stock{
		Base:     model.Base{ID: stockID},
		Type:     "Engine Oil 10W-40",
		Category: model.StockCategoryEngineOil,
		Price:    450,
		Quantity: 20,
	}

	appendEntry := func(at time.Time, change float64, op model.StockOperation) {
		repo.history = append(repo.history, &model.StockHistoryEntry{
			ID:        uuid.New(),
			StockID:   stockID,
			Type:      "Engine Oil 10W-40",
			Category:  model.StockCategoryEngineOil,
			Price:     450,
			Change:    change,
			Operation: op,
			CreatedAt: at,
		})
	}

	sameDay := time.Date(2026, 6, 14, 9, 0, 0, 0, loc)
	// Two usages on the same day merge into one bucket; the restock on the
	// same day stays separate because the operation differs.
	appendEntry(sameDay, 2, model.StockOperationUsage)
	appendEntry(sameDay.Add(3*time.Hour), 3, model.StockOperationUsage)
	appendEntry(sameDay.Add(5*time.Hour), 10, model.StockOperationRestock)
	appendEntry(time.Date(2026, 6, 10, 15, 0, 0, 0, loc), 1, model.StockOperationUsage)
	// Outside the week window.
	appendEntry(time.Date(2026, 6, 1, 10, 0, 0, 0, loc), 7, model.StockOperationUsage)

	buckets, err := svc.History(context.Background(), model.TimeframeWeek)
	require.NoError(t, err)
	require.Len(t, buckets, 3)

	// Ordered by actual timestamp.
	assert.Equal(t, "2026-06-10", buckets[0].Date)
	assert.Equal(t, 1.0, buckets[0].TotalChange)

	assert.Equal(t, "2026-06-14", buckets[1].Date)
	assert.Equal(t, model.StockOperationUsage, buckets[1].Operation)
	assert.Equal(t, 5.0, buckets[1].TotalChange)

	assert.Equal(t, model.StockOperationRestock, buckets[2].Operation)
	assert.Equal(t, 10.0, buckets[2].TotalChange)
}

func TestHistoryYearUsesMonthBuckets(t *testing.T) {
	repo := newFakeStockRepo()
	svc := NewService(repo, testShopConfig())

	loc := testShopConfig().Location()
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, loc)
	svc.now = func() time.Time { return now }

	stockID := uuid.New()
	for _, day := range []int{3, 20} {
		repo.history = append(repo.history, &model.StockHistoryEntry{
			ID:        uuid.New(),
			StockID:   stockID,
			Type:      "Clutch Kit",
			Category:  model.StockCategoryClutch,
			Price:     5000,
			Change:    1,
			Operation: model.StockOperationUsage,
			CreatedAt: time.Date(2026, 2, day, 10, 0, 0, 0, loc),
		})
	}

	buckets, err := svc.History(context.Background(), model.TimeframeYear)
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	assert.Equal(t, "2026-02", buckets[0].Date)
	assert.Equal(t, 2.0, buckets[0].TotalChange)
}

func TestHistoryInvalidTimeframeDefaultsToMonth(t *testing.T) {
	repo := newFakeStockRepo()
	svc := NewService(repo, testShopConfig())

	loc := testShopConfig().Location()
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, loc)
	svc.now = func() time.Time { return now }

	repo.history = append(repo.history, &model.StockHistoryEntry{
		ID:        uuid.New(),
		StockID:   uuid.New(),
		Type:      "Brake Pads",
		Category:  model.StockCategoryBrake,
		Price:     1200,
		Change:    2,
		Operation: model.StockOperationUsage,
		// Inside the month window, outside the week window.
		CreatedAt: time.Date(2026, 5, 25, 10, 0, 0, 0, loc),
	})

	buckets, err := svc.History(context.Background(), "fortnight")
	require.NoError(t, err)
	assert.Len(t, buckets, 1)
}

func TestForecast(t *testing.T) {
	repo := newFakeStockRepo()
	svc := NewService(repo, testShopConfig())

	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	fastID := uuid.New()
	slowID := uuid.New()
	idleID := uuid.New()
	repo.items[fastID] = &model.Stock{
		Base: model.Base{ID: fastID}, Type: "Engine Oil", Category: model.StockCategoryEngineOil,
		Price: 450, Quantity: 12,
	}
	repo.items[slowID] = &model.Stock{
		Base: model.Base{ID: slowID}, Type: "Timing Belt", Category: model.StockCategoryTimingBelt,
		Price: 800, Quantity: 40,
	}
	repo.items[idleID] = &model.Stock{
		Base: model.Base{ID: idleID}, Type: "Clutch Kit", Category: model.StockCategoryClutch,
		Price: 5000, Quantity: 3,
	}

	addUsage := func(id uuid.UUID, change float64, daysAgo int) {
		repo.history = append(repo.history, &model.StockHistoryEntry{
			ID:        uuid.New(),
			StockID:   id,
			Change:    change,
			Operation: model.StockOperationUsage,
			CreatedAt: now.AddDate(0, 0, -daysAgo),
		})
	}

	// Fast mover: 30 units over 5 events, mean 6/event, 12 on hand -> 2 days.
	for i := 0; i < 5; i++ {
		addUsage(fastID, 6, i+1)
	}
	// Slow mover: 4 units over 2 events, mean 2/event, 40 on hand -> 20 days.
	addUsage(slowID, 2, 3)
	addUsage(slowID, 2, 10)
	// Usage outside the window is ignored.
	addUsage(idleID, 1, 45)

	forecasts, err := svc.Forecast(context.Background())
	require.NoError(t, err)
	require.Len(t, forecasts, 2)

	// Soonest to run out first.
	assert.Equal(t, "Engine Oil", forecasts[0].Item)
	assert.Equal(t, 30.0, forecasts[0].TotalUsage)
	assert.Equal(t, 6.0, forecasts[0].DailyUsage)
	assert.Equal(t, 2.0, forecasts[0].DaysUntilEmpty)

	assert.Equal(t, "Timing Belt", forecasts[1].Item)
	assert.Equal(t, 20.0, forecasts[1].DaysUntilEmpty)
}

func TestForecastExcludesItemsWithoutUsage(t *testing.T) {
	repo := newFakeStockRepo()
	svc := NewService(repo, testShopConfig())

	id := uuid.New()
	repo.items[id] = &model.Stock{
		Base: model.Base{ID: id}, Type: "Battery", Category: model.StockCategoryBattery,
		Price: 3500, Quantity: 10,
	}

	forecasts, err := svc.Forecast(context.Background())
	require.NoError(t, err)
	assert.Empty(t, forecasts)
}
