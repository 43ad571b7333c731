package stock

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/rasreserve/autoshop-api/internal/model"
)

// Read-only analytics derived from committed ledger state. These are
// eventually-consistent snapshots; they take no locks and require nothing
// stronger than "some committed state as of read time".

// Analytics folds current stock state into per-category rollups, an overall
// rollup, and the list of low-stock items sorted by quantity ascending.
func (s *Service) Analytics(ctx context.Context) (*model.StockAnalytics, error) {
	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load stock items: %w", err)
	}

	byCategory := make(map[model.StockCategory]*model.CategoryRollup)
	priceSums := make(map[model.StockCategory]float64)
	overall := model.OverallRollup{}
	var lowStock []model.LowStockItem

	for _, item := range items {
		rollup, ok := byCategory[item.Category]
		if !ok {
			rollup = &model.CategoryRollup{Category: item.Category}
			byCategory[item.Category] = rollup
		}

		rollup.TotalItems++
		rollup.TotalValue += item.Price * item.Quantity
		priceSums[item.Category] += item.Price

		overall.TotalItems++
		overall.TotalValue += item.Price * item.Quantity

		if item.Quantity <= s.cfg.LowStockThreshold {
			rollup.LowStockItems++
			overall.LowStockItems++
			lowStock = append(lowStock, model.LowStockItem{
				ID:       item.ID,
				Type:     item.Type,
				Category: item.Category,
				Price:    item.Price,
				Quantity: item.Quantity,
			})
		}
	}

	categories := make([]model.CategoryRollup, 0, len(byCategory))
	for cat, rollup := range byCategory {
		rollup.AveragePrice = priceSums[cat] / float64(rollup.TotalItems)
		categories = append(categories, *rollup)
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Category < categories[j].Category
	})

	sort.Slice(lowStock, func(i, j int) bool {
		return lowStock[i].Quantity < lowStock[j].Quantity
	})

	return &model.StockAnalytics{
		ByCategory:        categories,
		Overall:           overall,
		LowStockItemsList: lowStock,
	}, nil
}

// History aggregates ledger entries over the selected timeframe into
// calendar buckets (days, or months for the year view) in the shop-local
// offset, one row per (bucket, operation, item), ordered by actual timestamp
// then item type.
func (s *Service) History(ctx context.Context, timeframe model.Timeframe) ([]*model.StockHistoryBucket, error) {
	if timeframe == "" {
		timeframe = model.TimeframeMonth
	}
	if !timeframe.IsValid() {
		timeframe = model.TimeframeMonth
	}

	now := s.now().In(s.loc)
	var start time.Time
	switch timeframe {
	case model.TimeframeWeek:
		start = now.AddDate(0, 0, -7)
	case model.TimeframeYear:
		start = now.AddDate(-1, 0, 0)
	default:
		start = now.AddDate(0, -1, 0)
	}

	// Inclusive window: whole first day through the end of today.
	from := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, s.loc)
	to := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), s.loc)

	entries, err := s.repo.ListHistory(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load stock history: %w", err)
	}

	bucketFormat := "2006-01-02"
	if timeframe == model.TimeframeYear {
		bucketFormat = "2006-01"
	}

	type bucketKey struct {
		date    string
		op      model.StockOperation
		stockID uuid.UUID
	}
	buckets := make(map[bucketKey]*model.StockHistoryBucket)

	for _, entry := range entries {
		local := entry.CreatedAt.In(s.loc)
		key := bucketKey{
			date:    local.Format(bucketFormat),
			op:      entry.Operation,
			stockID: entry.StockID,
		}
		bucket, ok := buckets[key]
		if !ok {
			bucket = &model.StockHistoryBucket{
				Date:          key.date,
				Operation:     entry.Operation,
				StockID:       entry.StockID,
				StockType:     entry.Type,
				StockCategory: entry.Category,
				Price:         entry.Price,
				ActualDate:    entry.CreatedAt,
			}
			buckets[key] = bucket
		}
		bucket.TotalChange += entry.Change
	}

	result := make([]*model.StockHistoryBucket, 0, len(buckets))
	for _, bucket := range buckets {
		result = append(result, bucket)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].ActualDate.Equal(result[j].ActualDate) {
			return result[i].ActualDate.Before(result[j].ActualDate)
		}
		return result[i].StockType < result[j].StockType
	})
	return result, nil
}

// Forecast projects days until depletion from the trailing usage window.
// dailyUsage is the mean magnitude per usage event, so the estimate is
// deliberately sensitive to low sample counts; items with no recorded usage
// in the window are excluded because the divisor is undefined.
func (s *Service) Forecast(ctx context.Context) ([]*model.StockForecast, error) {
	now := s.now()
	from := now.AddDate(0, 0, -s.cfg.ForecastWindowDays)

	entries, err := s.repo.ListHistoryByOperation(ctx, model.StockOperationUsage, from, now)
	if err != nil {
		return nil, fmt.Errorf("failed to load usage history: %w", err)
	}

	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load stock items: %w", err)
	}
	byID := make(map[uuid.UUID]*model.Stock, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	type usageAgg struct {
		total float64
		count int
	}
	usage := make(map[uuid.UUID]*usageAgg)
	for _, entry := range entries {
		agg, ok := usage[entry.StockID]
		if !ok {
			agg = &usageAgg{}
			usage[entry.StockID] = agg
		}
		agg.total += entry.Change
		agg.count++
	}

	forecasts := make([]*model.StockForecast, 0, len(usage))
	for stockID, agg := range usage {
		item, ok := byID[stockID]
		if !ok || agg.count == 0 || agg.total == 0 {
			continue
		}
		daily := agg.total / float64(agg.count)
		forecasts = append(forecasts, &model.StockForecast{
			Item:            item.Type,
			Category:        item.Category,
			TotalUsage:      agg.total,
			DailyUsage:      daily,
			CurrentQuantity: item.Quantity,
			DaysUntilEmpty:  item.Quantity / daily,
		})
	}

	sort.Slice(forecasts, func(i, j int) bool {
		return forecasts[i].DaysUntilEmpty < forecasts[j].DaysUntilEmpty
	})
	return forecasts, nil
}
