package model

import (
	"time"

	"github.com/google/uuid"
)

type StockCategory string

const (
	StockCategoryEngineOil    StockCategory = "Engine Oil"
	StockCategoryTireRotation StockCategory = "Tire Rotation"
	StockCategorySparkPlug    StockCategory = "Spark Plug"
	StockCategoryBrake        StockCategory = "Brake"
	StockCategoryBattery      StockCategory = "Battery"
	StockCategoryTimingBelt   StockCategory = "Timing Belt"
	StockCategoryClutch       StockCategory = "Clutch"
)

var stockCategories = map[StockCategory]struct{}{
	StockCategoryEngineOil:    {},
	StockCategoryTireRotation: {},
	StockCategorySparkPlug:    {},
	StockCategoryBrake:        {},
	StockCategoryBattery:      {},
	StockCategoryTimingBelt:   {},
	StockCategoryClutch:       {},
}

func (c StockCategory) IsValid() bool {
	_, ok := stockCategories[c]
	return ok
}

type StockOperation string

const (
	StockOperationRestock StockOperation = "restock"
	StockOperationUsage   StockOperation = "usage"
)

func (o StockOperation) IsValid() bool {
	return o == StockOperationRestock || o == StockOperationUsage
}

// SignedChange applies the operation's sign to an unsigned magnitude.
func (o StockOperation) SignedChange(magnitude float64) float64 {
	if o == StockOperationUsage {
		return -magnitude
	}
	return magnitude
}

type Stock struct {
	Base
	Type     string        `db:"type" json:"type"`
	Category StockCategory `db:"category" json:"category"`
	Price    float64       `db:"price" json:"price"`
	Quantity float64       `db:"quantity" json:"quantity"`
	History  []*StockHistoryEntry `db:"-" json:"history"`
}

// StockHistoryEntry is an immutable ledger record. Type, category and price
// snapshot the parent item at the moment of the change and are never
// re-derived. CreatedAt is recorded in the shop-local offset.
type StockHistoryEntry struct {
	ID        uuid.UUID      `db:"id" json:"id"`
	StockID   uuid.UUID      `db:"stock_id" json:"-"`
	Type      string         `db:"type" json:"type"`
	Category  StockCategory  `db:"category" json:"category"`
	Price     float64        `db:"price" json:"price"`
	Change    float64        `db:"change" json:"change"`
	Operation StockOperation `db:"operation" json:"operation"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}

type CreateStockRequest struct {
	Type     string        `json:"type" binding:"required"`
	Category StockCategory `json:"category" binding:"required"`
	Price    float64       `json:"price" binding:"required,gt=0"`
	Quantity float64       `json:"quantity" binding:"gte=0"`
}

type UpdateStockRequest struct {
	Type     *string        `json:"type"`
	Category *StockCategory `json:"category"`
	Price    *float64       `json:"price" binding:"omitempty,gt=0"`
	Quantity *float64       `json:"quantity" binding:"omitempty,gte=0"`
}

type RecordStockChangeRequest struct {
	Change    float64        `json:"change" binding:"gte=0"`
	Operation StockOperation `json:"operation" binding:"required,oneof=restock usage"`
}

type StockFilters struct {
	Type     string
	Category StockCategory
}

// Analytics output shapes.

type CategoryRollup struct {
	Category      StockCategory `json:"category"`
	TotalItems    int           `json:"totalItems"`
	TotalValue    float64       `json:"totalValue"`
	AveragePrice  float64       `json:"averagePrice"`
	LowStockItems int           `json:"lowStockItems"`
}

type OverallRollup struct {
	TotalItems    int     `json:"totalItems"`
	TotalValue    float64 `json:"totalValue"`
	LowStockItems int     `json:"lowStockItems"`
}

type LowStockItem struct {
	ID       uuid.UUID     `json:"id"`
	Type     string        `json:"type"`
	Category StockCategory `json:"category"`
	Price    float64       `json:"price"`
	Quantity float64       `json:"quantity"`
}

type StockAnalytics struct {
	ByCategory        []CategoryRollup `json:"byCategory"`
	Overall           OverallRollup    `json:"overall"`
	LowStockItemsList []LowStockItem   `json:"lowStockItemsList"`
}

type Timeframe string

const (
	TimeframeWeek  Timeframe = "week"
	TimeframeMonth Timeframe = "month"
	TimeframeYear  Timeframe = "year"
)

func (t Timeframe) IsValid() bool {
	return t == TimeframeWeek || t == TimeframeMonth || t == TimeframeYear
}

type StockHistoryBucket struct {
	Date          string         `json:"date"`
	Operation     StockOperation `json:"operation"`
	StockID       uuid.UUID      `json:"stockId"`
	StockType     string         `json:"stockType"`
	StockCategory StockCategory  `json:"stockCategory"`
	Price         float64        `json:"price"`
	TotalChange   float64        `json:"totalChange"`
	ActualDate    time.Time      `json:"actualDate"`
}

type StockForecast struct {
	Item            string        `json:"item"`
	Category        StockCategory `json:"category"`
	TotalUsage      float64       `json:"totalUsage"`
	DailyUsage      float64       `json:"dailyUsage"`
	CurrentQuantity float64       `json:"currentQuantity"`
	DaysUntilEmpty  float64       `json:"daysUntilEmpty"`
}
