package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rasreserve/autoshop-api/internal/model"
	apperrors "github.com/rasreserve/autoshop-api/pkg/errors"
)

const stockColumns = `id, type, category, price, quantity, created_at, updated_at`

const historyColumns = `id, stock_id, type, category, price, change, operation, created_at`

func (r *stockRepository) Create(ctx context.Context, stock *model.Stock) error {
	query := `
		INSERT INTO stocks (id, type, category, price, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		stock.ID,
		stock.Type,
		stock.Category,
		stock.Price,
		stock.Quantity,
		stock.CreatedAt,
		stock.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create stock item: %w", err)
	}
	return nil
}

func (r *stockRepository) Get(ctx context.Context, id uuid.UUID) (*model.Stock, error) {
	var stock model.Stock
	query := `SELECT ` + stockColumns + ` FROM stocks WHERE id = $1`
	if err := r.db.GetContext(ctx, &stock, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFound("stock item", err)
		}
		return nil, fmt.Errorf("failed to get stock item: %w", err)
	}

	history, err := r.listItemHistory(ctx, id)
	if err != nil {
		return nil, err
	}
	stock.History = history
	return &stock, nil
}

func (r *stockRepository) listItemHistory(ctx context.Context, stockID uuid.UUID) ([]*model.StockHistoryEntry, error) {
	var history []*model.StockHistoryEntry
	query := `SELECT ` + historyColumns + ` FROM stock_history WHERE stock_id = $1 ORDER BY created_at ASC, id ASC`
	if err := r.db.SelectContext(ctx, &history, query, stockID); err != nil {
		return nil, fmt.Errorf("failed to list stock history: %w", err)
	}
	return history, nil
}

// Update writes item fields and, when the caller changed the quantity,
// appends the synthesized history entry in the same transaction so the
// ledger invariant (quantity = fold of history) holds under concurrency.
func (r *stockRepository) Update(ctx context.Context, stock *model.Stock, entry *model.StockHistoryEntry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stock.UpdatedAt = time.Now()
	result, err := tx.ExecContext(ctx, `
		UPDATE stocks
		SET type = $1, category = $2, price = $3, quantity = $4, updated_at = $5
		WHERE id = $6
	`,
		stock.Type, stock.Category, stock.Price, stock.Quantity, stock.UpdatedAt, stock.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update stock item: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("stock item", nil)
	}

	if entry != nil {
		if err := insertHistory(ctx, tx, entry); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit stock update: %w", err)
	}
	return nil
}

func (r *stockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM stock_history WHERE stock_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete stock history: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM stocks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete stock item: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("stock item", nil)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit stock delete: %w", err)
	}
	return nil
}

func (r *stockRepository) List(ctx context.Context, filters *model.StockFilters, page model.Pagination) ([]*model.Stock, int, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	argCount := 1

	if filters != nil {
		if filters.Type != "" {
			where += fmt.Sprintf(" AND type = $%d", argCount)
			args = append(args, filters.Type)
			argCount++
		}
		if filters.Category != "" {
			where += fmt.Sprintf(" AND category = $%d", argCount)
			args = append(args, filters.Category)
			argCount++
		}
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM stocks"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count stock items: %w", err)
	}

	query := `SELECT ` + stockColumns + ` FROM stocks` + where +
		fmt.Sprintf(" ORDER BY type ASC LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, page.PageSize, page.Offset())

	var stocks []*model.Stock
	if err := r.db.SelectContext(ctx, &stocks, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list stock items: %w", err)
	}
	return stocks, total, nil
}

// ApplyChange is the single quantity mutation primitive: the increment runs
// as `quantity = quantity + $1` inside one transaction with the history
// append, so two concurrent changes on the same item both land and neither
// is lost to a read-modify-write race.
func (r *stockRepository) ApplyChange(ctx context.Context, id uuid.UUID, signedChange float64, entry *model.StockHistoryEntry) (*model.Stock, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var stock model.Stock
	query := `
		UPDATE stocks
		SET quantity = quantity + $1, updated_at = $2
		WHERE id = $3
		RETURNING ` + stockColumns
	if err := tx.GetContext(ctx, &stock, query, signedChange, time.Now(), id); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFound("stock item", err)
		}
		return nil, fmt.Errorf("failed to apply stock change: %w", err)
	}

	if err := insertHistory(ctx, tx, entry); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit stock change: %w", err)
	}

	history, err := r.listItemHistory(ctx, id)
	if err != nil {
		return nil, err
	}
	stock.History = history
	return &stock, nil
}

func insertHistory(ctx context.Context, tx sqlxExecer, entry *model.StockHistoryEntry) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO stock_history (id, stock_id, type, category, price, change, operation, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		entry.ID, entry.StockID, entry.Type, entry.Category, entry.Price,
		entry.Change, entry.Operation, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append stock history: %w", err)
	}
	return nil
}

type sqlxExecer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func (r *stockRepository) ListItems(ctx context.Context) ([]*model.Stock, error) {
	var stocks []*model.Stock
	query := `SELECT ` + stockColumns + ` FROM stocks ORDER BY type ASC`
	if err := r.db.SelectContext(ctx, &stocks, query); err != nil {
		return nil, fmt.Errorf("failed to list stock items: %w", err)
	}
	return stocks, nil
}

func (r *stockRepository) ListHistory(ctx context.Context, from, to time.Time) ([]*model.StockHistoryEntry, error) {
	var history []*model.StockHistoryEntry
	query := `
		SELECT ` + historyColumns + `
		FROM stock_history
		WHERE created_at >= $1 AND created_at <= $2
		ORDER BY created_at ASC, id ASC
	`
	if err := r.db.SelectContext(ctx, &history, query, from, to); err != nil {
		return nil, fmt.Errorf("failed to list stock history: %w", err)
	}
	return history, nil
}

func (r *stockRepository) ListHistoryByOperation(ctx context.Context, op model.StockOperation, from, to time.Time) ([]*model.StockHistoryEntry, error) {
	var history []*model.StockHistoryEntry
	query := `
		SELECT ` + historyColumns + `
		FROM stock_history
		WHERE operation = $1 AND created_at >= $2 AND created_at <= $3
		ORDER BY created_at ASC, id ASC
	`
	if err := r.db.SelectContext(ctx, &history, query, op, from, to); err != nil {
		return nil, fmt.Errorf("failed to list stock history: %w", err)
	}
	return history, nil
}
