package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmorales/inventario-pos/internal/domain/entity"
	"github.com/jmorales/inventario-pos/internal/domain/repository"
)

var _ repository.StockOverrideRepository = (*StockOverrideRepo)(nil)

// StockOverrideRepo persiste la auditoría de overrides de stock.
type StockOverrideRepo struct {
	q Querier
}

// NewStockOverrideRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockOverrideRepository(q Querier) *StockOverrideRepo {
	return &StockOverrideRepo{q: q}
}

// Create inserta un registro de auditoría de override.
func (r *StockOverrideRepo) Create(override *entity.StockOverride) error {
	if override.ID == "" {
		override.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_overrides (id, product_id, previous_stock, new_stock, user_id, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		override.ID, override.ProductID, override.PreviousStock, override.NewStock,
		override.UserID, override.Reason, override.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock override: %w", err)
	}
	return nil
}

// ListByProduct lista los overrides de un producto, más recientes primero.
func (r *StockOverrideRepo) ListByProduct(productID string, limit, offset int) ([]*entity.StockOverride, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, product_id, previous_stock, new_stock, user_id, reason, created_at
		FROM stock_overrides WHERE product_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, productID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock overrides: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockOverride
	for rows.Next() {
		var o entity.StockOverride
		if err := rows.Scan(&o.ID, &o.ProductID, &o.PreviousStock, &o.NewStock, &o.UserID, &o.Reason, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock override: %w", err)
		}
		list = append(list, &o)
	}
	return list, rows.Err()
}
