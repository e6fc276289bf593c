package repository

import "github.com/jmorales/inventario-pos/internal/domain/entity"

// StockOverrideRepository persiste la auditoría de overrides de stock.
type StockOverrideRepository interface {
	Create(override *entity.StockOverride) error
	ListByProduct(productID string, limit, offset int) ([]*entity.StockOverride, error)
}
