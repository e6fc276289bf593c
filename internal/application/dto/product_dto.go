package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. Stock inicia en 0;
// InitialStock opcional registra la primera entrada en el libro.
type CreateProductRequest struct {
	Name         string           `json:"name" validate:"required,min=1,max=200"`
	SKU          string           `json:"sku" validate:"required,min=1,max=100"`
	Barcode      string           `json:"barcode"`
	Category     string           `json:"category"`
	Unit         string           `json:"unit"`
	MinStock     int64            `json:"min_stock"`
	MaxStock     *int64           `json:"max_stock"`
	Price        *decimal.Decimal `json:"price"`
	InitialStock int64            `json:"initial_stock"`
}

// UpdateProductRequest entrada para actualizar un producto (sin CurrentStock:
// el stock se maneja vía movimientos o el override explícito).
type UpdateProductRequest struct {
	Name     *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Barcode  *string          `json:"barcode"`
	Category *string          `json:"category"`
	Unit     *string          `json:"unit"`
	MinStock *int64           `json:"min_stock"`
	MaxStock *int64           `json:"max_stock"`
	Price    *decimal.Decimal `json:"price"`
}

// OverrideStockRequest body del override administrativo de stock.
type OverrideStockRequest struct {
	NewQuantity int64  `json:"new_quantity" validate:"min=0"`
	Reason      string `json:"reason"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	SKU          string           `json:"sku"`
	Barcode      string           `json:"barcode,omitempty"`
	Category     string           `json:"category,omitempty"`
	Unit         string           `json:"unit"`
	CurrentStock int64            `json:"current_stock"`
	MinStock     int64            `json:"min_stock"`
	MaxStock     *int64           `json:"max_stock,omitempty"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	LowStock     bool             `json:"low_stock"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// StockOverrideResponse fila de auditoría de un override de stock.
type StockOverrideResponse struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"product_id"`
	PreviousStock int64     `json:"previous_stock"`
	NewStock      int64     `json:"new_stock"`
	UserID        string    `json:"user_id"`
	Reason        string    `json:"reason,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
