package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo. CurrentStock es la caché
// denormalizada del libro de movimientos: solo la actualiza el motor de
// inventario dentro de una transacción (o el override administrativo).
type Product struct {
	ID           string
	Name         string
	SKU          string // único, normalizado a mayúsculas
	Barcode      string // opcional, único si existe
	Category     string
	Unit         string // etiqueta: "unidad", "kg", etc.
	CurrentStock int64
	MinStock     int64
	MaxStock     *int64
	Price        *decimal.Decimal // precio de venta, opcional
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PriceOrZero devuelve el precio o cero si no está definido (productos sin
// precio se venden a 0, igual que en el punto de venta).
func (p *Product) PriceOrZero() decimal.Decimal {
	if p.Price == nil {
		return decimal.Zero
	}
	return *p.Price
}

// BelowMinStock indica si el producto está en o bajo su umbral de reposición.
func (p *Product) BelowMinStock() bool {
	return p.CurrentStock <= p.MinStock
}
