package repository

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/jmorales/inventario-pos/internal/domain/entity"
)

// MovementFilter criterios de listado de movimientos (todos opcionales).
type MovementFilter struct {
	ProductID string
	Type      string // entrada | salida | vacío = ambos
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// MovementWithProduct fila del libro enriquecida con identidad del producto,
// para reportes, exportaciones y reconstrucción de recibos.
type MovementWithProduct struct {
	Movement     entity.Movement
	ProductName  string
	ProductSKU   string
	ProductUnit  string
	ProductPrice *decimal.Decimal // precio vigente del producto; nil si no tiene
}

// MovementRepository define el puerto de persistencia del libro de
// movimientos. Solo inserta y lee; las filas son inmutables.
type MovementRepository interface {
	Create(movement *entity.Movement) error
	GetByID(id string) (*entity.Movement, error)
	List(filter MovementFilter) ([]*entity.Movement, error)
	// ListWithProduct lista movimientos del rango [from, to] (inclusive)
	// con nombre/sku/unidad del producto, para el agregador de reportes.
	ListWithProduct(from, to time.Time) ([]*MovementWithProduct, error)
	// ListByTransactionID devuelve los movimientos de una venta confirmada.
	ListByTransactionID(txID string) ([]*MovementWithProduct, error)
	// ExistsByTransactionID indica si una venta con esa clave de
	// idempotencia ya fue confirmada.
	ExistsByTransactionID(txID string) (bool, error)
	// SumByProduct devuelve la suma con signo del libro para un producto
	// (entradas - salidas). Soporta la verificación de la invariante.
	SumByProduct(productID string) (int64, error)
}
