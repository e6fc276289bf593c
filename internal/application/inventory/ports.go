package inventory

import (
	"context"

	"github.com/jmorales/inventario-pos/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que el insert en el libro y el
// ajuste de current_stock sean atómicos (reemplaza el trigger del diseño
// original).
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
		overrideRepo repository.StockOverrideRepository,
	) error) error
}
