package repository

import "github.com/jmorales/inventario-pos/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product (DIP).
// SetStock existe solo para el motor de inventario y el override
// administrativo; el resto de la aplicación nunca escribe CurrentStock.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetBySKU(sku string) (*entity.Product, error)
	GetByBarcode(barcode string) (*entity.Product, error)
	Update(product *entity.Product) error
	// GetForUpdate bloquea la fila del producto (SELECT FOR UPDATE). Usar
	// solo dentro de una transacción del TxRunner.
	GetForUpdate(id string) (*entity.Product, error)
	// SetStock escribe CurrentStock. Dentro de transacción para movimientos;
	// el override lo usa fuera del libro.
	SetStock(productID string, quantity int64) error
	// Search filtra por substring case-insensitive en name, sku y barcode.
	// Término vacío devuelve el listado completo.
	Search(term string, limit, offset int) ([]*entity.Product, error)
	// ListLowStock lista productos con current_stock <= min_stock.
	ListLowStock() ([]*entity.Product, error)
	Delete(id string) error
	Count() (int, error)
}
