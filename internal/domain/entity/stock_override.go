package entity

import "time"

// StockOverride es el registro de auditoría del ajuste administrativo de
// stock. Puentea el libro de movimientos a propósito: fija CurrentStock
// en un valor absoluto sin insertar movimientos, por lo que el valor no
// es reconstruible desde el libro. Tabla separada para que la auditoría
// y la invariante de suma puedan excluirlo explícitamente.
type StockOverride struct {
	ID            string
	ProductID     string
	PreviousStock int64
	NewStock      int64
	UserID        string
	Reason        string
	CreatedAt     time.Time
}
