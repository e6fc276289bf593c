package entity

import "time"

// Tipos de movimiento del libro de inventario.
const (
	MovementEntrada = "entrada" // suma stock
	MovementSalida  = "salida"  // resta stock
)

// Formatos de fecha/hora explícitas para movimientos retroactivos.
const (
	FechaLayout = "2006-01-02"
	HoraLayout  = "15:04:05"
)

// Movement es una fila inmutable del libro de movimientos (append-only).
// El stock del producto se ajusta en la misma transacción que inserta la
// fila; no existe ruta de update/delete.
type Movement struct {
	ID            string
	ProductID     string
	Type          string // entrada | salida
	Quantity      int64  // siempre > 0; el signo lo da Type
	UserID        string
	Reason        string
	Fecha         string // YYYY-MM-DD, opcional (registro retroactivo)
	Hora          string // HH:MM:SS, opcional
	DespachadoPor string // solo salidas: nombre de quien despacha
	TiempoProd    *int64 // solo entradas: minutos de producción
	TransactionID string // clave de idempotencia de la venta; vacío en movimientos sueltos
	CreatedAt     time.Time
}

// SignedQuantity devuelve la cantidad con signo según el tipo.
func (m *Movement) SignedQuantity() int64 {
	if m.Type == MovementSalida {
		return -m.Quantity
	}
	return m.Quantity
}

// ValidType indica si el tipo del movimiento es entrada o salida.
func ValidType(t string) bool {
	return t == MovementEntrada || t == MovementSalida
}
