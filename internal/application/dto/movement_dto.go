package dto

import "time"

// RegisterMovementRequest body para POST /api/inventory/movements.
// Fecha/Hora opcionales permiten registrar movimientos retroactivos.
type RegisterMovementRequest struct {
	ProductID     string `json:"product_id"`
	Type          string `json:"type"` // entrada | salida
	Quantity      int64  `json:"quantity"`
	Reason        string `json:"reason,omitempty"`
	Fecha         string `json:"fecha,omitempty"` // YYYY-MM-DD
	Hora          string `json:"hora,omitempty"`  // HH:MM:SS
	DespachadoPor string `json:"despachado_por,omitempty"`
	TiempoProd    *int64 `json:"tiempo_produccion,omitempty"` // minutos, solo entradas
}

// MovementResponse salida de un movimiento del libro.
type MovementResponse struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"product_id"`
	ProductName   string    `json:"product_name,omitempty"`
	ProductSKU    string    `json:"product_sku,omitempty"`
	Type          string    `json:"type"`
	Quantity      int64     `json:"quantity"`
	UserID        string    `json:"user_id"`
	Reason        string    `json:"reason,omitempty"`
	Fecha         string    `json:"fecha,omitempty"`
	Hora          string    `json:"hora,omitempty"`
	DespachadoPor string    `json:"despachado_por,omitempty"`
	TiempoProd    *int64    `json:"tiempo_produccion,omitempty"`
	TransactionID string    `json:"transaction_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// LedgerCheckResponse comparación del stock actual contra la suma con
// signo del libro. Un desfase es esperable cuando hubo overrides.
type LedgerCheckResponse struct {
	ProductID    string `json:"product_id"`
	CurrentStock int64  `json:"current_stock"`
	LedgerSum    int64  `json:"ledger_sum"`
	Consistent   bool   `json:"consistent"`
}
