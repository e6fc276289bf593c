package dto

import "github.com/shopspring/decimal"

// AddCartItemRequest body para agregar un producto al carrito (qty 1 por
// escaneo; repetir el escaneo acumula en la misma línea).
type AddCartItemRequest struct {
	ProductID string `json:"product_id"`
	Barcode   string `json:"barcode,omitempty"` // alternativa al ID, lector de código de barras
}

// ChangeCartQuantityRequest body para ajustar la cantidad de una línea.
type ChangeCartQuantityRequest struct {
	Delta int64 `json:"delta"` // típicamente +1 / -1
}

// CartLineResponse una línea del carrito.
type CartLineResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	ProductSKU  string          `json:"product_sku"`
	Unit        string          `json:"unit"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

// CartResponse estado completo del carrito de la sesión.
type CartResponse struct {
	Lines      []CartLineResponse `json:"lines"`
	Total      decimal.Decimal    `json:"total"`
	TotalItems int64              `json:"total_items"`
}

// CommitSaleRequest body para confirmar la venta. CommitID es la clave de
// idempotencia: reintentos con el mismo ID no duplican movimientos. Si se
// omite, el servidor genera una (y el reintento ya no es deduplicable).
type CommitSaleRequest struct {
	CommitID string `json:"commit_id,omitempty"`
}

// ReceiptLine línea del recibo generado al confirmar la venta.
type ReceiptLine struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	ProductSKU  string          `json:"product_sku"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

// ReceiptResponse recibo de la venta: snapshot del carrito pre-commit.
type ReceiptResponse struct {
	SaleID        string          `json:"sale_id"` // transaction_id de los movimientos
	Fecha         string          `json:"fecha"`
	Hora          string          `json:"hora"`
	DespachadoPor string          `json:"despachado_por"`
	Lines         []ReceiptLine   `json:"lines"`
	Total         decimal.Decimal `json:"total"`
	TotalItems    int64           `json:"total_items"`
	AlreadyDone   bool            `json:"already_done,omitempty"` // true si el commit_id ya estaba confirmado
}

// InsufficientLine detalle de una línea que no pasó la revalidación de stock.
type InsufficientLine struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Requested   int64  `json:"requested"`
	Available   int64  `json:"available"`
}
