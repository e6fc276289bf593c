package sales

import (
	"context"

	"github.com/jmorales/inventario-pos/internal/application/dto"
)

// CatalogInvalidator descarta cachés del catálogo tras mutaciones de
// stock. La implementación noop es válida cuando no hay caché.
type CatalogInvalidator interface {
	Invalidate(ctx context.Context)
}

// ReceiptPDFGenerator genera el comprobante de venta en PDF.
type ReceiptPDFGenerator interface {
	GenerateReceiptPDF(ctx context.Context, receipt *dto.ReceiptResponse) ([]byte, error)
}
