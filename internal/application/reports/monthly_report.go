package reports

import (
	"time"

	"github.com/jmorales/inventario-pos/internal/application/dto"
	"github.com/jmorales/inventario-pos/internal/domain"
	"github.com/jmorales/inventario-pos/internal/domain/entity"
	"github.com/jmorales/inventario-pos/internal/domain/repository"
)

// MonthlyReportUseCase agrega el libro de movimientos de un período en un
// informe por producto. El informe es un objeto de valor; no se persiste.
type MonthlyReportUseCase struct {
	movRepo     repository.MovementRepository
	productRepo repository.ProductRepository
}

// NewMonthlyReportUseCase construye el agregador.
func NewMonthlyReportUseCase(
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
) *MonthlyReportUseCase {
	return &MonthlyReportUseCase{movRepo: movRepo, productRepo: productRepo}
}

// Build genera el informe del rango [from, to] inclusive. stock_final es
// el stock actual al momento de generar el informe: en períodos
// históricos no coincide con el balance al cierre, porque el override
// administrativo hace irreconstruible el balance puntual desde el libro.
func (uc *MonthlyReportUseCase) Build(from, to time.Time) (*dto.MonthlyReportResponse, error) {
	if to.Before(from) {
		return nil, domain.ErrInvalidInput
	}

	rows, err := uc.movRepo.ListWithProduct(from, to)
	if err != nil {
		return nil, err
	}

	// Agrupar por producto preservando orden de primera aparición.
	byProduct := make(map[string]*dto.ReportProductRow)
	var order []string
	for _, row := range rows {
		m := &row.Movement
		agg, ok := byProduct[m.ProductID]
		if !ok {
			agg = &dto.ReportProductRow{
				ProductID:   m.ProductID,
				ProductName: row.ProductName,
				ProductSKU:  row.ProductSKU,
			}
			byProduct[m.ProductID] = agg
			order = append(order, m.ProductID)
		}
		switch m.Type {
		case entity.MovementEntrada:
			agg.Entradas += m.Quantity
		case entity.MovementSalida:
			agg.Salidas += m.Quantity
		}
	}

	report := &dto.MonthlyReportResponse{
		Period: from.Format("2006-01"),
		From:   from.Format(entity.FechaLayout),
		To:     to.Format(entity.FechaLayout),
	}
	for _, productID := range order {
		agg := byProduct[productID]
		product, err := uc.productRepo.GetByID(productID)
		if err != nil {
			return nil, err
		}
		if product != nil {
			agg.StockFinal = product.CurrentStock
		}
		report.Products = append(report.Products, *agg)
		report.TotalEntradas += agg.Entradas
		report.TotalSalidas += agg.Salidas
	}
	return report, nil
}

// Movements devuelve los movimientos crudos del rango [from, to] con
// identidad del producto, para exportaciones.
func (uc *MonthlyReportUseCase) Movements(from, to time.Time) ([]*repository.MovementWithProduct, error) {
	if to.Before(from) {
		return nil, domain.ErrInvalidInput
	}
	return uc.movRepo.ListWithProduct(from, to)
}
