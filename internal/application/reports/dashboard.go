package reports

import (
	"time"

	"github.com/jmorales/inventario-pos/internal/application/dto"
	"github.com/jmorales/inventario-pos/internal/domain/entity"
	"github.com/jmorales/inventario-pos/internal/domain/repository"
)

// DashboardUseCase resumen de la pantalla principal: conteo de catálogo,
// productos bajo mínimo y actividad del día.
type DashboardUseCase struct {
	movRepo     repository.MovementRepository
	productRepo repository.ProductRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
) *DashboardUseCase {
	return &DashboardUseCase{movRepo: movRepo, productRepo: productRepo}
}

// Summary arma el resumen con los movimientos de hoy (hora local).
func (uc *DashboardUseCase) Summary(now time.Time) (*dto.DashboardSummaryResponse, error) {
	total, err := uc.productRepo.Count()
	if err != nil {
		return nil, err
	}
	low, err := uc.productRepo.ListLowStock()
	if err != nil {
		return nil, err
	}

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.Add(24*time.Hour - time.Nanosecond)
	movs, err := uc.movRepo.ListWithProduct(dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	summary := &dto.DashboardSummaryResponse{
		TotalProducts:  total,
		LowStockCount:  len(low),
		MovimientosHoy: len(movs),
	}
	for _, row := range movs {
		switch row.Movement.Type {
		case entity.MovementEntrada:
			summary.EntradasHoy += row.Movement.Quantity
		case entity.MovementSalida:
			summary.SalidasHoy += row.Movement.Quantity
		}
	}
	return summary, nil
}
