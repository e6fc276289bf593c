package reports

import (
	"context"

	"github.com/jmorales/inventario-pos/internal/application/dto"
	"github.com/jmorales/inventario-pos/internal/domain/repository"
)

// CSVExporter serializa informes y listados de movimientos a CSV.
type CSVExporter interface {
	MonthlyReportCSV(report *dto.MonthlyReportResponse) ([]byte, error)
	MovementsCSV(rows []*repository.MovementWithProduct) ([]byte, error)
}

// ExcelExporter serializa el informe mensual a XLSX.
type ExcelExporter interface {
	MonthlyReportXLSX(report *dto.MonthlyReportResponse) ([]byte, error)
}

// PDFExporter serializa el informe mensual a PDF.
type PDFExporter interface {
	MonthlyReportPDF(ctx context.Context, report *dto.MonthlyReportResponse) ([]byte, error)
}
