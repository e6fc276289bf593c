package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jmorales/inventario-pos/internal/application/dto"
	"github.com/jmorales/inventario-pos/internal/application/reports"
)

var _ reports.ExcelExporter = (*ExcelExporter)(nil)

// ExcelExporter serializa el informe mensual a XLSX usando excelize.
type ExcelExporter struct{}

// NewExcelExporter construye el exportador.
func NewExcelExporter() *ExcelExporter { return &ExcelExporter{} }

// MonthlyReportXLSX genera una hoja "Informe" con cabecera en negrita, el
// desglose por producto y los totales del período al final.
func (e *ExcelExporter) MonthlyReportXLSX(report *dto.MonthlyReportResponse) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Informe"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}

	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}

	if err := f.SetSheetRow(sheet, "A1", &[]any{"Período", report.Period, "Desde", report.From, "Hasta", report.To}); err != nil {
		return nil, fmt.Errorf("xlsx: metadatos: %w", err)
	}

	header := []any{"Producto", "SKU", "Entradas", "Salidas", "Stock final"}
	if err := f.SetSheetRow(sheet, "A3", &header); err != nil {
		return nil, fmt.Errorf("xlsx: cabecera: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A3", "E3", boldStyle); err != nil {
		return nil, fmt.Errorf("xlsx: estilo cabecera: %w", err)
	}

	rowIdx := 4
	for _, p := range report.Products {
		cell := fmt.Sprintf("A%d", rowIdx)
		values := []any{p.ProductName, p.ProductSKU, p.Entradas, p.Salidas, p.StockFinal}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, fmt.Errorf("xlsx: fila %d: %w", rowIdx, err)
		}
		rowIdx++
	}

	// Totales del período, una fila en blanco después del desglose.
	rowIdx++
	totalsCell := fmt.Sprintf("A%d", rowIdx)
	totals := []any{"TOTALES", "", report.TotalEntradas, report.TotalSalidas, ""}
	if err := f.SetSheetRow(sheet, totalsCell, &totals); err != nil {
		return nil, fmt.Errorf("xlsx: totales: %w", err)
	}
	if err := f.SetCellStyle(sheet, totalsCell, fmt.Sprintf("E%d", rowIdx), boldStyle); err != nil {
		return nil, fmt.Errorf("xlsx: estilo totales: %w", err)
	}

	if err := f.SetColWidth(sheet, "A", "A", 32); err != nil {
		return nil, fmt.Errorf("xlsx: ancho columna: %w", err)
	}
	if err := f.SetColWidth(sheet, "B", "E", 14); err != nil {
		return nil, fmt.Errorf("xlsx: ancho columnas: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("xlsx: serializar: %w", err)
	}
	return buf.Bytes(), nil
}
