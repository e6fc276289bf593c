// Package export serializa informes y listados a formatos descargables
// (CSV y XLSX).
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/jmorales/inventario-pos/internal/application/dto"
	"github.com/jmorales/inventario-pos/internal/application/reports"
	"github.com/jmorales/inventario-pos/internal/domain/repository"
)

var _ reports.CSVExporter = (*CSVExporter)(nil)

// CSVExporter serializa informes y movimientos a CSV (UTF-8, separador coma).
type CSVExporter struct{}

// NewCSVExporter construye el exportador.
func NewCSVExporter() *CSVExporter { return &CSVExporter{} }

// MonthlyReportCSV serializa el desglose por producto del informe mensual.
func (e *CSVExporter) MonthlyReportCSV(report *dto.MonthlyReportResponse) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"producto", "sku", "entradas", "salidas", "stock_final"}); err != nil {
		return nil, fmt.Errorf("csv: cabecera: %w", err)
	}
	for _, p := range report.Products {
		record := []string{
			p.ProductName,
			p.ProductSKU,
			strconv.FormatInt(p.Entradas, 10),
			strconv.FormatInt(p.Salidas, 10),
			strconv.FormatInt(p.StockFinal, 10),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("csv: fila: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("csv: flush: %w", err)
	}
	return buf.Bytes(), nil
}

// MovementsCSV serializa un listado de movimientos con identidad del producto.
func (e *CSVExporter) MovementsCSV(rows []*repository.MovementWithProduct) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"fecha", "hora", "tipo", "producto", "sku", "cantidad", "unidad", "motivo", "despachado_por"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("csv: cabecera: %w", err)
	}
	for _, mp := range rows {
		m := mp.Movement
		fecha := m.Fecha
		hora := m.Hora
		if fecha == "" {
			fecha = m.CreatedAt.Format("2006-01-02")
		}
		if hora == "" {
			hora = m.CreatedAt.Format("15:04:05")
		}
		record := []string{
			fecha,
			hora,
			m.Type,
			mp.ProductName,
			mp.ProductSKU,
			strconv.FormatInt(m.Quantity, 10),
			mp.ProductUnit,
			m.Reason,
			m.DespachadoPor,
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("csv: fila: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("csv: flush: %w", err)
	}
	return buf.Bytes(), nil
}
