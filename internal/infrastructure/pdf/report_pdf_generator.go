package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jmorales/inventario-pos/internal/application/dto"
	"github.com/jmorales/inventario-pos/internal/application/reports"
)

var _ reports.PDFExporter = (*MarotoReportGenerator)(nil)

// MarotoReportGenerator implementa reports.PDFExporter usando Maroto v2.
type MarotoReportGenerator struct{}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

// MonthlyReportPDF genera el informe mensual de movimientos y devuelve sus bytes.
func (g *MarotoReportGenerator) MonthlyReportPDF(_ context.Context, report *dto.MonthlyReportResponse) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Informe Mensual de Movimientos", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(reportHeaderRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(reportTableHeaderRow())
	for _, r := range reportProductRows(report.Products) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(reportTotalsRow(report))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar informe: %w", err)
	}
	return doc.GetBytes(), nil
}

// reportHeaderRow: título + período y rango de fechas.
func reportHeaderRow(report *dto.MonthlyReportResponse) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New("INFORME DE MOVIMIENTOS", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Período: "+report.Period, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("Desde: "+report.From, props.Text{
				Size: 9, Align: align.Right, Top: 2,
			}),
			text.New("Hasta: "+report.To, props.Text{
				Size: 9, Align: align.Right, Top: 8,
			}),
		),
	)
}

// reportTableHeaderRow: cabecera del desglose por producto.
func reportTableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Producto", 5, align.Left),
		h("SKU", 2, align.Left),
		h("Entradas", 2, align.Right),
		h("Salidas", 2, align.Right),
		h("Stock", 1, align.Right),
	)
}

// reportProductRows: una fila por producto con actividad en el período.
func reportProductRows(products []dto.ReportProductRow) []core.Row {
	result := make([]core.Row, 0, len(products))
	for _, p := range products {
		result = append(result, row.New(7).Add(
			col.New(5).Add(text.New(
				p.ProductName,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				p.ProductSKU,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1, Color: colorGray},
			)),
			col.New(2).Add(text.New(
				fmt.Sprintf("%d", p.Entradas),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				fmt.Sprintf("%d", p.Salidas),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				fmt.Sprintf("%d", p.StockFinal),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// reportTotalsRow: totales de entradas y salidas del período.
func reportTotalsRow(report *dto.MonthlyReportResponse) core.Row {
	return row.New(14).Add(
		col.New(5),
		col.New(4).Add(
			text.New("Total entradas:", props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
			}),
			text.New("Total salidas:", props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 6, Right: 2,
			}),
		),
		col.New(3).Add(
			text.New(fmt.Sprintf("%d", report.TotalEntradas), props.Text{
				Size: 9, Align: align.Right, Right: 1,
			}),
			text.New(fmt.Sprintf("%d", report.TotalSalidas), props.Text{
				Size: 9, Align: align.Right, Top: 6, Right: 1,
			}),
		),
	)
}
