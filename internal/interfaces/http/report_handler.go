package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jmorales/inventario-pos/internal/application/dto"
	"github.com/jmorales/inventario-pos/internal/application/reports"
	"github.com/jmorales/inventario-pos/internal/domain"
)

// ReportHandler maneja el informe mensual, sus exportaciones y el resumen
// del dashboard.
type ReportHandler struct {
	monthly   *reports.MonthlyReportUseCase
	dashboard *reports.DashboardUseCase
	csv       reports.CSVExporter
	xlsx      reports.ExcelExporter
	pdf       reports.PDFExporter
}

// NewReportHandler construye el handler.
func NewReportHandler(
	monthly *reports.MonthlyReportUseCase,
	dashboard *reports.DashboardUseCase,
	csv reports.CSVExporter,
	xlsx reports.ExcelExporter,
	pdf reports.PDFExporter,
) *ReportHandler {
	return &ReportHandler{
		monthly:   monthly,
		dashboard: dashboard,
		csv:       csv,
		xlsx:      xlsx,
		pdf:       pdf,
	}
}

// monthRange resuelve el query param month (YYYY-MM, por defecto el mes en
// curso) al rango [primer día 00:00, último día 23:59:59.999...].
func monthRange(c *fiber.Ctx) (from, to time.Time, err error) {
	raw := c.Query("month")
	if raw == "" {
		raw = time.Now().Format("2006-01")
	}
	from, err = time.Parse("2006-01", raw)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to = from.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return from, to, nil
}

// Monthly godoc
// @Summary      Informe mensual de movimientos
// @Description  Agrega el libro del mes por producto: entradas, salidas y stock actual.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        month  query  string  false  "Mes (YYYY-MM), por defecto el actual"
// @Success      200    {object}  dto.MonthlyReportResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/reports/monthly [get]
func (h *ReportHandler) Monthly(c *fiber.Ctx) error {
	report, ok := h.buildMonthly(c)
	if !ok {
		return nil
	}
	return c.JSON(report)
}

// MonthlyCSV godoc
// @Summary      Informe mensual en CSV
// @Tags         reports
// @Security     Bearer
// @Produce      text/csv
// @Param        month  query  string  false  "Mes (YYYY-MM)"
// @Success      200    {file}  binary
// @Router       /api/reports/monthly.csv [get]
func (h *ReportHandler) MonthlyCSV(c *fiber.Ctx) error {
	report, ok := h.buildMonthly(c)
	if !ok {
		return nil
	}
	payload, err := h.csv.MonthlyReportCSV(report)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "EXPORT_ERROR", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="informe-`+report.Period+`.csv"`)
	return c.Send(payload)
}

// MonthlyXLSX godoc
// @Summary      Informe mensual en Excel
// @Tags         reports
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        month  query  string  false  "Mes (YYYY-MM)"
// @Success      200    {file}  binary
// @Router       /api/reports/monthly.xlsx [get]
func (h *ReportHandler) MonthlyXLSX(c *fiber.Ctx) error {
	report, ok := h.buildMonthly(c)
	if !ok {
		return nil
	}
	payload, err := h.xlsx.MonthlyReportXLSX(report)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "EXPORT_ERROR", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="informe-`+report.Period+`.xlsx"`)
	return c.Send(payload)
}

// MonthlyPDF godoc
// @Summary      Informe mensual en PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        month  query  string  false  "Mes (YYYY-MM)"
// @Success      200    {file}  binary
// @Router       /api/reports/monthly.pdf [get]
func (h *ReportHandler) MonthlyPDF(c *fiber.Ctx) error {
	report, ok := h.buildMonthly(c)
	if !ok {
		return nil
	}
	payload, err := h.pdf.MonthlyReportPDF(c.UserContext(), report)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "EXPORT_ERROR", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="informe-`+report.Period+`.pdf"`)
	return c.Send(payload)
}

// MovementsCSV godoc
// @Summary      Movimientos del mes en CSV
// @Description  Listado crudo del libro del mes con identidad del producto.
// @Tags         reports
// @Security     Bearer
// @Produce      text/csv
// @Param        month  query  string  false  "Mes (YYYY-MM)"
// @Success      200    {file}  binary
// @Router       /api/reports/movements.csv [get]
func (h *ReportHandler) MovementsCSV(c *fiber.Ctx) error {
	from, to, err := monthRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "month debe ser YYYY-MM"})
	}
	rows, err := h.monthly.Movements(from, to)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	payload, err := h.csv.MovementsCSV(rows)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "EXPORT_ERROR", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="movimientos-`+from.Format("2006-01")+`.csv"`)
	return c.Send(payload)
}

// Dashboard godoc
// @Summary      Resumen del dashboard
// @Description  Totales del catálogo, productos bajo umbral y actividad del día.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardSummaryResponse
// @Router       /api/reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	out, err := h.dashboard.Summary(time.Now())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// buildMonthly resuelve el rango y genera el informe. Si falla, escribe la
// respuesta de error y devuelve ok = false.
func (h *ReportHandler) buildMonthly(c *fiber.Ctx) (report *dto.MonthlyReportResponse, ok bool) {
	from, to, err := monthRange(c)
	if err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "month debe ser YYYY-MM"})
		return nil, false
	}
	report, err = h.monthly.Build(from, to)
	if err != nil {
		if err == domain.ErrInvalidInput {
			_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "rango inválido"})
		} else {
			_ = c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
		return nil, false
	}
	return report, true
}
