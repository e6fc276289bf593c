package dto

// ReportProductRow desglose por producto del informe mensual.
type ReportProductRow struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	ProductSKU  string `json:"product_sku"`
	Entradas    int64  `json:"entradas"`
	Salidas     int64  `json:"salidas"`
	// StockFinal es el stock actual al momento de generar el informe, no
	// el balance al cierre del período (ver DESIGN.md).
	StockFinal int64 `json:"stock_final"`
}

// MonthlyReportResponse informe de movimientos de un período. Objeto de
// valor puro; no se persiste.
type MonthlyReportResponse struct {
	Period        string             `json:"period"` // ej. "2026-08"
	From          string             `json:"from"`   // YYYY-MM-DD
	To            string             `json:"to"`
	TotalEntradas int64              `json:"total_entradas"`
	TotalSalidas  int64              `json:"total_salidas"`
	Products      []ReportProductRow `json:"products"`
}

// DashboardSummaryResponse resumen para la pantalla principal.
type DashboardSummaryResponse struct {
	TotalProducts  int   `json:"total_products"`
	LowStockCount  int   `json:"low_stock_count"`
	EntradasHoy    int64 `json:"entradas_hoy"`
	SalidasHoy     int64 `json:"salidas_hoy"`
	MovimientosHoy int   `json:"movimientos_hoy"`
}
