package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jmorales/inventario-pos/internal/application/auth"
	"github.com/jmorales/inventario-pos/internal/application/inventory"
	"github.com/jmorales/inventario-pos/internal/application/reports"
	"github.com/jmorales/inventario-pos/internal/application/sales"
	"github.com/jmorales/inventario-pos/internal/application/usecase"
	"github.com/jmorales/inventario-pos/internal/domain/entity"
	"github.com/jmorales/inventario-pos/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC        *usecase.ProductUseCase
	UserUC           *usecase.UserUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	Carts            *sales.CartStore
	ProductRepo      repository.ProductRepository
	CommitSale       *sales.CommitSaleUseCase
	ReceiptPDF       sales.ReceiptPDFGenerator
	MonthlyReport    *reports.MonthlyReportUseCase
	Dashboard        *reports.DashboardUseCase
	CSVExporter      reports.CSVExporter
	ExcelExporter    reports.ExcelExporter
	PDFExporter      reports.PDFExporter
	AuthUC           *auth.AuthUseCase
	JWTSecret        string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Perfil propio (pantalla de configuración)
	protected.Get("/me", authHandler.Me)
	protected.Put("/me", authHandler.UpdateProfile)
	protected.Put("/me/password", authHandler.ChangePassword)

	// Catálogo de productos (protegido; delete y override solo admin)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.Search)
	products.Get("/low-stock", productHandler.LowStock)
	products.Get("/barcode/:code", productHandler.GetByBarcode)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Put("/:id/stock", RequireRole(entity.RoleAdmin), productHandler.OverrideStock)
	products.Get("/:id/overrides", RequireRole(entity.RoleAdmin), productHandler.ListOverrides)
	products.Delete("/:id", RequireRole(entity.RoleAdmin), productHandler.Delete)

	// Libro de movimientos (protegido)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement)
	invGroup.Post("/movements", inventoryHandler.RegisterMovement)
	invGroup.Get("/movements", inventoryHandler.ListMovements)

	// Punto de venta: carrito + checkout + recibos (protegido)
	salesGroup := protected.Group("/sales")
	salesHandler := NewSalesHandler(deps.Carts, deps.ProductRepo, deps.CommitSale, deps.ReceiptPDF)
	salesGroup.Get("/cart", salesHandler.GetCart)
	salesGroup.Delete("/cart", salesHandler.ClearCart)
	salesGroup.Post("/cart/items", salesHandler.AddItem)
	salesGroup.Put("/cart/items/:productID", salesHandler.ChangeQuantity)
	salesGroup.Delete("/cart/items/:productID", salesHandler.RemoveItem)
	salesGroup.Post("/checkout", salesHandler.Checkout)
	salesGroup.Get("/:saleID/receipt.pdf", salesHandler.GetReceiptPDF)
	salesGroup.Get("/:saleID/receipt", salesHandler.GetReceipt)

	// Informes y dashboard (protegido)
	reportsGroup := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.MonthlyReport, deps.Dashboard, deps.CSVExporter, deps.ExcelExporter, deps.PDFExporter)
	reportsGroup.Get("/monthly", reportHandler.Monthly)
	reportsGroup.Get("/monthly.csv", reportHandler.MonthlyCSV)
	reportsGroup.Get("/monthly.xlsx", reportHandler.MonthlyXLSX)
	reportsGroup.Get("/monthly.pdf", reportHandler.MonthlyPDF)
	reportsGroup.Get("/movements.csv", reportHandler.MovementsCSV)
	reportsGroup.Get("/dashboard", reportHandler.Dashboard)

	// Administración de usuarios (solo admin)
	admin := protected.Group("/admin", RequireRole(entity.RoleAdmin))
	userHandler := NewUserHandler(deps.UserUC)
	admin.Get("/users", userHandler.List)
	admin.Put("/users/:id/role", userHandler.UpdateRole)
	admin.Delete("/users/:id", userHandler.Delete)
	// Verificación de consistencia stock vs libro (auditoría de overrides)
	admin.Get("/products/:id/ledger", inventoryHandler.LedgerCheck)
}
