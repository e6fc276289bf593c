package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jmorales/inventario-pos/internal/application/auth"
	"github.com/jmorales/inventario-pos/internal/application/inventory"
	"github.com/jmorales/inventario-pos/internal/application/reports"
	"github.com/jmorales/inventario-pos/internal/application/sales"
	"github.com/jmorales/inventario-pos/internal/application/usecase"
	infracache "github.com/jmorales/inventario-pos/internal/infrastructure/cache"
	"github.com/jmorales/inventario-pos/internal/infrastructure/export"
	infrapdf "github.com/jmorales/inventario-pos/internal/infrastructure/pdf"
	"github.com/jmorales/inventario-pos/internal/infrastructure/postgres"
	httpRouter "github.com/jmorales/inventario-pos/internal/interfaces/http"
	"github.com/jmorales/inventario-pos/pkg/config"
	"github.com/jmorales/inventario-pos/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()

	if cfg.DB.Migrate {
		if err := postgres.RunMigrations(cfg.DB.ConnectionString()); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Msg("migraciones aplicadas")
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	overrideRepo := postgres.NewStockOverrideRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Caché de catálogo: Redis si está configurado, noop si no.
	var productCache usecase.ProductCache
	if cfg.Redis.Addr != "" {
		redisCache := infracache.NewRedisProductCache(
			cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			time.Duration(cfg.Redis.TTLSecs)*time.Second,
		)
		if err := redisCache.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("Redis no disponible, catálogo sin caché")
			productCache = infracache.NewNoopProductCache()
		} else {
			defer redisCache.Close()
			productCache = redisCache
			log.Info().Str("addr", cfg.Redis.Addr).Msg("caché de catálogo en Redis")
		}
	} else {
		productCache = infracache.NewNoopProductCache()
	}

	registerMovementUC := inventory.NewRegisterMovementUseCase(txRunner, productRepo, movementRepo)
	productUC := usecase.NewProductUseCase(productRepo, registerMovementUC, txRunner, overrideRepo, productCache, log.Component("catalog"))
	userUC := usecase.NewUserUseCase(userRepo)

	carts := sales.NewCartStore()
	commitSaleUC := sales.NewCommitSaleUseCase(txRunner, userRepo, movementRepo, carts, productUC)

	monthlyReportUC := reports.NewMonthlyReportUseCase(movementRepo, productRepo)
	dashboardUC := reports.NewDashboardUseCase(movementRepo, productRepo)

	receiptPDF := infrapdf.NewMarotoReceiptGenerator()
	reportPDF := infrapdf.NewMarotoReportGenerator()
	csvExporter := export.NewCSVExporter()
	excelExporter := export.NewExcelExporter()

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Inventario POS API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:        productUC,
		UserUC:           userUC,
		RegisterMovement: registerMovementUC,
		Carts:            carts,
		ProductRepo:      productRepo,
		CommitSale:       commitSaleUC,
		ReceiptPDF:       receiptPDF,
		MonthlyReport:    monthlyReportUC,
		Dashboard:        dashboardUC,
		CSVExporter:      csvExporter,
		ExcelExporter:    excelExporter,
		PDFExporter:      reportPDF,
		AuthUC:           authUC,
		JWTSecret:        cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
