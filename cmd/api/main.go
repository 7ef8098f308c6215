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

	"github.com/jhoicas/inventario-distribucion/internal/application/inventory"
	"github.com/jhoicas/inventario-distribucion/internal/application/report"
	"github.com/jhoicas/inventario-distribucion/internal/application/usecase"
	"github.com/jhoicas/inventario-distribucion/internal/domain/repository"
	"github.com/jhoicas/inventario-distribucion/internal/domain/transfer"
	"github.com/jhoicas/inventario-distribucion/internal/infrastructure/excel"
	"github.com/jhoicas/inventario-distribucion/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/inventario-distribucion/internal/infrastructure/pdf"
	"github.com/jhoicas/inventario-distribucion/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-distribucion/internal/infrastructure/records"
	"github.com/jhoicas/inventario-distribucion/internal/infrastructure/redisstore"
	httpRouter "github.com/jhoicas/inventario-distribucion/internal/interfaces/http"
	"github.com/jhoicas/inventario-distribucion/pkg/config"
	"github.com/jhoicas/inventario-distribucion/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == config.DevJWTSecret {
		log.Warn().Msg("JWT_SECRET vacío, usando secreto de desarrollo")
	}

	ctx := context.Background()

	// ── Almacén de registros ────────────────────────────────────────────────
	var (
		repos repository.Set
		tx    repository.TxRunner
	)
	switch cfg.Store.Driver {
	case config.StorePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Str("db", postgres.RedactedURL(cfg.DB)).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.Migrate(pool); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		repos = records.NewSet(postgres.NewRecordStore(pool, cfg.Store.Timeout))
		tx = postgres.NewTxRunner(pool, cfg.Store.Timeout, records.NewSet)
	default:
		store := memory.NewStore()
		repos = records.NewSet(store)
		tx = memory.NewTxRunner(store, records.NewSet)
		log.Warn().Msg("almacén en memoria: los datos se pierden al reiniciar")
	}

	// ── Borradores de entrada ───────────────────────────────────────────────
	var drafts repository.DraftStore
	if cfg.Redis.Addr != "" {
		client, err := redisstore.Connect(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		defer client.Close()
		drafts = redisstore.NewDraftStore(client, cfg.Redis.DraftTTL)
	} else {
		drafts = memory.NewDraftStore(cfg.Redis.DraftTTL)
	}

	// ── Casos de uso ────────────────────────────────────────────────────────
	categoryUC := usecase.NewCategoryUseCase(repos.Categories, tx, log)
	productUC := usecase.NewProductUseCase(repos.Products, repos.Categories, tx, log)
	vendorUC := usecase.NewVendorUseCase(repos.Vendors, repos.Products, repos.Categories, tx, log)
	warehouseUC := usecase.NewWarehouseUseCase(repos.Warehouses, tx, log)
	stockEntryUC := inventory.NewStockEntryUseCase(repos, tx, drafts, log)
	transferUC := inventory.NewTransferUseCase(repos, tx, transfer.NewRandomPicker(cfg.App.RandomSeed), log)
	reportUC := report.NewUseCase(repos, infrapdf.NewMarotoSlipRenderer(cfg.App.Name), excel.InventoryExporter{}, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    8 * 1024 * 1024,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs (requiere swag init)
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Inventario Distribución API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.Store.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CategoryUC:   categoryUC,
		ProductUC:    productUC,
		VendorUC:     vendorUC,
		WarehouseUC:  warehouseUC,
		StockEntryUC: stockEntryUC,
		TransferUC:   transferUC,
		ReportUC:     reportUC,
		JWTSecret:    cfg.JWT.Secret,
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
