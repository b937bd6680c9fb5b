package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"

	appcount "github.com/jhoicas/Kardex-api/internal/application/count"
	appledger "github.com/jhoicas/Kardex-api/internal/application/ledger"
	appreceipt "github.com/jhoicas/Kardex-api/internal/application/receipt"
	appreceiving "github.com/jhoicas/Kardex-api/internal/application/receiving"
	"github.com/jhoicas/Kardex-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Kardex-api/internal/interfaces/http"
	"github.com/jhoicas/Kardex-api/pkg/config"
	"github.com/jhoicas/Kardex-api/pkg/idgen"
	"github.com/jhoicas/Kardex-api/pkg/logger"
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
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	ids, err := idgen.NewNode(cfg.Ledger.SnowflakeNode)
	if err != nil {
		log.Fatal().Err(err).Msg("nodo snowflake")
	}

	movementRepo := postgres.NewMovementRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	seqRepo := postgres.NewSequenceRepository(pool)
	countRepo := postgres.NewCountRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	receiptRepo := postgres.NewReceiptRepository(pool)
	poRepo := postgres.NewPurchaseOrderRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	productRepo := postgres.NewProductRepository(pool)

	recorder := appledger.NewRecorder(movementRepo, warehouseRepo, stockRepo, seqRepo, ids, log)
	transfer := appledger.NewTransferCoordinator(recorder, warehouseRepo, seqRepo, log)
	countUC := appcount.NewSession(
		countRepo, warehouseRepo, productRepo, stockRepo, seqRepo,
		recorder, ids, decimal.NewFromInt(int64(cfg.Ledger.InvestigationThreshold)), log,
	)
	receiptUC := appreceipt.NewAllocator(invoiceRepo, receiptRepo, seqRepo, ids, cfg.Ledger.FinanceScope, log)
	receivingUC := appreceiving.NewAllocator(poRepo, warehouseRepo, seqRepo, recorder, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Recorder:      recorder,
		Transfer:      transfer,
		CountUC:       countUC,
		ReceiptUC:     receiptUC,
		ReceivingUC:   receivingUC,
		MovementRepo:  movementRepo,
		CountRepo:     countRepo,
		ReceiptRepo:   receiptRepo,
		PORepo:        poRepo,
		WarehouseRepo: warehouseRepo,
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
