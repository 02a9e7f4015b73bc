package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Ventas-api/internal/application/checkout"
	"github.com/jhoicas/Ventas-api/internal/application/inventory"
	"github.com/jhoicas/Ventas-api/internal/application/ledger"
	"github.com/jhoicas/Ventas-api/internal/application/operation"
	"github.com/jhoicas/Ventas-api/internal/application/transfer"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/pricing"
	httpRouter "github.com/jhoicas/Ventas-api/internal/interfaces/http"
	"github.com/jhoicas/Ventas-api/pkg/config"
	"github.com/jhoicas/Ventas-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Repositorios atados al pool (lecturas y guard de idempotencia).
	// Los repos transaccionales los construye el TxRunner por cada tx.
	movementRepo := postgres.NewMovementRepository(pool)
	levelRepo := postgres.NewLevelRepository(pool)
	reservationRepo := postgres.NewReservationRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	transferRepo := postgres.NewTransferRepository(pool)
	itemRepo := postgres.NewItemRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	operationRepo := postgres.NewOperationRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	guard := operation.NewGuard(operationRepo, log)
	pricingResolver := pricing.NewItemResolver(itemRepo)

	ledgerUC := ledger.NewUseCase(txRunner, movementRepo, levelRepo, itemRepo, locationRepo, guard, log)
	inventoryUC := inventory.NewUseCase(txRunner, levelRepo, reservationRepo, itemRepo, locationRepo, cfg.Reservation.TTL, log)
	checkoutUC := checkout.NewUseCase(txRunner, pricingResolver, itemRepo, locationRepo, saleRepo, guard, cfg.Reservation.TTL, log)
	transferUC := transfer.NewUseCase(txRunner, transferRepo, itemRepo, locationRepo, guard, cfg.Reservation.TransferTTL, log)

	// Barrido de reservas vencidas en segundo plano.
	sweeper := inventory.NewSweeper(inventoryUC, cfg.Reservation.SweepInterval, cfg.Reservation.SweepBatch, log)
	go sweeper.Run(ctx)

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
		CheckoutUC:  checkoutUC,
		InventoryUC: inventoryUC,
		LedgerUC:    ledgerUC,
		TransferUC:  transferUC,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("servidor detenido")
}
