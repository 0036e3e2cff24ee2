package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/tu-usuario/ledger-pro/internal/application/ledger"
	"github.com/tu-usuario/ledger-pro/internal/application/sequence"
	"github.com/tu-usuario/ledger-pro/internal/application/stock"
	"github.com/tu-usuario/ledger-pro/internal/application/transfer"
	"github.com/tu-usuario/ledger-pro/internal/application/usecase"
	"github.com/tu-usuario/ledger-pro/internal/application/validation"
	"github.com/tu-usuario/ledger-pro/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/ledger-pro/internal/interfaces/http"
	"github.com/tu-usuario/ledger-pro/pkg/config"
	"github.com/tu-usuario/ledger-pro/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
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

	branchRepo := postgres.NewBranchRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	movementRepo := postgres.NewInventoryMovementRepository(pool)
	balanceRepo := postgres.NewStockBalanceRepository(pool)
	entryRepo := postgres.NewLedgerEntryRepository(pool)
	sequenceRepo := postgres.NewSequenceRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	sequenceUC := sequence.NewGeneratorUseCase(txRunner, sequenceRepo)
	stockUC := stock.NewLedgerUseCase(txRunner, productRepo, branchRepo, movementRepo, balanceRepo)
	transferUC := transfer.NewCoordinatorUseCase(txRunner, productRepo, branchRepo, movementRepo, log)
	ledgerUC := ledger.NewUseCase(txRunner, customerRepo, entryRepo)
	validatorUC := validation.NewValidatorUseCase(productRepo, branchRepo, balanceRepo)

	branchUC := usecase.NewBranchUseCase(branchRepo)
	productUC := usecase.NewProductUseCase(productRepo)
	customerUC := usecase.NewCustomerUseCase(customerRepo, sequenceUC)

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
		BranchUC:    branchUC,
		ProductUC:   productUC,
		CustomerUC:  customerUC,
		StockUC:     stockUC,
		TransferUC:  transferUC,
		SequenceUC:  sequenceUC,
		LedgerUC:    ledgerUC,
		ValidatorUC: validatorUC,
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
