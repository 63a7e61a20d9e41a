package main

import (
	"context"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ppmalta/AgroIPA/internal/application/catalog"
	"github.com/ppmalta/AgroIPA/internal/application/inventory"
	"github.com/ppmalta/AgroIPA/internal/application/logistics"
	"github.com/ppmalta/AgroIPA/internal/infrastructure/postgres"
	httpRouter "github.com/ppmalta/AgroIPA/internal/interfaces/http"
	"github.com/ppmalta/AgroIPA/pkg/config"
	"github.com/ppmalta/AgroIPA/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("carregar configuração: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicação")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexão com PostgreSQL")
	}
	defer pool.Close()

	// Repositórios atados ao pool (consultas fora de transação).
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	speciesRepo := postgres.NewSpeciesRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	municipalityRepo := postgres.NewMunicipalityRepository(pool)
	farmerRepo := postgres.NewFarmerRepository(pool)
	lotRepo := postgres.NewLotRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	expeditionRepo := postgres.NewExpeditionRepository(pool)
	deliveryRepo := postgres.NewDeliveryRepository(pool)
	requestRepo := postgres.NewSeedRequestRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	lowPct := cfg.Stock.LowThresholdPct

	catalogUC := catalog.New(warehouseRepo, speciesRepo, supplierRepo, municipalityRepo, farmerRepo)
	createLotUC := inventory.NewCreateLotUseCase(txRunner, warehouseRepo, speciesRepo, supplierRepo, lowPct)
	lotQueryUC := inventory.NewLotQueryUseCase(lotRepo, stockRepo)
	lotTraceUC := inventory.NewLotTraceUseCase(lotRepo, movementRepo, deliveryRepo, farmerRepo)
	stockQueryUC := inventory.NewStockQueryUseCase(stockRepo, warehouseRepo)
	transferUC := inventory.NewTransferStockUseCase(txRunner, warehouseRepo, lowPct)
	adjustUC := inventory.NewAdjustStockUseCase(txRunner, lowPct)
	movementQueryUC := inventory.NewMovementQueryUseCase(movementRepo)

	createExpUC := logistics.NewCreateExpeditionUseCase(txRunner, warehouseRepo, municipalityRepo)
	shipExpUC := logistics.NewShipExpeditionUseCase(txRunner, lowPct)
	expLifecycleUC := logistics.NewExpeditionLifecycleUseCase(txRunner)
	expQueryUC := logistics.NewExpeditionQueryUseCase(expeditionRepo)
	recordDeliveryUC := logistics.NewRecordDeliveryUseCase(txRunner, farmerRepo, deliveryRepo, log.Zerolog())
	seedRequestUC := logistics.NewSeedRequestUseCase(txRunner, speciesRepo, requestRepo)
	reviewRequestUC := logistics.NewReviewRequestUseCase(txRunner)

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
		CatalogUC:      catalogUC,
		CreateLot:      createLotUC,
		LotQuery:       lotQueryUC,
		LotTrace:       lotTraceUC,
		StockQuery:     stockQueryUC,
		Transfer:       transferUC,
		Adjust:         adjustUC,
		MovementQuery:  movementQueryUC,
		CreateExp:      createExpUC,
		ShipExp:        shipExpUC,
		ExpLifecycle:   expLifecycleUC,
		ExpQuery:       expQueryUC,
		RecordDelivery: recordDeliveryUC,
		SeedRequests:   seedRequestUC,
		ReviewRequests: reviewRequestUC,
		JWTSecret:      cfg.JWT.Secret,
	})

	// Servidor de métricas Prometheus em porta própria.
	metricsSrv := &nethttp.Server{
		Addr:    cfg.HTTP.MetricsAddr(),
		Handler: promhttp.Handler(),
	}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && err != nethttp.ErrServerClosed {
			log.Error().Err(err).Msg("servidor de métricas finalizado")
		}
	}()

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("sinal de desligamento recebido, encerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("encerramento do servidor")
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("encerramento do servidor de métricas")
	}

	log.Info().Msg("aplicação encerrada")
}
