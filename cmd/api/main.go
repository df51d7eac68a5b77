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

	appstock "github.com/invorya/stock-engine/internal/application/stock"
	apptransfer "github.com/invorya/stock-engine/internal/application/transfer"
	"github.com/invorya/stock-engine/internal/infrastructure/pdf"
	"github.com/invorya/stock-engine/internal/infrastructure/postgres"
	httpRouter "github.com/invorya/stock-engine/internal/interfaces/http"
	"github.com/invorya/stock-engine/pkg/config"
	"github.com/invorya/stock-engine/pkg/logger"
)

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
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	recordRepo := postgres.NewStockRecordRepository(pool, cfg.Engine.CASMaxRetries)
	orderRepo := postgres.NewTransferOrderRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)

	mutationUC := appstock.NewMutationUseCase(recordRepo, movementRepo, log)
	allocationUC := appstock.NewAllocationUseCase(recordRepo)
	saleUC := appstock.NewSaleUseCase(allocationUC, mutationUC, log)
	queryUC := appstock.NewQueryUseCase(recordRepo, movementRepo)
	transferUC := apptransfer.NewUseCase(orderRepo, recordRepo, mutationUC, log)

	manifestGen := pdf.NewMarotoManifestGenerator()
	manifestUC := apptransfer.NewManifestUseCase(orderRepo, manifestGen)

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
		Title:    "Stock Engine API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Mutations:  mutationUC,
		Allocator:  allocationUC,
		Sale:       saleUC,
		Queries:    queryUC,
		TransferUC: transferUC,
		ManifestUC: manifestUC,
		JWTSecret:  cfg.JWT.Secret,
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
