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

	"github.com/tu-usuario/asset-registry/internal/application/assets"
	"github.com/tu-usuario/asset-registry/internal/application/attachment"
	"github.com/tu-usuario/asset-registry/internal/application/sapimport"
	"github.com/tu-usuario/asset-registry/internal/application/stocktake"
	infraexcel "github.com/tu-usuario/asset-registry/internal/infrastructure/excel"
	infrapdf "github.com/tu-usuario/asset-registry/internal/infrastructure/pdf"
	"github.com/tu-usuario/asset-registry/internal/infrastructure/postgres"
	"github.com/tu-usuario/asset-registry/internal/infrastructure/storage"
	httpRouter "github.com/tu-usuario/asset-registry/internal/interfaces/http"
	"github.com/tu-usuario/asset-registry/internal/jobs"
	"github.com/tu-usuario/asset-registry/pkg/config"
	"github.com/tu-usuario/asset-registry/pkg/logger"
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

	stagingRepo := postgres.NewStagingRepository(pool)
	stocktakeRepo := postgres.NewStocktakeRepository(pool)
	assetRepo := postgres.NewAssetRepository(pool)

	fileStore, staticMount, err := storage.NewFileStore(cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento de imágenes")
	}
	saga := attachment.NewSaga(fileStore, log)

	importSvc := sapimport.NewService(stagingRepo, sapimport.Options{
		DropDir:           cfg.SAP.DropDir,
		Files:             cfg.SAP.Files,
		RetentionDays:     cfg.SAP.RetentionDays,
		PurgeBatchSize:    cfg.SAP.PurgeBatchSize,
		DeactivateMissing: cfg.SAP.DeactivateMissing,
	}, log)
	importJob := jobs.NewImportJob(importSvc, log)

	cronRunner, err := jobs.Schedule(cfg.SAP, importJob, log)
	if err != nil {
		log.Fatal().Err(err).Msg("programación del import SAP")
	}

	stocktakeUC := stocktake.NewUseCase(stocktakeRepo, saga, log)
	reportUC := stocktake.NewReportUseCase(stocktakeRepo,
		infraexcel.NewStocktakeWorkbookBuilder(),
		infrapdf.NewMarotoSummaryBuilder(),
	)
	assetUC := assets.NewUseCase(assetRepo, saga)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    25 << 20, // fotos de evidencia + archivos de conteo
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Asset Registry API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "db": err.Error()})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	// Las imágenes guardadas se sirven estáticas bajo su prefijo público.
	app.Static(staticMount.RoutePath, staticMount.DirPath)

	httpRouter.Router(app, httpRouter.RouterDeps{
		AssetUC:     assetUC,
		StocktakeUC: stocktakeUC,
		ReportUC:    reportUC,
		ImportJob:   importJob,
		JWTSecret:   cfg.JWT.Secret,
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

	if cronRunner != nil {
		// Esperar a que termine una corrida en curso antes de soltar el proceso.
		<-cronRunner.Stop().Done()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
