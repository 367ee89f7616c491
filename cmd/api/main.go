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

	"github.com/jhoicas/almacen-obra/internal/application/auth"
	"github.com/jhoicas/almacen-obra/internal/application/contractor"
	"github.com/jhoicas/almacen-obra/internal/application/extract"
	"github.com/jhoicas/almacen-obra/internal/application/store"
	infraexcel "github.com/jhoicas/almacen-obra/internal/infrastructure/excel"
	infrapdf "github.com/jhoicas/almacen-obra/internal/infrastructure/pdf"
	"github.com/jhoicas/almacen-obra/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/almacen-obra/internal/interfaces/http"
	"github.com/jhoicas/almacen-obra/pkg/config"
	"github.com/jhoicas/almacen-obra/pkg/logger"
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

	// Repositorios sobre el pool (lecturas fuera de transacción)
	lotRepo := postgres.NewLotRepository(pool)
	ledgerRepo := postgres.NewLedgerRepository(pool)
	contractorRepo := postgres.NewContractorRepository(pool)
	issueRepo := postgres.NewContractorIssueRepository(pool)
	deductionRepo := postgres.NewContractorDeductionRepository(pool)
	materialRepo := postgres.NewMaterialRepository(pool)
	extractRepo := postgres.NewExtractRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Casos de uso
	intakeUC := store.NewIntakeUseCase(txRunner, lotRepo)
	issueUC := store.NewIssueUseCase(txRunner, lotRepo)
	summaryUC := store.NewSummaryUseCase(lotRepo, ledgerRepo, infraexcel.NewSummaryExporter())
	contractorUC := contractor.NewUseCase(contractorRepo, issueRepo, deductionRepo)
	materialsUC := contractor.NewMaterialsUseCase(contractorRepo, materialRepo)
	extractUC := extract.NewUseCase(txRunner, extractRepo, contractorRepo, infrapdf.NewMarotoPDFGenerator())
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
		Title:    "Almacén de Obra API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		IntakeUC:     intakeUC,
		IssueUC:      issueUC,
		SummaryUC:    summaryUC,
		ContractorUC: contractorUC,
		MaterialsUC:  materialsUC,
		ExtractUC:    extractUC,
		AuthUC:       authUC,
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
