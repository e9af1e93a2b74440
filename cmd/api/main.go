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

	"github.com/jhoicas/Aprobaciones-api/internal/application/auth"
	"github.com/jhoicas/Aprobaciones-api/internal/application/capture"
	"github.com/jhoicas/Aprobaciones-api/internal/application/importer"
	appworkflow "github.com/jhoicas/Aprobaciones-api/internal/application/workflow"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/department"
	"github.com/jhoicas/Aprobaciones-api/internal/infrastructure/docintel"
	infrapdf "github.com/jhoicas/Aprobaciones-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Aprobaciones-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Aprobaciones-api/internal/interfaces/http"
	"github.com/jhoicas/Aprobaciones-api/pkg/config"
	"github.com/jhoicas/Aprobaciones-api/pkg/logger"
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

	userRepo := postgres.NewUserRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	historyRepo := postgres.NewPriceHistoryRepository(pool)
	changeRepo := postgres.NewPriceChangeRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	resolver := department.NewResolver(cfg.Departments)

	// Azure Document Intelligence: si no hay credenciales el endpoint de
	// captura responde error de servicio externo; /health lo refleja.
	analyzer := docintel.NewAzureService(cfg.Azure.Endpoint, cfg.Azure.Key)
	if !cfg.Azure.Configured() {
		log.Warn().Msg("Azure Document Intelligence sin configurar; la captura PDF no estará disponible")
	}

	captureUC := capture.NewCaptureUseCase(analyzer, txRunner)
	approvalUC := appworkflow.NewApprovalUseCase(txRunner, invoiceRepo, historyRepo, changeRepo, resolver)
	importUC := importer.NewImportUseCase(txRunner)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	reportGen := infrapdf.NewPriceReportGenerator()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Aprobaciones API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		CaptureUC:       captureUC,
		ApprovalUC:      approvalUC,
		ImportUC:        importUC,
		AuthUC:          authUC,
		ReportGen:       reportGen,
		JWTSecret:       cfg.JWT.Secret,
		AppName:         cfg.App.Name,
		AzureConfigured: cfg.Azure.Configured(),
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
