package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"

	"github.com/jhoicas/crm-motorenting/internal/application/auth"
	"github.com/jhoicas/crm-motorenting/internal/application/customers"
	"github.com/jhoicas/crm-motorenting/internal/application/usecase"
	"github.com/jhoicas/crm-motorenting/internal/domain/access"
	"github.com/jhoicas/crm-motorenting/internal/domain/pipeline"
	"github.com/jhoicas/crm-motorenting/internal/infrastructure/postgres"
	"github.com/jhoicas/crm-motorenting/internal/infrastructure/report"
	"github.com/jhoicas/crm-motorenting/internal/infrastructure/spreadsheet"
	"github.com/jhoicas/crm-motorenting/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/crm-motorenting/internal/interfaces/http"
	"github.com/jhoicas/crm-motorenting/pkg/config"
	"github.com/jhoicas/crm-motorenting/pkg/logger"
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
		Msg("iniciando aplicación")

	ctx := context.Background()
	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(cfg.DB.ConnectionString(), log.Component("migrate")); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	customerRepo := postgres.NewCustomerRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	stateRepo := postgres.NewPipelineStateRepository(pool)
	motivationRepo := postgres.NewMotivationRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Los ids de los estados especiales se resuelven una vez al arrancar.
	states, err := stateRepo.List(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("cargar estados del embudo")
	}
	catalog, err := pipeline.NewCatalog(states, cfg.Pipeline.DefaultState, cfg.Pipeline.SaleState, cfg.Pipeline.DeadStates)
	if err != nil {
		log.Fatal().Err(err).Msg("catálogo de estados")
	}
	policy := access.NewPolicy(access.Options{DeleteStrict: cfg.Access.DeleteStrict})

	var avatars usecase.AvatarStore
	if cfg.Storage.Enabled() {
		s3Store, err := storage.NewS3AvatarStore(ctx, cfg.Storage)
		if err != nil {
			log.Fatal().Err(err).Msg("almacenamiento de avatares")
		}
		avatars = s3Store
	} else {
		log.Warn().Msg("S3 sin configurar: la subida de avatares queda deshabilitada")
	}

	customerUC := customers.NewUseCase(customers.Deps{
		Customers: customerRepo,
		Users:     userRepo,
		Tx:        txRunner,
		Policy:    policy,
		Catalog:   catalog,
		Decoder:   spreadsheet.Decoder{},
		Encoders:  []customers.ReportEncoder{report.XLSXEncoder{}, report.PDFEncoder{}},
		Logger:    log.Component("customers"),
	})
	userUC := usecase.NewUserUseCase(userRepo, policy, avatars, log.Component("users"))
	authUC := auth.NewAuthUseCase(userRepo, userUC, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	metrics := httpRouter.NewMetrics()
	app := httpRouter.NewApp(httpRouter.AppConfig{
		Name:    cfg.App.Name,
		Logger:  log,
		Metrics: metrics,
	})

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "CRM Motorenting API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		CustomerUC:   customerUC,
		UserUC:       userUC,
		StateUC:      usecase.NewStateUseCase(stateRepo),
		MotivationUC: usecase.NewMotivationUseCase(motivationRepo, policy),
		Policy:       policy,
		Metrics:      metrics,
		JWTSecret:    cfg.JWT.Secret,
		ServiceName:  cfg.App.Name,
		Ping:         pool.Ping,
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
