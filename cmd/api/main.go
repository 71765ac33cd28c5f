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

	"github.com/cloudbpo/conteo-api/internal/application/auth"
	appcounting "github.com/cloudbpo/conteo-api/internal/application/counting"
	"github.com/cloudbpo/conteo-api/internal/application/usecase"
	"github.com/cloudbpo/conteo-api/internal/infrastructure/localcache"
	infrapdf "github.com/cloudbpo/conteo-api/internal/infrastructure/pdf"
	"github.com/cloudbpo/conteo-api/internal/infrastructure/postgres"
	"github.com/cloudbpo/conteo-api/internal/infrastructure/storage"
	httpRouter "github.com/cloudbpo/conteo-api/internal/interfaces/http"
	"github.com/cloudbpo/conteo-api/pkg/config"
	"github.com/cloudbpo/conteo-api/pkg/logger"
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

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	sectorRepo := postgres.NewSectorRepository(pool)
	countingRepo := postgres.NewCountingRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	messageRepo := postgres.NewMessageRepository(pool)
	notificationRepo := postgres.NewNotificationRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Caché SQLite para que la captura pública sobreviva cortes del remoto.
	var cache *localcache.Store
	if cfg.Cache.Enabled {
		cache, err = localcache.Open(cfg.Cache.Path)
		if err != nil {
			// Sin caché se sigue operando solo contra la primaria.
			log.Warn().Err(err).Str("path", cfg.Cache.Path).Msg("caché local deshabilitado")
			cache = nil
		} else {
			defer cache.Close()
		}
	}
	selector := storage.NewSelector(pool, countingRepo, cache, log)

	countingUC := appcounting.NewCountingUseCase(countingRepo, sectorRepo, movementRepo)
	entryUC := appcounting.NewEntryUseCase(selector, notificationRepo, log)
	approveUC := appcounting.NewApproveUseCase(txRunner, countingRepo)
	reportUC := appcounting.NewReportUseCase(
		countingRepo, companyRepo, productRepo, sectorRepo,
		infrapdf.NewMarotoReportGenerator(),
	)

	companyUC := usecase.NewCompanyUseCase(companyRepo)
	productUC := usecase.NewProductUseCase(productRepo)
	sectorUC := usecase.NewSectorUseCase(sectorRepo, productRepo)
	userUC := usecase.NewUserUseCase(userRepo)
	messageUC := usecase.NewMessageUseCase(messageRepo, userRepo, notificationRepo)
	notificationUC := usecase.NewNotificationUseCase(notificationRepo)
	authUC := auth.NewAuthUseCase(userRepo, companyRepo, auth.JWTConfig{
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
		Title:    "CloudBPO Conteo API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		CompanyUC:      companyUC,
		ProductUC:      productUC,
		SectorUC:       sectorUC,
		UserUC:         userUC,
		MessageUC:      messageUC,
		NotificationUC: notificationUC,
		CountingUC:     countingUC,
		ApproveUC:      approveUC,
		ReportUC:       reportUC,
		EntryUC:        entryUC,
		JWTSecret:      cfg.JWT.Secret,
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
