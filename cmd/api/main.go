package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"travelapi/docs"
	"travelapi/internal/analytics"
	"travelapi/internal/config"
	"travelapi/internal/database"
	"travelapi/internal/database/migration"
	handlers "travelapi/internal/http/handler"
	"travelapi/internal/http/middleware"
	"travelapi/internal/logger"
	"travelapi/internal/mail"
	appotel "travelapi/internal/otel"
	"travelapi/internal/repository/postgres"
	"travelapi/internal/schema"
	"travelapi/internal/security"
	"travelapi/internal/service"
	"travelapi/internal/storage"
	"travelapi/internal/validator"
)

// @title Travel API
// @version 1.0
// @description Schema-validated travel records and user signup.
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg, err := config.Load()
	if err != nil {
		logger.New(os.Stderr, time.UTC).Fatal("config_load_failed", zap.Error(err))
	}

	log := logger.New(os.Stdout, cfg.Location())
	defer log.Sync()
	zap.ReplaceGlobals(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := appotel.Init(ctx, cfg.Tracing, log)
	if err != nil {
		log.Fatal("tracing_init_failed", zap.Error(err))
	}

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		log.Fatal("db_connect_failed", zap.Error(err))
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
		log.Fatal("db_migration_failed", zap.Error(err))
	}

	// Outgoing mail is queued as .eml objects in the bucket
	objStore, err := storage.NewMinIO(ctx, cfg.MinIO)
	if err != nil {
		log.Fatal("object_storage_init_failed", zap.Error(err))
	}

	recorder, err := analytics.NewRecorder(cfg.Analytics.CountersID, prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatal("analytics_init_failed", zap.Error(err))
	}
	promMW, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatal("metrics_init_failed", zap.Error(err))
	}

	registry, err := schema.NewRegistry(schema.Builtin()...)
	if err != nil {
		log.Fatal("schema_registry_invalid", zap.Error(err))
	}
	v := validator.New(registry)

	// Initialize repositories and services
	docRepo := postgres.NewDocumentPostgres(db)
	counterRepo := postgres.NewAnalyticsPostgres(db)
	recordSvc := service.NewRecordService(v, docRepo, log)
	signupSvc := service.NewSignupService(service.SignupDeps{
		Documents: docRepo,
		Tx:        postgres.NewTxManager(db),
		Validator: v,
		Hasher:    security.NewBcryptHasher(cfg.Auth.BcryptCost),
		Renderer:  mail.NewRenderer(cfg.Mail.From, cfg.Mail.AppName, cfg.Mail.BaseURL),
		Mailer:    mail.NewOutbox(objStore, cfg.Mail.OutboxPrefix, cfg.Mail.From),
		Analytics: recorder,
		Logger:    log,
	})

	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(),
		DisableStartupMessage: true,
	})

	// Register global middleware
	app.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(promMW.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	handlers.RegisterRoutes(app, handlers.Dependencies{
		DB:        db,
		Registry:  registry,
		Records:   recordSvc,
		Signup:    signupSvc,
		Analytics: recorder,
		Counters:  counterRepo,
	})

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	addr := ":" + cfg.Port
	serverErr := make(chan error, 1)
	go func() {
		log.Info("server_starting", zap.String("addr", addr), zap.String("public_host", cfg.AppHost))
		serverErr <- app.Listen(addr)
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error("server_failed", zap.Error(err))
		}
	case <-ctx.Done():
		log.Info("server_stopping")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("server_shutdown_failed", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("tracing_shutdown_failed", zap.Error(err))
	}
}
