package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"

	"processapi/docs"
	"processapi/internal/auth"
	"processapi/internal/config"
	"processapi/internal/database"
	"processapi/internal/database/migration"
	handlers "processapi/internal/http/handler"
	"processapi/internal/http/middleware"
	"processapi/internal/kv"
	"processapi/internal/logging"
	"processapi/internal/otel"
	"processapi/internal/repository/postgres"
	"processapi/internal/resource"
	"processapi/internal/service"
	"processapi/internal/storage"
)

// @title Process API
// @version 1.0
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	loc := cfg.Location()
	logger := logging.New(os.Stdout, cfg.LogLevel, loc)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, logger)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if cfg.RunMigrations {
		if err := migration.EnsureMigrated(ctx, db, logger, cfg.Database.Host); err != nil {
			log.Fatalf("failed to migrate database: %v", err)
		}
	}

	// Initialize reusable S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	// Key-value factory: Redis when configured, in-memory otherwise
	var kvFactory kv.Factory
	if cfg.Redis.URL != "" {
		rf, err := kv.NewRedis(ctx, cfg.Redis)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer rf.Close()
		kvFactory = rf
	} else {
		logger.Warn("redis not configured, using in-memory key-value store")
		kvFactory = kv.NewMemoryFactory()
	}

	verifier, err := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)
	if err != nil {
		log.Fatalf("failed to initialize token verifier: %v", err)
	}

	// Initialize repositories, services and resources
	processRepo := postgres.NewProcessPostgres(db)
	processSvc := service.NewProcessService(objStore, processRepo)
	duplicateRes := resource.NewDuplicateProcessResource(kvFactory, logger.With("channel", "rest"), processSvc)

	reg := prometheus.NewRegistry()
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	app.Use(fiberrecover.New())
	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware())
	app.Use(middleware.AccessLog(logger))
	app.Use(promMiddleware.Handler())
	app.Use(middleware.Authenticate(verifier))

	handlers.RegisterRoutes(app, handlers.Dependencies{
		DB:        db,
		KV:        kvFactory,
		Processes: processSvc,
		Duplicate: duplicateRes,
		Metrics:   reg,
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

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", "error", err)
		}
	}()

	addr := ":" + cfg.Port
	logger.Info("server starting", "addr", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracing(flushCtx); err != nil {
		logger.Error("tracing shutdown failed", "error", err)
	}
}
