package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/SumantMunagala/civiclens/docs"
	"github.com/SumantMunagala/civiclens/internal/config"
	"github.com/SumantMunagala/civiclens/internal/database"
	"github.com/SumantMunagala/civiclens/internal/datasets"
	"github.com/SumantMunagala/civiclens/internal/handlers"
	"github.com/SumantMunagala/civiclens/internal/logger"
	"github.com/SumantMunagala/civiclens/internal/middleware"
	"github.com/SumantMunagala/civiclens/internal/services"
	"github.com/SumantMunagala/civiclens/internal/telemetry"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/joho/godotenv"
)

// @title CivicLens API
// @version 1.0.0
// @description Civic public-safety data proxy: crime, 311, fire, and transit overlays for the dashboard map
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	if err := logger.Init(); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Load configuration
	cfg := config.Load()

	// Initialize OpenTelemetry tracer
	ctx := context.Background()
	tracerShutdown, err := telemetry.InitTracer(ctx, "civiclens-api", cfg.OTelEndpoint)
	if err != nil {
		log.Printf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tracerShutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	// Initialize OpenTelemetry metrics
	meterShutdown, err := telemetry.InitMeter(ctx, "civiclens-api", cfg.OTelEndpoint)
	if err != nil {
		log.Printf("Failed to initialize metrics: %v", err)
	}
	defer func() {
		if err := meterShutdown(ctx); err != nil {
			log.Printf("Error shutting down metrics: %v", err)
		}
	}()

	// Initialize database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "CivicLens API",
		ErrorHandler: handlers.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     `{"time":"${time}","status":${status},"latency":"${latency}","ip":"${ip}","method":"${method}","path":"${path}","user_agent":"${ua}","error":"${error}"}` + "\n",
		TimeFormat: "2006-01-02T15:04:05Z07:00",
	}))
	app.Use(telemetry.New(telemetry.Config{
		ServiceName: "civiclens-api",
	}))
	app.Use(middleware.PrometheusMiddleware())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowHeaders:     "Accept, Accept-Encoding, Authorization, Content-Type, DNT, Origin, User-Agent, X-Requested-With",
		AllowCredentials: false,
		ExposeHeaders:    "Content-Length, Content-Type",
		MaxAge:           86400,
	}))

	// Shared services
	cache := services.NewCacheService(db)
	datasetSvc := services.NewDatasetService(cache)

	setupRoutes(app, db, cache, datasetSvc, cfg)

	// Optional cache prewarm loop
	if cfg.CacheWarmSchedule != "" {
		warmSets := []datasets.Dataset{
			datasets.NewCrime(cfg.CrimeAPIURL),
			datasets.NewService(cfg.ServiceAPIURL),
			datasets.NewFire(cfg.FireAPIURL),
		}
		warmer, err := services.NewWarmer(datasetSvc, warmSets, cfg.CacheWarmSchedule)
		if err != nil {
			log.Fatalf("Invalid CACHE_WARM_SCHEDULE: %v", err)
		}
		warmer.Start()
		defer warmer.Stop()
		log.Printf("Cache warmer scheduled: %s", cfg.CacheWarmSchedule)
	}

	// Start server
	port := cfg.ServerPort
	if port == "" {
		port = "3000"
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		log.Println("Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("Error shutting down server: %v", err)
		}
	}()

	log.Printf("Server starting on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRoutes(app *fiber.App, db *database.DB, cache *services.CacheService, datasetSvc *services.DatasetService, cfg *config.Config) {
	// Swagger UI
	app.Get("/api/docs/*", swagger.HandlerDefault)

	// Health check endpoints for k8s probes
	app.Get("/healthz", handlers.HealthCheck)
	app.Get("/api/readiness", handlers.ReadinessCheck(db))
	app.Get("/api/liveness", handlers.LivenessCheck)

	// Prometheus scrape endpoint
	app.Get("/metrics", middleware.PrometheusHandler())

	api := app.Group("/api")

	// Auth routes (no auth required)
	auth := api.Group("/auth")
	handlers.SetupAuthRoutes(auth, db, cfg)

	// Dataset routes (public)
	handlers.SetupDatasetRoutes(api, datasetSvc, cfg)

	// Search proxy (public)
	handlers.SetupSearchRoutes(api, cfg)

	// Settings routes (auth required)
	settings := api.Group("", middleware.AuthRequired(cfg))
	handlers.SetupSettingsRoutes(settings, db)

	// Admin routes (bearer secret checked in the handler)
	admin := api.Group("/admin")
	handlers.SetupAdminRoutes(admin, cache, cfg)
}
