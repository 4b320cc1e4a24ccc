package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flowpark/backend/internal/auth"
	"github.com/flowpark/backend/internal/cache"
	"github.com/flowpark/backend/internal/config"
	httpdelivery "github.com/flowpark/backend/internal/delivery/http"
	"github.com/flowpark/backend/internal/domain"
	"github.com/flowpark/backend/internal/provider"
	"github.com/flowpark/backend/internal/repository/postgres"
	"github.com/flowpark/backend/internal/scheduler"
	"github.com/flowpark/backend/internal/scoring"
	"github.com/flowpark/backend/internal/service"
	"github.com/flowpark/backend/internal/weather"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Audit store: Postgres when configured, in-memory mock otherwise
	var repo domain.AuditRepository
	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		pool, err = pgxpool.New(ctx, cfg.DatabaseURL)
		cancel()
		if err != nil {
			log.Printf("Warning: Could not connect to database: %v", err)
			pool = nil
		}
	}
	if pool != nil {
		defer pool.Close()
		log.Println("Connected to PostgreSQL")
		repo = postgres.NewPostgresRepository(pool)
	} else {
		log.Println("Running with in-memory audit store")
		repo = postgres.NewMockRepository()
	}

	// Dependency Injection: providers and services
	registry := provider.NewRegistry(
		provider.NewLaval(),
		provider.NewRennes(),
	)
	aggregationSvc := service.NewAggregationService(
		registry,
		weather.NewLookup(),
		scoring.NewEngine(),
		cache.New(cfg.CacheTTL),
		repo,
	)
	verifier := auth.NewHTTPVerifier(cfg.IdentityVerifyURL)

	// Fiber App
	app := fiber.New(fiber.Config{
		AppName:      "FlowPark API v1.0",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Routes
	httpdelivery.SetupRoutes(app, aggregationSvc, repo, verifier, cfg.AllowAnonymous)

	// Cache warm-up scheduler
	if cfg.WarmInterval > 0 {
		sched := scheduler.New(aggregationSvc, cfg.WarmInterval)
		if err := sched.Start(); err != nil {
			log.Printf("Warning: Could not start cache warm-up scheduler: %v", err)
		} else {
			defer sched.Stop()
		}
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	// Let in-flight audit writes finish before closing the pool
	aggregationSvc.WaitBackground()
	log.Println("Server exited gracefully")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
