package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"

	httpapi "github.com/mrgud155/weatherman/internal/api/http"
	"github.com/mrgud155/weatherman/internal/config"
	"github.com/mrgud155/weatherman/internal/ingest"
	"github.com/mrgud155/weatherman/internal/scheduler"
	"github.com/mrgud155/weatherman/internal/store/postgres"
	"github.com/mrgud155/weatherman/internal/weatherapi"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Database pool, shared by the collector and the read API. Each
	// operation acquires its own connection scope from the pool.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		cancel()
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer pool.Close()

	st := postgres.New(pool)
	if err := st.Health(ctx); err != nil {
		cancel()
		log.Fatalf("database unreachable: %v", err)
	}
	if cfg.AutoMigrate {
		if err := st.EnsureSchema(ctx); err != nil {
			cancel()
			log.Fatalf("failed to apply schema: %v", err)
		}
	}
	if err := st.CheckSchema(ctx); err != nil {
		cancel()
		log.Fatalf("schema check failed: %v", err)
	}
	cancel()

	// Ingestion pipeline: upstream client -> mapper -> store.
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	client := weatherapi.NewClient(httpClient, cfg.WeatherAPIKey)
	pipeline := ingest.NewPipeline(client, st)

	sched := scheduler.New(cfg.Entries, pipeline.Collect)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weatherman",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := st.Health(c.Context()); err != nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "database unreachable")
		}
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weatherman",
		})
	})

	httpapi.RegisterRoutes(app, st, httpapi.NewStaticTokens(cfg.APITokens))

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-sigCtx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
