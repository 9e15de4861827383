package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/ahmetcoskunkizilkaya/echo-journal/internal/apps"
	"github.com/ahmetcoskunkizilkaya/echo-journal/internal/apps/echo"
	"github.com/ahmetcoskunkizilkaya/echo-journal/internal/config"
	"github.com/ahmetcoskunkizilkaya/echo-journal/internal/database"
	"github.com/ahmetcoskunkizilkaya/echo-journal/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/echo-journal/internal/logging"
	"github.com/ahmetcoskunkizilkaya/echo-journal/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/echo-journal/internal/routes"
	"github.com/ahmetcoskunkizilkaya/echo-journal/internal/scheduler"
	"github.com/ahmetcoskunkizilkaya/echo-journal/internal/services"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "driver", cfg.DBDriver, "error", err)
		os.Exit(1)
	}

	if err := database.MigrateShared(); err != nil {
		slog.Error("shared migration failed", "error", err)
		os.Exit(1)
	}

	// Database log handler (ERROR+ async batch)
	dbLogHandler := logging.WithDatabase(database.DB)

	// Services
	authService := services.NewAuthService(database.DB, cfg)

	plugins := []apps.Plugin{
		echo.New(authService),
	}

	// Migrate plugin models
	for _, p := range plugins {
		if models := p.Models(); len(models) > 0 {
			if err := database.MigrateModels(models); err != nil {
				slog.Error("plugin migration failed", "plugin", p.ID(), "error", err)
				os.Exit(1)
			}
			slog.Info("plugin migrated", "plugin", p.ID(), "models", len(models))
		}
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	healthHandler := handlers.NewHealthHandler(database.Ping, len(plugins))

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	routes.Setup(app, cfg, database.DB, authHandler, healthHandler, plugins)

	// Background jobs (run after routes so plugin state exists)
	sched := scheduler.New(cfg.Location())
	jobs := []scheduler.Job{{
		Name: "logging.purge-system-logs",
		Spec: "0 3 * * *",
		Run: func(ctx context.Context) error {
			n, err := logging.PurgeSystemLogs(ctx, database.DB, cfg.LogRetentionDays, time.Now())
			if err != nil {
				return err
			}
			slog.Info("system logs purged", "deleted", n, "retention_days", cfg.LogRetentionDays)
			return nil
		},
	}}
	for _, p := range plugins {
		if sp, ok := p.(apps.ScheduledPlugin); ok {
			jobs = append(jobs, sp.Jobs(cfg)...)
		}
	}
	for _, job := range jobs {
		if err := sched.Add(job); err != nil {
			slog.Error("job registration failed", "error", err)
			os.Exit(1)
		}
	}
	sched.Start()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	sched.Stop()
	dbLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := database.Close(); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
