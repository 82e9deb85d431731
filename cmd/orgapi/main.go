// Command orgapi runs the organization HTTP API.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/platform-smith-labs/orgapi/api"
	"github.com/platform-smith-labs/orgapi/config"
	"github.com/platform-smith-labs/orgapi/db"
	"github.com/platform-smith-labs/orgapi/handler"
	"github.com/platform-smith-labs/orgapi/metrics"
	httpMiddleware "github.com/platform-smith-labs/orgapi/middleware/http"
	"github.com/platform-smith-labs/orgapi/repository"
	"github.com/platform-smith-labs/orgapi/router"
	"github.com/platform-smith-labs/orgapi/service"
	"github.com/platform-smith-labs/orgapi/swagger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Log.Level)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	database, err := db.Connect(db.Config{
		Host:           cfg.Database.Host,
		Port:           cfg.Database.Port,
		User:           cfg.Database.User,
		Password:       cfg.Database.Password,
		Database:       cfg.Database.Name,
		SSLMode:        cfg.Database.SSLMode,
		MaxOpenConns:   cfg.Database.MaxOpenConns,
		MaxIdleConns:   cfg.Database.MaxIdleConns,
		MaxLifetime:    cfg.Database.MaxLifetime,
		MaxIdleTime:    cfg.Database.MaxIdleTime,
		AcquireTimeout: cfg.Database.AcquireTimeout,
	})
	if err != nil {
		return err
	}
	defer database.Close()

	logger.Info("Connected to database",
		"host", cfg.Database.Host,
		"database", cfg.Database.Name,
		"max_open_conns", cfg.Database.MaxOpenConns,
	)

	if cfg.Database.Migrate {
		if err := db.Migrate(context.Background(), database); err != nil {
			return err
		}
		logger.Info("Applied database migrations")
	}

	pool := db.NewPool(database, cfg.Database.AcquireTimeout)
	repo := repository.NewOrganizationRepository()
	orgService := service.NewOrganizationService(pool, repo, logger)

	r := router.New(cfg.CORS.AllowedOrigins)
	r.Use(httpMiddleware.WithRequestID())
	r.Use(httpMiddleware.WithLogging(logger))
	r.Use(httpMiddleware.WithContentType("application/json"))

	if cfg.Metrics.Enabled {
		metrics.Enable(r, cfg.Metrics.Path)
	}

	registry := handler.NewRegistry()
	api.RegisterRoutes(registry, orgService, cfg.Auth.JWTSecret)
	registry.Register(r, database, logger)

	r.Method("GET", "/health", api.HealthHandler(database))

	swagger.SetupSwaggerUI(r, registry)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("Shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("Server stopped")
	return nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
