// Package main is the entry point for the careguide taxonomy server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"careguide/internal/cache"
	"careguide/internal/config"
	"careguide/internal/database"
	"careguide/internal/handlers"
	"careguide/internal/importer"
	"careguide/internal/router"
	"careguide/internal/store"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Connect to Valkey for the guideline read cache.
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	guidelineCache := cache.NewGuidelineCache(valkeyClient, cache.DefaultGuidelineTTL)

	// Initialize data stores.
	categoryStore := store.NewCategoryStore(db)
	guidelineStore := store.NewGuidelineStore(db)
	tagStore := store.NewTagStore(db)
	revisionStore := store.NewRevisionStore(db)

	// Load the initial taxonomy in development (no-op when data exists).
	if cfg.IsDev() && cfg.ImportFile != "" {
		im := importer.New(categoryStore, guidelineStore, tagStore)
		if err := im.Run(cfg.ImportFile); err != nil {
			slog.Error("failed to import taxonomy", "file", cfg.ImportFile, "error", err)
			os.Exit(1)
		}
	}

	// Create handler groups with their dependencies.
	categoryHandlers := handlers.NewCategories(categoryStore, guidelineCache)
	guidelineHandlers := handlers.NewGuidelines(guidelineStore, revisionStore, guidelineCache)
	tagHandlers := handlers.NewTags(tagStore, guidelineCache)

	// Set up the Chi router with all middleware and routes.
	r := router.New(categoryHandlers, guidelineHandlers, tagHandlers)

	// Create the HTTP server with sensible timeouts.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
