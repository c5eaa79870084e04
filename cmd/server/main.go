package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cardy/cardy/internal/api"
	"github.com/cardy/cardy/internal/catalog"
	"github.com/cardy/cardy/internal/config"
	"github.com/cardy/cardy/internal/db"
	"github.com/cardy/cardy/internal/draw"
	"github.com/cardy/cardy/internal/kv"
	"github.com/cardy/cardy/internal/logger"
	"github.com/cardy/cardy/internal/repository"
	"github.com/cardy/cardy/internal/repository/kvstore"
	"github.com/cardy/cardy/internal/repository/sqlite"
	"github.com/cardy/cardy/internal/scheduler"
	"github.com/cardy/cardy/internal/services"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("Cardy Server Starting")
	log.Info("===========================================")
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("storage_mode=%s", cfg.StorageMode)
	log.Debug("due_limit_default=%d", cfg.DueLimitDefault)

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	store := kv.NewSQLiteStore(database.DB)

	// The repositories either write normalized tables directly or go through
	// the key-value store, mirroring the mobile client's offline mode.
	var (
		deckRepo  repository.DeckRepository
		cardRepo  repository.FlashcardRepository
		statsRepo repository.StatsRepository
	)
	switch cfg.StorageMode {
	case config.StorageModeLocal:
		deckRepo = kvstore.NewDeckRepository(store)
		cardRepo = kvstore.NewFlashcardRepository(store)
		statsRepo = kvstore.NewStatsRepository(store)
	default:
		deckRepo = sqlite.NewDeckRepository(database.DB)
		cardRepo = sqlite.NewFlashcardRepository(database.DB)
		statsRepo = sqlite.NewStatsRepository(database.DB)
	}

	// Load the card catalog
	cat, err := catalog.New()
	if err != nil {
		log.Error("failed to load card catalog: %v", err)
		os.Exit(1)
	}
	log.Debug("catalog loaded: %d definitions", cat.Size())

	engine := draw.NewEngine(cat, store)

	// Initialize services
	deckService := services.NewDeckService(deckRepo)
	flashcardService := services.NewFlashcardService(cardRepo, deckRepo, statsRepo, scheduler.FixedIntervals{})
	dailyService := services.NewDailyCardService(engine)
	statsService := services.NewStatsService(statsRepo, cardRepo)

	if cfg.SeedSampleData {
		seedService := services.NewSeedService(deckRepo, cardRepo, statsRepo)
		if err := seedService.EnsureSampleData(context.Background(), cfg.SeedUserID); err != nil {
			log.Error("failed to seed sample data: %v", err)
			os.Exit(1)
		}
	}

	srv := api.NewServer(deckService, flashcardService, dailyService, statsService, cat, cfg.DueLimitDefault)

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Info("===========================================")
	log.Info("Cardy Server Stopped")
	log.Info("===========================================")
}
