package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nkoopman/dividend-tracker-backend/internal/api"
	"github.com/nkoopman/dividend-tracker-backend/internal/auth"
	"github.com/nkoopman/dividend-tracker-backend/internal/cache"
	"github.com/nkoopman/dividend-tracker-backend/internal/config"
	"github.com/nkoopman/dividend-tracker-backend/internal/database"
	"github.com/nkoopman/dividend-tracker-backend/internal/fmp"
	"github.com/nkoopman/dividend-tracker-backend/internal/model"
	"github.com/nkoopman/dividend-tracker-backend/internal/repository"
	"github.com/nkoopman/dividend-tracker-backend/internal/scheduler"
	"github.com/nkoopman/dividend-tracker-backend/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.FMP.APIKey == "" {
		log.Fatal("FMP_API_KEY is required")
	}

	// Credential verification is fatal when misconfigured, not per-request
	verifier, err := auth.NewVerifier(cfg.Auth.JWTSecret)
	if err != nil {
		log.Fatalf("Failed to configure credential verification: %v", err)
	}

	// Open database connection and apply migrations
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	log.Printf("Connected to database: %s", cfg.Database.Path)

	// Market data client
	fmpClient := fmp.NewHTTPClient(cfg.FMP.APIKey, cfg.FMP.Timeout).WithBaseURL(cfg.FMP.BaseURL)

	// Caches
	quoteCache := cache.New[model.Quote](cfg.Cache.QuoteTTL)
	profileCache := cache.New[model.DividendProfile](cfg.Cache.ProfileTTL)
	nameCache := cache.New[string](cfg.Cache.ProfileTTL)

	// Create repositories
	holdingRepo := repository.NewHoldingRepository(db)

	// Create services
	systemService := service.NewSystemService(db)
	quoteService := service.NewQuoteService(fmpClient, quoteCache)
	dividendService := service.NewDividendService(fmpClient, quoteService, profileCache, nil)
	profileService := service.NewProfileService(fmpClient, nameCache)
	holdingService := service.NewHoldingService(
		holdingRepo,
		quoteService,
		dividendService,
		profileService,
		cfg.Refresh.MaxConcurrent,
		nil,
	)

	// Create router
	router := api.NewRouter(systemService, holdingService, quoteService, dividendService, profileService, verifier, cfg)

	// Scheduled system-wide refresh, disabled when no schedule is set
	var refreshScheduler *scheduler.Scheduler
	if cfg.Refresh.Schedule != "" {
		refreshScheduler, err = scheduler.New(cfg.Refresh.Schedule, holdingService)
		if err != nil {
			log.Fatalf("Invalid refresh schedule %q: %v", cfg.Refresh.Schedule, err)
		}
		refreshScheduler.Start()
		log.Printf("Scheduled refresh enabled: %s", cfg.Refresh.Schedule)
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	if refreshScheduler != nil {
		refreshScheduler.Stop()
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
