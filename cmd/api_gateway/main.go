package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rewear/swap-platform/internal/api_gateway"
	"github.com/rewear/swap-platform/internal/api_gateway/service"
	"github.com/rewear/swap-platform/internal/config"
	"github.com/rewear/swap-platform/internal/data/mongo"
	"github.com/rewear/swap-platform/internal/data/postgres"
	"github.com/rewear/swap-platform/internal/logger"
	"github.com/rewear/swap-platform/internal/platform/auth"
	"github.com/rewear/swap-platform/internal/platform/imagestore"
	"github.com/rewear/swap-platform/internal/platform/persistence"
	"github.com/rewear/swap-platform/internal/swap_manager/components"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	cfg, err := config.LoadConfig("api_gateway")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg)

	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}

	// Repositories
	st := postgres.NewStore(log, postgresDB)
	userRepo := postgres.NewUserRepository(log, postgresDB)
	itemRepo := postgres.NewItemRepository(log, postgresDB)
	ledgerRepo := postgres.NewLedgerRepository(log, postgresDB)
	reportRepo := postgres.NewReportRepository(log, postgresDB)
	activityRepo := mongo.NewActivityRepository(log, mongoDB.Database())
	if err := activityRepo.EnsureIndexes(appCtx); err != nil {
		log.Warn("Failed to ensure swap activity indexes", "error", err)
	}

	var uploader imagestore.Uploader = imagestore.Disabled{}
	cloudinaryUploader, err := imagestore.NewCloudinaryUploader(&cfg.Cloudinary)
	switch {
	case err == nil:
		uploader = cloudinaryUploader
	case errors.Is(err, imagestore.ErrUploadsDisabled):
		log.Warn("Cloudinary is not configured, image uploads are disabled")
	default:
		log.Error("Failed to initialize Cloudinary uploader", "error", err)
		os.Exit(1)
	}

	tokens := auth.NewTokenManager(&cfg.Auth)
	pointsLedger := components.NewPointsLedger(log.With("component", "points_ledger"))

	services := api_gateway.Services{
		Auth:    service.NewAuthService(st, userRepo, pointsLedger, auth.NewPasswordHasher(), tokens, cfg, log),
		Items:   service.NewItemService(itemRepo, uploader, &cfg.Upload, log),
		Reports: service.NewReportService(reportRepo, log),
		Admin:   service.NewAdminService(st, userRepo, itemRepo, ledgerRepo, activityRepo, pointsLedger, log),
		Swaps:   components.CreateSwapManager(st, log),
	}

	server := api_gateway.NewServer(log, cfg, services, tokens)
	log.Info("REST server initialized")

	errChan := make(chan error, 1)

	go func() {
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	cancelAppCtx()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	log.Info("Starting graceful shutdown...")

	// Drain in-flight requests before the pools they use go away
	if err = server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	postgresDB.Close()

	if err = mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
	}

	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	}
	if err != nil {
		log.Error("Server shutdown completed with errors")
	} else {
		log.Info("Server shutdown completed successfully")
	}
}
