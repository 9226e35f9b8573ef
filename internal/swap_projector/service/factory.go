package service

import (
	"log/slog"

	"github.com/rewear/swap-platform/internal/config"
	"github.com/rewear/swap-platform/internal/domain/activity"
)

// CreateProjectionService creates the projection service, wrapped in a worker
// pool when one can be started
func CreateProjectionService(
	activityRepo activity.Repository,
	logger *slog.Logger,
	cfg *config.Config,
) ProjectionService {
	baseService := NewProjectionService(activityRepo, logger)

	workerPoolService, err := NewWorkerPoolProjectionService(
		baseService,
		WorkerPoolConfig{
			Size: cfg.WorkerPool.Size,
		},
		logger.With("component", "worker_pool"),
	)
	if err != nil {
		logger.Error("Failed to create worker pool service, falling back to base service", "error", err)
		return baseService
	}

	logger.Info("Created worker pool projection service", "pool_size", cfg.WorkerPool.Size)
	return workerPoolService
}
