package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rewear/swap-platform/internal/domain/activity"
	"github.com/rewear/swap-platform/internal/domain/shared"
	"github.com/rewear/swap-platform/internal/domain/swap"
	applog "github.com/rewear/swap-platform/internal/logger"
	"github.com/rewear/swap-platform/internal/platform/metrics"
)

type ProjectionServiceImpl struct {
	activityRepo activity.Repository
	logger       *slog.Logger
}

func NewProjectionService(activityRepo activity.Repository, logger *slog.Logger) *ProjectionServiceImpl {
	return &ProjectionServiceImpl{
		activityRepo: activityRepo,
		logger:       logger,
	}
}

// Project validates the event and records it in the activity feed
func (s *ProjectionServiceImpl) Project(ctx context.Context, event *swap.Event) error {
	ctx = shared.WithCorrelationID(ctx, event.CorrelationID)
	logger := applog.WithContext(ctx, s.logger)

	if err := event.Validate(); err != nil {
		metrics.EventsProjected.WithLabelValues("invalid").Inc()
		logger.Warn("Rejected invalid swap event", "event_id", event.EventID.String(), "error", err)
		return err
	}

	if err := s.activityRepo.Record(ctx, event); err != nil {
		metrics.EventsProjected.WithLabelValues("failed").Inc()
		logger.Error("Failed to record swap activity",
			"event_id", event.EventID.String(),
			"swap_id", event.SwapID.String(),
			"error", err,
		)
		return fmt.Errorf("failed to project event %s: %w", event.EventID, err)
	}

	metrics.EventsProjected.WithLabelValues("ok").Inc()
	logger.Info("Projected swap event",
		"event_id", event.EventID.String(),
		"swap_id", event.SwapID.String(),
		"type", string(event.Type),
	)
	return nil
}
