package components

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rewear/swap-platform/internal/domain/outbox"
	"github.com/rewear/swap-platform/internal/domain/shared"
	"github.com/rewear/swap-platform/internal/domain/store"
	"github.com/rewear/swap-platform/internal/domain/swap"
	applog "github.com/rewear/swap-platform/internal/logger"
	"github.com/rewear/swap-platform/internal/swap_manager/service"
)

type EventRecorderImpl struct {
	logger *slog.Logger
}

func NewEventRecorder(logger *slog.Logger) service.EventRecorder {
	return &EventRecorderImpl{
		logger: logger,
	}
}

// Record snapshots details as a swap event and enqueues it in the outbox
func (r *EventRecorderImpl) Record(ctx context.Context, tx store.Store, eventType shared.EventType, details *swap.Details) error {
	logger := applog.WithContext(ctx, r.logger)

	event := swap.NewEvent(eventType, details, shared.CorrelationIDFromContext(ctx))
	message, err := outbox.NewMessage(event)
	if err != nil {
		logger.Error("Failed to create outbox message (marshal payload)",
			"swap_id", details.ID.String(),
			"error", err,
		)
		return fmt.Errorf("failed to create outbox message payload for swap %s: %w", details.ID, err)
	}

	if err := tx.EnqueueOutboxMessage(ctx, message); err != nil {
		logger.Error("Failed to create outbox message",
			"swap_id", details.ID.String(),
			"event_type", string(eventType),
			"error", err,
		)
		return fmt.Errorf("failed to create outbox message for swap %s: %w", details.ID, err)
	}

	logger.Info("Outbox message created successfully",
		"swap_id", details.ID.String(),
		"event_id", event.EventID.String(),
		"event_type", string(eventType),
	)
	return nil
}
