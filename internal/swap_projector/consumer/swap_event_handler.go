package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/rewear/swap-platform/internal/domain/shared"
	"github.com/rewear/swap-platform/internal/domain/swap"
	"github.com/rewear/swap-platform/internal/platform/messaging/producers"
	"github.com/rewear/swap-platform/internal/platform/metrics"
	"github.com/rewear/swap-platform/internal/swap_projector/service"
)

// SwapEventHandler handles swap lifecycle events consumed from Kafka
type SwapEventHandler struct {
	projectionService service.ProjectionService
	producer          producers.DeadLetterPublisher
	logger            *slog.Logger
}

// NewSwapEventHandler creates a new handler. A nil producer disables the DLQ.
func NewSwapEventHandler(
	logger *slog.Logger,
	projectionService service.ProjectionService,
	producer producers.DeadLetterPublisher,
) *SwapEventHandler {
	return &SwapEventHandler{
		projectionService: projectionService,
		producer:          producer,
		logger:            logger,
	}
}

// HandleMessage projects one Kafka message. Messages that can never be
// projected are parked in the DLQ and reported as handled.
func (h *SwapEventHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var event swap.Event
	if err := json.Unmarshal(value, &event); err != nil {
		return h.deadLetter(ctx, key, value, "Failed to unmarshal swap event from Kafka message", err)
	}
	if err := event.Validate(); err != nil {
		return h.deadLetter(ctx, key, value, "Invalid swap event", err)
	}

	ctx = shared.WithCorrelationID(ctx, event.CorrelationID)
	logger := h.logger
	if event.CorrelationID != "" {
		logger = h.logger.With("correlation_id", event.CorrelationID)
	}

	logger.Info("Received swap event for projection",
		"event_id", event.EventID.String(),
		"swap_id", event.SwapID.String(),
		"type", string(event.Type),
	)

	if err := h.projectionService.Project(ctx, &event); err != nil {
		logger.Error("Failed to project swap event",
			"event_id", event.EventID.String(),
			"error", err,
		)
		return fmt.Errorf("projecting event %s failed: %w", event.EventID, err)
	}

	return nil
}

func (h *SwapEventHandler) deadLetter(ctx context.Context, key, value []byte, reason string, cause error) error {
	h.logger.Error(reason,
		"error", cause,
		"message_key", string(key),
	)

	if h.producer != nil {
		dlqReason := fmt.Sprintf("%s: %s", reason, cause.Error())
		if dlqErr := h.producer.PublishToDLQ(ctx, string(key), value, dlqReason); dlqErr != nil {
			h.logger.Error("Failed to publish message to DLQ",
				"dlq_error", dlqErr,
				"original_error", cause,
				"message_key", string(key),
			)
		} else {
			metrics.EventsProjected.WithLabelValues("dead_lettered").Inc()
			h.logger.Info("Successfully published unprocessable message to DLQ", "message_key", string(key), "reason", dlqReason)
			return nil
		}
	}
	// Allow Kafka retries
	return fmt.Errorf("%s: %w", reason, cause)
}
