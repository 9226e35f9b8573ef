package outbox_poller

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/rewear/swap-platform/internal/domain/outbox"
	"github.com/rewear/swap-platform/internal/domain/shared"
	"github.com/rewear/swap-platform/internal/platform/messaging/producers"
	"github.com/segmentio/kafka-go"
)

// EventPublisher publishes outbox messages to the swap events topic
type EventPublisher interface {
	PublishEvent(ctx context.Context, message *outbox.Message) error
}

// EventPublisherImpl implements EventPublisher
type EventPublisherImpl struct {
	outboxRepo outbox.Repository
	publisher  producers.MessagePublisher
	logger     *slog.Logger
}

// NewEventPublisher creates a new publisher
func NewEventPublisher(
	outboxRepo outbox.Repository,
	publisher producers.MessagePublisher,
	logger *slog.Logger,
) EventPublisher {
	return &EventPublisherImpl{
		outboxRepo: outboxRepo,
		publisher:  publisher,
		logger:     logger,
	}
}

// PublishEvent writes the stored payload keyed by swap id, then marks the
// message PROCESSED. A payload that cannot be decoded is marked
// FAILED_TO_PUBLISH right away.
func (p *EventPublisherImpl) PublishEvent(ctx context.Context, message *outbox.Message) error {
	event, err := message.GetEvent()
	if err != nil {
		p.logger.Error("Failed to unmarshal swap event from outbox payload",
			"outbox_id", message.ID, "swap_id", message.SwapID.String(), "error", err,
		)
		if updateErr := p.outboxRepo.UpdateStatus(ctx, message.ID, shared.OutboxStatusFailedToPublish); updateErr != nil {
			p.logger.Error("Also failed to update outbox status to FAILED_TO_PUBLISH after unmarshal error", "outbox_id", message.ID, "update_error", updateErr)
		}
		return fmt.Errorf("unmarshal payload for outbox %d failed: %w", message.ID, err)
	}

	logger := p.logger
	if event.CorrelationID != "" {
		logger = p.logger.With("correlation_id", event.CorrelationID)
	}

	headers := []kafka.Header{
		{Key: producers.HeaderEventType, Value: []byte(message.EventType)},
	}
	if event.CorrelationID != "" {
		headers = append(headers, kafka.Header{Key: producers.HeaderCorrelationID, Value: []byte(event.CorrelationID)})
	}

	if err := p.publisher.Publish(ctx, message.SwapID.String(), json.RawMessage(message.Payload), headers...); err != nil {
		logger.Error("Failed to publish swap event", "outbox_id", message.ID, "event_id", message.EventID.String(), "error", err)
		return fmt.Errorf("failed to publish event %s: %w", message.EventID, err)
	}

	if err := p.outboxRepo.UpdateStatus(ctx, message.ID, shared.OutboxStatusProcessed); err != nil {
		logger.Error("Failed to update outbox message status to PROCESSED",
			"outbox_id", message.ID, "event_id", message.EventID.String(), "error", err,
		)
		return fmt.Errorf("event %s published, but failed to mark outbox %d as PROCESSED: %w", message.EventID, message.ID, err)
	}

	logger.Info("Outbox message published and marked as PROCESSED",
		"outbox_id", message.ID,
		"event_id", message.EventID.String(),
		"event_type", string(message.EventType),
	)
	return nil
}
