package producers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rewear/swap-platform/internal/config"
	"github.com/rewear/swap-platform/internal/domain/shared"
	"github.com/segmentio/kafka-go"
)

// ErrDLQDisabled is returned when publishing without a configured DLQ topic
var ErrDLQDisabled = errors.New("DLQ producer not initialized")

// DeadLetter is the record parked for a swap event the projector rejected.
// Payload keeps the original bytes as JSON when they parse, as text otherwise.
type DeadLetter struct {
	SwapKey       string          `json:"swap_key"`
	SourceTopic   string          `json:"source_topic,omitempty"`
	Reason        string          `json:"reason"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload,omitempty"`
	RawPayload    string          `json:"raw_payload,omitempty"`
	ParkedAt      time.Time       `json:"parked_at"`
}

func newDeadLetter(ctx context.Context, sourceTopic, key string, value []byte, reason string) DeadLetter {
	dl := DeadLetter{
		SwapKey:       key,
		SourceTopic:   sourceTopic,
		Reason:        reason,
		CorrelationID: shared.CorrelationIDFromContext(ctx),
		ParkedAt:      time.Now().UTC(),
	}
	if json.Valid(value) {
		dl.Payload = json.RawMessage(value)
	} else {
		dl.RawPayload = string(value)
	}
	return dl
}

// DLQProducer parks swap events the projector could not handle
type DLQProducer struct {
	logger      *slog.Logger
	writer      KafkaWriter
	dlqTopic    string
	sourceTopic string
}

// NewDLQProducer returns a nil producer when no DLQ topic is configured
func NewDLQProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*DLQProducer, error) {
	if cfg.DLQTopic == "" {
		logger.Info("DLQ topic is not configured, rejected swap events will only be logged")
		return nil, nil
	}

	conn, err := kafka.DialContext(ctx, "tcp", cfg.Brokers)
	if err != nil {
		return nil, fmt.Errorf("failed to dial kafka for dlq producer: %w", err)
	}
	defer conn.Close()

	spec := topicSpec{Name: cfg.DLQTopic, NumPartitions: cfg.NumPartitions, ReplicationFactor: cfg.ReplicationFactor}
	if err := ensureTopic(conn, spec, logger); err != nil {
		return nil, fmt.Errorf("failed to ensure DLQ topic %s exists: %w", cfg.DLQTopic, err)
	}

	// Keyed like the source topic so one swap's dead letters stay ordered
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.DLQTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: cfg.MaxWait,
	}

	return &DLQProducer{
		logger:      logger,
		writer:      writer,
		dlqTopic:    cfg.DLQTopic,
		sourceTopic: cfg.SwapEventsTopic,
	}, nil
}

// PublishToDLQ parks value under its swap key with the rejection reason
func (p *DLQProducer) PublishToDLQ(ctx context.Context, key string, value []byte, reason string) error {
	if p == nil || p.writer == nil {
		return ErrDLQDisabled
	}

	dl := newDeadLetter(ctx, p.sourceTopic, key, value, reason)
	encoded, err := json.Marshal(dl)
	if err != nil {
		return fmt.Errorf("failed to encode dead letter for swap %s: %w", key, err)
	}

	headers := []kafka.Header{{Key: HeaderDLQReason, Value: []byte(reason)}}
	if dl.CorrelationID != "" {
		headers = append(headers, kafka.Header{Key: HeaderCorrelationID, Value: []byte(dl.CorrelationID)})
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: encoded, Headers: headers}); err != nil {
		p.logger.Error("Failed to park swap event in DLQ", "topic", p.dlqTopic, "swap_key", key, "error", err)
		return fmt.Errorf("failed to publish dead letter to %s: %w", p.dlqTopic, err)
	}

	p.logger.Warn("Parked swap event in DLQ", "topic", p.dlqTopic, "swap_key", key, "reason", reason)
	return nil
}

func (p *DLQProducer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	p.logger.Info("Closing DLQ producer", "topic", p.dlqTopic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close dlq writer for topic %s: %w", p.dlqTopic, err)
	}
	return nil
}
