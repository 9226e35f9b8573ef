package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/rewear/swap-platform/internal/config"
	"github.com/segmentio/kafka-go"
)

// SwapEventProducer publishes swap lifecycle events. Writes are synchronous
// so the outbox poller only marks a message processed once the broker has it.
type SwapEventProducer struct {
	logger *slog.Logger
	writer KafkaWriter // Interface for testability
	topic  string
}

// NewSwapEventProducer creates the producer and ensures the topic exists
func NewSwapEventProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*SwapEventProducer, error) {
	if cfg.SwapEventsTopic == "" {
		return nil, fmt.Errorf("kafka swap events topic is not configured")
	}

	conn, err := kafka.DialContext(ctx, "tcp", cfg.Brokers)
	if err != nil {
		return nil, fmt.Errorf("failed to dial kafka for swap event producer: %w", err)
	}
	defer conn.Close()

	err = ensureTopic(conn, topicSpec{Name: cfg.SwapEventsTopic, NumPartitions: cfg.NumPartitions, ReplicationFactor: cfg.ReplicationFactor}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure swap events topic %s exists: %w", cfg.SwapEventsTopic, err)
	}

	// Hash keeps every event of one swap on the same partition, in order
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.SwapEventsTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		WriteTimeout: cfg.MaxWait,
	}

	return &SwapEventProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.SwapEventsTopic,
	}, nil
}

// Publish marshals value and writes it under key. Pre-encoded payloads can be
// passed as json.RawMessage.
func (p *SwapEventProducer) Publish(ctx context.Context, key string, value interface{}, headers ...kafka.Header) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal swap event: %w", err)
	}

	msg := kafka.Message{
		Key:     []byte(key),
		Value:   jsonValue,
		Headers: headers,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish swap event",
			"topic", p.topic,
			"key", key,
			"error", err,
		)
		return fmt.Errorf("failed to publish swap event to %s: %w", p.topic, err)
	}

	p.logger.Debug("Published swap event",
		"topic", p.topic,
		"key", key,
	)
	return nil
}

func (p *SwapEventProducer) Close() error {
	p.logger.Info("Closing swap event producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
