package producers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/rewear/swap-platform/internal/domain/shared"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockKafkaWriter is defined in swap_event_test.go

func newTestDLQProducer(writer KafkaWriter) *DLQProducer {
	return &DLQProducer{
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		writer:      writer,
		dlqTopic:    "swap_events_dlq",
		sourceTopic: "swap_events",
	}
}

// captureDeadLetter records the single message written and decodes its record
func captureDeadLetter(t *testing.T, w *MockKafkaWriter) (*kafka.Message, *DeadLetter) {
	t.Helper()
	var written kafka.Message
	var dl DeadLetter
	w.On("WriteMessages", mock.Anything, mock.AnythingOfType("[]kafka.Message")).
		Run(func(args mock.Arguments) {
			msgs := args.Get(1).([]kafka.Message)
			require.Len(t, msgs, 1)
			written = msgs[0]
			require.NoError(t, json.Unmarshal(written.Value, &dl))
		}).
		Return(nil).Once()
	return &written, &dl
}

func headerValue(msg *kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestDLQProducer_PublishToDLQ_JSONPayload(t *testing.T) {
	ctx := shared.WithCorrelationID(context.Background(), "req-7")
	w := new(MockKafkaWriter)
	producer := newTestDLQProducer(w)
	msg, dl := captureDeadLetter(t, w)

	value := []byte(`{"event_id":"e1","type":"swap.archived"}`)
	err := producer.PublishToDLQ(ctx, "swap-1", value, "Invalid swap event: unknown event type")
	require.NoError(t, err)
	w.AssertExpectations(t)

	assert.Equal(t, "swap-1", string(msg.Key))
	assert.Equal(t, "Invalid swap event: unknown event type", headerValue(msg, HeaderDLQReason))
	assert.Equal(t, "req-7", headerValue(msg, HeaderCorrelationID))

	assert.Equal(t, "swap-1", dl.SwapKey)
	assert.Equal(t, "swap_events", dl.SourceTopic)
	assert.Equal(t, "req-7", dl.CorrelationID)
	assert.JSONEq(t, string(value), string(dl.Payload))
	assert.Empty(t, dl.RawPayload)
	assert.False(t, dl.ParkedAt.IsZero())
}

func TestDLQProducer_PublishToDLQ_UndecodablePayload(t *testing.T) {
	ctx := context.Background()
	w := new(MockKafkaWriter)
	producer := newTestDLQProducer(w)
	msg, dl := captureDeadLetter(t, w)

	err := producer.PublishToDLQ(ctx, "swap-2", []byte(`{truncated`), "Failed to unmarshal swap event")
	require.NoError(t, err)

	assert.Empty(t, dl.Payload)
	assert.Equal(t, "{truncated", dl.RawPayload)
	assert.Empty(t, dl.CorrelationID)
	assert.Empty(t, headerValue(msg, HeaderCorrelationID))
}

func TestDLQProducer_PublishToDLQ_WriterError(t *testing.T) {
	ctx := context.Background()
	w := new(MockKafkaWriter)
	producer := newTestDLQProducer(w)
	writerErr := errors.New("leader not available")
	w.On("WriteMessages", ctx, mock.AnythingOfType("[]kafka.Message")).Return(writerErr).Once()

	err := producer.PublishToDLQ(ctx, "swap-3", []byte(`{}`), "projection failed")
	require.Error(t, err)
	assert.ErrorIs(t, err, writerErr)
	assert.Contains(t, err.Error(), "swap_events_dlq")
	w.AssertExpectations(t)
}

func TestDLQProducer_Disabled(t *testing.T) {
	var disabled *DLQProducer

	assert.ErrorIs(t, disabled.PublishToDLQ(context.Background(), "swap-4", []byte(`{}`), "any"), ErrDLQDisabled)
	assert.NoError(t, disabled.Close())
}

func TestDLQProducer_Close(t *testing.T) {
	w := new(MockKafkaWriter)
	w.On("Close").Return(nil).Once()
	require.NoError(t, newTestDLQProducer(w).Close())

	failing := new(MockKafkaWriter)
	closeErr := errors.New("already closed")
	failing.On("Close").Return(closeErr).Once()
	err := newTestDLQProducer(failing).Close()
	assert.ErrorIs(t, err, closeErr)

	w.AssertExpectations(t)
	failing.AssertExpectations(t)
}
