package outbox_poller

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rewear/swap-platform/internal/domain/outbox"
	"github.com/rewear/swap-platform/internal/domain/shared"
	"github.com/rewear/swap-platform/internal/domain/swap"
	"github.com/rewear/swap-platform/internal/platform/messaging/producers"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockOutboxRepo for testing
type MockOutboxRepo struct {
	mock.Mock
}

func (m *MockOutboxRepo) Create(ctx context.Context, message *outbox.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockOutboxRepo) GetPending(ctx context.Context, limit int) ([]*outbox.Message, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*outbox.Message), args.Error(1)
}

func (m *MockOutboxRepo) UpdateStatus(ctx context.Context, id int64, status shared.OutboxStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockOutboxRepo) IncrementAttempts(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOutboxRepo) WithTx(tx pgx.Tx) outbox.Repository {
	args := m.Called(tx)
	return args.Get(0).(outbox.Repository)
}

// MockMessagePublisher for testing
type MockMessagePublisher struct {
	mock.Mock
}

func (m *MockMessagePublisher) Publish(ctx context.Context, key string, value interface{}, headers ...kafka.Header) error {
	args := m.Called(ctx, key, value, headers)
	return args.Error(0)
}

func (m *MockMessagePublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestMessage(t *testing.T, id int64, correlationID string) *outbox.Message {
	t.Helper()
	details := &swap.Details{
		Swap: swap.Swap{ID: uuid.New(), RequesterID: uuid.New(), PointsUsed: 20, Status: shared.SwapStatusPending},
	}
	details.Item.ID = uuid.New()
	details.Item.OwnerID = uuid.New()
	details.Item.Status = shared.ItemStatusPendingSwap

	msg, err := outbox.NewMessage(swap.NewEvent(shared.EventTypeSwapRequested, details, correlationID))
	require.NoError(t, err)
	msg.ID = id
	msg.CreatedAt = time.Now()
	return msg
}

func TestEventPublisher_PublishEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes payload keyed by swap id and marks processed", func(t *testing.T) {
		repo := &MockOutboxRepo{}
		publisher := &MockMessagePublisher{}
		msg := newTestMessage(t, 7, "corr-7")

		publisher.On("Publish", ctx, msg.SwapID.String(), json.RawMessage(msg.Payload), mock.MatchedBy(func(headers []kafka.Header) bool {
			return len(headers) == 2 &&
				headers[0].Key == producers.HeaderEventType && string(headers[0].Value) == "swap.requested" &&
				headers[1].Key == producers.HeaderCorrelationID && string(headers[1].Value) == "corr-7"
		})).Return(nil).Once()
		repo.On("UpdateStatus", ctx, int64(7), shared.OutboxStatusProcessed).Return(nil).Once()

		err := NewEventPublisher(repo, publisher, newTestLogger()).PublishEvent(ctx, msg)
		assert.NoError(t, err)
		repo.AssertExpectations(t)
		publisher.AssertExpectations(t)
	})

	t.Run("omits correlation header when absent", func(t *testing.T) {
		repo := &MockOutboxRepo{}
		publisher := &MockMessagePublisher{}
		msg := newTestMessage(t, 8, "")

		publisher.On("Publish", ctx, msg.SwapID.String(), mock.Anything, mock.MatchedBy(func(headers []kafka.Header) bool {
			return len(headers) == 1 && headers[0].Key == producers.HeaderEventType
		})).Return(nil).Once()
		repo.On("UpdateStatus", ctx, int64(8), shared.OutboxStatusProcessed).Return(nil).Once()

		assert.NoError(t, NewEventPublisher(repo, publisher, newTestLogger()).PublishEvent(ctx, msg))
		publisher.AssertExpectations(t)
	})

	t.Run("publish failure leaves message pending", func(t *testing.T) {
		repo := &MockOutboxRepo{}
		publisher := &MockMessagePublisher{}
		msg := newTestMessage(t, 9, "")

		publisher.On("Publish", ctx, msg.SwapID.String(), mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

		err := NewEventPublisher(repo, publisher, newTestLogger()).PublishEvent(ctx, msg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "broker down")
		repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("undecodable payload is marked failed", func(t *testing.T) {
		repo := &MockOutboxRepo{}
		publisher := &MockMessagePublisher{}
		msg := newTestMessage(t, 10, "")
		msg.Payload = json.RawMessage(`{not json`)

		repo.On("UpdateStatus", ctx, int64(10), shared.OutboxStatusFailedToPublish).Return(nil).Once()

		err := NewEventPublisher(repo, publisher, newTestLogger()).PublishEvent(ctx, msg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unmarshal payload for outbox 10 failed")
		repo.AssertExpectations(t)
		publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("status update failure is reported", func(t *testing.T) {
		repo := &MockOutboxRepo{}
		publisher := &MockMessagePublisher{}
		msg := newTestMessage(t, 11, "")

		publisher.On("Publish", ctx, msg.SwapID.String(), mock.Anything, mock.Anything).Return(nil).Once()
		repo.On("UpdateStatus", ctx, int64(11), shared.OutboxStatusProcessed).Return(errors.New("db error")).Once()

		err := NewEventPublisher(repo, publisher, newTestLogger()).PublishEvent(ctx, msg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to mark outbox 11 as PROCESSED")
	})
}
