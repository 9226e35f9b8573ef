package mongo

import (
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rewear/swap-platform/internal/domain/activity"
	"github.com/rewear/swap-platform/internal/domain/shared"
	"github.com/rewear/swap-platform/internal/domain/swap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func newTestEvent() *swap.Event {
	return &swap.Event{
		EventID:       uuid.New(),
		Type:          shared.EventTypeSwapRequested,
		SwapID:        uuid.New(),
		ItemID:        uuid.New(),
		ItemTitle:     "Wool scarf",
		RequesterID:   uuid.New(),
		OwnerID:       uuid.New(),
		PointsUsed:    15,
		SwapStatus:    shared.SwapStatusPending,
		ItemStatus:    shared.ItemStatusPendingSwap,
		CorrelationID: "corr-9",
		OccurredAt:    time.Now().UTC().Truncate(time.Millisecond),
	}
}

func TestNewActivityRepository(t *testing.T) {
	repo := NewActivityRepository(slog.Default(), &mongo.Database{})

	assert.NotNil(t, repo)
	var _ activity.Repository = repo
}

func TestActivityDocument_RoundTrip(t *testing.T) {
	event := newTestEvent()

	doc := toDocument(event, time.Now())
	assert.Equal(t, event.EventID.String(), doc.EventID)

	raw, err := bson.Marshal(doc)
	require.NoError(t, err)

	var decoded activityDocument
	require.NoError(t, bson.Unmarshal(raw, &decoded))

	got, err := decoded.toEvent()
	require.NoError(t, err)
	assert.Equal(t, event, got)
}

func TestActivityDocument_InvalidID(t *testing.T) {
	doc := toDocument(newTestEvent(), time.Now())
	doc.OwnerID = "not-a-uuid"

	_, err := doc.toEvent()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not-a-uuid")
}

func TestBuildFilter(t *testing.T) {
	swapID, userID := uuid.New(), uuid.New()

	tests := []struct {
		name     string
		filter   activity.Filter
		expected bson.M
	}{
		{
			name:     "everything",
			filter:   activity.Filter{},
			expected: bson.M{},
		},
		{
			name:     "by swap",
			filter:   activity.Filter{SwapID: &swapID},
			expected: bson.M{"swap_id": swapID.String()},
		},
		{
			name:   "by either party",
			filter: activity.Filter{UserID: &userID},
			expected: bson.M{"$or": bson.A{
				bson.M{"requester_id": userID.String()},
				bson.M{"owner_id": userID.String()},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, buildFilter(tt.filter))
		})
	}
}
