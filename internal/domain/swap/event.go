package swap

import (
	"time"

	"github.com/google/uuid"
	"github.com/rewear/swap-platform/internal/domain/shared"
)

// Event is the lifecycle notification published for every committed swap
// transition. It is both the Kafka payload and the activity read model document.
type Event struct {
	EventID       uuid.UUID         `json:"event_id" bson:"event_id"`
	Type          shared.EventType  `json:"type" bson:"type"`
	SwapID        uuid.UUID         `json:"swap_id" bson:"swap_id"`
	ItemID        uuid.UUID         `json:"item_id" bson:"item_id"`
	ItemTitle     string            `json:"item_title" bson:"item_title"`
	RequesterID   uuid.UUID         `json:"requester_id" bson:"requester_id"`
	OwnerID       uuid.UUID         `json:"owner_id" bson:"owner_id"`
	PointsUsed    int64             `json:"points_used" bson:"points_used"`
	SwapStatus    shared.SwapStatus `json:"swap_status" bson:"swap_status"`
	ItemStatus    shared.ItemStatus `json:"item_status" bson:"item_status"`
	CorrelationID string            `json:"correlation_id,omitempty" bson:"correlation_id,omitempty"`
	OccurredAt    time.Time         `json:"occurred_at" bson:"occurred_at"`
}

// NewEvent snapshots the committed state of a swap
func NewEvent(eventType shared.EventType, d *Details, correlationID string) *Event {
	return &Event{
		EventID:       uuid.New(),
		Type:          eventType,
		SwapID:        d.ID,
		ItemID:        d.Item.ID,
		ItemTitle:     d.Item.Title,
		RequesterID:   d.RequesterID,
		OwnerID:       d.Item.OwnerID,
		PointsUsed:    d.PointsUsed,
		SwapStatus:    d.Status,
		ItemStatus:    d.Item.Status,
		CorrelationID: correlationID,
		OccurredAt:    time.Now().UTC(),
	}
}

// Validate checks the fields a consumer relies on
func (e *Event) Validate() error {
	if e.EventID == uuid.Nil || e.SwapID == uuid.Nil {
		return shared.NewInvalidInput("event id and swap id are required")
	}
	switch e.Type {
	case shared.EventTypeSwapRequested, shared.EventTypeSwapCanceled, shared.EventTypeSwapCompleted:
		return nil
	}
	return shared.NewInvalidInput("unknown event type %q", e.Type)
}
