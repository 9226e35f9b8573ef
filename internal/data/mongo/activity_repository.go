// Package mongo holds the MongoDB read model fed by the swap event projector.
package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rewear/swap-platform/internal/domain/activity"
	"github.com/rewear/swap-platform/internal/domain/shared"
	"github.com/rewear/swap-platform/internal/domain/swap"
)

const (
	// ActivityCollectionName is the name of the swap activity collection in MongoDB
	ActivityCollectionName = "swap_activity"
)

// activityDocument is the stored shape of a swap event. The event id is the
// document id, which makes replays idempotent.
type activityDocument struct {
	EventID       string    `bson:"_id"`
	Type          string    `bson:"type"`
	SwapID        string    `bson:"swap_id"`
	ItemID        string    `bson:"item_id"`
	ItemTitle     string    `bson:"item_title"`
	RequesterID   string    `bson:"requester_id"`
	OwnerID       string    `bson:"owner_id"`
	PointsUsed    int64     `bson:"points_used"`
	SwapStatus    string    `bson:"swap_status"`
	ItemStatus    string    `bson:"item_status"`
	CorrelationID string    `bson:"correlation_id,omitempty"`
	OccurredAt    time.Time `bson:"occurred_at"`
	RecordedAt    time.Time `bson:"recorded_at"`
}

func toDocument(e *swap.Event, recordedAt time.Time) activityDocument {
	return activityDocument{
		EventID:       e.EventID.String(),
		Type:          string(e.Type),
		SwapID:        e.SwapID.String(),
		ItemID:        e.ItemID.String(),
		ItemTitle:     e.ItemTitle,
		RequesterID:   e.RequesterID.String(),
		OwnerID:       e.OwnerID.String(),
		PointsUsed:    e.PointsUsed,
		SwapStatus:    string(e.SwapStatus),
		ItemStatus:    string(e.ItemStatus),
		CorrelationID: e.CorrelationID,
		OccurredAt:    e.OccurredAt,
		RecordedAt:    recordedAt,
	}
}

func (d activityDocument) toEvent() (*swap.Event, error) {
	ids := make([]uuid.UUID, 5)
	for i, raw := range []string{d.EventID, d.SwapID, d.ItemID, d.RequesterID, d.OwnerID} {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q in activity document: %w", raw, err)
		}
		ids[i] = id
	}
	return &swap.Event{
		EventID:       ids[0],
		Type:          shared.EventType(d.Type),
		SwapID:        ids[1],
		ItemID:        ids[2],
		ItemTitle:     d.ItemTitle,
		RequesterID:   ids[3],
		OwnerID:       ids[4],
		PointsUsed:    d.PointsUsed,
		SwapStatus:    shared.SwapStatus(d.SwapStatus),
		ItemStatus:    shared.ItemStatus(d.ItemStatus),
		CorrelationID: d.CorrelationID,
		OccurredAt:    d.OccurredAt.UTC(),
	}, nil
}

func buildFilter(f activity.Filter) bson.M {
	filter := bson.M{}
	if f.SwapID != nil {
		filter["swap_id"] = f.SwapID.String()
	}
	if f.UserID != nil {
		id := f.UserID.String()
		filter["$or"] = bson.A{
			bson.M{"requester_id": id},
			bson.M{"owner_id": id},
		}
	}
	return filter
}

// ActivityRepository implements the activity.Repository interface for MongoDB
type ActivityRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewActivityRepository creates a new MongoDB swap activity repository
func NewActivityRepository(logger *slog.Logger, db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{
		db:     db,
		logger: logger,
	}
}

var _ activity.Repository = (*ActivityRepository)(nil)

// EnsureIndexes creates the lookup indexes used by List
func (r *ActivityRepository) EnsureIndexes(ctx context.Context) error {
	collection := r.db.Collection(ActivityCollectionName)
	_, err := collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "swap_id", Value: 1}, {Key: "occurred_at", Value: -1}}},
		{Keys: bson.D{{Key: "requester_id", Value: 1}, {Key: "occurred_at", Value: -1}}},
		{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "occurred_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create activity indexes: %w", err)
	}
	return nil
}

// Record upserts the event keyed by its id. Redelivered events match the
// existing document and leave it untouched.
func (r *ActivityRepository) Record(ctx context.Context, event *swap.Event) error {
	collection := r.db.Collection(ActivityCollectionName)

	doc := toDocument(event, time.Now().UTC())
	opts := options.Update().SetUpsert(true)
	result, err := collection.UpdateOne(ctx,
		bson.M{"_id": doc.EventID},
		bson.M{"$setOnInsert": doc},
		opts,
	)
	if err != nil {
		r.logger.Error("Failed to record swap activity",
			"event_id", doc.EventID,
			"swap_id", doc.SwapID,
			"error", err)
		return fmt.Errorf("failed to record swap activity: %w", err)
	}

	if result.UpsertedCount == 0 {
		r.logger.Debug("Swap activity already recorded", "event_id", doc.EventID)
	}
	return nil
}

// List returns matching events, newest first, with the total count
func (r *ActivityRepository) List(ctx context.Context, f activity.Filter) ([]*swap.Event, int64, error) {
	collection := r.db.Collection(ActivityCollectionName)
	filter := buildFilter(f)

	total, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		r.logger.Error("Failed to count swap activity", "error", err)
		return nil, 0, fmt.Errorf("failed to count swap activity: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "occurred_at", Value: -1}}).
		SetSkip(int64(f.Offset)).
		SetLimit(int64(f.Limit))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to list swap activity", "error", err)
		return nil, 0, fmt.Errorf("failed to list swap activity: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []activityDocument
	if err := cursor.All(ctx, &docs); err != nil {
		r.logger.Error("Failed to decode swap activity", "error", err)
		return nil, 0, fmt.Errorf("failed to decode swap activity: %w", err)
	}

	events := make([]*swap.Event, 0, len(docs))
	for _, doc := range docs {
		event, err := doc.toEvent()
		if err != nil {
			return nil, 0, err
		}
		events = append(events, event)
	}

	return events, total, nil
}
