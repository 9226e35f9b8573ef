// Package activity defines the read model of swap lifecycle events projected
// from the event stream.
package activity

import (
	"context"

	"github.com/google/uuid"
	"github.com/rewear/swap-platform/internal/domain/swap"
)

// Filter narrows the activity feed; zero values match everything
type Filter struct {
	SwapID *uuid.UUID
	UserID *uuid.UUID // matches either party
	Limit  int
	Offset int
}

// Repository stores projected swap events
type Repository interface {
	// Record stores an event; recording the same event id twice is a no-op
	Record(ctx context.Context, event *swap.Event) error
	List(ctx context.Context, filter Filter) ([]*swap.Event, int64, error)
}
