package service

import (
	"context"

	"github.com/rewear/swap-platform/internal/domain/swap"
)

// ProjectionService applies swap events to the activity read model.
// Projecting the same event twice must leave a single record.
type ProjectionService interface {
	Project(ctx context.Context, event *swap.Event) error
}
