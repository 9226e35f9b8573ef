package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rewear/swap-platform/internal/domain/shared"
	"github.com/rewear/swap-platform/internal/domain/store"
	"github.com/rewear/swap-platform/internal/domain/swap"
	"github.com/rewear/swap-platform/internal/domain/user"
)

// SwapManager runs the swap lifecycle on behalf of an authenticated caller.
// Every mutation is a single atomic unit over users, items, swaps, the
// points ledger and the event outbox.
type SwapManager interface {
	RequestSwap(ctx context.Context, caller shared.Identity, itemID uuid.UUID, message string) (*swap.Details, error)
	CancelSwap(ctx context.Context, caller shared.Identity, swapID uuid.UUID) (*CancelResult, error)
	CompleteSwap(ctx context.Context, caller shared.Identity, swapID uuid.UUID) (*swap.Details, error)
	GetSwap(ctx context.Context, caller shared.Identity, swapID uuid.UUID) (*swap.Details, error)
	ListMySwaps(ctx context.Context, caller shared.Identity, filter swap.ListFilter) (*swap.Page, error)
}

// CancelResult confirms a cancellation and the points returned
type CancelResult struct {
	SwapID         uuid.UUID `json:"swap_id"`
	RefundedPoints int64     `json:"refunded_points"`
}

// PointsChange is one balance movement and the ledger entry recording it
type PointsChange struct {
	UserID uuid.UUID
	Delta  int64
	Reason shared.LedgerReason
	ItemID *uuid.UUID
	SwapID *uuid.UUID
	Notes  string
}

// PointsLedger moves balances. Each call adjusts the balance and appends the
// matching ledger entry inside the caller's atomic unit.
type PointsLedger interface {
	Apply(ctx context.Context, tx store.Store, change PointsChange) (*user.User, error)
}

// EventRecorder enqueues swap lifecycle events in the outbox
type EventRecorder interface {
	Record(ctx context.Context, tx store.Store, eventType shared.EventType, details *swap.Details) error
}
