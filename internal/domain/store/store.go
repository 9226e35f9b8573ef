// Package store defines the storage contract the swap flow runs against.
// Every mutation it exposes carries its own guard, so a caller never writes a
// value it read earlier without re-checking it.
package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/rewear/swap-platform/internal/domain/item"
	"github.com/rewear/swap-platform/internal/domain/ledger"
	"github.com/rewear/swap-platform/internal/domain/outbox"
	"github.com/rewear/swap-platform/internal/domain/shared"
	"github.com/rewear/swap-platform/internal/domain/swap"
	"github.com/rewear/swap-platform/internal/domain/user"
)

// Store is the set of operations available inside and outside an atomic unit
type Store interface {
	CreateUser(ctx context.Context, u *user.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*user.User, error)

	// AdjustUserPoints fails with shared.InsufficientFundsError if the
	// balance would go negative
	AdjustUserPoints(ctx context.Context, id uuid.UUID, delta int64) (*user.User, error)

	GetItem(ctx context.Context, id uuid.UUID) (*item.Item, error)

	// SetItemStatus fails with a conflict error if the item is not in from
	SetItemStatus(ctx context.Context, id uuid.UUID, from, to shared.ItemStatus) (*item.Item, error)

	CreateSwap(ctx context.Context, s *swap.Swap) error
	GetSwap(ctx context.Context, id uuid.UUID) (*swap.Swap, error)
	GetSwapDetails(ctx context.Context, id uuid.UUID) (*swap.Details, error)

	// SetSwapStatus fails with a conflict error if the swap is not in from
	SetSwapStatus(ctx context.Context, id uuid.UUID, from, to shared.SwapStatus) (*swap.Swap, error)
	ListSwaps(ctx context.Context, filter swap.ListFilter) ([]*swap.Details, int64, error)

	AppendLedgerEntry(ctx context.Context, entry *ledger.Entry) error
	EnqueueOutboxMessage(ctx context.Context, message *outbox.Message) error
}

// Transactional is a Store that can group calls into one atomic unit
type Transactional interface {
	Store

	// RunAtomic runs fn against a Store whose effects commit together when fn
	// returns nil and are discarded otherwise
	RunAtomic(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}
