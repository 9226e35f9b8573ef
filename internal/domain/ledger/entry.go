package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/rewear/swap-platform/internal/domain/shared"
)

// Entry is one immutable movement of a user's points balance.
// The sum of a user's deltas always equals their balance.
type Entry struct {
	ID        uuid.UUID           `json:"id"`
	UserID    uuid.UUID           `json:"user_id"`
	Delta     int64               `json:"delta"`
	Reason    shared.LedgerReason `json:"reason"`
	ItemID    *uuid.UUID          `json:"item_id,omitempty"`
	SwapID    *uuid.UUID          `json:"swap_id,omitempty"`
	Notes     string              `json:"notes,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
}

// NewEntry validates and builds a ledger entry
func NewEntry(userID uuid.UUID, delta int64, reason shared.LedgerReason, itemID, swapID *uuid.UUID, notes string) (*Entry, error) {
	if userID == uuid.Nil {
		return nil, shared.NewInvalidInput("ledger entry requires a user")
	}
	if delta == 0 {
		return nil, shared.NewInvalidInput("ledger delta cannot be zero")
	}
	switch reason {
	case shared.LedgerReasonSwapRedeem, shared.LedgerReasonAdminAdjustment, shared.LedgerReasonSignupBonus:
	default:
		return nil, shared.NewInvalidInput("unknown ledger reason %q", reason)
	}

	return &Entry{
		ID:        uuid.New(),
		UserID:    userID,
		Delta:     delta,
		Reason:    reason,
		ItemID:    itemID,
		SwapID:    swapID,
		Notes:     notes,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Reconciliation compares a stored balance with the ledger sum
type Reconciliation struct {
	UserID    uuid.UUID `json:"user_id"`
	Balance   int64     `json:"balance"`
	LedgerSum int64     `json:"ledger_sum"`
	Entries   int64     `json:"entries"`
	Balanced  bool      `json:"balanced"`
}
