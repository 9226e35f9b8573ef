package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository is append-only: entries are never updated or deleted
type Repository interface {
	Append(ctx context.Context, entry *Entry) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Entry, int64, error)

	// SumByUser returns the sum of deltas and the number of entries for a user
	SumByUser(ctx context.Context, userID uuid.UUID) (sum int64, count int64, err error)

	// Reconcile reads the stored balance and the ledger totals from one snapshot
	Reconcile(ctx context.Context, userID uuid.UUID) (*Reconciliation, error)
	WithTx(tx pgx.Tx) Repository
}
