package user

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rewear/swap-platform/internal/domain/shared"
)

// Repository defines user persistence operations
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, limit, offset int) ([]*User, int64, error)
	SetStatus(ctx context.Context, id uuid.UUID, status shared.UserStatus) (*User, error)

	// AdjustPoints applies delta in a single guarded statement.
	// Returns shared.InsufficientFundsError when the balance would go negative.
	AdjustPoints(ctx context.Context, id uuid.UUID, delta int64) (*User, error)
	WithTx(tx pgx.Tx) Repository
}

// NotFoundError builds the not-found error for a user id
func NotFoundError(id uuid.UUID) error {
	return shared.NewNotFound("user %s not found", id)
}
