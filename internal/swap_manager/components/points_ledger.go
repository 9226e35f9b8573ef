package components

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rewear/swap-platform/internal/domain/ledger"
	"github.com/rewear/swap-platform/internal/domain/store"
	"github.com/rewear/swap-platform/internal/domain/user"
	applog "github.com/rewear/swap-platform/internal/logger"
	"github.com/rewear/swap-platform/internal/swap_manager/service"
)

type PointsLedgerImpl struct {
	logger *slog.Logger
}

func NewPointsLedger(logger *slog.Logger) service.PointsLedger {
	return &PointsLedgerImpl{
		logger: logger,
	}
}

// Apply adjusts the balance and appends the ledger entry through tx. Both
// writes belong to the caller's atomic unit, so the balance and the ledger
// sum move together.
func (l *PointsLedgerImpl) Apply(ctx context.Context, tx store.Store, change service.PointsChange) (*user.User, error) {
	logger := applog.WithContext(ctx, l.logger)

	entry, err := ledger.NewEntry(change.UserID, change.Delta, change.Reason, change.ItemID, change.SwapID, change.Notes)
	if err != nil {
		return nil, err
	}

	updated, err := tx.AdjustUserPoints(ctx, change.UserID, change.Delta)
	if err != nil {
		logger.Warn("Points adjustment rejected",
			"user_id", change.UserID.String(),
			"delta", change.Delta,
			"reason", string(change.Reason),
			"error", err,
		)
		return nil, err
	}

	if err := tx.AppendLedgerEntry(ctx, entry); err != nil {
		logger.Error("Failed to append ledger entry",
			"user_id", change.UserID.String(),
			"entry_id", entry.ID.String(),
			"error", err,
		)
		return nil, fmt.Errorf("failed to record points change for user %s: %w", change.UserID, err)
	}

	logger.Debug("Points applied",
		"user_id", change.UserID.String(),
		"delta", change.Delta,
		"reason", string(change.Reason),
		"balance", updated.Points,
	)
	return updated, nil
}
