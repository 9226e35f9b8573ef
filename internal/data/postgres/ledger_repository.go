package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rewear/swap-platform/internal/domain/ledger"
	"github.com/rewear/swap-platform/internal/domain/user"
	"github.com/rewear/swap-platform/internal/platform/persistence"
)

const ledgerColumns = `id, user_id, delta, reason, item_id, swap_id, notes, created_at`

const (
	appendLedgerEntryQuery = `
		INSERT INTO point_ledger (` + ledgerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	listLedgerByUserQuery = `
		SELECT ` + ledgerColumns + `
		FROM point_ledger
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	sumLedgerByUserQuery = `
		SELECT COALESCE(SUM(delta), 0)::BIGINT, COUNT(*)
		FROM point_ledger
		WHERE user_id = $1
	`
	// One statement, so the balance and the sum come from the same snapshot
	reconcileUserQuery = `
		SELECT u.points, COALESCE(SUM(l.delta), 0)::BIGINT, COUNT(l.id)
		FROM users u
		LEFT JOIN point_ledger l ON l.user_id = u.id
		WHERE u.id = $1
		GROUP BY u.id, u.points
	`
)

// LedgerRepository implements the ledger.Repository interface for PostgreSQL.
// Entries are only ever inserted.
type LedgerRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewLedgerRepository creates a new PostgreSQL points ledger repository
func NewLedgerRepository(logger *slog.Logger, db *persistence.PostgresDB) ledger.Repository {
	return &LedgerRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx returns a repository bound to tx
func (r *LedgerRepository) WithTx(tx pgx.Tx) ledger.Repository {
	return &LedgerRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Append inserts a ledger entry
func (r *LedgerRepository) Append(ctx context.Context, e *ledger.Entry) error {
	_, err := r.querier.Exec(ctx, appendLedgerEntryQuery,
		e.ID,
		e.UserID,
		e.Delta,
		e.Reason,
		e.ItemID,
		e.SwapID,
		e.Notes,
		e.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to append ledger entry",
			"user_id", e.UserID.String(),
			"delta", e.Delta,
			"reason", string(e.Reason),
			"error", err,
		)
		return fmt.Errorf("failed to append ledger entry: %w", err)
	}
	return nil
}

// ListByUser returns a user's entries, newest first, with the total count
func (r *LedgerRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*ledger.Entry, int64, error) {
	_, total, err := r.SumByUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.querier.Query(ctx, listLedgerByUserQuery, userID, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list ledger entries", "user_id", userID.String(), "error", err)
		return nil, 0, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	defer rows.Close()

	entries := []*ledger.Entry{}
	for rows.Next() {
		var e ledger.Entry
		if err := rows.Scan(
			&e.ID,
			&e.UserID,
			&e.Delta,
			&e.Reason,
			&e.ItemID,
			&e.SwapID,
			&e.Notes,
			&e.CreatedAt,
		); err != nil {
			r.logger.Error("Failed to scan ledger entry", "error", err)
			return nil, 0, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over ledger entries", "error", err)
		return nil, 0, fmt.Errorf("error iterating over ledger entries: %w", err)
	}

	return entries, total, nil
}

// SumByUser totals a user's deltas
func (r *LedgerRepository) SumByUser(ctx context.Context, userID uuid.UUID) (int64, int64, error) {
	var sum, count int64
	if err := r.querier.QueryRow(ctx, sumLedgerByUserQuery, userID).Scan(&sum, &count); err != nil {
		r.logger.Error("Failed to sum ledger entries", "user_id", userID.String(), "error", err)
		return 0, 0, fmt.Errorf("failed to sum ledger entries: %w", err)
	}
	return sum, count, nil
}

// Reconcile compares the user's balance with the sum of their entries
func (r *LedgerRepository) Reconcile(ctx context.Context, userID uuid.UUID) (*ledger.Reconciliation, error) {
	result := &ledger.Reconciliation{UserID: userID}
	err := r.querier.QueryRow(ctx, reconcileUserQuery, userID).Scan(&result.Balance, &result.LedgerSum, &result.Entries)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.NotFoundError(userID)
		}
		r.logger.Error("Failed to reconcile user points", "user_id", userID.String(), "error", err)
		return nil, fmt.Errorf("failed to reconcile user points: %w", err)
	}
	result.Balanced = result.Balance == result.LedgerSum
	return result, nil
}
