package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rewear/swap-platform/internal/domain/shared"
	"github.com/rewear/swap-platform/internal/domain/swap"
	"github.com/rewear/swap-platform/internal/platform/persistence"
)

const swapColumns = `id, item_id, requester_id, points_used, message, status, created_at, updated_at`

const swapDetailsSelect = `
		SELECT s.id, s.item_id, s.requester_id, s.points_used, s.message, s.status, s.created_at, s.updated_at,
		       i.id, i.owner_id, i.title, i.description, i.category, i.condition, i.size, i.points_value,
		       i.status, i.image_urls, i.deleted_at, i.created_at, i.updated_at,
		       o.id, o.display_name, o.email,
		       r.id, r.display_name, r.email
		FROM swaps s
		JOIN items i ON i.id = s.item_id
		JOIN users o ON o.id = i.owner_id
		JOIN users r ON r.id = s.requester_id`

// swapFilterClause takes requester ($1) and status ($2)
const swapFilterClause = `
		WHERE ($1::uuid IS NULL OR s.requester_id = $1)
		  AND ($2::text = '' OR s.status = $2)`

const (
	createSwapQuery = `
		INSERT INTO swaps (id, item_id, requester_id, points_used, message, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	getSwapByIDQuery = `
		SELECT ` + swapColumns + `
		FROM swaps
		WHERE id = $1
	`
	getSwapDetailsQuery = swapDetailsSelect + `
		WHERE s.id = $1
	`
	listSwapsQuery = swapDetailsSelect + swapFilterClause + `
		ORDER BY s.created_at DESC
		LIMIT $3 OFFSET $4
	`
	countSwapsQuery = `
		SELECT COUNT(*)
		FROM swaps s` + swapFilterClause
	setSwapStatusQuery = `
		UPDATE swaps
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
		RETURNING ` + swapColumns
)

// SwapRepository implements the swap.Repository interface for PostgreSQL
type SwapRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewSwapRepository creates a new PostgreSQL swap repository
func NewSwapRepository(logger *slog.Logger, db *persistence.PostgresDB) swap.Repository {
	return &SwapRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx returns a repository bound to tx
func (r *SwapRepository) WithTx(tx pgx.Tx) swap.Repository {
	return &SwapRepository{
		querier: tx,
		logger:  r.logger,
	}
}

func scanSwap(row pgx.Row) (*swap.Swap, error) {
	var s swap.Swap
	err := row.Scan(
		&s.ID,
		&s.ItemID,
		&s.RequesterID,
		&s.PointsUsed,
		&s.Message,
		&s.Status,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func scanSwapDetails(row pgx.Row) (*swap.Details, error) {
	var d swap.Details
	err := row.Scan(
		&d.ID,
		&d.ItemID,
		&d.RequesterID,
		&d.PointsUsed,
		&d.Message,
		&d.Status,
		&d.CreatedAt,
		&d.UpdatedAt,
		&d.Item.ID,
		&d.Item.OwnerID,
		&d.Item.Title,
		&d.Item.Description,
		&d.Item.Category,
		&d.Item.Condition,
		&d.Item.Size,
		&d.Item.PointsValue,
		&d.Item.Status,
		&d.Item.ImageURLs,
		&d.Item.DeletedAt,
		&d.Item.CreatedAt,
		&d.Item.UpdatedAt,
		&d.Owner.ID,
		&d.Owner.DisplayName,
		&d.Owner.Email,
		&d.Requester.ID,
		&d.Requester.DisplayName,
		&d.Requester.Email,
	)
	if err != nil {
		return nil, err
	}
	if d.Item.ImageURLs == nil {
		d.Item.ImageURLs = []string{}
	}
	return &d, nil
}

// Create stores a new swap. The partial unique index on pending swaps turns a
// second live claim on the same item into a conflict.
func (r *SwapRepository) Create(ctx context.Context, s *swap.Swap) error {
	_, err := r.querier.Exec(ctx, createSwapQuery,
		s.ID,
		s.ItemID,
		s.RequesterID,
		s.PointsUsed,
		s.Message,
		s.Status,
		s.CreatedAt,
		s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return shared.NewConflict("item %s already has a pending swap", s.ItemID)
		}
		r.logger.Error("Failed to create swap", "id", s.ID.String(), "item_id", s.ItemID.String(), "error", err)
		return fmt.Errorf("failed to create swap: %w", err)
	}
	return nil
}

// GetByID retrieves a bare swap by id
func (r *SwapRepository) GetByID(ctx context.Context, id uuid.UUID) (*swap.Swap, error) {
	s, err := scanSwap(r.querier.QueryRow(ctx, getSwapByIDQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, swap.NotFoundError(id)
		}
		r.logger.Error("Failed to get swap", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get swap: %w", err)
	}
	return s, nil
}

// GetDetails retrieves a swap with its item, owner and requester
func (r *SwapRepository) GetDetails(ctx context.Context, id uuid.UUID) (*swap.Details, error) {
	d, err := scanSwapDetails(r.querier.QueryRow(ctx, getSwapDetailsQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, swap.NotFoundError(id)
		}
		r.logger.Error("Failed to get swap details", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get swap details: %w", err)
	}
	return d, nil
}

// List returns a filtered page of swaps, newest first, with the total count.
// The filter is expected to be normalized.
func (r *SwapRepository) List(ctx context.Context, filter swap.ListFilter) ([]*swap.Details, int64, error) {
	var requesterID *uuid.UUID
	if filter.RequesterID != uuid.Nil {
		requesterID = &filter.RequesterID
	}

	var total int64
	if err := r.querier.QueryRow(ctx, countSwapsQuery, requesterID, string(filter.Status)).Scan(&total); err != nil {
		r.logger.Error("Failed to count swaps", "error", err)
		return nil, 0, fmt.Errorf("failed to count swaps: %w", err)
	}

	rows, err := r.querier.Query(ctx, listSwapsQuery, requesterID, string(filter.Status), filter.Limit, filter.Offset)
	if err != nil {
		r.logger.Error("Failed to list swaps", "error", err)
		return nil, 0, fmt.Errorf("failed to list swaps: %w", err)
	}
	defer rows.Close()

	swaps := []*swap.Details{}
	for rows.Next() {
		d, err := scanSwapDetails(rows)
		if err != nil {
			r.logger.Error("Failed to scan swap", "error", err)
			return nil, 0, fmt.Errorf("failed to scan swap: %w", err)
		}
		swaps = append(swaps, d)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over swaps", "error", err)
		return nil, 0, fmt.Errorf("error iterating over swaps: %w", err)
	}

	return swaps, total, nil
}

// SetStatus moves the swap from -> to in one guarded statement
func (r *SwapRepository) SetStatus(ctx context.Context, id uuid.UUID, from, to shared.SwapStatus) (*swap.Swap, error) {
	s, err := scanSwap(r.querier.QueryRow(ctx, setSwapStatusQuery, to, id, from))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.NewConflict("swap %s is no longer %s", id, from)
		}
		r.logger.Error("Failed to set swap status", "id", id.String(), "from", string(from), "to", string(to), "error", err)
		return nil, fmt.Errorf("failed to set swap status: %w", err)
	}
	return s, nil
}
