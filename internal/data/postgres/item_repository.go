package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rewear/swap-platform/internal/domain/item"
	"github.com/rewear/swap-platform/internal/domain/shared"
	"github.com/rewear/swap-platform/internal/platform/persistence"
)

const itemColumns = `id, owner_id, title, description, category, condition, size, points_value, status, image_urls, deleted_at, created_at, updated_at`

// itemFilterClause takes owner ($1), status ($2), category ($3) and include-deleted ($4)
const itemFilterClause = `
		WHERE ($1::uuid IS NULL OR owner_id = $1)
		  AND ($2::text = '' OR status = $2)
		  AND ($3::text = '' OR category = $3)
		  AND ($4::boolean OR deleted_at IS NULL)`

const (
	createItemQuery = `
		INSERT INTO items (id, owner_id, title, description, category, condition, size, points_value, status, image_urls, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	getItemByIDQuery = `
		SELECT ` + itemColumns + `
		FROM items
		WHERE id = $1
	`
	listItemsQuery = `
		SELECT ` + itemColumns + `
		FROM items` + itemFilterClause + `
		ORDER BY created_at DESC
		LIMIT $5 OFFSET $6
	`
	countItemsQuery = `
		SELECT COUNT(*)
		FROM items` + itemFilterClause
	// The points value may only change while no swap holds the item
	updateItemQuery = `
		UPDATE items
		SET title = $1, description = $2, category = $3, condition = $4, size = $5, points_value = $6, updated_at = $7
		WHERE id = $8 AND deleted_at IS NULL AND (points_value = $6 OR status = 'AVAILABLE')
	`
	softDeleteItemQuery = `
		UPDATE items
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL AND status <> 'PENDING_SWAP'
	`
	setItemStatusQuery = `
		UPDATE items
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3 AND deleted_at IS NULL
		RETURNING ` + itemColumns
)

// ItemRepository implements the item.Repository interface for PostgreSQL
type ItemRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewItemRepository creates a new PostgreSQL item repository
func NewItemRepository(logger *slog.Logger, db *persistence.PostgresDB) item.Repository {
	return &ItemRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx returns a repository bound to tx
func (r *ItemRepository) WithTx(tx pgx.Tx) item.Repository {
	return &ItemRepository{
		querier: tx,
		logger:  r.logger,
	}
}

func scanItem(row pgx.Row) (*item.Item, error) {
	var it item.Item
	err := row.Scan(
		&it.ID,
		&it.OwnerID,
		&it.Title,
		&it.Description,
		&it.Category,
		&it.Condition,
		&it.Size,
		&it.PointsValue,
		&it.Status,
		&it.ImageURLs,
		&it.DeletedAt,
		&it.CreatedAt,
		&it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if it.ImageURLs == nil {
		it.ImageURLs = []string{}
	}
	return &it, nil
}

// Create stores a new listing
func (r *ItemRepository) Create(ctx context.Context, it *item.Item) error {
	_, err := r.querier.Exec(ctx, createItemQuery,
		it.ID,
		it.OwnerID,
		it.Title,
		it.Description,
		it.Category,
		it.Condition,
		it.Size,
		it.PointsValue,
		it.Status,
		it.ImageURLs,
		it.CreatedAt,
		it.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create item", "id", it.ID.String(), "error", err)
		return fmt.Errorf("failed to create item: %w", err)
	}
	return nil
}

// GetByID retrieves an item by id, including soft-deleted ones
func (r *ItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*item.Item, error) {
	it, err := scanItem(r.querier.QueryRow(ctx, getItemByIDQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, item.NotFoundError(id)
		}
		r.logger.Error("Failed to get item", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return it, nil
}

// List returns a filtered page of items, newest first, with the total count
func (r *ItemRepository) List(ctx context.Context, filter item.ListFilter) ([]*item.Item, int64, error) {
	var total int64
	err := r.querier.QueryRow(ctx, countItemsQuery,
		filter.OwnerID, string(filter.Status), filter.Category, filter.IncludeDeleted,
	).Scan(&total)
	if err != nil {
		r.logger.Error("Failed to count items", "error", err)
		return nil, 0, fmt.Errorf("failed to count items: %w", err)
	}

	rows, err := r.querier.Query(ctx, listItemsQuery,
		filter.OwnerID, string(filter.Status), filter.Category, filter.IncludeDeleted, filter.Limit, filter.Offset,
	)
	if err != nil {
		r.logger.Error("Failed to list items", "error", err)
		return nil, 0, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	items := []*item.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			r.logger.Error("Failed to scan item", "error", err)
			return nil, 0, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over items", "error", err)
		return nil, 0, fmt.Errorf("error iterating over items: %w", err)
	}

	return items, total, nil
}

// Update persists edited descriptive fields. Returns a conflict if the item
// was deleted or claimed by a swap since it was read.
func (r *ItemRepository) Update(ctx context.Context, it *item.Item) error {
	result, err := r.querier.Exec(ctx, updateItemQuery,
		it.Title,
		it.Description,
		it.Category,
		it.Condition,
		it.Size,
		it.PointsValue,
		it.UpdatedAt,
		it.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update item", "id", it.ID.String(), "error", err)
		return fmt.Errorf("failed to update item: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.NewConflict("item %s changed while it was being edited", it.ID)
	}
	return nil
}

// SoftDelete hides a listing. Returns a conflict if it is already deleted or
// a swap is pending on it.
func (r *ItemRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	result, err := r.querier.Exec(ctx, softDeleteItemQuery, id)
	if err != nil {
		r.logger.Error("Failed to delete item", "id", id.String(), "error", err)
		return fmt.Errorf("failed to delete item: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.NewConflict("item %s can no longer be removed", id)
	}
	return nil
}

// SetStatus moves the item from -> to in one guarded statement
func (r *ItemRepository) SetStatus(ctx context.Context, id uuid.UUID, from, to shared.ItemStatus) (*item.Item, error) {
	it, err := scanItem(r.querier.QueryRow(ctx, setItemStatusQuery, to, id, from))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.NewConflict("item %s is no longer %s", id, from)
		}
		r.logger.Error("Failed to set item status", "id", id.String(), "from", string(from), "to", string(to), "error", err)
		return nil, fmt.Errorf("failed to set item status: %w", err)
	}
	return it, nil
}
