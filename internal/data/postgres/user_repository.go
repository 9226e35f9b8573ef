// Package postgres provides PostgreSQL implementations of the domain repositories
// and the transactional Store the swap flow runs against.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rewear/swap-platform/internal/domain/shared"
	"github.com/rewear/swap-platform/internal/domain/user"
	"github.com/rewear/swap-platform/internal/platform/persistence"
)

const userColumns = `id, email, display_name, password_hash, role, status, points, created_at, updated_at`

const (
	createUserQuery = `
		INSERT INTO users (id, email, display_name, password_hash, role, status, points, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	getUserByIDQuery = `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1
	`
	getUserByEmailQuery = `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1
	`
	listUsersQuery = `
		SELECT ` + userColumns + `
		FROM users
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	countUsersQuery    = `SELECT COUNT(*) FROM users`
	setUserStatusQuery = `
		UPDATE users
		SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + userColumns
	// The balance guard lives in the WHERE clause so concurrent debits can
	// never drive points below zero
	adjustUserPointsQuery = `
		UPDATE users
		SET points = points + $1, updated_at = NOW()
		WHERE id = $2 AND points + $1 >= 0
		RETURNING ` + userColumns
	getUserPointsQuery = `SELECT points FROM users WHERE id = $1`
)

// UserRepository implements the user.Repository interface for PostgreSQL
type UserRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(logger *slog.Logger, db *persistence.PostgresDB) user.Repository {
	return &UserRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx returns a repository bound to tx
func (r *UserRepository) WithTx(tx pgx.Tx) user.Repository {
	return &UserRepository{
		querier: tx,
		logger:  r.logger,
	}
}

func scanUser(row pgx.Row) (*user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.DisplayName,
		&u.PasswordHash,
		&u.Role,
		&u.Status,
		&u.Points,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create stores a new user. A duplicate email surfaces as a conflict.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	_, err := r.querier.Exec(ctx, createUserQuery,
		u.ID,
		u.Email,
		u.DisplayName,
		u.PasswordHash,
		u.Role,
		u.Status,
		u.Points,
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return shared.NewConflict("a user with this email already exists")
		}
		r.logger.Error("Failed to create user", "id", u.ID.String(), "error", err)
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by id
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	u, err := scanUser(r.querier.QueryRow(ctx, getUserByIDQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.NotFoundError(id)
		}
		r.logger.Error("Failed to get user", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// GetByEmail retrieves a user by normalized email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	email = user.NormalizeEmail(email)
	u, err := scanUser(r.querier.QueryRow(ctx, getUserByEmailQuery, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.NewNotFound("user not found")
		}
		r.logger.Error("Failed to get user by email", "error", err)
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return u, nil
}

// List returns a page of users, newest first, with the total count
func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]*user.User, int64, error) {
	var total int64
	if err := r.querier.QueryRow(ctx, countUsersQuery).Scan(&total); err != nil {
		r.logger.Error("Failed to count users", "error", err)
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	rows, err := r.querier.Query(ctx, listUsersQuery, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list users", "error", err)
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []*user.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			r.logger.Error("Failed to scan user", "error", err)
			return nil, 0, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over users", "error", err)
		return nil, 0, fmt.Errorf("error iterating over users: %w", err)
	}

	return users, total, nil
}

// SetStatus activates or suspends a user
func (r *UserRepository) SetStatus(ctx context.Context, id uuid.UUID, status shared.UserStatus) (*user.User, error) {
	u, err := scanUser(r.querier.QueryRow(ctx, setUserStatusQuery, status, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.NotFoundError(id)
		}
		r.logger.Error("Failed to set user status", "id", id.String(), "status", string(status), "error", err)
		return nil, fmt.Errorf("failed to set user status: %w", err)
	}
	return u, nil
}

// AdjustPoints applies delta to the balance. When the guard rejects the update
// the current balance is read to tell a missing user from a short balance.
func (r *UserRepository) AdjustPoints(ctx context.Context, id uuid.UUID, delta int64) (*user.User, error) {
	u, err := scanUser(r.querier.QueryRow(ctx, adjustUserPointsQuery, delta, id))
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		r.logger.Error("Failed to adjust user points", "id", id.String(), "delta", delta, "error", err)
		return nil, fmt.Errorf("failed to adjust user points: %w", err)
	}

	var available int64
	if err := r.querier.QueryRow(ctx, getUserPointsQuery, id).Scan(&available); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.NotFoundError(id)
		}
		r.logger.Error("Failed to read user points", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to read user points: %w", err)
	}

	return nil, shared.InsufficientFundsError{UserID: id, Required: -delta, Available: available}
}
