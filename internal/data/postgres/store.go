package postgres

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rewear/swap-platform/internal/domain/item"
	"github.com/rewear/swap-platform/internal/domain/ledger"
	"github.com/rewear/swap-platform/internal/domain/outbox"
	"github.com/rewear/swap-platform/internal/domain/shared"
	"github.com/rewear/swap-platform/internal/domain/store"
	"github.com/rewear/swap-platform/internal/domain/swap"
	"github.com/rewear/swap-platform/internal/domain/user"
	"github.com/rewear/swap-platform/internal/platform/persistence"
)

// Store implements store.Transactional on top of the PostgreSQL repositories.
// A Store bound to a transaction routes every repository through it.
type Store struct {
	db     persistence.TxBeginner
	users  *UserRepository
	items  *ItemRepository
	swaps  *SwapRepository
	ledger *LedgerRepository
	outbox *OutboxRepository
	logger *slog.Logger
}

var _ store.Transactional = (*Store)(nil)

// NewStore creates the transactional store over the connection pool
func NewStore(logger *slog.Logger, db *persistence.PostgresDB) *Store {
	return newStore(logger, db.Pool())
}

func newStore(logger *slog.Logger, db persistence.TxBeginner) *Store {
	s := bind(logger, db)
	s.db = db
	return s
}

func bind(logger *slog.Logger, q persistence.Querier) *Store {
	return &Store{
		users:  &UserRepository{querier: q, logger: logger},
		items:  &ItemRepository{querier: q, logger: logger},
		swaps:  &SwapRepository{querier: q, logger: logger},
		ledger: &LedgerRepository{querier: q, logger: logger},
		outbox: &OutboxRepository{querier: q, logger: logger},
		logger: logger,
	}
}

// RunAtomic runs fn inside one database transaction
func (s *Store) RunAtomic(ctx context.Context, fn func(ctx context.Context, tx store.Store) error) error {
	return persistence.ExecuteTx(ctx, s.db, func(tx pgx.Tx) error {
		return fn(ctx, bind(s.logger, tx))
	})
}

func (s *Store) CreateUser(ctx context.Context, u *user.User) error {
	return s.users.Create(ctx, u)
}

func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *Store) AdjustUserPoints(ctx context.Context, id uuid.UUID, delta int64) (*user.User, error) {
	return s.users.AdjustPoints(ctx, id, delta)
}

func (s *Store) GetItem(ctx context.Context, id uuid.UUID) (*item.Item, error) {
	return s.items.GetByID(ctx, id)
}

func (s *Store) SetItemStatus(ctx context.Context, id uuid.UUID, from, to shared.ItemStatus) (*item.Item, error) {
	return s.items.SetStatus(ctx, id, from, to)
}

func (s *Store) CreateSwap(ctx context.Context, sw *swap.Swap) error {
	return s.swaps.Create(ctx, sw)
}

func (s *Store) GetSwap(ctx context.Context, id uuid.UUID) (*swap.Swap, error) {
	return s.swaps.GetByID(ctx, id)
}

func (s *Store) GetSwapDetails(ctx context.Context, id uuid.UUID) (*swap.Details, error) {
	return s.swaps.GetDetails(ctx, id)
}

func (s *Store) SetSwapStatus(ctx context.Context, id uuid.UUID, from, to shared.SwapStatus) (*swap.Swap, error) {
	return s.swaps.SetStatus(ctx, id, from, to)
}

func (s *Store) ListSwaps(ctx context.Context, filter swap.ListFilter) ([]*swap.Details, int64, error) {
	return s.swaps.List(ctx, filter)
}

func (s *Store) AppendLedgerEntry(ctx context.Context, entry *ledger.Entry) error {
	return s.ledger.Append(ctx, entry)
}

func (s *Store) EnqueueOutboxMessage(ctx context.Context, message *outbox.Message) error {
	return s.outbox.Create(ctx, message)
}
