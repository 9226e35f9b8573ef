package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/rewear/swap-platform/internal/domain/activity"
	"github.com/rewear/swap-platform/internal/domain/item"
	"github.com/rewear/swap-platform/internal/domain/ledger"
	"github.com/rewear/swap-platform/internal/domain/shared"
	"github.com/rewear/swap-platform/internal/domain/store"
	"github.com/rewear/swap-platform/internal/domain/swap"
	"github.com/rewear/swap-platform/internal/domain/user"
	applog "github.com/rewear/swap-platform/internal/logger"
	swapsvc "github.com/rewear/swap-platform/internal/swap_manager/service"
)

// AdminServiceImpl implements the AdminService interface
type AdminServiceImpl struct {
	store    store.Transactional
	users    user.Repository
	items    item.Repository
	ledger   ledger.Repository
	activity activity.Repository
	points   swapsvc.PointsLedger
	logger   *slog.Logger
}

// NewAdminService creates a new admin service
func NewAdminService(
	st store.Transactional,
	users user.Repository,
	items item.Repository,
	ledgerRepo ledger.Repository,
	activityRepo activity.Repository,
	points swapsvc.PointsLedger,
	logger *slog.Logger,
) AdminService {
	return &AdminServiceImpl{
		store:    st,
		users:    users,
		items:    items,
		ledger:   ledgerRepo,
		activity: activityRepo,
		points:   points,
		logger:   logger,
	}
}

func (s *AdminServiceImpl) ListUsers(ctx context.Context, limit, offset int) ([]*user.User, int64, error) {
	return s.users.List(ctx, limit, offset)
}

func (s *AdminServiceImpl) SetUserStatus(ctx context.Context, id uuid.UUID, status shared.UserStatus) (*user.User, error) {
	if status != shared.UserStatusActive && status != shared.UserStatusSuspended {
		return nil, shared.NewInvalidInput("unknown user status %q", status)
	}
	u, err := s.users.SetStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	applog.WithContext(ctx, s.logger).Info("User status changed", "user_id", id.String(), "status", string(status))
	return u, nil
}

// AdjustPoints credits or debits a user as an ADMIN_ADJUSTMENT ledger entry
func (s *AdminServiceImpl) AdjustPoints(ctx context.Context, id uuid.UUID, delta int64, note string) (*user.User, error) {
	note = strings.TrimSpace(note)
	if note == "" {
		note = "Admin adjustment"
	}

	var updated *user.User
	err := s.store.RunAtomic(ctx, func(ctx context.Context, tx store.Store) error {
		u, err := s.points.Apply(ctx, tx, swapsvc.PointsChange{
			UserID: id,
			Delta:  delta,
			Reason: shared.LedgerReasonAdminAdjustment,
			Notes:  note,
		})
		if err != nil {
			return err
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	applog.WithContext(ctx, s.logger).Info("Points adjusted by admin", "user_id", id.String(), "delta", delta, "balance", updated.Points)
	return updated, nil
}

// Reconcile compares the stored balance with the sum of the user's ledger
func (s *AdminServiceImpl) Reconcile(ctx context.Context, id uuid.UUID) (*ledger.Reconciliation, error) {
	result, err := s.ledger.Reconcile(ctx, id)
	if err != nil {
		return nil, err
	}
	if !result.Balanced {
		applog.WithContext(ctx, s.logger).Error("Balance does not match ledger",
			"user_id", id.String(),
			"balance", result.Balance,
			"ledger_sum", result.LedgerSum,
		)
	}
	return result, nil
}

func (s *AdminServiceImpl) UserLedger(ctx context.Context, id uuid.UUID, limit, offset int) ([]*ledger.Entry, int64, error) {
	if _, err := s.users.GetByID(ctx, id); err != nil {
		return nil, 0, err
	}
	return s.ledger.ListByUser(ctx, id, limit, offset)
}

func (s *AdminServiceImpl) ListItems(ctx context.Context, filter item.ListFilter) ([]*item.Item, int64, error) {
	return s.items.List(ctx, filter)
}

// RemoveItem soft-deletes any listing that has no pending swap
func (s *AdminServiceImpl) RemoveItem(ctx context.Context, id uuid.UUID) error {
	it, err := s.items.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if it.IsDeleted() {
		return item.NotFoundError(id)
	}
	if !it.CanBeRemoved() {
		return shared.NewInvalidState("item has a pending swap")
	}
	if err := s.items.SoftDelete(ctx, id); err != nil {
		return err
	}
	applog.WithContext(ctx, s.logger).Info("Item removed by admin", "item_id", id.String())
	return nil
}

// ListSwaps lists every swap, optionally narrowed to one requester
func (s *AdminServiceImpl) ListSwaps(ctx context.Context, filter swap.ListFilter) (*swap.Page, error) {
	filter = filter.Normalize()
	swaps, total, err := s.store.ListSwaps(ctx, filter)
	if err != nil {
		return nil, err
	}
	return swap.NewPage(swaps, total, filter), nil
}

func (s *AdminServiceImpl) Activity(ctx context.Context, filter activity.Filter) ([]*swap.Event, int64, error) {
	return s.activity.List(ctx, filter)
}
