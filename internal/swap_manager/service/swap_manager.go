package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/rewear/swap-platform/internal/domain/shared"
	"github.com/rewear/swap-platform/internal/domain/store"
	"github.com/rewear/swap-platform/internal/domain/swap"
	applog "github.com/rewear/swap-platform/internal/logger"
	"github.com/rewear/swap-platform/internal/platform/metrics"
)

const (
	opRequestSwap  = "request_swap"
	opCancelSwap   = "cancel_swap"
	opCompleteSwap = "complete_swap"
	opGetSwap      = "get_swap"
	opListMySwaps  = "list_my_swaps"
)

type SwapManagerImpl struct {
	store  store.Transactional
	points PointsLedger
	events EventRecorder
	logger *slog.Logger
}

func NewSwapManager(
	st store.Transactional,
	points PointsLedger,
	events EventRecorder,
	logger *slog.Logger,
) SwapManager {
	return &SwapManagerImpl{
		store:  st,
		points: points,
		events: events,
		logger: logger,
	}
}

func requireCaller(caller shared.Identity) error {
	if caller.UserID == uuid.Nil {
		return shared.NewUnauthorized("authentication required")
	}
	return nil
}

// swapNoLongerPending reports a swap settled by a concurrent call as a state
// machine violation
func swapNoLongerPending(err error) error {
	if errors.Is(err, shared.ErrConflict) {
		return shared.NewInvalidState("swap is no longer pending")
	}
	return err
}

// RequestSwap claims an available item for the caller and debits its value
func (m *SwapManagerImpl) RequestSwap(ctx context.Context, caller shared.Identity, itemID uuid.UUID, message string) (result *swap.Details, err error) {
	defer func() { metrics.ObserveSwapOperation(opRequestSwap, err) }()
	log := applog.WithContext(ctx, m.logger)

	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	it, err := m.store.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if it.IsDeleted() {
		return nil, shared.NewNotFound("item %s not found", itemID)
	}
	if it.Status != shared.ItemStatusAvailable {
		return nil, shared.NewInvalidState("item is not available for swap")
	}
	if it.IsOwnedBy(caller.UserID) {
		return nil, shared.NewForbidden("you cannot request a swap for your own item")
	}
	requester, err := m.store.GetUser(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	if !requester.CanAfford(it.PointsValue) {
		return nil, shared.InsufficientFundsError{UserID: requester.ID, Required: it.PointsValue, Available: requester.Points}
	}

	s, err := swap.NewSwap(it, caller.UserID, message)
	if err != nil {
		return nil, err
	}

	err = m.store.RunAtomic(ctx, func(ctx context.Context, tx store.Store) error {
		claimed, err := tx.SetItemStatus(ctx, it.ID, shared.ItemStatusAvailable, shared.ItemStatusPendingSwap)
		if err != nil {
			if errors.Is(err, shared.ErrConflict) {
				return shared.NewInvalidState("item is no longer available")
			}
			return err
		}
		// The price frozen into the swap must be the one the claim saw
		if claimed.PointsValue != s.PointsUsed {
			return shared.NewInvalidState("item price changed from %d to %d points", s.PointsUsed, claimed.PointsValue)
		}
		if err := tx.CreateSwap(ctx, s); err != nil {
			return err
		}
		if _, err := m.points.Apply(ctx, tx, PointsChange{
			UserID: caller.UserID,
			Delta:  -s.PointsUsed,
			Reason: shared.LedgerReasonSwapRedeem,
			ItemID: &it.ID,
			SwapID: &s.ID,
			Notes:  fmt.Sprintf("Swap request for item: %s", it.Title),
		}); err != nil {
			return err
		}

		details, err := tx.GetSwapDetails(ctx, s.ID)
		if err != nil {
			return err
		}
		if err := m.events.Record(ctx, tx, shared.EventTypeSwapRequested, details); err != nil {
			return err
		}
		result = details
		return nil
	})
	if err != nil {
		log.Warn("Swap request failed", "item_id", itemID.String(), "requester_id", caller.UserID.String(), "error", err)
		return nil, err
	}

	log.Info("Swap requested",
		"swap_id", s.ID.String(),
		"item_id", it.ID.String(),
		"requester_id", caller.UserID.String(),
		"points_used", s.PointsUsed,
	)
	return result, nil
}

// CancelSwap withdraws the caller's pending request and refunds its points
func (m *SwapManagerImpl) CancelSwap(ctx context.Context, caller shared.Identity, swapID uuid.UUID) (result *CancelResult, err error) {
	defer func() { metrics.ObserveSwapOperation(opCancelSwap, err) }()
	log := applog.WithContext(ctx, m.logger)

	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	current, err := m.store.GetSwapDetails(ctx, swapID)
	if err != nil {
		return nil, err
	}
	if current.RequesterID != caller.UserID {
		return nil, shared.NewForbidden("only the requester can cancel this swap")
	}
	if !current.IsPending() {
		return nil, shared.NewInvalidState("swap is already %s", current.Status)
	}

	err = m.store.RunAtomic(ctx, func(ctx context.Context, tx store.Store) error {
		if _, err := tx.SetSwapStatus(ctx, swapID, shared.SwapStatusPending, shared.SwapStatusCanceled); err != nil {
			return swapNoLongerPending(err)
		}
		if _, err := m.points.Apply(ctx, tx, PointsChange{
			UserID: current.RequesterID,
			Delta:  current.PointsUsed,
			Reason: shared.LedgerReasonAdminAdjustment,
			ItemID: &current.ItemID,
			SwapID: &current.ID,
			Notes:  fmt.Sprintf("Refund for canceled swap: %s", current.Item.Title),
		}); err != nil {
			return err
		}
		if _, err := tx.SetItemStatus(ctx, current.ItemID, shared.ItemStatusPendingSwap, shared.ItemStatusAvailable); err != nil {
			return err
		}

		details, err := tx.GetSwapDetails(ctx, swapID)
		if err != nil {
			return err
		}
		return m.events.Record(ctx, tx, shared.EventTypeSwapCanceled, details)
	})
	if err != nil {
		log.Warn("Swap cancel failed", "swap_id", swapID.String(), "error", err)
		return nil, err
	}

	log.Info("Swap canceled", "swap_id", swapID.String(), "refunded_points", current.PointsUsed)
	return &CancelResult{SwapID: swapID, RefundedPoints: current.PointsUsed}, nil
}

// CompleteSwap lets the item owner finalize a pending swap
func (m *SwapManagerImpl) CompleteSwap(ctx context.Context, caller shared.Identity, swapID uuid.UUID) (result *swap.Details, err error) {
	defer func() { metrics.ObserveSwapOperation(opCompleteSwap, err) }()
	log := applog.WithContext(ctx, m.logger)

	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	current, err := m.store.GetSwapDetails(ctx, swapID)
	if err != nil {
		return nil, err
	}
	if current.Item.OwnerID != caller.UserID {
		return nil, shared.NewForbidden("only the item owner can complete this swap")
	}
	if !current.IsPending() {
		return nil, shared.NewInvalidState("swap is already %s", current.Status)
	}

	err = m.store.RunAtomic(ctx, func(ctx context.Context, tx store.Store) error {
		if _, err := tx.SetSwapStatus(ctx, swapID, shared.SwapStatusPending, shared.SwapStatusCompleted); err != nil {
			return swapNoLongerPending(err)
		}
		if _, err := tx.SetItemStatus(ctx, current.ItemID, shared.ItemStatusPendingSwap, shared.ItemStatusSwapped); err != nil {
			return err
		}

		details, err := tx.GetSwapDetails(ctx, swapID)
		if err != nil {
			return err
		}
		if err := m.events.Record(ctx, tx, shared.EventTypeSwapCompleted, details); err != nil {
			return err
		}
		result = details
		return nil
	})
	if err != nil {
		log.Warn("Swap completion failed", "swap_id", swapID.String(), "error", err)
		return nil, err
	}

	log.Info("Swap completed", "swap_id", swapID.String(), "item_id", current.ItemID.String())
	return result, nil
}

// GetSwap returns a swap visible to its requester or the item owner
func (m *SwapManagerImpl) GetSwap(ctx context.Context, caller shared.Identity, swapID uuid.UUID) (result *swap.Details, err error) {
	defer func() { metrics.ObserveSwapOperation(opGetSwap, err) }()

	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	details, err := m.store.GetSwapDetails(ctx, swapID)
	if err != nil {
		return nil, err
	}
	if !details.IsVisibleTo(caller.UserID) {
		return nil, shared.NewForbidden("you do not have access to this swap")
	}
	return details, nil
}

// ListMySwaps pages through the swaps the caller requested, newest first
func (m *SwapManagerImpl) ListMySwaps(ctx context.Context, caller shared.Identity, filter swap.ListFilter) (result *swap.Page, err error) {
	defer func() { metrics.ObserveSwapOperation(opListMySwaps, err) }()

	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	filter.RequesterID = caller.UserID
	filter = filter.Normalize()

	swaps, total, err := m.store.ListSwaps(ctx, filter)
	if err != nil {
		return nil, err
	}
	return swap.NewPage(swaps, total, filter), nil
}
