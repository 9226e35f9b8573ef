package components

import (
	"log/slog"

	"github.com/rewear/swap-platform/internal/domain/store"
	"github.com/rewear/swap-platform/internal/swap_manager/service"
)

// CreateSwapManager creates a SwapManager with all its dependencies
func CreateSwapManager(st store.Transactional, logger *slog.Logger) service.SwapManager {
	points := NewPointsLedger(logger.With("component", "points_ledger"))
	events := NewEventRecorder(logger.With("component", "event_recorder"))

	return service.NewSwapManager(st, points, events, logger.With("component", "swap_manager"))
}
