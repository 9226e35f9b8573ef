package swap

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rewear/swap-platform/internal/domain/item"
	"github.com/rewear/swap-platform/internal/domain/shared"
	"github.com/rewear/swap-platform/internal/domain/user"
)

const (
	// DefaultLimit is the page size used when a caller does not ask for one
	DefaultLimit = 20
	// MaxLimit caps the page size of swap listings
	MaxLimit = 100

	maxMessageLength = 1000
)

// Swap records a user's claim on an item. PointsUsed is frozen at creation.
type Swap struct {
	ID          uuid.UUID         `json:"id"`
	ItemID      uuid.UUID         `json:"item_id"`
	RequesterID uuid.UUID         `json:"requester_id"`
	PointsUsed  int64             `json:"points_used"`
	Message     string            `json:"message"`
	Status      shared.SwapStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// Details is a swap with its item and both parties attached
type Details struct {
	Swap
	Item      item.Item    `json:"item"`
	Owner     user.Summary `json:"owner"`
	Requester user.Summary `json:"requester"`
}

// NewSwap builds a PENDING swap for the requester at the item's current value
func NewSwap(it *item.Item, requesterID uuid.UUID, message string) (*Swap, error) {
	message = strings.TrimSpace(message)
	if len(message) > maxMessageLength {
		return nil, shared.NewInvalidInput("message must be at most %d characters", maxMessageLength)
	}
	now := time.Now().UTC()
	return &Swap{
		ID:          uuid.New(),
		ItemID:      it.ID,
		RequesterID: requesterID,
		PointsUsed:  it.PointsValue,
		Message:     message,
		Status:      shared.SwapStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// CanTransition reports whether the swap state machine allows from -> to.
// PENDING is the only non-terminal state.
func CanTransition(from, to shared.SwapStatus) bool {
	if from != shared.SwapStatusPending {
		return false
	}
	return to == shared.SwapStatusCanceled || to == shared.SwapStatusCompleted
}

// IsPending reports whether the swap can still be canceled or completed
func (s *Swap) IsPending() bool {
	return s.Status == shared.SwapStatusPending
}

// IsVisibleTo reports whether userID may read the swap
func (d *Details) IsVisibleTo(userID uuid.UUID) bool {
	return d.RequesterID == userID || d.Item.OwnerID == userID
}
