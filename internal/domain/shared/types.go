package shared

// Role defines what an authenticated caller is allowed to do
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// UserStatus defines whether an account may sign in
type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

// ItemStatus defines listing availability states
type ItemStatus string

const (
	ItemStatusAvailable   ItemStatus = "AVAILABLE"
	ItemStatusPendingSwap ItemStatus = "PENDING_SWAP"
	ItemStatusSwapped     ItemStatus = "SWAPPED"
)

// IsValid reports whether s is a known item status
func (s ItemStatus) IsValid() bool {
	switch s {
	case ItemStatusAvailable, ItemStatusPendingSwap, ItemStatusSwapped:
		return true
	}
	return false
}

// SwapStatus defines swap lifecycle states
type SwapStatus string

const (
	SwapStatusPending   SwapStatus = "PENDING"
	SwapStatusCanceled  SwapStatus = "CANCELED"
	SwapStatusCompleted SwapStatus = "COMPLETED"
)

// IsValid reports whether s is a known swap status
func (s SwapStatus) IsValid() bool {
	switch s {
	case SwapStatusPending, SwapStatusCanceled, SwapStatusCompleted:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is allowed from s
func (s SwapStatus) IsTerminal() bool {
	return s == SwapStatusCanceled || s == SwapStatusCompleted
}

// LedgerReason classifies point balance movements
type LedgerReason string

const (
	LedgerReasonSwapRedeem      LedgerReason = "SWAP_REDEEM"
	LedgerReasonAdminAdjustment LedgerReason = "ADMIN_ADJUSTMENT"
	LedgerReasonSignupBonus     LedgerReason = "SIGNUP_BONUS"
)

// OutboxStatus defines message publishing states
type OutboxStatus string

const (
	OutboxStatusPending         OutboxStatus = "PENDING"
	OutboxStatusProcessed       OutboxStatus = "PROCESSED"
	OutboxStatusFailedToPublish OutboxStatus = "FAILED_TO_PUBLISH"
)

// EventType names the swap lifecycle events emitted through the outbox
type EventType string

const (
	EventTypeSwapRequested EventType = "swap.requested"
	EventTypeSwapCanceled  EventType = "swap.canceled"
	EventTypeSwapCompleted EventType = "swap.completed"
)

// ReportStatus defines moderation states of a spam report
type ReportStatus string

const (
	ReportStatusPending  ReportStatus = "PENDING"
	ReportStatusReviewed ReportStatus = "REVIEWED"
	ReportStatusResolved ReportStatus = "RESOLVED"
)

// ReportTarget is the kind of object a spam report points at
type ReportTarget string

const (
	ReportTargetListing ReportTarget = "LISTING"
	ReportTargetUser    ReportTarget = "USER"
	ReportTargetSwap    ReportTarget = "SWAP"
	ReportTargetComment ReportTarget = "COMMENT"
)

// ReportSeverity ranks how urgently a report needs attention
type ReportSeverity string

const (
	ReportSeverityLow    ReportSeverity = "LOW"
	ReportSeverityMedium ReportSeverity = "MEDIUM"
	ReportSeverityHigh   ReportSeverity = "HIGH"
)
