package service

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rewear/swap-platform/internal/domain/activity"
	"github.com/rewear/swap-platform/internal/domain/item"
	"github.com/rewear/swap-platform/internal/domain/ledger"
	"github.com/rewear/swap-platform/internal/domain/report"
	"github.com/rewear/swap-platform/internal/domain/shared"
	"github.com/rewear/swap-platform/internal/domain/swap"
	"github.com/rewear/swap-platform/internal/domain/user"
)

// AuthService registers members and exchanges credentials for tokens
type AuthService interface {
	// Register creates an active user, credits the signup bonus when one is
	// configured and signs the user in.
	// Returns a conflict error if the email is taken.
	Register(ctx context.Context, email, password, displayName string) (*AuthResult, error)

	// Login verifies credentials. The configured admin credentials yield an
	// admin token; suspended users are refused.
	Login(ctx context.Context, email, password string) (*AuthResult, error)
}

// AuthResult is a signed token and the user it was issued to
type AuthResult struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
	User      *user.User `json:"user"`
}

// ItemService manages garment listings
type ItemService interface {
	ListAvailable(ctx context.Context, category string, limit, offset int) ([]*item.Item, int64, error)

	// GetItem returns a listing; soft-deleted listings are not found
	GetItem(ctx context.Context, id uuid.UUID) (*item.Item, error)
	ListMine(ctx context.Context, caller shared.Identity, limit, offset int) ([]*item.Item, int64, error)
	CreateItem(ctx context.Context, caller shared.Identity, draft item.Draft, images []ImageFile) (*item.Item, error)

	// UpdateItem edits descriptive fields; only the owner may edit
	UpdateItem(ctx context.Context, caller shared.Identity, id uuid.UUID, patch item.Patch) (*item.Item, error)

	// DeleteItem soft-deletes the caller's listing. Listings with a pending
	// swap cannot be removed.
	DeleteItem(ctx context.Context, caller shared.Identity, id uuid.UUID) error
}

// ImageFile is one uploaded picture
type ImageFile struct {
	Name    string
	Size    int64
	Content io.Reader
}

// ReportService files and moderates spam reports
type ReportService interface {
	FileReport(ctx context.Context, caller shared.Identity, targetType shared.ReportTarget, targetID uuid.UUID, content string, severity shared.ReportSeverity) (*report.Report, error)
	ListReports(ctx context.Context, status shared.ReportStatus, limit, offset int) ([]*report.Report, int64, error)

	// Transition moves a report along its moderation states
	Transition(ctx context.Context, caller shared.Identity, id uuid.UUID, to shared.ReportStatus) (*report.Report, error)
}

// AdminService holds moderation and points administration
type AdminService interface {
	ListUsers(ctx context.Context, limit, offset int) ([]*user.User, int64, error)
	SetUserStatus(ctx context.Context, id uuid.UUID, status shared.UserStatus) (*user.User, error)

	// AdjustPoints moves a user's balance through the ledger
	AdjustPoints(ctx context.Context, id uuid.UUID, delta int64, note string) (*user.User, error)
	Reconcile(ctx context.Context, id uuid.UUID) (*ledger.Reconciliation, error)
	UserLedger(ctx context.Context, id uuid.UUID, limit, offset int) ([]*ledger.Entry, int64, error)

	ListItems(ctx context.Context, filter item.ListFilter) ([]*item.Item, int64, error)
	RemoveItem(ctx context.Context, id uuid.UUID) error
	ListSwaps(ctx context.Context, filter swap.ListFilter) (*swap.Page, error)
	Activity(ctx context.Context, filter activity.Filter) ([]*swap.Event, int64, error)
}

// PasswordHasher hashes and checks passwords
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer signs credentials for an identity
type TokenIssuer interface {
	Issue(id shared.Identity) (string, time.Time, error)
}
