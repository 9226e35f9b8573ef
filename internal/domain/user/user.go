package user

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rewear/swap-platform/internal/domain/shared"
)

const minPasswordLength = 8

// User is a platform member holding a points balance
type User struct {
	ID           uuid.UUID         `json:"id"`
	Email        string            `json:"email"`
	DisplayName  string            `json:"display_name"`
	PasswordHash string            `json:"-"`
	Role         shared.Role       `json:"role"`
	Status       shared.UserStatus `json:"status"`
	Points       int64             `json:"points"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// Summary is the public view of a user attached to items and swaps
type Summary struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
}

// NewUser validates registration input and builds an active user with a zero balance
func NewUser(email, displayName, passwordHash string) (*User, error) {
	email = NormalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, shared.NewInvalidInput("email is not valid")
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, shared.NewInvalidInput("display name cannot be empty")
	}
	if passwordHash == "" {
		return nil, shared.NewInvalidInput("password hash cannot be empty")
	}

	now := time.Now().UTC()
	return &User{
		ID:           uuid.New(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		Role:         shared.RoleUser,
		Status:       shared.UserStatusActive,
		Points:       0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// ValidatePassword checks the plaintext password policy before hashing
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return shared.NewInvalidInput("password must be at least %d characters", minPasswordLength)
	}
	return nil
}

// NormalizeEmail lower-cases and trims an email for storage and lookup
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CanAfford reports whether the balance covers amount
func (u *User) CanAfford(amount int64) bool {
	return u.Points >= amount
}

// IsActive reports whether the user may sign in
func (u *User) IsActive() bool {
	return u.Status == shared.UserStatusActive
}

func (u *User) Summary() Summary {
	return Summary{ID: u.ID, DisplayName: u.DisplayName, Email: u.Email}
}
