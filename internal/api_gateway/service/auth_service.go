package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/rewear/swap-platform/internal/config"
	"github.com/rewear/swap-platform/internal/domain/shared"
	"github.com/rewear/swap-platform/internal/domain/store"
	"github.com/rewear/swap-platform/internal/domain/user"
	applog "github.com/rewear/swap-platform/internal/logger"
	"github.com/rewear/swap-platform/internal/platform/auth"
	swapsvc "github.com/rewear/swap-platform/internal/swap_manager/service"
)

const signupBonusNote = "Welcome bonus"

// AuthServiceImpl implements the AuthService interface
type AuthServiceImpl struct {
	store   store.Transactional
	users   user.Repository
	points  swapsvc.PointsLedger
	hasher  PasswordHasher
	tokens  TokenIssuer
	authCfg config.AuthConfig
	bonus   int64
	logger  *slog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	st store.Transactional,
	users user.Repository,
	points swapsvc.PointsLedger,
	hasher PasswordHasher,
	tokens TokenIssuer,
	cfg *config.Config,
	logger *slog.Logger,
) AuthService {
	return &AuthServiceImpl{
		store:   st,
		users:   users,
		points:  points,
		hasher:  hasher,
		tokens:  tokens,
		authCfg: cfg.Auth,
		bonus:   cfg.Points.SignupBonus,
		logger:  logger,
	}
}

// Register creates the user and the optional signup bonus in one atomic unit
func (s *AuthServiceImpl) Register(ctx context.Context, email, password, displayName string) (*AuthResult, error) {
	logger := applog.WithContext(ctx, s.logger)

	if err := user.ValidatePassword(password); err != nil {
		return nil, err
	}
	if s.isAdminEmail(email) {
		return nil, shared.NewConflict("a user with this email already exists")
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, shared.NewInternal("failed to hash password", err)
	}
	u, err := user.NewUser(email, displayName, hash)
	if err != nil {
		return nil, err
	}

	err = s.store.RunAtomic(ctx, func(ctx context.Context, tx store.Store) error {
		if err := tx.CreateUser(ctx, u); err != nil {
			return err
		}
		if s.bonus <= 0 {
			return nil
		}
		updated, err := s.points.Apply(ctx, tx, swapsvc.PointsChange{
			UserID: u.ID,
			Delta:  s.bonus,
			Reason: shared.LedgerReasonSignupBonus,
			Notes:  signupBonusNote,
		})
		if err != nil {
			return err
		}
		u = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("User registered", "user_id", u.ID.String(), "signup_bonus", s.bonus)
	return s.issue(shared.Identity{UserID: u.ID, Role: u.Role}, u)
}

// Login checks the admin credentials first, then the users table
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	logger := applog.WithContext(ctx, s.logger)

	if s.isAdminEmail(email) {
		if subtle.ConstantTimeCompare([]byte(password), []byte(s.authCfg.AdminPassword)) != 1 {
			logger.Warn("Admin login rejected")
			return nil, errInvalidCredentials()
		}
		admin := &user.User{
			ID:          uuid.Nil,
			Email:       user.NormalizeEmail(s.authCfg.AdminEmail),
			DisplayName: "Admin",
			Role:        shared.RoleAdmin,
			Status:      shared.UserStatusActive,
		}
		return s.issue(shared.Identity{UserID: uuid.Nil, Role: shared.RoleAdmin}, admin)
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errInvalidCredentials()
		}
		return nil, err
	}
	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, errInvalidCredentials()
		}
		return nil, shared.NewInternal("failed to verify password", err)
	}
	if !u.IsActive() {
		logger.Warn("Suspended user attempted to log in", "user_id", u.ID.String())
		return nil, shared.NewForbidden("account is suspended")
	}

	return s.issue(shared.Identity{UserID: u.ID, Role: u.Role}, u)
}

func (s *AuthServiceImpl) isAdminEmail(email string) bool {
	return s.authCfg.AdminEmail != "" && user.NormalizeEmail(email) == user.NormalizeEmail(s.authCfg.AdminEmail)
}

func (s *AuthServiceImpl) issue(id shared.Identity, u *user.User) (*AuthResult, error) {
	token, expiresAt, err := s.tokens.Issue(id)
	if err != nil {
		return nil, shared.NewInternal("failed to issue token", err)
	}
	return &AuthResult{Token: token, ExpiresAt: expiresAt, User: u}, nil
}

func errInvalidCredentials() error {
	return shared.NewUnauthorized("invalid email or password")
}
