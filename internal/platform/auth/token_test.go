package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rewear/swap-platform/internal/config"
	"github.com/rewear/swap-platform/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenManager() *TokenManager {
	return NewTokenManager(&config.AuthConfig{
		JWTSecret: "test-secret-at-least-16",
		Issuer:    "rewear",
		TokenTTL:  time.Hour,
	})
}

func TestTokenManager_IssueAndVerify(t *testing.T) {
	m := newTestTokenManager()
	id := shared.Identity{UserID: uuid.New(), Role: shared.RoleUser}

	token, expiresAt, err := m.Issue(id)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	got, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestTokenManager_AdminPrincipal(t *testing.T) {
	m := newTestTokenManager()

	token, _, err := m.Issue(shared.Identity{UserID: uuid.Nil, Role: shared.RoleAdmin})
	require.NoError(t, err)

	got, err := m.Verify(token)
	require.NoError(t, err)
	assert.True(t, got.IsAdmin())
	assert.Equal(t, uuid.Nil, got.UserID)
}

func TestTokenManager_Rejects(t *testing.T) {
	m := newTestTokenManager()
	id := shared.Identity{UserID: uuid.New(), Role: shared.RoleUser}

	t.Run("expired", func(t *testing.T) {
		expired := newTestTokenManager()
		expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, _, err := expired.Issue(id)
		require.NoError(t, err)

		_, err = m.Verify(token)
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokenManager(&config.AuthConfig{JWTSecret: "another-secret-of-16", Issuer: "rewear", TokenTTL: time.Hour})
		token, _, err := other.Issue(id)
		require.NoError(t, err)

		_, err = m.Verify(token)
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewTokenManager(&config.AuthConfig{JWTSecret: "test-secret-at-least-16", Issuer: "someone-else", TokenTTL: time.Hour})
		token, _, err := other.Issue(id)
		require.NoError(t, err)

		_, err = m.Verify(token)
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})

	t.Run("unsigned", func(t *testing.T) {
		claims := Claims{
			Role: shared.RoleAdmin,
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   uuid.Nil.String(),
				Issuer:    "rewear",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = m.Verify(token)
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})

	t.Run("user role with nil subject", func(t *testing.T) {
		token, _, err := m.Issue(shared.Identity{UserID: uuid.Nil, Role: shared.RoleUser})
		require.NoError(t, err)

		_, err = m.Verify(token)
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.Verify("not.a.token")
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})
}
