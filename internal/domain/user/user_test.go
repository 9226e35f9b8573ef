package user

import (
	"testing"

	"github.com/rewear/swap-platform/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("SuccessfulCreation", func(t *testing.T) {
		u, err := NewUser("  Jane@Example.COM ", " Jane ", "hash")
		require.NoError(t, err)

		assert.Equal(t, "jane@example.com", u.Email)
		assert.Equal(t, "Jane", u.DisplayName)
		assert.Equal(t, shared.RoleUser, u.Role)
		assert.Equal(t, shared.UserStatusActive, u.Status)
		assert.Equal(t, int64(0), u.Points)
		assert.NotEmpty(t, u.ID)
	})

	t.Run("InvalidEmail", func(t *testing.T) {
		_, err := NewUser("not-an-email", "Jane", "hash")
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("EmptyDisplayName", func(t *testing.T) {
		_, err := NewUser("jane@example.com", "   ", "hash")
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("MissingHash", func(t *testing.T) {
		_, err := NewUser("jane@example.com", "Jane", "")
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestValidatePassword(t *testing.T) {
	assert.ErrorIs(t, ValidatePassword("short"), shared.ErrInvalidInput)
	assert.NoError(t, ValidatePassword("long-enough"))
}

func TestUser_CanAfford(t *testing.T) {
	u := &User{Points: 100}
	assert.True(t, u.CanAfford(100))
	assert.True(t, u.CanAfford(0))
	assert.False(t, u.CanAfford(101))
}
