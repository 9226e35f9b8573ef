package handler

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rewear/swap-platform/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithDomainError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{"not found", shared.NewNotFound("item x not found"), http.StatusNotFound, "NOT_FOUND", "item x not found"},
		{"forbidden", shared.NewForbidden("not yours"), http.StatusForbidden, "FORBIDDEN", "not yours"},
		{"invalid state", shared.NewInvalidState("item is not available"), http.StatusBadRequest, "INVALID_STATE", "item is not available"},
		{"conflict", shared.NewConflict("a user with this email already exists"), http.StatusConflict, "CONFLICT", "a user with this email already exists"},
		{"unauthorized", shared.NewUnauthorized("who are you"), http.StatusUnauthorized, "UNAUTHORIZED", "who are you"},
		{"invalid input", shared.NewInvalidInput("bad"), http.StatusBadRequest, "INVALID_INPUT", "bad"},
		{"wrapped kind survives", fmt.Errorf("outer: %w", shared.NewNotFound("swap missing")), http.StatusNotFound, "NOT_FOUND", "swap missing"},
		{"plain error is internal", errors.New("connection reset by peer"), http.StatusInternalServerError, "INTERNAL", "An internal server error occurred"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			router := setupTestRouter(nil)
			router.GET("/err", func(c *gin.Context) {
				RespondWithDomainError(c, newTestLogger(), tc.err)
			})

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/err", nil))

			assert.Equal(t, tc.wantStatus, rr.Code)
			env := decodeEnvelope(t, rr)
			require.NotNil(t, env.Error)
			assert.Equal(t, tc.wantCode, env.Error.Code)
			assert.Equal(t, tc.wantMessage, env.Error.Message)
			assert.NotEmpty(t, env.CorrelationID)
		})
	}
}

func TestRespondWithDomainError_InsufficientFundsDetails(t *testing.T) {
	router := setupTestRouter(nil)
	router.GET("/err", func(c *gin.Context) {
		RespondWithDomainError(c, newTestLogger(), shared.InsufficientFundsError{UserID: uuid.New(), Required: 60, Available: 25})
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/err", nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	env := decodeEnvelope(t, rr)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INSUFFICIENT_FUNDS", env.Error.Code)
	assert.Equal(t, float64(60), env.Error.Details["required"])
	assert.Equal(t, float64(25), env.Error.Details["available"])
}

func TestRespondWithDomainError_InternalIsLoggedNotLeaked(t *testing.T) {
	var logBuffer bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logBuffer, nil))

	router := setupTestRouter(nil)
	router.GET("/err", func(c *gin.Context) {
		RespondWithDomainError(c, logger, shared.NewInternal("failed to create swap", errors.New("pq: deadlock detected")))
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/err", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "deadlock")
	assert.Contains(t, logBuffer.String(), "deadlock")
	assert.Contains(t, logBuffer.String(), `"route":"/err"`)
}

func TestNewPaginatedResponse(t *testing.T) {
	resp := NewPaginatedResponse([]string{"a"}, 45, 20, 20)
	require.NotNil(t, resp.Meta)
	assert.True(t, resp.Meta.HasMore)

	resp = NewPaginatedResponse([]string{"a"}, 40, 20, 20)
	assert.False(t, resp.Meta.HasMore)
}
