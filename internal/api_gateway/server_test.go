package api_gateway

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rewear/swap-platform/internal/api_gateway/middleware"
	"github.com/rewear/swap-platform/internal/config"
	"github.com/rewear/swap-platform/internal/domain/item"
	"github.com/rewear/swap-platform/internal/domain/shared"
	"github.com/rewear/swap-platform/internal/domain/store/storetest"
	"github.com/rewear/swap-platform/internal/domain/user"
	"github.com/rewear/swap-platform/internal/platform/auth"
	"github.com/rewear/swap-platform/internal/swap_manager/components"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serverFixture struct {
	store   *storetest.Memory
	tokens  *auth.TokenManager
	handler http.Handler
	alice   *user.User
	bob     *user.User
	item    *item.Item
}

func newServerFixture(t *testing.T) *serverFixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{
		Application: config.ApplicationConfig{Env: "test"},
		Auth:        config.AuthConfig{JWTSecret: "server-test-secret-123", Issuer: "rewear-test", TokenTTL: time.Hour},
	}
	st := storetest.NewMemory()
	tokens := auth.NewTokenManager(&cfg.Auth)

	f := &serverFixture{store: st, tokens: tokens}
	for _, seed := range []struct {
		target **user.User
		email  string
		points int64
	}{
		{&f.alice, "alice@rewear.test", 100},
		{&f.bob, "bob@rewear.test", 0},
	} {
		u, err := user.NewUser(seed.email, seed.email, "hash")
		require.NoError(t, err)
		u.Points = seed.points
		st.PutUser(u)
		*seed.target = u
	}
	it, err := item.NewItem(f.bob.ID, item.Draft{
		Title:       "Linen shirt",
		Description: "Summer weight",
		Category:    "tops",
		Condition:   "good",
		Size:        "L",
		PointsValue: 60,
	})
	require.NoError(t, err)
	st.PutItem(it)
	f.item = it

	server := NewServer(logger, cfg, Services{Swaps: components.CreateSwapManager(st, logger)}, tokens)
	f.handler = server.Handler()
	return f
}

func (f *serverFixture) token(t *testing.T, id shared.Identity) string {
	t.Helper()
	token, _, err := f.tokens.Issue(id)
	require.NoError(t, err)
	return token
}

func (f *serverFixture) do(method, path, token, body string, headers ...string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rr := httptest.NewRecorder()
	f.handler.ServeHTTP(rr, req)
	return rr
}

func TestServer_HealthAndMetrics(t *testing.T) {
	f := newServerFixture(t)

	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/health", "", "").Code)

	rr := f.do(http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "rewear_http_request_duration_seconds")
}

func TestServer_AccessControl(t *testing.T) {
	f := newServerFixture(t)
	userToken := f.token(t, shared.Identity{UserID: f.alice.ID, Role: shared.RoleUser})
	adminToken := f.token(t, shared.Identity{UserID: uuid.Nil, Role: shared.RoleAdmin})

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		wantStatus int
	}{
		{"swaps need a token", http.MethodGet, "/api/v1/swaps/my-swaps", "", http.StatusUnauthorized},
		{"forged token", http.MethodGet, "/api/v1/swaps/my-swaps", "not-a-jwt", http.StatusUnauthorized},
		{"admin cannot trade", http.MethodPost, "/api/v1/swaps/request", adminToken, http.StatusForbidden},
		{"members cannot administer", http.MethodGet, "/api/v1/admin/users", userToken, http.StatusForbidden},
		{"report moderation is admin only", http.MethodGet, "/api/v1/admin/reports", userToken, http.StatusForbidden},
		{"unknown route", http.MethodGet, "/api/v1/nowhere", userToken, http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := f.do(tc.method, tc.path, tc.token, "")
			assert.Equal(t, tc.wantStatus, rr.Code)
		})
	}
}

func TestServer_SwapLifecycle(t *testing.T) {
	f := newServerFixture(t)
	aliceToken := f.token(t, shared.Identity{UserID: f.alice.ID, Role: shared.RoleUser})
	bobToken := f.token(t, shared.Identity{UserID: f.bob.ID, Role: shared.RoleUser})
	correlationID := uuid.NewString()

	rr := f.do(http.MethodPost, "/api/v1/swaps/request", aliceToken, `{"item_id":"`+f.item.ID.String()+`","message":"hi"}`,
		middleware.CorrelationIDHeader, correlationID)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var created struct {
		Data struct {
			ID         uuid.UUID         `json:"id"`
			Status     shared.SwapStatus `json:"status"`
			PointsUsed int64             `json:"points_used"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, shared.SwapStatusPending, created.Data.Status)
	assert.Equal(t, int64(40), f.store.User(f.alice.ID).Points)

	outbox := f.store.Outbox()
	require.Len(t, outbox, 1)
	assert.Contains(t, string(outbox[0].Payload), correlationID)

	// Bob can see it but not cancel it
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/v1/swaps/"+created.Data.ID.String(), bobToken, "").Code)
	assert.Equal(t, http.StatusForbidden, f.do(http.MethodPost, "/api/v1/swaps/"+created.Data.ID.String()+"/cancel", bobToken, "").Code)

	rr = f.do(http.MethodGet, "/api/v1/swaps/my-swaps", aliceToken, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"total":1`)

	rr = f.do(http.MethodPost, "/api/v1/swaps/"+created.Data.ID.String()+"/cancel", aliceToken, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"refunded_points":60`)
	assert.Equal(t, int64(100), f.store.User(f.alice.ID).Points)
	assert.Equal(t, shared.ItemStatusAvailable, f.store.Item(f.item.ID).Status)

	// Terminal swaps cannot move again
	rr = f.do(http.MethodPost, "/api/v1/swaps/"+created.Data.ID.String()+"/complete", bobToken, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
