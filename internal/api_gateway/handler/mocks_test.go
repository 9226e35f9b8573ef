package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rewear/swap-platform/internal/api_gateway/middleware"
	"github.com/rewear/swap-platform/internal/api_gateway/service"
	"github.com/rewear/swap-platform/internal/domain/activity"
	"github.com/rewear/swap-platform/internal/domain/item"
	"github.com/rewear/swap-platform/internal/domain/ledger"
	"github.com/rewear/swap-platform/internal/domain/report"
	"github.com/rewear/swap-platform/internal/domain/shared"
	"github.com/rewear/swap-platform/internal/domain/swap"
	"github.com/rewear/swap-platform/internal/domain/user"
	swapsvc "github.com/rewear/swap-platform/internal/swap_manager/service"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// setupTestRouter returns a router whose requests run as caller
func setupTestRouter(caller *shared.Identity) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.CorrelationID())
	if caller != nil {
		id := *caller
		r.Use(func(c *gin.Context) {
			c.Set(middleware.IdentityKey, id)
			c.Next()
		})
	}
	return r
}

type testEnvelope struct {
	Data          json.RawMessage `json:"data"`
	Error         *ErrorInfo      `json:"error"`
	CorrelationID string          `json:"correlation_id"`
	Meta          *MetaInfo       `json:"meta"`
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) testEnvelope {
	t.Helper()
	var env testEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	return env
}

type MockSwapManager struct {
	mock.Mock
}

func (m *MockSwapManager) RequestSwap(ctx context.Context, caller shared.Identity, itemID uuid.UUID, message string) (*swap.Details, error) {
	args := m.Called(ctx, caller, itemID, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*swap.Details), args.Error(1)
}

func (m *MockSwapManager) CancelSwap(ctx context.Context, caller shared.Identity, swapID uuid.UUID) (*swapsvc.CancelResult, error) {
	args := m.Called(ctx, caller, swapID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*swapsvc.CancelResult), args.Error(1)
}

func (m *MockSwapManager) CompleteSwap(ctx context.Context, caller shared.Identity, swapID uuid.UUID) (*swap.Details, error) {
	args := m.Called(ctx, caller, swapID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*swap.Details), args.Error(1)
}

func (m *MockSwapManager) GetSwap(ctx context.Context, caller shared.Identity, swapID uuid.UUID) (*swap.Details, error) {
	args := m.Called(ctx, caller, swapID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*swap.Details), args.Error(1)
}

func (m *MockSwapManager) ListMySwaps(ctx context.Context, caller shared.Identity, filter swap.ListFilter) (*swap.Page, error) {
	args := m.Called(ctx, caller, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*swap.Page), args.Error(1)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, email, password, displayName string) (*service.AuthResult, error) {
	args := m.Called(ctx, email, password, displayName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthResult), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*service.AuthResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthResult), args.Error(1)
}

type MockItemService struct {
	mock.Mock
}

func (m *MockItemService) ListAvailable(ctx context.Context, category string, limit, offset int) ([]*item.Item, int64, error) {
	args := m.Called(ctx, category, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*item.Item), args.Get(1).(int64), args.Error(2)
}

func (m *MockItemService) GetItem(ctx context.Context, id uuid.UUID) (*item.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*item.Item), args.Error(1)
}

func (m *MockItemService) ListMine(ctx context.Context, caller shared.Identity, limit, offset int) ([]*item.Item, int64, error) {
	args := m.Called(ctx, caller, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*item.Item), args.Get(1).(int64), args.Error(2)
}

func (m *MockItemService) CreateItem(ctx context.Context, caller shared.Identity, draft item.Draft, images []service.ImageFile) (*item.Item, error) {
	args := m.Called(ctx, caller, draft, images)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*item.Item), args.Error(1)
}

func (m *MockItemService) UpdateItem(ctx context.Context, caller shared.Identity, id uuid.UUID, patch item.Patch) (*item.Item, error) {
	args := m.Called(ctx, caller, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*item.Item), args.Error(1)
}

func (m *MockItemService) DeleteItem(ctx context.Context, caller shared.Identity, id uuid.UUID) error {
	args := m.Called(ctx, caller, id)
	return args.Error(0)
}

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) FileReport(ctx context.Context, caller shared.Identity, targetType shared.ReportTarget, targetID uuid.UUID, content string, severity shared.ReportSeverity) (*report.Report, error) {
	args := m.Called(ctx, caller, targetType, targetID, content, severity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.Report), args.Error(1)
}

func (m *MockReportService) ListReports(ctx context.Context, status shared.ReportStatus, limit, offset int) ([]*report.Report, int64, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*report.Report), args.Get(1).(int64), args.Error(2)
}

func (m *MockReportService) Transition(ctx context.Context, caller shared.Identity, id uuid.UUID, to shared.ReportStatus) (*report.Report, error) {
	args := m.Called(ctx, caller, id, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.Report), args.Error(1)
}

type MockAdminService struct {
	mock.Mock
}

func (m *MockAdminService) ListUsers(ctx context.Context, limit, offset int) ([]*user.User, int64, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*user.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockAdminService) SetUserStatus(ctx context.Context, id uuid.UUID, status shared.UserStatus) (*user.User, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockAdminService) AdjustPoints(ctx context.Context, id uuid.UUID, delta int64, note string) (*user.User, error) {
	args := m.Called(ctx, id, delta, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockAdminService) Reconcile(ctx context.Context, id uuid.UUID) (*ledger.Reconciliation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Reconciliation), args.Error(1)
}

func (m *MockAdminService) UserLedger(ctx context.Context, id uuid.UUID, limit, offset int) ([]*ledger.Entry, int64, error) {
	args := m.Called(ctx, id, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*ledger.Entry), args.Get(1).(int64), args.Error(2)
}

func (m *MockAdminService) ListItems(ctx context.Context, filter item.ListFilter) ([]*item.Item, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*item.Item), args.Get(1).(int64), args.Error(2)
}

func (m *MockAdminService) RemoveItem(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAdminService) ListSwaps(ctx context.Context, filter swap.ListFilter) (*swap.Page, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*swap.Page), args.Error(1)
}

func (m *MockAdminService) Activity(ctx context.Context, filter activity.Filter) ([]*swap.Event, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*swap.Event), args.Get(1).(int64), args.Error(2)
}
