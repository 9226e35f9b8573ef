package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rewear/swap-platform/internal/domain/report"
	"github.com/rewear/swap-platform/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestReportServiceImpl_FileReport(t *testing.T) {
	ctx := context.Background()
	caller := shared.Identity{UserID: uuid.New(), Role: shared.RoleUser}
	targetID := uuid.New()

	t.Run("Success defaults severity", func(t *testing.T) {
		repo := new(MockReportRepository)
		svc := NewReportService(repo, newTestLogger())
		repo.On("Create", ctx, mock.MatchedBy(func(r *report.Report) bool {
			return r.ReporterID == caller.UserID && r.Status == shared.ReportStatusPending
		})).Return(nil).Once()

		r, err := svc.FileReport(ctx, caller, shared.ReportTargetListing, targetID, "Counterfeit brand", "")
		require.NoError(t, err)
		assert.Equal(t, shared.ReportSeverityMedium, r.Severity)
		repo.AssertExpectations(t)
	})

	t.Run("Unknown target", func(t *testing.T) {
		repo := new(MockReportRepository)
		svc := NewReportService(repo, newTestLogger())

		_, err := svc.FileReport(ctx, caller, "PLANET", targetID, "spam", shared.ReportSeverityLow)
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestReportServiceImpl_Transition(t *testing.T) {
	ctx := context.Background()
	admin := shared.Identity{UserID: uuid.Nil, Role: shared.RoleAdmin}

	pending := func() *report.Report {
		r, err := report.NewReport(uuid.New(), shared.ReportTargetUser, uuid.New(), "harassment", shared.ReportSeverityHigh)
		require.NoError(t, err)
		return r
	}

	t.Run("Pending to reviewed", func(t *testing.T) {
		repo := new(MockReportRepository)
		svc := NewReportService(repo, newTestLogger())
		r := pending()
		reviewed := *r
		reviewed.Status = shared.ReportStatusReviewed
		repo.On("GetByID", ctx, r.ID).Return(r, nil).Once()
		repo.On("SetStatus", ctx, r.ID, shared.ReportStatusPending, shared.ReportStatusReviewed, "admin").Return(&reviewed, nil).Once()

		got, err := svc.Transition(ctx, admin, r.ID, shared.ReportStatusReviewed)
		require.NoError(t, err)
		assert.Equal(t, shared.ReportStatusReviewed, got.Status)
		repo.AssertExpectations(t)
	})

	t.Run("Resolved is terminal", func(t *testing.T) {
		repo := new(MockReportRepository)
		svc := NewReportService(repo, newTestLogger())
		r := pending()
		r.Status = shared.ReportStatusResolved
		repo.On("GetByID", ctx, r.ID).Return(r, nil).Once()

		_, err := svc.Transition(ctx, admin, r.ID, shared.ReportStatusReviewed)
		assert.True(t, errors.Is(err, shared.ErrInvalidState))
		repo.AssertNotCalled(t, "SetStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Concurrent moderation conflicts", func(t *testing.T) {
		repo := new(MockReportRepository)
		svc := NewReportService(repo, newTestLogger())
		r := pending()
		repo.On("GetByID", ctx, r.ID).Return(r, nil).Once()
		repo.On("SetStatus", ctx, r.ID, shared.ReportStatusPending, shared.ReportStatusResolved, "admin").
			Return(nil, shared.NewConflict("report changed")).Once()

		_, err := svc.Transition(ctx, admin, r.ID, shared.ReportStatusResolved)
		assert.True(t, errors.Is(err, shared.ErrConflict))
	})
}
