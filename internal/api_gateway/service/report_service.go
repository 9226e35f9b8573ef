package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/rewear/swap-platform/internal/domain/report"
	"github.com/rewear/swap-platform/internal/domain/shared"
	applog "github.com/rewear/swap-platform/internal/logger"
)

// ReportServiceImpl implements the ReportService interface
type ReportServiceImpl struct {
	reports report.Repository
	logger  *slog.Logger
}

// NewReportService creates a new report service
func NewReportService(reports report.Repository, logger *slog.Logger) ReportService {
	return &ReportServiceImpl{
		reports: reports,
		logger:  logger,
	}
}

func (s *ReportServiceImpl) FileReport(ctx context.Context, caller shared.Identity, targetType shared.ReportTarget, targetID uuid.UUID, content string, severity shared.ReportSeverity) (*report.Report, error) {
	r, err := report.NewReport(caller.UserID, targetType, targetID, content, severity)
	if err != nil {
		return nil, err
	}
	if err := s.reports.Create(ctx, r); err != nil {
		return nil, err
	}
	applog.WithContext(ctx, s.logger).Info("Report filed",
		"report_id", r.ID.String(),
		"target_type", string(r.TargetType),
		"severity", string(r.Severity),
	)
	return r, nil
}

func (s *ReportServiceImpl) ListReports(ctx context.Context, status shared.ReportStatus, limit, offset int) ([]*report.Report, int64, error) {
	return s.reports.List(ctx, status, limit, offset)
}

// Transition checks the moderation state machine, then applies the move
// with a guard on the status that was read
func (s *ReportServiceImpl) Transition(ctx context.Context, caller shared.Identity, id uuid.UUID, to shared.ReportStatus) (*report.Report, error) {
	current, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !report.CanTransition(current.Status, to) {
		return nil, shared.NewInvalidState("report cannot move from %s to %s", current.Status, to)
	}

	reviewer := "admin"
	if caller.UserID != uuid.Nil {
		reviewer = caller.UserID.String()
	}
	updated, err := s.reports.SetStatus(ctx, id, current.Status, to, reviewer)
	if err != nil {
		return nil, err
	}
	applog.WithContext(ctx, s.logger).Info("Report moderated", "report_id", id.String(), "status", string(to))
	return updated, nil
}
