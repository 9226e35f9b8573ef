package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rewear/swap-platform/internal/domain/report"
	"github.com/rewear/swap-platform/internal/domain/shared"
	"github.com/rewear/swap-platform/internal/platform/persistence"
)

const reportColumns = `id, reporter_id, target_type, target_id, content, severity, status, reviewed_by, created_at, updated_at`

const (
	createReportQuery = `
		INSERT INTO spam_reports (` + reportColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	getReportByIDQuery = `
		SELECT ` + reportColumns + `
		FROM spam_reports
		WHERE id = $1
	`
	listReportsQuery = `
		SELECT ` + reportColumns + `
		FROM spam_reports
		WHERE ($1::text = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	countReportsQuery = `
		SELECT COUNT(*)
		FROM spam_reports
		WHERE ($1::text = '' OR status = $1)
	`
	setReportStatusQuery = `
		UPDATE spam_reports
		SET status = $1, reviewed_by = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4
		RETURNING ` + reportColumns
)

// ReportRepository implements the report.Repository interface for PostgreSQL
type ReportRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewReportRepository creates a new PostgreSQL spam report repository
func NewReportRepository(logger *slog.Logger, db *persistence.PostgresDB) report.Repository {
	return &ReportRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

func scanReport(row pgx.Row) (*report.Report, error) {
	var rep report.Report
	err := row.Scan(
		&rep.ID,
		&rep.ReporterID,
		&rep.TargetType,
		&rep.TargetID,
		&rep.Content,
		&rep.Severity,
		&rep.Status,
		&rep.ReviewedBy,
		&rep.CreatedAt,
		&rep.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rep, nil
}

// Create stores a new report
func (r *ReportRepository) Create(ctx context.Context, rep *report.Report) error {
	_, err := r.querier.Exec(ctx, createReportQuery,
		rep.ID,
		rep.ReporterID,
		rep.TargetType,
		rep.TargetID,
		rep.Content,
		rep.Severity,
		rep.Status,
		rep.ReviewedBy,
		rep.CreatedAt,
		rep.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create report", "id", rep.ID.String(), "error", err)
		return fmt.Errorf("failed to create report: %w", err)
	}
	return nil
}

// GetByID retrieves a report by id
func (r *ReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*report.Report, error) {
	rep, err := scanReport(r.querier.QueryRow(ctx, getReportByIDQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, report.NotFoundError(id)
		}
		r.logger.Error("Failed to get report", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return rep, nil
}

// List returns reports, newest first. An empty status lists all of them.
func (r *ReportRepository) List(ctx context.Context, status shared.ReportStatus, limit, offset int) ([]*report.Report, int64, error) {
	var total int64
	if err := r.querier.QueryRow(ctx, countReportsQuery, string(status)).Scan(&total); err != nil {
		r.logger.Error("Failed to count reports", "error", err)
		return nil, 0, fmt.Errorf("failed to count reports: %w", err)
	}

	rows, err := r.querier.Query(ctx, listReportsQuery, string(status), limit, offset)
	if err != nil {
		r.logger.Error("Failed to list reports", "error", err)
		return nil, 0, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	reports := []*report.Report{}
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			r.logger.Error("Failed to scan report", "error", err)
			return nil, 0, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, rep)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over reports", "error", err)
		return nil, 0, fmt.Errorf("error iterating over reports: %w", err)
	}

	return reports, total, nil
}

// SetStatus moves the report from -> to, recording the moderator
func (r *ReportRepository) SetStatus(ctx context.Context, id uuid.UUID, from, to shared.ReportStatus, reviewedBy string) (*report.Report, error) {
	rep, err := scanReport(r.querier.QueryRow(ctx, setReportStatusQuery, to, reviewedBy, id, from))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.NewConflict("report %s is no longer %s", id, from)
		}
		r.logger.Error("Failed to set report status", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to set report status: %w", err)
	}
	return rep, nil
}
