package report

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rewear/swap-platform/internal/domain/shared"
)

// Report is a moderation complaint about a listing, user, swap or comment
type Report struct {
	ID         uuid.UUID             `json:"id"`
	ReporterID uuid.UUID             `json:"reporter_id"`
	TargetType shared.ReportTarget   `json:"target_type"`
	TargetID   uuid.UUID             `json:"target_id"`
	Content    string                `json:"content"`
	Severity   shared.ReportSeverity `json:"severity"`
	Status     shared.ReportStatus   `json:"status"`
	ReviewedBy *string               `json:"reviewed_by,omitempty"`
	CreatedAt  time.Time             `json:"created_at"`
	UpdatedAt  time.Time             `json:"updated_at"`
}

// NewReport validates and builds a PENDING report
func NewReport(reporterID uuid.UUID, targetType shared.ReportTarget, targetID uuid.UUID, content string, severity shared.ReportSeverity) (*Report, error) {
	switch targetType {
	case shared.ReportTargetListing, shared.ReportTargetUser, shared.ReportTargetSwap, shared.ReportTargetComment:
	default:
		return nil, shared.NewInvalidInput("unknown report target %q", targetType)
	}
	if severity == "" {
		severity = shared.ReportSeverityMedium
	}
	switch severity {
	case shared.ReportSeverityLow, shared.ReportSeverityMedium, shared.ReportSeverityHigh:
	default:
		return nil, shared.NewInvalidInput("unknown report severity %q", severity)
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, shared.NewInvalidInput("report content cannot be empty")
	}
	if targetID == uuid.Nil {
		return nil, shared.NewInvalidInput("report target is required")
	}

	now := time.Now().UTC()
	return &Report{
		ID:         uuid.New(),
		ReporterID: reporterID,
		TargetType: targetType,
		TargetID:   targetID,
		Content:    content,
		Severity:   severity,
		Status:     shared.ReportStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// CanTransition reports whether moderation may move a report from -> to
func CanTransition(from, to shared.ReportStatus) bool {
	switch from {
	case shared.ReportStatusPending:
		return to == shared.ReportStatusReviewed || to == shared.ReportStatusResolved
	case shared.ReportStatusReviewed:
		return to == shared.ReportStatusResolved
	}
	return false
}
