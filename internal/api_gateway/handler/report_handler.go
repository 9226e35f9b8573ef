package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rewear/swap-platform/internal/api_gateway/service"
	"github.com/rewear/swap-platform/internal/domain/shared"
)

// ReportHandler files and moderates spam reports
type ReportHandler struct {
	reportService service.ReportService
	logger        *slog.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(logger *slog.Logger, reportService service.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		logger:        logger,
	}
}

func (h *ReportHandler) Create(c *gin.Context) {
	caller, ok := callerIdentity(c)
	if !ok {
		return
	}
	var req FileReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	targetID, err := uuid.Parse(req.TargetID)
	if err != nil {
		RespondBadRequest(c, "Invalid target ID")
		return
	}

	r, err := h.reportService.FileReport(c.Request.Context(), caller,
		shared.ReportTarget(req.TargetType), targetID, req.Content, shared.ReportSeverity(req.Severity))
	if err != nil {
		RespondWithDomainError(c, h.logger, err)
		return
	}
	RespondCreated(c, r)
}

// List returns reports, optionally in one status
func (h *ReportHandler) List(c *gin.Context) {
	params, ok := pagination(c)
	if !ok {
		return
	}

	reports, total, err := h.reportService.ListReports(c.Request.Context(), shared.ReportStatus(c.Query("status")), params.Limit, params.Offset)
	if err != nil {
		RespondWithDomainError(c, h.logger, err)
		return
	}
	RespondPage(c, reports, total, params.Limit, params.Offset)
}

// Review marks a pending report as reviewed
func (h *ReportHandler) Review(c *gin.Context) {
	h.transition(c, shared.ReportStatusReviewed)
}

// Resolve closes a report
func (h *ReportHandler) Resolve(c *gin.Context) {
	h.transition(c, shared.ReportStatusResolved)
}

func (h *ReportHandler) transition(c *gin.Context, to shared.ReportStatus) {
	caller, ok := callerIdentity(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "report")
	if !ok {
		return
	}

	r, err := h.reportService.Transition(c.Request.Context(), caller, id, to)
	if err != nil {
		RespondWithDomainError(c, h.logger, err)
		return
	}
	RespondOK(c, r)
}
