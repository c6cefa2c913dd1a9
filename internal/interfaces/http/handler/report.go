package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ogw/sanity-backend/internal/domain/report"
	"github.com/ogw/sanity-backend/internal/interfaces/http/dto"
)

// ReportService exposes stored run reports.
type ReportService interface {
	Get(ctx context.Context, id uuid.UUID) (*report.RunReport, error)
	List(ctx context.Context, filter report.Filter) ([]report.RunReport, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Recent(ctx context.Context, limit int) ([]report.RecentRun, error)
}

// ReportHandler handles run report endpoints.
type ReportHandler struct {
	BaseHandler
	service ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(service ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// ListReportsRequest carries list filters and pagination.
type ListReportsRequest struct {
	dto.ListRequest
	ScenarioID  string `form:"scenarioId"`
	Environment string `form:"environment"`
}

// List returns stored run reports, newest first.
func (h *ReportHandler) List(c *gin.Context) {
	req := ListReportsRequest{ListRequest: dto.DefaultListRequest()}
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	filter := report.Filter{
		ScenarioID:  req.ScenarioID,
		Environment: req.Environment,
		Page:        req.Page,
		PageSize:    req.PageSize,
	}

	reports, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, dto.NewReportResponseList(reports), total, filter.Page, filter.PageSize)
}

// Recent returns the most recently finished runs from the hot cache.
func (h *ReportHandler) Recent(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	runs, err := h.service.Recent(c.Request.Context(), req.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, runs)
}

// Get returns one run report by ID.
func (h *ReportHandler) Get(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	rep, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.NewReportResponse(rep))
}

// Delete removes one run report by ID.
func (h *ReportHandler) Delete(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

func (h *ReportHandler) bindID(c *gin.Context) (uuid.UUID, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid report ID")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid report ID")
		return uuid.Nil, false
	}
	return id, true
}
