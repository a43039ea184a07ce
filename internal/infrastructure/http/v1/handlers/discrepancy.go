package handlers

import (
	"github.com/gin-gonic/gin"

	"jargas/internal/core/apperror"
	"jargas/internal/domain/discrepancy"
	"jargas/internal/infrastructure/http/v1/dto"
)

// DiscrepancyHandler runs checks and serves the resulting notifications.
type DiscrepancyHandler struct {
	*BaseHandler
	service *discrepancy.Service
}

// NewDiscrepancyHandler creates a new discrepancy handler.
func NewDiscrepancyHandler(base *BaseHandler, service *discrepancy.Service) *DiscrepancyHandler {
	return &DiscrepancyHandler{BaseHandler: base, service: service}
}

// Check handles POST /discrepancy/check
func (h *DiscrepancyHandler) Check(c *gin.Context) {
	projectID, ok := h.RequireProject(c)
	if !ok {
		return
	}

	reports, err := h.service.Check(c.Request.Context(), projectID)
	if err != nil {
		h.Error(c, err)
		return
	}
	if reports == nil {
		reports = []discrepancy.Report{}
	}
	h.OK(c, dto.CheckResponse{ProjectID: projectID, Warnings: reports})
}

// ListNotifications handles GET /notifications
func (h *DiscrepancyHandler) ListNotifications(c *gin.Context) {
	var q dto.NotificationListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	base, err := q.ToFilter()
	if err != nil {
		h.Error(c, apperror.NewValidation(err.Error()))
		return
	}

	result, err := h.service.ListNotifications(c.Request.Context(), discrepancy.ListFilter{
		ListFilter: base,
		UnreadOnly: q.UnreadOnly,
		MandorID:   q.MandorID,
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// MarkRead handles POST /notifications/read
func (h *DiscrepancyHandler) MarkRead(c *gin.Context) {
	var req dto.IDsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	n, err := h.service.MarkRead(c.Request.Context(), req.IDs)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.MarkReadResponse{Updated: n})
}
