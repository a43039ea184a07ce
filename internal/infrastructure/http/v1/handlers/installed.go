package handlers

import (
	"github.com/gin-gonic/gin"

	"jargas/internal/core/apperror"
	"jargas/internal/domain/documents/installed"
	"jargas/internal/infrastructure/http/v1/dto"
)

// InstalledHandler handles HTTP requests for installation records.
type InstalledHandler struct {
	*BaseDocumentHandler[*installed.Installed]
	service *installed.Service
}

// NewInstalledHandler creates a new installed handler.
func NewInstalledHandler(base *BaseHandler, service *installed.Service) *InstalledHandler {
	return &InstalledHandler{
		BaseDocumentHandler: NewBaseDocumentHandler[*installed.Installed](base, service),
		service:             service,
	}
}

// Create handles POST /installed
func (h *InstalledHandler) Create(c *gin.Context) {
	projectID, ok := h.RequireProject(c)
	if !ok {
		return
	}
	var req dto.CreateInstalledRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc := req.ToEntity(projectID, h.Actor(c))
	if err := h.service.Create(c.Request.Context(), doc); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, doc)
}

// List handles GET /installed
func (h *InstalledHandler) List(c *gin.Context) {
	var q dto.InstalledListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	base, err := q.ToFilter()
	if err != nil {
		h.Error(c, apperror.NewValidation(err.Error()))
		return
	}

	result, err := h.service.List(c.Request.Context(), installed.ListFilter{
		ListFilter: base,
		StockOutID: q.StockOutID,
		MandorID:   q.MandorID,
		MaterialID: q.MaterialID,
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// Delete handles DELETE /installed/:id
func (h *InstalledHandler) Delete(c *gin.Context) {
	h.DeleteWith(h.service)(c)
}
