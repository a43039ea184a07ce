package handlers

import (
	"github.com/gin-gonic/gin"

	"jargas/internal/core/apperror"
	"jargas/internal/domain/documents/returns"
	"jargas/internal/infrastructure/http/v1/dto"
)

// ReturnHandler handles HTTP requests for returns and their release.
type ReturnHandler struct {
	*BaseDocumentHandler[*returns.Return]
	service *returns.Service
}

// NewReturnHandler creates a new return handler.
func NewReturnHandler(base *BaseHandler, service *returns.Service) *ReturnHandler {
	return &ReturnHandler{
		BaseDocumentHandler: NewBaseDocumentHandler[*returns.Return](base, service),
		service:             service,
	}
}

// Create handles POST /returns
func (h *ReturnHandler) Create(c *gin.Context) {
	var req dto.CreateReturnRequest
	if !h.BindJSON(c, &req) {
		return
	}

	r, err := h.service.CreateReturn(c.Request.Context(), req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, r)
}

// Release handles POST /returns/:id/release
func (h *ReturnHandler) Release(c *gin.Context) {
	returnID, ok := h.ParseID(c)
	if !ok {
		return
	}
	var req dto.ReleaseReturnRequest
	if !h.BindJSON(c, &req) {
		return
	}

	so, err := h.service.Release(c.Request.Context(), returnID, req.ReleaseDate.Time)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.ReleaseResponse{ReturnID: returnID, StockOut: so})
}

// List handles GET /returns
func (h *ReturnHandler) List(c *gin.Context) {
	var q dto.ReturnListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	base, err := q.ToFilter()
	if err != nil {
		h.Error(c, apperror.NewValidation(err.Error()))
		return
	}

	result, err := h.service.List(c.Request.Context(), returns.ListFilter{
		ListFilter:       base,
		SourceStockOutID: q.SourceStockOutID,
		MandorID:         q.MandorID,
		MaterialID:       q.MaterialID,
		IsReleased:       q.IsReleased,
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// Delete handles DELETE /returns/:id
func (h *ReturnHandler) Delete(c *gin.Context) {
	h.DeleteWith(h.service)(c)
}
