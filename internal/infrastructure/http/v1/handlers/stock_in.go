package handlers

import (
	"github.com/gin-gonic/gin"

	"jargas/internal/core/apperror"
	"jargas/internal/domain/documents/stock_in"
	"jargas/internal/infrastructure/http/v1/dto"
)

// StockInHandler handles HTTP requests for stock-in documents.
type StockInHandler struct {
	*BaseDocumentHandler[*stock_in.StockIn]
	service *stock_in.Service
}

// NewStockInHandler creates a new stock-in handler.
func NewStockInHandler(base *BaseHandler, service *stock_in.Service) *StockInHandler {
	return &StockInHandler{
		BaseDocumentHandler: NewBaseDocumentHandler[*stock_in.StockIn](base, service),
		service:             service,
	}
}

// Create handles POST /stock-in
func (h *StockInHandler) Create(c *gin.Context) {
	projectID, ok := h.RequireProject(c)
	if !ok {
		return
	}
	var req dto.CreateStockInRequest
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

// List handles GET /stock-in
func (h *StockInHandler) List(c *gin.Context) {
	var q dto.StockInListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	base, err := q.ToFilter()
	if err != nil {
		h.Error(c, apperror.NewValidation(err.Error()))
		return
	}

	result, err := h.service.List(c.Request.Context(), stock_in.ListFilter{
		ListFilter: base,
		MaterialID: q.MaterialID,
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// Delete handles DELETE /stock-in/:id
func (h *StockInHandler) Delete(c *gin.Context) {
	h.DeleteWith(h.service)(c)
}
