package handlers

import (
	"github.com/gin-gonic/gin"

	"jargas/internal/core/apperror"
	"jargas/internal/domain/documents/stock_out"
	"jargas/internal/infrastructure/http/v1/dto"
)

// StockOutHandler handles HTTP requests for stock-out documents.
type StockOutHandler struct {
	*BaseDocumentHandler[*stock_out.StockOut]
	service *stock_out.Service
}

// NewStockOutHandler creates a new stock-out handler.
func NewStockOutHandler(base *BaseHandler, service *stock_out.Service) *StockOutHandler {
	return &StockOutHandler{
		BaseDocumentHandler: NewBaseDocumentHandler[*stock_out.StockOut](base, service),
		service:             service,
	}
}

// Create handles POST /stock-out. The number is assigned by the server.
func (h *StockOutHandler) Create(c *gin.Context) {
	projectID, ok := h.RequireProject(c)
	if !ok {
		return
	}
	var req dto.CreateStockOutRequest
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

// List handles GET /stock-out
func (h *StockOutHandler) List(c *gin.Context) {
	var q dto.StockOutListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	base, err := q.ToFilter()
	if err != nil {
		h.Error(c, apperror.NewValidation(err.Error()))
		return
	}

	result, err := h.service.List(c.Request.Context(), stock_out.ListFilter{
		ListFilter: base,
		MandorID:   q.MandorID,
		MaterialID: q.MaterialID,
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// Delete handles DELETE /stock-out/:id
func (h *StockOutHandler) Delete(c *gin.Context) {
	h.DeleteWith(h.service)(c)
}
