package handlers

import (
	"github.com/gin-gonic/gin"

	"jargas/internal/core/apperror"
	appctx "jargas/internal/core/context"
	"jargas/internal/domain/registers/stock"
	"jargas/internal/infrastructure/http/v1/dto"
)

// BalanceHandler serves material balances.
type BalanceHandler struct {
	*BaseHandler
	service *stock.Service
}

// NewBalanceHandler creates a new balance handler.
func NewBalanceHandler(base *BaseHandler, service *stock.Service) *BalanceHandler {
	return &BalanceHandler{BaseHandler: base, service: service}
}

// projectScope is the request's project, or nil for a cross-project view.
func projectScope(c *gin.Context) *int64 {
	if id := appctx.GetProjectID(c.Request.Context()); id > 0 {
		return &id
	}
	return nil
}

// List handles GET /balance
func (h *BalanceHandler) List(c *gin.Context) {
	var q dto.BalanceQuery
	if !h.BindQuery(c, &q) {
		return
	}
	f, err := q.ToFilter(projectScope(c))
	if err != nil {
		h.Error(c, apperror.NewValidation(err.Error()))
		return
	}

	snapshots, err := h.service.GetBalance(c.Request.Context(), f)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewBalanceResponse(snapshots))
}

// Get handles GET /balance/:id
func (h *BalanceHandler) Get(c *gin.Context) {
	materialID, ok := h.ParseID(c)
	if !ok {
		return
	}

	snap, found, err := h.service.GetMaterialBalance(c.Request.Context(), materialID, projectScope(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	if !found {
		h.Error(c, apperror.NewNotFound("material", materialID))
		return
	}
	h.OK(c, snap)
}
