package handlers

import (
	"github.com/gin-gonic/gin"

	"jargas/internal/core/apperror"
	"jargas/internal/domain/documents/letter"
	"jargas/internal/infrastructure/http/v1/dto"
)

// LetterHandler handles HTTP requests for request and delivery letters.
type LetterHandler struct {
	*BaseDocumentHandler[*letter.Letter]
	service *letter.Service
}

// NewLetterHandler creates a new letter handler.
func NewLetterHandler(base *BaseHandler, service *letter.Service) *LetterHandler {
	return &LetterHandler{
		BaseDocumentHandler: NewBaseDocumentHandler[*letter.Letter](base, service),
		service:             service,
	}
}

// Create handles POST /letters
func (h *LetterHandler) Create(c *gin.Context) {
	projectID, ok := h.RequireProject(c)
	if !ok {
		return
	}
	var req dto.CreateLetterRequest
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

// List handles GET /letters
func (h *LetterHandler) List(c *gin.Context) {
	var q dto.LetterListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	base, err := q.ToFilter()
	if err != nil {
		h.Error(c, apperror.NewValidation(err.Error()))
		return
	}

	result, err := h.service.List(c.Request.Context(), letter.ListFilter{
		ListFilter: base,
		Kind:       q.Kind,
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}
