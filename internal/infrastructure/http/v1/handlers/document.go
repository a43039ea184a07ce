package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
)

// DocumentReader is the read side every document service has.
type DocumentReader[T any] interface {
	GetByID(ctx context.Context, id int64) (T, error)
}

// DocumentDeleter is implemented by document services that support soft delete.
type DocumentDeleter interface {
	Delete(ctx context.Context, id int64) error
}

// BaseDocumentHandler provides Get and Delete for a document type.
type BaseDocumentHandler[T any] struct {
	*BaseHandler
	reader DocumentReader[T]
}

// NewBaseDocumentHandler creates a new base document handler.
func NewBaseDocumentHandler[T any](base *BaseHandler, reader DocumentReader[T]) *BaseDocumentHandler[T] {
	return &BaseDocumentHandler[T]{BaseHandler: base, reader: reader}
}

// Get handles GET /{document}/:id
func (h *BaseDocumentHandler[T]) Get(c *gin.Context) {
	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	doc, err := h.reader.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, doc)
}

// DeleteWith returns a DELETE /{document}/:id handler backed by svc.
func (h *BaseDocumentHandler[T]) DeleteWith(svc DocumentDeleter) gin.HandlerFunc {
	return func(c *gin.Context) {
		docID, ok := h.ParseID(c)
		if !ok {
			return
		}
		if err := svc.Delete(c.Request.Context(), docID); err != nil {
			h.Error(c, err)
			return
		}
		h.NoContent(c)
	}
}
