// Package v1 provides HTTP API version 1.
package v1

import "github.com/gin-gonic/gin"

// DocumentRouteHandler is implemented by every document handler.
type DocumentRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
}

// DocumentDeleteHandler is an optional interface for documents that support soft delete.
type DocumentDeleteHandler interface {
	Delete(c *gin.Context)
}

// RegisterDocumentRoutes registers the standard document routes. DELETE is
// registered only when the handler implements DocumentDeleteHandler.
//
// Usage:
//
//	handler := handlers.NewStockInHandler(baseHandler, stockInService)
//	RegisterDocumentRoutes(api.Group("/stock-in"), handler)
func RegisterDocumentRoutes(group *gin.RouterGroup, handler DocumentRouteHandler) {
	group.GET("", handler.List)
	group.POST("", handler.Create)
	group.GET("/:id", handler.Get)

	if del, ok := handler.(DocumentDeleteHandler); ok {
		group.DELETE("/:id", del.Delete)
	}
}
