// Package middleware provides HTTP middleware components.
package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"jargas/internal/core/apperror"
	"jargas/pkg/logger"
)

// Recovery turns a panic into a 500 response. The stack is logged, never
// returned. A panic unwinds past ErrorHandler, so the response is written here.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error(c.Request.Context(), "panic recovered",
					"error", err,
					"stack", string(debug.Stack()),
				)

				appErr := apperror.NewInternal(fmt.Errorf("panic: %v", err)).
					WithDetail("request_id", c.GetString(keyRequestID))
				_ = c.Error(appErr)
				c.Abort()
				renderError(c, appErr)
			}
		}()
		c.Next()
	}
}
