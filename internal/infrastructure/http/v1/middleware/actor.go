package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"jargas/internal/core/apperror"
	appctx "jargas/internal/core/context"
)

const (
	HeaderActorID   = "X-Actor-ID"
	HeaderProjectID = "X-Project-ID"
)

// Actor reads the acting user and project set by the upstream auth layer
// and puts them on the request context. Both headers are optional here;
// operations that need a project reject a request without one.
func Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID, err := headerID(c, HeaderActorID)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		projectID, err := headerID(c, HeaderProjectID)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		if actorID != 0 || projectID != 0 {
			ctx := appctx.WithActor(c.Request.Context(), &appctx.ActorContext{
				ActorID:   actorID,
				ProjectID: projectID,
			})
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}

func headerID(c *gin.Context, header string) (int64, error) {
	raw := c.GetHeader(header)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return 0, apperror.NewValidation("invalid "+header+" header").
			WithDetail("header", header)
	}
	return v, nil
}
