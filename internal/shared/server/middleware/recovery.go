package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/server/respond"
	"resume-builder/internal/shared/telemetry"
)

// Recovery turns a handler panic into a logged 500 with the error envelope.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, rec any) {
		telemetry.Error("http.panic", map[string]any{
			"request_id": RequestIDFromContext(c),
			"user_id":    UserIDFromContext(c),
			"route":      c.FullPath(),
			"method":     c.Request.Method,
			"error":      fmt.Sprint(rec),
			"stack":      string(debug.Stack()),
		})
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Unexpected server error", nil)
	})
}
