package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/rewear/swap-platform/internal/domain/shared"
	applog "github.com/rewear/swap-platform/internal/logger"
)

// Recovery middleware catches panics, logs them with stack traces, and returns a 500 error
// with correlation ID (if available) to maintain request traceability
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				applog.WithContext(c.Request.Context(), logger).Error("Panic recovered",
					"error", r,
					"stack", string(debug.Stack()),
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
				)
				abortWithError(c, http.StatusInternalServerError, string(shared.KindInternal), "An internal server error occurred")
			}
		}()

		c.Next()
	}
}
