package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"netshop-backend/internal/shared/response"
)

// Recovery bắt panic trong handler, log kèm stack và trả 500 theo format chung
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		log.Error().
			Str("request_id", c.GetString(RequestIDKey)).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Interface("panic", recovered).
			Bytes("stack", debug.Stack()).
			Msg("panic recovered")

		response.ErrorResponse(c, http.StatusInternalServerError, "SYS_001", "Internal server error")
		c.Abort()
	})
}
