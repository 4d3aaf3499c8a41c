package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	resp "theend-page-api/internal/transport/http/response"
)

// SimpleRecovery panic 兜底，细节只进日志不出响应
func SimpleRecovery(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				l.Error("panic recovered",
					zap.Any("panic", rec),
					zap.String("path", c.Request.URL.Path),
				)
				c.AbortWithStatusJSON(resp.CodeServerError, resp.Error(resp.CodeServerError, "internal error"))
			}
		}()
		c.Next()
	}
}
