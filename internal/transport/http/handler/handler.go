package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"theend-page-api/internal/domain"
	resp "theend-page-api/internal/transport/http/response"
)

// writeErr 领域错误统一映射；未分类错误只记日志，响应不带内部细节
func writeErr(c *gin.Context, l *zap.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(resp.CodeNotFound, resp.Error(resp.CodeNotFound, domain.ErrNotFound.Error()))
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(resp.CodeUnauthorized, resp.Error(resp.CodeUnauthorized, err.Error()))
	case errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrTitleTaken),
		errors.Is(err, domain.ErrSlugTaken),
		errors.Is(err, domain.ErrValidation):
		c.JSON(resp.CodeBadRequest, resp.Error(resp.CodeBadRequest, err.Error()))
	default:
		l.Error("request failed",
			zap.Error(err),
			zap.String("path", c.FullPath()),
			zap.String("rid", c.GetString("X-Request-ID")),
		)
		c.JSON(resp.CodeServerError, resp.Error(resp.CodeServerError, "internal error"))
	}
}
