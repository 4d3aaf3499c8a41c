package router

import (
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"theend-page-api/internal/core/auth"
	"theend-page-api/internal/transport/http/handler"
	mdw "theend-page-api/internal/transport/http/middleware"
)

func NewAdminEngine(l *zap.Logger, jwter *auth.JWTer, adminH *handler.AdminHandler) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		ginzap.Ginzap(l, time.RFC3339, true),
		ginzap.RecoveryWithZap(l, true),
		mdw.Metrics(),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })

	// 管理端 v1，统一要求 admin 角色
	admin := r.Group("/admin/v1")
	admin.Use(mdw.AuthJWT(jwter, "admin"))
	admin.GET("/users", adminH.ListUsers)
	admin.POST("/users/:id/ban", adminH.BanUser)
	admin.GET("/pages", adminH.ListPages)
	admin.DELETE("/pages/:id", adminH.RemovePage)

	return r
}
