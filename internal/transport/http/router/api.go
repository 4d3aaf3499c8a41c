package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"theend-page-api/internal/core/auth"
	"theend-page-api/internal/transport/http/handler"
	mdw "theend-page-api/internal/transport/http/middleware"
)

type APIHandlers struct {
	Auth   *handler.AuthHandler
	Page   *handler.PageHandler
	Public *handler.PublicHandler
}

func NewAPIEngine(l *zap.Logger, jwter *auth.JWTer, h APIHandlers, maxBodyMB int) *gin.Engine {
	r := gin.New()

	if maxBodyMB <= 0 {
		maxBodyMB = 16
	}
	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(int64(maxBodyMB)<<20),
		mdw.Timeout(30*time.Second),
		mdw.SimpleRecovery(l),
		mdw.Metrics(),
		mdw.AccessLog(l),
		cors.Default(),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")

	// 公开路由：注册/登录、slug 读、投票、名人堂
	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)
	api.GET("/pages/public/:slug", h.Public.Show)
	api.POST("/pages/public/:slug/vote", h.Public.Vote)
	api.GET("/pages/hall-of-fame", h.Public.HallOfFame)

	// 鉴权分组
	priv := api.Group("")
	priv.Use(mdw.AuthJWT(jwter, ""))
	priv.GET("/me", h.Auth.Me)
	priv.POST("/pages", h.Page.Create)
	priv.GET("/pages", h.Page.List)
	priv.GET("/pages/:id", h.Page.Get)
	priv.PATCH("/pages/:id", h.Page.Update)
	priv.DELETE("/pages/:id", h.Page.Delete)

	return r
}
