package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"theend-page-api/internal/domain"
	"theend-page-api/internal/service"
	resp "theend-page-api/internal/transport/http/response"
)

// PublicHandler 免鉴权路由：slug 公开读、投票、名人堂
type PublicHandler struct {
	pages *service.PageService
	log   *zap.Logger
}

func NewPublicHandler(pages *service.PageService, log *zap.Logger) *PublicHandler {
	return &PublicHandler{pages: pages, log: log}
}

// Show GET /pages/public/:slug 每次读取原子 +1 浏览数
func (h *PublicHandler) Show(c *gin.Context) {
	p, err := h.pages.GetPublic(c.Request.Context(), c.Param("slug"))
	if err != nil {
		writeErr(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(gin.H{"page": p}))
}

// Vote POST /pages/public/:slug/vote
func (h *PublicHandler) Vote(c *gin.Context) {
	slug := c.Param("slug")
	votes, err := h.pages.Vote(c.Request.Context(), slug)
	if err != nil {
		writeErr(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(gin.H{"slug": slug, "voteCount": votes}))
}

// HallOfFame GET /pages/hall-of-fame?limit=N
func (h *PublicHandler) HallOfFame(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	pages, err := h.pages.HallOfFame(c.Request.Context(), limit)
	if err != nil {
		writeErr(c, h.log, err)
		return
	}
	if pages == nil {
		pages = []domain.Page{}
	}
	c.JSON(http.StatusOK, resp.OK(gin.H{"pages": pages}))
}
