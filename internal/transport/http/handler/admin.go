package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"theend-page-api/internal/domain"
	"theend-page-api/internal/service"
	resp "theend-page-api/internal/transport/http/response"
)

// AdminHandler 管理端：用户/页面治理，路由分组已限定 admin 角色
type AdminHandler struct {
	users *service.UserService
	pages *service.PageService
	log   *zap.Logger
}

func NewAdminHandler(users *service.UserService, pages *service.PageService, log *zap.Logger) *AdminHandler {
	return &AdminHandler{users: users, pages: pages, log: log}
}

type listUsersQ struct {
	Offset      int    `form:"offset,default=0"`
	Limit       int    `form:"limit,default=20"`
	Q           string `form:"q"`            // email/name 模糊搜
	WithDeleted bool   `form:"with_deleted"` // 是否包含已封禁
}

// ListUsers GET /users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	var q listUsersQ
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(resp.CodeBadRequest, resp.Error(resp.CodeBadRequest, err.Error()))
		return
	}
	users, total, err := h.users.List(c.Request.Context(), domain.UserFilter{
		Offset:      q.Offset,
		Limit:       q.Limit,
		Q:           q.Q,
		WithDeleted: q.WithDeleted,
	})
	if err != nil {
		writeErr(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(gin.H{"total": total, "users": users}))
}

// BanUser POST /users/:id/ban（软删）
func (h *AdminHandler) BanUser(c *gin.Context) {
	id := c.Param("id")
	if err := h.users.Ban(c.Request.Context(), id); err != nil {
		writeErr(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(gin.H{"id": id}))
}

type listPagesQ struct {
	Offset int `form:"offset,default=0"`
	Limit  int `form:"limit,default=20"`
}

// ListPages GET /pages 全量（跨 owner）
func (h *AdminHandler) ListPages(c *gin.Context) {
	var q listPagesQ
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(resp.CodeBadRequest, resp.Error(resp.CodeBadRequest, err.Error()))
		return
	}
	pages, total, err := h.pages.AdminList(c.Request.Context(), q.Offset, q.Limit)
	if err != nil {
		writeErr(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(gin.H{"total": total, "pages": pages}))
}

// RemovePage DELETE /pages/:id 治理下架，不限 owner
func (h *AdminHandler) RemovePage(c *gin.Context) {
	id := c.Param("id")
	if err := h.pages.AdminRemove(c.Request.Context(), id); err != nil {
		writeErr(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(gin.H{"id": id}))
}
