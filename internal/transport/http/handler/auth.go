package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"theend-page-api/internal/service"
	resp "theend-page-api/internal/transport/http/response"
)

type AuthHandler struct {
	users *service.UserService
	log   *zap.Logger
}

func NewAuthHandler(users *service.UserService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{users: users, log: log}
}

type registerReq struct {
	Name     string `json:"name" binding:"required,max=64"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var in registerReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(resp.CodeBadRequest, resp.Error(resp.CodeBadRequest, err.Error()))
		return
	}
	u, err := h.users.Register(c.Request.Context(), service.RegisterInput{
		Name:     in.Name,
		Email:    in.Email,
		Password: in.Password,
	})
	if err != nil {
		writeErr(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, resp.OK(gin.H{"user": u}))
}

type loginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var in loginReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(resp.CodeBadRequest, resp.Error(resp.CodeBadRequest, err.Error()))
		return
	}
	u, tok, err := h.users.Login(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		writeErr(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(gin.H{"user": u, "token": tok}))
}

// Me GET /me
func (h *AuthHandler) Me(c *gin.Context) {
	u, err := h.users.Profile(c.Request.Context(), c.GetString("userId"))
	if err != nil {
		writeErr(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(gin.H{"user": u}))
}
