// Package handler 提供 HTTP 请求处理器
// 本文件处理认证相关的 API 请求
package handler

import (
	"room_chat_server/internal/dto/request"
	"room_chat_server/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler 认证请求处理器
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler 创建认证处理器实例
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login 展示名登录
// POST /api/auth/login
// 请求体: request.LoginRequest
// 响应: respond.LoginRespond (success + token + username)
func (h *AuthHandler) Login(c *gin.Context) {
	var req request.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.authSvc.Login(req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Verify 校验凭证
// POST /api/auth/verify
// 请求体: request.VerifyRequest
// 响应: respond.VerifyRespond；凭证无效时返回 401
func (h *AuthHandler) Verify(c *gin.Context) {
	var req request.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.authSvc.Verify(req.Token)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
