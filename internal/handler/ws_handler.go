// Package handler 提供 HTTP 请求处理器
// 本文件处理 WebSocket 连接相关的 API 请求
package handler

import (
	"errors"
	"net/http"

	"room_chat_server/internal/service"
	"room_chat_server/pkg/errorx"
	"room_chat_server/pkg/util/jwt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WsServer WebSocket 网关，由 *websocket.Gateway 实现
type WsServer interface {
	Serve(w http.ResponseWriter, r *http.Request, username string) error
}

// WsHandler WebSocket 请求处理器
type WsHandler struct {
	authSvc service.AuthService
	ws      WsServer
}

// NewWsHandler 创建 WebSocket 处理器实例
func NewWsHandler(authSvc service.AuthService, ws WsServer) *WsHandler {
	return &WsHandler{authSvc: authSvc, ws: ws}
}

// Connect WebSocket 登录（升级 HTTP 连接为 WebSocket）
// GET /ws?token=xxx 或 Authorization: Bearer xxx
// 功能:
//   - 握手前校验凭证，无效时直接返回 401，不建立连接
//   - 将 HTTP 连接升级为 WebSocket 连接并注册会话
//   - 会话自动加入默认房间
func (h *WsHandler) Connect(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token, _ = jwt.BearerToken(c.GetHeader("Authorization"))
	}
	username, err := h.authSvc.Authenticate(token)
	if err != nil {
		zap.L().Debug("websocket handshake rejected", zap.String("ClientIP", c.ClientIP()), zap.Error(err))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"code": errorx.CodeUnauthorized,
			"msg":  authMessage(err),
			"data": nil,
		})
		return
	}
	if err := h.ws.Serve(c.Writer, c.Request, username); err != nil {
		zap.L().Warn("websocket connect failed", zap.String("username", username), zap.Error(err))
	}
}

// authMessage 取出认证错误的提示信息
func authMessage(err error) string {
	var codeErr *errorx.CodeError
	if errors.As(err, &codeErr) {
		return codeErr.Msg
	}
	return errorx.ErrUnauthorized.Msg
}
