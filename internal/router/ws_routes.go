// Package router 提供 HTTP 路由注册
// 本文件定义 WebSocket 相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterWebSocketRoutes 注册 WebSocket 路由
// 凭证在握手时由 handler 校验，不经过 JWTAuth 中间件
func (rt *Router) RegisterWebSocketRoutes(r *gin.Engine) {
	// 请求示例: ws://host:port/ws?token=xxx
	r.GET("/ws", rt.handlers.Ws.Connect)
}
