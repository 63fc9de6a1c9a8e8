// Package router 提供 HTTP 路由注册
// 本文件是路由注册的入口，聚合所有子模块的路由
package router

import (
	"room_chat_server/internal/handler"

	"github.com/gin-gonic/gin"
)

// Router 路由管理器，持有 Handler 聚合对象
type Router struct {
	handlers *handler.Handlers
}

// NewRouter 创建路由管理器
func NewRouter(handlers *handler.Handlers) *Router {
	return &Router{handlers: handlers}
}

// RegisterRoutes 注册所有路由
// 在 https_server.Init() 中调用
func (rt *Router) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	rt.RegisterAuthRoutes(api) // 认证路由（登录、校验）
	rt.RegisterRoomRoutes(api) // 房间查询与公告

	rt.RegisterWebSocketRoutes(r) // WebSocket 路由
	rt.RegisterMonitorRoutes(r)   // 健康检查与指标
}
