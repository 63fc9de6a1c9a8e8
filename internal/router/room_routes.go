// Package router 提供 HTTP 路由注册
// 本文件定义房间查询与公告相关的路由
package router

import (
	"room_chat_server/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoomRoutes 注册房间相关路由
// 查询接口公开，发布公告需要认证
func (rt *Router) RegisterRoomRoutes(rg *gin.RouterGroup) {
	rg.GET("/rooms", rt.handlers.Room.ListRooms)            // 公共房间列表
	rg.GET("/messages/:room", rt.handlers.Room.GetMessages) // 房间消息日志
	rg.GET("/users/:room", rt.handlers.Room.GetUsers)       // 房间成员

	roomGroup := rg.Group("/rooms")
	roomGroup.Use(middleware.JWTAuth())
	{
		roomGroup.POST("/:room/announce", rt.handlers.Room.Announce) // 发布系统公告
	}
}
