// Package router 提供 HTTP 路由注册
// 本文件定义认证相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes 注册认证相关路由（公开接口）
func (rt *Router) RegisterAuthRoutes(rg *gin.RouterGroup) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/login", rt.handlers.Auth.Login)   // 展示名登录，签发凭证
		authGroup.POST("/verify", rt.handlers.Auth.Verify) // 校验凭证
	}
}
