// Package https_server 提供 HTTP/HTTPS 服务器的初始化和配置
// 负责创建 Gin 引擎实例并配置中间件和路由
package https_server

import (
	"room_chat_server/internal/config"
	"room_chat_server/internal/handler"
	"room_chat_server/internal/infrastructure/logger"
	"room_chat_server/internal/infrastructure/middleware"
	"room_chat_server/internal/router"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Init 创建 Gin 引擎并注册中间件与路由
// 配置顺序：
//  1. 创建空白 Gin 引擎
//  2. 注册日志和恢复中间件
//  3. 配置 CORS 跨域规则
//  4. 可选的 TLS 重定向
//  5. 注册业务路由
func Init(cfg *config.Config, handlers *handler.Handlers) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	engine.Use(logger.GinLogger())
	engine.Use(logger.GinRecovery(true))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowedOrigins
	for _, origin := range cfg.AllowedOrigins {
		if origin == "*" {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowAllOrigins = true
			break
		}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	engine.Use(cors.New(corsConfig))

	// 由 Nginx 终止 TLS 时保持关闭
	if cfg.TLSRedirect {
		engine.Use(middleware.TlsHandler(cfg.Host, cfg.Port, cfg.Mode != "release"))
	}

	rt := router.NewRouter(handlers)
	rt.RegisterRoutes(engine)

	return engine
}
