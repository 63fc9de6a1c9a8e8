package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterMonitorRoutes 注册健康检查与 Prometheus 指标路由
func (rt *Router) RegisterMonitorRoutes(r *gin.Engine) {
	r.GET("/healthz", rt.handlers.Health.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
