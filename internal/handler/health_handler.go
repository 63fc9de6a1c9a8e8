package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SessionStats 在线会话统计
type SessionStats interface {
	SessionCount() int
}

// HealthHandler 健康检查
type HealthHandler struct {
	stats SessionStats
}

// NewHealthHandler 创建健康检查处理器
func NewHealthHandler(stats SessionStats) *HealthHandler {
	return &HealthHandler{stats: stats}
}

// Healthz GET /healthz
func (h *HealthHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"sessions": h.stats.SessionCount(),
	})
}
