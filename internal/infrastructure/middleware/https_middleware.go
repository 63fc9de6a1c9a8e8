package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
	"go.uber.org/zap"
)

// TlsHandler HTTP -> HTTPS 重定向并附加基础安全响应头
// 由 Nginx 终止 TLS 时不启用（mainConfig.tlsRedirect = false）
func TlsHandler(host string, port int, dev bool) gin.HandlerFunc {
	// 在返回函数之前初始化，避免每次请求都重复创建对象
	secureMiddleware := secure.New(secure.Options{
		SSLRedirect:        true,
		SSLHost:            host + ":" + strconv.Itoa(port),
		FrameDeny:          true,
		ContentTypeNosniff: true,
		IsDevelopment:      dev,
	})

	return func(c *gin.Context) {
		if err := secureMiddleware.Process(c.Writer, c.Request); err != nil {
			// 中间件里不能用 Fatal，记录日志并终止当前请求
			zap.L().Error("TLS redirection failed", zap.Error(err))
			c.Abort()
			return
		}
		// 已经重定向时不再进入后续 handler
		if status := c.Writer.Status(); status > 300 && status < 399 {
			c.Abort()
			return
		}
		c.Next()
	}
}
