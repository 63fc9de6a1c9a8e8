package middleware

import (
	"net/http"

	"room_chat_server/pkg/constants"
	"room_chat_server/pkg/errorx"
	"room_chat_server/pkg/util/jwt"

	"github.com/gin-gonic/gin"
)

// JWTAuth JWT 认证中间件
// 验证 Bearer 凭证并将展示名存入上下文
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. 从 Header 获取 Bearer Token
		token, ok := jwt.BearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code": errorx.CodeUnauthorized,
				"msg":  "Authentication error: No token provided",
				"data": nil,
			})
			return
		}

		// 2. 验证 Token
		claims, err := jwt.ParseToken(token)
		if err != nil {
			msg := errorx.ErrUnauthorized.Msg
			if codeErr, ok := err.(*errorx.CodeError); ok {
				msg = codeErr.Msg
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code": errorx.CodeUnauthorized,
				"msg":  msg,
				"data": nil,
			})
			return
		}

		// 3. 将展示名存入上下文，供后续 Handler 使用
		c.Set(constants.CTX_USERNAME_KEY, claims.Username)
		c.Next()
	}
}
