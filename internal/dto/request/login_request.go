package request

// LoginRequest 展示名登录请求
// 使用位置:
//   - internal/handler/auth_handler.go: Login
type LoginRequest struct {
	Username string `json:"username" binding:"required,max=32"`
}
