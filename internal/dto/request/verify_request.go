package request

// VerifyRequest 凭证校验请求
type VerifyRequest struct {
	Token string `json:"token" binding:"required"`
}
