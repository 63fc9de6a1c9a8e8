package respond

// LoginRespond 登录响应
type LoginRespond struct {
	Success  bool   `json:"success"`
	Token    string `json:"token"`
	Username string `json:"username"`
}

// VerifyRespond 凭证校验响应
type VerifyRespond struct {
	Success  bool   `json:"success"`
	Username string `json:"username"`
}
