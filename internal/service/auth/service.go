// Package auth 提供认证相关的业务逻辑
// 登录只签发携带展示名的凭证，不涉及账号体系
package auth

import (
	"strings"

	"room_chat_server/internal/dto/request"
	"room_chat_server/internal/dto/respond"
	"room_chat_server/pkg/errorx"
	"room_chat_server/pkg/util/jwt"
)

// Service 认证服务实现
type Service struct{}

// NewAuthService 创建认证服务实例
func NewAuthService() *Service {
	return &Service{}
}

// Login 为展示名签发 24 小时有效的凭证
func (s *Service) Login(req request.LoginRequest) (*respond.LoginRespond, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "username is required")
	}
	token, err := jwt.GenerateToken(username)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.CodeServerBusy, "generate token failed")
	}
	return &respond.LoginRespond{Success: true, Token: token, Username: username}, nil
}

// Verify 校验凭证并返回其中的展示名
func (s *Service) Verify(token string) (*respond.VerifyRespond, error) {
	username, err := s.Authenticate(token)
	if err != nil {
		return nil, err
	}
	return &respond.VerifyRespond{Success: true, Username: username}, nil
}

// Authenticate WebSocket 握手与受保护接口共用的凭证校验
func (s *Service) Authenticate(token string) (string, error) {
	claims, err := jwt.ParseToken(token)
	if err != nil {
		return "", err
	}
	return claims.Username, nil
}
