package jwt

import (
	"errors"
	"strings"
	"time"

	"room_chat_server/pkg/errorx"

	"github.com/golang-jwt/jwt/v5"
)

// Config JWT 配置
type Config struct {
	Secret      string
	TokenExpiry time.Duration // 登录凭证有效期
}

// 全局配置，由 Init 函数初始化
var jwtConfig *Config

const (
	issuer       = "room_chat"
	tokenSubject = "access_token"
)

// Init 初始化 JWT 配置
func Init(secret string, expiryHours int) {
	if expiryHours <= 0 {
		expiryHours = 24
	}
	jwtConfig = &Config{
		Secret:      secret,
		TokenExpiry: time.Duration(expiryHours) * time.Hour,
	}
}

// Claims 自定义 JWT 声明
// 凭证只携带展示名，用户名不要求全局唯一
type Claims struct {
	Username  string `json:"username"`
	LoginTime int64  `json:"login_time"`
	jwt.RegisteredClaims
}

// GenerateToken 为展示名签发凭证
func GenerateToken(username string) (string, error) {
	if jwtConfig == nil {
		return "", errors.New("jwt not initialized")
	}
	now := time.Now()
	claims := Claims{
		Username:  username,
		LoginTime: now.UnixMilli(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(jwtConfig.TokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   tokenSubject,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtConfig.Secret))
}

// ParseToken 解析并验证凭证
// 缺失、签名错误、过期都返回 errorx.ErrUnauthorized 类错误
func ParseToken(tokenString string) (*Claims, error) {
	if jwtConfig == nil {
		return nil, errorx.Wrap(errors.New("jwt not initialized"), errorx.CodeUnauthorized, "Authentication error")
	}
	if tokenString == "" {
		return nil, errorx.New(errorx.CodeUnauthorized, "Authentication error: No token provided")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(jwtConfig.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errorx.Wrap(err, errorx.CodeUnauthorized, "Authentication error: Token expired")
		}
		return nil, errorx.Wrap(err, errorx.CodeUnauthorized, "Authentication error: Invalid token")
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject != tokenSubject || strings.TrimSpace(claims.Username) == "" {
		return nil, errorx.New(errorx.CodeUnauthorized, "Authentication error: Invalid token")
	}
	return claims, nil
}

// BearerToken 从 Authorization 头中取出 Bearer 凭证
func BearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
