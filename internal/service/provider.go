// Package service 提供业务逻辑层
// 本文件实现 Service 层的依赖注入和聚合
package service

import (
	"room_chat_server/internal/service/auth"
	"room_chat_server/internal/service/chatroom"
)

// Services 聚合所有 Service 实例
// 作为依赖注入的入口，Handler 层通过此结构访问各个 Service
type Services struct {
	Auth     AuthService     // 认证 Service
	ChatRoom ChatRoomService // 房间 Service
}

// NewServices 创建并注入所有 Service 实例
// engine: 聊天引擎，提供房间查询与公告
func NewServices(engine chatroom.Engine) *Services {
	return &Services{
		Auth:     auth.NewAuthService(),
		ChatRoom: chatroom.NewChatRoomService(engine),
	}
}
