// Package service 定义业务层接口
// 本文件定义所有 Service 接口，供 Handler 层调用
package service

import (
	"room_chat_server/internal/dto/request"
	"room_chat_server/internal/dto/respond"
	"room_chat_server/internal/model"
)

// AuthService 认证业务接口
type AuthService interface {
	// Login 展示名登录，签发凭证
	Login(req request.LoginRequest) (*respond.LoginRespond, error)
	// Verify 校验凭证
	Verify(token string) (*respond.VerifyRespond, error)
	// Authenticate 校验凭证并返回展示名
	Authenticate(token string) (string, error)
}

// ChatRoomService 房间查询与公告接口
type ChatRoomService interface {
	// ListRooms 公共房间列表
	ListRooms() *respond.RoomListRespond
	// GetRoomMessages 房间当前消息日志
	GetRoomMessages(room string) (*respond.RoomMessagesRespond, error)
	// GetRoomMembers 房间当前成员
	GetRoomMembers(room string) (*respond.RoomMembersRespond, error)
	// Announce 发布系统公告
	Announce(room, text string) (*model.Message, error)
}
