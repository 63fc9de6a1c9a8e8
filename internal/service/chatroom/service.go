// Package chatroom 提供房间查询与系统公告
// 只读查询直接读取引擎内存状态的快照
package chatroom

import (
	"strings"

	"room_chat_server/internal/dto/respond"
	"room_chat_server/internal/model"
	"room_chat_server/pkg/errorx"
)

// Engine 房间服务依赖的引擎能力，由 *chat.Engine 实现
type Engine interface {
	Rooms() []string
	DefaultRoom() string
	RoomMessages(room string) ([]model.Message, error)
	RoomMembers(room string) ([]model.Member, error)
	TypingUsers(room string) ([]string, error)
	Announce(room, text string) (model.Message, error)
}

// Service 房间服务实现
type Service struct {
	engine Engine
}

// NewChatRoomService 构造函数
func NewChatRoomService(engine Engine) *Service {
	return &Service{engine: engine}
}

// ListRooms 公共房间列表
func (s *Service) ListRooms() *respond.RoomListRespond {
	return &respond.RoomListRespond{
		Rooms:       s.engine.Rooms(),
		DefaultRoom: s.engine.DefaultRoom(),
	}
}

// GetRoomMessages 房间当前日志，按时间正序
func (s *Service) GetRoomMessages(room string) (*respond.RoomMessagesRespond, error) {
	msgs, err := s.engine.RoomMessages(room)
	if err != nil {
		return nil, err
	}
	return &respond.RoomMessagesRespond{Room: room, Total: len(msgs), Messages: msgs}, nil
}

// GetRoomMembers 房间当前成员
func (s *Service) GetRoomMembers(room string) (*respond.RoomMembersRespond, error) {
	users, err := s.engine.RoomMembers(room)
	if err != nil {
		return nil, err
	}
	typing, err := s.engine.TypingUsers(room)
	if err != nil {
		return nil, err
	}
	return &respond.RoomMembersRespond{Room: room, Users: users, Typing: typing}, nil
}

// Announce 以系统消息写入房间并广播
func (s *Service) Announce(room, text string) (*model.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "announcement text is required")
	}
	msg, err := s.engine.Announce(room, text)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}
