package respond

import "room_chat_server/internal/model"

// RoomListRespond 公共房间列表
type RoomListRespond struct {
	Rooms       []string `json:"rooms"`
	DefaultRoom string   `json:"defaultRoom"`
}

// RoomMessagesRespond 房间当前日志
type RoomMessagesRespond struct {
	Room     string          `json:"room"`
	Total    int             `json:"total"`
	Messages []model.Message `json:"messages"`
}

// RoomMembersRespond 房间当前成员与输入中用户
type RoomMembersRespond struct {
	Room   string         `json:"room"`
	Users  []model.Member `json:"users"`
	Typing []string       `json:"typing"`
}
