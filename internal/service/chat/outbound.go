package chat

import "room_chat_server/internal/model"

// 出站事件名
const (
	OutUserList           = "user_list"
	OutUserJoined         = "user_joined"
	OutUserLeft           = "user_left"
	OutRoomMessages       = "room_messages"
	OutMoreMessagesLoaded = "more_messages_loaded"
	OutPaginationInfo     = "pagination_info"
	OutReceiveMessage     = "receive_message"
	OutPrivateMessage     = "private_message"
	OutReactionUpdate     = "message_reaction_update"
	OutReadReceiptUpdate  = "read_receipt_update"
	OutUnreadCountUpdate  = "unread_count_update"
	OutNewMessageNotify   = "new_message_notification"
	OutTypingUsers        = "typing_users"
)

// Outbound 出站事件，序列化为 {"event": ..., "data": ...}
type Outbound struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// PaginationInfo 分页信息
type PaginationInfo struct {
	HasMore bool `json:"hasMore"`
	Total   int  `json:"total"`
	Loaded  int  `json:"loaded"`
}

// UnreadUpdate 单个会话在某房间的未读数
type UnreadUpdate struct {
	Room  string `json:"room"`
	Count int    `json:"count"`
}

// ReactionUpdate 消息的完整回应映射
type ReactionUpdate struct {
	MessageID string            `json:"messageId"`
	Reactions map[string]string `json:"reactions"`
}

// ReadReceiptUpdate 消息的完整已读集合
type ReadReceiptUpdate struct {
	MessageID string   `json:"messageId"`
	ReadBy    []string `json:"readBy"`
}

// UserEvent 用户加入/离开
type UserEvent struct {
	Username string `json:"username"`
	ID       string `json:"id"`
	Room     string `json:"room,omitempty"`
}

// Outbox 出站投递，实现必须非阻塞：发送缓冲区已满时直接丢弃
type Outbox interface {
	Deliver(sessionID string, out Outbound)
}

// Journal 消息追加后的旁路记录，实现必须非阻塞
type Journal interface {
	Record(msg model.Message)
}

type nopJournal struct{}

func (nopJournal) Record(model.Message) {}
