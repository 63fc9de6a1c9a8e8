package websocket

import "room_chat_server/internal/service/chat"

// Broker 网关依赖的事件代理
// 用于解耦 websocket 包对 Hub 具体实现的依赖
type Broker interface {
	// Connect 注册已认证的连接，返回会话 ID
	Connect(username string, conn chat.Conn) (string, error)
	// Submit 投递入站事件，代理已关闭时返回 false
	Submit(sessionID string, ev chat.Event) bool
}

var _ chat.Conn = (*Client)(nil)
