package model

import "time"

// SessionState 会话状态机
// unauthenticated -> authenticating -> joined(room) -> disconnected
type SessionState int

const (
	StateUnauthenticated SessionState = iota
	StateAuthenticating
	StateJoined
	StateDisconnected
)

func (s SessionState) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticating:
		return "authenticating"
	case StateJoined:
		return "joined"
	case StateDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// Session 一条已认证的长连接及其临时状态
type Session struct {
	ID          string       `json:"id"`
	Username    string       `json:"username"`
	Room        string       `json:"room"`
	State       SessionState `json:"-"`
	ConnectedAt time.Time    `json:"connectedAt"`
}

// Member 房间成员列表中的一项
type Member struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Room     string `json:"room"`
}
