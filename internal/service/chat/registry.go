// Package chat 实现了聊天系统的核心协调引擎
// registry.go
// 核心职责：会话注册表，连接 -> (用户名, 当前房间, 状态)
package chat

import (
	"time"

	"room_chat_server/internal/model"

	"github.com/google/uuid"
)

// Registry 会话注册表
// 不加锁，由 Engine 的互斥锁统一保护
type Registry struct {
	sessions map[string]*model.Session
	order    []string // 注册顺序，保证遍历结果稳定
	newID    func() string
	now      func() time.Time
}

// NewRegistry 创建注册表
func NewRegistry(newID func() string, now func() time.Time) *Registry {
	if newID == nil {
		newID = uuid.NewString
	}
	if now == nil {
		now = time.Now
	}
	return &Registry{
		sessions: make(map[string]*model.Session),
		newID:    newID,
		now:      now,
	}
}

// Register 为通过认证的身份创建会话，状态为 authenticating，尚未加入任何房间
func (r *Registry) Register(username string) *model.Session {
	s := &model.Session{
		ID:          r.newID(),
		Username:    username,
		State:       model.StateAuthenticating,
		ConnectedAt: r.now(),
	}
	r.sessions[s.ID] = s
	r.order = append(r.order, s.ID)
	return s
}

// Lookup 查找会话
func (r *Registry) Lookup(sessionID string) (*model.Session, bool) {
	s, ok := r.sessions[sessionID]
	return s, ok
}

// SetRoom 更新会话当前房间
func (r *Registry) SetRoom(sessionID, room string) {
	if s, ok := r.sessions[sessionID]; ok {
		s.Room = room
	}
}

// remove 仅删除注册表条目；完整的销毁流程见 Engine.destroy
func (r *Registry) remove(sessionID string) {
	s, ok := r.sessions[sessionID]
	if !ok {
		return
	}
	s.State = model.StateDisconnected
	s.Room = ""
	delete(r.sessions, sessionID)
	for i, id := range r.order {
		if id == sessionID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Each 按注册顺序遍历所有会话
func (r *Registry) Each(fn func(s *model.Session)) {
	for _, id := range r.order {
		fn(r.sessions[id])
	}
}

// Len 在线会话数
func (r *Registry) Len() int {
	return len(r.sessions)
}

// Viewing 会话当前是否正在查看该房间
// 未读计数与通知都只依赖这一个判定
func (r *Registry) Viewing(sessionID, room string) bool {
	s, ok := r.sessions[sessionID]
	return ok && s.State == model.StateJoined && s.Room == room
}
