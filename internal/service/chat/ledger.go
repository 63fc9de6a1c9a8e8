package chat

import (
	"room_chat_server/internal/model"
	"room_chat_server/pkg/errorx"
)

// ledgerEntry 消息与所属房间
type ledgerEntry struct {
	msg  *model.Message
	room string
}

// Ledger 表情回应与已读回执账本
// 以消息 ID 为键直接索引到消息及其房间，消息被淘汰时同步失效，
// 因此被淘汰消息的回应和回执不可再达
type Ledger struct {
	index map[string]ledgerEntry
}

// NewLedger 创建账本
func NewLedger() *Ledger {
	return &Ledger{index: make(map[string]ledgerEntry)}
}

// Track 登记新消息，readBy 以发送者为种子
func (l *Ledger) Track(msg *model.Message, room string) {
	if msg.Reactions == nil {
		msg.Reactions = make(map[string]string)
	}
	if msg.SenderID != "" && !msg.HasRead(msg.SenderID) {
		msg.ReadBy = append(msg.ReadBy, msg.SenderID)
	}
	if msg.ReadBy == nil {
		msg.ReadBy = []string{}
	}
	l.index[msg.ID] = ledgerEntry{msg: msg, room: room}
}

// Forget 消息被淘汰时调用
func (l *Ledger) Forget(messageID string) {
	delete(l.index, messageID)
}

// Locate 返回消息及所属房间
func (l *Ledger) Locate(messageID string) (*model.Message, string, bool) {
	e, ok := l.index[messageID]
	if !ok {
		return nil, "", false
	}
	return e.msg, e.room, true
}

// Len 账本中可达的消息数
func (l *Ledger) Len() int {
	return len(l.index)
}

func notFound(messageID string) error {
	return errorx.Wrapf(errorx.ErrNotFound, errorx.CodeNotFound, "message %s not found", messageID)
}

// React 设置、取消或替换会话对消息的表情
// 无回应 -> 设置；相同表情 -> 取消；不同表情 -> 替换
// 返回更新后完整回应映射的副本和消息所属房间
func (l *Ledger) React(messageID, sessionID, symbol string) (map[string]string, string, error) {
	e, ok := l.index[messageID]
	if !ok {
		return nil, "", notFound(messageID)
	}
	if current, ok := e.msg.Reactions[sessionID]; ok && current == symbol {
		delete(e.msg.Reactions, sessionID)
	} else {
		e.msg.Reactions[sessionID] = symbol
	}
	out := make(map[string]string, len(e.msg.Reactions))
	for k, v := range e.msg.Reactions {
		out[k] = v
	}
	return out, e.room, nil
}

// MarkRead 幂等地把会话加入 readBy，changed 表示是否有变化
func (l *Ledger) MarkRead(messageID, sessionID string) (readBy []string, room string, changed bool, err error) {
	e, ok := l.index[messageID]
	if !ok {
		return nil, "", false, notFound(messageID)
	}
	if !e.msg.HasRead(sessionID) {
		e.msg.ReadBy = append(e.msg.ReadBy, sessionID)
		changed = true
	}
	return append([]string(nil), e.msg.ReadBy...), e.room, changed, nil
}
