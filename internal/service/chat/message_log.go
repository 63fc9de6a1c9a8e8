package chat

import "room_chat_server/internal/model"

// MessageLog 单个房间的有界消息日志，按插入顺序保存
// 超出容量时严格按 FIFO 淘汰最旧的一条
type MessageLog struct {
	capacity int
	entries  []*model.Message
}

// NewMessageLog 创建容量为 capacity 的日志
func NewMessageLog(capacity int) *MessageLog {
	if capacity <= 0 {
		capacity = 1
	}
	return &MessageLog{capacity: capacity}
}

// Append 追加一条消息；超出容量时返回被淘汰的消息，调用方负责级联清理账本
func (l *MessageLog) Append(msg *model.Message) (evicted *model.Message) {
	l.entries = append(l.entries, msg)
	if len(l.entries) > l.capacity {
		evicted = l.entries[0]
		l.entries[0] = nil
		l.entries = l.entries[1:]
	}
	return evicted
}

// Len 当前条数
func (l *MessageLog) Len() int {
	return len(l.entries)
}

// Tail 返回最新的 n 条，按时间正序
func (l *MessageLog) Tail(n int) []*model.Message {
	if n <= 0 {
		return nil
	}
	start := len(l.entries) - n
	if start < 0 {
		start = 0
	}
	return append([]*model.Message(nil), l.entries[start:]...)
}

// Page 返回已加载前缀之前的至多 size 条消息
// loaded 为客户端已加载的条数；日志在两次请求之间被淘汰时 loaded 可能越界，此时钳制到 [0, Len]
// hasMore 表示返回窗口之前是否还有更早的消息
func (l *MessageLog) Page(loaded, size int) (msgs []*model.Message, hasMore bool) {
	total := len(l.entries)
	if loaded < 0 {
		loaded = 0
	}
	if loaded > total {
		loaded = total
	}
	if size <= 0 {
		return nil, total-loaded > 0
	}
	end := total - loaded
	start := end - size
	if start < 0 {
		start = 0
	}
	return append([]*model.Message(nil), l.entries[start:end]...), start > 0
}

// All 返回整个日志的副本
func (l *MessageLog) All() []*model.Message {
	return append([]*model.Message(nil), l.entries...)
}
