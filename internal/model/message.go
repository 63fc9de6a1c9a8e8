// Package model 定义聊天核心的领域模型
// 本文件定义消息模型；所有状态仅保存在内存中，进程重启即清空
package model

import "time"

// MessageKind 消息类型
type MessageKind string

const (
	KindText    MessageKind = "text"
	KindFile    MessageKind = "file"
	KindSystem  MessageKind = "system"
	KindPrivate MessageKind = "private"
)

// FileInfo 文件消息的元数据，内容本身只以 URL 引用
type FileInfo struct {
	Name     string `json:"fileName"`
	MimeType string `json:"fileType"`
	Size     int64  `json:"fileSize"`
	URL      string `json:"fileUrl"`
}

// Message 聊天消息
// 创建后只有 ReadBy 和 Reactions 会被修改（由 Ledger 原地更新），其余字段不可变
type Message struct {
	// ID 雪花算法生成，单进程内单调递增
	ID   string      `json:"id"`
	Kind MessageKind `json:"type"`

	// SenderID 发送者会话 ID，系统消息为空
	SenderID string `json:"senderId,omitempty"`
	Sender   string `json:"sender"`

	// Room 所属房间，私聊消息为空
	Room      string    `json:"room,omitempty"`
	Timestamp time.Time `json:"timestamp"`

	Text      string    `json:"message,omitempty"`
	File      *FileInfo `json:"file,omitempty"`
	IsPrivate bool      `json:"isPrivate,omitempty"`

	// ReadBy 已读会话 ID，创建时包含发送者本人
	ReadBy []string `json:"readBy"`
	// Reactions 会话 ID -> 表情
	Reactions map[string]string `json:"reactions"`
}

// Snapshot 深拷贝一份消息，出站事件只携带快照，避免后续原地修改影响已投递内容
func (m *Message) Snapshot() Message {
	cp := *m
	cp.ReadBy = append([]string(nil), m.ReadBy...)
	cp.Reactions = make(map[string]string, len(m.Reactions))
	for k, v := range m.Reactions {
		cp.Reactions[k] = v
	}
	if m.File != nil {
		f := *m.File
		cp.File = &f
	}
	return cp
}

// HasRead 判断会话是否已读
func (m *Message) HasRead(sessionID string) bool {
	for _, id := range m.ReadBy {
		if id == sessionID {
			return true
		}
	}
	return false
}

// Snapshots 批量拷贝
func Snapshots(msgs []*Message) []Message {
	out := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.Snapshot())
	}
	return out
}
