package model

import "time"

// NotificationKind 通知类型
type NotificationKind string

const (
	NotifyMessage NotificationKind = "message"
	NotifyFile    NotificationKind = "file"
	NotifyPrivate NotificationKind = "private"
	NotifySystem  NotificationKind = "system"
)

// Notification 会话未聚焦房间内发生事件时产生的通知
type Notification struct {
	ID        string           `json:"id"`
	Message   string           `json:"message"`
	Room      string           `json:"room"` // 房间名；私聊为 "private"
	Sender    string           `json:"sender"`
	Kind      NotificationKind `json:"type"`
	Timestamp time.Time        `json:"timestamp"`
	Read      bool             `json:"read"`
}

// NotificationSettings 客户端通知偏好，服务端只做镜像保存
type NotificationSettings struct {
	Sound   bool `json:"sound"`
	Browser bool `json:"browser"`
	Desktop bool `json:"desktop"`
}

// DefaultNotificationSettings 与客户端初始值保持一致
func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{Sound: true, Browser: true, Desktop: false}
}
