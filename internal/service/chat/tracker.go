package chat

import "room_chat_server/internal/model"

// Tracker 未读计数与通知
// unread: 会话 -> 房间 -> 计数，只有 Clear 会把计数归零
// feeds:  会话 -> 最近 capacity 条通知
type Tracker struct {
	unread   map[string]map[string]int
	feeds    map[string][]model.Notification
	settings map[string]model.NotificationSettings
	capacity int
}

// NewTracker 创建 Tracker，capacity 为每个会话保留的通知数
func NewTracker(capacity int) *Tracker {
	if capacity <= 0 {
		capacity = 1
	}
	return &Tracker{
		unread:   make(map[string]map[string]int),
		feeds:    make(map[string][]model.Notification),
		settings: make(map[string]model.NotificationSettings),
		capacity: capacity,
	}
}

// Increment 计数加一并返回新值
func (t *Tracker) Increment(sessionID, room string) int {
	counts, ok := t.unread[sessionID]
	if !ok {
		counts = make(map[string]int)
		t.unread[sessionID] = counts
	}
	counts[room]++
	return counts[room]
}

// Clear 房间被查看后归零
func (t *Tracker) Clear(sessionID, room string) {
	if counts, ok := t.unread[sessionID]; ok {
		counts[room] = 0
	}
}

// Count 当前计数
func (t *Tracker) Count(sessionID, room string) int {
	return t.unread[sessionID][room]
}

// Push 追加通知，超出容量时丢弃最旧的
func (t *Tracker) Push(sessionID string, n model.Notification) {
	feed := append(t.feeds[sessionID], n)
	if over := len(feed) - t.capacity; over > 0 {
		feed = append([]model.Notification(nil), feed[over:]...)
	}
	t.feeds[sessionID] = feed
}

// Feed 返回通知副本，最新的在最后
func (t *Tracker) Feed(sessionID string) []model.Notification {
	return append([]model.Notification(nil), t.feeds[sessionID]...)
}

// MarkRoomRead 将该房间的通知标记为已读
func (t *Tracker) MarkRoomRead(sessionID, room string) {
	for i := range t.feeds[sessionID] {
		if t.feeds[sessionID][i].Room == room {
			t.feeds[sessionID][i].Read = true
		}
	}
}

// SettingsPatch 通知偏好的部分更新，nil 字段保持不变
type SettingsPatch struct {
	Sound   *bool `json:"sound"`
	Browser *bool `json:"browser"`
	Desktop *bool `json:"desktop"`
}

// UpdateSettings 合并偏好并返回合并结果
func (t *Tracker) UpdateSettings(sessionID string, patch SettingsPatch) model.NotificationSettings {
	cur := t.Settings(sessionID)
	if patch.Sound != nil {
		cur.Sound = *patch.Sound
	}
	if patch.Browser != nil {
		cur.Browser = *patch.Browser
	}
	if patch.Desktop != nil {
		cur.Desktop = *patch.Desktop
	}
	t.settings[sessionID] = cur
	return cur
}

// Settings 未设置过时返回默认偏好
func (t *Tracker) Settings(sessionID string) model.NotificationSettings {
	if s, ok := t.settings[sessionID]; ok {
		return s
	}
	return model.DefaultNotificationSettings()
}

// Forget 会话销毁时清理全部状态
func (t *Tracker) Forget(sessionID string) {
	delete(t.unread, sessionID)
	delete(t.feeds, sessionID)
	delete(t.settings, sessionID)
}

// tracked 是否仍持有该会话的任何状态
func (t *Tracker) tracked(sessionID string) bool {
	_, a := t.unread[sessionID]
	_, b := t.feeds[sessionID]
	_, c := t.settings[sessionID]
	return a || b || c
}
