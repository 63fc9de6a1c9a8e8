package chat

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"room_chat_server/pkg/errorx"

	"github.com/go-playground/validator/v10"
)

// 入站事件名
const (
	EventJoin                 = "join"
	EventUserJoin             = "user_join" // 与 join 等价
	EventChangeRoom           = "change_room"
	EventLoadMoreMessages     = "load_more_messages"
	EventSendMessage          = "send_message"
	EventSendFile             = "send_file"
	EventMessageReaction      = "message_reaction"
	EventMessageRead          = "message_read"
	EventTyping               = "typing"
	EventPrivateMessage       = "private_message"
	EventClearUnreadCount     = "clear_unread_count"
	EventUpdateNotifySettings = "update_notification_settings"
	EventDisconnect           = "disconnect"
	eventConnect              = "connect"
)

// Event 入站事件的封闭变体类型，只能由本包构造
type Event interface {
	Name() string
	inbound()
}

// JoinEvent 加入房间
type JoinEvent struct {
	Room string `json:"room" validate:"required,max=64"`
}

// ChangeRoomEvent 切换房间
type ChangeRoomEvent struct {
	Room string `json:"room" validate:"required,max=64"`
}

// LoadMoreEvent 加载更早的消息
type LoadMoreEvent struct {
	Room        string `json:"room" validate:"required"`
	LoadedCount int    `json:"loadedCount" validate:"min=0"`
}

// SendMessageEvent 发送文本消息
type SendMessageEvent struct {
	Text string `json:"text" validate:"required"`
}

// SendFileEvent 发送文件消息
type SendFileEvent struct {
	FileName string `json:"fileName" validate:"required,max=255"`
	FileType string `json:"fileType" validate:"max=255"`
	FileSize int64  `json:"fileSize" validate:"min=0"`
	FileURL  string `json:"fileUrl" validate:"required"`
}

// ReactionEvent 表情回应
type ReactionEvent struct {
	MessageID string `json:"messageId" validate:"required"`
	Reaction  string `json:"reaction" validate:"required,max=32"`
}

// ReadEvent 已读回执
type ReadEvent struct {
	MessageID string `json:"messageId" validate:"required"`
}

// TypingEvent 输入状态
type TypingEvent struct {
	IsTyping bool `json:"isTyping"`
}

// PrivateMessageEvent 私信，To 为目标会话 ID
type PrivateMessageEvent struct {
	To   string `json:"to" validate:"required"`
	Text string `json:"message" validate:"required"`
}

// ClearUnreadEvent 查看房间后清零未读
type ClearUnreadEvent struct {
	Room string `json:"room" validate:"required"`
}

// NotificationSettingsEvent 通知偏好
type NotificationSettingsEvent struct {
	Patch SettingsPatch
}

// DisconnectEvent 由传输层在连接断开时产生，不从线上解码
type DisconnectEvent struct{}

// connectEvent 认证成功后的隐式加入，由 Hub 产生
type connectEvent struct{}

func (JoinEvent) Name() string                 { return EventJoin }
func (ChangeRoomEvent) Name() string           { return EventChangeRoom }
func (LoadMoreEvent) Name() string             { return EventLoadMoreMessages }
func (SendMessageEvent) Name() string          { return EventSendMessage }
func (SendFileEvent) Name() string             { return EventSendFile }
func (ReactionEvent) Name() string             { return EventMessageReaction }
func (ReadEvent) Name() string                 { return EventMessageRead }
func (TypingEvent) Name() string               { return EventTyping }
func (PrivateMessageEvent) Name() string       { return EventPrivateMessage }
func (ClearUnreadEvent) Name() string          { return EventClearUnreadCount }
func (NotificationSettingsEvent) Name() string { return EventUpdateNotifySettings }
func (DisconnectEvent) Name() string           { return EventDisconnect }
func (connectEvent) Name() string              { return eventConnect }

func (JoinEvent) inbound()                 {}
func (ChangeRoomEvent) inbound()           {}
func (LoadMoreEvent) inbound()             {}
func (SendMessageEvent) inbound()          {}
func (SendFileEvent) inbound()             {}
func (ReactionEvent) inbound()             {}
func (ReadEvent) inbound()                 {}
func (TypingEvent) inbound()               {}
func (PrivateMessageEvent) inbound()       {}
func (ClearUnreadEvent) inbound()          {}
func (NotificationSettingsEvent) inbound() {}
func (DisconnectEvent) inbound()           {}
func (connectEvent) inbound()              {}

// envelope 线上格式 {"event": "...", "data": ...}
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

var validate = validator.New()

// Validator 事件载荷校验器，启动时由 handler.InitTrans 注册字段名与翻译
func Validator() *validator.Validate {
	return validate
}

type decodeFunc func(data json.RawMessage) (Event, error)

var decoders = map[string]decodeFunc{
	EventJoin:                 decodeRoom(func(room string) Event { return JoinEvent{Room: room} }),
	EventUserJoin:             decodeRoom(func(room string) Event { return JoinEvent{Room: room} }),
	EventChangeRoom:           decodeRoom(func(room string) Event { return ChangeRoomEvent{Room: room} }),
	EventClearUnreadCount:     decodeRoom(func(room string) Event { return ClearUnreadEvent{Room: room} }),
	EventLoadMoreMessages:     decodeLoadMore,
	EventSendMessage:          decodeSendMessage,
	EventSendFile:             decodeSendFile,
	EventMessageReaction:      decodeReaction,
	EventMessageRead:          decodeRead,
	EventTyping:               decodeTyping,
	EventPrivateMessage:       decodePrivate,
	EventUpdateNotifySettings: decodeSettings,
}

// DecodeEvent 将一帧 JSON 解码为入站事件
// 未知事件、缺少必填字段、类型错误都返回 ErrMalformedEvent 类错误
func DecodeEvent(raw []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, malformed(err, "invalid envelope")
	}
	decode, ok := decoders[env.Event]
	if !ok {
		return nil, malformed(nil, "unknown event %q", env.Event)
	}
	ev, err := decode(env.Data)
	if err != nil {
		return nil, err
	}
	if err := validate.Struct(ev); err != nil {
		return nil, malformed(err, "invalid %s payload", env.Event)
	}
	return ev, nil
}

func malformed(err error, format string, args ...any) error {
	if err == nil {
		return errorx.Wrapf(errorx.ErrMalformedEvent, errorx.CodeMalformedEvent, format, args...)
	}
	return errorx.Wrapf(err, errorx.CodeMalformedEvent, format, args...)
}

// isJSONString 客户端对单字段事件可能直接发送裸值
func isJSONString(data json.RawMessage) bool {
	d := bytes.TrimSpace(data)
	return len(d) > 0 && d[0] == '"'
}

func decodeRoom(build func(room string) Event) decodeFunc {
	return func(data json.RawMessage) (Event, error) {
		var room string
		if isJSONString(data) {
			if err := json.Unmarshal(data, &room); err != nil {
				return nil, malformed(err, "invalid room")
			}
		} else {
			var p struct {
				Room string `json:"room"`
			}
			if len(data) > 0 {
				if err := json.Unmarshal(data, &p); err != nil {
					return nil, malformed(err, "invalid room payload")
				}
			}
			room = p.Room
		}
		return build(strings.TrimSpace(room)), nil
	}
}

func decodeLoadMore(data json.RawMessage) (Event, error) {
	var p struct {
		Room         string `json:"room"`
		LoadedCount  *int   `json:"loadedCount"`
		CurrentCount *int   `json:"currentCount"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, malformed(err, "invalid load_more_messages payload")
	}
	ev := LoadMoreEvent{Room: p.Room}
	switch {
	case p.LoadedCount != nil:
		ev.LoadedCount = *p.LoadedCount
	case p.CurrentCount != nil:
		ev.LoadedCount = *p.CurrentCount
	default:
		return nil, malformed(nil, "load_more_messages requires loadedCount")
	}
	return ev, nil
}

func decodeSendMessage(data json.RawMessage) (Event, error) {
	if isJSONString(data) {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return nil, malformed(err, "invalid message text")
		}
		return SendMessageEvent{Text: text}, nil
	}
	var p struct {
		Text    string `json:"text"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, malformed(err, "invalid send_message payload")
	}
	if p.Text == "" {
		p.Text = p.Message
	}
	return SendMessageEvent{Text: p.Text}, nil
}

func decodeSendFile(data json.RawMessage) (Event, error) {
	var ev SendFileEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, malformed(err, "invalid send_file payload")
	}
	return ev, nil
}

// flexibleID 消息 ID 既可能是字符串也可能是数字
type flexibleID string

func (f *flexibleID) UnmarshalJSON(b []byte) error {
	if isJSONString(b) {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	if _, err := strconv.ParseInt(n.String(), 10, 64); err != nil {
		return fmt.Errorf("message id %s is not an integer", n)
	}
	*f = flexibleID(n.String())
	return nil
}

func decodeReaction(data json.RawMessage) (Event, error) {
	var p struct {
		MessageID flexibleID `json:"messageId"`
		Reaction  string     `json:"reaction"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, malformed(err, "invalid message_reaction payload")
	}
	return ReactionEvent{MessageID: string(p.MessageID), Reaction: p.Reaction}, nil
}

func decodeRead(data json.RawMessage) (Event, error) {
	d := bytes.TrimSpace(data)
	if len(d) > 0 && d[0] != '{' {
		var id flexibleID
		if err := json.Unmarshal(d, &id); err != nil {
			return nil, malformed(err, "invalid message id")
		}
		return ReadEvent{MessageID: string(id)}, nil
	}
	var p struct {
		MessageID flexibleID `json:"messageId"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, malformed(err, "invalid message_read payload")
	}
	return ReadEvent{MessageID: string(p.MessageID)}, nil
}

func decodeTyping(data json.RawMessage) (Event, error) {
	d := bytes.TrimSpace(data)
	if len(d) > 0 && d[0] != '{' {
		var typing bool
		if err := json.Unmarshal(d, &typing); err != nil {
			return nil, malformed(err, "invalid typing flag")
		}
		return TypingEvent{IsTyping: typing}, nil
	}
	var p struct {
		IsTyping *bool `json:"isTyping"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, malformed(err, "invalid typing payload")
	}
	if p.IsTyping == nil {
		return nil, malformed(nil, "typing requires isTyping")
	}
	return TypingEvent{IsTyping: *p.IsTyping}, nil
}

func decodePrivate(data json.RawMessage) (Event, error) {
	var ev PrivateMessageEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, malformed(err, "invalid private_message payload")
	}
	return ev, nil
}

func decodeSettings(data json.RawMessage) (Event, error) {
	var patch SettingsPatch
	if err := json.Unmarshal(data, &patch); err != nil {
		return nil, malformed(err, "invalid notification settings")
	}
	return NotificationSettingsEvent{Patch: patch}, nil
}
