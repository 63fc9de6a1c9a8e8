package chat

import (
	"fmt"
	"sync"
	"time"

	"room_chat_server/internal/infrastructure/metrics"
	"room_chat_server/internal/model"
	"room_chat_server/pkg/constants"
	"room_chat_server/pkg/errorx"
	"room_chat_server/pkg/util/snowflake"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Options 引擎参数，零值字段使用默认值
type Options struct {
	Rooms                []string
	DefaultRoom          string
	HistoryCapacity      int
	PageSize             int
	NotificationCapacity int

	NewMessageID      func() string
	NewSessionID      func() string
	NewNotificationID func() string
	Now               func() time.Time

	Journal Journal
}

func (o *Options) applyDefaults() {
	if len(o.Rooms) == 0 {
		o.Rooms = []string{"general", "random", "tech"}
	}
	if o.DefaultRoom == "" {
		o.DefaultRoom = o.Rooms[0]
	}
	if o.HistoryCapacity <= 0 {
		o.HistoryCapacity = constants.HISTORY_CAPACITY
	}
	if o.PageSize <= 0 {
		o.PageSize = constants.PAGE_SIZE
	}
	if o.NotificationCapacity <= 0 {
		o.NotificationCapacity = constants.NOTIFICATION_CAPACITY
	}
	if o.NewMessageID == nil {
		o.NewMessageID = snowflake.GenerateIDString
	}
	if o.NewSessionID == nil {
		o.NewSessionID = uuid.NewString
	}
	if o.NewNotificationID == nil {
		o.NewNotificationID = uuid.NewString
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Journal == nil {
		o.Journal = nopJournal{}
	}
}

// Engine 房间/会话/消息协调引擎
// 所有共享状态只能通过 Engine 的方法访问，一把互斥锁保证每个事件的状态修改与出站投递作为整体完成
type Engine struct {
	mu sync.Mutex

	opts     Options
	registry *Registry
	rooms    *RoomStore
	ledger   *Ledger
	tracker  *Tracker
	out      Outbox
}

// NewEngine 创建引擎，默认房间不在房间列表中时自动补入
func NewEngine(opts Options, out Outbox) *Engine {
	opts.applyDefaults()
	rooms := opts.Rooms
	if !contains(rooms, opts.DefaultRoom) {
		rooms = append([]string{opts.DefaultRoom}, rooms...)
	}
	return &Engine{
		opts:     opts,
		registry: NewRegistry(opts.NewSessionID, opts.Now),
		rooms:    NewRoomStore(rooms, opts.HistoryCapacity),
		ledger:   NewLedger(),
		tracker:  NewTracker(opts.NotificationCapacity),
		out:      out,
	}
}

// Register 为已认证的用户名创建会话（authenticating 状态）
// 随后提交 connectEvent 完成隐式加入默认房间
func (e *Engine) Register(username string) model.Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.registry.Register(username)
	metrics.SessionsConnected.Inc()
	zap.L().Debug("session registered", zap.String("session", s.ID), zap.String("username", username))
	return *s
}

// Handle 路由入口：每个入站事件在锁内完整处理（状态修改 + 全部出站事件）
func (e *Engine) Handle(sessionID string, ev Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.registry.Lookup(sessionID)
	if !ok {
		return errorx.Wrapf(errorx.ErrSessionClosed, errorx.CodeSessionClosed, "session %s is closed", sessionID)
	}
	metrics.InboundEvents.WithLabelValues(ev.Name()).Inc()

	switch ev.(type) {
	case DisconnectEvent:
		e.destroy(s)
		return nil
	case connectEvent:
		if s.State != model.StateAuthenticating {
			return errorx.Newf(errorx.CodeMalformedEvent, "session %s already joined", s.ID)
		}
		return e.join(s, e.opts.DefaultRoom)
	}

	if s.State != model.StateJoined {
		return errorx.Wrapf(errorx.ErrSessionClosed, errorx.CodeSessionClosed,
			"session %s is %s", s.ID, s.State)
	}

	switch ev := ev.(type) {
	case JoinEvent:
		return e.join(s, ev.Room)
	case ChangeRoomEvent:
		return e.join(s, ev.Room)
	case LoadMoreEvent:
		return e.loadMore(s, ev)
	case SendMessageEvent:
		_, err := e.post(s, &model.Message{Kind: model.KindText, Text: ev.Text})
		return err
	case SendFileEvent:
		_, err := e.post(s, &model.Message{Kind: model.KindFile, File: &model.FileInfo{
			Name:     ev.FileName,
			MimeType: ev.FileType,
			Size:     ev.FileSize,
			URL:      ev.FileURL,
		}})
		return err
	case ReactionEvent:
		return e.react(s, ev)
	case ReadEvent:
		return e.markRead(s, ev)
	case TypingEvent:
		return e.typing(s, ev.IsTyping)
	case PrivateMessageEvent:
		return e.private(s, ev)
	case ClearUnreadEvent:
		return e.clearUnread(s, ev.Room)
	case NotificationSettingsEvent:
		e.tracker.UpdateSettings(s.ID, ev.Patch)
		return nil
	default:
		return errorx.Newf(errorx.CodeMalformedEvent, "unsupported event %s", ev.Name())
	}
}

// join 离开当前房间后加入目标房间，change_room 与 join 共用
func (e *Engine) join(s *model.Session, name string) error {
	target, err := e.rooms.Public(name)
	if err != nil {
		return err
	}

	stoppedTyping := false
	for _, d := range e.rooms.LeaveAll(s.ID) {
		if d.Room == target {
			stoppedTyping = d.WasTyping
			continue
		}
		e.broadcast(d.Room.audience(), OutUserList, e.memberList(d.Room))
		if d.WasTyping {
			e.broadcast(d.Room.audience(), OutTypingUsers, e.typingNames(d.Room))
		}
	}

	e.rooms.Enter(target, s.ID)
	e.registry.SetRoom(s.ID, target.Name)
	s.State = model.StateJoined

	audience := target.audience()
	e.broadcast(audience, OutUserList, e.memberList(target))
	e.broadcast(audience, OutUserJoined, UserEvent{Username: s.Username, ID: s.ID, Room: target.Name})
	// 重新进入当前房间同样会清除输入状态
	if stoppedTyping {
		e.broadcast(audience, OutTypingUsers, e.typingNames(target))
	}

	recent := target.log.Tail(e.opts.PageSize)
	e.emit(s.ID, OutRoomMessages, model.Snapshots(recent))
	e.emit(s.ID, OutPaginationInfo, PaginationInfo{
		HasMore: target.log.Len() > len(recent),
		Total:   target.log.Len(),
		Loaded:  len(recent),
	})
	zap.L().Debug("session joined room", zap.String("session", s.ID), zap.String("room", target.Name))
	return nil
}

// loadMore 按客户端已加载条数向前翻页
func (e *Engine) loadMore(s *model.Session, ev LoadMoreEvent) error {
	r, err := e.readableRoom(s, ev.Room)
	if err != nil {
		return err
	}
	total := r.log.Len()
	loaded := ev.LoadedCount
	if loaded > total {
		loaded = total
	}
	page, hasMore := r.log.Page(loaded, e.opts.PageSize)
	e.emit(s.ID, OutMoreMessagesLoaded, model.Snapshots(page))
	e.emit(s.ID, OutPaginationInfo, PaginationInfo{
		HasMore: hasMore,
		Total:   total,
		Loaded:  loaded + len(page),
	})
	return nil
}

// readableRoom 公共房间，或会话参与的私聊房间
func (e *Engine) readableRoom(s *model.Session, name string) (*Room, error) {
	r, ok := e.rooms.Get(name)
	if !ok || (r.Private && !contains(r.Participants, s.ID)) {
		return nil, errorx.Wrapf(errorx.ErrUnknownRoom, errorx.CodeUnknownRoom, "room %q not found", name)
	}
	return r, nil
}

// post 向会话当前房间追加消息并扇出
func (e *Engine) post(s *model.Session, msg *model.Message) (model.Message, error) {
	r, err := e.rooms.Public(s.Room)
	if err != nil {
		return model.Message{}, err
	}
	msg.SenderID = s.ID
	msg.Sender = s.Username

	kind, text := model.NotifyMessage, fmt.Sprintf("New message in #%s from %s", r.Name, s.Username)
	if msg.Kind == model.KindFile {
		kind, text = model.NotifyFile, fmt.Sprintf("%s shared a file in #%s", s.Username, r.Name)
	}
	snap := e.publish(r, msg)
	e.fanOut(r.Name, s.ID, model.Notification{
		Message: text,
		Room:    r.Name,
		Sender:  s.Username,
		Kind:    kind,
	})
	return snap, nil
}

// Announce 系统公告：以 system 消息写入公共房间并广播
func (e *Engine) Announce(room, text string) (model.Message, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	r, err := e.rooms.Public(room)
	if err != nil {
		return model.Message{}, err
	}
	msg := &model.Message{
		Kind:   model.KindSystem,
		Sender: constants.SYSTEM_SENDER,
		Text:   text,
	}
	snap := e.publish(r, msg)
	e.fanOut(r.Name, "", model.Notification{
		Message: text,
		Room:    r.Name,
		Sender:  constants.SYSTEM_SENDER,
		Kind:    model.NotifySystem,
	})
	return snap, nil
}

// publish 填充 ID/时间/房间，追加到日志并广播 receive_message
func (e *Engine) publish(r *Room, msg *model.Message) model.Message {
	msg.ID = e.opts.NewMessageID()
	msg.Room = r.Name
	msg.Timestamp = e.opts.Now()
	e.appendMessage(r, msg)

	snap := msg.Snapshot()
	e.broadcast(r.audience(), OutReceiveMessage, snap)
	return snap
}

// appendMessage 写入日志并登记账本；淘汰的消息同步从账本移除
func (e *Engine) appendMessage(r *Room, msg *model.Message) {
	e.ledger.Track(msg, r.Name)
	if evicted := r.log.Append(msg); evicted != nil {
		e.ledger.Forget(evicted.ID)
		metrics.MessagesEvicted.Inc()
	}
	metrics.MessagesAppended.WithLabelValues(string(msg.Kind)).Inc()
	e.opts.Journal.Record(msg.Snapshot())
}

// fanOut 对除发送者外的每个已加入会话做一次 Viewing 判定：
// 正在查看该房间的累加未读数，其余的收到通知
func (e *Engine) fanOut(room, senderID string, n model.Notification) {
	var viewers, others []string
	e.registry.Each(func(s *model.Session) {
		if s.ID == senderID || s.State != model.StateJoined {
			return
		}
		if e.registry.Viewing(s.ID, room) {
			viewers = append(viewers, s.ID)
		} else {
			others = append(others, s.ID)
		}
	})

	for _, id := range viewers {
		count := e.tracker.Increment(id, room)
		e.emit(id, OutUnreadCountUpdate, UnreadUpdate{Room: room, Count: count})
	}

	if len(others) == 0 {
		return
	}
	n.ID = e.opts.NewNotificationID()
	n.Timestamp = e.opts.Now()
	for _, id := range others {
		e.notify(id, n)
	}
}

func (e *Engine) notify(sessionID string, n model.Notification) {
	e.tracker.Push(sessionID, n)
	e.emit(sessionID, OutNewMessageNotify, n)
}

// private 私信：写入懒创建的私聊房间，投递给对方与发送者，并通知对方
func (e *Engine) private(s *model.Session, ev PrivateMessageEvent) error {
	if ev.To == s.ID {
		return errorx.Newf(errorx.CodeMalformedEvent, "cannot send a private message to yourself")
	}
	target, ok := e.registry.Lookup(ev.To)
	if !ok {
		return errorx.Wrapf(errorx.ErrNotFound, errorx.CodeNotFound, "session %s not found", ev.To)
	}

	r := e.rooms.Private(s.ID, target.ID)
	msg := &model.Message{
		ID:        e.opts.NewMessageID(),
		Kind:      model.KindPrivate,
		SenderID:  s.ID,
		Sender:    s.Username,
		Timestamp: e.opts.Now(),
		Text:      ev.Text,
		IsPrivate: true,
	}
	e.appendMessage(r, msg)

	snap := msg.Snapshot()
	e.emit(target.ID, OutPrivateMessage, snap)
	e.emit(s.ID, OutPrivateMessage, snap)
	e.notify(target.ID, model.Notification{
		ID:        e.opts.NewNotificationID(),
		Message:   fmt.Sprintf("Private message from %s", s.Username),
		Room:      constants.PRIVATE_NOTICE_ROOM,
		Sender:    s.Username,
		Kind:      model.NotifyPrivate,
		Timestamp: msg.Timestamp,
	})
	return nil
}

// ledgerRoom 账本返回的房间对当前会话可见才允许操作
func (e *Engine) ledgerRoom(s *model.Session, messageID, room string) (*Room, error) {
	r, ok := e.rooms.Get(room)
	if !ok || (r.Private && !contains(r.Participants, s.ID)) {
		return nil, notFound(messageID)
	}
	return r, nil
}

func (e *Engine) react(s *model.Session, ev ReactionEvent) error {
	_, room, ok := e.ledger.Locate(ev.MessageID)
	if !ok {
		return notFound(ev.MessageID)
	}
	r, err := e.ledgerRoom(s, ev.MessageID, room)
	if err != nil {
		return err
	}
	reactions, _, err := e.ledger.React(ev.MessageID, s.ID, ev.Reaction)
	if err != nil {
		return err
	}
	e.broadcast(r.audience(), OutReactionUpdate, ReactionUpdate{MessageID: ev.MessageID, Reactions: reactions})
	return nil
}

func (e *Engine) markRead(s *model.Session, ev ReadEvent) error {
	_, room, ok := e.ledger.Locate(ev.MessageID)
	if !ok {
		return notFound(ev.MessageID)
	}
	r, err := e.ledgerRoom(s, ev.MessageID, room)
	if err != nil {
		return err
	}
	readBy, _, changed, err := e.ledger.MarkRead(ev.MessageID, s.ID)
	if err != nil || !changed {
		return err
	}
	e.broadcast(r.audience(), OutReadReceiptUpdate, ReadReceiptUpdate{MessageID: ev.MessageID, ReadBy: readBy})
	return nil
}

// typing 镜像客户端声明的输入状态，并广播完整的输入中用户名列表
func (e *Engine) typing(s *model.Session, isTyping bool) error {
	r, err := e.rooms.Public(s.Room)
	if err != nil {
		return err
	}
	e.rooms.SetTyping(r, s.ID, isTyping)
	e.broadcast(r.audience(), OutTypingUsers, e.typingNames(r))
	return nil
}

// clearUnread 房间被查看：计数归零、该房间通知标记已读，并回送 0
func (e *Engine) clearUnread(s *model.Session, room string) error {
	if _, err := e.rooms.Public(room); err != nil {
		return err
	}
	e.tracker.Clear(s.ID, room)
	e.tracker.MarkRoomRead(s.ID, room)
	e.emit(s.ID, OutUnreadCountUpdate, UnreadUpdate{Room: room, Count: 0})
	return nil
}

// destroy 会话销毁作为一个整体：离开房间、清理输入状态、清理未读/通知/偏好、删除注册表条目
func (e *Engine) destroy(s *model.Session) {
	for _, d := range e.rooms.LeaveAll(s.ID) {
		audience := d.Room.audience()
		e.broadcast(audience, OutUserLeft, UserEvent{Username: s.Username, ID: s.ID, Room: d.Room.Name})
		e.broadcast(audience, OutUserList, e.memberList(d.Room))
		e.broadcast(audience, OutTypingUsers, e.typingNames(d.Room))
	}
	e.tracker.Forget(s.ID)
	e.registry.remove(s.ID)
	metrics.SessionsConnected.Dec()
	zap.L().Debug("session destroyed", zap.String("session", s.ID), zap.String("username", s.Username))
}

func (e *Engine) emit(sessionID, event string, data any) {
	e.out.Deliver(sessionID, Outbound{Event: event, Data: data})
}

func (e *Engine) broadcast(sessionIDs []string, event string, data any) {
	for _, id := range sessionIDs {
		e.emit(id, event, data)
	}
}

func (e *Engine) memberList(r *Room) []model.Member {
	ids := r.Members()
	out := make([]model.Member, 0, len(ids))
	for _, id := range ids {
		if s, ok := e.registry.Lookup(id); ok {
			out = append(out, model.Member{ID: s.ID, Username: s.Username, Room: r.Name})
		}
	}
	return out
}

func (e *Engine) typingNames(r *Room) []string {
	ids := r.Typing()
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if s, ok := e.registry.Lookup(id); ok {
			out = append(out, s.Username)
		}
	}
	return out
}

// ---------- 只读查询，供 HTTP 查询接口与测试使用 ----------

// Rooms 公共房间名
func (e *Engine) Rooms() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rooms.PublicNames()
}

// DefaultRoom 认证后隐式加入的房间
func (e *Engine) DefaultRoom() string {
	return e.opts.DefaultRoom
}

// RoomMessages 公共房间当前日志的快照
func (e *Engine) RoomMessages(room string) ([]model.Message, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, err := e.rooms.Public(room)
	if err != nil {
		return nil, err
	}
	return model.Snapshots(r.log.All()), nil
}

// RoomMembers 公共房间当前成员
func (e *Engine) RoomMembers(room string) ([]model.Member, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, err := e.rooms.Public(room)
	if err != nil {
		return nil, err
	}
	return e.memberList(r), nil
}

// TypingUsers 公共房间正在输入的用户名
func (e *Engine) TypingUsers(room string) ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, err := e.rooms.Public(room)
	if err != nil {
		return nil, err
	}
	return e.typingNames(r), nil
}

// Session 会话快照
func (e *Engine) Session(sessionID string) (model.Session, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.registry.Lookup(sessionID)
	if !ok {
		return model.Session{}, false
	}
	return *s, true
}

// SessionCount 在线会话数
func (e *Engine) SessionCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.Len()
}

// Notifications 会话的通知列表
func (e *Engine) Notifications(sessionID string) []model.Notification {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tracker.Feed(sessionID)
}

// UnreadCount 会话在房间的未读数
func (e *Engine) UnreadCount(sessionID, room string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tracker.Count(sessionID, room)
}

// Settings 会话的通知偏好
func (e *Engine) Settings(sessionID string) model.NotificationSettings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tracker.Settings(sessionID)
}

// Message 按 ID 查找仍在日志中的消息
func (e *Engine) Message(messageID string) (model.Message, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	msg, _, ok := e.ledger.Locate(messageID)
	if !ok {
		return model.Message{}, false
	}
	return msg.Snapshot(), true
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
