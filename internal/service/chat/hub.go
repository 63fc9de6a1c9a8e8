// hub.go
// 核心职责：单机模式下的事件处理时间线
// 1. 维护在线连接表 (sessionID -> Conn)
// 2. 单个协程按到达顺序消费所有入站事件，逐个交给 Engine 处理
// 3. 作为 Engine 的 Outbox，把出站事件序列化后非阻塞地写入连接发送缓冲
package chat

import (
	"encoding/json"
	"errors"
	"sync"

	"room_chat_server/internal/infrastructure/metrics"
	"room_chat_server/pkg/constants"
	"room_chat_server/pkg/errorx"

	"go.uber.org/zap"
)

// Conn 由网关实现的连接抽象
type Conn interface {
	// Send 将一帧写入发送缓冲，缓冲已满或连接已关闭时返回 false，不得阻塞
	Send(payload []byte) bool
	Close() error
}

// inbound 入站事件与其来源会话
type inbound struct {
	sessionID string
	event     Event
}

// Hub 实现 MessageBroker
type Hub struct {
	engine *Engine

	// conns 在线连接，Key 为会话 ID，Value 为 Conn
	conns sync.Map
	// transmit 入站事件通道，只由 Start 消费
	transmit chan inbound
	// quit 关闭信号；transmit 本身从不关闭，避免读协程向已关闭通道写入
	quit      chan struct{}
	closeOnce sync.Once
}

// NewHub 创建 Hub 及其持有的 Engine
func NewHub(opts Options) *Hub {
	h := &Hub{
		transmit: make(chan inbound, constants.CHANNEL_SIZE),
		quit:     make(chan struct{}),
	}
	h.engine = NewEngine(opts, h)
	return h
}

// Engine 供 HTTP 查询接口使用
func (h *Hub) Engine() *Engine {
	return h.engine
}

// Connect 注册已认证的连接并排队隐式加入默认房间
func (h *Hub) Connect(username string, conn Conn) (string, error) {
	select {
	case <-h.quit:
		return "", errorx.New(errorx.CodeServerBusy, "chat hub is closed")
	default:
	}

	s := h.engine.Register(username)
	h.conns.Store(s.ID, conn)
	if !h.Submit(s.ID, connectEvent{}) {
		h.conns.Delete(s.ID)
		_ = h.engine.Handle(s.ID, DisconnectEvent{})
		return "", errorx.New(errorx.CodeServerBusy, "chat hub is closed")
	}
	zap.L().Info("session connected", zap.String("session", s.ID), zap.String("username", username))
	return s.ID, nil
}

// Submit 投递入站事件，Hub 关闭后返回 false
// 通道满时阻塞调用方（单个连接的读协程），以此对快速发送者形成背压
func (h *Hub) Submit(sessionID string, ev Event) bool {
	select {
	case <-h.quit:
		return false
	default:
	}
	select {
	case h.transmit <- inbound{sessionID: sessionID, event: ev}:
		return true
	case <-h.quit:
		return false
	}
}

// Start 主循环，直到 Close 被调用
func (h *Hub) Start() {
	zap.L().Info("chat hub started")
	for {
		select {
		case in := <-h.transmit:
			h.dispatch(in)
		case <-h.quit:
			zap.L().Info("chat hub stopped")
			return
		}
	}
}

func (h *Hub) dispatch(in inbound) {
	err := h.engine.Handle(in.sessionID, in.event)

	if _, ok := in.event.(DisconnectEvent); ok {
		if v, loaded := h.conns.LoadAndDelete(in.sessionID); loaded {
			if cerr := v.(Conn).Close(); cerr != nil {
				zap.L().Debug("close connection", zap.String("session", in.sessionID), zap.Error(cerr))
			}
		}
		zap.L().Info("session disconnected", zap.String("session", in.sessionID))
	}
	if err != nil {
		logDropped(in.sessionID, in.event, err)
	}
}

// logDropped 事件被拒绝时不修改状态，也不重试
func logDropped(sessionID string, ev Event, err error) {
	reason := "other"
	switch {
	case errors.Is(err, errorx.ErrSessionClosed):
		reason = "session_closed"
	case errors.Is(err, errorx.ErrUnknownRoom):
		reason = "unknown_room"
	case errors.Is(err, errorx.ErrNotFound):
		reason = "not_found"
	case errors.Is(err, errorx.ErrMalformedEvent):
		reason = "malformed"
	}
	metrics.DroppedEvents.WithLabelValues(reason).Inc()

	fields := []zap.Field{
		zap.String("session", sessionID),
		zap.String("event", ev.Name()),
		zap.String("reason", reason),
		zap.Error(err),
	}
	if reason == "session_closed" || reason == "not_found" {
		zap.L().Debug("event dropped", fields...)
		return
	}
	zap.L().Warn("event dropped", fields...)
}

// Deliver 实现 Outbox
func (h *Hub) Deliver(sessionID string, out Outbound) {
	v, ok := h.conns.Load(sessionID)
	if !ok {
		return
	}
	payload, err := json.Marshal(out)
	if err != nil {
		zap.L().Error("marshal outbound event", zap.String("event", out.Event), zap.Error(err))
		return
	}
	if !v.(Conn).Send(payload) {
		metrics.OutboundDropped.Inc()
		zap.L().Debug("outbound event dropped", zap.String("session", sessionID), zap.String("event", out.Event))
	}
}

// Close 停止主循环并关闭所有连接，可重复调用
func (h *Hub) Close() {
	h.closeOnce.Do(func() {
		close(h.quit)
		h.conns.Range(func(key, value any) bool {
			_ = value.(Conn).Close()
			h.conns.Delete(key)
			return true
		})
	})
}
