// Package websocket 提供 WebSocket 连接网关
// 核心职责：连接生命周期管理
// 1. 建立 WebSocket 连接 (Upgrade)，握手前的身份认证由 handler 完成
// 2. 封装 Client 对象，管理读写协程 (Read/Write Pump)
// 3. 接收前端帧 -> 解码为事件 -> 投递到 Hub；从 Hub 接收 -> 推送给前端
package websocket

import (
	"net/http"
	"sync"
	"time"

	"room_chat_server/internal/infrastructure/metrics"
	"room_chat_server/internal/service/chat"
	"room_chat_server/pkg/constants"
	"room_chat_server/pkg/errorx"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	writeWait  = 10 * time.Second  // 单次写超时
	pongWait   = 60 * time.Second  // 等待 pong 的最长时间
	pingPeriod = pongWait * 9 / 10 // 发送 ping 的间隔，必须小于 pongWait
	closeGrace = 1 * time.Second   // 发送关闭帧的超时
)

// Options 网关参数
type Options struct {
	SendBufferSize  int
	MaxMessageBytes int64
	EventsPerSecond float64
	Burst           int
	AllowedOrigins  []string
}

// Gateway 负责升级连接并把连接交给 Broker
type Gateway struct {
	broker   Broker
	opts     Options
	upgrader websocket.Upgrader
}

// NewGateway 创建网关
func NewGateway(broker Broker, opts Options) *Gateway {
	if opts.SendBufferSize <= 0 {
		opts.SendBufferSize = constants.SEND_BUFFER_SIZE
	}
	if opts.MaxMessageBytes <= 0 {
		opts.MaxMessageBytes = constants.MAX_MESSAGE_BYTES
	}
	if opts.EventsPerSecond <= 0 {
		opts.EventsPerSecond = 20
	}
	if opts.Burst <= 0 {
		opts.Burst = 40
	}
	return &Gateway{
		broker: broker,
		opts:   opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  2048,
			WriteBufferSize: 2048,
			CheckOrigin:     checkOrigin(opts.AllowedOrigins),
		},
	}
}

// checkOrigin 没有 Origin 头（非浏览器客户端）或在白名单中才允许，"*" 表示全部
func checkOrigin(allowed []string) func(r *http.Request) bool {
	all := len(allowed) == 0
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			all = true
		}
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		if all {
			return true
		}
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

// Serve 升级连接并启动读写协程，username 已由调用方认证
// 升级失败时 Upgrader 已写回错误响应
func (g *Gateway) Serve(w http.ResponseWriter, r *http.Request, username string) error {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.L().Warn("websocket upgrade failed", zap.Error(err))
		return err
	}
	client := newClient(conn, g.opts)
	sessionID, err := g.broker.Connect(username, client)
	if err != nil {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "server is shutting down"),
			time.Now().Add(closeGrace))
		_ = conn.Close()
		return err
	}
	client.sessionID = sessionID

	go client.writePump()
	go client.readPump(g.broker)
	return nil
}

// Client 一条 WebSocket 连接，实现 chat.Conn
type Client struct {
	conn      *websocket.Conn
	sessionID string
	// sendBack 给前端的帧；从不关闭，关闭信号走 done
	sendBack  chan []byte
	done      chan struct{}
	closeOnce sync.Once
	limiter   *rate.Limiter
	maxBytes  int64
}

func newClient(conn *websocket.Conn, opts Options) *Client {
	return &Client{
		conn:     conn,
		sendBack: make(chan []byte, opts.SendBufferSize),
		done:     make(chan struct{}),
		limiter:  rate.NewLimiter(rate.Limit(opts.EventsPerSecond), opts.Burst),
		maxBytes: opts.MaxMessageBytes,
	}
}

// Send 非阻塞写入发送缓冲，缓冲满或连接已关闭时丢弃
func (c *Client) Send(payload []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.sendBack <- payload:
		return true
	default:
		return false
	}
}

// Close 通知写协程发送关闭帧并断开连接，可重复调用
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
	})
	return nil
}

// readPump 读取前端帧 -> 解码 -> 限流 -> 投递到 Broker
// 退出时投递 DisconnectEvent，由 Hub 完成会话销毁
func (c *Client) readPump(broker Broker) {
	defer func() {
		broker.Submit(c.sessionID, chat.DisconnectEvent{})
		_ = c.Close()
	}()

	c.conn.SetReadLimit(c.maxBytes)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				zap.L().Warn("websocket read error", zap.String("session", c.sessionID), zap.Error(err))
			}
			return
		}
		ev, err := chat.DecodeEvent(data)
		if err != nil {
			metrics.DroppedEvents.WithLabelValues("malformed").Inc()
			zap.L().Debug("malformed event", zap.String("session", c.sessionID), zap.Error(err))
			continue
		}
		// 输入状态只靠显式的关闭信号清除，不参与限流
		if _, typing := ev.(chat.TypingEvent); !typing && !c.limiter.Allow() {
			metrics.DroppedEvents.WithLabelValues("rate_limited").Inc()
			zap.L().Debug("event dropped",
				zap.String("session", c.sessionID),
				zap.String("event", ev.Name()),
				zap.Error(errorx.ErrRateLimited),
			)
			continue
		}
		if !broker.Submit(c.sessionID, ev) {
			return
		}
	}
}

// writePump 从发送缓冲读取帧写给前端，并定期发送 ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case payload := <-c.sendBack:
			if err := c.write(websocket.TextMessage, payload); err != nil {
				zap.L().Debug("websocket write error", zap.String("session", c.sessionID), zap.Error(err))
				_ = c.Close()
				return
			}
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				_ = c.Close()
				return
			}
		case <-c.done:
			c.flush()
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(closeGrace))
			return
		}
	}
}

// flush 关闭前尽力写出缓冲中剩余的帧
func (c *Client) flush() {
	for {
		select {
		case payload := <-c.sendBack:
			if err := c.write(websocket.TextMessage, payload); err != nil {
				return
			}
		default:
			return
		}
	}
}

func (c *Client) write(messageType int, payload []byte) error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(messageType, payload)
}
