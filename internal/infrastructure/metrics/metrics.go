// Package metrics 定义 Prometheus 指标，通过 /metrics 暴露
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SessionsConnected 当前在线会话数
	SessionsConnected = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "room_chat_sessions_connected",
			Help: "Number of authenticated sessions currently connected",
		},
	)

	// InboundEvents 已处理的入站事件
	InboundEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "room_chat_inbound_events_total",
			Help: "Inbound events handled by the dispatch router",
		},
		[]string{"event"},
	)

	// DroppedEvents 被丢弃的入站事件，按原因统计
	DroppedEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "room_chat_dropped_events_total",
			Help: "Inbound events dropped without state mutation",
		},
		[]string{"reason"},
	)

	// OutboundDropped 出站缓冲已满而丢弃的事件
	OutboundDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "room_chat_outbound_dropped_total",
			Help: "Outbound events dropped because the connection buffer was full or closed",
		},
	)

	// MessagesAppended 写入房间日志的消息
	MessagesAppended = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "room_chat_messages_appended_total",
			Help: "Messages appended to room logs",
		},
		[]string{"kind"},
	)

	// MessagesEvicted 因超出容量被淘汰的消息
	MessagesEvicted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "room_chat_messages_evicted_total",
			Help: "Messages evicted from room logs on overflow",
		},
	)

	// JournalFailures 消息旁路投递失败次数
	JournalFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "room_chat_journal_failures_total",
			Help: "Messages that could not be written to the journal",
		},
	)
)
