package mq

import (
	"context"
	"encoding/json"
	"time"

	myconfig "room_chat_server/internal/config"
	"room_chat_server/internal/infrastructure/metrics"
	"room_chat_server/internal/model"
	"room_chat_server/pkg/constants"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// messageWriter kafka.Writer 中用到的部分
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaJournal 把追加到房间日志的消息镜像写入 Kafka，供下游消费
// 只写不读：服务重启后不会从 Kafka 恢复任何状态
type KafkaJournal struct {
	writer  messageWriter
	pool    *TaskPool
	timeout time.Duration
}

// NewKafkaJournal 按配置创建 Writer 与投递协程池
func NewKafkaJournal(cfg myconfig.KafkaConfig) *KafkaJournal {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.HostPort),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		WriteTimeout:           cfg.Timeout * time.Second,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: false,
	}
	return newKafkaJournal(writer, NewTaskPool(cfg.Workers, cfg.BufferSize), cfg.Timeout*time.Second)
}

func newKafkaJournal(w messageWriter, pool *TaskPool, timeout time.Duration) *KafkaJournal {
	if timeout <= 0 {
		timeout = time.Second
	}
	return &KafkaJournal{writer: w, pool: pool, timeout: timeout}
}

// Record 异步写入一条消息；队列已满或写入失败只记录，不影响聊天流程
// 以房间名为 Key，同一房间的消息落在同一分区，保持顺序
func (j *KafkaJournal) Record(msg model.Message) {
	value, err := json.Marshal(msg)
	if err != nil {
		metrics.JournalFailures.Inc()
		zap.L().Error("marshal journal message", zap.String("id", msg.ID), zap.Error(err))
		return
	}
	key := msg.Room
	if key == "" {
		key = constants.PRIVATE_NOTICE_ROOM
	}
	submitted := j.pool.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
		defer cancel()
		if err := j.writer.WriteMessages(ctx, kafka.Message{
			Key:   []byte(key),
			Value: value,
			Time:  msg.Timestamp,
		}); err != nil {
			metrics.JournalFailures.Inc()
			zap.L().Warn("write journal message", zap.String("id", msg.ID), zap.Error(err))
		}
	})
	if !submitted {
		metrics.JournalFailures.Inc()
	}
}

// Close 等待排队的消息写完后关闭 Writer
func (j *KafkaJournal) Close() error {
	j.pool.Close()
	return j.writer.Close()
}
