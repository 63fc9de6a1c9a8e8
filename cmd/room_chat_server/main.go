package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"room_chat_server/internal/config"
	"room_chat_server/internal/gateway/websocket"
	"room_chat_server/internal/handler"
	"room_chat_server/internal/https_server"
	"room_chat_server/internal/infrastructure/logger"
	"room_chat_server/internal/infrastructure/mq"
	"room_chat_server/internal/service"
	"room_chat_server/internal/service/chat"
	"room_chat_server/pkg/util/jwt"
	"room_chat_server/pkg/util/snowflake"

	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置
	conf := config.GetConfig()

	// 2. 初始化日志
	if err := logger.Init(&conf.LogConfig, conf.Mode); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	defer func() { _ = zap.L().Sync() }()
	zap.L().Info("日志初始化成功")

	// 3. 初始化 ID 生成与 JWT
	snowflake.Init(conf.MachineID)
	jwt.Init(conf.Secret, conf.TokenExpiryHours)

	// 4. 参数校验翻译（HTTP 请求体与 WebSocket 事件共用）
	if err := handler.InitTrans("en", chat.Validator()); err != nil {
		zap.L().Fatal("init validator translations failed", zap.Error(err))
	}

	// 5. 可选的 Kafka 消息旁路
	var journal *mq.KafkaJournal
	opts := chat.Options{
		Rooms:                conf.Rooms,
		DefaultRoom:          conf.DefaultRoom,
		HistoryCapacity:      conf.HistoryCapacity,
		PageSize:             conf.PageSize,
		NotificationCapacity: conf.NotificationCapacity,
	}
	if conf.KafkaConfig.Enabled {
		journal = mq.NewKafkaJournal(conf.KafkaConfig)
		opts.Journal = journal
		zap.L().Info("Kafka 消息旁路已启用", zap.String("topic", conf.KafkaConfig.Topic))
	}

	// 6. 启动聊天 Hub
	hub := chat.NewHub(opts)
	go hub.Start()

	// 7. 依赖注入：网关 -> Service -> Handler
	gateway := websocket.NewGateway(hub, websocket.Options{
		SendBufferSize:  conf.SendBufferSize,
		MaxMessageBytes: conf.MaxMessageBytes,
		EventsPerSecond: conf.EventsPerSecond,
		Burst:           conf.Burst,
		AllowedOrigins:  conf.AllowedOrigins,
	})
	svc := service.NewServices(hub.Engine())
	handlers := handler.NewHandlers(svc, gateway, hub.Engine())

	// 8. 启动 HTTP 服务
	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", conf.Host, conf.Port),
		Handler:           https_server.Init(conf, handlers),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		zap.L().Info("服务启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("server running fault", zap.Error(err))
		}
	}()

	// 设置信号监听
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	// 先关闭 Hub：WebSocket 连接已被劫持，Shutdown 不会等待它们
	hub.Close()
	if err := srv.Shutdown(ctx); err != nil {
		zap.L().Error("server shutdown", zap.Error(err))
	}
	if journal != nil {
		if err := journal.Close(); err != nil {
			zap.L().Error("close kafka journal", zap.Error(err))
		}
	}

	zap.L().Info("服务器已关闭")
}
