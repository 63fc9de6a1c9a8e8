// Package config 提供应用程序的配置加载和管理功能
// 使用 TOML 格式的配置文件，支持多路径查找，缺省字段回落到默认值
package config

import (
	"fmt"
	"os"
	"time"

	"room_chat_server/pkg/constants"

	"github.com/BurntSushi/toml"
)

// MainConfig 主配置，包含应用基本信息
type MainConfig struct {
	AppName     string `toml:"appName"`     // 应用名称
	Host        string `toml:"host"`        // 监听地址，如 "0.0.0.0"
	Port        int    `toml:"port"`        // 监听端口，如 5000
	Mode        string `toml:"mode"`        // 运行模式：dev 或 release
	TLSRedirect bool   `toml:"tlsRedirect"` // 是否启用 HTTP -> HTTPS 重定向
}

// LogConfig 日志配置，使用 lumberjack 进行日志轮转
type LogConfig struct {
	LogPath    string `toml:"logPath"`    // 日志文件存储目录
	FileName   string `toml:"fileName"`   // 日志文件名
	MaxSize    int    `toml:"maxSize"`    // 单个日志文件最大大小（MB）
	MaxBackups int    `toml:"maxBackups"` // 保留旧日志文件的最大个数
	MaxAge     int    `toml:"maxAge"`     // 保留旧日志文件的最大天数
	Level      string `toml:"level"`      // 日志级别：debug, info, warn, error
}

// JWTConfig 登录凭证配置
type JWTConfig struct {
	Secret           string `toml:"secret"`           // 签名密钥，可被环境变量 CHAT_JWT_SECRET 覆盖
	TokenExpiryHours int    `toml:"tokenExpiryHours"` // 凭证有效期（小时）
}

// ChatConfig 聊天核心配置
type ChatConfig struct {
	Rooms                []string `toml:"rooms"`                // 启动时创建的公共房间
	DefaultRoom          string   `toml:"defaultRoom"`          // 认证成功后隐式加入的房间
	HistoryCapacity      int      `toml:"historyCapacity"`      // 每个房间的消息上限
	PageSize             int      `toml:"pageSize"`             // 分页大小
	NotificationCapacity int      `toml:"notificationCapacity"` // 每个会话的通知上限
	SendBufferSize       int      `toml:"sendBufferSize"`       // 单连接出站缓冲
	MaxMessageBytes      int64    `toml:"maxMessageBytes"`      // 单帧最大字节数
	AllowedOrigins       []string `toml:"allowedOrigins"`       // 允许的来源，"*" 表示全部
}

// RateLimitConfig 单连接入站事件限流
type RateLimitConfig struct {
	EventsPerSecond float64 `toml:"eventsPerSecond"`
	Burst           int     `toml:"burst"`
}

// KafkaConfig 消息旁路投递配置（可选）
type KafkaConfig struct {
	Enabled    bool          `toml:"enabled"`    // 是否启用
	HostPort   string        `toml:"hostPort"`   // Kafka 地址，如 "localhost:9092"
	Topic      string        `toml:"topic"`      // 消息主题
	Timeout    time.Duration `toml:"timeout"`    // 写入超时（秒）
	Workers    int           `toml:"workers"`    // 投递协程数
	BufferSize int           `toml:"bufferSize"` // 投递队列长度
}

// SnowflakeConfig 雪花算法配置
type SnowflakeConfig struct {
	MachineID int64 `toml:"machineId"` // 节点 ID，范围 0-1023
}

// Config 应用程序总配置，聚合所有子配置
type Config struct {
	MainConfig      `toml:"mainConfig"`
	LogConfig       `toml:"logConfig"`
	JWTConfig       `toml:"jwtConfig"`
	ChatConfig      `toml:"chatConfig"`
	RateLimitConfig `toml:"rateLimitConfig"`
	KafkaConfig     `toml:"kafkaConfig"`
	SnowflakeConfig `toml:"snowflakeConfig"`
}

// config 全局配置单例，延迟加载
var config *Config

// searchPaths 候选配置文件路径（优先加载本地配置）
var searchPaths = []string{
	"configs/config_local.toml",
	"configs/config.toml",
	"../../configs/config_local.toml",
	"../../configs/config.toml",
}

// LoadConfig 从候选路径加载配置文件，找到第一个可用的即停止
func LoadConfig(cfg *Config) error {
	for _, path := range searchPaths {
		if _, err := toml.DecodeFile(path, cfg); err == nil {
			return nil
		}
	}
	return fmt.Errorf("could not find configuration file in any of the search paths")
}

// LoadFile 从指定路径加载配置并补齐默认值
func LoadFile(path string) (*Config, error) {
	cfg := new(Config)
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// GetConfig 获取全局配置实例（单例模式）
// 首次调用时会自动加载配置文件，找不到文件时使用默认值
func GetConfig() *Config {
	if config == nil {
		config = new(Config)
		_ = LoadConfig(config)
		config.ApplyDefaults()
	}
	return config
}

// ApplyDefaults 补齐未配置的字段
func (c *Config) ApplyDefaults() {
	if c.AppName == "" {
		c.AppName = "room_chat_server"
	}
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 5000
	}
	if c.Mode == "" {
		c.Mode = "dev"
	}
	if c.LogPath == "" {
		c.LogPath = "./logs"
	}
	if secret := os.Getenv("CHAT_JWT_SECRET"); secret != "" {
		c.Secret = secret
	}
	if c.Secret == "" {
		c.Secret = "fallback_secret_key"
	}
	if c.TokenExpiryHours <= 0 {
		c.TokenExpiryHours = constants.TOKEN_EXPIRY_HOURS
	}
	if len(c.Rooms) == 0 {
		c.Rooms = []string{"general", "random", "tech"}
	}
	if c.DefaultRoom == "" {
		c.DefaultRoom = c.Rooms[0]
	}
	if c.HistoryCapacity <= 0 {
		c.HistoryCapacity = constants.HISTORY_CAPACITY
	}
	if c.PageSize <= 0 {
		c.PageSize = constants.PAGE_SIZE
	}
	if c.NotificationCapacity <= 0 {
		c.NotificationCapacity = constants.NOTIFICATION_CAPACITY
	}
	if c.SendBufferSize <= 0 {
		c.SendBufferSize = constants.SEND_BUFFER_SIZE
	}
	if c.MaxMessageBytes <= 0 {
		c.MaxMessageBytes = constants.MAX_MESSAGE_BYTES
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.EventsPerSecond <= 0 {
		c.EventsPerSecond = 20
	}
	if c.Burst <= 0 {
		c.Burst = 40
	}
	if c.KafkaConfig.Topic == "" {
		c.KafkaConfig.Topic = "chat_messages"
	}
	if c.KafkaConfig.Timeout <= 0 {
		c.KafkaConfig.Timeout = 1
	}
	if c.Workers <= 0 {
		c.Workers = 4
	}
	if c.BufferSize <= 0 {
		c.BufferSize = 1000
	}
}
