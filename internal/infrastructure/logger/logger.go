// Package logger 初始化全局 zap Logger，并提供 Gin 日志与恢复中间件
package logger

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"room_chat_server/internal/config"
	"room_chat_server/pkg/constants"
	"room_chat_server/pkg/errorx"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// quietPaths 探活与指标抓取频率高，不记录访问日志
var quietPaths = map[string]struct{}{
	"/healthz": {},
	"/metrics": {},
}

// Init 初始化 Logger 并替换全局 zap.L()
// dev 模式同时输出到控制台（Console 格式）和文件，其余模式只写 JSON 文件
func Init(cfg *config.LogConfig, mode string) error {
	if cfg == nil {
		return fmt.Errorf("logger.Init received nil config")
	}
	if cfg.FileName == "" {
		cfg.FileName = filepath.Join(cfg.LogPath, "room_chat.log")
	}
	if cfg.MaxSize == 0 {
		cfg.MaxSize = 100
	}
	if cfg.MaxBackups == 0 {
		cfg.MaxBackups = 5
	}
	if cfg.MaxAge == 0 {
		cfg.MaxAge = 30
	}
	if cfg.Level == "" {
		cfg.Level = "info"
	}

	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return fmt.Errorf("parse log level %q: %w", cfg.Level, err)
	}

	fileCore := zapcore.NewCore(getEncoder(), getLogWriter(cfg), level)
	core := fileCore
	if mode == "dev" || mode == gin.DebugMode {
		consoleEncoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		consoleCore := zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stdout), zapcore.DebugLevel)
		core = zapcore.NewTee(fileCore, consoleCore)
	}

	zap.ReplaceGlobals(zap.New(core, zap.AddCaller()))
	return nil
}

// getLogWriter lumberjack 负责日志切割
func getLogWriter(cfg *config.LogConfig) zapcore.WriteSyncer {
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.FileName,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
	})
}

func getEncoder() zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewJSONEncoder(encoderConfig)
}

// GinLogger 用 zap 记录每个 HTTP 请求
// WebSocket 升级请求在连接关闭后才返回，cost 即连接存活时长
func GinLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if _, ok := quietPaths[c.Request.URL.Path]; ok && c.Writer.Status() < http.StatusBadRequest {
			return
		}
		fields := []zap.Field{
			zap.Int("status", c.Writer.Status()),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("ClientIP", c.ClientIP()),
			zap.String("user-agent", c.Request.UserAgent()),
			zap.Duration("cost", time.Since(start)),
		}
		if username := c.GetString(constants.CTX_USERNAME_KEY); username != "" {
			fields = append(fields, zap.String("username", username))
		}
		if errs := c.Errors.ByType(gin.ErrorTypePrivate).String(); errs != "" {
			fields = append(fields, zap.String("errors", errs))
		}
		zap.L().Info("http request", fields...)
	}
}

// GinRecovery 捕获 panic，记录请求与堆栈后返回统一错误响应
// 客户端已断开（broken pipe）时只记录日志
func GinRecovery(stack bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			httpRequest, _ := httputil.DumpRequest(c.Request, false)
			fields := []zap.Field{
				zap.Any("error", rec),
				zap.String("request", string(httpRequest)),
			}

			if err, ok := rec.(error); ok && isBrokenPipeError(err) {
				zap.L().Error("broken pipe", append(fields, zap.String("path", c.Request.URL.Path))...)
				_ = c.Error(err)
				c.Abort()
				return
			}

			if stack {
				fields = append(fields, zap.String("stack", string(debug.Stack())))
			}
			zap.L().Error("[Recovery from panic]", fields...)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"code": errorx.CodeServerBusy,
				"msg":  errorx.ErrServerBusy.Msg,
				"data": nil,
			})
		}()
		c.Next()
	}
}

// isBrokenPipeError 检查错误链中是否包含 broken pipe 或 connection reset
func isBrokenPipeError(err error) bool {
	if err == nil {
		return false
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		var syscallErr *os.SyscallError
		if errors.As(opErr.Err, &syscallErr) {
			return isPipeMessage(syscallErr.Error())
		}
	}
	return isPipeMessage(err.Error())
}

func isPipeMessage(msg string) bool {
	msg = strings.ToLower(msg)
	return strings.Contains(msg, "broken pipe") || strings.Contains(msg, "connection reset by peer")
}
