package errorx

import (
	"errors"
	"fmt"
)

// CodeError 带业务错误码的自定义错误
// 支持 %w 包装底层错误，errors.Is 按错误码比较，errors.As 可取出错误码
type CodeError struct {
	Code  int    // 业务错误码
	Msg   string // 错误消息
	cause error  // 被包装的底层错误
}

// Error 存在底层错误时返回 "消息: 底层错误"，否则仅返回消息
func (e *CodeError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.cause)
	}
	return e.Msg
}

// Unwrap 支持 errors.Unwrap 向下追溯
func (e *CodeError) Unwrap() error {
	return e.cause
}

// Is 错误码相同即视为同一类错误
// 这样 errorx.Wrap(err, CodeNotFound, "...") 也能被 errors.Is(err, ErrNotFound) 识别
func (e *CodeError) Is(target error) bool {
	var t *CodeError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// New 创建一个新的 CodeError
func New(code int, msg string) *CodeError {
	return &CodeError{
		Code: code,
		Msg:  msg,
	}
}

// Newf 创建一个带格式化消息的 CodeError
func Newf(code int, format string, args ...any) *CodeError {
	return &CodeError{
		Code: code,
		Msg:  fmt.Sprintf(format, args...),
	}
}

// Wrap 包装底层错误，添加业务错误码和消息
// 用法: errorx.Wrap(err, CodeMalformedEvent, "事件解析失败")
func Wrap(err error, code int, msg string) *CodeError {
	return &CodeError{
		Code:  code,
		Msg:   msg,
		cause: err,
	}
}

// Wrapf 包装底层错误，支持格式化消息
func Wrapf(err error, code int, format string, args ...any) *CodeError {
	return &CodeError{
		Code:  code,
		Msg:   fmt.Sprintf(format, args...),
		cause: err,
	}
}

// GetCode 从错误中提取业务错误码，如果不是 CodeError 则返回默认码
func GetCode(err error) int {
	var codeErr *CodeError
	if errors.As(err, &codeErr) {
		return codeErr.Code
	}
	return CodeServerBusy
}

// 业务状态码常量定义
const (
	CodeSuccess        = 1000 // 成功
	CodeInvalidParam   = 1001 // 请求参数错误
	CodeServerBusy     = 1005 // 服务繁忙
	CodeUnauthorized   = 1006 // 未授权/认证失败
	CodeNotFound       = 1008 // 资源不存在（如消息已被淘汰）
	CodeUnknownRoom    = 1012 // 房间不存在
	CodeMalformedEvent = 1013 // 事件格式错误
	CodeSessionClosed  = 1014 // 会话未就绪或已断开
	CodeRateLimited    = 1015 // 事件频率超限
)

// 预定义常用错误实例
// 既可直接返回，也可用于 errors.Is 比较
var (
	ErrInvalidParam   = New(CodeInvalidParam, "请求参数错误")
	ErrServerBusy     = New(CodeServerBusy, "服务繁忙")
	ErrUnauthorized   = New(CodeUnauthorized, "认证失败")
	ErrNotFound       = New(CodeNotFound, "资源不存在")
	ErrUnknownRoom    = New(CodeUnknownRoom, "房间不存在")
	ErrMalformedEvent = New(CodeMalformedEvent, "事件格式错误")
	ErrSessionClosed  = New(CodeSessionClosed, "会话未就绪或已断开")
	ErrRateLimited    = New(CodeRateLimited, "事件发送过于频繁")
)

// IsNotFound 检查错误是否为"未找到"类型
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
