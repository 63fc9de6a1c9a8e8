package handler

import (
	"errors"
	"net/http"

	"room_chat_server/pkg/errorx"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// ResponseData 统一响应结构体
type ResponseData struct {
	Code int `json:"code"`           // 业务响应状态码
	Msg  any `json:"msg"`            // 提示信息
	Data any `json:"data,omitempty"` // 数据
}

// HandleSuccess 返回成功响应
func HandleSuccess(c *gin.Context, data any) {
	c.JSON(http.StatusOK, ResponseData{
		Code: errorx.CodeSuccess,
		Msg:  "success",
		Data: data,
	})
}

// httpStatus 业务错误码到 HTTP 状态码的映射
// 认证失败和资源不存在使用对应的 HTTP 状态码，其余业务错误仍返回 200
func httpStatus(code int) int {
	switch code {
	case errorx.CodeUnauthorized:
		return http.StatusUnauthorized
	case errorx.CodeNotFound, errorx.CodeUnknownRoom:
		return http.StatusNotFound
	default:
		return http.StatusOK
	}
}

// HandleError 通用错误处理方法
// 自动识别 errorx.CodeError 类型的业务错误，或者将系统错误转换为 CodeServerBusy
// 使用示例：
//
//	if err := svc.DoSomething(); err != nil {
//	    HandleError(c, err)
//	    return
//	}
func HandleError(c *gin.Context, err error) {
	// 1. 业务错误：直接返回携带的错误码和消息
	var codeErr *errorx.CodeError
	if errors.As(err, &codeErr) {
		c.JSON(httpStatus(codeErr.Code), ResponseData{
			Code: codeErr.Code,
			Msg:  codeErr.Msg,
		})
		return
	}

	// 2. 系统错误或未知错误：记录日志并返回服务繁忙
	zap.L().Error("system error",
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.Error(err),
	)
	c.JSON(http.StatusOK, ResponseData{
		Code: errorx.ErrServerBusy.Code,
		Msg:  errorx.ErrServerBusy.Msg,
	})
}

// HandleParamError 处理参数绑定错误（带 validator 翻译支持）
func HandleParamError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && Trans != nil {
		// 翻译后去除结构体名前缀
		c.JSON(http.StatusOK, ResponseData{
			Code: errorx.ErrInvalidParam.Code,
			Msg:  RemoveTopStruct(validationErrs.Translate(Trans)),
		})
		return
	}

	// 非 validator 错误（如 JSON 格式错误）
	zap.L().Debug("param bind error", zap.Error(err))
	c.JSON(http.StatusOK, ResponseData{
		Code: errorx.ErrInvalidParam.Code,
		Msg:  errorx.ErrInvalidParam.Msg,
	})
}
