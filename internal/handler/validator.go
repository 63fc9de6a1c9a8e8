package handler

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
)

// Trans 全局翻译器 (导出供 response.go 使用)
var Trans ut.Translator

// InitTrans 初始化翻译器
// locale: "zh" 或 "en"
// extra: 需要同样使用 json 字段名和翻译的其他校验器（如 WebSocket 事件校验器）
func InitTrans(locale string, extra ...*validator.Validate) error {
	if binding.Validator == nil {
		binding.Validator = &defaultValidator{validator: validator.New()}
	}
	engines := make([]*validator.Validate, 0, 1+len(extra))
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		engines = append(engines, v)
	}
	for _, v := range extra {
		if v != nil {
			engines = append(engines, v)
		}
	}

	enT := en.New()
	zhT := zh.New()
	// 第一个参数是备用语言环境
	uni := ut.New(enT, zhT, enT)
	trans, ok := uni.GetTranslator(locale)
	if !ok {
		return fmt.Errorf("uni.GetTranslator(%s) failed", locale)
	}

	for _, v := range engines {
		// 报错信息使用 json 字段名而不是 Go 结构体字段名
		v.RegisterTagNameFunc(jsonTagName)
		var err error
		switch locale {
		case "zh":
			err = zh_translations.RegisterDefaultTranslations(v, trans)
		default:
			err = en_translations.RegisterDefaultTranslations(v, trans)
		}
		if err != nil {
			return err
		}
	}
	Trans = trans
	return nil
}

func jsonTagName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// RemoveTopStruct 去除提示信息中的结构体名称
// 如 "LoginRequest.username" -> "username"
func RemoveTopStruct(fields map[string]string) map[string]string {
	res := make(map[string]string, len(fields))
	for field, err := range fields {
		res[field[strings.Index(field, ".")+1:]] = err
	}
	return res
}

// defaultValidator 实现 binding.StructValidator，用于 binding.Validator 为空时兜底
type defaultValidator struct {
	validator *validator.Validate
}

func (v *defaultValidator) ValidateStruct(obj any) error {
	return v.validator.Struct(obj)
}

func (v *defaultValidator) Engine() any {
	return v.validator
}
