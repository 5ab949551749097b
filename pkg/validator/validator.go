package validator

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	zhTranslations "github.com/go-playground/validator/v10/translations/zh"
	"github.com/shopspring/decimal"
)

var (
	once  sync.Once
	trans ut.Translator
)

// LazyInitGinValidator 替换gin默认validator的翻译和字段名，只会执行一次
func LazyInitGinValidator(language string) {
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		// 错误信息中使用json字段名
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		// decimal 按数值校验，支持 gte/lte 等规则
		v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})

		enT := en.New()
		uni := ut.New(enT, enT, zh.New())
		var err error
		switch language {
		case "zh":
			trans, _ = uni.GetTranslator("zh")
			err = zhTranslations.RegisterDefaultTranslations(v, trans)
		default:
			trans, _ = uni.GetTranslator("en")
			err = enTranslations.RegisterDefaultTranslations(v, trans)
		}
		if err != nil {
			trans = nil
		}
	})
}

// decimalValue 转成 float64 参与比较，下溢为 0 的非零值保留符号
func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()
		if f == 0 && !d.IsZero() {
			return float64(d.Sign()) * math.SmallestNonzeroFloat64
		}
		return f
	}
	return nil
}

// Translate 把校验错误翻译成可读信息，非校验错误原样返回
func Translate(err error) string {
	if err == nil {
		return ""
	}
	var errs validator.ValidationErrors
	if trans == nil || !errors.As(err, &errs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Translate(trans))
	}
	return strings.Join(msgs, "; ")
}
