package errors

import (
	stderrors "errors"
	"fmt"

	"tradeflow/pkg/errors/ecode"
)

// withCode 携带业务错误码的错误
type withCode struct {
	code    int
	message string
	cause   error
}

func (w *withCode) Error() string {
	if w.cause == nil {
		return w.message
	}
	return w.message + ": " + w.cause.Error()
}

func (w *withCode) Unwrap() error { return w.cause }

// Code 返回错误码
func (w *withCode) Code() int { return w.code }

func New(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

// WithCode 创建一个带错误码的错误
func WithCode(code int, format string, args ...interface{}) error {
	return &withCode{code: code, message: fmt.Sprintf(format, args...)}
}

// Wrap 包装底层错误并附加错误码，message 会作为返回给客户端的提示
func Wrap(err error, code int, message string) error {
	if err == nil {
		return nil
	}
	return &withCode{code: code, message: message, cause: err}
}

func Wrapf(err error, code int, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &withCode{code: code, message: fmt.Sprintf(format, args...), cause: err}
}

// DecodeErr 解析出错误码和提示信息，未携带错误码的错误按 ecode.Unknown 处理
func DecodeErr(err error) (int, string) {
	if err == nil {
		return ecode.Success, "success"
	}
	var c *withCode
	if stderrors.As(err, &c) {
		return c.code, c.message
	}
	return ecode.Unknown, err.Error()
}

func Is(err, target error) bool { return stderrors.Is(err, target) }

func As(err error, target interface{}) bool { return stderrors.As(err, target) }

func Unwrap(err error) error { return stderrors.Unwrap(err) }
