package apperr

import (
	"errors"
	"fmt"
)

// Kind 业务错误类别
// 每个类别对应一类请求结果，由 response 包统一映射为 HTTP 状态码
type Kind int

const (
	KindInternal          Kind = iota // 未预期错误，对外只返回通用提示
	KindValidation                    // 参数非法（格式、范围）
	KindNotFound                      // 用户/交易/工单不存在
	KindConflict                      // 邮箱/用户名重复
	KindUnauthorized                  // 未登录或凭证错误
	KindForbidden                     // 已登录但权限不足
	KindInvalidToken                  // 令牌过期或无效
	KindInsufficientFunds             // 余额/奖金不足
)

// Error 携带类别的业务错误
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New 创建指定类别的业务错误
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap 包装底层错误，保留原始错误链
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Validation(message string) *Error        { return New(KindValidation, message) }
func NotFound(message string) *Error          { return New(KindNotFound, message) }
func Conflict(message string) *Error          { return New(KindConflict, message) }
func Unauthorized(message string) *Error      { return New(KindUnauthorized, message) }
func Forbidden(message string) *Error         { return New(KindForbidden, message) }
func InvalidToken(message string) *Error      { return New(KindInvalidToken, message) }
func InsufficientFunds(message string) *Error { return New(KindInsufficientFunds, message) }

// KindOf 提取错误类别，非业务错误一律视为内部错误
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf 提取对外展示的错误信息
// 内部错误不向客户端暴露细节
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "服务器内部错误"
}
