package errors

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindConfig    Kind = "config"
	KindDomain    Kind = "domain"
	KindTransport Kind = "transport"
	KindPlatform  Kind = "platform"
	KindBootstrap Kind = "bootstrap"
	KindUnknown   Kind = "unknown"

	// 用户可见错误
	KindFormat      Kind = "format"
	KindApplication Kind = "application"

	// 中继内部错误，客户端只会看到非 2xx 响应
	KindRelayUpstream Kind = "relay_upstream"
	KindRelayInternal Kind = "relay_internal"
)

// 本地化消息键
const (
	MessageGeneric = "errorGeneric"
	MessageAPI     = "errorAPI"
	MessageFormat  = "errorFormat"
)

type Error struct {
	Kind    Kind
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Kind, e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Kind, e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Wrap 包装错误；err 为 nil 时返回 nil，已是 *Error 时原样返回。
func Wrap(kind Kind, op, message string, err error) error {
	if err == nil {
		return nil
	}

	var typed *Error
	if errors.As(err, &typed) {
		return err
	}

	return &Error{
		Kind:    kind,
		Op:      op,
		Message: message,
		Cause:   err,
	}
}

func New(kind Kind, op, message string) *Error {
	return &Error{
		Kind:    kind,
		Op:      op,
		Message: message,
	}
}

// IsKind checks whether the first typed error in the chain matches the provided kind.
func IsKind(err error, kind Kind) bool {
	var target *Error
	if errors.As(err, &target) {
		return target.Kind == kind
	}
	return false
}

// KindOf 返回错误链中第一个 *Error 的类型，没有时返回 KindUnknown。
func KindOf(err error) Kind {
	var target *Error
	if errors.As(err, &target) {
		return target.Kind
	}
	return KindUnknown
}

// MessageKey 把错误映射到三条本地化提示之一。
func MessageKey(err error) string {
	switch KindOf(err) {
	case KindFormat:
		return MessageFormat
	case KindApplication, KindTransport, KindRelayUpstream, KindRelayInternal:
		return MessageAPI
	default:
		return MessageGeneric
	}
}
