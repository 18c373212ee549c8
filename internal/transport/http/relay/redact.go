package relay

import (
	stderrors "errors"
	"fmt"
	"net/url"
	"strings"

	"imgcaption/internal/platform/errors"
)

const redacted = "[REDACTED]"

// diagnostic 生成可返回给客户端的错误描述。
// *url.Error 会带上完整的上游地址（含 key），这里只保留操作和底层原因。
func (s *Service) diagnostic(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	var typed *errors.Error
	if stderrors.As(err, &typed) {
		msg = typed.Message
		if typed.Cause != nil {
			msg = fmt.Sprintf("%s: %s", typed.Message, causeText(typed.Cause))
		}
	}
	return s.redact(msg)
}

func causeText(err error) string {
	var urlErr *url.Error
	if stderrors.As(err, &urlErr) {
		if urlErr.Err == nil {
			return urlErr.Op
		}
		return fmt.Sprintf("%s: %v", urlErr.Op, urlErr.Err)
	}
	return err.Error()
}

func (s *Service) redact(msg string) string {
	key := s.config.APIKey
	if key == "" {
		return msg
	}
	msg = strings.ReplaceAll(msg, key, redacted)
	if escaped := url.QueryEscape(key); escaped != key {
		msg = strings.ReplaceAll(msg, escaped, redacted)
	}
	return msg
}
