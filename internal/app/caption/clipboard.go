package caption

import (
	"encoding/base64"
	stderrors "errors"
	"fmt"
	"io"

	"github.com/atotto/clipboard"

	"imgcaption/internal/platform/logging"
)

// ClipboardWriter 一种复制到剪贴板的方式
type ClipboardWriter interface {
	Name() string
	Available() bool
	WriteText(text string) error
}

var errUnavailable = stderrors.New("not available")

// SystemClipboard 系统剪贴板（xclip/xsel/wl-copy、pbcopy 或 Windows API）
type SystemClipboard struct{}

func (SystemClipboard) Name() string { return "system" }

func (SystemClipboard) Available() bool { return !clipboard.Unsupported }

func (SystemClipboard) WriteText(text string) error {
	return clipboard.WriteAll(text)
}

// OSC52Clipboard 通过终端转义序列 OSC 52 写剪贴板，适用于 SSH 等无系统剪贴板的场景
type OSC52Clipboard struct {
	Out io.Writer
}

func (o OSC52Clipboard) Name() string { return "osc52" }

func (o OSC52Clipboard) Available() bool { return o.Out != nil }

func (o OSC52Clipboard) WriteText(text string) error {
	seq := "\x1b]52;c;" + base64.StdEncoding.EncodeToString([]byte(text)) + "\a"
	_, err := io.WriteString(o.Out, seq)
	return err
}

// Clipboard tries the primary writer and falls back to the secondary one.
type Clipboard struct {
	primary  ClipboardWriter
	fallback ClipboardWriter
	logger   *logging.Logger
}

func NewClipboard(primary, fallback ClipboardWriter, logger *logging.Logger) *Clipboard {
	return &Clipboard{primary: primary, fallback: fallback, logger: logger}
}

// CopyError 两种方式都失败
type CopyError struct {
	Primary  error
	Fallback error
}

func (e *CopyError) Error() string {
	return fmt.Sprintf("clipboard copy failed: primary: %v; fallback: %v", e.Primary, e.Fallback)
}

// Copy 返回实际使用的方式名
func (c *Clipboard) Copy(text string) (string, error) {
	primaryErr := attempt(c.primary, text)
	if primaryErr == nil {
		return c.primary.Name(), nil
	}
	c.logger.DebugTag("剪贴板", "主剪贴板不可用，尝试备用方式: %v", primaryErr)

	fallbackErr := attempt(c.fallback, text)
	if fallbackErr == nil {
		return c.fallback.Name(), nil
	}
	return "", &CopyError{Primary: primaryErr, Fallback: fallbackErr}
}

func attempt(w ClipboardWriter, text string) error {
	if w == nil || !w.Available() {
		return errUnavailable
	}
	return w.WriteText(text)
}
