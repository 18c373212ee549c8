// Package terminal is a line-oriented front-end for the caption client.
package terminal

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"imgcaption/internal/app/caption"
	"imgcaption/internal/domain/i18n"
)

// View 把状态变化打印到终端，只输出与上一次不同的部分
type View struct {
	mu    sync.Mutex
	out   io.Writer
	prev  *caption.Snapshot
	color bool
}

func NewView(out io.Writer, color bool) *View {
	return &View{out: out, color: color}
}

func (v *View) Render(s caption.Snapshot) {
	v.mu.Lock()
	defer v.mu.Unlock()

	prev := v.prev
	v.prev = &s

	if prev == nil || prev.UILanguage != s.UILanguage {
		v.printf("%s %s (%s)\n", s.Flag, s.Title, s.UILanguage)
	}
	if s.Image != nil && (prev == nil || prev.Image != s.Image) {
		v.printf("  已加载 %s [%s] %d 字节", s.Image.Name, s.Image.MIMEType, len(s.Image.Bytes))
		if s.Image.Width > 0 {
			v.printf(" %dx%d", s.Image.Width, s.Image.Height)
		}
		v.printf("\n")
	}
	if prev != nil && prev.Image != nil && s.Image == nil {
		v.printf("  已重置\n")
	}
	if prev != nil && prev.Extra != s.Extra {
		v.printf("  %s\n", s.Counter)
	}
	if s.Loading && (prev == nil || !prev.Loading) {
		v.printf("  生成中...\n")
	}
	if s.ResultVisible && (prev == nil || !prev.ResultVisible || prev.Result != s.Result) {
		v.printf("%s\n", v.paint("\x1b[92m", s.Result))
	}
	if s.ToastMessage != "" && (prev == nil || prev.ToastSeq != s.ToastSeq) {
		v.printf("%s\n", v.paint("\x1b[31m", "! "+s.ToastMessage))
	}
	if s.CopyFeedback && (prev == nil || !prev.CopyFeedback) {
		v.printf("  ✓ 已复制\n")
	}
}

// Options 打印当前可选的语言和语气
func (v *View) Options(s caption.Snapshot) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.printf("language: %s\n", formatOptions(s.LanguageOptions, s.Language))
	v.printf("tone:     %s\n", formatOptions(s.ToneOptions, s.Tone))
	codes := make([]string, 0, len(s.Menu))
	for _, m := range s.Menu {
		codes = append(codes, fmt.Sprintf("%s %s(%s)", m.Flag, m.Name, m.Code))
	}
	v.printf("ui:       %s\n", strings.Join(codes, "  "))
	v.printf("extra:    %q %s\n", s.Extra, s.Counter)
	v.printf("phase:    %s\n", s.Phase)
	if s.PageURL != "" {
		v.printf("page:     %s\n", s.PageURL)
	}
}

func formatOptions(opts []i18n.Option, selected string) string {
	if len(opts) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(opts))
	for _, o := range opts {
		item := o.Value
		if o.Label != "" && o.Label != o.Value {
			item = fmt.Sprintf("%s(%s)", o.Value, o.Label)
		}
		if o.Value == selected {
			item = "*" + item
		}
		parts = append(parts, item)
	}
	return strings.Join(parts, "  ")
}

func (v *View) paint(code, text string) string {
	if !v.color {
		return text
	}
	return code + text + "\x1b[0m"
}

func (v *View) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(v.out, format, args...)
}
