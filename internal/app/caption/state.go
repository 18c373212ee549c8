// Package caption is the image-caption client: session state, the event
// dispatch table, the controller that drives it and the relay client.
package caption

import (
	"unicode/utf8"

	"imgcaption/internal/domain/i18n"
	"imgcaption/internal/domain/image"
)

// Phase 生成周期中的界面阶段
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseImageLoaded
	PhaseGenerating
	PhaseResultShown
	PhaseErrorShown
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseImageLoaded:
		return "image_loaded"
	case PhaseGenerating:
		return "generating"
	case PhaseResultShown:
		return "result_shown"
	case PhaseErrorShown:
		return "error_shown"
	default:
		return "unknown"
	}
}

// State 客户端全部状态，只由 Controller 持有并通过 Apply 变更
type State struct {
	Phase Phase

	// 会话数据
	Image    *image.Image
	Language string // 目标文案语言（languageOptions 的值）
	Tone     string
	Extra    string
	Result   string

	// 界面语言与页面地址
	UILanguage string
	PageURL    string

	// 进行中的请求标识，空表示没有请求
	RequestID string
	Loading   bool

	ResultVisible bool
	// ToastKey 当前提示的消息键，空表示隐藏；ToastSeq 用于匹配到期事件
	ToastKey     string
	ToastSeq     int
	CopyFeedback bool
	CopySeq      int

	ExtraLimit int
}

// CanGenerate reports whether the generate control is enabled. An image
// without bytes never produces a request.
func (s State) CanGenerate() bool {
	return s.Image != nil && len(s.Image.Bytes) > 0 && !s.Loading
}

// ExtraCount 额外说明的字符数（按 rune 计）
func (s State) ExtraCount() int {
	return utf8.RuneCountInString(s.Extra)
}

type EventType string

const (
	EventImageAccepted       EventType = "image_accepted"
	EventImageRejected       EventType = "image_rejected"
	EventUILanguageChanged   EventType = "ui_language_changed"
	EventLanguageSelected    EventType = "language_selected"
	EventToneSelected        EventType = "tone_selected"
	EventExtraChanged        EventType = "extra_changed"
	EventGenerateStarted     EventType = "generate_started"
	EventGenerateSucceeded   EventType = "generate_succeeded"
	EventGenerateFailed      EventType = "generate_failed"
	EventReset               EventType = "reset"
	EventToastExpired        EventType = "toast_expired"
	EventCopied              EventType = "copied"
	EventCopyFeedbackExpired EventType = "copy_feedback_expired"
)

// Event 界面事件，字段按类型取用
type Event struct {
	Type       EventType
	Image      *image.Image
	Value      string
	RequestID  string
	MessageKey string
	Seq        int
	PageURL    string
	Languages  []i18n.Option
	Tones      []i18n.Option
}

type transition func(State, Event) State

var transitions = map[EventType]transition{
	EventImageAccepted:       onImageAccepted,
	EventImageRejected:       showToast,
	EventUILanguageChanged:   onUILanguageChanged,
	EventLanguageSelected:    onLanguageSelected,
	EventToneSelected:        onToneSelected,
	EventExtraChanged:        onExtraChanged,
	EventGenerateStarted:     onGenerateStarted,
	EventGenerateSucceeded:   onGenerateSucceeded,
	EventGenerateFailed:      onGenerateFailed,
	EventReset:               onReset,
	EventToastExpired:        onToastExpired,
	EventCopied:              onCopied,
	EventCopyFeedbackExpired: onCopyFeedbackExpired,
}

// Apply 纯函数：返回事件作用后的新状态，未知事件原样返回
func Apply(s State, e Event) State {
	fn, ok := transitions[e.Type]
	if !ok {
		return s
	}
	return fn(s, e)
}

// onImageAccepted 新图片替换旧图片，同时放弃进行中的请求
func onImageAccepted(s State, e Event) State {
	if e.Image == nil {
		return s
	}
	s.Image = e.Image
	s.Phase = PhaseImageLoaded
	s.Result = ""
	s.ResultVisible = false
	s.RequestID = ""
	s.Loading = false
	return s
}

func showToast(s State, e Event) State {
	s.ToastKey = e.MessageKey
	s.ToastSeq++
	return s
}

func onUILanguageChanged(s State, e Event) State {
	s.UILanguage = e.Value
	if e.PageURL != "" {
		s.PageURL = e.PageURL
	}
	s.Language = keepOrFirst(s.Language, e.Languages)
	s.Tone = keepOrFirst(s.Tone, e.Tones)
	return s
}

func keepOrFirst(current string, opts []i18n.Option) string {
	if len(opts) == 0 {
		return current
	}
	for _, o := range opts {
		if o.Value == current {
			return current
		}
	}
	return opts[0].Value
}

func onLanguageSelected(s State, e Event) State {
	s.Language = e.Value
	return s
}

func onToneSelected(s State, e Event) State {
	s.Tone = e.Value
	return s
}

func onExtraChanged(s State, e Event) State {
	s.Extra = truncateRunes(e.Value, s.ExtraLimit)
	return s
}

func truncateRunes(v string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(v) <= limit {
		return v
	}
	return string([]rune(v)[:limit])
}

func onGenerateStarted(s State, e Event) State {
	if !s.CanGenerate() || e.RequestID == "" {
		return s
	}
	s.Phase = PhaseGenerating
	s.RequestID = e.RequestID
	s.Loading = true
	s.ResultVisible = false
	return s
}

// onGenerateSucceeded 只接受与进行中请求标识一致的结果
func onGenerateSucceeded(s State, e Event) State {
	if s.RequestID == "" || e.RequestID != s.RequestID {
		return s
	}
	s.Phase = PhaseResultShown
	s.RequestID = ""
	s.Loading = false
	s.Result = e.Value
	s.ResultVisible = true
	return s
}

func onGenerateFailed(s State, e Event) State {
	if s.RequestID == "" || e.RequestID != s.RequestID {
		return s
	}
	s.Phase = PhaseErrorShown
	s.RequestID = ""
	s.Loading = false
	return showToast(s, e)
}

// onReset 清空会话数据；语言和语气选择保留
func onReset(s State, _ Event) State {
	s.Phase = PhaseIdle
	s.Image = nil
	s.Extra = ""
	s.Result = ""
	s.ResultVisible = false
	s.RequestID = ""
	s.Loading = false
	s.CopyFeedback = false
	return s
}

func onToastExpired(s State, e Event) State {
	if e.Seq == s.ToastSeq {
		s.ToastKey = ""
	}
	return s
}

func onCopied(s State, _ Event) State {
	s.CopyFeedback = true
	s.CopySeq++
	return s
}

func onCopyFeedbackExpired(s State, e Event) State {
	if e.Seq == s.CopySeq {
		s.CopyFeedback = false
	}
	return s
}
