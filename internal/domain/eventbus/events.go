package eventbus

import "time"

// 事件主题
const (
	// 生成流程
	EventGenerateStarted   = "caption:generate:started"
	EventGenerateCompleted = "caption:generate:completed"
	EventGenerateFailed    = "caption:generate:failed"
	// 请求标识不匹配（已重置或被新请求取代）时丢弃的响应
	EventGenerateDiscarded = "caption:generate:discarded"

	EventClipboardFailed = "clipboard:failed"

	EventSystemError = "system:error"
)

// GenerateEventData 单次生成请求的诊断信息，不含图片数据
type GenerateEventData struct {
	RequestID string        `json:"request_id"`
	MIMEType  string        `json:"mime_type,omitempty"`
	Language  string        `json:"language,omitempty"`
	Tone      string        `json:"tone,omitempty"`
	Text      string        `json:"text,omitempty"`
	Error     string        `json:"error,omitempty"`
	Duration  time.Duration `json:"duration,omitempty"`
}

type ClipboardEventData struct {
	Primary  string `json:"primary"`
	Fallback string `json:"fallback"`
}

type SystemEventData struct {
	Level   string      `json:"level"` // error, warn, info
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
