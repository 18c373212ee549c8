package eventbus

import (
	"imgcaption/internal/platform/logging"
)

// LogHandler 把诊断事件写入日志
type LogHandler struct {
	logger *logging.Logger
}

func NewLogHandler(logger *logging.Logger) *LogHandler {
	return &LogHandler{logger: logger}
}

func (h *LogHandler) handleStarted(data GenerateEventData) {
	h.logger.DebugTag("客户端", "生成开始 id=%s type=%s lang=%s tone=%s",
		data.RequestID, data.MIMEType, data.Language, data.Tone)
}

func (h *LogHandler) handleCompleted(data GenerateEventData) {
	h.logger.InfoTag("客户端", "生成完成 id=%s 用时=%s", data.RequestID, data.Duration)
}

func (h *LogHandler) handleFailed(data GenerateEventData) {
	h.logger.WarnTag("客户端", "生成失败 id=%s err=%s", data.RequestID, data.Error)
}

func (h *LogHandler) handleDiscarded(data GenerateEventData) {
	h.logger.DebugTag("客户端", "丢弃过期响应 id=%s", data.RequestID)
}

func (h *LogHandler) handleClipboardFailed(data ClipboardEventData) {
	h.logger.WarnTag("剪贴板", "复制失败 primary=%s fallback=%s", data.Primary, data.Fallback)
}

func (h *LogHandler) handleSystemError(data SystemEventData) {
	h.logger.ErrorTag("客户端", "系统错误: 级别=%s, 消息=%s", data.Level, data.Message)
}

// SetupLogHandlers 订阅全部诊断主题
func SetupLogHandlers(bus *AsyncEventBus, logger *logging.Logger) error {
	h := NewLogHandler(logger)
	subscriptions := map[string]interface{}{
		EventGenerateStarted:   h.handleStarted,
		EventGenerateCompleted: h.handleCompleted,
		EventGenerateFailed:    h.handleFailed,
		EventGenerateDiscarded: h.handleDiscarded,
		EventClipboardFailed:   h.handleClipboardFailed,
		EventSystemError:       h.handleSystemError,
	}
	for topic, fn := range subscriptions {
		if err := bus.Subscribe(topic, fn); err != nil {
			return err
		}
	}
	return nil
}
