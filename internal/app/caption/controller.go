package caption

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"imgcaption/internal/domain/eventbus"
	"imgcaption/internal/domain/i18n"
	"imgcaption/internal/domain/image"
	"imgcaption/internal/domain/prompt"
	"imgcaption/internal/platform/config"
	"imgcaption/internal/platform/errors"
	"imgcaption/internal/platform/logging"
)

var (
	// ErrNotReady 没有图片、模板不可用或已有请求进行中，生成为空操作
	ErrNotReady = stderrors.New("caption: generate is not available")
	// ErrDiscarded 响应到达时请求已被重置或取代
	ErrDiscarded = stderrors.New("caption: response discarded")
)

// Deps 控制器依赖
type Deps struct {
	Config    config.ClientConfig
	Resources Resources
	Acceptor  *image.Acceptor
	Relay     Relay
	Clipboard *Clipboard
	View      View
	Bus       *eventbus.AsyncEventBus
	Logger    *logging.Logger

	// AfterFunc 调度提示到期；回调在调用方持有锁时注册，不能同步执行
	AfterFunc func(time.Duration, func())
	NewID     func() string
}

// Controller owns the client state. Every mutation goes through dispatch,
// which applies the transition table and renders; mu serialises them.
type Controller struct {
	mu    sync.Mutex
	state State

	cfg       config.ClientConfig
	catalog   *i18n.Catalog
	template  prompt.Template
	acceptor  *image.Acceptor
	relay     Relay
	clipboard *Clipboard
	view      View
	bus       *eventbus.AsyncEventBus
	logger    *logging.Logger
	afterFunc func(time.Duration, func())
	newID     func() string
}

func NewController(deps Deps) (*Controller, error) {
	if deps.Acceptor == nil || deps.Relay == nil {
		return nil, errors.New(errors.KindConfig, "caption.new", "acceptor and relay are required")
	}
	if deps.Resources.Catalog == nil {
		deps.Resources.Catalog = i18n.Fallback()
	}
	if deps.View == nil {
		deps.View = ViewFunc(func(Snapshot) {})
	}
	if deps.AfterFunc == nil {
		deps.AfterFunc = func(d time.Duration, f func()) { time.AfterFunc(d, f) }
	}
	if deps.NewID == nil {
		deps.NewID = uuid.NewString
	}

	c := &Controller{
		cfg:       deps.Config,
		catalog:   deps.Resources.Catalog,
		template:  deps.Resources.Template,
		acceptor:  deps.Acceptor,
		relay:     deps.Relay,
		clipboard: deps.Clipboard,
		view:      deps.View,
		bus:       deps.Bus,
		logger:    deps.Logger,
		afterFunc: deps.AfterFunc,
		newID:     deps.NewID,
		state: State{
			PageURL:    deps.Config.PageURL,
			ExtraLimit: deps.Config.MaxExtraLength,
		},
	}
	return c, nil
}

// Start 按页面地址中的 lang（没有则用默认语言）设置界面语言并首次渲染
func (c *Controller) Start() {
	lang := i18n.LangFromURL(c.cfg.PageURL)
	if lang == "" {
		lang = c.cfg.DefaultLanguage
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dispatch(c.languageEvent(lang, false))
}

// State 返回当前状态副本
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return newSnapshot(c.state, c.catalog)
}

// dispatch 调用方必须持有 mu
func (c *Controller) dispatch(e Event) {
	c.state = Apply(c.state, e)
	c.view.Render(newSnapshot(c.state, c.catalog))
}

// AcceptImage validates and loads a file. A rejected file shows the format
// toast and leaves the session untouched.
func (c *Controller) AcceptImage(ctx context.Context, f image.File) error {
	img, err := c.acceptor.Accept(ctx, f)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.logger.WarnTag("客户端", "图片被拒绝 %s (%s): %v", f.Name, f.MIMEType, err)
		c.dispatch(Event{Type: EventImageRejected, MessageKey: errors.MessageKey(err)})
		c.scheduleToastExpiry()
		return err
	}
	if c.state.RequestID != "" {
		c.logger.DebugTag("客户端", "新图片取代进行中的请求 id=%s", c.state.RequestID)
	}
	c.dispatch(Event{Type: EventImageAccepted, Image: img})
	return nil
}

// SetUILanguage 切换界面语言；未知语言回退为 zh，页面地址中的 lang 参数写入实际生效的语言
func (c *Controller) SetUILanguage(lang string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dispatch(c.languageEvent(lang, true))
}

func (c *Controller) languageEvent(lang string, updateURL bool) Event {
	resolved := c.catalog.Resolve(lang)
	e := Event{
		Type:      EventUILanguageChanged,
		Value:     resolved,
		Languages: c.catalog.LanguageOptions(resolved),
		Tones:     c.catalog.ToneOptions(resolved),
	}
	if updateURL && c.state.PageURL != "" {
		if u, err := i18n.WithLang(c.state.PageURL, resolved); err == nil {
			e.PageURL = u
		} else {
			c.logger.WarnTag("客户端", "页面地址无效: %v", err)
		}
	}
	return e
}

// SelectLanguage 选择文案的目标语言
func (c *Controller) SelectLanguage(value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dispatch(Event{Type: EventLanguageSelected, Value: value})
}

func (c *Controller) SelectTone(value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dispatch(Event{Type: EventToneSelected, Value: value})
}

// SetExtra 超过上限的部分被截断
func (c *Controller) SetExtra(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dispatch(Event{Type: EventExtraChanged, Value: text})
}

// Generate issues one relay call and blocks until it completes. It returns
// ErrNotReady without side effects when generation is unavailable and
// ErrDiscarded when the session was reset or replaced meanwhile.
func (c *Controller) Generate(ctx context.Context) error {
	c.mu.Lock()
	if !c.state.CanGenerate() || c.template.Empty() {
		c.mu.Unlock()
		return ErrNotReady
	}
	id := c.newID()
	st := c.state
	req := Request{
		Prompt:   c.template.Build(st.Language, st.Tone, st.Extra),
		MIMEType: st.Image.MIMEType,
		Data:     st.Image.Bytes,
	}
	c.dispatch(Event{Type: EventGenerateStarted, RequestID: id})
	c.publish(eventbus.EventGenerateStarted, eventbus.GenerateEventData{
		RequestID: id,
		MIMEType:  req.MIMEType,
		Language:  st.Language,
		Tone:      st.Tone,
	})
	c.mu.Unlock()

	start := time.Now()
	// 无论成功、失败还是 panic 都要结束加载状态
	defer func() {
		if r := recover(); r != nil {
			c.finish(id, "", errors.New(errors.KindUnknown, "caption.generate", "relay panicked"), start)
			panic(r)
		}
	}()
	text, err := c.relay.Generate(ctx, req)
	return c.finish(id, text, err, start)
}

func (c *Controller) finish(id, text string, err error, start time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data := eventbus.GenerateEventData{RequestID: id, Duration: time.Since(start)}
	if c.state.RequestID != id {
		if err != nil {
			data.Error = err.Error()
		}
		c.publish(eventbus.EventGenerateDiscarded, data)
		return ErrDiscarded
	}

	if err != nil {
		data.Error = err.Error()
		c.logger.ErrorTag("客户端", "生成失败: %v", err)
		c.dispatch(Event{Type: EventGenerateFailed, RequestID: id, MessageKey: errors.MessageAPI})
		c.scheduleToastExpiry()
		c.publish(eventbus.EventGenerateFailed, data)
		return err
	}

	data.Text = text
	c.dispatch(Event{Type: EventGenerateSucceeded, RequestID: id, Value: text})
	c.publish(eventbus.EventGenerateCompleted, data)
	return nil
}

// Reset 清空会话；进行中的请求结果将被丢弃
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.RequestID != "" {
		c.logger.DebugTag("客户端", "重置时仍有请求进行中 id=%s", c.state.RequestID)
	}
	c.dispatch(Event{Type: EventReset})
}

// CopyResult 复制当前结果；失败只写日志和诊断事件，不提示用户
func (c *Controller) CopyResult() {
	c.mu.Lock()
	text := c.state.Result
	c.mu.Unlock()
	if text == "" || c.clipboard == nil {
		return
	}

	method, err := c.clipboard.Copy(text)
	if err != nil {
		c.logger.ErrorTag("剪贴板", "复制失败: %v", err)
		data := eventbus.ClipboardEventData{}
		var copyErr *CopyError
		if stderrors.As(err, &copyErr) {
			data.Primary = errString(copyErr.Primary)
			data.Fallback = errString(copyErr.Fallback)
		}
		c.publish(eventbus.EventClipboardFailed, data)
		return
	}
	c.logger.DebugTag("剪贴板", "已复制 (%s)", method)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.dispatch(Event{Type: EventCopied})
	seq := c.state.CopySeq
	c.afterFunc(c.cfg.CopyFeedbackDuration, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.dispatch(Event{Type: EventCopyFeedbackExpired, Seq: seq})
	})
}

// scheduleToastExpiry 调用方必须持有 mu
func (c *Controller) scheduleToastExpiry() {
	seq := c.state.ToastSeq
	c.afterFunc(c.cfg.ToastDuration, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.dispatch(Event{Type: EventToastExpired, Seq: seq})
	})
}

func (c *Controller) publish(topic string, data interface{}) {
	if c.bus == nil {
		return
	}
	c.bus.PublishAsync(topic, data)
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
