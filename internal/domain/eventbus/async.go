package eventbus

import (
	"sync"

	evbus "github.com/asaskevich/EventBus"

	"imgcaption/internal/platform/logging"
)

// AsyncEventBus 异步事件总线
type AsyncEventBus struct {
	bus       evbus.Bus
	workerNum int
	workChan  chan asyncEvent
	stopChan  chan struct{}
	wg        sync.WaitGroup
	pending   sync.WaitGroup
	startOnce sync.Once
	stopOnce  sync.Once
	logger    *logging.Logger

	// stopped 之后 PublishAsync 直接丢弃，避免 pending 计数无人归还
	mu      sync.RWMutex
	stopped bool
}

type asyncEvent struct {
	topic string
	args  []interface{}
}

// NewAsyncEventBus 创建异步事件总线
func NewAsyncEventBus(workerNum int, logger *logging.Logger) *AsyncEventBus {
	if workerNum <= 0 {
		workerNum = defaultWorkers
	}

	return &AsyncEventBus{
		bus:       evbus.New(),
		workerNum: workerNum,
		workChan:  make(chan asyncEvent, 256),
		stopChan:  make(chan struct{}),
		logger:    logger,
	}
}

// Start 启动异步处理，可重复调用
func (aeb *AsyncEventBus) Start() {
	aeb.startOnce.Do(func() {
		for i := 0; i < aeb.workerNum; i++ {
			aeb.wg.Add(1)
			go aeb.worker()
		}
	})
}

// Stop 等待已入队事件处理完毕后停止
func (aeb *AsyncEventBus) Stop() {
	aeb.stopOnce.Do(func() {
		aeb.mu.Lock()
		aeb.stopped = true
		aeb.mu.Unlock()

		aeb.pending.Wait()
		close(aeb.stopChan)
		aeb.wg.Wait()
	})
}

func (aeb *AsyncEventBus) worker() {
	defer aeb.wg.Done()

	for {
		select {
		case <-aeb.stopChan:
			return
		case event := <-aeb.workChan:
			aeb.dispatch(event)
		}
	}
}

func (aeb *AsyncEventBus) dispatch(event asyncEvent) {
	defer aeb.pending.Done()
	defer func() {
		if r := recover(); r != nil {
			aeb.logger.ErrorTag("客户端", "事件处理 panic: topic=%s err=%v", event.topic, r)
		}
	}()
	aeb.bus.Publish(event.topic, event.args...)
}

// Publish 同步发布
func (aeb *AsyncEventBus) Publish(topic string, args ...interface{}) {
	aeb.bus.Publish(topic, args...)
}

// PublishAsync 入队发布，队列满或总线已停止时丢弃
func (aeb *AsyncEventBus) PublishAsync(topic string, args ...interface{}) {
	aeb.mu.RLock()
	defer aeb.mu.RUnlock()
	if aeb.stopped {
		aeb.logger.WarnTag("客户端", "事件总线已停止，丢弃事件: %s", topic)
		return
	}

	aeb.pending.Add(1)
	select {
	case aeb.workChan <- asyncEvent{topic: topic, args: args}:
	default:
		aeb.pending.Done()
		aeb.logger.WarnTag("客户端", "事件队列已满，丢弃事件: %s", topic)
	}
}

// Subscribe fn's parameters must match what publishers pass for the topic.
func (aeb *AsyncEventBus) Subscribe(topic string, fn interface{}) error {
	return aeb.bus.Subscribe(topic, fn)
}

func (aeb *AsyncEventBus) Unsubscribe(topic string, handler interface{}) error {
	return aeb.bus.Unsubscribe(topic, handler)
}

// HasCallback 检查是否有订阅者
func (aeb *AsyncEventBus) HasCallback(topic string) bool {
	return aeb.bus.HasCallback(topic)
}

// Wait 阻塞直到已入队事件全部处理完
func (aeb *AsyncEventBus) Wait() {
	aeb.pending.Wait()
}
