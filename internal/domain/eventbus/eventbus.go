package eventbus

import (
	"imgcaption/internal/platform/logging"
)

const defaultWorkers = 4

// New 创建并启动事件总线，调用方负责 Stop
func New(logger *logging.Logger) *AsyncEventBus {
	bus := NewAsyncEventBus(defaultWorkers, logger)
	bus.Start()
	return bus
}
