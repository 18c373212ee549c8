package observability

import (
	"context"
	"log/slog"
	"sync"
)

// Config captures observability toggles.
type Config struct {
	// Enabled 打开 span/metric 调试日志
	Enabled bool
	// Metrics 注册 Prometheus 采集器
	Metrics bool
}

// ShutdownFunc allows callers to tear down any observability exporters.
type ShutdownFunc func(context.Context) error

var (
	loggerMu             sync.RWMutex
	instrumentationLog   *slog.Logger
	instrumentationState Config
)

func currentLogger() (*slog.Logger, Config) {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return instrumentationLog, instrumentationState
}

// Setup wires span logging and, when requested, the Prometheus collectors.
func Setup(ctx context.Context, cfg Config, logger *slog.Logger) (ShutdownFunc, error) {
	loggerMu.Lock()
	instrumentationLog = logger
	instrumentationState = cfg
	loggerMu.Unlock()

	if cfg.Metrics {
		RegisterMetrics()
	}

	if logger != nil {
		logger.InfoContext(ctx, "[可观测性] 初始化完成",
			slog.Bool("spans", cfg.Enabled),
			slog.Bool("metrics", cfg.Metrics),
		)
	}
	return func(context.Context) error {
		loggerMu.Lock()
		instrumentationLog = nil
		instrumentationState = Config{}
		loggerMu.Unlock()
		return nil
	}, nil
}
