package testing

import (
	"io"
	"testing"

	"imgcaption/internal/platform/config"
	"imgcaption/internal/platform/logging"
)

// TestAPIKey 测试用凭据，断言响应中不得出现
const TestAPIKey = "test-secret-key-123"

func SetupTestConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Server.IP = "127.0.0.1"
	cfg.Log = config.LogConfig{
		Level: "DEBUG",
		Dir:   t.TempDir(),
		File:  "test.log",
	}
	cfg.Relay.APIKey = TestAPIKey
	cfg.Web.StaticDir = t.TempDir()
	cfg.Metrics.Enabled = false

	return cfg
}

// SetupTestLogger 创建写入临时目录的日志，控制台输出被丢弃
func SetupTestLogger(t *testing.T) *logging.Logger {
	t.Helper()

	cfg := SetupTestConfig(t)
	logger, err := logging.New(logging.Config{
		Level:    cfg.Log.Level,
		Dir:      cfg.Log.Dir,
		Filename: cfg.Log.File,
		Console:  io.Discard,
	})
	if err != nil {
		t.Fatalf("failed to create test logger: %v", err)
	}
	t.Cleanup(func() { _ = logger.Close() })

	return logger
}
