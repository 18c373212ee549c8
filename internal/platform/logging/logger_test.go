package logging

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T, level, file string) (*Logger, *bytes.Buffer, string) {
	t.Helper()
	tmpDir := t.TempDir()
	console := &bytes.Buffer{}
	logger, err := New(Config{
		Level:    level,
		Dir:      tmpDir,
		Filename: file,
		Console:  console,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = logger.Close() })
	return logger, console, filepath.Join(tmpDir, file)
}

func TestNew_CreatesFile(t *testing.T) {
	logger, _, path := newTestLogger(t, "debug", "test.log")
	assert.NotNil(t, logger)

	_, err := os.Stat(path)
	assert.NoError(t, err)
	assert.NoError(t, logger.Close())
	assert.NoError(t, logger.Close(), "second close must be a no-op")
}

func TestLogger_LevelsWriteToFile(t *testing.T) {
	logger, _, path := newTestLogger(t, "debug", "levels.log")

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	for _, msg := range []string{"debug message", "info message", "warn message", "error message"} {
		assert.Contains(t, string(content), msg)
	}
}

func TestLogger_FormatArgs(t *testing.T) {
	logger, console, path := newTestLogger(t, "info", "format.log")

	logger.Info("上游返回 %d (%s)", 503, "150ms")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "上游返回 503 (150ms)")
	assert.Contains(t, console.String(), "上游返回 503 (150ms)")
}

func TestLogger_TagsAndConsoleColour(t *testing.T) {
	logger, console, path := newTestLogger(t, "debug", "tag.log")

	logger.InfoTag("中继", "收到请求")
	logger.InfoTag("客户端", "生成耗时 %dms", 120)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "[中继] 收到请求")
	assert.Contains(t, string(content), "[客户端] 生成耗时 120ms")
	assert.Contains(t, console.String(), tagColors["[中继]"]+"[中继] 收到请求")
}

func TestLogger_LogLevelFiltering(t *testing.T) {
	logger, _, path := newTestLogger(t, "error", "filter.log")

	logger.Debug("this should not appear")
	logger.Info("this should not appear either")
	logger.Warn("this should not appear")
	logger.Error("this should appear")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(content), "this should not appear")
	assert.Contains(t, string(content), "this should appear")
}

func TestLogger_FieldsMap(t *testing.T) {
	logger, _, path := newTestLogger(t, "info", "fields.log")

	logger.Info("relay call", map[string]interface{}{"status": 200, "path": "/api/generate"})

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"status":200`)
	assert.Contains(t, string(content), `"path":"/api/generate"`)
}

func TestFormatLog(t *testing.T) {
	assert.Equal(t, "[引导] 服务已启动", FormatLog("引导", "服务已启动"))
	assert.Equal(t, "服务已启动", FormatLog("", " 服务已启动 "))
	assert.Equal(t, "[HTTP] ok", FormatLog("引导", "[HTTP] ok"))
}

func TestNilLoggerIsSafe(t *testing.T) {
	var logger *Logger
	assert.NotPanics(t, func() {
		logger.InfoTag("客户端", "ignored")
		logger.Error("ignored")
	})
}

func TestConsoleHandler_Enabled(t *testing.T) {
	handler := &consoleHandler{
		writer: &strings.Builder{},
		level:  slog.LevelInfo,
	}

	assert.True(t, handler.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, handler.Enabled(context.Background(), slog.LevelError))
	assert.False(t, handler.Enabled(context.Background(), slog.LevelDebug))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, parseLevel(tt.input), "input: %s", tt.input)
	}
}

func TestLogger_ConcurrentLogging(t *testing.T) {
	logger, _, path := newTestLogger(t, "debug", "concurrent.log")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			logger.Info("concurrent message number", idx)
		}(i)
	}
	wg.Wait()

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 10, strings.Count(string(content), "concurrent message number"))
}

func TestCleanOldLogs(t *testing.T) {
	logger, _, path := newTestLogger(t, "info", "server.log")
	dir := filepath.Dir(path)

	old := filepath.Join(dir, "server-"+time.Now().AddDate(0, 0, -30).Format("2006-01-02")+".log")
	recent := filepath.Join(dir, "server-"+time.Now().AddDate(0, 0, -1).Format("2006-01-02")+".log")
	require.NoError(t, os.WriteFile(old, []byte("old"), 0o644))
	require.NoError(t, os.WriteFile(recent, []byte("recent"), 0o644))

	logger.cleanOldLogs()

	_, err := os.Stat(old)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(recent)
	assert.NoError(t, err)
}
