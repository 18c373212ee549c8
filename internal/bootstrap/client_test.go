package bootstrap

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeClientFixtures(t *testing.T) (configPath, imagePath string) {
	t.Helper()
	dir := t.TempDir()
	assets := filepath.Join(dir, "web")
	require.NoError(t, os.MkdirAll(assets, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(assets, "prompt.txt"), []byte("Describe. Language: {{lang}}. Tone: {{tone}}. {{extra_instructions}}"), 0o644))

	content := strings.Join([]string{
		"log:",
		"  log_level: \"info\"",
		"  log_dir: \"" + filepath.ToSlash(filepath.Join(dir, "logs")) + "\"",
		"  log_file: \"client.log\"",
		"client:",
		"  assets_dir: \"" + filepath.ToSlash(assets) + "\"",
		"  page_url: \"https://imgcaption.test/?lang=en\"",
		"metrics:",
		"  enabled: false",
		"",
	}, "\n")
	configPath = filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	imagePath = filepath.Join(dir, "red.png")
	require.NoError(t, os.WriteFile(imagePath, buf.Bytes(), 0o644))
	return configPath, imagePath
}

func TestRunClientOneShot(t *testing.T) {
	configPath, imagePath := writeClientFixtures(t)

	var got string
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		got = string(body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"parts":[{"text":"  A red square.  "}]}}]}`)
	}))
	defer relay.Close()

	var out bytes.Buffer
	err := RunClient(context.Background(), ClientOptions{
		ConfigPath: configPath,
		RelayURL:   relay.URL,
		ImagePath:  imagePath,
		Extra:      "short",
		In:         strings.NewReader(""),
		Out:        &out,
		LogConsole: io.Discard,
	})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "A red square.")
	assert.Contains(t, got, `"mimeType":"image/png"`)
	assert.Contains(t, got, "Additional instructions: short")
}

func TestRunClientOneShotRelayFailure(t *testing.T) {
	configPath, imagePath := writeClientFixtures(t)

	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer relay.Close()

	var out bytes.Buffer
	err := RunClient(context.Background(), ClientOptions{
		ConfigPath: configPath,
		RelayURL:   relay.URL,
		ImagePath:  imagePath,
		In:         strings.NewReader(""),
		Out:        &out,
		LogConsole: io.Discard,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestRunClientREPL(t *testing.T) {
	configPath, _ := writeClientFixtures(t)

	var out bytes.Buffer
	err := RunClient(context.Background(), ClientOptions{
		ConfigPath: configPath,
		RelayURL:   "http://127.0.0.1:1/api/generate",
		In:         strings.NewReader("help\ngenerate\nquit\n"),
		Out:        &out,
		LogConsole: io.Discard,
	})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "generate           生成文案")
	assert.Contains(t, out.String(), "请先选择图片")
}
