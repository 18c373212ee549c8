package caption

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imgcaption/internal/domain/prompt"
	platformtesting "imgcaption/internal/platform/testing"
)

func writeAssets(t *testing.T, translations, template string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "translations.json"), []byte(translations), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "prompt.txt"), []byte(template), 0o644))
	return dir
}

func TestLoadResources_FromDir(t *testing.T) {
	cfg := platformtesting.SetupTestConfig(t)
	cfg.Client.AssetsDir = writeAssets(t, testTranslations, testTemplate)

	res := LoadResources(context.Background(), cfg.Client, nil, platformtesting.SetupTestLogger(t))
	assert.False(t, res.Catalog.IsFallback())
	assert.Equal(t, []string{"zh", "en"}, res.Catalog.Languages())
	assert.Equal(t, testTemplate, res.Template.String())
}

func TestLoadResources_FromURL(t *testing.T) {
	dir := writeAssets(t, testTranslations, testTemplate)
	srv := httptest.NewServer(http.FileServer(http.Dir(dir)))
	defer srv.Close()

	cfg := platformtesting.SetupTestConfig(t)
	cfg.Client.AssetsDir = srv.URL + "/"

	res := LoadResources(context.Background(), cfg.Client, srv.Client(), platformtesting.SetupTestLogger(t))
	assert.False(t, res.Catalog.IsFallback())
	assert.Equal(t, testTemplate, res.Template.String())
}

func TestLoadResources_Fallbacks(t *testing.T) {
	cfg := platformtesting.SetupTestConfig(t)
	cfg.Client.AssetsDir = t.TempDir()

	res := LoadResources(context.Background(), cfg.Client, nil, platformtesting.SetupTestLogger(t))
	assert.True(t, res.Catalog.IsFallback())
	assert.Equal(t, "AI 罢工了。", res.Catalog.Message("zh", "errorAPI"))
	assert.Equal(t, prompt.FallbackTemplate, res.Template.String())

	// 翻译文件损坏同样回退
	cfg.Client.AssetsDir = writeAssets(t, `{"zh": `, testTemplate)
	res = LoadResources(context.Background(), cfg.Client, nil, platformtesting.SetupTestLogger(t))
	assert.True(t, res.Catalog.IsFallback())
	assert.Equal(t, testTemplate, res.Template.String())
}

func TestLoadResources_HTTPErrorFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	cfg := platformtesting.SetupTestConfig(t)
	cfg.Client.AssetsDir = srv.URL

	res := LoadResources(context.Background(), cfg.Client, srv.Client(), platformtesting.SetupTestLogger(t))
	assert.True(t, res.Catalog.IsFallback())
	assert.False(t, res.Template.Empty())
}
