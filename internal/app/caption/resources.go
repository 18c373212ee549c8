package caption

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"imgcaption/internal/domain/i18n"
	"imgcaption/internal/domain/prompt"
	"imgcaption/internal/platform/config"
	"imgcaption/internal/platform/logging"
)

// Resources 启动时加载一次的外部资源
type Resources struct {
	Catalog  *i18n.Catalog
	Template prompt.Template
}

// LoadResources loads translations and the prompt template concurrently.
// Either one failing falls back to its built-in default; it never errors.
func LoadResources(ctx context.Context, cfg config.ClientConfig, client *http.Client, logger *logging.Logger) Resources {
	if client == nil {
		client = http.DefaultClient
	}
	res := Resources{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		data, err := fetchResource(gctx, client, cfg.AssetsDir, cfg.TranslationsFile)
		if err == nil {
			res.Catalog, err = i18n.Parse(data)
		}
		if err != nil {
			logger.ErrorTag("客户端", "加载翻译失败，使用内置回退: %v", err)
			res.Catalog = i18n.Fallback()
		}
		return nil
	})
	g.Go(func() error {
		data, err := fetchResource(gctx, client, cfg.AssetsDir, cfg.PromptFile)
		if err != nil {
			logger.ErrorTag("客户端", "加载提示词模板失败，使用内置模板: %v", err)
			res.Template = prompt.Fallback()
			return nil
		}
		res.Template = prompt.New(string(data))
		if res.Template.Empty() {
			logger.WarnTag("客户端", "提示词模板为空，生成将不可用")
		}
		if repeated := res.Template.Repeated(); len(repeated) > 0 {
			logger.WarnTag("客户端", "模板中占位符重复出现，只替换第一处: %v", repeated)
		}
		return nil
	})
	_ = g.Wait()

	return res
}

// fetchResource base 可以是目录或 http(s) 地址
func fetchResource(ctx context.Context, client *http.Client, base, name string) ([]byte, error) {
	if isHTTP(base) {
		u, err := url.JoinPath(base, name)
		if err != nil {
			return nil, err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, fmt.Errorf("HTTP error! status: %d", resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	}
	return os.ReadFile(filepath.Join(base, name))
}

func isHTTP(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
