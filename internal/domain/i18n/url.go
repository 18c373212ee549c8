package i18n

import (
	"net/url"
	"strings"
)

// WithLang 设置页面地址中的 lang 查询参数，其余参数保持不变
func WithLang(pageURL, lang string) (string, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("lang", lang)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// LangFromURL returns the lang query parameter, or "" when absent.
func LangFromURL(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	return u.Query().Get("lang")
}

// NavLink 丢弃原有查询串，只保留 lang
func NavLink(href, lang string) string {
	base, _, _ := strings.Cut(href, "?")
	return base + "?lang=" + lang
}
