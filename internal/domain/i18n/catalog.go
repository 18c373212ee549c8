// Package i18n loads the translation resource and answers the lookups the
// caption client needs: UI strings, error messages, language and tone options.
package i18n

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bytedance/sonic"
	"github.com/bytedance/sonic/ast"
)

const (
	// DefaultLanguage 未知语言时回退到中文
	DefaultLanguage = "zh"
	// DefaultPageTitle 翻译缺少 pageTitle 时使用
	DefaultPageTitle = "AI Image Caption Generator"

	keyPageTitle       = "pageTitle"
	keyLanguageOptions = "languageOptions"
	keyToneLabel       = "toneLabel"
	keyErrorGeneric    = "errorGeneric"
	tonePrefix         = "tone"
)

// Option 下拉选项：Value 写入请求，Label 用于展示
type Option struct {
	Value string
	Label string
}

// Table 单一语言的翻译，保留文件中的键顺序
type Table struct {
	keys            []string
	values          map[string]string
	languageOptions []Option
}

func newTable() *Table {
	return &Table{values: make(map[string]string)}
}

func (t *Table) set(key, value string) {
	if _, ok := t.values[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.values[key] = value
}

// Get returns the string stored under key.
func (t *Table) Get(key string) (string, bool) {
	if t == nil {
		return "", false
	}
	v, ok := t.values[key]
	return v, ok
}

// Keys 返回字符串键，按文件顺序
func (t *Table) Keys() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.keys...)
}

// Catalog 全部语言的翻译
type Catalog struct {
	languages []string
	tables    map[string]*Table
	fallback  bool
}

// Parse decodes translations.json. Key order is kept because language and
// tone options are presented in file order.
func Parse(data []byte) (*Catalog, error) {
	if !sonic.Valid(data) {
		return nil, fmt.Errorf("translations: invalid JSON")
	}
	root, err := sonic.Get(data)
	if err != nil {
		return nil, fmt.Errorf("translations: %w", err)
	}
	if root.TypeSafe() != ast.V_OBJECT {
		return nil, fmt.Errorf("translations: top level must be an object")
	}

	c := &Catalog{tables: make(map[string]*Table)}
	var parseErr error
	err = root.ForEach(func(path ast.Sequence, node *ast.Node) bool {
		lang := *path.Key
		table, err := parseTable(node)
		if err != nil {
			parseErr = fmt.Errorf("translations[%s]: %w", lang, err)
			return false
		}
		if _, exists := c.tables[lang]; !exists {
			c.languages = append(c.languages, lang)
		}
		c.tables[lang] = table
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("translations: %w", err)
	}
	if parseErr != nil {
		return nil, parseErr
	}
	return c, nil
}

func parseTable(node *ast.Node) (*Table, error) {
	if node.TypeSafe() != ast.V_OBJECT {
		return nil, fmt.Errorf("language entry must be an object")
	}
	table := newTable()
	var innerErr error
	err := node.ForEach(func(path ast.Sequence, value *ast.Node) bool {
		key := *path.Key
		switch value.TypeSafe() {
		case ast.V_STRING:
			s, err := value.String()
			if err != nil {
				innerErr = err
				return false
			}
			table.set(key, s)
		case ast.V_OBJECT:
			if key != keyLanguageOptions {
				return true
			}
			opts, err := parseOptions(value)
			if err != nil {
				innerErr = err
				return false
			}
			table.languageOptions = opts
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return table, innerErr
}

func parseOptions(node *ast.Node) ([]Option, error) {
	opts := []Option{}
	var innerErr error
	err := node.ForEach(func(path ast.Sequence, value *ast.Node) bool {
		if value.TypeSafe() != ast.V_STRING {
			return true
		}
		label, err := value.String()
		if err != nil {
			innerErr = err
			return false
		}
		opts = append(opts, Option{Value: *path.Key, Label: label})
		return true
	})
	if err != nil {
		return nil, err
	}
	return opts, innerErr
}

// Fallback 翻译加载失败时使用的两语言表，只含三条错误提示
func Fallback() *Catalog {
	en := newTable()
	en.set("errorGeneric", "An unexpected error occurred.")
	en.set("errorAPI", "AI is on strike.")
	en.set("errorFormat", "Unsupported file format.")

	zh := newTable()
	zh.set("errorGeneric", "发生未知错误。")
	zh.set("errorAPI", "AI 罢工了。")
	zh.set("errorFormat", "不支持的文件格式。")

	return &Catalog{
		languages: []string{"en", "zh"},
		tables:    map[string]*Table{"en": en, "zh": zh},
		fallback:  true,
	}
}

// IsFallback reports whether this is the built-in fallback table.
func (c *Catalog) IsFallback() bool {
	return c.fallback
}

// Languages 返回文件中的语言代码
func (c *Catalog) Languages() []string {
	return append([]string(nil), c.languages...)
}

func (c *Catalog) Has(lang string) bool {
	_, ok := c.tables[lang]
	return ok
}

func (c *Catalog) Table(lang string) *Table {
	return c.tables[lang]
}

// Resolve 返回实际生效的语言：已知语言原样返回，否则为 zh
func (c *Catalog) Resolve(lang string) string {
	if c.Has(lang) {
		return lang
	}
	return DefaultLanguage
}

// Text 界面文案；空字符串视为缺失
func (c *Catalog) Text(lang, key string) (string, bool) {
	v, ok := c.Table(lang).Get(key)
	return v, ok && v != ""
}

func (c *Catalog) PageTitle(lang string) string {
	if v, ok := c.Text(lang, keyPageTitle); ok {
		return v
	}
	return DefaultPageTitle
}

// LanguageOptions returns the caption-language choices, falling back to the
// English table when the language has none.
func (c *Catalog) LanguageOptions(lang string) []Option {
	if t := c.Table(lang); t != nil && t.languageOptions != nil {
		return append([]Option(nil), t.languageOptions...)
	}
	if t := c.Table("en"); t != nil && t.languageOptions != nil {
		return append([]Option(nil), t.languageOptions...)
	}
	return nil
}

// ToneOptions 以 tone 开头的键（toneLabel 除外），值为去掉前缀后首字母大写
func (c *Catalog) ToneOptions(lang string) []Option {
	t := c.Table(lang)
	if t == nil {
		return nil
	}
	var opts []Option
	for _, key := range t.keys {
		if !strings.HasPrefix(key, tonePrefix) || key == keyToneLabel {
			continue
		}
		opts = append(opts, Option{Value: ToneValue(key), Label: t.values[key]})
	}
	return opts
}

// ToneValue derives the tone tag from its key, e.g. toneFunny -> Funny.
func ToneValue(key string) string {
	rest := strings.TrimPrefix(key, tonePrefix)
	r, size := utf8.DecodeRuneInString(rest)
	if r == utf8.RuneError {
		return rest
	}
	return string(unicode.ToUpper(r)) + rest[size:]
}

// Message 查找错误提示：当前语言，缺表时用 zh；键缺失时用 errorGeneric
func (c *Catalog) Message(lang, key string) string {
	t := c.Table(lang)
	if t == nil {
		t = c.Table(DefaultLanguage)
	}
	if v, ok := t.Get(key); ok && v != "" {
		return v
	}
	if v, ok := t.Get(keyErrorGeneric); ok && v != "" {
		return v
	}
	if !c.fallback {
		return Fallback().Message(lang, key)
	}
	return key
}
