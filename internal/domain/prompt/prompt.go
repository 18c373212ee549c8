// Package prompt holds the caption prompt template and its placeholder
// substitution.
package prompt

import "strings"

const (
	PlaceholderLang  = "{{lang}}"
	PlaceholderTone  = "{{tone}}"
	PlaceholderExtra = "{{extra_instructions}}"
)

// FallbackTemplate 在 prompt.txt 不可用时使用
const FallbackTemplate = "You are a social media expert. Your task is to generate a single, concise sentence for the following image. Do not provide multiple options. Language: {{lang}}. Tone: {{tone}}. {{extra_instructions}}. The output must be only one sentence."

var placeholders = []string{PlaceholderLang, PlaceholderTone, PlaceholderExtra}

// Template 加载后不可变，Build 每次返回新字符串
type Template struct {
	text string
}

func New(text string) Template {
	return Template{text: text}
}

func Fallback() Template {
	return New(FallbackTemplate)
}

func (t Template) String() string {
	return t.text
}

// Empty reports whether no template text is available.
func (t Template) Empty() bool {
	return t.text == ""
}

// Build substitutes each placeholder once, at its first occurrence.
// Later occurrences of the same placeholder stay literal.
func (t Template) Build(lang, tone, extra string) string {
	out := strings.Replace(t.text, PlaceholderLang, lang, 1)
	out = strings.Replace(out, PlaceholderTone, tone, 1)
	return strings.Replace(out, PlaceholderExtra, ExtraInstructions(extra), 1)
}

// ExtraInstructions 非空时包装为 "Additional instructions: ..."，结果去除首尾空白
func ExtraInstructions(extra string) string {
	if extra == "" {
		return ""
	}
	return strings.TrimSpace("Additional instructions: " + extra)
}

// Repeated 返回出现多于一次的占位符，Build 只会替换其中第一个
func (t Template) Repeated() []string {
	var out []string
	for _, p := range placeholders {
		if strings.Count(t.text, p) > 1 {
			out = append(out, p)
		}
	}
	return out
}

// Missing 返回模板中缺失的占位符
func (t Template) Missing() []string {
	var out []string
	for _, p := range placeholders {
		if !strings.Contains(t.text, p) {
			out = append(out, p)
		}
	}
	return out
}
