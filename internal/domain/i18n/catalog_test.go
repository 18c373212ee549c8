package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJSON = `{
  "zh": {
    "pageTitle": "AI 图片配文生成器",
    "toneLabel": "语气",
    "toneFunny": "幽默",
    "tonePoetic": "诗意",
    "toneProfessional": "专业",
    "errorGeneric": "发生未知错误。",
    "errorAPI": "AI 罢工了。",
    "errorFormat": "不支持的文件格式。",
    "languageOptions": {"中文": "中文", "English": "英语", "日本語": "日语"}
  },
  "en": {
    "toneLabel": "Tone",
    "toneWitty": "Witty",
    "toneCasual": "Casual",
    "errorAPI": "AI is on strike.",
    "generateBtn": "",
    "languageOptions": {"English": "English", "Chinese": "Chinese"}
  },
  "fr": {
    "pageTitle": "Générateur",
    "toneFunny": "Drôle"
  }
}`

func mustParse(t *testing.T) *Catalog {
	t.Helper()
	c, err := Parse([]byte(sampleJSON))
	require.NoError(t, err)
	return c
}

func TestParse_KeepsOrder(t *testing.T) {
	c := mustParse(t)
	assert.Equal(t, []string{"zh", "en", "fr"}, c.Languages())
	assert.False(t, c.IsFallback())

	assert.Equal(t, []Option{
		{Value: "中文", Label: "中文"},
		{Value: "English", Label: "英语"},
		{Value: "日本語", Label: "日语"},
	}, c.LanguageOptions("zh"))

	assert.Equal(t, []Option{
		{Value: "Funny", Label: "幽默"},
		{Value: "Poetic", Label: "诗意"},
		{Value: "Professional", Label: "专业"},
	}, c.ToneOptions("zh"))
	assert.Equal(t, []string{"toneWitty", "toneCasual"}, c.Table("en").Keys()[1:3])
}

func TestParse_Errors(t *testing.T) {
	for _, input := range []string{``, `{`, `[]`, `{"en": "x"}`} {
		_, err := Parse([]byte(input))
		assert.Error(t, err, "input %q", input)
	}
}

func TestResolveAndTitle(t *testing.T) {
	c := mustParse(t)
	assert.Equal(t, "en", c.Resolve("en"))
	assert.Equal(t, "zh", c.Resolve("xx"))
	assert.Equal(t, "zh", c.Resolve(""))

	assert.Equal(t, "AI 图片配文生成器", c.PageTitle("zh"))
	assert.Equal(t, DefaultPageTitle, c.PageTitle("en"))
}

func TestLanguageOptions_FallsBackToEnglish(t *testing.T) {
	c := mustParse(t)
	assert.Equal(t, c.LanguageOptions("en"), c.LanguageOptions("fr"))
	assert.Nil(t, Fallback().LanguageOptions("zh"))
}

func TestText_EmptyIsMissing(t *testing.T) {
	c := mustParse(t)
	_, ok := c.Text("en", "generateBtn")
	assert.False(t, ok)
	v, ok := c.Text("en", "toneLabel")
	assert.True(t, ok)
	assert.Equal(t, "Tone", v)
}

func TestMessage(t *testing.T) {
	c := mustParse(t)
	assert.Equal(t, "AI is on strike.", c.Message("en", "errorAPI"))
	// 当前语言缺少键且无 errorGeneric：退回内置表
	assert.Equal(t, "Unsupported file format.", c.Message("en", "errorFormat"))
	// 未知语言用 zh 表
	assert.Equal(t, "不支持的文件格式。", c.Message("xx", "errorFormat"))
	// 键缺失用 errorGeneric
	assert.Equal(t, "发生未知错误。", c.Message("zh", "somethingElse"))
}

func TestFallback(t *testing.T) {
	c := Fallback()
	assert.True(t, c.IsFallback())
	assert.Equal(t, "AI 罢工了。", c.Message("zh", "errorAPI"))
	assert.Equal(t, "AI is on strike.", c.Message("en", "errorAPI"))
	assert.Equal(t, "发生未知错误。", c.Message("de", "nope"))
	assert.Empty(t, c.ToneOptions("zh"))
	assert.Equal(t, DefaultPageTitle, c.PageTitle("zh"))
}

func TestToneValue(t *testing.T) {
	assert.Equal(t, "Funny", ToneValue("toneFunny"))
	assert.Equal(t, "Dry", ToneValue("tonedry"))
	assert.Equal(t, "", ToneValue("tone"))
}

func TestMenuAndFlags(t *testing.T) {
	menu := Menu()
	require.Len(t, menu, 9)
	assert.Equal(t, MenuItem{Code: "en", Flag: "🇺🇸", Name: "English"}, menu[0])
	assert.Equal(t, MenuItem{Code: "zh", Flag: "🇨🇳", Name: "中文 (简体)"}, menu[8])
	assert.Equal(t, "🇯🇵", Flag("ja"))
	assert.Equal(t, "", Flag("xx"))
	assert.Equal(t, "Korean", LangName("ko"))
}

func TestURLHelpers(t *testing.T) {
	u, err := WithLang("https://imgcaption.com/?ref=home", "fr")
	require.NoError(t, err)
	assert.Equal(t, "https://imgcaption.com/?lang=fr&ref=home", u)
	assert.Equal(t, "fr", LangFromURL(u))
	assert.Equal(t, "", LangFromURL("https://imgcaption.com/"))

	u, err = WithLang(u, "ja")
	require.NoError(t, err)
	assert.Equal(t, "ja", LangFromURL(u))

	assert.Equal(t, "/about.html?lang=de", NavLink("/about.html?lang=en&x=1", "de"))
	assert.Equal(t, "/faq?lang=ko", NavLink("/faq", "ko"))
}
