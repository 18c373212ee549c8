package i18n

// SwitcherLanguages are offered by the language switcher, in menu order.
var SwitcherLanguages = []string{"en", "es", "pt", "ru", "de", "fr", "ja", "ko", "zh"}

var flags = map[string]string{
	"en": "🇺🇸",
	"es": "🇪🇸",
	"pt": "🇧🇷",
	"ru": "🇷🇺",
	"de": "🇩🇪",
	"fr": "🇫🇷",
	"ja": "🇯🇵",
	"ko": "🇰🇷",
	"zh": "🇨🇳",
}

var langNames = map[string]string{
	"en": "English",
	"es": "Spanish",
	"pt": "Portuguese",
	"ru": "Russian",
	"de": "German",
	"fr": "French",
	"ja": "Japanese",
	"ko": "Korean",
	"zh": "中文 (简体)",
}

// MenuItem 语言切换菜单项
type MenuItem struct {
	Code string
	Flag string
	Name string
}

func Flag(code string) string {
	return flags[code]
}

func LangName(code string) string {
	return langNames[code]
}

// Menu 返回切换菜单
func Menu() []MenuItem {
	items := make([]MenuItem, 0, len(SwitcherLanguages))
	for _, code := range SwitcherLanguages {
		items = append(items, MenuItem{Code: code, Flag: flags[code], Name: langNames[code]})
	}
	return items
}
