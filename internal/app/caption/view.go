package caption

import (
	"fmt"

	"imgcaption/internal/domain/i18n"
)

// Snapshot 渲染所需的全部信息：状态加上按界面语言解析好的文案
type Snapshot struct {
	State

	Title           string
	Flag            string
	LanguageOptions []i18n.Option
	ToneOptions     []i18n.Option
	ToastMessage    string
	Counter         string
	GenerateEnabled bool
	Menu            []i18n.MenuItem

	catalog *i18n.Catalog
}

// Text 返回界面文案，缺失或为空时 ok 为 false
func (s Snapshot) Text(key string) (string, bool) {
	if s.catalog == nil {
		return "", false
	}
	return s.catalog.Text(s.UILanguage, key)
}

// View is the render step after each transition. Render is called with the
// controller lock held and must not call back into the controller.
type View interface {
	Render(Snapshot)
}

// ViewFunc adapts a function to View.
type ViewFunc func(Snapshot)

func (f ViewFunc) Render(s Snapshot) { f(s) }

func newSnapshot(s State, catalog *i18n.Catalog) Snapshot {
	snap := Snapshot{
		State:           s,
		Title:           catalog.PageTitle(s.UILanguage),
		Flag:            i18n.Flag(s.UILanguage),
		LanguageOptions: catalog.LanguageOptions(s.UILanguage),
		ToneOptions:     catalog.ToneOptions(s.UILanguage),
		Counter:         fmt.Sprintf("%d / %d", s.ExtraCount(), s.ExtraLimit),
		GenerateEnabled: s.CanGenerate(),
		Menu:            i18n.Menu(),
		catalog:         catalog,
	}
	if s.ToastKey != "" {
		snap.ToastMessage = catalog.Message(s.UILanguage, s.ToastKey)
	}
	return snap
}
