package render

import (
	"html/template"
	"sort"
	"strings"

	"github.com/Zachkp/portfolio/internal/config"
)

// ThemeCSS renders the customTheme palette as CSS variables scoped to the
// custom theme. Keys starting with "--" are used verbatim; other keys are
// daisyUI colour names.
func ThemeCSS(t config.ThemeConfig) template.CSS {
	if len(t.CustomTheme) == 0 {
		return ""
	}
	keys := make([]string, 0, len(t.CustomTheme))
	for k := range t.CustomTheme {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(`[data-theme="` + config.CustomThemeName + `"]{`)
	for _, k := range keys {
		v := t.CustomTheme[k]
		if !cssSafe(k) || !cssSafe(v) {
			continue
		}
		name := k
		if !strings.HasPrefix(name, "--") {
			name = "--color-" + name
		}
		b.WriteString(name + ":" + v + ";")
	}
	b.WriteString("}")
	return template.CSS(b.String())
}

func cssSafe(s string) bool {
	return s != "" && !strings.ContainsAny(s, ";{}<>\"'\\\n\r")
}
