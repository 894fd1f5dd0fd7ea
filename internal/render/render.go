// Package render turns a profile view-model into HTML. Every card renders
// either its content or a skeleton of the same outer size, so the page
// never shifts when data arrives.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/profile"
)

//go:embed templates/*.html
var templateFS embed.FS

// Cards lists the card fragments that can be fetched one by one.
var Cards = []string{
	"avatar", "details", "skills", "experience", "certifications", "education",
	"github", "publications", "external", "custom", "blog", "contact-title",
}

// IsCard reports whether name is a fetchable card.
func IsCard(name string) bool {
	for _, c := range Cards {
		if c == name {
			return true
		}
	}
	return false
}

// CardTemplate is the template name of a card fragment.
func CardTemplate(name string) string {
	return "card-" + name
}

// PollDelay is how long a loading card waits before asking again.
const PollDelay = "1s"

// View is the data every page and card template receives.
type View struct {
	VM          *profile.ViewModel
	Base        string
	Theme       string
	ThemeChosen bool // the visitor picked Theme explicitly
	Loading     bool
	Contact     contact.State
}

// NewView prepares vm for rendering with the visitor's theme.
func NewView(vm *profile.ViewModel, theme string, st contact.State) *View {
	v := &View{VM: vm, Contact: st, Base: "/"}
	if vm.Config != nil {
		v.Base = vm.Config.Base
		v.Theme = vm.Config.ThemeConfig.DefaultTheme
		if theme != "" && vm.Config.ThemeConfig.HasTheme(theme) && !vm.Config.ThemeConfig.DisableSwitch {
			v.Theme = theme
			v.ThemeChosen = true
		}
	}
	v.Loading = vm.Loading
	return v
}

// Config is shorthand for the snapshot's configuration.
func (v *View) Config() *config.Profile {
	return v.VM.Config
}

// Path joins p onto the site base.
func (v *View) Path(p string) string {
	return v.Base + strings.TrimPrefix(p, "/")
}

// Title is the document title.
func (v *View) Title() string {
	if t := v.Config().SEO.Title; t != "" {
		return t
	}
	if v.VM.Profile != nil {
		return "Portfolio of " + v.VM.Profile.Name
	}
	return "Portfolio"
}

// RepoSkeletons is how many repository placeholders to show.
func (v *View) RepoSkeletons() int {
	gp := v.Config().Projects.GitHub
	if gp.Mode == config.ModeManual {
		return len(gp.Manual.Projects)
	}
	return gp.Automatic.Limit
}

// Templates parses the embedded templates.
func Templates() (*template.Template, error) {
	t, err := template.New("").Funcs(Funcs()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return t, nil
}

// Funcs returns the helpers available inside templates.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"skeleton":    Skeleton,
		"seq":         seq,
		"social":      SocialLinks,
		"themeCSS":    ThemeCSS,
		"trustedHTML": func(s string) template.HTML { return template.HTML(s) },
		"date":        formatDate,
		"itoa":        strconv.Itoa,
		"add":         func(a, b int) int { return a + b },
		"customID":    CustomSectionID,
		"dict":        dict,
	}
}

// Skeleton renders a pulsing placeholder block. The optional arguments
// are the shape class (default "rounded-full") and extra classes.
func Skeleton(widthCls, heightCls string, opts ...string) template.HTML {
	shape := "rounded-full"
	if len(opts) > 0 && opts[0] != "" {
		shape = opts[0]
	}
	classes := []string{"bg-base-300", "animate-pulse", shape, widthCls, heightCls}
	if len(opts) > 1 && opts[1] != "" {
		classes = append(classes, opts[1])
	}
	return template.HTML(`<div class="` + template.HTMLEscapeString(strings.Join(classes, " ")) + `"></div>`)
}

// CustomSectionID is the image section name of the i-th custom list.
func CustomSectionID(i int) string {
	return "custom-" + strconv.Itoa(i)
}

// FindProject returns the statically configured project an image route
// refers to: section is "external" or "custom-N".
func FindProject(cfg *config.Profile, section string, index int) (config.Project, bool) {
	var list []config.Project
	switch {
	case section == "external":
		list = cfg.Projects.External.Projects
	case strings.HasPrefix(section, "custom-"):
		i, err := strconv.Atoi(strings.TrimPrefix(section, "custom-"))
		if err != nil || i < 0 || i >= len(cfg.Projects.Custom) {
			return config.Project{}, false
		}
		list = cfg.Projects.Custom[i].Projects
	}
	if index < 0 || index >= len(list) {
		return config.Project{}, false
	}
	return list[index], true
}

func seq(n int) []int {
	if n < 0 {
		n = 0
	}
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006")
}

func dict(kv ...any) (map[string]any, error) {
	if len(kv)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments")
	}
	m := make(map[string]any, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
		}
		m[k] = kv[i+1]
	}
	return m, nil
}

// Details is the avatar-adjacent list: profile facts then social links.
func (v *View) Details() []SocialLink {
	var out []SocialLink
	if p := v.VM.Profile; p != nil {
		if p.Location != "" {
			out = append(out, SocialLink{Network: "Based in", Label: p.Location})
		}
		if p.Company != "" {
			out = append(out, SocialLink{Network: "Organization", Label: p.Company})
		}
	}
	if u := v.Config().GitHub.Username; u != "" {
		out = append(out, SocialLink{Network: "GitHub", Label: u, Href: template.URL("https://github.com/" + u)})
	}
	return append(out, SocialLinks(v.Config().Social)...)
}

// DetailSkeletons is the row count shown while the details are loading.
func (v *View) DetailSkeletons() int {
	return len(SocialLinks(v.Config().Social)) + 1
}
