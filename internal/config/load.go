package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// maxProjectLimit is the largest page size the GitHub search API accepts.
const maxProjectLimit = 100

// DefaultThemes lists the themes offered when the file names none.
var DefaultThemes = []string{
	"light", "dark", "cupcake", "bumblebee", "emerald", "corporate",
	"synthwave", "retro", "cyberpunk", "valentine", "halloween", "garden",
	"forest", "aqua", "lofi", "pastel", "fantasy", "wireframe", "black",
	"luxury", "dracula", "cmyk", "autumn", "business", "acid", "lemonade",
	"night", "coffee", "winter", "dim", "nord", "sunset", CustomThemeName,
}

// Default returns a profile with every optional field at its default.
// Parsing starts from this value so absent keys keep their defaults.
func Default() *Profile {
	return &Profile{
		Base: "/",
		Projects: Projects{
			GitHub: GitHubProjects{
				Display: true,
				Header:  "Github Projects",
				Mode:    ModeAutomatic,
				Automatic: AutomaticProjects{
					SortBy: SortByStars,
					Limit:  8,
				},
			},
			External: ExternalProjects{Header: "My Projects"},
		},
		About: About{Greeting: "Nice to meet you all."},
		Blog:  Blog{Source: BlogSourceDev, Limit: 2},
		ThemeConfig: ThemeConfig{
			DefaultTheme:      "lofi",
			DisplayAvatarRing: true,
			Themes:            append([]string(nil), DefaultThemes...),
		},
		EnablePWA: true,
	}
}

// DefaultCustomTheme is the procyon palette used when a profile sets no
// customTheme of its own.
func DefaultCustomTheme() map[string]string {
	return map[string]string{
		"primary":       "#fc055b",
		"secondary":     "#219aaf",
		"accent":        "#e8d03a",
		"neutral":       "#2A2730",
		"base-100":      "#E3E3ED",
		"--rounded-box": "3rem",
		"--rounded-btn": "3rem",
	}
}

// LoadProfile reads, parses and validates the profile file at path.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile config: %w", err)
	}
	p, err := ParseProfile(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// ParseProfile decodes YAML on top of Default and validates the result.
// Unknown keys are rejected so typos do not silently hide a section.
// A customTheme in the file replaces the default palette whole.
func ParseProfile(data []byte) (*Profile, error) {
	p := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(p); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse profile config: %w", err)
	}
	if p.ThemeConfig.CustomTheme == nil {
		p.ThemeConfig.CustomTheme = DefaultCustomTheme()
	}
	p.normalize()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Profile) normalize() {
	p.GitHub.Username = strings.TrimSpace(p.GitHub.Username)
	p.Base = strings.TrimSpace(p.Base)
	if p.Base == "" {
		p.Base = "/"
	}
	if !strings.HasPrefix(p.Base, "/") {
		p.Base = "/" + p.Base
	}
	if !strings.HasSuffix(p.Base, "/") {
		p.Base += "/"
	}
	p.Blog.Username = strings.TrimSpace(p.Blog.Username)
	if len(p.ThemeConfig.Themes) == 0 {
		p.ThemeConfig.Themes = append([]string(nil), DefaultThemes...)
	}
}

// Validate reports every problem with the profile at once.
func (p *Profile) Validate() error {
	var errs []string

	if p.GitHub.Username == "" {
		errs = append(errs, "github.username is required")
	}

	gp := p.Projects.GitHub
	switch gp.Mode {
	case ModeAutomatic, ModeManual:
	default:
		errs = append(errs, fmt.Sprintf("projects.github.mode must be %q or %q, got %q", ModeAutomatic, ModeManual, gp.Mode))
	}
	switch gp.Automatic.SortBy {
	case SortByStars, SortByUpdated:
	default:
		errs = append(errs, fmt.Sprintf("projects.github.automatic.sortBy must be %q or %q, got %q", SortByStars, SortByUpdated, gp.Automatic.SortBy))
	}
	if gp.Automatic.Limit < 1 || gp.Automatic.Limit > maxProjectLimit {
		errs = append(errs, fmt.Sprintf("projects.github.automatic.limit must be between 1 and %d", maxProjectLimit))
	}
	if gp.Display && gp.Mode == ModeManual && len(gp.Manual.Projects) == 0 {
		errs = append(errs, "projects.github.manual.projects must not be empty in manual mode")
	}

	for i, sec := range p.Projects.Custom {
		if strings.TrimSpace(sec.Header) == "" {
			errs = append(errs, fmt.Sprintf("projects.custom[%d].header is required", i))
		}
	}

	if p.Blog.Username != "" {
		switch p.Blog.Source {
		case BlogSourceDev, BlogSourceMedium:
		default:
			errs = append(errs, fmt.Sprintf("blog.source must be %q or %q, got %q", BlogSourceDev, BlogSourceMedium, p.Blog.Source))
		}
		if p.Blog.Limit < 1 {
			errs = append(errs, "blog.limit must be positive")
		}
	}

	if !p.ThemeConfig.HasTheme(p.ThemeConfig.DefaultTheme) {
		errs = append(errs, fmt.Sprintf("themeConfig.defaultTheme %q is not listed in themeConfig.themes", p.ThemeConfig.DefaultTheme))
	}

	if len(errs) > 0 {
		return errors.New("configuration errors:\n  - " + strings.Join(errs, "\n  - "))
	}
	return nil
}
