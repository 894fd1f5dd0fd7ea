package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalYAML = `
github:
  username: octocat
`

func TestParseProfile_Defaults(t *testing.T) {
	p, err := ParseProfile([]byte(minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, "octocat", p.GitHub.Username)
	assert.Equal(t, "/", p.Base)
	assert.True(t, p.Projects.GitHub.Display)
	assert.Equal(t, ModeAutomatic, p.Projects.GitHub.Mode)
	assert.Equal(t, SortByStars, p.Projects.GitHub.Automatic.SortBy)
	assert.Equal(t, 8, p.Projects.GitHub.Automatic.Limit)
	assert.Equal(t, "lofi", p.ThemeConfig.DefaultTheme)
	assert.True(t, p.ThemeConfig.DisplayAvatarRing)
	assert.Contains(t, p.ThemeConfig.Themes, CustomThemeName)
	assert.Equal(t, "#fc055b", p.ThemeConfig.CustomTheme["primary"])
	assert.True(t, p.EnablePWA)
}

func TestParseProfile_OverridesAndLists(t *testing.T) {
	data := `
github:
  username: AlonCS
base: PersonalPortfolio
skills: [Go, Docker]
experiences:
  - company: Digital nest
    position: Web Developer
    from: August 2024
    to: Present
projects:
  github:
    display: false
  custom:
    - header: Software Projects
      projects:
        - title: Office flow
          description: Room booking
          link: "#"
themeConfig:
  defaultTheme: dark
  displayAvatarRing: false
  themes: [light, dark]
  customTheme:
    primary: "#000000"
`
	p, err := ParseProfile([]byte(data))
	require.NoError(t, err)

	assert.Equal(t, "/PersonalPortfolio/", p.Base)
	assert.Equal(t, []string{"Go", "Docker"}, p.Skills)
	require.Len(t, p.Experiences, 1)
	assert.Equal(t, "Digital nest", p.Experiences[0].Company)
	assert.False(t, p.Projects.GitHub.Display)
	require.Len(t, p.Projects.Custom, 1)
	assert.Equal(t, "Office flow", p.Projects.Custom[0].Projects[0].Title)
	assert.False(t, p.ThemeConfig.DisplayAvatarRing)
	assert.Equal(t, []string{"light", "dark"}, p.ThemeConfig.Themes)
	assert.Equal(t, "#000000", p.ThemeConfig.CustomTheme["primary"])
	_, ok := p.ThemeConfig.CustomTheme["--rounded-box"]
	assert.False(t, ok, "a configured palette replaces the default one")
}

func TestParseProfile_CustomThemeDefaults(t *testing.T) {
	p, err := ParseProfile([]byte("github:\n  username: octocat\n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultCustomTheme(), p.ThemeConfig.CustomTheme)

	p, err = ParseProfile([]byte("github:\n  username: octocat\nthemeConfig:\n  customTheme: {}\n"))
	require.NoError(t, err)
	assert.Empty(t, p.ThemeConfig.CustomTheme, "an explicit empty palette disables the custom theme")
}

func TestParseProfile_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"missing username", "base: /", "github.username is required"},
		{"bad mode", minimalYAML + "projects:\n  github:\n    mode: sometimes\n", "projects.github.mode"},
		{"bad sort", minimalYAML + "projects:\n  github:\n    automatic:\n      sortBy: forks\n", "sortBy"},
		{"limit too high", minimalYAML + "projects:\n  github:\n    automatic:\n      limit: 500\n", "limit must be between"},
		{"manual without projects", minimalYAML + "projects:\n  github:\n    mode: manual\n", "manual.projects must not be empty"},
		{"bad blog source", minimalYAML + "blog:\n  source: substack\n  username: me\n", "blog.source"},
		{"unknown theme", minimalYAML + "themeConfig:\n  defaultTheme: neon\n", "defaultTheme \"neon\""},
		{"custom without header", minimalYAML + "projects:\n  custom:\n    - projects: []\n", "projects.custom[0].header"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseProfile([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseProfile_CollectsAllErrors(t *testing.T) {
	_, err := ParseProfile([]byte("themeConfig:\n  defaultTheme: neon\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "github.username is required")
	assert.Contains(t, err.Error(), "defaultTheme")
}

func TestParseProfile_RejectsUnknownKeys(t *testing.T) {
	_, err := ParseProfile([]byte(minimalYAML + "socials:\n  x: foo\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse profile config")
}

func TestLoadProfile_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gitprofile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalYAML), 0o644))

	p, err := LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, "octocat", p.GitHub.Username)

	_, err = LoadProfile(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRepositoryProfileParses(t *testing.T) {
	// The profile shipped at the repository root must always load.
	p, err := LoadProfile(filepath.Join("..", "..", "gitprofile.yaml"))
	require.NoError(t, err)
	assert.NotEmpty(t, p.GitHub.Username)
}
