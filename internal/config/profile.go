// Package config holds the declarative profile file and the process settings.
package config

// Profile is the declarative site configuration read from gitprofile.yaml.
// Every field is plain data; nothing here has behaviour.
type Profile struct {
	GitHub         GitHub          `yaml:"github" json:"github"`
	Base           string          `yaml:"base" json:"base"`
	Projects       Projects        `yaml:"projects" json:"projects"`
	SEO            SEO             `yaml:"seo" json:"seo"`
	Social         Social          `yaml:"social" json:"social"`
	Resume         Resume          `yaml:"resume" json:"resume"`
	About          About           `yaml:"about" json:"about"`
	Skills         []string        `yaml:"skills" json:"skills"`
	Experiences    []Experience    `yaml:"experiences" json:"experiences"`
	Certifications []Certification `yaml:"certifications" json:"certifications"`
	Educations     []Education     `yaml:"educations" json:"educations"`
	Publications   []Publication   `yaml:"publications" json:"publications"`
	Blog           Blog            `yaml:"blog" json:"blog"`
	ThemeConfig    ThemeConfig     `yaml:"themeConfig" json:"themeConfig"`
	Footer         string          `yaml:"footer" json:"footer"`
	EnablePWA      bool            `yaml:"enablePWA" json:"enablePWA"`
}

// GitHub identifies the account whose public profile is looked up.
type GitHub struct {
	Username string `yaml:"username" json:"username"`
}

type Projects struct {
	GitHub   GitHubProjects   `yaml:"github" json:"github"`
	External ExternalProjects `yaml:"external" json:"external"`
	Custom   []ProjectSection `yaml:"custom" json:"custom"`
}

// Project display modes.
const (
	ModeAutomatic = "automatic"
	ModeManual    = "manual"
)

// Repository sort orders for automatic mode.
const (
	SortByStars   = "stars"
	SortByUpdated = "updated"
)

type GitHubProjects struct {
	Display   bool              `yaml:"display" json:"display"`
	Header    string            `yaml:"header" json:"header"`
	Mode      string            `yaml:"mode" json:"mode"`
	Automatic AutomaticProjects `yaml:"automatic" json:"automatic"`
	Manual    ManualProjects    `yaml:"manual" json:"manual"`
}

type AutomaticProjects struct {
	SortBy  string          `yaml:"sortBy" json:"sortBy"`
	Limit   int             `yaml:"limit" json:"limit"`
	Exclude ExcludeProjects `yaml:"exclude" json:"exclude"`
}

type ExcludeProjects struct {
	Forks    bool     `yaml:"forks" json:"forks"`
	Projects []string `yaml:"projects" json:"projects"`
}

type ManualProjects struct {
	Projects []string `yaml:"projects" json:"projects"`
}

type ExternalProjects struct {
	Header   string    `yaml:"header" json:"header"`
	Projects []Project `yaml:"projects" json:"projects"`
}

// ProjectSection is a hand-written list of projects with its own heading.
type ProjectSection struct {
	Header     string    `yaml:"header" json:"header"`
	SeeAllLink string    `yaml:"seeAllLink" json:"seeAllLink,omitempty"`
	Projects   []Project `yaml:"projects" json:"projects"`
}

// Project is a statically configured project entry.
type Project struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	ImageURL    string `yaml:"imageUrl" json:"imageUrl,omitempty"`
	Link        string `yaml:"link" json:"link"`
}

type SEO struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	ImageURL    string `yaml:"imageURL" json:"imageURL"`
}

// Social holds account handles; an empty value hides the entry.
type Social struct {
	LinkedIn      string `yaml:"linkedin" json:"linkedin,omitempty"`
	X             string `yaml:"x" json:"x,omitempty"`
	Mastodon      string `yaml:"mastodon" json:"mastodon,omitempty"`
	ResearchGate  string `yaml:"researchGate" json:"researchGate,omitempty"`
	Facebook      string `yaml:"facebook" json:"facebook,omitempty"`
	Instagram     string `yaml:"instagram" json:"instagram,omitempty"`
	Reddit        string `yaml:"reddit" json:"reddit,omitempty"`
	Threads       string `yaml:"threads" json:"threads,omitempty"`
	YouTube       string `yaml:"youtube" json:"youtube,omitempty"`
	Udemy         string `yaml:"udemy" json:"udemy,omitempty"`
	Dribbble      string `yaml:"dribbble" json:"dribbble,omitempty"`
	Behance       string `yaml:"behance" json:"behance,omitempty"`
	Medium        string `yaml:"medium" json:"medium,omitempty"`
	Dev           string `yaml:"dev" json:"dev,omitempty"`
	StackOverflow string `yaml:"stackoverflow" json:"stackoverflow,omitempty"`
	Skype         string `yaml:"skype" json:"skype,omitempty"`
	Telegram      string `yaml:"telegram" json:"telegram,omitempty"`
	Website       string `yaml:"website" json:"website,omitempty"`
	Phone         string `yaml:"phone" json:"phone,omitempty"`
	Email         string `yaml:"email" json:"email,omitempty"`
}

type Resume struct {
	FileURL string `yaml:"fileUrl" json:"fileUrl,omitempty"`
}

// About is the free-text bio shown on the avatar card. "{name}" in a
// paragraph is replaced by the loaded profile name.
type About struct {
	Greeting   string   `yaml:"greeting" json:"greeting"`
	Paragraphs []string `yaml:"paragraphs" json:"paragraphs"`
}

type Experience struct {
	Company     string `yaml:"company" json:"company"`
	Position    string `yaml:"position" json:"position"`
	From        string `yaml:"from" json:"from"`
	To          string `yaml:"to" json:"to"`
	CompanyLink string `yaml:"companyLink" json:"companyLink,omitempty"`
}

type Certification struct {
	Name string `yaml:"name" json:"name"`
	Body string `yaml:"body" json:"body"`
	Year string `yaml:"year" json:"year"`
	Link string `yaml:"link" json:"link,omitempty"`
}

type Education struct {
	Institution string `yaml:"institution" json:"institution"`
	Degree      string `yaml:"degree" json:"degree"`
	From        string `yaml:"from" json:"from"`
	To          string `yaml:"to" json:"to"`
}

type Publication struct {
	Title          string `yaml:"title" json:"title"`
	ConferenceName string `yaml:"conferenceName" json:"conferenceName,omitempty"`
	JournalName    string `yaml:"journalName" json:"journalName,omitempty"`
	Authors        string `yaml:"authors" json:"authors,omitempty"`
	Link           string `yaml:"link" json:"link,omitempty"`
	Description    string `yaml:"description" json:"description,omitempty"`
}

// Blog sources.
const (
	BlogSourceDev    = "dev"
	BlogSourceMedium = "medium"
)

// Blog selects an article feed; an empty username hides the section.
type Blog struct {
	Source   string `yaml:"source" json:"source"`
	Username string `yaml:"username" json:"username"`
	Limit    int    `yaml:"limit" json:"limit"`
}

type ThemeConfig struct {
	DefaultTheme              string            `yaml:"defaultTheme" json:"defaultTheme"`
	DisableSwitch             bool              `yaml:"disableSwitch" json:"disableSwitch"`
	RespectPrefersColorScheme bool              `yaml:"respectPrefersColorScheme" json:"respectPrefersColorScheme"`
	DisplayAvatarRing         bool              `yaml:"displayAvatarRing" json:"displayAvatarRing"`
	Themes                    []string          `yaml:"themes" json:"themes"`
	CustomTheme               map[string]string `yaml:"customTheme" json:"customTheme"`
}

// CustomThemeName is the theme the customTheme palette is applied to.
const CustomThemeName = "procyon"

// HasTheme reports whether name is one of the configured themes.
func (t ThemeConfig) HasTheme(name string) bool {
	for _, th := range t.Themes {
		if th == name {
			return true
		}
	}
	return false
}
