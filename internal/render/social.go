package render

import (
	"html/template"
	"net/url"
	"strings"

	"github.com/Zachkp/portfolio/internal/config"
)

// SocialLink is one entry of the details card.
type SocialLink struct {
	Network string
	Label   string
	Href    template.URL
}

type network struct {
	name   string
	value  func(config.Social) string
	prefix string
}

var networks = []network{
	{"LinkedIn", func(s config.Social) string { return s.LinkedIn }, "https://www.linkedin.com/in/"},
	{"X", func(s config.Social) string { return s.X }, "https://x.com/"},
	{"Mastodon", func(s config.Social) string { return s.Mastodon }, ""},
	{"ResearchGate", func(s config.Social) string { return s.ResearchGate }, "https://www.researchgate.net/profile/"},
	{"Facebook", func(s config.Social) string { return s.Facebook }, "https://www.facebook.com/"},
	{"Instagram", func(s config.Social) string { return s.Instagram }, "https://www.instagram.com/"},
	{"Reddit", func(s config.Social) string { return s.Reddit }, "https://www.reddit.com/user/"},
	{"Threads", func(s config.Social) string { return s.Threads }, "https://www.threads.net/@"},
	{"YouTube", func(s config.Social) string { return s.YouTube }, "https://www.youtube.com/@"},
	{"Udemy", func(s config.Social) string { return s.Udemy }, "https://www.udemy.com/user/"},
	{"Dribbble", func(s config.Social) string { return s.Dribbble }, "https://dribbble.com/"},
	{"Behance", func(s config.Social) string { return s.Behance }, "https://www.behance.net/"},
	{"Medium", func(s config.Social) string { return s.Medium }, "https://medium.com/@"},
	{"Dev", func(s config.Social) string { return s.Dev }, "https://dev.to/"},
	{"Stack Overflow", func(s config.Social) string { return s.StackOverflow }, "https://stackoverflow.com/users/"},
	{"Skype", func(s config.Social) string { return s.Skype }, "skype:"},
	{"Telegram", func(s config.Social) string { return s.Telegram }, "https://t.me/"},
	{"Website", func(s config.Social) string { return s.Website }, ""},
	{"Phone", func(s config.Social) string { return s.Phone }, "tel:"},
	{"Email", func(s config.Social) string { return s.Email }, "mailto:"},
}

// SocialLinks builds the configured social entries in display order.
func SocialLinks(s config.Social) []SocialLink {
	var out []SocialLink
	for _, n := range networks {
		v := strings.TrimSpace(n.value(s))
		if v == "" {
			continue
		}
		href, ok := socialHref(n, v)
		if !ok {
			continue
		}
		out = append(out, SocialLink{Network: n.name, Label: v, Href: href})
	}
	return out
}

func socialHref(n network, v string) (template.URL, bool) {
	switch n.name {
	case "Mastodon":
		// @user@instance
		user, host, ok := strings.Cut(strings.TrimPrefix(v, "@"), "@")
		if !ok || user == "" || host == "" {
			return "", false
		}
		return template.URL("https://" + url.PathEscape(host) + "/@" + url.PathEscape(user)), true
	case "Website":
		if !strings.HasPrefix(v, "http://") && !strings.HasPrefix(v, "https://") {
			v = "https://" + v
		}
		u, err := url.Parse(v)
		if err != nil || u.Host == "" {
			return "", false
		}
		return template.URL(u.String()), true
	case "Skype":
		return template.URL(n.prefix + url.PathEscape(v) + "?chat"), true
	case "Phone":
		return template.URL(n.prefix + strings.ReplaceAll(v, " ", "")), true
	case "Email":
		return template.URL(n.prefix + v), true
	case "Stack Overflow":
		// "1/jeff-atwood" keeps its slash
		return template.URL(n.prefix + v), true
	}
	return template.URL(n.prefix + url.PathEscape(v)), true
}
