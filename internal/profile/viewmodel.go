// Package profile turns the static configuration and the optional GitHub
// lookup into the render-ready view-model the cards consume.
package profile

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Zachkp/portfolio/internal/blog"
	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/github"
)

// Profile is the person shown on the avatar card.
type Profile struct {
	Name      string `json:"name"`
	Avatar    string `json:"avatar,omitempty"`
	Bio       string `json:"bio,omitempty"`
	Location  string `json:"location,omitempty"`
	Company   string `json:"company,omitempty"`
	GitHubURL string `json:"githubUrl,omitempty"`
}

// LoadError is a lookup failure phrased for the visitor.
type LoadError struct {
	Status   int    `json:"status"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

func (e *LoadError) Error() string {
	return e.Title + " " + e.Subtitle
}

// ViewModel is an immutable snapshot. A reload builds a new one; nothing
// ever mutates a published value.
type ViewModel struct {
	Config   *config.Profile     `json:"config"`
	Profile  *Profile            `json:"profile"`
	Repos    []github.Repository `json:"repos"`
	Articles []blog.Article      `json:"articles"`
	Loading  bool                `json:"loading"`
	Error    *LoadError          `json:"error,omitempty"`
	LoadedAt time.Time           `json:"loadedAt"`
}

// Bio returns the configured about paragraphs with "{name}" filled in.
func (vm *ViewModel) Bio() []string {
	if vm.Config == nil {
		return nil
	}
	name := ""
	if vm.Profile != nil {
		name = vm.Profile.Name
	}
	out := make([]string, 0, len(vm.Config.About.Paragraphs))
	for _, p := range vm.Config.About.Paragraphs {
		out = append(out, strings.ReplaceAll(p, "{name}", name))
	}
	return out
}

func fromUser(u *github.User) *Profile {
	name := u.Name
	if name == "" {
		name = u.Login
	}
	return &Profile{
		Name:      name,
		Avatar:    u.AvatarURL,
		Bio:       u.Bio,
		Location:  u.Location,
		Company:   u.Company,
		GitHubURL: u.HTMLURL,
	}
}

func toLoadError(err error) *LoadError {
	var apiErr *github.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.RateLimited():
			return &LoadError{
				Status:   apiErr.StatusCode,
				Title:    "Too Many Requests.",
				Subtitle: "Oh no, you hit the rate limit! Try again later.",
			}
		case apiErr.StatusCode == http.StatusNotFound:
			return &LoadError{
				Status:   http.StatusNotFound,
				Title:    "The Github Username is Incorrect.",
				Subtitle: "Please provide a correct github username in the configuration.",
			}
		}
	}
	return &LoadError{
		Status:   http.StatusInternalServerError,
		Title:    "Ops!!",
		Subtitle: "Something went wrong.",
	}
}
