package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/log"
	"github.com/Zachkp/portfolio/internal/metrics"
	"github.com/Zachkp/portfolio/internal/render"
)

const (
	sessionCookie = "contact_session"
	themeCookie   = "theme"

	themeMaxAge    = 365 * 24 * 60 * 60
	rateLimitedMsg = "Too many messages. Please wait a moment and try again."
)

// ErrRateLimited marks a contact submission refused by the rate limiter.
var ErrRateLimited = errors.New("server: too many contact submissions")

func (s *Server) view(c *gin.Context, st contact.State) *render.View {
	theme, _ := c.Cookie(themeCookie)
	return render.NewView(s.opts.Profiles.Snapshot(), theme, st)
}

// sessionState returns the visitor's contact state without creating a
// session for visitors who never submitted.
func (s *Server) sessionState(c *gin.Context) contact.State {
	id, err := c.Cookie(sessionCookie)
	if err != nil || !contact.ValidID(id) {
		return contact.State{}
	}
	if sub, ok := s.opts.Sessions.Peek(id); ok {
		return sub.State()
	}
	return contact.State{}
}

// session returns the visitor's submitter, issuing a cookie if needed.
func (s *Server) session(c *gin.Context) *contact.Submitter {
	id, err := c.Cookie(sessionCookie)
	if err != nil || !contact.ValidID(id) {
		id = contact.NewID()
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(sessionCookie, id, 0, s.opts.Base, "", s.opts.Secure, true)
	}
	return s.opts.Sessions.Get(id)
}

func (s *Server) index(c *gin.Context) {
	c.HTML(http.StatusOK, "index", s.view(c, s.sessionState(c)))
}

func (s *Server) card(c *gin.Context) {
	name := c.Param("name")
	if !render.IsCard(name) {
		c.String(http.StatusNotFound, "unknown card")
		return
	}
	c.HTML(http.StatusOK, render.CardTemplate(name), s.view(c, contact.State{}))
}

func (s *Server) contactStatus(c *gin.Context) {
	c.HTML(http.StatusOK, "contact-card", s.view(c, s.sessionState(c)))
}

func (s *Server) submitContact(c *gin.Context) {
	var form contact.FormState
	if err := c.ShouldBind(&form); err != nil {
		_ = c.Error(err)
	}

	if !s.limiter.Allow(c.GetString(clientHashKey)) {
		metrics.RecordContactSubmission("rate_limited")
		_ = c.Error(ErrRateLimited)
		st := contact.State{Form: form, Status: contact.StatusError, Message: rateLimitedMsg}
		c.HTML(http.StatusTooManyRequests, "contact-card", s.view(c, st))
		return
	}

	sub := s.session(c)
	// The relay call outlives a dropped connection; it has its own timeout.
	ctx := context.WithoutCancel(c.Request.Context())
	st, err := sub.Submit(ctx, form)

	status := http.StatusOK
	switch {
	case errors.Is(err, contact.ErrMissingField):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, contact.ErrSubmissionInFlight):
		status = http.StatusConflict
	case err != nil:
		l := log.FromContext(ctx, s.opts.Logger)
		l.Warn().Err(err).Str("event", "contact.failed").Msg("contact submission failed")
	}
	c.HTML(status, "contact-card", s.view(c, st))
}

func (s *Server) setTheme(c *gin.Context) {
	theme := c.PostForm("theme")
	cfg := s.opts.Profiles.Snapshot().Config
	if cfg == nil || cfg.ThemeConfig.DisableSwitch || !cfg.ThemeConfig.HasTheme(theme) {
		c.String(http.StatusBadRequest, "unknown theme")
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(themeCookie, theme, themeMaxAge, s.opts.Base, "", s.opts.Secure, false)
	c.Header("HX-Refresh", "true")
	c.Status(http.StatusNoContent)
}

func (s *Server) projectImage(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.String(http.StatusNotFound, "unknown project")
		return
	}
	cfg := s.opts.Profiles.Snapshot().Config
	if cfg == nil {
		c.String(http.StatusNotFound, "unknown project")
		return
	}
	p, ok := render.FindProject(cfg, c.Param("section"), index)
	if !ok {
		c.String(http.StatusNotFound, "unknown project")
		return
	}

	res := s.opts.Images.Resolve(c.Request.Context(), p.ImageURL, p.Title)
	c.Header("Cache-Control", "public, max-age=3600")
	c.Header("X-Image-Source", string(res.Source))
	c.Data(http.StatusOK, res.ContentType, res.Data)
}

func (s *Server) apiProfile(c *gin.Context) {
	c.JSON(http.StatusOK, s.opts.Profiles.Snapshot())
}

type manifestIcon struct {
	Src   string `json:"src"`
	Sizes string `json:"sizes"`
	Type  string `json:"type"`
}

type webManifest struct {
	Name            string         `json:"name"`
	ShortName       string         `json:"short_name"`
	Description     string         `json:"description,omitempty"`
	StartURL        string         `json:"start_url"`
	Scope           string         `json:"scope"`
	Display         string         `json:"display"`
	BackgroundColor string         `json:"background_color"`
	ThemeColor      string         `json:"theme_color"`
	Icons           []manifestIcon `json:"icons"`
}

func (s *Server) manifest(c *gin.Context) {
	vm := s.opts.Profiles.Snapshot()
	cfg := vm.Config
	if cfg == nil || !cfg.EnablePWA {
		c.String(http.StatusNotFound, "manifest disabled")
		return
	}
	v := render.NewView(vm, "", contact.State{})
	c.Header("Content-Type", "application/manifest+json")
	c.JSON(http.StatusOK, webManifest{
		Name:            v.Title(),
		ShortName:       shortName(cfg),
		Description:     cfg.SEO.Description,
		StartURL:        s.opts.Base,
		Scope:           s.opts.Base,
		Display:         "standalone",
		BackgroundColor: "#ffffff",
		ThemeColor:      themeColor(cfg),
		Icons: []manifestIcon{
			{Src: v.Path("static/favicon.svg"), Sizes: "any", Type: "image/svg+xml"},
		},
	})
}

func shortName(cfg *config.Profile) string {
	if cfg.GitHub.Username != "" {
		return cfg.GitHub.Username
	}
	return "Portfolio"
}

func themeColor(cfg *config.Profile) string {
	if v, ok := cfg.ThemeConfig.CustomTheme["primary"]; ok && v != "" {
		return v
	}
	return "#000000"
}

func (s *Server) health(c *gin.Context) {
	vm := s.opts.Profiles.Snapshot()
	body := gin.H{
		"status":   "ok",
		"loading":  vm.Loading,
		"sessions": s.opts.Sessions.Len(),
	}
	if !vm.LoadedAt.IsZero() {
		body["loadedAt"] = vm.LoadedAt
	}
	if vm.Error != nil {
		body["profileError"] = vm.Error.Title
	}
	c.JSON(http.StatusOK, body)
}
