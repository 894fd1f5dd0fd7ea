// Package server wires the portfolio's HTTP surface onto a gin engine.
package server

import (
	"errors"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/Zachkp/portfolio/internal/assets"
	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/profile"
	"github.com/Zachkp/portfolio/internal/render"
)

// Snapshotter supplies the current view-model.
type Snapshotter interface {
	Snapshot() *profile.ViewModel
}

// Options are the collaborators the server needs.
type Options struct {
	Base      string // site base, "/" or "/sub/"
	Profiles  Snapshotter
	Sessions  *contact.Sessions
	Images    *assets.Resolver
	Public    fs.FS // holds static/ and images/
	Logger    zerolog.Logger
	RateRPS   float64
	RateBurst int
	Salt      string // IP hashing salt; random when empty
	Secure    bool   // mark cookies Secure
}

// Server is the configured HTTP handler.
type Server struct {
	opts    Options
	engine  *gin.Engine
	limiter *visitorLimiter
	anon    *Anonymizer
}

func New(opts Options) (*Server, error) {
	if opts.Profiles == nil || opts.Sessions == nil || opts.Images == nil {
		return nil, errors.New("server: profiles, sessions and images are required")
	}
	if opts.Base == "" {
		opts.Base = "/"
	}
	if opts.RateRPS <= 0 {
		opts.RateRPS = 0.2
	}
	if opts.RateBurst < 1 {
		opts.RateBurst = 3
	}

	anon, err := NewAnonymizer(opts.Salt)
	if err != nil {
		return nil, err
	}
	tmpl, err := render.Templates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		opts:    opts,
		anon:    anon,
		limiter: newVisitorLimiter(opts.RateRPS, opts.RateBurst, 10*time.Minute),
	}
	s.engine = s.routes(tmpl)
	return s, nil
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Close releases background resources.
func (s *Server) Close() {
	s.limiter.Stop()
}

func (s *Server) routes(tmpl *template.Template) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestID())
	r.Use(clientHash(s.anon))
	r.Use(requestLogger(s.opts.Logger, s.opts.Base))
	r.Use(observe())
	r.SetHTMLTemplate(tmpl)

	base := s.opts.Base
	g := r.Group(strings.TrimSuffix(base, "/"))

	g.GET("/", s.index)
	g.GET("/cards/:name", s.card)
	g.GET("/contact-form", s.contactStatus)
	g.GET("/contact/status", s.contactStatus)
	g.POST("/contact", s.submitContact)
	g.POST("/theme", s.setTheme)
	g.GET("/project-image/:section/:index", s.projectImage)
	g.GET("/api/profile", s.apiProfile)
	g.GET("/manifest.webmanifest", s.manifest)
	g.GET("/health", s.health)
	g.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if s.opts.Public != nil {
		for _, dir := range []string{"static", "images"} {
			if sub, err := fs.Sub(s.opts.Public, dir); err == nil {
				g.StaticFS("/"+dir, http.FS(sub))
			}
		}
	}

	if base != "/" {
		r.GET("/", func(c *gin.Context) {
			c.Redirect(http.StatusFound, base)
		})
	}
	return r
}
