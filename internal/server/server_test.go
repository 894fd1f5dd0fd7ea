package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/portfolio/internal/assets"
	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/profile"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testProfile = `
github:
  username: octocat
skills: [Go, HTMX]
projects:
  external:
    projects:
      - {title: Real Image, description: d, imageUrl: images/real.png}
      - {title: Missing Image, description: d, imageUrl: images/missing.png}
`

type staticSnapshot struct {
	mu sync.Mutex
	vm *profile.ViewModel
}

func (s *staticSnapshot) Snapshot() *profile.ViewModel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vm
}

type countingRelay struct {
	calls atomic.Int32
	err   error
}

func (r *countingRelay) Send(ctx context.Context, msg contact.Message) error {
	r.calls.Add(1)
	return r.err
}

type harness struct {
	srv   *Server
	relay *countingRelay
	snap  *staticSnapshot
	logs  *bytes.Buffer
}

func newHarness(t *testing.T, mutate func(*Options, *config.Profile)) *harness {
	t.Helper()
	cfg, err := config.ParseProfile([]byte(testProfile))
	require.NoError(t, err)

	h := &harness{
		relay: &countingRelay{},
		logs:  &bytes.Buffer{},
	}
	sessions := contact.NewSessions(time.Minute, func() *contact.Submitter {
		return contact.NewSubmitter(h.relay, contact.WithResetAfter(time.Hour))
	})
	public := fstest.MapFS{
		"static/site.css": {Data: []byte("body{}")},
		"images/real.png": {Data: []byte("\x89PNG\r\n\x1a\nreal")},
	}
	opts := Options{
		Base:      "/",
		Sessions:  sessions,
		Public:    public,
		Logger:    zerolog.New(h.logs),
		RateRPS:   100,
		RateBurst: 100,
		Salt:      "test-salt",
	}
	if mutate != nil {
		mutate(&opts, cfg)
	}
	h.snap = &staticSnapshot{vm: &profile.ViewModel{
		Config:   cfg,
		Profile:  &profile.Profile{Name: "The Octocat"},
		LoadedAt: time.Now(),
	}}
	opts.Profiles = h.snap
	opts.Images = assets.NewResolver(assets.NewSiteFetcher(public, opts.Base, time.Second, "static", "images"), zerolog.Nop())

	h.srv, err = New(opts)
	require.NoError(t, err)
	t.Cleanup(func() {
		h.srv.Close()
		sessions.Close()
	})
	return h
}

func (h *harness) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.srv.Handler().ServeHTTP(w, req)
	return w
}

func contactRequest(values url.Values, cookies ...*http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func fullForm() url.Values {
	return url.Values{
		"firstName": {"Ada"},
		"lastName":  {"Lovelace"},
		"email":     {"ada@example.com"},
		"message":   {"Hello there"},
	}
}

func cookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestIndex(t *testing.T) {
	h := newHarness(t, nil)
	w := h.do(httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), `data-theme="lofi"`)
	assert.Contains(t, w.Body.String(), "Tech Stack")
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestCardFragment(t *testing.T) {
	h := newHarness(t, nil)
	h.snap.vm = &profile.ViewModel{Config: h.snap.vm.Config, Loading: true}

	w := h.do(httptest.NewRequest(http.MethodGet, "/cards/skills", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `hx-get="/cards/skills"`)
	assert.NotContains(t, w.Body.String(), "<html")

	w = h.do(httptest.NewRequest(http.MethodGet, "/cards/contact-title", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `id="card-contact-title"`)
	assert.Contains(t, w.Body.String(), "animate-pulse")

	w = h.do(httptest.NewRequest(http.MethodGet, "/cards/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestContact_SuccessFlow(t *testing.T) {
	h := newHarness(t, nil)

	w := h.do(contactRequest(fullForm()))
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, h.relay.calls.Load())
	assert.Contains(t, w.Body.String(), "Message sent successfully!")
	assert.NotContains(t, w.Body.String(), `value="Ada"`, "fields are cleared")

	sess := cookie(w, sessionCookie)
	require.NotNil(t, sess)
	assert.True(t, sess.HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/contact/status", nil)
	req.AddCookie(sess)
	w = h.do(req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `data-status="success"`)

	// Another visitor is unaffected.
	w = h.do(httptest.NewRequest(http.MethodGet, "/contact/status", nil))
	assert.Contains(t, w.Body.String(), `data-status="idle"`)
}

func TestContact_MissingField(t *testing.T) {
	h := newHarness(t, nil)
	form := fullForm()
	form.Del("message")

	w := h.do(contactRequest(form))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Zero(t, h.relay.calls.Load())
	assert.Contains(t, w.Body.String(), `value="Ada"`)
	assert.Contains(t, w.Body.String(), "alert-error")
}

func TestContact_RelayFailureKeepsForm(t *testing.T) {
	h := newHarness(t, nil)
	h.relay.err = &contact.RelayError{StatusCode: http.StatusBadRequest, Message: "Invalid email"}

	w := h.do(contactRequest(fullForm()))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to send message: Invalid email. Please try again.")
	assert.Contains(t, w.Body.String(), `value="ada@example.com"`)
	assert.Contains(t, w.Body.String(), "Hello there</textarea>")
}

func TestContact_RateLimited(t *testing.T) {
	h := newHarness(t, func(o *Options, _ *config.Profile) {
		o.RateRPS = 0.001
		o.RateBurst = 1
	})

	w := h.do(contactRequest(fullForm()))
	require.Equal(t, http.StatusOK, w.Code)

	w = h.do(contactRequest(fullForm(), cookie(w, sessionCookie)))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), rateLimitedMsg)
	assert.Contains(t, w.Body.String(), `value="Ada"`)
	assert.EqualValues(t, 1, h.relay.calls.Load())
}

func TestTheme(t *testing.T) {
	h := newHarness(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/theme", strings.NewReader("theme=dracula"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := h.do(req)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "true", w.Header().Get("HX-Refresh"))
	th := cookie(w, themeCookie)
	require.NotNil(t, th)
	assert.Equal(t, "dracula", th.Value)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(th)
	w = h.do(req)
	assert.Contains(t, w.Body.String(), `data-theme="dracula"`)

	req = httptest.NewRequest(http.MethodPost, "/theme", strings.NewReader("theme=neon"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	assert.Equal(t, http.StatusBadRequest, h.do(req).Code)
}

func TestProjectImage(t *testing.T) {
	h := newHarness(t, nil)

	w := h.do(httptest.NewRequest(http.MethodGet, "/project-image/external/0", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, string(assets.SourceGiven), w.Header().Get("X-Image-Source"))

	w = h.do(httptest.NewRequest(http.MethodGet, "/project-image/external/1", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, assets.PlaceholderContentType, w.Header().Get("Content-Type"))
	assert.Equal(t, string(assets.SourcePlaceholder), w.Header().Get("X-Image-Source"))
	assert.Contains(t, w.Body.String(), "Missing Image")

	assert.Equal(t, http.StatusNotFound, h.do(httptest.NewRequest(http.MethodGet, "/project-image/external/7", nil)).Code)
	assert.Equal(t, http.StatusNotFound, h.do(httptest.NewRequest(http.MethodGet, "/project-image/external/x", nil)).Code)
}

func TestAPIProfile(t *testing.T) {
	h := newHarness(t, nil)
	w := h.do(httptest.NewRequest(http.MethodGet, "/api/profile", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Loading bool `json:"loading"`
		Profile struct {
			Name string `json:"name"`
		} `json:"profile"`
		Config struct {
			GitHub struct {
				Username string `json:"username"`
			} `json:"github"`
		} `json:"config"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Loading)
	assert.Equal(t, "The Octocat", body.Profile.Name)
	assert.Equal(t, "octocat", body.Config.GitHub.Username)
}

func TestManifest(t *testing.T) {
	h := newHarness(t, nil)
	w := h.do(httptest.NewRequest(http.MethodGet, "/manifest.webmanifest", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/manifest+json", w.Header().Get("Content-Type"))

	var m webManifest
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	assert.Equal(t, "octocat", m.ShortName)
	assert.Equal(t, "/", m.StartURL)
	assert.Equal(t, "#fc055b", m.ThemeColor)

	h = newHarness(t, func(_ *Options, cfg *config.Profile) { cfg.EnablePWA = false })
	assert.Equal(t, http.StatusNotFound, h.do(httptest.NewRequest(http.MethodGet, "/manifest.webmanifest", nil)).Code)
}

func TestHealthAndMetrics(t *testing.T) {
	h := newHarness(t, nil)
	w := h.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)

	w = h.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "portfolio_http_request_duration_seconds")
}

func TestStaticFiles(t *testing.T) {
	h := newHarness(t, nil)
	w := h.do(httptest.NewRequest(http.MethodGet, "/static/site.css", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "body{}", w.Body.String())
}

func TestSubPathBase(t *testing.T) {
	h := newHarness(t, func(o *Options, cfg *config.Profile) {
		o.Base = "/portfolio/"
		cfg.Base = "/portfolio/"
	})

	w := h.do(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/portfolio/", w.Header().Get("Location"))

	w = h.do(httptest.NewRequest(http.MethodGet, "/portfolio/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `hx-post="/portfolio/contact"`)

	w = h.do(httptest.NewRequest(http.MethodGet, "/portfolio/static/site.css", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestLogging(t *testing.T) {
	h := newHarness(t, nil)

	h.do(httptest.NewRequest(http.MethodGet, "/", nil))
	line := h.logs.String()
	assert.Contains(t, line, `"event":"http.request"`)
	assert.Contains(t, line, `"client":"`)
	assert.NotContains(t, line, "192.0.2.1", "raw addresses are never logged")

	h.logs.Reset()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("DNT", "1")
	h.do(req)
	assert.Contains(t, h.logs.String(), `"event":"http.request"`)
	assert.NotContains(t, h.logs.String(), `"client"`)
}

func TestAnonymizer(t *testing.T) {
	a, err := NewAnonymizer("salt")
	require.NoError(t, err)
	assert.Len(t, a.Hash("203.0.113.9"), 16)
	assert.Equal(t, a.Hash("203.0.113.9"), a.Hash("203.0.113.9"))
	assert.NotEqual(t, a.Hash("203.0.113.9"), a.Hash("203.0.113.10"))

	b, err := NewAnonymizer("")
	require.NoError(t, err)
	assert.NotEqual(t, a.Hash("203.0.113.9"), b.Hash("203.0.113.9"))
}
