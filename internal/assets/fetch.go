// Package assets resolves project images with graceful degradation.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"
)

// ErrNotFound means the fetcher has no image at the requested path.
var ErrNotFound = errors.New("assets: image not found")

const maxImageBytes = 8 << 20

// Image is raw image bytes plus their media type.
type Image struct {
	Data        []byte
	ContentType string
}

// Fetcher loads one candidate image.
type Fetcher interface {
	Fetch(ctx context.Context, p string) (Image, error)
}

// SiteFetcher reads local images from the public file tree served under
// the site base, and remote images over HTTP. A relative path is relative
// to the base, like a browser resolving it against the page URL. A path
// with a leading slash is an absolute URL path and only resolves when it
// falls under the base.
type SiteFetcher struct {
	FS       fs.FS
	Base     string   // site base, e.g. "/portfolio/"
	Prefixes []string // top-level directories that may be served
	HTTP     *http.Client
}

// NewSiteFetcher serves files below the given prefixes of fsys.
func NewSiteFetcher(fsys fs.FS, base string, timeout time.Duration, prefixes ...string) *SiteFetcher {
	return &SiteFetcher{
		FS:       fsys,
		Base:     base,
		Prefixes: prefixes,
		HTTP:     &http.Client{Timeout: timeout},
	}
}

func (f *SiteFetcher) Fetch(ctx context.Context, p string) (Image, error) {
	if strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") {
		return f.fetchRemote(ctx, p)
	}
	return f.fetchLocal(p)
}

func (f *SiteFetcher) fetchLocal(p string) (Image, error) {
	name := p
	if strings.HasPrefix(p, "/") {
		base := "/" + strings.Trim(f.Base, "/") + "/"
		if base == "//" {
			base = "/"
		}
		if !strings.HasPrefix(p, base) {
			return Image{}, ErrNotFound
		}
		name = strings.TrimPrefix(p, base)
	}
	name = path.Clean(name)
	if !fs.ValidPath(name) || !f.allowed(name) {
		return Image{}, ErrNotFound
	}

	data, err := fs.ReadFile(f.FS, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Image{}, ErrNotFound
		}
		return Image{}, fmt.Errorf("read image %s: %w", name, err)
	}
	return Image{Data: data, ContentType: contentType(name, data)}, nil
}

func (f *SiteFetcher) allowed(name string) bool {
	for _, prefix := range f.Prefixes {
		if strings.HasPrefix(name, strings.Trim(prefix, "/")+"/") {
			return true
		}
	}
	return false
}

func (f *SiteFetcher) fetchRemote(ctx context.Context, u string) (Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Image{}, fmt.Errorf("build image request: %w", err)
	}
	resp, err := f.HTTP.Do(req)
	if err != nil {
		return Image{}, fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
		return Image{}, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Image{}, fmt.Errorf("fetch image: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return Image{}, fmt.Errorf("read image body: %w", err)
	}
	ct := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "image/") {
		ct = contentType(u, data)
	}
	if !strings.HasPrefix(ct, "image/") {
		return Image{}, fmt.Errorf("fetch image: unexpected content type %q", ct)
	}
	return Image{Data: data, ContentType: ct}, nil
}

func contentType(name string, data []byte) string {
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		return ct
	}
	return http.DetectContentType(data)
}
