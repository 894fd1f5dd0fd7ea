package assets

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Zachkp/portfolio/internal/metrics"
)

// Source names the step of the fallback chain that produced an image.
type Source string

const (
	SourceGiven        Source = "given"
	SourceLeadingSlash Source = "leading_slash"
	SourcePlaceholder  Source = "placeholder"
)

// Result is the image that will be served and how it was found.
type Result struct {
	Image
	Source Source
	Tried  []string
}

// Resolver walks the fallback chain: the given path, the same path with a
// leading slash, then a synthesized placeholder. It never fails.
type Resolver struct {
	fetcher Fetcher
	logger  zerolog.Logger
}

func NewResolver(fetcher Fetcher, logger zerolog.Logger) *Resolver {
	return &Resolver{fetcher: fetcher, logger: logger}
}

// Resolve returns an image for a project. title labels the placeholder.
func (r *Resolver) Resolve(ctx context.Context, p, title string) Result {
	var tried []string

	for _, cand := range candidates(p) {
		tried = append(tried, cand.path)
		img, err := r.fetcher.Fetch(ctx, cand.path)
		if err == nil {
			metrics.RecordImageFallback(string(cand.source))
			return Result{Image: img, Source: cand.source, Tried: tried}
		}
		if !errors.Is(err, ErrNotFound) {
			r.logger.Debug().Err(err).Str("path", cand.path).Msg("image candidate failed")
		}
	}

	metrics.RecordImageFallback(string(SourcePlaceholder))
	return Result{
		Image:  Image{Data: Placeholder(title), ContentType: PlaceholderContentType},
		Source: SourcePlaceholder,
		Tried:  tried,
	}
}

type candidate struct {
	path   string
	source Source
}

func candidates(p string) []candidate {
	p = strings.TrimSpace(p)
	if p == "" {
		return nil
	}
	out := []candidate{{path: p, source: SourceGiven}}
	remote := strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://")
	if !remote && !strings.HasPrefix(p, "/") {
		out = append(out, candidate{path: "/" + p, source: SourceLeadingSlash})
	}
	return out
}
