package profile

import (
	"context"
	"reflect"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/Zachkp/portfolio/internal/blog"
	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/github"
	"github.com/Zachkp/portfolio/internal/metrics"
)

// UserSource is the GitHub side of the lookup.
type UserSource interface {
	GetUser(ctx context.Context, username string) (*github.User, error)
	SearchRepositories(ctx context.Context, q github.RepoQuery) ([]github.Repository, error)
}

// ArticleSource supplies blog posts.
type ArticleSource interface {
	Fetch(ctx context.Context, source, username string, limit int) ([]blog.Article, error)
}

// Loader publishes ViewModel snapshots. The first snapshot is in the
// loading state; later ones are built by background refreshes and swapped
// in whole.
type Loader struct {
	users    UserSource
	articles ArticleSource
	ttl      time.Duration
	logger   zerolog.Logger
	now      func() time.Time

	current atomic.Pointer[ViewModel]
	group   singleflight.Group

	mu         sync.Mutex // serialises swaps against config changes
	generation uint64
	baseCtx    context.Context
	wg         sync.WaitGroup
}

// NewLoader creates a loader for cfg. articles may be nil to disable blogs.
func NewLoader(cfg *config.Profile, users UserSource, articles ArticleSource, ttl time.Duration, logger zerolog.Logger) *Loader {
	l := &Loader{
		users:    users,
		articles: articles,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
		baseCtx:  context.Background(),
	}
	l.current.Store(&ViewModel{Config: cfg, Loading: true})
	return l
}

// Start kicks off the first lookup in the background. Background work
// stops when ctx is done.
func (l *Loader) Start(ctx context.Context) {
	l.mu.Lock()
	l.baseCtx = ctx
	l.mu.Unlock()
	l.refreshAsync()
}

// Wait blocks until background refreshes have finished.
func (l *Loader) Wait() {
	l.wg.Wait()
}

// Snapshot returns the current view-model. A stale snapshot is still
// returned while a background refresh replaces it.
func (l *Loader) Snapshot() *ViewModel {
	vm := l.current.Load()
	if !vm.Loading && l.now().Sub(vm.LoadedAt) > l.ttl {
		l.refreshAsync()
	}
	return vm
}

// SetConfig publishes a new configuration. Fetched data is carried over
// when the lookup inputs are unchanged; otherwise the loader goes back to
// the loading state and refreshes.
func (l *Loader) SetConfig(cfg *config.Profile) {
	l.mu.Lock()
	prev := l.current.Load()
	if sameLookup(prev.Config, cfg) {
		next := *prev
		next.Config = cfg
		l.current.Store(&next)
		l.mu.Unlock()
		return
	}
	l.generation++
	l.current.Store(&ViewModel{Config: cfg, Loading: true})
	l.mu.Unlock()

	l.logger.Info().Str("event", "profile.config_changed").Msg("lookup inputs changed, reloading profile")
	l.refreshAsync()
}

// Refresh performs a lookup now. Concurrent callers share one lookup.
func (l *Loader) Refresh(ctx context.Context) *ViewModel {
	l.mu.Lock()
	gen := l.generation
	l.mu.Unlock()

	// Keyed by generation so a lookup for a replaced config is never shared
	// with callers that need the new one.
	v, _, _ := l.group.Do(strconv.FormatUint(gen, 10), func() (any, error) {
		return l.refresh(ctx, gen), nil
	})
	return v.(*ViewModel)
}

func (l *Loader) refreshAsync() {
	l.mu.Lock()
	ctx := l.baseCtx
	l.mu.Unlock()
	if ctx.Err() != nil {
		return
	}
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		l.Refresh(ctx)
	}()
}

func (l *Loader) refresh(ctx context.Context, gen uint64) *ViewModel {
	prev := l.current.Load()
	if prev.Config == nil {
		return prev
	}

	next := l.build(ctx, prev)

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.generation {
		// The configuration changed mid-flight; a newer refresh is pending.
		return l.current.Load()
	}
	if cur := l.current.Load(); cur.Config != next.Config {
		// Same lookup inputs, but presentation fields changed meanwhile.
		swapped := *next
		swapped.Config = cur.Config
		next = &swapped
	}
	l.current.Store(next)
	return next
}

func (l *Loader) build(ctx context.Context, prev *ViewModel) *ViewModel {
	cfg := prev.Config
	start := l.now()
	next := &ViewModel{Config: cfg, LoadedAt: start}

	user, err := l.users.GetUser(ctx, cfg.GitHub.Username)
	if err != nil {
		metrics.RecordProfileFetch("github_user", "error")
		l.logger.Error().Err(err).
			Str("event", "profile.fetch_failed").
			Str("username", cfg.GitHub.Username).
			Msg("github profile lookup failed")
		if prev.Profile != nil {
			// Keep serving the last good data rather than regress to an error.
			kept := *prev
			kept.LoadedAt = start
			return &kept
		}
		next.Error = toLoadError(err)
		return next
	}
	metrics.RecordProfileFetch("github_user", "ok")
	next.Profile = fromUser(user)

	if gp := cfg.Projects.GitHub; gp.Display {
		repos, err := l.users.SearchRepositories(ctx, repoQuery(cfg))
		if err != nil {
			metrics.RecordProfileFetch("github_repos", "error")
			l.logger.Warn().Err(err).Str("event", "profile.repos_failed").Msg("github repository lookup failed")
			repos = prev.Repos
		} else {
			metrics.RecordProfileFetch("github_repos", "ok")
		}
		next.Repos = repos
	}

	if b := cfg.Blog; b.Username != "" && l.articles != nil {
		articles, err := l.articles.Fetch(ctx, b.Source, b.Username, b.Limit)
		if err != nil {
			metrics.RecordProfileFetch("blog", "error")
			l.logger.Warn().Err(err).Str("event", "profile.blog_failed").Str("source", b.Source).Msg("blog lookup failed")
			articles = prev.Articles
		} else {
			metrics.RecordProfileFetch("blog", "ok")
		}
		next.Articles = articles
	}

	l.logger.Debug().
		Str("event", "profile.loaded").
		Int("repos", len(next.Repos)).
		Int("articles", len(next.Articles)).
		Dur("took", l.now().Sub(start)).
		Msg("profile loaded")
	return next
}

func repoQuery(cfg *config.Profile) github.RepoQuery {
	gp := cfg.Projects.GitHub
	return github.RepoQuery{
		Username:     cfg.GitHub.Username,
		Manual:       gp.Mode == config.ModeManual,
		Repos:        gp.Manual.Projects,
		SortBy:       gp.Automatic.SortBy,
		Limit:        gp.Automatic.Limit,
		ExcludeForks: gp.Automatic.Exclude.Forks,
		Exclude:      gp.Automatic.Exclude.Projects,
	}
}

// sameLookup reports whether a and b would produce the same fetched data.
func sameLookup(a, b *config.Profile) bool {
	if a == nil || b == nil {
		return false
	}
	return a.GitHub == b.GitHub &&
		reflect.DeepEqual(a.Projects.GitHub, b.Projects.GitHub) &&
		a.Blog == b.Blog
}
