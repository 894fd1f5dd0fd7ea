package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

const reloadDebounce = 500 * time.Millisecond

// Holder owns the current profile and replaces it wholesale when the file
// on disk changes. Readers always see a complete, validated profile.
type Holder struct {
	path    string
	logger  zerolog.Logger
	current atomic.Pointer[Profile]

	mu        sync.Mutex
	listeners []func(*Profile)
}

// NewHolder returns a holder serving initial until the first reload.
func NewHolder(path string, initial *Profile, logger zerolog.Logger) *Holder {
	h := &Holder{path: path, logger: logger}
	h.current.Store(initial)
	return h
}

// Get returns the current profile. Callers must not mutate it.
func (h *Holder) Get() *Profile {
	return h.current.Load()
}

// OnChange registers fn to run after every successful reload.
func (h *Holder) OnChange(fn func(*Profile)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listeners = append(h.listeners, fn)
}

// Reload re-reads the file. On error the current profile is kept.
func (h *Holder) Reload() error {
	p, err := LoadProfile(h.path)
	if err != nil {
		return err
	}
	h.current.Store(p)

	h.mu.Lock()
	listeners := append([]func(*Profile){}, h.listeners...)
	h.mu.Unlock()
	for _, fn := range listeners {
		fn(p)
	}

	h.logger.Info().
		Str("event", "config.reload_success").
		Str("path", h.path).
		Msg("profile configuration reloaded")
	return nil
}

// Watch reloads the profile whenever its file is written or replaced, until
// ctx is done. The directory is watched because editors often save by
// renaming a temp file over the original.
func (h *Holder) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(h.path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch config dir: %w", err)
	}

	h.logger.Info().
		Str("event", "config.watcher_started").
		Str("path", h.path).
		Msg("watching profile configuration for changes")

	go h.watchLoop(ctx, watcher)
	return nil
}

func (h *Holder) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer watcher.Close()

	target := filepath.Clean(h.path)
	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			h.logger.Info().Str("event", "config.watcher_stopped").Msg("config watcher stopped")
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(reloadDebounce, func() {
				if err := h.Reload(); err != nil {
					h.logger.Error().
						Err(err).
						Str("event", "config.auto_reload_failed").
						Msg("profile reload failed, keeping previous configuration")
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			h.logger.Warn().Err(err).Str("event", "config.watcher_error").Msg("config watcher error")
		}
	}
}
