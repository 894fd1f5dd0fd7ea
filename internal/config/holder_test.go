package config

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProfile(t *testing.T, path, username string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("github:\n  username: "+username+"\n"), 0o644))
}

func TestHolder_ReloadReplacesProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gitprofile.yaml")
	writeProfile(t, path, "first")
	initial, err := LoadProfile(path)
	require.NoError(t, err)

	h := NewHolder(path, initial, zerolog.Nop())
	var notified atomic.Pointer[Profile]
	h.OnChange(func(p *Profile) { notified.Store(p) })

	writeProfile(t, path, "second")
	require.NoError(t, h.Reload())

	assert.Equal(t, "second", h.Get().GitHub.Username)
	assert.Same(t, h.Get(), notified.Load())
	assert.Equal(t, "first", initial.GitHub.Username, "previous snapshot is never mutated")
}

func TestHolder_InvalidReloadKeepsCurrent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gitprofile.yaml")
	writeProfile(t, path, "keep")
	initial, err := LoadProfile(path)
	require.NoError(t, err)

	h := NewHolder(path, initial, zerolog.Nop())
	require.NoError(t, os.WriteFile(path, []byte("github: [broken"), 0o644))

	assert.Error(t, h.Reload())
	assert.Same(t, initial, h.Get())
}

func TestHolder_WatchPicksUpWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gitprofile.yaml")
	writeProfile(t, path, "before")
	initial, err := LoadProfile(path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := NewHolder(path, initial, zerolog.Nop())
	require.NoError(t, h.Watch(ctx))

	writeProfile(t, path, "after")

	require.Eventually(t, func() bool {
		return h.Get().GitHub.Username == "after"
	}, 5*time.Second, 50*time.Millisecond)
}
