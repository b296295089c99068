package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gdasset/internal/watcher"
	"github.com/yaklabco/gdasset/pkg/fsutil"
)

func startWatcher(t *testing.T, dir string) <-chan []watcher.Change {
	t.Helper()

	excludes, err := fsutil.CompileGlobs([]string{"addons/**"})
	require.NoError(t, err)

	changes := make(chan []watcher.Change, 8)
	w, err := watcher.New(watcher.Options{
		Debounce:   50 * time.Millisecond,
		Extensions: []string{".tscn", ".tres"},
		BaseDir:    dir,
		Excludes:   excludes,
		OnChange: func(_ context.Context, batch []watcher.Change) {
			changes <- batch
		},
	})
	require.NoError(t, err)
	require.NoError(t, w.Add(dir))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	t.Cleanup(func() {
		cancel()
		assert.NoError(t, <-done)
		assert.NoError(t, w.Close())
	})

	return changes
}

// waitFor drains batches until one contains path or the timeout expires.
func waitFor(t *testing.T, changes <-chan []watcher.Change, path string) watcher.Change {
	t.Helper()

	timeout := time.After(3 * time.Second)
	for {
		select {
		case batch := <-changes:
			for _, change := range batch {
				if change.Path == path {
					return change
				}
			}
		case <-timeout:
			t.Fatalf("timed out waiting for change to %s", path)
			return watcher.Change{}
		}
	}
}

func TestWatcherReportsAssetChanges(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	changes := startWatcher(t, dir)

	scene := filepath.Join(dir, "main.tscn")
	require.NoError(t, os.WriteFile(scene, []byte("[gd_scene format=3]\n"), 0o644))
	assert.False(t, waitFor(t, changes, scene).Removed)

	require.NoError(t, os.Remove(scene))
	assert.True(t, waitFor(t, changes, scene).Removed)
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "addons", "plugin"), 0o755))
	changes := startWatcher(t, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "addons", "plugin", "p.tscn"), []byte("x"), 0o644))

	marker := filepath.Join(dir, "marker.tres")
	require.NoError(t, os.WriteFile(marker, []byte("[resource]\n"), 0o644))

	timeout := time.After(3 * time.Second)
	for {
		select {
		case batch := <-changes:
			for _, change := range batch {
				assert.NotEqual(t, "notes.txt", filepath.Base(change.Path))
				assert.NotEqual(t, "p.tscn", filepath.Base(change.Path))
				if change.Path == marker {
					return
				}
			}
		case <-timeout:
			t.Fatal("timed out waiting for marker change")
		}
	}
}

func TestWatcherFollowsNewDirectories(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	changes := startWatcher(t, dir)

	sub := filepath.Join(dir, "levels")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	nested := filepath.Join(sub, "level1.tscn")
	require.NoError(t, os.WriteFile(nested, []byte("[gd_scene format=3]\n"), 0o644))

	assert.False(t, waitFor(t, changes, nested).Removed)
}

func TestNewRequiresCallback(t *testing.T) {
	t.Parallel()

	_, err := watcher.New(watcher.Options{})
	require.Error(t, err)
}
