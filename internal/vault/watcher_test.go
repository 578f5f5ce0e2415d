package vault

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/codespace/internal/config"
)

// Test Plan for Watcher:
// - A file write fires the callback with its vault path after debounce
// - Rapid changes to several files are batched and deduplicated
// - Extension filtering drops unmanaged files
// - Ignored folders never report changes
// - SetExtensions changes the filter of a running watcher
// - Files in newly created folders are picked up
// - Stop() is idempotent and safe before Start()

type changeRecorder struct {
	mu      sync.Mutex
	batches [][]string
	ch      chan struct{}
}

func newChangeRecorder() *changeRecorder {
	return &changeRecorder{ch: make(chan struct{}, 16)}
}

func (r *changeRecorder) callback(paths []string) {
	r.mu.Lock()
	r.batches = append(r.batches, paths)
	r.mu.Unlock()
	r.ch <- struct{}{}
}

func (r *changeRecorder) wait(t *testing.T) []string {
	t.Helper()
	select {
	case <-r.ch:
	case <-time.After(3 * time.Second):
		t.Fatal("callback not called after timeout")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.batches[len(r.batches)-1]
}

func startWatcher(t *testing.T, v *Vault, exts string) *changeRecorder {
	t.Helper()
	w, err := NewWatcher(v, WatcherOptions{
		Extensions: config.ParseExtensions(exts),
		Debounce:   50 * time.Millisecond,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	rec := newChangeRecorder()
	require.NoError(t, w.Start(context.Background(), rec.callback))

	// Wait for watcher to initialize
	time.Sleep(100 * time.Millisecond)
	return rec
}

func TestWatcher_SingleFileChange(t *testing.T) {
	t.Parallel()

	v := newTestVault(t)
	rec := startWatcher(t, v, "py, go")

	require.NoError(t, os.WriteFile(v.Abs("notes/helper.py"), []byte("def changed(): pass"), 0644))

	assert.Equal(t, []string{"notes/helper.py"}, rec.wait(t))
}

func TestWatcher_BatchesAndDeduplicates(t *testing.T) {
	t.Parallel()

	v := newTestVault(t)
	rec := startWatcher(t, v, "py, go")

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(v.Abs("main.go"), []byte("package main\n"), 0644))
		require.NoError(t, os.WriteFile(v.Abs("notes/helper.py"), []byte("x = 1\n"), 0644))
	}

	assert.Equal(t, []string{"main.go", "notes/helper.py"}, rec.wait(t))
}

func TestWatcher_FiltersExtensionsAndIgnoredFolders(t *testing.T) {
	t.Parallel()

	v := newTestVault(t)
	rec := startWatcher(t, v, "py, js")

	require.NoError(t, os.WriteFile(v.Abs("notes/index.md"), []byte("changed"), 0644))
	require.NoError(t, os.WriteFile(v.Abs("node_modules/x/index.js"), []byte("changed"), 0644))
	require.NoError(t, os.WriteFile(v.Abs("notes/helper.py"), []byte("changed"), 0644))

	assert.Equal(t, []string{"notes/helper.py"}, rec.wait(t))
}

func TestWatcher_SetExtensions(t *testing.T) {
	t.Parallel()

	v := newTestVault(t)
	w, err := NewWatcher(v, WatcherOptions{
		Extensions: config.ParseExtensions("go"),
		Debounce:   50 * time.Millisecond,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	rec := newChangeRecorder()
	require.NoError(t, w.Start(context.Background(), rec.callback))
	time.Sleep(100 * time.Millisecond)

	w.SetExtensions(config.ParseExtensions("py"))

	require.NoError(t, os.WriteFile(v.Abs("main.go"), []byte("package main\n"), 0644))
	require.NoError(t, os.WriteFile(v.Abs("notes/helper.py"), []byte("x = 2\n"), 0644))

	assert.Equal(t, []string{"notes/helper.py"}, rec.wait(t))
}

func TestWatcher_NewDirectory(t *testing.T) {
	t.Parallel()

	v := newTestVault(t)
	rec := startWatcher(t, v, "go")

	require.NoError(t, os.MkdirAll(v.Abs("pkg/sub"), 0755))
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(v.Abs("pkg/sub"), "new.go"), []byte("package sub"), 0644))

	assert.Equal(t, []string{"pkg/sub/new.go"}, rec.wait(t))
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	t.Parallel()

	v := newTestVault(t)

	w, err := NewWatcher(v, WatcherOptions{})
	require.NoError(t, err)
	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())

	started, err := NewWatcher(v, WatcherOptions{})
	require.NoError(t, err)
	require.NoError(t, started.Start(context.Background(), func([]string) {}))

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = started.Stop()
		}()
	}
	wg.Wait()
}
