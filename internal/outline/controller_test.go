package outline

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/codespace/internal/config"
	"github.com/mvp-joe/codespace/internal/symbols"
	"github.com/mvp-joe/codespace/internal/vault"
)

// Test Plan for Controller:
// - Starts Idle with the "open a code file" empty state
// - Activating a managed file binds it and shows its symbols
// - An in-memory buffer is preferred over the file on disk
// - Re-activating the bound file is a no-op (no recomputation, no host update)
// - Activating a different managed file recomputes
// - Activating an unmanaged file or nothing returns to Idle
// - Files without symbols and unreadable files show the "no symbols" empty state
// - Select maps a symbol line to the start of that line in the current buffer
// - Select opens an editor when none is attached
// - Select past the end of the buffer, or while Idle, is a no-op
// - FilesChanged refreshes the bound file and unbinds when it is removed
// - SetExtensions unbinds a file that is no longer managed
// - Repeated extraction of identical text is served from the cache
// - LinePosition handles first, middle, trailing-empty and out-of-range lines

type textBuffer string

func (b textBuffer) Text() string { return string(b) }

type navigation struct {
	file vault.File
	pos  Position
}

type fakeHost struct {
	mu        sync.Mutex
	outlines  []Outline
	opened    []vault.File
	navs      []navigation
	openText  string
	openError error
}

func (h *fakeHost) ShowOutline(o Outline) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.outlines = append(h.outlines, o)
}

func (h *fakeHost) OpenEditor(_ context.Context, f vault.File) (Buffer, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.opened = append(h.opened, f)
	if h.openError != nil {
		return nil, h.openError
	}
	return textBuffer(h.openText), nil
}

func (h *fakeHost) Navigate(f vault.File, pos Position) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.navs = append(h.navs, navigation{file: f, pos: pos})
}

func (h *fakeHost) shown() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.outlines)
}

func (h *fakeHost) last() Outline {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.outlines[len(h.outlines)-1]
}

const pySource = `class Foo:
    def bar(self): pass
def baz(): pass
`

func newTestController(t *testing.T, cacheSize int) (*Controller, *vault.Memory, *fakeHost) {
	t.Helper()

	ns := vault.NewMemory(map[string]string{
		"src/foo.py":   pySource,
		"src/main.go":  "package main\n\nfunc main() {}\n",
		"src/empty.py": "x = 1\n",
		"README.md":    "# readme",
	})
	host := &fakeHost{}

	c, err := NewController(ns, host, Options{
		Extensions: config.ParseExtensions("py, go"),
		CacheSize:  cacheSize,
	})
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c, ns, host
}

func TestController_StartsIdle(t *testing.T) {
	t.Parallel()

	c, _, _ := newTestController(t, DefaultCacheSize)

	assert.Equal(t, StateIdle, c.State())
	o := c.Outline()
	assert.Equal(t, EmptyNoFile, o.EmptyText)
	assert.Empty(t, o.Symbols)
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "bound", StateBound.String())
}

func TestController_ActivateManagedFile(t *testing.T) {
	t.Parallel()

	c, _, host := newTestController(t, DefaultCacheSize)
	ctx := context.Background()

	c.Activate(ctx, &ActiveView{File: vault.File{Path: "src/foo.py"}})

	assert.Equal(t, StateBound, c.State())
	require.Equal(t, 1, host.shown())
	o := host.last()
	assert.Equal(t, "src/foo.py", o.File.Path)
	assert.Empty(t, o.EmptyText)
	assert.Equal(t, []symbols.Symbol{
		{Name: "Foo", Kind: symbols.KindClass, Line: 1},
		{Name: "Foo.bar", Kind: symbols.KindMethod, Line: 2},
		{Name: "baz", Kind: symbols.KindFunction, Line: 3},
	}, o.Symbols)
	assert.Equal(t, o.Symbols, c.Symbols())
}

func TestController_PrefersBuffer(t *testing.T) {
	t.Parallel()

	c, _, host := newTestController(t, DefaultCacheSize)

	c.Activate(context.Background(), &ActiveView{
		File:   vault.File{Path: "src/foo.py"},
		Buffer: textBuffer("def unsaved(): pass\n"),
	})

	assert.Equal(t, []symbols.Symbol{
		{Name: "unsaved", Kind: symbols.KindFunction, Line: 1},
	}, host.last().Symbols)
}

func TestController_SameFileIsNoop(t *testing.T) {
	t.Parallel()

	c, ns, host := newTestController(t, DefaultCacheSize)
	ctx := context.Background()
	view := &ActiveView{File: vault.File{Path: "src/foo.py"}}

	c.Activate(ctx, view)
	ns.Put("src/foo.py", "def changed(): pass\n")
	c.Activate(ctx, view)
	c.Activate(ctx, view)

	assert.Equal(t, 1, host.shown())
	assert.Equal(t, "Foo", c.Symbols()[0].Name)
}

func TestController_SwitchFiles(t *testing.T) {
	t.Parallel()

	c, _, host := newTestController(t, DefaultCacheSize)
	ctx := context.Background()

	c.Activate(ctx, &ActiveView{File: vault.File{Path: "src/foo.py"}})
	c.Activate(ctx, &ActiveView{File: vault.File{Path: "src/main.go"}})

	require.Equal(t, 2, host.shown())
	assert.Equal(t, "src/main.go", host.last().File.Path)
	assert.Equal(t, []symbols.Symbol{
		{Name: "main", Kind: symbols.KindFunction, Line: 3},
	}, host.last().Symbols)
}

func TestController_UnmanagedGoesIdle(t *testing.T) {
	t.Parallel()

	c, _, host := newTestController(t, DefaultCacheSize)
	ctx := context.Background()

	// Idle → Idle emits nothing
	c.Activate(ctx, nil)
	c.Activate(ctx, &ActiveView{File: vault.File{Path: "README.md"}})
	assert.Equal(t, 0, host.shown())

	c.Activate(ctx, &ActiveView{File: vault.File{Path: "src/foo.py"}})
	c.Activate(ctx, &ActiveView{File: vault.File{Path: "README.md"}})

	assert.Equal(t, StateIdle, c.State())
	require.Equal(t, 2, host.shown())
	assert.Equal(t, EmptyNoFile, host.last().EmptyText)
	assert.Empty(t, host.last().Symbols)

	// Re-activating after Idle recomputes
	c.Activate(ctx, &ActiveView{File: vault.File{Path: "src/foo.py"}})
	assert.Equal(t, 3, host.shown())

	c.Activate(ctx, &ActiveView{File: vault.File{Path: "src", IsDir: true}})
	assert.Equal(t, StateIdle, c.State())
}

func TestController_EmptyStates(t *testing.T) {
	t.Parallel()

	c, _, host := newTestController(t, DefaultCacheSize)
	ctx := context.Background()

	c.Activate(ctx, &ActiveView{File: vault.File{Path: "src/empty.py"}})
	assert.Equal(t, StateBound, c.State())
	assert.Equal(t, EmptyNoSymbols, host.last().EmptyText)

	// Unreadable file: bound with no symbols
	c.Activate(ctx, &ActiveView{File: vault.File{Path: "src/ghost.py"}})
	assert.Equal(t, StateBound, c.State())
	assert.Equal(t, "src/ghost.py", host.last().File.Path)
	assert.Equal(t, EmptyNoSymbols, host.last().EmptyText)
}

func TestController_SelectUsesCurrentBuffer(t *testing.T) {
	t.Parallel()

	c, _, host := newTestController(t, DefaultCacheSize)
	ctx := context.Background()

	c.Activate(ctx, &ActiveView{File: vault.File{Path: "src/foo.py"}, Buffer: textBuffer(pySource)})
	syms := c.Symbols()
	require.Len(t, syms, 3)

	pos, ok := c.Select(ctx, syms[2])
	require.True(t, ok)
	assert.Equal(t, Position{Line: 3, Offset: len("class Foo:\n    def bar(self): pass\n")}, pos)

	host.mu.Lock()
	require.Len(t, host.navs, 1)
	assert.Equal(t, "src/foo.py", host.navs[0].file.Path)
	assert.Empty(t, host.opened)
	host.mu.Unlock()

	// The buffer diverged: a newer buffer handle with one line only
	c.Activate(ctx, &ActiveView{File: vault.File{Path: "src/foo.py"}, Buffer: textBuffer("class Foo:")})
	_, ok = c.Select(ctx, syms[2])
	assert.False(t, ok)
}

func TestController_SelectOpensEditor(t *testing.T) {
	t.Parallel()

	c, _, host := newTestController(t, DefaultCacheSize)
	ctx := context.Background()
	host.openText = pySource

	c.Activate(ctx, &ActiveView{File: vault.File{Path: "src/foo.py"}})

	pos, ok := c.Select(ctx, symbols.Symbol{Name: "Foo.bar", Kind: symbols.KindMethod, Line: 2})
	require.True(t, ok)
	assert.Equal(t, Position{Line: 2, Offset: len("class Foo:\n")}, pos)

	// The opened buffer is reused
	_, ok = c.Select(ctx, symbols.Symbol{Name: "Foo", Kind: symbols.KindClass, Line: 1})
	require.True(t, ok)

	host.mu.Lock()
	defer host.mu.Unlock()
	assert.Len(t, host.opened, 1)
	assert.Len(t, host.navs, 2)
}

func TestController_SelectFailures(t *testing.T) {
	t.Parallel()

	c, _, host := newTestController(t, DefaultCacheSize)
	ctx := context.Background()

	_, ok := c.Select(ctx, symbols.Symbol{Name: "x", Line: 1})
	assert.False(t, ok, "idle controller cannot navigate")

	host.openError = errors.New("no editor")
	c.Activate(ctx, &ActiveView{File: vault.File{Path: "src/foo.py"}})
	_, ok = c.Select(ctx, symbols.Symbol{Name: "Foo", Line: 1})
	assert.False(t, ok)

	host.mu.Lock()
	defer host.mu.Unlock()
	assert.Empty(t, host.navs)
}

func TestController_FilesChanged(t *testing.T) {
	t.Parallel()

	c, ns, host := newTestController(t, DefaultCacheSize)
	ctx := context.Background()

	c.Activate(ctx, &ActiveView{File: vault.File{Path: "src/foo.py"}})
	require.Equal(t, 1, host.shown())

	c.FilesChanged(ctx, []string{"src/main.go"})
	assert.Equal(t, 1, host.shown())

	ns.Put("src/foo.py", "def renamed(): pass\n")
	c.FilesChanged(ctx, []string{"src/foo.py"})
	require.Equal(t, 2, host.shown())
	assert.Equal(t, "renamed", host.last().Symbols[0].Name)

	ns.Remove("src/foo.py")
	c.FilesChanged(ctx, []string{"src/foo.py"})
	assert.Equal(t, StateIdle, c.State())
	assert.Equal(t, EmptyNoFile, host.last().EmptyText)
}

func TestController_Refresh(t *testing.T) {
	t.Parallel()

	c, ns, host := newTestController(t, DefaultCacheSize)
	ctx := context.Background()

	c.Refresh(ctx)
	assert.Equal(t, 0, host.shown())

	c.Activate(ctx, &ActiveView{File: vault.File{Path: "src/foo.py"}})
	ns.Put("src/foo.py", "class Bar:\n")
	c.Refresh(ctx)

	require.Equal(t, 2, host.shown())
	assert.Equal(t, "Bar", host.last().Symbols[0].Name)
}

func TestController_SetExtensions(t *testing.T) {
	t.Parallel()

	c, _, host := newTestController(t, DefaultCacheSize)
	ctx := context.Background()

	c.Activate(ctx, &ActiveView{File: vault.File{Path: "src/foo.py"}})

	c.SetExtensions(config.ParseExtensions("py"))
	assert.Equal(t, StateBound, c.State())

	c.SetExtensions(config.ParseExtensions("go"))
	assert.Equal(t, StateIdle, c.State())
	assert.Equal(t, EmptyNoFile, host.last().EmptyText)
	assert.False(t, c.Managed(vault.File{Path: "a.py"}))
	assert.True(t, c.Managed(vault.File{Path: "a.go"}))
}

func TestController_CachesExtraction(t *testing.T) {
	t.Parallel()

	c, _, _ := newTestController(t, DefaultCacheSize)
	ctx := context.Background()

	c.Activate(ctx, &ActiveView{File: vault.File{Path: "src/foo.py"}})
	c.Activate(ctx, &ActiveView{File: vault.File{Path: "src/main.go"}})
	c.Activate(ctx, &ActiveView{File: vault.File{Path: "src/foo.py"}})

	assert.Equal(t, int64(1), c.CacheHits())

	uncached, _, host := newTestController(t, 0)
	uncached.Activate(ctx, &ActiveView{File: vault.File{Path: "src/foo.py"}})
	assert.Equal(t, int64(0), uncached.CacheHits())
	assert.Len(t, host.last().Symbols, 3)
}

func TestLinePosition(t *testing.T) {
	t.Parallel()

	text := "ab\ncd\n"

	tests := []struct {
		line   int
		offset int
		ok     bool
	}{
		{1, 0, true},
		{2, 3, true},
		{3, 6, true},
		{4, 0, false},
		{0, 0, false},
		{-1, 0, false},
	}

	for _, tt := range tests {
		pos, ok := LinePosition(text, tt.line)
		assert.Equal(t, tt.ok, ok, "line=%d", tt.line)
		if tt.ok {
			assert.Equal(t, Position{Line: tt.line, Offset: tt.offset}, pos)
		}
	}

	pos, ok := LinePosition("", 1)
	require.True(t, ok)
	assert.Equal(t, 0, pos.Offset)
}
