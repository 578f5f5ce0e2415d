// Package outline keeps the symbol outline of the active code file and maps
// symbol selections back to editor positions.
package outline

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/mvp-joe/codespace/internal/config"
	"github.com/mvp-joe/codespace/internal/symbols"
	"github.com/mvp-joe/codespace/internal/vault"
)

// Empty-state texts shown instead of a symbol list.
const (
	EmptyNoFile    = "Open a code file to see its structure"
	EmptyNoSymbols = "No symbols found in this file"
)

// DefaultCacheSize is the number of extraction results kept in memory.
const DefaultCacheSize = 256

// State is the controller state.
type State int

const (
	StateIdle State = iota
	StateBound
)

func (s State) String() string {
	if s == StateBound {
		return "bound"
	}
	return "idle"
}

// Buffer is an open editor's current text.
type Buffer interface {
	Text() string
}

// ActiveView describes the view that became active. Buffer is nil when
// the file is not open in an editor.
type ActiveView struct {
	File   vault.File
	Buffer Buffer
}

// Position is a location in an editor buffer. Line is 1-based and Offset is
// the byte offset of the start of that line.
type Position struct {
	Line   int `json:"line"`
	Offset int `json:"offset"`
}

// Outline is what the host displays.
type Outline struct {
	State     State            `json:"-"`
	File      vault.File       `json:"file"`
	Symbols   []symbols.Symbol `json:"symbols"`
	EmptyText string           `json:"empty_text,omitempty"`
}

// Host is the UI side of the outline. Host methods must not call back into
// Activate, Refresh, FilesChanged, Select or SetExtensions.
type Host interface {
	// ShowOutline replaces the displayed outline.
	ShowOutline(o Outline)

	// OpenEditor opens f in an editor and returns its buffer.
	OpenEditor(ctx context.Context, f vault.File) (Buffer, error)

	// Navigate moves the editor showing f to pos.
	Navigate(f vault.File, pos Position)
}

// Options configures a Controller.
type Options struct {
	Extensions config.ExtensionSet // managed files; others put the controller in Idle
	CacheSize  int                 // extraction cache entries; 0 disables the cache
	Logger     *slog.Logger
}

// Controller maintains the symbol list of the active managed file.
type Controller struct {
	ns     vault.Namespace
	host   Host
	cache  *symbolCache
	logger *slog.Logger

	// opMu serializes operations, including their host calls.
	opMu sync.Mutex

	mu         sync.Mutex
	extensions config.ExtensionSet
	state      State
	file       vault.File
	buffer     Buffer
	symbols    []symbols.Symbol
}

// NewController creates an idle controller.
func NewController(ns vault.Namespace, host Host, opts Options) (*Controller, error) {
	cache, err := newSymbolCache(opts.CacheSize)
	if err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Controller{
		ns:         ns,
		host:       host,
		cache:      cache,
		logger:     opts.Logger,
		extensions: opts.Extensions,
	}, nil
}

// Close releases the extraction cache.
func (c *Controller) Close() {
	c.cache.close()
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Outline returns a snapshot of the current outline.
func (c *Controller) Outline() Outline {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outlineLocked()
}

// Symbols returns the current symbol list.
func (c *Controller) Symbols() []symbols.Symbol {
	c.mu.Lock()
	defer c.mu.Unlock()
	return clone(c.symbols)
}

// Managed reports whether f is a file the outline tracks.
func (c *Controller) Managed(f vault.File) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.managedLocked(f)
}

// Activate handles a view becoming active. A nil view or an unmanaged file
// moves the controller to Idle; re-activating the bound file is a no-op.
func (c *Controller) Activate(ctx context.Context, view *ActiveView) {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.Lock()
	if view == nil || !c.managedLocked(view.File) {
		wasBound := c.state == StateBound
		c.clearLocked()
		o := c.outlineLocked()
		c.mu.Unlock()

		if wasBound {
			c.host.ShowOutline(o)
		}
		return
	}

	if c.state == StateBound && c.file.Path == view.File.Path {
		if view.Buffer != nil {
			c.buffer = view.Buffer
		}
		c.mu.Unlock()
		return
	}

	c.state = StateBound
	c.file = view.File
	c.buffer = view.Buffer
	c.mu.Unlock()

	c.recompute(ctx)
}

// Refresh re-extracts symbols of the bound file.
func (c *Controller) Refresh(ctx context.Context) {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	if c.State() != StateBound {
		return
	}
	c.recompute(ctx)
}

// FilesChanged reacts to saved, created or removed files. The bound file
// is re-extracted, or the controller goes Idle when it disappeared.
func (c *Controller) FilesChanged(ctx context.Context, paths []string) {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.Lock()
	if c.state != StateBound {
		c.mu.Unlock()
		return
	}
	bound := c.file
	c.mu.Unlock()

	touched := false
	for _, p := range paths {
		if p == bound.Path {
			touched = true
			break
		}
	}
	if !touched {
		return
	}

	if f, ok := c.ns.FileAtPath(bound.Path); !ok || f.IsDir {
		c.logger.Debug("outline file removed", "file", bound.Path)
		c.mu.Lock()
		c.clearLocked()
		o := c.outlineLocked()
		c.mu.Unlock()
		c.host.ShowOutline(o)
		return
	}

	c.recompute(ctx)
}

// SetExtensions replaces the managed extension set. A bound file that is
// no longer managed moves the controller to Idle.
func (c *Controller) SetExtensions(extensions config.ExtensionSet) {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.Lock()
	c.extensions = extensions
	if c.state != StateBound || c.managedLocked(c.file) {
		c.mu.Unlock()
		return
	}
	c.clearLocked()
	o := c.outlineLocked()
	c.mu.Unlock()

	c.host.ShowOutline(o)
}

// Select navigates to sym in the bound file, opening an editor when none
// is attached. The line is located in the current buffer text; a line past
// the end of the buffer is a no-op.
func (c *Controller) Select(ctx context.Context, sym symbols.Symbol) (Position, bool) {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.Lock()
	if c.state != StateBound {
		c.mu.Unlock()
		return Position{}, false
	}
	f, buf := c.file, c.buffer
	c.mu.Unlock()

	if buf == nil {
		opened, err := c.host.OpenEditor(ctx, f)
		if err != nil || opened == nil {
			c.logger.Debug("outline failed to open editor", "file", f.Path, "error", err)
			return Position{}, false
		}
		buf = opened

		c.mu.Lock()
		if c.state == StateBound && c.file.Path == f.Path {
			c.buffer = buf
		}
		c.mu.Unlock()
	}

	pos, ok := LinePosition(buf.Text(), sym.Line)
	if !ok {
		c.logger.Debug("outline symbol line out of range", "file", f.Path, "line", sym.Line)
		return Position{}, false
	}

	c.host.Navigate(f, pos)
	return pos, true
}

// CacheHits returns the number of extractions served from cache.
func (c *Controller) CacheHits() int64 {
	return c.cache.hits()
}

// recompute extracts symbols of the bound file and shows them. Called with
// opMu held.
func (c *Controller) recompute(ctx context.Context) {
	c.mu.Lock()
	f, buf := c.file, c.buffer
	c.mu.Unlock()

	var text string
	if buf != nil {
		text = buf.Text()
	} else {
		content, err := c.ns.ReadFile(ctx, f)
		if err != nil {
			c.logger.Debug("outline read failed", "file", f.Path, "error", err)
		}
		text = content
	}

	syms := c.cache.extract(symbols.LanguageForPath(f.Path), text)

	c.mu.Lock()
	if c.state != StateBound || c.file.Path != f.Path {
		c.mu.Unlock()
		return
	}
	c.symbols = syms
	o := c.outlineLocked()
	c.mu.Unlock()

	c.host.ShowOutline(o)
}

func (c *Controller) managedLocked(f vault.File) bool {
	return !f.IsDir && c.extensions.Contains(f.Extension())
}

func (c *Controller) clearLocked() {
	c.state = StateIdle
	c.file = vault.File{}
	c.buffer = nil
	c.symbols = nil
}

func (c *Controller) outlineLocked() Outline {
	o := Outline{State: c.state, File: c.file, Symbols: clone(c.symbols)}
	switch {
	case c.state != StateBound:
		o.EmptyText = EmptyNoFile
	case len(o.Symbols) == 0:
		o.EmptyText = EmptyNoSymbols
	}
	return o
}

// LinePosition returns the position of the start of the 1-based line n in
// text. Lines are separated by "\n"; a trailing newline opens an empty
// last line, as in an editor.
func LinePosition(text string, n int) (Position, bool) {
	if n < 1 {
		return Position{}, false
	}

	offset := 0
	for line := 1; line < n; line++ {
		i := strings.IndexByte(text[offset:], '\n')
		if i < 0 {
			return Position{}, false
		}
		offset += i + 1
	}
	return Position{Line: n, Offset: offset}, true
}
