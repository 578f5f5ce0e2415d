// Package workspace wires a vault on disk to the embed scheduler and the
// outline controller. It is the headless host used by the CLI and the MCP
// server: one Workspace per vault root.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mvp-joe/codespace/internal/config"
	"github.com/mvp-joe/codespace/internal/embed"
	"github.com/mvp-joe/codespace/internal/outline"
	"github.com/mvp-joe/codespace/internal/reference"
	"github.com/mvp-joe/codespace/internal/resolver"
	"github.com/mvp-joe/codespace/internal/symbols"
	"github.com/mvp-joe/codespace/internal/vault"
)

var (
	// ErrFileNotFound indicates the path does not name a visible vault file
	ErrFileNotFound = errors.New("file not found")

	// ErrSymbolNotFound indicates the outline has no symbol with the requested name
	ErrSymbolNotFound = errors.New("symbol not found")

	// ErrWatching indicates Watch was called while a watcher is running
	ErrWatching = errors.New("workspace already watching")
)

// Resolution is the outcome of resolving one reference.
type Resolution struct {
	Reference reference.Reference `json:"reference"`
	Found     bool                `json:"found"`
	File      vault.File          `json:"file,omitempty"`
	Strategy  string              `json:"strategy"`
}

// FileEntry is one managed file as listed to users.
type FileEntry struct {
	Path   string `json:"path"`
	Name   string `json:"name"`
	Folder string `json:"folder,omitempty"` // parent folder; empty at the vault root
}

// Label returns "name (folder)", or just the name for root files.
func (e FileEntry) Label() string {
	if e.Folder == "" {
		return e.Name
	}
	return fmt.Sprintf("%s (%s)", e.Name, e.Folder)
}

// Workspace is an opened vault.
type Workspace struct {
	vault     *vault.Vault
	resolver  *resolver.Resolver
	collector *embed.Collector
	scheduler *embed.Scheduler
	outline   *outline.Controller
	host      *outlineHost
	logger    *slog.Logger

	mu  sync.Mutex
	cfg *config.Config

	// inspectMu keeps an outline request and the snapshot it reads together.
	inspectMu sync.Mutex

	watchMu sync.Mutex
	watcher *vault.Watcher
}

// Open opens the vault at rootDir with cfg. A nil cfg means config.Default().
func Open(rootDir string, cfg *config.Config, logger *slog.Logger) (*Workspace, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	v, err := vault.Open(rootDir, cfg.Vault.Ignore)
	if err != nil {
		return nil, fmt.Errorf("failed to open vault: %w", err)
	}

	extensions := cfg.Extensions()
	r := resolver.New(v, extensions)
	collector := embed.NewCollector("")
	scheduler := embed.NewScheduler(r, collector, embed.Options{
		Debounce:      cfg.Debounce(),
		RetryDelay:    cfg.RetryDelay(),
		SourceRetries: cfg.Embed.SourceRetries,
		Settings:      settingsFrom(cfg),
		Parser:        parserFrom(cfg, v),
		Logger:        logger.With("component", "embed"),
	})

	host := &outlineHost{ns: v}
	controller, err := outline.NewController(v, host, outline.Options{
		Extensions: extensions,
		CacheSize:  cfg.Outline.CacheSize,
		Logger:     logger.With("component", "outline"),
	})
	if err != nil {
		_ = scheduler.Close()
		return nil, fmt.Errorf("failed to create outline: %w", err)
	}

	return &Workspace{
		vault:     v,
		resolver:  r,
		collector: collector,
		scheduler: scheduler,
		outline:   controller,
		host:      host,
		logger:    logger,
		cfg:       cfg,
	}, nil
}

// Vault returns the underlying vault.
func (w *Workspace) Vault() *vault.Vault {
	return w.vault
}

// Config returns the active configuration.
func (w *Workspace) Config() *config.Config {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cfg
}

// Parser returns the reference parser for the active configuration.
func (w *Workspace) Parser() reference.Parser {
	return parserFrom(w.Config(), w.vault)
}

// ApplyConfig switches to cfg. Extension, reference and embed display
// changes take effect immediately: managed-set changes reach the resolver,
// the outline and a running watcher, and live embeds are re-rendered with
// the new parser and settings.
func (w *Workspace) ApplyConfig(cfg *config.Config) error {
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	w.mu.Lock()
	w.cfg = cfg
	w.mu.Unlock()

	extensions := cfg.Extensions()
	w.resolver.SetExtensions(extensions)
	w.outline.SetExtensions(extensions)
	w.scheduler.SetParser(parserFrom(cfg, w.vault))
	w.scheduler.SetSettings(settingsFrom(cfg))

	w.watchMu.Lock()
	if w.watcher != nil {
		w.watcher.SetExtensions(extensions)
	}
	w.watchMu.Unlock()
	return nil
}

// Resolve parses raw and resolves it against sourcePath.
func (w *Workspace) Resolve(raw, sourcePath string) Resolution {
	ref := w.Parser().Parse(raw)
	res := Resolution{Reference: ref, Strategy: resolver.StrategyNone.String()}
	if ref.IsEmpty() {
		return res
	}

	f, strategy, ok := w.resolver.ResolveWithStrategy(ref, w.vault.NormalizePath(sourcePath))
	if !ok {
		return res
	}
	res.Found = true
	res.File = f
	res.Strategy = strategy.String()
	return res
}

// Embed renders raw as seen from sourcePath. ok is false when nothing could
// be rendered.
func (w *Workspace) Embed(ctx context.Context, raw, sourcePath string) (embed.View, bool, error) {
	return embed.Render(ctx, w.scheduler, w.collector, embed.TextAnchor(raw), w.vault.NormalizePath(sourcePath))
}

// SetActiveSourcePath sets the document embeds fall back to when rendered
// without a source path.
func (w *Workspace) SetActiveSourcePath(p string) {
	w.collector.SetActiveSourcePath(w.vault.NormalizePath(p))
}

// Outline makes p the active file and returns its outline. Unmanaged files
// produce an idle outline.
func (w *Workspace) Outline(ctx context.Context, p string) (outline.Outline, error) {
	w.inspectMu.Lock()
	defer w.inspectMu.Unlock()
	return w.inspectLocked(ctx, p)
}

// Symbol finds the first symbol called name in p and returns it with the
// editor position of its line.
func (w *Workspace) Symbol(ctx context.Context, p, name string) (symbols.Symbol, outline.Position, error) {
	w.inspectMu.Lock()
	defer w.inspectMu.Unlock()

	o, err := w.inspectLocked(ctx, p)
	if err != nil {
		return symbols.Symbol{}, outline.Position{}, err
	}

	for _, sym := range o.Symbols {
		if sym.Name != name {
			continue
		}
		pos, ok := w.outline.Select(ctx, sym)
		if !ok {
			return sym, outline.Position{}, fmt.Errorf("%w: %s line %d is past the end of %s", ErrSymbolNotFound, name, sym.Line, p)
		}
		return sym, pos, nil
	}
	return symbols.Symbol{}, outline.Position{}, fmt.Errorf("%w: %s in %s", ErrSymbolNotFound, name, p)
}

func (w *Workspace) inspectLocked(ctx context.Context, p string) (outline.Outline, error) {
	f, ok := w.vault.FileAtPath(p)
	if !ok || f.IsDir {
		return outline.Outline{}, fmt.Errorf("%w: %s", ErrFileNotFound, p)
	}

	current := w.outline.Outline()
	if current.State == outline.StateBound && current.File.Path == f.Path {
		w.outline.Refresh(ctx)
	} else {
		w.outline.Activate(ctx, &outline.ActiveView{File: f})
	}
	return w.outline.Outline(), nil
}

// Files lists the managed files of the vault in path order.
func (w *Workspace) Files() []FileEntry {
	extensions := w.Config().Extensions()

	var entries []FileEntry
	for _, f := range w.vault.ListFiles() {
		if f.IsDir || !extensions.Contains(f.Extension()) {
			continue
		}
		entries = append(entries, FileEntry{Path: f.Path, Name: f.Name(), Folder: f.Parent()})
	}
	return entries
}

// Watch follows file changes until ctx is done: the bound outline is
// refreshed and embeds showing a changed file are re-rendered. onChange,
// when set, is called after each batch.
func (w *Workspace) Watch(ctx context.Context, onChange func(paths []string)) error {
	w.watchMu.Lock()
	if w.watcher != nil {
		w.watchMu.Unlock()
		return ErrWatching
	}
	watcher, err := vault.NewWatcher(w.vault, vault.WatcherOptions{
		Extensions: w.Config().Extensions(),
		Logger:     w.logger.With("component", "watcher"),
	})
	if err != nil {
		w.watchMu.Unlock()
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	w.watcher = watcher
	w.watchMu.Unlock()

	defer func() {
		_ = watcher.Stop()
		w.watchMu.Lock()
		w.watcher = nil
		w.watchMu.Unlock()
	}()

	err = watcher.Start(ctx, func(paths []string) {
		w.outline.FilesChanged(ctx, paths)
		n := w.scheduler.Invalidate(paths)
		w.logger.Debug("files changed", "paths", paths, "embeds", n)
		if onChange != nil {
			onChange(paths)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	<-ctx.Done()
	return nil
}

// CacheHits returns the outline extraction cache hit count.
func (w *Workspace) CacheHits() int64 {
	return w.outline.CacheHits()
}

// Close stops pending renders and releases the outline cache.
func (w *Workspace) Close() error {
	err := w.scheduler.Close()
	w.outline.Close()
	return err
}

func settingsFrom(cfg *config.Config) embed.Settings {
	return embed.Settings{
		MaxEmbedLines:   cfg.Embed.MaxEmbedLines,
		ShowLineNumbers: cfg.Embed.ShowLineNumbers,
	}
}

func parserFrom(cfg *config.Config, v *vault.Vault) reference.Parser {
	return reference.Parser{
		VaultName: cfg.VaultName(v.Root()),
		Schemes:   cfg.Vault.InternalSchemes,
		Normalize: v.NormalizePath,
	}
}

// outlineHost opens files as buffers backed by the vault, so a buffer
// always reflects what is on disk.
type outlineHost struct {
	ns vault.Namespace
}

func (h *outlineHost) ShowOutline(outline.Outline) {}

func (h *outlineHost) OpenEditor(ctx context.Context, f vault.File) (outline.Buffer, error) {
	if _, err := h.ns.ReadFile(ctx, f); err != nil {
		return nil, err
	}
	return &fileBuffer{ns: h.ns, file: f}, nil
}

func (h *outlineHost) Navigate(vault.File, outline.Position) {}

type fileBuffer struct {
	ns   vault.Namespace
	file vault.File
}

func (b *fileBuffer) Text() string {
	text, _ := b.ns.ReadFile(context.Background(), b.file)
	return text
}
