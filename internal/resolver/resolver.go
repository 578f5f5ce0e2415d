// Package resolver maps parsed references to exactly one managed file in
// a vault namespace.
package resolver

import (
	"strings"
	"sync"

	"github.com/mvp-joe/codespace/internal/config"
	"github.com/mvp-joe/codespace/internal/reference"
	"github.com/mvp-joe/codespace/internal/vault"
)

// untitledPrefix marks unsaved documents whose path is not usable for
// relative link resolution.
const untitledPrefix = "Untitled"

// Strategy identifies which lookup produced a match.
type Strategy int

const (
	StrategyNone Strategy = iota
	StrategyAbsolute
	StrategyLink
	StrategyDirect
	StrategyRootName
)

func (s Strategy) String() string {
	switch s {
	case StrategyAbsolute:
		return "absolute"
	case StrategyLink:
		return "link"
	case StrategyDirect:
		return "direct"
	case StrategyRootName:
		return "root-name"
	default:
		return "none"
	}
}

// Resolver resolves references against a namespace. The managed
// extension set can be swapped at runtime; all methods are safe for
// concurrent use.
type Resolver struct {
	ns vault.Namespace

	mu         sync.RWMutex
	extensions config.ExtensionSet
}

// New creates a resolver accepting only files whose extension is in extensions.
func New(ns vault.Namespace, extensions config.ExtensionSet) *Resolver {
	return &Resolver{ns: ns, extensions: extensions}
}

// SetExtensions replaces the managed extension allow-list.
func (r *Resolver) SetExtensions(extensions config.ExtensionSet) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.extensions = extensions
}

// Extensions returns the current managed extension allow-list.
func (r *Resolver) Extensions() config.ExtensionSet {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.extensions
}

// Namespace returns the namespace the resolver reads from.
func (r *Resolver) Namespace() vault.Namespace {
	return r.ns
}

// Resolve returns the file ref points to, or false. sourcePath is the
// vault path of the document containing the reference and may be empty.
func (r *Resolver) Resolve(ref reference.Reference, sourcePath string) (vault.File, bool) {
	f, _, ok := r.ResolveWithStrategy(ref, sourcePath)
	return f, ok
}

// ResolveWithStrategy is Resolve that also reports which lookup matched.
//
// Lookups are tried in order and the first hit is final:
//  1. leading slash: absolute from the root
//  2. usable source path: link resolution relative to the source, then root
//  3. path with a folder: absolute from the root
//  4. bare name and source at the root: absolute from the root
//
// The hit must be a file with a managed extension; otherwise nothing resolves.
func (r *Resolver) ResolveWithStrategy(ref reference.Reference, sourcePath string) (vault.File, Strategy, bool) {
	if ref.IsEmpty() {
		return vault.File{}, StrategyNone, false
	}

	f, strategy, ok := r.lookup(ref, sourcePath)
	if !ok {
		return vault.File{}, StrategyNone, false
	}

	if !r.accept(f) {
		return vault.File{}, StrategyNone, false
	}
	return f, strategy, true
}

func (r *Resolver) lookup(ref reference.Reference, sourcePath string) (vault.File, Strategy, bool) {
	p := ref.Path

	if ref.HadLeadingSlash {
		f, ok := r.ns.FileAtPath(p)
		return f, StrategyAbsolute, ok
	}

	if UsableSource(sourcePath) {
		if f, ok := r.ns.ResolveLinkPath(p, sourcePath); ok {
			return f, StrategyLink, true
		}
	}

	if strings.Contains(p, "/") {
		if f, ok := r.ns.FileAtPath(p); ok {
			return f, StrategyDirect, true
		}
		return vault.File{}, StrategyNone, false
	}

	if sourceAtRoot(r.ns.NormalizePath(sourcePath)) {
		if f, ok := r.ns.FileAtPath(p); ok {
			return f, StrategyRootName, true
		}
	}

	return vault.File{}, StrategyNone, false
}

func (r *Resolver) accept(f vault.File) bool {
	if f.IsDir {
		return false
	}
	return r.Extensions().Contains(f.Extension())
}

// UsableSource reports whether sourcePath can anchor relative resolution.
func UsableSource(sourcePath string) bool {
	return sourcePath != "" && !strings.HasPrefix(sourcePath, untitledPrefix)
}

// sourceAtRoot reports whether a (normalized) source document sits at the
// vault root. An unknown source counts as the root.
func sourceAtRoot(sourcePath string) bool {
	return !strings.Contains(sourcePath, "/")
}
