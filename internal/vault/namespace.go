package vault

import (
	"context"
	"path"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Namespace is the read-only view of a vault consumed by reference
// resolution, embeds and the outline.
type Namespace interface {
	// ResolveLinkPath resolves a link the way document links are resolved:
	// relative to the source document's folder, then from the root.
	// Only files are returned.
	ResolveLinkPath(link, sourcePath string) (File, bool)

	// FileAtPath looks up an absolute-from-root path. Folders are returned too.
	FileAtPath(p string) (File, bool)

	// ListFiles returns every file (not folder) in the namespace, sorted by path.
	ListFiles() []File

	// ReadFile returns the text content of a file.
	ReadFile(ctx context.Context, f File) (string, error)

	// NormalizePath returns the canonical form of a raw path.
	NormalizePath(raw string) string
}

// NormalizePath canonicalizes a raw path: backslashes become slashes,
// unicode is NFC-normalized, non-breaking spaces become spaces, "." and
// ".." segments are resolved and leading/trailing slashes are removed.
// A path that climbs above the root keeps its leading "..".
func NormalizePath(raw string) string {
	p := strings.ReplaceAll(raw, `\`, "/")
	p = norm.NFC.String(p)
	p = strings.ReplaceAll(p, "\u00a0", " ")
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}

	p = strings.TrimLeft(p, "/")
	p = path.Clean(p)
	if p == "." || p == "/" {
		return ""
	}
	return strings.TrimPrefix(p, "/")
}

// escapesRoot reports whether a normalized path points above the root.
func escapesRoot(p string) bool {
	return p == ".." || strings.HasPrefix(p, "../")
}

// resolveLink implements relative-then-root link resolution on top of a
// namespace lookup function.
func resolveLink(link, sourcePath string, lookup func(string) (File, bool)) (File, bool) {
	link = NormalizePath(link)
	if link == "" {
		return File{}, false
	}

	if sourcePath != "" {
		dir := path.Dir(NormalizePath(sourcePath))
		if dir != "." {
			candidate := NormalizePath(path.Join(dir, link))
			if candidate != "" && !escapesRoot(candidate) {
				if f, ok := lookup(candidate); ok && !f.IsDir {
					return f, true
				}
			}
		}
	}

	if escapesRoot(link) {
		return File{}, false
	}
	if f, ok := lookup(link); ok && !f.IsDir {
		return f, true
	}
	return File{}, false
}
