package vault

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
)

// Memory is an in-memory Namespace. Folders are derived from file paths.
// It is safe for concurrent use.
type Memory struct {
	mu    sync.RWMutex
	files map[string]string
}

// NewMemory creates a namespace holding the given path → content pairs.
// Paths are normalized.
func NewMemory(files map[string]string) *Memory {
	m := &Memory{files: make(map[string]string, len(files))}
	for p, content := range files {
		m.files[NormalizePath(p)] = content
	}
	return m
}

// Put adds or replaces a file.
func (m *Memory) Put(p, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[NormalizePath(p)] = content
}

// Remove deletes a file.
func (m *Memory) Remove(p string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, NormalizePath(p))
}

// ResolveLinkPath implements Namespace.
func (m *Memory) ResolveLinkPath(link, sourcePath string) (File, bool) {
	return resolveLink(link, sourcePath, m.FileAtPath)
}

// FileAtPath implements Namespace.
func (m *Memory) FileAtPath(p string) (File, bool) {
	p = NormalizePath(p)
	if p == "" || escapesRoot(p) {
		return File{}, false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.files[p]; ok {
		return File{Path: p}, true
	}

	if m.isFolderLocked(p) {
		return File{Path: p, IsDir: true}, true
	}
	return File{}, false
}

// ListFiles implements Namespace.
func (m *Memory) ListFiles() []File {
	m.mu.RLock()
	defer m.mu.RUnlock()

	files := make([]File, 0, len(m.files))
	for p := range m.files {
		files = append(files, File{Path: p})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files
}

// ReadFile implements Namespace.
func (m *Memory) ReadFile(ctx context.Context, f File) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if f.IsDir {
		return "", fmt.Errorf("%s: %w", f.Path, ErrIsDir)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	content, ok := m.files[path.Clean(f.Path)]
	if !ok {
		if m.isFolderLocked(f.Path) {
			return "", fmt.Errorf("%s: %w", f.Path, ErrIsDir)
		}
		return "", fmt.Errorf("%s: %w", f.Path, ErrNotExist)
	}
	return content, nil
}

// NormalizePath implements Namespace.
func (m *Memory) NormalizePath(raw string) string {
	return NormalizePath(raw)
}

func (m *Memory) isFolderLocked(p string) bool {
	prefix := p + "/"
	for fp := range m.files {
		if strings.HasPrefix(fp, prefix) {
			return true
		}
	}
	return false
}
