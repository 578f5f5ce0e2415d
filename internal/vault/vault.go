package vault

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Vault is a Namespace backed by a directory on disk.
type Vault struct {
	root   string
	ignore *IgnoreRules
}

// Open creates a vault rooted at rootDir. Paths matching any ignore
// pattern are hidden from lookups and listings.
func Open(rootDir string, ignorePatterns []string) (*Vault, error) {
	abs, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve vault root: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to open vault: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("failed to open vault %s: not a directory", abs)
	}

	rules, err := NewIgnoreRules(ignorePatterns)
	if err != nil {
		return nil, err
	}

	return &Vault{root: abs, ignore: rules}, nil
}

// Root returns the absolute vault root directory.
func (v *Vault) Root() string {
	return v.root
}

// Ignore returns the vault's ignore rules.
func (v *Vault) Ignore() *IgnoreRules {
	return v.ignore
}

// Abs converts a vault path to an absolute OS path.
func (v *Vault) Abs(p string) string {
	return filepath.Join(v.root, filepath.FromSlash(p))
}

// Rel converts an absolute OS path to a vault path. ok is false when the
// path lies outside the vault.
func (v *Vault) Rel(absPath string) (string, bool) {
	rel, err := filepath.Rel(v.root, absPath)
	if err != nil {
		return "", false
	}
	rel = NormalizePath(filepath.ToSlash(rel))
	if escapesRoot(rel) {
		return "", false
	}
	return rel, true
}

// ResolveLinkPath implements Namespace.
func (v *Vault) ResolveLinkPath(link, sourcePath string) (File, bool) {
	return resolveLink(link, sourcePath, v.FileAtPath)
}

// FileAtPath implements Namespace.
func (v *Vault) FileAtPath(p string) (File, bool) {
	p = NormalizePath(p)
	if p == "" || escapesRoot(p) || v.ignore.Ignored(p) {
		return File{}, false
	}

	info, err := os.Stat(v.Abs(p))
	if err != nil {
		return File{}, false
	}
	return File{Path: p, IsDir: info.IsDir()}, true
}

// ListFiles implements Namespace. Ignored folders are not descended into.
func (v *Vault) ListFiles() []File {
	var files []File

	_ = filepath.WalkDir(v.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped
			if d != nil && d.IsDir() && path != v.root {
				return filepath.SkipDir
			}
			return nil
		}
		if path == v.root {
			return nil
		}

		rel, ok := v.Rel(path)
		if !ok {
			return nil
		}

		if v.ignore.Match(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}
		files = append(files, File{Path: rel})
		return nil
	})

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files
}

// ReadFile implements Namespace.
func (v *Vault) ReadFile(ctx context.Context, f File) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	p := NormalizePath(f.Path)
	if p == "" || escapesRoot(p) {
		return "", fmt.Errorf("%s: %w", f.Path, ErrNotExist)
	}

	data, err := os.ReadFile(v.Abs(p))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%s: %w", p, ErrNotExist)
		}
		if info, statErr := os.Stat(v.Abs(p)); statErr == nil && info.IsDir() {
			return "", fmt.Errorf("%s: %w", p, ErrIsDir)
		}
		return "", fmt.Errorf("failed to read %s: %w", p, err)
	}
	return string(data), nil
}

// NormalizePath implements Namespace.
func (v *Vault) NormalizePath(raw string) string {
	return NormalizePath(raw)
}
