// Package vault exposes a folder tree as a read-only namespace of files.
//
// Paths inside the namespace are slash-separated, relative to the vault
// root, and carry no leading slash. The empty path names the root folder.
package vault

import (
	"errors"
	"path"
	"strings"
)

var (
	// ErrNotExist indicates the requested file is not in the namespace
	ErrNotExist = errors.New("file does not exist")

	// ErrIsDir indicates a read was attempted on a folder
	ErrIsDir = errors.New("file is a directory")
)

// File is a handle to a file or folder in the namespace.
type File struct {
	Path  string `json:"path"`
	IsDir bool   `json:"is_dir,omitempty"`
}

// Name returns the last path element, e.g. "main.go".
func (f File) Name() string {
	return path.Base("/" + f.Path)
}

// Extension returns the lower-cased extension without the dot, e.g. "go".
func (f File) Extension() string {
	if f.IsDir {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(path.Ext(f.Name()), "."))
}

// Basename returns the file name without its extension.
func (f File) Basename() string {
	name := f.Name()
	return strings.TrimSuffix(name, path.Ext(name))
}

// Parent returns the folder path containing the file ("" for the root).
func (f File) Parent() string {
	dir := path.Dir(f.Path)
	if dir == "." || dir == "/" {
		return ""
	}
	return dir
}
