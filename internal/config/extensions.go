package config

import (
	"sort"
	"strings"
)

// ExtensionSet is a case-insensitive set of file extensions without dots.
type ExtensionSet map[string]struct{}

// ParseExtensions parses a comma-separated list such as "py, JS, .cpp".
// Entries are trimmed, lower-cased and stripped of a leading dot; empty
// entries are dropped.
func ParseExtensions(list string) ExtensionSet {
	set := ExtensionSet{}
	for _, part := range strings.Split(list, ",") {
		ext := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(part)), ".")
		if ext == "" {
			continue
		}
		set[ext] = struct{}{}
	}
	return set
}

// Contains reports whether ext (with or without a leading dot, any case)
// is in the set.
func (s ExtensionSet) Contains(ext string) bool {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	if ext == "" {
		return false
	}
	_, ok := s[ext]
	return ok
}

// Sorted returns the extensions in lexical order.
func (s ExtensionSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for ext := range s {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// Dotted returns the extensions with a leading dot, as used by file
// watchers and filepath.Ext.
func (s ExtensionSet) Dotted() []string {
	sorted := s.Sorted()
	for i, ext := range sorted {
		sorted[i] = "." + ext
	}
	return sorted
}
