package vault

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// compiledPattern holds both the pattern string and compiled glob
type compiledPattern struct {
	pattern string
	glob    glob.Glob
	// root is set for "**/x" patterns so they also match "x" at the vault root
	root glob.Glob
}

// IgnoreRules hides vault paths matching any of a set of glob patterns.
type IgnoreRules struct {
	patterns []compiledPattern
}

// NewIgnoreRules compiles slash-separated glob patterns such as
// ".git/**" or "**/*.tmp".
func NewIgnoreRules(patterns []string) (*IgnoreRules, error) {
	rules := &IgnoreRules{}

	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
		}
		cp := compiledPattern{pattern: pattern, glob: g}

		if simplified, ok := strings.CutPrefix(pattern, "**/"); ok {
			if rg, err := glob.Compile(simplified, '/'); err == nil {
				cp.root = rg
			}
		}
		rules.patterns = append(rules.patterns, cp)
	}

	return rules, nil
}

// Match reports whether a vault-relative path is ignored. A folder is
// ignored when "<folder>/**" matches, so "node_modules" matches the
// pattern "node_modules/**".
func (r *IgnoreRules) Match(relPath string) bool {
	if r == nil || relPath == "" {
		return false
	}

	if r.matchesAny(relPath) {
		return true
	}

	return r.matchesAny(relPath + "/**")
}

func (r *IgnoreRules) matchesAny(p string) bool {
	atRoot := !strings.Contains(strings.TrimSuffix(p, "/**"), "/")
	for _, cp := range r.patterns {
		if cp.glob.Match(p) {
			return true
		}
		if atRoot && cp.root != nil && cp.root.Match(p) {
			return true
		}
	}
	return false
}

// Ignored reports whether relPath or any of its parent folders is ignored.
func (r *IgnoreRules) Ignored(relPath string) bool {
	if r == nil {
		return false
	}
	for p := relPath; p != ""; {
		if r.Match(p) {
			return true
		}
		i := strings.LastIndex(p, "/")
		if i < 0 {
			break
		}
		p = p[:i]
	}
	return false
}
