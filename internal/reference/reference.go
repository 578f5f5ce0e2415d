// Package reference parses loosely structured embed references such as
// "![[src/main.go#L10-L20|alias]]" or "obsidian://open?vault=v&file=a.py"
// into a structured form.
package reference

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/mvp-joe/codespace/internal/vault"
)

// Reference is a parsed embed reference. LineStart and LineEnd are 1-based;
// zero means absent. A Reference with an empty Path refers to nothing.
type Reference struct {
	Path            string `json:"path"`
	LineStart       int    `json:"line_start,omitempty"`
	LineEnd         int    `json:"line_end,omitempty"`
	HadLeadingSlash bool   `json:"had_leading_slash,omitempty"`
}

// IsEmpty reports whether the reference names no file.
func (r Reference) IsEmpty() bool {
	return r.Path == ""
}

// HasRange reports whether a line restriction was given.
func (r Reference) HasRange() bool {
	return r.LineStart > 0
}

// RangeSuffix returns the line restriction in fragment form, e.g. "#L3-L9",
// "#L3", or "" when there is none.
func (r Reference) RangeSuffix() string {
	switch {
	case r.LineStart == 0:
		return ""
	case r.LineEnd == 0:
		return fmt.Sprintf("#L%d", r.LineStart)
	default:
		return fmt.Sprintf("#L%d-L%d", r.LineStart, r.LineEnd)
	}
}

// String renders the reference back into link form.
func (r Reference) String() string {
	p := r.Path
	if r.HadLeadingSlash {
		p = "/" + p
	}
	return p + r.RangeSuffix()
}

var (
	// Two or more characters, so a drive letter like "C:" is not a scheme
	schemePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.\-]+:`)
	rangePattern  = regexp.MustCompile(`^[Ll]?(\d+)\s*-\s*[Ll]?(\d+)$`)
	linePattern   = regexp.MustCompile(`^[Ll]?(\d+)$`)
)

// DefaultSchemes are the URL schemes treated as addressing the vault.
var DefaultSchemes = []string{"obsidian"}

// Parser turns raw reference strings into References. The zero value is
// usable: it accepts DefaultSchemes, strips no vault name and normalizes
// with vault.NormalizePath.
type Parser struct {
	// VaultName is stripped from the front of URL paths when it matches exactly.
	VaultName string

	// Schemes lists internal URL schemes; nil means DefaultSchemes.
	Schemes []string

	// Normalize canonicalizes paths; nil means vault.NormalizePath.
	Normalize func(string) string
}

// Parse parses raw with a zero-value Parser.
func Parse(raw string) Reference {
	return Parser{}.Parse(raw)
}

// Parse parses a raw reference. It never fails: unusable input yields an
// empty Reference.
func (p Parser) Parse(raw string) Reference {
	s := stripBrackets(strings.TrimSpace(raw))
	s = stripAlias(s)

	var pathPart, fragment string
	isURL := schemePattern.MatchString(s)
	if isURL {
		var ok bool
		pathPart, fragment, ok = p.parseURL(s)
		if !ok {
			return Reference{}
		}
	} else {
		pathPart, fragment, _ = strings.Cut(s, "#")
		if strings.Contains(pathPart, "%") {
			if decoded, err := url.PathUnescape(pathPart); err == nil {
				pathPart = decoded
			}
		}
	}

	ref := Reference{}
	ref.LineStart, ref.LineEnd = parseFragment(fragment)

	pathPart = strings.TrimSpace(pathPart)
	// URL paths always address the vault root
	ref.HadLeadingSlash = isURL || strings.HasPrefix(pathPart, "/") || strings.HasPrefix(pathPart, `\`)
	ref.Path = p.normalize(pathPart)
	if ref.Path == "" {
		return Reference{}
	}
	return ref
}

func (p Parser) normalize(s string) string {
	if p.Normalize != nil {
		return p.Normalize(s)
	}
	return vault.NormalizePath(s)
}

func (p Parser) isInternalScheme(scheme string) bool {
	schemes := p.Schemes
	if schemes == nil {
		schemes = DefaultSchemes
	}
	for _, s := range schemes {
		if strings.EqualFold(s, scheme) {
			return true
		}
	}
	return false
}

// parseURL extracts the vault path and fragment from an internal URL.
// The "file" or "path" query parameter wins over the URL path.
func (p Parser) parseURL(s string) (pathPart, fragment string, ok bool) {
	u, err := url.Parse(s)
	if err != nil || !p.isInternalScheme(u.Scheme) {
		return "", "", false
	}

	query := u.Query()
	switch {
	case query.Get("file") != "":
		pathPart = query.Get("file")
	case query.Get("path") != "":
		pathPart = query.Get("path")
	default:
		// obsidian://vault/dir/file.py parses "vault" as the host
		pathPart = u.Path
		if u.Host != "" && u.Host != "open" && u.Host != p.VaultName {
			pathPart = u.Host + u.Path
		}
	}

	// Fragments inside an encoded query value survive decoding
	if before, after, found := strings.Cut(pathPart, "#"); found {
		pathPart, fragment = before, after
	}
	if u.Fragment != "" {
		fragment = u.Fragment
	}

	pathPart = stripVaultName(pathPart, p.VaultName)
	return pathPart, fragment, true
}

func stripVaultName(p, vaultName string) string {
	if vaultName == "" {
		return p
	}
	trimmed := strings.TrimLeft(p, "/")
	first, rest, found := strings.Cut(trimmed, "/")
	if found && first == vaultName {
		return rest
	}
	return p
}

func stripBrackets(s string) string {
	switch {
	case strings.HasPrefix(s, "![["):
		s = s[3:]
	case strings.HasPrefix(s, "[["):
		s = s[2:]
	}
	return strings.TrimSuffix(s, "]]")
}

// stripAlias truncates at the first unescaped "|" and unescapes "\|".
func stripAlias(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' && i+1 < len(s) && s[i+1] == '|' {
			b.WriteByte('|')
			i++
			continue
		}
		if c == '|' {
			break
		}
		b.WriteByte(c)
	}
	return b.String()
}

// parseFragment reads "L<a>-L<b>" or "L<a>". Values below 1 clamp to 1 and
// an end before the start clamps up to the start.
func parseFragment(fragment string) (start, end int) {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return 0, 0
	}

	if m := rangePattern.FindStringSubmatch(fragment); m != nil {
		start = clampLine(m[1])
		end = clampLine(m[2])
		if end < start {
			end = start
		}
		return start, end
	}

	if m := linePattern.FindStringSubmatch(fragment); m != nil {
		return clampLine(m[1]), 0
	}

	return 0, 0
}

func clampLine(digits string) int {
	n, err := strconv.Atoi(digits)
	if err != nil {
		// Overflowing line numbers are treated as "very large"
		return int(^uint(0) >> 1)
	}
	if n < 1 {
		return 1
	}
	return n
}
