// Package symbols extracts a flat outline of declarations (functions,
// classes, methods) from source text.
//
// Extraction is a line-local heuristic: every physical line is tested
// against a short, per-language list of anchored patterns. There is no
// parser and no AST, so multi-line signatures and block comments are not
// understood. Extract never fails; unknown languages yield no symbols.
package symbols

import (
	"path"
	"strings"
)

// Kind classifies a Symbol.
type Kind string

const (
	KindFunction Kind = "function"
	KindClass    Kind = "class"
	KindMethod   Kind = "method"
)

// Symbol is a single declaration found in source text.
// Line is 1-based and counts physical lines of the full source.
type Symbol struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
	Line int    `json:"line"`
}

// Language identifies one of the supported extraction rule sets.
type Language int

const (
	LanguageUnknown Language = iota
	LanguagePython
	LanguageJavaScript
	LanguageCpp
	LanguageJava
	LanguageCSharp
	LanguageGo
	LanguageRust
	LanguagePHP
)

var languageNames = map[Language]string{
	LanguageUnknown:    "unknown",
	LanguagePython:     "python",
	LanguageJavaScript: "javascript",
	LanguageCpp:        "cpp",
	LanguageJava:       "java",
	LanguageCSharp:     "csharp",
	LanguageGo:         "go",
	LanguageRust:       "rust",
	LanguagePHP:        "php",
}

func (l Language) String() string {
	if name, ok := languageNames[l]; ok {
		return name
	}
	return "unknown"
}

// tagLanguages maps file extensions and language names to a Language.
var tagLanguages = map[string]Language{
	"py":         LanguagePython,
	"python":     LanguagePython,
	"js":         LanguageJavaScript,
	"ts":         LanguageJavaScript,
	"jsx":        LanguageJavaScript,
	"tsx":        LanguageJavaScript,
	"mjs":        LanguageJavaScript,
	"cjs":        LanguageJavaScript,
	"javascript": LanguageJavaScript,
	"typescript": LanguageJavaScript,
	"c":          LanguageCpp,
	"cpp":        LanguageCpp,
	"cc":         LanguageCpp,
	"cxx":        LanguageCpp,
	"h":          LanguageCpp,
	"hpp":        LanguageCpp,
	"java":       LanguageJava,
	"cs":         LanguageCSharp,
	"csharp":     LanguageCSharp,
	"go":         LanguageGo,
	"golang":     LanguageGo,
	"rs":         LanguageRust,
	"rust":       LanguageRust,
	"php":        LanguagePHP,
}

// LanguageFor returns the Language for a tag. The tag may be a bare
// extension ("py"), a dotted extension (".py") or a language name
// ("python"); matching is case-insensitive.
func LanguageFor(tag string) Language {
	tag = strings.ToLower(strings.TrimSpace(tag))
	tag = strings.TrimPrefix(tag, ".")
	if lang, ok := tagLanguages[tag]; ok {
		return lang
	}
	return LanguageUnknown
}

// LanguageForPath returns the Language implied by a file path's extension.
func LanguageForPath(filePath string) Language {
	return LanguageFor(path.Ext(filePath))
}

// Extract returns the symbols declared in source, using the rule set
// selected by languageTag (see LanguageFor).
func Extract(languageTag string, source string) []Symbol {
	return ExtractLanguage(LanguageFor(languageTag), source)
}

// ExtractLanguage returns the symbols declared in source for lang.
// The result is never nil.
func ExtractLanguage(lang Language, source string) []Symbol {
	var set *ruleSet
	switch lang {
	case LanguagePython:
		set = pythonRules
	case LanguageJavaScript:
		set = javascriptRules
	case LanguageCpp:
		set = cppRules
	case LanguageJava:
		set = javaRules
	case LanguageCSharp:
		set = csharpRules
	case LanguageGo:
		set = goRules
	case LanguageRust:
		set = rustRules
	case LanguagePHP:
		set = phpRules
	default:
		return []Symbol{}
	}
	return set.scan(splitLines(source))
}

// splitLines splits on "\n" and drops a trailing "\r" from each line so
// CRLF sources produce the same names.
func splitLines(source string) []string {
	lines := strings.Split(source, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
