package symbols

import (
	"regexp"
	"strings"
)

// classScope controls how a rule interacts with the tracked class.
type classScope int

const (
	scopeNone    classScope = iota
	scopeOpen               // records the match as the current class
	scopeMember             // only matches inside a class; name is prefixed "Class."
	scopeTopLevel           // clears the current class
)

// rule is one anchored pattern. The first capture group is the name.
type rule struct {
	pattern *regexp.Regexp
	kind    Kind
	scope   classScope
	format  func(name string) string
}

// ruleSet is the ordered rule list for one language.
type ruleSet struct {
	rules []rule
	// keywords are control-flow words that can look like a declaration
	// name, e.g. "if" in "else if (x)".
	keywords map[string]bool
	// skipComments drops lines that open with // or /*.
	skipComments bool
}

func newKeywords(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

// scan applies the rule set to every line. For each line the rules are
// tried in order and the first one that matches decides the line, even
// when its name is then dropped by the keyword filter.
func (s *ruleSet) scan(lines []string) []Symbol {
	symbols := []Symbol{}
	currentClass := ""

	for i, line := range lines {
		if s.skipComments && isCommentLine(line) {
			continue
		}

		for _, r := range s.rules {
			if r.scope == scopeMember && currentClass == "" {
				continue
			}

			m := r.pattern.FindStringSubmatch(line)
			if m == nil || len(m) < 2 || m[1] == "" {
				continue
			}

			name := m[1]
			if s.keywords[name] {
				break
			}

			switch r.scope {
			case scopeOpen:
				currentClass = name
			case scopeMember:
				name = currentClass + "." + name
			case scopeTopLevel:
				currentClass = ""
			}
			if r.format != nil {
				name = r.format(name)
			}

			symbols = append(symbols, Symbol{Name: name, Kind: r.kind, Line: i + 1})
			break
		}
	}

	return symbols
}

func isCommentLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "/*")
}
