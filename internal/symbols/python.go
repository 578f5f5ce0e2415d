package symbols

import "regexp"

// Python tracks one level of class context: indented defs after a
// top-level class are methods of that class until the next top-level def.
var pythonRules = &ruleSet{
	rules: []rule{
		{
			pattern: regexp.MustCompile(`^class\s+([A-Za-z_][A-Za-z0-9_]*)`),
			kind:    KindClass,
			scope:   scopeOpen,
		},
		{
			pattern: regexp.MustCompile(`^\s+(?:async\s+)?def\s+([A-Za-z_][A-Za-z0-9_]*)`),
			kind:    KindMethod,
			scope:   scopeMember,
		},
		{
			pattern: regexp.MustCompile(`^(?:async\s+)?def\s+([A-Za-z_][A-Za-z0-9_]*)`),
			kind:    KindFunction,
			scope:   scopeTopLevel,
		},
	},
	keywords: newKeywords(),
}
