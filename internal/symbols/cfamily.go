package symbols

import "regexp"

// cppRules cover C and C++. The function rule looks for "Type Name(" with
// pointers, references, namespaces and templates allowed in the return
// type, which is loose enough that statements like "else if (" match and
// have to be dropped by the keyword filter.
var cppRules = &ruleSet{
	rules: []rule{
		{
			pattern: regexp.MustCompile(`^\s*(?:template\s*<[^>]*>\s*)?(?:class|struct)\s+([A-Za-z_][A-Za-z0-9_]*)`),
			kind:    KindClass,
		},
		{
			pattern: regexp.MustCompile(`^\s*(?:[\w:*&<>]+\s+)+([*&]?\w+|operator\s*[^(\s]+)\s*\(`),
			kind:    KindFunction,
		},
		{
			// Macros share the method kind.
			pattern: regexp.MustCompile(`^\s*#\s*define\s+([A-Za-z_][A-Za-z0-9_]*)`),
			kind:    KindMethod,
		},
	},
	keywords:     newKeywords("if", "for", "while", "switch", "catch", "return", "sizeof", "new", "delete"),
	skipComments: true,
}
