package symbols

import "regexp"

// javascriptRules cover JavaScript and TypeScript (including jsx/tsx and
// module variants). Only top-level, unindented declarations are reported.
var javascriptRules = &ruleSet{
	rules: []rule{
		{
			pattern: regexp.MustCompile(`^(?:export\s+(?:default\s+)?)?(?:abstract\s+)?class\s+([A-Za-z_$][A-Za-z0-9_$]*)`),
			kind:    KindClass,
		},
		{
			pattern: regexp.MustCompile(`^(?:export\s+(?:default\s+)?)?(?:async\s+)?function\*?\s+([A-Za-z_$][A-Za-z0-9_$]*)`),
			kind:    KindFunction,
		},
		{
			pattern: regexp.MustCompile(`^(?:export\s+)?(?:const|let|var)\s+([A-Za-z_$][A-Za-z0-9_$]*)\s*(?::[^=]+)?=\s*(?:async\s+)?(?:\(.*\)|[A-Za-z_$][A-Za-z0-9_$]*)\s*(?::\s*[^=]+)?=>`),
			kind:    KindFunction,
		},
	},
	keywords:     newKeywords("if", "for", "while", "switch", "catch", "return", "new"),
	skipComments: true,
}
