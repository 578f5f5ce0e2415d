package symbols

import "regexp"

var goRules = &ruleSet{
	rules: []rule{
		{
			pattern: regexp.MustCompile(`^func\s+(\w+)\s*(?:\[[^\]]*\])?\s*\(`),
			kind:    KindFunction,
		},
		{
			pattern: regexp.MustCompile(`^func\s*\([^)]+\)\s*(\w+)\s*(?:\[[^\]]*\])?\s*\(`),
			kind:    KindMethod,
		},
		{
			pattern: regexp.MustCompile(`^type\s+(\w+)(?:\[[^\]]*\])?\s+(?:struct|interface)\b`),
			kind:    KindClass,
		},
	},
	keywords:     newKeywords(),
	skipComments: true,
}
