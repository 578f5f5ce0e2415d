package symbols

import "regexp"

var rustRules = &ruleSet{
	rules: []rule{
		{
			pattern: regexp.MustCompile(`^\s*(?:pub(?:\([^)]*\))?\s+)?(?:(?:unsafe|async|const|extern(?:\s+"[^"]*")?)\s+)*fn\s+(\w+)`),
			kind:    KindFunction,
		},
		{
			pattern: regexp.MustCompile(`^\s*(?:pub(?:\([^)]*\))?\s+)?(?:struct|enum|trait|type|union)\s+(\w+)`),
			kind:    KindClass,
		},
		{
			pattern: regexp.MustCompile(`^\s*(?:unsafe\s+)?impl(?:<[^>]+>)?\s+(?:[\w:<>]+\s+for\s+)?([\w:]+)`),
			kind:    KindClass,
			format:  func(name string) string { return "impl " + name },
		},
		{
			pattern: regexp.MustCompile(`^\s*macro_rules!\s+(\w+)`),
			kind:    KindMethod,
			format:  func(name string) string { return name + "!" },
		},
	},
	keywords:     newKeywords(),
	skipComments: true,
}
