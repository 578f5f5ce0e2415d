package symbols

import "regexp"

// Namespaces are reported with the class kind.
var csharpRules = &ruleSet{
	rules: []rule{
		{
			pattern: regexp.MustCompile(`^\s*namespace\s+([\w.]+)`),
			kind:    KindClass,
		},
		{
			pattern: regexp.MustCompile(`^\s*(?:(?:public|private|protected|internal|static|sealed|abstract|partial|readonly|unsafe|file)\s+)*(?:class|interface|enum|struct|record)\s+([A-Za-z_][A-Za-z0-9_]*)`),
			kind:    KindClass,
		},
		{
			pattern: regexp.MustCompile(`^\s*(?:(?:public|private|protected|internal)\s+)?(?:(?:static|virtual|override|async|unsafe|abstract|sealed|extern|new|partial)\s+)*(?:[\w<>\[\]?,.]+\s+)+(\w+)\s*(?:<[^>]*>)?\s*\(`),
			kind:    KindMethod,
		},
	},
	keywords:     newKeywords("if", "for", "while", "switch", "catch", "new", "return", "using", "foreach", "lock", "fixed", "else", "throw", "await", "nameof", "typeof", "sizeof"),
	skipComments: true,
}
