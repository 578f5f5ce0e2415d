package symbols

import "regexp"

var javaRules = &ruleSet{
	rules: []rule{
		{
			pattern: regexp.MustCompile(`^\s*(?:(?:public|private|protected|static|final|abstract|sealed|strictfp)\s+)*(?:class|interface|enum|record|@interface)\s+([A-Za-z_][A-Za-z0-9_]*)`),
			kind:    KindClass,
		},
		{
			pattern: regexp.MustCompile(`^\s*(?:(?:public|private|protected|static|final|abstract|synchronized|native|default)\s+)*(?:<[^>]+>\s+)?(?:[\w<>\[\],.?]+\s+)+(\w+)\s*\([^)]*\)`),
			kind:    KindMethod,
		},
	},
	keywords:     newKeywords("if", "for", "while", "switch", "catch", "new", "return", "throw", "else", "synchronized"),
	skipComments: true,
}
