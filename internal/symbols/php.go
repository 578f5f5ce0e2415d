package symbols

import "regexp"

// PHP tracks class context the same way Python does: indented functions
// after a class are its methods until the next top-level function.
var phpRules = &ruleSet{
	rules: []rule{
		{
			pattern: regexp.MustCompile(`^(?:(?:abstract|final|readonly)\s+)*(?:class|interface|trait|enum)\s+([A-Za-z_][A-Za-z0-9_]*)`),
			kind:    KindClass,
			scope:   scopeOpen,
		},
		{
			pattern: regexp.MustCompile(`^\s+(?:(?:public|private|protected|static|abstract|final)\s+)*function\s+&?([A-Za-z_][A-Za-z0-9_]*)`),
			kind:    KindMethod,
			scope:   scopeMember,
		},
		{
			pattern: regexp.MustCompile(`^function\s+&?([A-Za-z_][A-Za-z0-9_]*)\s*\(`),
			kind:    KindFunction,
			scope:   scopeTopLevel,
		},
	},
	keywords:     newKeywords(),
	skipComments: true,
}
