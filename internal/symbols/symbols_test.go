package symbols

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Extract:
// - Unknown language tags yield an empty, non-nil result
// - LanguageFor accepts bare, dotted and named tags case-insensitively
// - Python class context namespaces methods and resets on top-level def
// - Keyword filter drops control statements shaped like calls (C family)
// - A filtered match still consumes the line (no lower-priority retry)
// - Comment-opening lines are skipped for C-family input
// - Line numbers are 1-based physical lines, CRLF tolerated
// - Extraction is deterministic across calls

func TestExtract_UnknownLanguage(t *testing.T) {
	t.Parallel()

	result := Extract("brainfuck", "def foo():\n  pass\n")
	require.NotNil(t, result)
	assert.Empty(t, result)

	result = Extract("", "")
	require.NotNil(t, result)
	assert.Empty(t, result)
}

func TestLanguageFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tag  string
		want Language
	}{
		{"py", LanguagePython},
		{".PY", LanguagePython},
		{"python", LanguagePython},
		{"tsx", LanguageJavaScript},
		{"mjs", LanguageJavaScript},
		{"hpp", LanguageCpp},
		{"cxx", LanguageCpp},
		{"java", LanguageJava},
		{"cs", LanguageCSharp},
		{"go", LanguageGo},
		{"rs", LanguageRust},
		{"php", LanguagePHP},
		{"md", LanguageUnknown},
		{"", LanguageUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			assert.Equal(t, tt.want, LanguageFor(tt.tag))
		})
	}

	assert.Equal(t, LanguageRust, LanguageForPath("src/lib.rs"))
	assert.Equal(t, "python", LanguagePython.String())
	assert.Equal(t, "unknown", Language(99).String())
}

func TestExtract_PythonClassScoping(t *testing.T) {
	t.Parallel()

	source := "class Foo:\n    def bar(self): pass\ndef baz(): pass\n"

	result := Extract("py", source)

	assert.Equal(t, []Symbol{
		{Name: "Foo", Kind: KindClass, Line: 1},
		{Name: "Foo.bar", Kind: KindMethod, Line: 2},
		{Name: "baz", Kind: KindFunction, Line: 3},
	}, result)
}

func TestExtract_PythonIndentedDefOutsideClass(t *testing.T) {
	t.Parallel()

	source := `def outer():
    def inner():
        pass
    return inner

async def fetch():
    pass

class Repo:
    async def load(self):
        pass
`

	result := Extract("python", source)

	assert.Equal(t, []Symbol{
		{Name: "outer", Kind: KindFunction, Line: 1},
		{Name: "fetch", Kind: KindFunction, Line: 6},
		{Name: "Repo", Kind: KindClass, Line: 9},
		{Name: "Repo.load", Kind: KindMethod, Line: 10},
	}, result)
}

func TestExtract_KeywordFilter(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"c":    "int main(void) {\n    if (x) {\n    } else if (y) {\n    }\n}\n",
		"java": "class A {\n    void run() {\n        if (x) {\n        } else if (y) {\n        }\n    }\n}\n",
		"cs":   "class A {\n    void Run() {\n        if (x) {\n        } else if (y) {\n        }\n    }\n}\n",
		"js":   "function run() {\n    if (x) {\n    }\n}\n",
	}

	for tag, source := range cases {
		t.Run(tag, func(t *testing.T) {
			for _, sym := range Extract(tag, source) {
				assert.NotEqual(t, "if", sym.Name)
			}
		})
	}
}

func TestExtract_FilteredMatchConsumesLine(t *testing.T) {
	t.Parallel()

	// "else if (" matches the function rule and is filtered; the macro
	// rule must not get a second chance at the same line.
	source := "else if (ready) {\n#define LIMIT 10\n"

	result := Extract("c", source)

	assert.Equal(t, []Symbol{
		{Name: "LIMIT", Kind: KindMethod, Line: 2},
	}, result)
}

func TestExtract_SkipsCommentLines(t *testing.T) {
	t.Parallel()

	source := `// int disabled(void) {
/* struct Hidden { */
struct Point {
int add(int a, int b) {
`

	result := Extract("cpp", source)

	assert.Equal(t, []Symbol{
		{Name: "Point", Kind: KindClass, Line: 3},
		{Name: "add", Kind: KindFunction, Line: 4},
	}, result)
}

func TestExtract_CRLFLineNumbers(t *testing.T) {
	t.Parallel()

	source := "package main\r\n\r\nfunc Run() {\r\n}\r\n"

	result := Extract("go", source)

	assert.Equal(t, []Symbol{{Name: "Run", Kind: KindFunction, Line: 3}}, result)
}

func TestExtract_Deterministic(t *testing.T) {
	t.Parallel()

	source := "class A:\n    def a(self): pass\n"
	assert.Equal(t, Extract("py", source), Extract("py", source))
}
