package reference

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Test Plan for Reference parsing:
// - Wiki brackets and aliases are stripped, escaped "\|" is kept as "|"
// - Range and single-line fragments parse with optional, case-insensitive L prefixes
// - Ranges clamp values below 1 and reversed ranges collapse to the start
// - Unrecognized fragments record no line restriction
// - Leading "/" or "\" is recorded before normalization
// - Percent-encoded paths are decoded
// - Internal URLs prefer file/path query params, strip the vault name, keep fragments
// - Foreign URL schemes are rejected as empty, with or without "//"; drive letters are paths
// - Empty input and paths that normalize to nothing are empty
// - Parsing is deterministic
// - Custom normalizer and schemes are honored

func TestParse_PlainAndBracketed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want Reference
	}{
		{"plain", "src/main.go", Reference{Path: "src/main.go"}},
		{"embed brackets", "![[src/main.go]]", Reference{Path: "src/main.go"}},
		{"link brackets", "[[main.go]]", Reference{Path: "main.go"}},
		{"whitespace", "  ![[ main.go ]]  ", Reference{Path: "main.go"}},
		{"alias", "![[main.go|My main]]", Reference{Path: "main.go"}},
		{"alias after range", "main.go#L2-L4|shown", Reference{Path: "main.go", LineStart: 2, LineEnd: 4}},
		{"escaped pipe", `![[a\|b.py]]`, Reference{Path: "a|b.py"}},
		{"backslashes", `src\pkg\util.c`, Reference{Path: "src/pkg/util.c"}},
		{"dot segments", "src/./pkg/../main.go", Reference{Path: "src/main.go"}},
		{"leading slash", "/src/main.go", Reference{Path: "src/main.go", HadLeadingSlash: true}},
		{"leading backslash", `\src\main.go`, Reference{Path: "src/main.go", HadLeadingSlash: true}},
		{"percent encoded", "my%20dir/file%231.py", Reference{Path: "my dir/file#1.py"}},
		{"bad percent kept", "100%.py", Reference{Path: "100%.py"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Parse(tt.raw))
		})
	}
}

func TestParse_Fragments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		fragment   string
		start, end int
	}{
		{"L10-L20", 10, 20},
		{"l10-l20", 10, 20},
		{"10-20", 10, 20},
		{"L10 - L20", 10, 20},
		{"L10-20", 10, 20},
		{"L7", 7, 0},
		{"7", 7, 0},
		{"L30-L5", 30, 30},
		{"L0-L0", 1, 1},
		{"L0", 1, 0},
		{"L0-L3", 1, 3},
		{"heading", 0, 0},
		{"L5-", 0, 0},
		{"", 0, 0},
	}

	for _, tt := range tests {
		ref := Parse("code.py#" + tt.fragment)
		assert.Equal(t, "code.py", ref.Path, "fragment=%q", tt.fragment)
		assert.Equal(t, tt.start, ref.LineStart, "fragment=%q", tt.fragment)
		assert.Equal(t, tt.end, ref.LineEnd, "fragment=%q", tt.fragment)
	}
}

func TestParse_RangeClampProperty(t *testing.T) {
	t.Parallel()

	for a := 0; a <= 12; a++ {
		for b := 0; b < a; b++ {
			ref := Parse("x.go#L" + strconv.Itoa(a) + "-L" + strconv.Itoa(b))
			want := max(a, 1)
			assert.Equal(t, want, ref.LineStart)
			assert.Equal(t, want, ref.LineEnd)
		}
	}
}

func TestParse_InternalURLs(t *testing.T) {
	t.Parallel()

	p := Parser{VaultName: "notes"}

	tests := []struct {
		name string
		raw  string
		want Reference
	}{
		{
			"file query param",
			"obsidian://open?vault=notes&file=src%2Fmain.py",
			Reference{Path: "src/main.py", HadLeadingSlash: true},
		},
		{
			"path query param with vault prefix",
			"obsidian://open?path=notes%2Fsrc%2Fmain.py",
			Reference{Path: "src/main.py", HadLeadingSlash: true},
		},
		{
			"query wins over path",
			"obsidian://notes/other.py?file=main.py",
			Reference{Path: "main.py", HadLeadingSlash: true},
		},
		{
			"vault as host",
			"obsidian://notes/src/main.py#L3-L4",
			Reference{Path: "src/main.py", LineStart: 3, LineEnd: 4, HadLeadingSlash: true},
		},
		{
			"encoded fragment in query",
			"obsidian://open?file=main.py%23L9",
			Reference{Path: "main.py", LineStart: 9, HadLeadingSlash: true},
		},
		{
			"vault name must match exactly",
			"obsidian://open?file=notes2%2Fmain.py",
			Reference{Path: "notes2/main.py", HadLeadingSlash: true},
		},
		{
			"scheme is case-insensitive",
			"OBSIDIAN://open?file=a.go",
			Reference{Path: "a.go", HadLeadingSlash: true},
		},
		{"open without file", "obsidian://open?vault=notes", Reference{}},
		{"foreign scheme", "https://example.com/main.py", Reference{}},
		{"foreign scheme in brackets", "![[ftp://host/a.c]]", Reference{}},
		{"foreign scheme without slashes", "mailto:a@b.c", Reference{}},
		{"opaque internal URL", "obsidian:open?file=a.go", Reference{Path: "a.go", HadLeadingSlash: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, p.Parse(tt.raw))
		})
	}
}

func TestParse_DriveLetterIsNotAScheme(t *testing.T) {
	t.Parallel()

	assert.False(t, Parse("C:/code/a.py").IsEmpty())
	assert.False(t, Parse(`d:\src\main.go#L2`).IsEmpty())
}

func TestParse_Empty(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "   ", "![[]]", "[[|alias]]", "#L1-L2", "/", "./"} {
		ref := Parse(raw)
		assert.True(t, ref.IsEmpty(), "raw=%q", raw)
		assert.Equal(t, Reference{}, ref, "raw=%q", raw)
	}
}

func TestParse_Deterministic(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"![[src/a.go#L1-L9|x]]",
		"obsidian://open?file=a.py",
		`\abs\path.c#L3`,
		"garbage###",
	}
	for _, raw := range inputs {
		assert.Equal(t, Parse(raw), Parse(raw), "raw=%q", raw)
	}
}

func TestParser_CustomNormalizeAndSchemes(t *testing.T) {
	t.Parallel()

	p := Parser{
		Schemes:   []string{"codespace"},
		Normalize: strings.ToLower,
	}

	assert.Equal(t, Reference{Path: "src/main.go"}, p.Parse("SRC/Main.GO"))
	assert.Equal(t, Reference{Path: "a.go", HadLeadingSlash: true}, p.Parse("codespace://open?file=A.go"))
	assert.True(t, p.Parse("obsidian://open?file=a.go").IsEmpty())
}

func TestReference_Helpers(t *testing.T) {
	t.Parallel()

	ref := Reference{Path: "a.go", LineStart: 3, LineEnd: 9, HadLeadingSlash: true}
	assert.True(t, ref.HasRange())
	assert.Equal(t, "#L3-L9", ref.RangeSuffix())
	assert.Equal(t, "/a.go#L3-L9", ref.String())

	single := Reference{Path: "a.go", LineStart: 3}
	assert.Equal(t, "#L3", single.RangeSuffix())

	plain := Reference{Path: "a.go"}
	assert.False(t, plain.HasRange())
	assert.Equal(t, "a.go", plain.String())
}
