package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mvp-joe/codespace/internal/embed"
	"github.com/mvp-joe/codespace/internal/outline"
	"github.com/mvp-joe/codespace/internal/symbols"
)

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeView prints an embed the way a note shows it: a header with the
// file name and caption, then the lines, numbered from FirstLine when
// line numbers are on.
func writeView(w io.Writer, v embed.View) {
	fmt.Fprintf(w, "%s [%s] %s\n", v.FileName, v.Language, v.Caption)
	if v.ShownLines() == 0 {
		return
	}

	lines := strings.Split(v.Content, "\n")
	if !v.ShowLineNumbers {
		for _, line := range lines {
			fmt.Fprintln(w, line)
		}
		return
	}

	width := len(strconv.Itoa(v.LastLine))
	for i, line := range lines {
		fmt.Fprintf(w, "%*d | %s\n", width, v.FirstLine+i, line)
	}
	if v.Truncated {
		fmt.Fprintf(w, "%*s | ...\n", width, "")
	}
}

// writeOutline prints one symbol per line, or the empty-state text.
func writeOutline(w io.Writer, o outline.Outline) {
	if len(o.Symbols) == 0 {
		fmt.Fprintln(w, o.EmptyText)
		return
	}

	for _, sym := range o.Symbols {
		indent := ""
		if sym.Kind == symbols.KindMethod {
			indent = "  "
		}
		fmt.Fprintf(w, "%s%-8s %s :%d\n", indent, sym.Kind, sym.Name, sym.Line)
	}
}

// formatNumber formats an integer with thousands separators.
func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}

	str := fmt.Sprintf("%d", n)
	var result string
	for i, c := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result += ","
		}
		result += string(c)
	}
	return result
}
