package embed

import (
	"fmt"
	"strings"

	"github.com/mvp-joe/codespace/internal/reference"
	"github.com/mvp-joe/codespace/internal/vault"
)

// Settings controls how embeds are rendered.
type Settings struct {
	MaxEmbedLines   int  // 0 = unlimited; ignored when the reference has an explicit end line
	ShowLineNumbers bool // gutter numbering starting at FirstLine
}

// View is the rendered content of one embed, handed to the host.
type View struct {
	File            vault.File `json:"file"`
	FileName        string     `json:"file_name"`
	Language        string     `json:"language"` // extension tag, e.g. "py"
	Content         string     `json:"content"`
	FirstLine       int        `json:"first_line"` // 1-based line of the first shown line
	LastLine        int        `json:"last_line"`
	TotalLines      int        `json:"total_lines"` // lines in the whole file
	Truncated       bool       `json:"truncated,omitempty"`
	ShowLineNumbers bool       `json:"show_line_numbers"`
	Caption         string     `json:"caption"`
}

// ShownLines returns the number of lines in Content.
func (v View) ShownLines() int {
	last := min(v.LastLine, v.TotalLines)
	if last < v.FirstLine {
		return 0
	}
	return last - v.FirstLine + 1
}

// BuildView slices content to the reference's line window and applies the
// line cap. An explicit end line always wins over MaxEmbedLines. A window
// starting past the end of the file shows nothing and keeps the requested
// lines in the caption.
func BuildView(f vault.File, content string, ref reference.Reference, settings Settings) View {
	lines := splitLines(content)
	total := len(lines)

	start, end := 1, total
	if ref.LineStart > 0 {
		start = ref.LineStart
	}

	truncated := false
	switch {
	case start > total && ref.LineStart > 0:
		end = max(ref.LineEnd, start)
	case ref.LineEnd > 0:
		end = min(max(ref.LineEnd, start), total)
	case settings.MaxEmbedLines > 0 && end-start+1 > settings.MaxEmbedLines:
		end = start + settings.MaxEmbedLines - 1
		truncated = true
	}

	var shown string
	if start <= end && start <= total {
		shown = strings.Join(lines[start-1:end], "\n")
	}

	v := View{
		File:            f,
		FileName:        f.Name(),
		Language:        f.Extension(),
		Content:         shown,
		FirstLine:       start,
		LastLine:        end,
		TotalLines:      total,
		Truncated:       truncated,
		ShowLineNumbers: settings.ShowLineNumbers,
	}
	v.Caption = caption(v, ref.HasRange())
	return v
}

func caption(v View, ranged bool) string {
	if ranged || v.Truncated {
		return fmt.Sprintf("Lines %d-%d of %d", v.FirstLine, v.LastLine, v.TotalLines)
	}
	if v.TotalLines == 1 {
		return "1 line"
	}
	return fmt.Sprintf("%d lines", v.TotalLines)
}

// splitLines splits on "\n". A trailing newline does not start a new line.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")
	if len(lines) > 1 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
