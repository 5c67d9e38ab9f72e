// Package goldmark renders assistant markdown to ANSI-styled terminal
// output, using goldmark for parsing and lipgloss for styling.
package goldmark

import "github.com/fwojciec/ragchat"

// Render parses markdown source and returns ANSI-styled terminal output.
// Paragraphs, list items, and blockquotes are word-wrapped to width. Code
// blocks are rendered verbatim without reflow.
func Render(source string, width int, theme ragchat.Theme) string {
	if source == "" {
		return ""
	}
	if width <= 0 {
		width = 80
	}
	r := newRenderer(theme)
	return r.render([]byte(source), width)
}
