package ui

import (
	"regexp"
	"strings"

	markdown "github.com/MichaelMure/go-term-markdown"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"
	"github.com/mattn/go-runewidth"
)

var (
	inlineCodeRegex = regexp.MustCompile(`(?s)\x1b\[44;3m(.*?)\x1b\[0m`)
	mdLinkRegex     = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^\)]+)\)`)
	ansiRegex       = regexp.MustCompile(`\x1b\[[0-9;]*m`)
)

const codeBar = "┃"

// renderMarkdown renders an answer for a terminal of the given width.
// Answers are mostly short prose with the odd SQL snippet or table.
func renderMarkdown(content string, width int) string {
	if width < 20 {
		width = 20
	}
	content = mdLinkRegex.ReplaceAllString(content, "$2")

	// Autolink off: plain URLs stay plain so the terminal can linkify them.
	p := parser.NewWithExtensions(markdown.Extensions() &^ parser.Autolink)
	r := markdown.NewRenderer(width-4, 0)
	rendered := string(gomarkdown.Render(p.Parse([]byte(content)), r))

	rendered = inlineCodeRegex.ReplaceAllString(rendered, "\x1b[31m$1\x1b[0m")
	return strings.TrimRight(frameCodeBlocks(rendered, width), "\n")
}

// frameCodeBlocks swaps the renderer's left bar on code lines for a
// horizontal rule above and below the block.
func frameCodeBlocks(s string, width int) string {
	darkGray := "\x1b[90m"
	reset := "\x1b[0m"
	rule := darkGray + strings.Repeat("━", max(width-4, 1)) + reset

	var out []string
	inBlock := false
	for _, line := range strings.Split(s, "\n") {
		if strings.Contains(line, codeBar) {
			if !inBlock {
				inBlock = true
				out = append(out, rule)
			}
			out = append(out, stripCodeBlockPrefix(line))
			continue
		}
		if inBlock {
			inBlock = false
			out = append(out, rule)
		}
		out = append(out, line)
	}
	if inBlock {
		out = append(out, rule)
	}
	return strings.Join(out, "\n")
}

func stripCodeBlockPrefix(line string) string {
	idx := strings.Index(line, codeBar)
	if idx < 0 {
		return line
	}
	return strings.TrimPrefix(line[idx+len(codeBar):], " ")
}

// wordWrapWithIndent wraps text to maxWidth terminal cells, indenting
// continuation lines to line up after prefix.
func wordWrapWithIndent(text string, prefix string, maxWidth int) string {
	prefixWidth := runewidth.StringWidth(stripANSI(prefix))
	available := maxWidth - prefixWidth
	if available <= 0 {
		return prefix + text
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return prefix
	}

	var result, line strings.Builder
	lineWidth := 0
	indent := strings.Repeat(" ", prefixWidth)
	lead := prefix
	flush := func() {
		result.WriteString(lead)
		result.WriteString(line.String())
		result.WriteString("\n")
		line.Reset()
		lineWidth = 0
		lead = indent
	}

	for _, word := range words {
		w := runewidth.StringWidth(word)
		if lineWidth > 0 && lineWidth+1+w > available {
			flush()
		}
		if lineWidth > 0 {
			line.WriteString(" ")
			lineWidth++
		}
		line.WriteString(word)
		lineWidth += w
	}
	if lineWidth > 0 {
		flush()
	}
	return result.String()
}

func stripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}
