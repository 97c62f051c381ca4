package document

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Heading is one parsed markdown heading together with the body text that
// follows it, up to the next heading or end of document.
type Heading struct {
	Level int
	Text  string
	Body  string
}

// ParseHeadings extracts headings and their bodies from markdown via the
// goldmark AST. Heading-like lines inside fenced code blocks never parse
// as headings, so they are excluded for free. Setext headings (underlined
// with === or ---) count the same as ATX # headings.
// Returns nil if the text contains no headings.
func ParseHeadings(markdown string) []Heading {
	src := []byte(markdown)
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	type headingPos struct {
		level     int
		text      string
		bodyStart int // byte offset after the heading's last text line
		lineStart int // byte offset of the heading's first line
	}
	var found []headingPos

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		lines := h.Lines()
		if lines.Len() == 0 {
			// Empty heading ("##" with no text); nothing to match against.
			return ast.WalkContinue, nil
		}
		first := lines.At(0)
		last := lines.At(lines.Len() - 1)
		found = append(found, headingPos{
			level:     h.Level,
			text:      strings.TrimSpace(string(src[first.Start:last.Stop])),
			bodyStart: last.Stop,
			lineStart: lineStartBefore(src, first.Start),
		})
		return ast.WalkContinue, nil
	})

	if len(found) == 0 {
		return nil
	}

	headings := make([]Heading, len(found))
	for i, p := range found {
		end := len(src)
		if i+1 < len(found) {
			end = found[i+1].lineStart
		}
		body := ""
		if p.bodyStart < end {
			body = string(src[p.bodyStart:end])
		}
		headings[i] = Heading{Level: p.level, Text: p.text, Body: body}
	}
	return headings
}

// lineStartBefore returns the byte offset of the start of the line
// containing pos.
func lineStartBefore(src []byte, pos int) int {
	for i := pos - 1; i >= 0; i-- {
		if src[i] == '\n' {
			return i + 1
		}
	}
	return 0
}
