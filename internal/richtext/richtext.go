// Package richtext turns post bodies written in the forum's rich-text editor
// into plain text for terminal output.
package richtext

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// formatting lists the elements the forum editor emits.
var formatting = map[atom.Atom]bool{
	atom.P:          true,
	atom.B:          true,
	atom.I:          true,
	atom.U:          true,
	atom.Em:         true,
	atom.Strong:     true,
	atom.Br:         true,
	atom.A:          true,
	atom.Ul:         true,
	atom.Ol:         true,
	atom.Li:         true,
	atom.Div:        true,
	atom.Span:       true,
	atom.H1:         true,
	atom.H2:         true,
	atom.H3:         true,
	atom.Blockquote: true,
	atom.Code:       true,
	atom.Pre:        true,
}

// blocks are separated by a line break in the output.
var blocks = map[atom.Atom]bool{
	atom.P:          true,
	atom.Br:         true,
	atom.Li:         true,
	atom.Div:        true,
	atom.H1:         true,
	atom.H2:         true,
	atom.H3:         true,
	atom.Blockquote: true,
	atom.Pre:        true,
}

// PlainText returns the text content of s when s contains editor markup.
// Anything else, including text that merely contains '<' or '&', is
// returned byte for byte.
func PlainText(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}

	node, err := html.Parse(strings.NewReader(s))
	if err != nil || !hasFormatting(node) {
		return s
	}

	var builder strings.Builder
	extractText(node, &builder)

	lines := strings.Split(builder.String(), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

func hasFormatting(node *html.Node) bool {
	if node.Type == html.ElementNode && formatting[node.DataAtom] {
		return true
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if hasFormatting(child) {
			return true
		}
	}
	return false
}

func extractText(node *html.Node, builder *strings.Builder) {
	switch node.Type {
	case html.TextNode:
		builder.WriteString(node.Data)
	case html.ElementNode:
		switch node.DataAtom {
		case atom.Script, atom.Style:
			return
		}
		if blocks[node.DataAtom] {
			builder.WriteByte('\n')
		}
	}

	for child := node.FirstChild; child != nil; child = child.NextSibling {
		extractText(child, builder)
	}
}
