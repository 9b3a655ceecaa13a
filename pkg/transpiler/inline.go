package transpiler

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// renderInline folds an element's inline children into markdown text:
// strong/b -> **, em/i -> *, code -> backticks, a -> [text](href),
// br -> newline. Nested lists are skipped; the list walker owns them.
func renderInline(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		inline(&b, c)
	}
	return tidyInline(b.String())
}

func renderInlineNodes(nodes []*html.Node) string {
	var b strings.Builder
	for _, c := range nodes {
		inline(&b, c)
	}
	return tidyInline(b.String())
}

func inline(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		// net/html already decodes entities in text nodes
		b.WriteString(n.Data)
	case html.ElementNode:
		switch n.Data {
		case "strong", "b":
			wrapInline(b, n, "**")
		case "em", "i":
			wrapInline(b, n, "*")
		case "code":
			if text := strings.TrimSpace(textContent(n)); text != "" {
				b.WriteString("`" + text + "`")
			}
		case "a":
			text := strings.TrimSpace(childInline(n))
			href := attrVal(n, "href")
			if text != "" {
				fmt.Fprintf(b, "[%s](%s)", text, href)
			}
		case "br":
			b.WriteString("\n")
		case "ul", "ol":
			// handled by the list walker
		case "img", "iframe":
			// detached into block nodes before inline rendering
		default:
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				inline(b, c)
			}
		}
	}
}

func wrapInline(b *strings.Builder, n *html.Node, marker string) {
	inner := strings.TrimSpace(childInline(n))
	if inner == "" {
		return
	}
	b.WriteString(marker + inner + marker)
}

func childInline(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		inline(&b, c)
	}
	return b.String()
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
		for g := c.FirstChild; g != nil; g = g.NextSibling {
			walk(g)
		}
	}
	walk(n)
	return b.String()
}

// tidyInline collapses whitespace runs within each line while keeping
// newlines that came from br tags.
func tidyInline(s string) string {
	lines := strings.Split(s, "\n")
	for i, ln := range lines {
		lines[i] = strings.Join(strings.Fields(ln), " ")
	}
	out := strings.Join(lines, "\n")
	for strings.Contains(out, "\n\n\n") {
		out = strings.ReplaceAll(out, "\n\n\n", "\n\n")
	}
	return strings.TrimSpace(out)
}

// cellText renders a table cell inline, newlines flattened and pipes escaped
// so cell content cannot break the row syntax.
func cellText(n *html.Node) string {
	text := renderInline(n)
	text = strings.ReplaceAll(text, "\n", " ")
	return strings.ReplaceAll(text, "|", "\\|")
}
