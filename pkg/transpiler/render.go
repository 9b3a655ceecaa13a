package transpiler

import (
	"fmt"
	"strings"

	"framer2mdx/pkg/mirror"
)

// Render emits final MDX: a frontmatter block with the document title, then
// the node sequence. refs are the document's mirrored assets in ordinal
// order; an image whose ref failed falls back to its remote URL.
func Render(title string, nodes []Node, refs []mirror.AssetRef) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("title: \"" + escapeTitle(title) + "\"\n")
	b.WriteString("---\n\n")

	for i := 0; i < len(nodes); {
		if nodes[i].Kind == KindListItem {
			j := i
			for j < len(nodes) && nodes[j].Kind == KindListItem {
				j++
			}
			renderList(&b, nodes[i:j])
			i = j
			continue
		}
		renderNode(&b, nodes[i], refs)
		i++
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

func renderNode(b *strings.Builder, n Node, refs []mirror.AssetRef) {
	switch n.Kind {
	case KindParagraph:
		b.WriteString(n.Text + "\n\n")
	case KindHeading:
		b.WriteString(strings.Repeat("#", n.Level) + " " + n.Text + "\n\n")
	case KindTable:
		renderTable(b, n.Table)
	case KindImage:
		renderImage(b, n.Image, refs)
	case KindYouTube:
		renderYouTube(b, n.YouTube)
	case KindRawHTML:
		b.WriteString(n.Raw.HTML + " <!-- HTML preserved: " + n.Raw.Reason + " -->\n\n")
	}
}

func renderList(b *strings.Builder, items []Node) {
	for _, it := range items {
		marker := "-"
		if it.Ordered {
			marker = fmt.Sprintf("%d.", it.Position)
		}
		text := strings.ReplaceAll(it.Text, "\n", " ")
		b.WriteString(strings.Repeat("  ", it.Depth) + marker + " " + text + "\n")
	}
	b.WriteString("\n")
}

// renderTable emits a pipe table: first row as header, a --- separator per
// column, then data rows. Column count is the widest row; short rows are
// padded with empty cells.
func renderTable(b *strings.Builder, t *TableNode) {
	if len(t.Rows) == 0 {
		return
	}

	cols := 0
	for _, row := range t.Rows {
		if len(row) > cols {
			cols = len(row)
		}
	}

	writeRow := func(row []string) {
		cells := make([]string, cols)
		copy(cells, row)
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}

	writeRow(t.Rows[0])
	sep := make([]string, cols)
	for i := range sep {
		sep[i] = "---"
	}
	b.WriteString("| " + strings.Join(sep, " | ") + " |\n")
	for _, row := range t.Rows[1:] {
		writeRow(row)
	}
	b.WriteString("\n")
}

// renderImage always emits an HTML img element, never the inline-image
// markdown form: the target renderer needs URL-encoded src paths, which
// bare markdown paths do not survive.
func renderImage(b *strings.Builder, img *ImageNode, refs []mirror.AssetRef) {
	src := img.SourceURL
	if img.Ordinal > 0 && img.Ordinal <= len(refs) {
		src = refs[img.Ordinal-1].SrcAttr()
	}
	fmt.Fprintf(b, "<img src=\"%s\" alt=\"%s\" />\n\n", src, attrEscape(img.Alt))
}

func renderYouTube(b *strings.Builder, yt *YouTubeNode) {
	b.WriteString("<iframe\n")
	b.WriteString("  className=\"w-full aspect-video rounded-xl\"\n")
	fmt.Fprintf(b, "  src=\"https://www.youtube.com/embed/%s\"\n", yt.VideoID)
	b.WriteString("  title=\"YouTube video player\"\n")
	b.WriteString("  frameBorder=\"0\"\n")
	b.WriteString("  allow=\"accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture\"\n")
	b.WriteString("  allowFullScreen\n")
	b.WriteString("></iframe>\n\n")
}

func escapeTitle(title string) string {
	s := strings.ReplaceAll(title, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

func attrEscape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	return strings.ReplaceAll(s, `"`, "&quot;")
}
