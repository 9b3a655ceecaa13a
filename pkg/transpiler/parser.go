package transpiler

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Parser turns one document body into a node sequence. isAsset decides
// whether an image URL belongs to the mirrored asset host; nil mirrors
// everything.
type Parser struct {
	isAsset func(rawURL string) bool
}

func NewParser(isAsset func(rawURL string) bool) *Parser {
	return &Parser{isAsset: isAsset}
}

// Parse recognizes the export dialect: paragraphs, headings h2-h6, nested
// lists, tables (figure-wrapped included), images, YouTube iframes, and
// inline emphasis/code/links. Anything else is preserved verbatim with a
// reason. A non-empty body that yields no nodes is a parse failure.
func (p *Parser) Parse(rawBody string) ([]Node, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawBody))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	st := &parseState{isAsset: p.isAsset}
	st.walk(doc.Find("body").Contents())

	if len(st.nodes) == 0 && strings.TrimSpace(rawBody) != "" {
		return nil, fmt.Errorf("no recognizable content in body")
	}
	return st.nodes, nil
}

type parseState struct {
	nodes   []Node
	ordinal int
	isAsset func(string) bool
}

func (st *parseState) walk(sel *goquery.Selection) {
	sel.Each(func(_ int, s *goquery.Selection) {
		st.walkNode(s)
	})
}

func (st *parseState) walkNode(s *goquery.Selection) {
	n := s.Get(0)

	if n.Type == html.TextNode {
		if text := tidyInline(n.Data); text != "" {
			st.nodes = append(st.nodes, Node{Kind: KindParagraph, Text: text})
		}
		return
	}
	if n.Type != html.ElementNode {
		return
	}

	switch tag := goquery.NodeName(s); tag {
	case "h2", "h3", "h4", "h5", "h6":
		media := detachMedia(n)
		st.nodes = append(st.nodes, Node{
			Kind:  KindHeading,
			Level: int(tag[1] - '0'),
			Text:  renderInline(n),
		})
		st.emitMedia(media)
	case "p", "figcaption":
		st.paragraph(n)
	case "ul":
		st.list(n, false, 0)
	case "ol":
		st.list(n, true, 0)
	case "table":
		st.table(s)
	case "figure":
		st.figure(s)
	case "iframe":
		st.iframe(n, s)
	case "img":
		st.image(n)
	case "br", "hr":
		// nothing to emit at block level
	case "div", "section", "article", "main", "header", "footer", "span":
		// transparent containers around real content
		st.walk(s.Contents())
	default:
		st.preserve(s, fmt.Sprintf("no mapping for <%s>", tag))
	}
}

// paragraph splits a p around embedded images and iframes so each keeps its
// document-order position as its own node. Images nested deeper, inside a
// link or emphasis, are detached and emitted right after the run that held
// them; inline rendering never swallows one.
func (st *parseState) paragraph(n *html.Node) {
	var run []*html.Node
	flush := func() {
		if len(run) == 0 {
			return
		}
		if text := renderInlineNodes(run); text != "" {
			st.nodes = append(st.nodes, Node{Kind: KindParagraph, Text: text})
		}
		run = nil
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "img" {
			flush()
			st.image(c)
			continue
		}
		if c.Type == html.ElementNode && c.Data == "iframe" {
			flush()
			st.iframe(c, nodeSelection(c))
			continue
		}
		media := detachMedia(c)
		run = append(run, c)
		if len(media) > 0 {
			flush()
			st.emitMedia(media)
		}
	}
	flush()
}

func (st *parseState) list(n *html.Node, ordered bool, depth int) {
	pos := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != "li" {
			continue
		}
		pos++
		media := detachMedia(c)
		st.nodes = append(st.nodes, Node{
			Kind:     KindListItem,
			Text:     renderInline(c),
			Ordered:  ordered,
			Depth:    depth,
			Position: pos,
		})
		st.emitMedia(media)
		for g := c.FirstChild; g != nil; g = g.NextSibling {
			if g.Type == html.ElementNode && (g.Data == "ul" || g.Data == "ol") {
				st.list(g, g.Data == "ol", depth+1)
			}
		}
	}
}

func (st *parseState) table(s *goquery.Selection) {
	var rows [][]string
	var media []*html.Node
	hasHeader := false
	s.Find("tr").Each(func(i int, tr *goquery.Selection) {
		var cells []string
		tr.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
			media = append(media, detachMedia(cell.Get(0))...)
			cells = append(cells, cellText(cell.Get(0)))
		})
		if i == 0 && tr.Find("th").Length() > 0 {
			hasHeader = true
		}
		if len(cells) > 0 {
			rows = append(rows, cells)
		}
	})
	st.nodes = append(st.nodes, Node{
		Kind:  KindTable,
		Table: &TableNode{Rows: rows, HasHeader: hasHeader},
	})
	st.emitMedia(media)
}

// figure wrappers carry tables or images in the export; anything else inside
// one has no mapping.
func (st *parseState) figure(s *goquery.Selection) {
	if table := s.Find("table").First(); table.Length() > 0 {
		st.table(table)
		return
	}
	if s.Find("img,iframe,figcaption").Length() > 0 {
		st.walk(s.Contents())
		return
	}
	st.preserve(s, "figure without table or image content")
}

func (st *parseState) iframe(n *html.Node, s *goquery.Selection) {
	src := attrVal(n, "src")
	if id, ok := youtubeID(src); ok {
		st.nodes = append(st.nodes, Node{
			Kind:    KindYouTube,
			YouTube: &YouTubeNode{VideoID: id},
		})
		return
	}
	st.preserve(s, fmt.Sprintf("iframe with non-YouTube src %q", src))
}

func (st *parseState) image(n *html.Node) {
	src := attrVal(n, "src")
	if src == "" {
		return
	}
	img := &ImageNode{SourceURL: src, Alt: attrVal(n, "alt")}
	if st.isAsset == nil || st.isAsset(src) {
		st.ordinal++
		img.Ordinal = st.ordinal
	}
	st.nodes = append(st.nodes, Node{Kind: KindImage, Image: img})
}

func (st *parseState) emitMedia(media []*html.Node) {
	for _, m := range media {
		if m.Data == "img" {
			st.image(m)
			continue
		}
		st.iframe(m, nodeSelection(m))
	}
}

// detachMedia removes img and iframe elements nested anywhere under n and
// returns them in document order. Nested lists are left alone; the list
// walker owns them.
func detachMedia(n *html.Node) []*html.Node {
	var media []*html.Node
	var walk func(*html.Node)
	walk = func(parent *html.Node) {
		for c := parent.FirstChild; c != nil; {
			next := c.NextSibling
			switch {
			case c.Type == html.ElementNode && (c.Data == "img" || c.Data == "iframe"):
				parent.RemoveChild(c)
				media = append(media, c)
			case c.Type == html.ElementNode && (c.Data == "ul" || c.Data == "ol"):
				// skip
			default:
				walk(c)
			}
			c = next
		}
	}
	walk(n)
	return media
}

func (st *parseState) preserve(s *goquery.Selection, reason string) {
	raw, err := goquery.OuterHtml(s)
	if err != nil {
		raw = ""
	}
	st.nodes = append(st.nodes, Node{
		Kind: KindRawHTML,
		Raw:  &RawNode{HTML: strings.TrimSpace(raw), Reason: reason},
	})
}

// youtubeID extracts the video ID from an embed URL: the last path segment,
// query stripped.
func youtubeID(src string) (string, bool) {
	u, err := url.Parse(src)
	if err != nil {
		return "", false
	}
	host := u.Hostname()
	if !strings.Contains(host, "youtube.com") && !strings.Contains(host, "youtu.be") {
		return "", false
	}
	segs := strings.Split(strings.Trim(u.Path, "/"), "/")
	id := segs[len(segs)-1]
	if id == "" {
		return "", false
	}
	return id, true
}

func attrVal(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// nodeSelection wraps a raw node so it can be handed to selection-based
// helpers (OuterHtml needs a document behind the selection).
func nodeSelection(n *html.Node) *goquery.Selection {
	doc := goquery.NewDocumentFromNode(n)
	return doc.Selection
}
