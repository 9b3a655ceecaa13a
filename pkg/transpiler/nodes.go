// Package transpiler converts the fixed HTML dialect of Framer-exported
// snapshot bodies into Mintlify MDX. Parsing produces a closed set of node
// kinds; rendering turns the node sequence into final text. Nodes are never
// mutated after the parse stage.
package transpiler

// Kind identifies a node variant.
type Kind string

const (
	KindParagraph Kind = "p"
	KindHeading   Kind = "heading"
	KindListItem  Kind = "li"
	KindTable     Kind = "table"
	KindImage     Kind = "img"
	KindYouTube   Kind = "youtube"
	KindRawHTML   Kind = "raw"
)

// Node is one semantic block of a parsed document. Inline markup (bold,
// italics, code, links) is already folded into Text as markdown by the
// parse stage.
type Node struct {
	Kind Kind
	Text string

	// Heading level, 2-6. h1 never appears in a body; document titles come
	// from frontmatter.
	Level int

	// List item fields. Depth is 0-based nesting, Position the 1-based index
	// among siblings, used for ordered markers.
	Ordered  bool
	Depth    int
	Position int

	Table   *TableNode
	Image   *ImageNode
	YouTube *YouTubeNode
	Raw     *RawNode
}

// TableNode holds cell text row by row. HasHeader records whether the first
// row carried th markup; the renderer treats the first row as the header
// either way, matching the export's table shape.
type TableNode struct {
	Rows      [][]string
	HasHeader bool
}

// ImageNode is an asset reference request. Ordinal is the 1-based
// first-occurrence position among the document's mirrorable images; zero
// means the image is external and keeps its original URL.
type ImageNode struct {
	SourceURL string
	Alt       string
	Ordinal   int
}

// YouTubeNode is a recognized YouTube embed, reduced to its video ID. The
// renderer rebuilds a canonical embed URL from it, so share-link hosts and
// query parameters never leak into output.
type YouTubeNode struct {
	VideoID string
}

// RawNode preserves a construct with no defined mapping, verbatim, with a
// human-readable reason. Headings, tables and YouTube iframes must never
// take this path.
type RawNode struct {
	HTML   string
	Reason string
}

// AssetURLs returns the source URLs of all mirrorable images in ordinal
// order. Ordinals are contiguous from 1, so the slice index is ordinal-1.
func AssetURLs(nodes []Node) []string {
	var urls []string
	for _, n := range nodes {
		if n.Kind == KindImage && n.Image.Ordinal > 0 {
			urls = append(urls, n.Image.SourceURL)
		}
	}
	return urls
}
