package transpiler

import (
	"strings"
	"testing"

	"framer2mdx/pkg/mirror"
)

func TestRenderFrontmatter(t *testing.T) {
	out := Render("Getting Started with Chart Notes", nil, nil)
	want := "---\ntitle: \"Getting Started with Chart Notes\"\n---\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestRenderFrontmatterEscapesQuotes(t *testing.T) {
	out := Render(`The "Smart" Inbox`, nil, nil)
	if !strings.Contains(out, `title: "The \"Smart\" Inbox"`) {
		t.Errorf("quotes not escaped: %q", out)
	}
}

func TestRenderHeadingAndParagraph(t *testing.T) {
	nodes := []Node{
		{Kind: KindHeading, Level: 2, Text: "Overview"},
		{Kind: KindParagraph, Text: "Some intro text."},
		{Kind: KindHeading, Level: 4, Text: "Details"},
	}
	out := Render("T", nodes, nil)

	for _, want := range []string{"## Overview\n", "Some intro text.\n", "#### Details"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderTableRoundTrip(t *testing.T) {
	nodes := []Node{{
		Kind:  KindTable,
		Table: &TableNode{Rows: [][]string{{"Header"}, {"Data"}}, HasHeader: true},
	}}
	out := Render("T", nodes, nil)

	want := "| Header |\n| --- |\n| Data |"
	if !strings.Contains(out, want) {
		t.Errorf("table not rendered as markdown:\n%s", out)
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	nodes := []Node{{
		Kind: KindTable,
		Table: &TableNode{Rows: [][]string{
			{"A", "B", "C"},
			{"1"},
		}},
	}}
	out := Render("T", nodes, nil)

	if !strings.Contains(out, "| A | B | C |") {
		t.Errorf("missing header row:\n%s", out)
	}
	if !strings.Contains(out, "| --- | --- | --- |") {
		t.Errorf("separator should span max width:\n%s", out)
	}
	if !strings.Contains(out, "| 1 |  |  |") {
		t.Errorf("short row should be padded with empty cells:\n%s", out)
	}
}

func TestRenderLists(t *testing.T) {
	nodes := []Node{
		{Kind: KindListItem, Text: "one", Depth: 0, Position: 1},
		{Kind: KindListItem, Text: "two", Depth: 0, Position: 2},
		{Kind: KindListItem, Text: "alpha", Ordered: true, Depth: 1, Position: 1},
		{Kind: KindListItem, Text: "beta", Ordered: true, Depth: 1, Position: 2},
	}
	out := Render("T", nodes, nil)

	want := "- one\n- two\n  1. alpha\n  2. beta\n"
	if !strings.Contains(out, want) {
		t.Errorf("list rendering wrong:\n%s", out)
	}
}

func TestRenderImageUsesEncodedLocalPath(t *testing.T) {
	nodes := []Node{{
		Kind:  KindImage,
		Image: &ImageNode{SourceURL: "https://framerusercontent.com/images/a.png", Ordinal: 1},
	}}
	refs := []mirror.AssetRef{{
		URL:       "https://framerusercontent.com/images/a.png",
		Ordinal:   1,
		EmbedPath: "/images/Owners%20%26%20Administration/My%20Practice/my-practice/my-practice-1.png",
		Status:    mirror.StatusDownloaded,
	}}

	out := Render("T", nodes, refs)
	want := `<img src="/images/Owners%20%26%20Administration/My%20Practice/my-practice/my-practice-1.png" alt="" />`
	if !strings.Contains(out, want) {
		t.Errorf("image element wrong:\n%s", out)
	}
	if strings.Contains(out, "![") {
		t.Error("images must never use inline markdown syntax")
	}
}

func TestRenderImageFallsBackOnFailedDownload(t *testing.T) {
	url := "https://framerusercontent.com/images/broken.png"
	nodes := []Node{{Kind: KindImage, Image: &ImageNode{SourceURL: url, Ordinal: 1}}}
	refs := []mirror.AssetRef{{URL: url, Ordinal: 1, EmbedPath: "/images/x/broken-1.png", Status: mirror.StatusFailed}}

	out := Render("T", nodes, refs)
	if !strings.Contains(out, `<img src="`+url+`"`) {
		t.Errorf("failed asset should keep its remote URL:\n%s", out)
	}
}

func TestRenderExternalImageKeepsURL(t *testing.T) {
	nodes := []Node{{
		Kind:  KindImage,
		Image: &ImageNode{SourceURL: "https://elsewhere.example.com/logo.png", Alt: "logo"},
	}}
	out := Render("T", nodes, nil)
	if !strings.Contains(out, `<img src="https://elsewhere.example.com/logo.png" alt="logo" />`) {
		t.Errorf("external image wrong:\n%s", out)
	}
}

func TestRenderYouTubeEmbed(t *testing.T) {
	// the embed URL is rebuilt from the video ID alone
	nodes := []Node{{
		Kind:    KindYouTube,
		YouTube: &YouTubeNode{VideoID: "dQw4w9WgXcQ"},
	}}
	out := Render("T", nodes, nil)

	for _, want := range []string{
		`className="w-full aspect-video rounded-xl"`,
		`src="https://www.youtube.com/embed/dQw4w9WgXcQ"`,
		`title="YouTube video player"`,
		`frameBorder="0"`,
		`allow="accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture"`,
		"allowFullScreen",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("embed missing %q:\n%s", want, out)
		}
	}
}

func TestRenderRawPreservedWithComment(t *testing.T) {
	nodes := []Node{{
		Kind: KindRawHTML,
		Raw:  &RawNode{HTML: "<blockquote>odd</blockquote>", Reason: "no mapping for <blockquote>"},
	}}
	out := Render("T", nodes, nil)

	want := "<blockquote>odd</blockquote> <!-- HTML preserved: no mapping for <blockquote> -->"
	if !strings.Contains(out, want) {
		t.Errorf("raw preservation wrong:\n%s", out)
	}
}
