package goquery

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/webkb/webkb"
)

// Ensure TextExtractor implements webkb.TextExtractor.
var _ webkb.TextExtractor = (*TextExtractor)(nil)

// TextExtractor reduces an HTML document to whitespace-normalized plain
// text. The output is the input to content-hash deduplication, so it must
// be stable for a given document regardless of markup noise.
type TextExtractor struct{}

// NewTextExtractor creates a new TextExtractor.
func NewTextExtractor() *TextExtractor {
	return &TextExtractor{}
}

// ExtractText returns the visible text of htmlStr with runs of whitespace
// collapsed to single spaces.
func (e *TextExtractor) ExtractText(htmlStr string) (string, error) {
	doc, err := html.Parse(strings.NewReader(htmlStr))
	if err != nil {
		return "", webkb.Errorf(webkb.EINVALID, "failed to parse HTML: %v", err)
	}

	var sb strings.Builder
	collectText(doc, &sb)

	return strings.Join(strings.Fields(sb.String()), " "), nil
}

func collectText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "noscript", "iframe", "svg":
			return
		}
	}

	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
		sb.WriteString(" ")
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
}
