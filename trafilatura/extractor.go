// Package trafilatura implements webkb.TextExtractor using
// github.com/markusmobius/go-trafilatura main-content extraction.
package trafilatura

import (
	"strings"

	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"

	"github.com/webkb/webkb"
)

// Ensure Extractor implements webkb.TextExtractor.
var _ webkb.TextExtractor = (*Extractor)(nil)

// Extractor reduces a page to the whitespace-normalized text of its main
// content, ignoring navigation, footers and other boilerplate. Two pages
// that differ only in chrome therefore hash to the same content.
//
// Pages trafilatura cannot extract from (link hubs, near-empty pages)
// fall back to whole-document text so extraction never fails a crawl.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractText returns the normalized main-content text of htmlStr.
func (e *Extractor) ExtractText(htmlStr string) (string, error) {
	if strings.TrimSpace(htmlStr) == "" {
		return "", webkb.Errorf(webkb.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(htmlStr), trafilatura.Options{
		EnableFallback: true,
	})
	if err == nil && result.ContentNode != nil {
		if text := normalize(nodeText(result.ContentNode)); text != "" {
			return text, nil
		}
	}

	return wholeDocumentText(htmlStr)
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var visit func(*html.Node)
	visit = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
			sb.WriteString(" ")
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return sb.String()
}

// wholeDocumentText is the fallback: every visible text node in document
// order, normalized.
func wholeDocumentText(htmlStr string) (string, error) {
	doc, err := html.Parse(strings.NewReader(htmlStr))
	if err != nil {
		return "", webkb.Errorf(webkb.EINVALID, "failed to parse HTML: %v", err)
	}

	var sb strings.Builder
	var visit func(*html.Node)
	visit = func(n *html.Node) {
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
			visit(c)
		}
	}
	visit(doc)

	return normalize(sb.String()), nil
}

func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
