package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"golang.org/x/net/html"

	"github.com/webkb/webkb"
)

// Ensure Chunker implements webkb.Chunker.
var _ webkb.Chunker = (*Chunker)(nil)

// Chunker splits HTML pages into heading-aware chunks. Headings h1-h6
// maintain a hierarchy stack that is stamped onto every chunk; paragraph
// and list-item text accumulates between headings; tables become one
// pipe-separated chunk each; code blocks attach to the preceding prose
// where there is any, otherwise stand alone as fenced chunks.
type Chunker struct{}

// NewChunker creates a new Chunker.
func NewChunker() *Chunker {
	return &Chunker{}
}

// Chunk splits htmlStr into ordered chunks for url. Chunk indexes are
// assigned in document order starting at zero.
func (c *Chunker) Chunk(url string, htmlStr string) ([]*webkb.Chunk, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return nil, webkb.Errorf(webkb.EINVALID, "failed to parse HTML: %v", err)
	}

	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}

	w := &chunkWalker{url: url}
	for _, n := range root.Nodes {
		w.walk(n)
	}
	w.flush()

	return w.chunks, nil
}

// chunkWalker carries traversal state: the heading stack, the text buffer
// for the chunk under construction, and the finished chunks.
type chunkWalker struct {
	url      string
	headings []string
	buf      []string
	chunks   []*webkb.Chunk
	lastEl   string
}

func (w *chunkWalker) walk(n *html.Node) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "noscript", "iframe", "svg", "nav", "footer":
			return
		case "h1", "h2", "h3", "h4", "h5", "h6":
			w.flush()
			level := int(n.Data[1] - '0')
			heading := strings.Join(strings.Fields(nodeText(n)), " ")
			if len(w.headings) > level-1 {
				w.headings = w.headings[:level-1]
			}
			if heading != "" {
				w.headings = append(w.headings, heading)
			}
			return
		case "p", "li":
			text := strings.TrimSpace(renderInline(n))
			if text != "" {
				prefix := ""
				if n.Data == "li" {
					prefix = "- "
				}
				w.buf = append(w.buf, prefix+text)
				w.lastEl = n.Data
			}
			return
		case "table":
			w.flush()
			if text := tableAsMarkdown(n); text != "" {
				w.emit(text)
			}
			return
		case "pre":
			if !hasChildElement(n, "code") {
				return
			}
			code := strings.TrimSpace(nodeText(n))
			if code == "" {
				return
			}
			fenced := "```\n" + code + "\n```"
			// Code illustrating preceding prose stays in the same chunk.
			if w.lastEl == "p" || w.lastEl == "li" {
				w.buf = append(w.buf, fenced)
			} else {
				w.flush()
				w.emit(fenced)
			}
			w.lastEl = "code"
			return
		}
	}

	for child := n.FirstChild; child != nil; child = child.NextSibling {
		w.walk(child)
	}
}

// flush emits the buffered prose as a chunk, if any.
func (w *chunkWalker) flush() {
	if len(w.buf) == 0 {
		return
	}
	text := strings.TrimSpace(strings.Join(w.buf, "\n"))
	w.buf = w.buf[:0]
	w.lastEl = ""
	if text != "" {
		w.emit(text)
	}
}

func (w *chunkWalker) emit(text string) {
	hierarchy := make([]string, len(w.headings))
	copy(hierarchy, w.headings)
	w.chunks = append(w.chunks, &webkb.Chunk{
		ID:        uuid.NewString(),
		URL:       w.url,
		Index:     len(w.chunks),
		Text:      text,
		Hierarchy: hierarchy,
	})
}

// renderInline returns the text of n with anchors rewritten to
// [text](href) markdown links.
func renderInline(n *html.Node) string {
	var sb strings.Builder
	var visit func(*html.Node)
	visit = func(node *html.Node) {
		if node.Type == html.ElementNode && node.Data == "a" {
			if href := attrValue(node, "href"); href != "" {
				label := strings.Join(strings.Fields(nodeText(node)), " ")
				sb.WriteString("[" + label + "](" + href + ")")
				sb.WriteString(" ")
				return
			}
		}
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
			sb.WriteString(" ")
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			visit(child)
		}
	}
	visit(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}

// tableAsMarkdown renders a table as pipe-separated rows with a ---
// separator after the header row.
func tableAsMarkdown(table *html.Node) string {
	var rows []*html.Node
	var findRows func(*html.Node)
	findRows = func(node *html.Node) {
		if node.Type == html.ElementNode && node.Data == "tr" {
			rows = append(rows, node)
			return
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			findRows(child)
		}
	}
	findRows(table)
	if len(rows) == 0 {
		return ""
	}

	var out []string
	for i, row := range rows {
		var cells []string
		for child := row.FirstChild; child != nil; child = child.NextSibling {
			if child.Type == html.ElementNode && (child.Data == "td" || child.Data == "th") {
				cells = append(cells, strings.Join(strings.Fields(nodeText(child)), " "))
			}
		}
		out = append(out, strings.Join(cells, " | "))
		if i == 0 {
			sep := make([]string, len(cells))
			for j := range sep {
				sep[j] = "---"
			}
			out = append(out, strings.Join(sep, " | "))
		}
	}
	return strings.Join(out, "\n")
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var visit func(*html.Node)
	visit = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			visit(child)
		}
	}
	visit(n)
	return sb.String()
}

func hasChildElement(n *html.Node, name string) bool {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode && child.Data == name {
			return true
		}
		if hasChildElement(child, name) {
			return true
		}
	}
	return false
}

func attrValue(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return strings.TrimSpace(attr.Val)
		}
	}
	return ""
}
