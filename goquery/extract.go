// Package goquery implements HTML processing interfaces using
// github.com/PuerkitoBio/goquery: link extraction, plain-text extraction
// and heading-aware chunking.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/webkb/webkb"
)

// Ensure LinkExtractor implements webkb.LinkExtractor.
var _ webkb.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor extracts anchor links from HTML documents.
type LinkExtractor struct{}

// NewLinkExtractor creates a new LinkExtractor.
func NewLinkExtractor() *LinkExtractor {
	return &LinkExtractor{}
}

// ExtractLinks returns the absolute http(s) links found in html, resolved
// against baseURL, with fragments stripped. Links are deduplicated by URL
// keeping the first anchor text seen; document order is preserved.
func (e *LinkExtractor) ExtractLinks(html string, baseURL string) ([]webkb.Link, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, webkb.Errorf(webkb.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, webkb.Errorf(webkb.EINVALID, "failed to parse HTML: %v", err)
	}

	seen := make(map[string]struct{})
	var links []webkb.Link

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, exists := sel.Attr("href")
		if !exists || href == "" {
			return
		}
		if isNonHTTPLink(href) {
			return
		}

		resolved := resolveURL(base, href)
		if resolved == "" {
			return
		}
		if _, ok := seen[resolved]; ok {
			return
		}
		seen[resolved] = struct{}{}

		links = append(links, webkb.Link{
			URL:    resolved,
			Anchor: strings.Join(strings.Fields(sel.Text()), " "),
		})
	})

	return links, nil
}

// resolveURL resolves href against base, strips the fragment, and filters
// self-referential and non-http(s) results.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""

	scheme := strings.ToLower(resolved.Scheme)
	if scheme != "http" && scheme != "https" {
		return ""
	}

	result := resolved.String()
	baseNoFragment := *base
	baseNoFragment.Fragment = ""
	if result == baseNoFragment.String() {
		return ""
	}
	return result
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
