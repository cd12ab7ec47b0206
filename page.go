package webkb

import "context"

// PageRecord is the unit a crawl emits: one successfully fetched,
// policy-allowed, non-duplicate page.
type PageRecord struct {
	URL    string `json:"url"`
	HTML   string `json:"html"`
	Length int    `json:"length"`
}

// Validate returns an error if the record is unusable for ingest.
func (r *PageRecord) Validate() error {
	if r.URL == "" {
		return Errorf(EINVALID, "page record URL required")
	}
	if r.HTML == "" {
		return Errorf(EINVALID, "page record HTML required")
	}
	return nil
}

// PageFunc is invoked once per emitted page. A nil return excludes the page
// from persisted output; the crawl itself continues either way.
type PageFunc func(url, html string) *PageRecord

// Fetcher retrieves raw content from URLs.
type Fetcher interface {
	// Fetch returns the response body and its Content-Type.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (body, contentType string, err error)
}

// Link is an outgoing hyperlink discovered on a page, resolved to an
// absolute URL and paired with its anchor text.
type Link struct {
	URL    string
	Anchor string
}

// LinkExtractor extracts outgoing links with anchor text from HTML.
// The baseURL is used to resolve relative references.
type LinkExtractor interface {
	ExtractLinks(html, baseURL string) ([]Link, error)
}

// TextExtractor returns the normalized visible text of a page, the input to
// content-hash deduplication.
type TextExtractor interface {
	ExtractText(html string) (string, error)
}
