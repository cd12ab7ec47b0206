package crawl

import (
	"net/url"
	"strings"

	"github.com/webkb/webkb"
)

// Policy is the stateless predicate set deciding whether a URL may be
// crawled under a CrawlConfig. Block rules take precedence over allow rules.
type Policy struct {
	cfg    webkb.CrawlConfig
	filter *webkb.URLFilter
}

// NewPolicy compiles the config's URL patterns into a Policy.
func NewPolicy(cfg webkb.CrawlConfig) (*Policy, error) {
	filter, err := webkb.CompileURLFilter(cfg.AllowPatterns, cfg.BlockPatterns)
	if err != nil {
		return nil, err
	}
	return &Policy{cfg: cfg, filter: filter}, nil
}

// Allowed reports whether the URL passes every policy check. Only http and
// https URLs are crawlable.
func (p *Policy) Allowed(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	if !p.AllowedDomain(u) {
		return false
	}
	if !p.AllowedPath(u) {
		return false
	}
	return p.filter.Match(rawURL)
}

// AllowedDomain checks the host against the allowed-domains list. An empty
// list permits all hosts. With AllowSubdomains set, a host matches when it
// equals an allowed domain or is a subdomain of one.
func (p *Policy) AllowedDomain(u *url.URL) bool {
	if len(p.cfg.AllowedDomains) == 0 {
		return true
	}
	host := u.Hostname()
	for _, domain := range p.cfg.AllowedDomains {
		if host == domain {
			return true
		}
		if p.cfg.AllowSubdomains && strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

// AllowedPath checks the URL path against the prefix lists. Blocked
// prefixes win over allowed ones; an empty allowed list permits all paths.
func (p *Policy) AllowedPath(u *url.URL) bool {
	path := u.Path
	for _, prefix := range p.cfg.BlockedPaths {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}
	if len(p.cfg.AllowedPaths) == 0 {
		return true
	}
	for _, prefix := range p.cfg.AllowedPaths {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// MatchesAllowPatterns reports whether the URL passes the allow-pattern
// list. An empty list behaves as "no restriction".
func (p *Policy) MatchesAllowPatterns(rawURL string) bool {
	if p.filter == nil || len(p.filter.Include) == 0 {
		return true
	}
	for _, re := range p.filter.Include {
		if re.MatchString(rawURL) {
			return true
		}
	}
	return false
}

// MatchesBlockPatterns reports whether any block pattern matches the URL.
func (p *Policy) MatchesBlockPatterns(rawURL string) bool {
	if p.filter == nil {
		return false
	}
	for _, re := range p.filter.Exclude {
		if re.MatchString(rawURL) {
			return true
		}
	}
	return false
}
