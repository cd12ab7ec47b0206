package webkb

import (
	"net/url"
	"time"
)

// CrawlConfig holds immutable per-crawl settings. String-set fields default
// to empty, which means "no restriction"; block rules always take precedence
// over allow rules when both are configured.
type CrawlConfig struct {
	// StartURL is the seed for the crawl.
	StartURL string `toml:"start_url"`

	// AllowedDomains restricts crawling to these hosts. Empty permits all.
	AllowedDomains []string `toml:"allowed_domains"`

	// AllowSubdomains extends each allowed domain to its subdomains.
	AllowSubdomains bool `toml:"allow_subdomains"`

	// AllowedPaths and BlockedPaths are URL path prefixes.
	AllowedPaths []string `toml:"allowed_paths"`
	BlockedPaths []string `toml:"blocked_paths"`

	// AllowPatterns and BlockPatterns are regular expressions matched
	// against the full URL.
	AllowPatterns []string `toml:"allow_patterns"`
	BlockPatterns []string `toml:"block_patterns"`

	// MaxDepth bounds link-following in depth-bounded mode. -1 means
	// unbounded.
	MaxDepth int `toml:"max_depth"`

	// WholeSite selects FIFO whole-site traversal scoped to the start
	// domain instead of depth-bounded traversal.
	WholeSite bool `toml:"whole_site"`

	// SeedURLs are additional seeds for seed-list crawls.
	SeedURLs []string `toml:"seed_urls"`

	// Delay is the minimum interval between requests to one domain.
	Delay time.Duration `toml:"-"`

	UserAgent string        `toml:"user_agent"`
	Timeout   time.Duration `toml:"-"`

	// RespectRobots enables the exclusion-protocol gate.
	RespectRobots bool `toml:"respect_robots"`

	// Deduplicate enables content-hash deduplication.
	Deduplicate bool `toml:"deduplicate"`
}

// DefaultCrawlConfig returns a CrawlConfig with conservative defaults.
func DefaultCrawlConfig() CrawlConfig {
	return CrawlConfig{
		MaxDepth:      3,
		WholeSite:     true,
		Delay:         200 * time.Millisecond,
		UserAgent:     "webkb",
		Timeout:       10 * time.Second,
		RespectRobots: true,
		Deduplicate:   true,
	}
}

// Validate returns an error if the config cannot drive a crawl.
func (c *CrawlConfig) Validate() error {
	if c.StartURL == "" {
		return Errorf(EINVALID, "start URL required")
	}
	u, err := url.Parse(c.StartURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return Errorf(EINVALID, "start URL %q is not absolute", c.StartURL)
	}
	if c.MaxDepth < -1 {
		return Errorf(EINVALID, "max depth must be -1 or greater")
	}
	return nil
}

// RetrieveConfig holds the retrieval engine tunables. All values are
// externally configurable; zero values are replaced by defaults.
type RetrieveConfig struct {
	// FirstPassK and SecondPassK are the result counts for the initial
	// and rewrite search passes.
	FirstPassK  int `toml:"first_pass_k"`
	SecondPassK int `toml:"second_pass_k"`

	// MaxCandidates caps the merged candidate set after re-ranking.
	MaxCandidates int `toml:"max_candidates"`

	// MaxContextChars is the character budget for context assembly.
	MaxContextChars int `toml:"max_context_chars"`

	// AnchorBoost and SectionBoost are added to the raw score of results
	// corroborated by the graph and section expansion passes.
	AnchorBoost  float32 `toml:"anchor_boost"`
	SectionBoost float32 `toml:"section_boost"`

	// MinScore drops results below this raw similarity. Thresholding is
	// the engine's responsibility, not the store's.
	MinScore float32 `toml:"min_score"`

	Rewrite          bool `toml:"rewrite"`
	GraphExpansion   bool `toml:"graph_expansion"`
	SectionExpansion bool `toml:"section_expansion"`
}

// WithDefaults returns a copy of the config with zero numeric values
// replaced by their defaults. Boolean toggles are taken as-is.
func (c RetrieveConfig) WithDefaults() RetrieveConfig {
	def := DefaultRetrieveConfig()
	if c.FirstPassK <= 0 {
		c.FirstPassK = def.FirstPassK
	}
	if c.SecondPassK <= 0 {
		c.SecondPassK = def.SecondPassK
	}
	if c.MaxCandidates <= 0 {
		c.MaxCandidates = def.MaxCandidates
	}
	if c.MaxContextChars <= 0 {
		c.MaxContextChars = def.MaxContextChars
	}
	if c.AnchorBoost == 0 {
		c.AnchorBoost = def.AnchorBoost
	}
	if c.SectionBoost == 0 {
		c.SectionBoost = def.SectionBoost
	}
	return c
}

// DefaultRetrieveConfig returns a RetrieveConfig with all passes enabled.
func DefaultRetrieveConfig() RetrieveConfig {
	return RetrieveConfig{
		FirstPassK:       10,
		SecondPassK:      10,
		MaxCandidates:    30,
		MaxContextChars:  6000,
		AnchorBoost:      0.10,
		SectionBoost:     0.05,
		MinScore:         0,
		Rewrite:          true,
		GraphExpansion:   true,
		SectionExpansion: true,
	}
}
