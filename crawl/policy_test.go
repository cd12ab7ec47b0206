package crawl_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/webkb/webkb"
	"github.com/webkb/webkb/crawl"
)

func TestPolicy_Allowed(t *testing.T) {
	t.Parallel()

	t.Run("permits everything with an empty config", func(t *testing.T) {
		t.Parallel()

		p, err := crawl.NewPolicy(webkb.CrawlConfig{})
		require.NoError(t, err)
		require.True(t, p.Allowed("https://example.com/docs"))
		require.True(t, p.Allowed("http://other.com/"))
	})

	t.Run("rejects non-http schemes", func(t *testing.T) {
		t.Parallel()

		p, err := crawl.NewPolicy(webkb.CrawlConfig{})
		require.NoError(t, err)
		require.False(t, p.Allowed("ftp://example.com/file"))
		require.False(t, p.Allowed("mailto:someone@example.com"))
	})

	t.Run("restricts hosts to allowed domains", func(t *testing.T) {
		t.Parallel()

		p, err := crawl.NewPolicy(webkb.CrawlConfig{
			AllowedDomains: []string{"example.com"},
		})
		require.NoError(t, err)
		require.True(t, p.Allowed("https://example.com/docs"))
		require.False(t, p.Allowed("https://other.com/docs"))
		require.False(t, p.Allowed("https://sub.example.com/docs"))
	})

	t.Run("permits subdomains when enabled", func(t *testing.T) {
		t.Parallel()

		p, err := crawl.NewPolicy(webkb.CrawlConfig{
			AllowedDomains:  []string{"example.com"},
			AllowSubdomains: true,
		})
		require.NoError(t, err)
		require.True(t, p.Allowed("https://docs.example.com/intro"))
		require.False(t, p.Allowed("https://notexample.com/intro"))
	})

	t.Run("blocked paths win over allowed paths", func(t *testing.T) {
		t.Parallel()

		p, err := crawl.NewPolicy(webkb.CrawlConfig{
			AllowedPaths: []string{"/docs"},
			BlockedPaths: []string{"/docs/private"},
		})
		require.NoError(t, err)
		require.True(t, p.Allowed("https://example.com/docs/intro"))
		require.False(t, p.Allowed("https://example.com/docs/private/key"))
		require.False(t, p.Allowed("https://example.com/blog/post"))
	})

	t.Run("block patterns win over allow patterns", func(t *testing.T) {
		t.Parallel()

		p, err := crawl.NewPolicy(webkb.CrawlConfig{
			AllowPatterns: []string{`/docs/`},
			BlockPatterns: []string{`\.pdf$`},
		})
		require.NoError(t, err)
		require.True(t, p.Allowed("https://example.com/docs/intro"))
		require.False(t, p.Allowed("https://example.com/docs/manual.pdf"))
		require.False(t, p.Allowed("https://example.com/blog/post"))
	})

	t.Run("rejects unparseable URLs", func(t *testing.T) {
		t.Parallel()

		p, err := crawl.NewPolicy(webkb.CrawlConfig{})
		require.NoError(t, err)
		require.False(t, p.Allowed("://missing-scheme"))
	})
}

func TestNewPolicy_rejects_invalid_patterns(t *testing.T) {
	t.Parallel()

	_, err := crawl.NewPolicy(webkb.CrawlConfig{AllowPatterns: []string{"["}})
	require.Error(t, err)
	require.Equal(t, webkb.EINVALID, webkb.ErrorCode(err))
}
