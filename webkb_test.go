package webkb_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/webkb/webkb"
)

func TestErrorCode(t *testing.T) {
	t.Parallel()

	require.Equal(t, "", webkb.ErrorCode(nil))
	require.Equal(t, webkb.ENOTFOUND, webkb.ErrorCode(webkb.Errorf(webkb.ENOTFOUND, "run not found")))
	require.Equal(t, webkb.EINTERNAL, webkb.ErrorCode(fmt.Errorf("disk on fire")))

	wrapped := fmt.Errorf("outer: %w", webkb.Errorf(webkb.EINVALID, "bad input"))
	require.Equal(t, webkb.EINVALID, webkb.ErrorCode(wrapped))
}

func TestErrorMessage(t *testing.T) {
	t.Parallel()

	require.Equal(t, "", webkb.ErrorMessage(nil))
	require.Equal(t, "run not found", webkb.ErrorMessage(webkb.Errorf(webkb.ENOTFOUND, "run not found")))
	require.Equal(t, "Internal error.", webkb.ErrorMessage(fmt.Errorf("disk on fire")))
}

func TestChunk_Key(t *testing.T) {
	t.Parallel()

	withID := &webkb.Chunk{ID: "abc", URL: "https://example.com/a", Index: 3}
	require.Equal(t, "abc", withID.Key())

	withoutID := &webkb.Chunk{URL: "https://example.com/a", Index: 3}
	require.Equal(t, "https://example.com/a#3", withoutID.Key())
}

func TestChunk_TopHeading(t *testing.T) {
	t.Parallel()

	c := &webkb.Chunk{Hierarchy: []string{"Guide", "Setup"}}
	require.Equal(t, "Guide", c.TopHeading())

	require.Equal(t, "General", (&webkb.Chunk{}).TopHeading())
}

func TestCrawlConfig_Validate(t *testing.T) {
	t.Parallel()

	t.Run("requires an absolute start URL", func(t *testing.T) {
		t.Parallel()

		cfg := webkb.DefaultCrawlConfig()
		require.Error(t, cfg.Validate())

		cfg.StartURL = "/relative/path"
		require.Error(t, cfg.Validate())

		cfg.StartURL = "https://example.com/"
		require.NoError(t, cfg.Validate())
	})

	t.Run("rejects a depth below -1", func(t *testing.T) {
		t.Parallel()

		cfg := webkb.DefaultCrawlConfig()
		cfg.StartURL = "https://example.com/"
		cfg.MaxDepth = -2
		err := cfg.Validate()
		require.Error(t, err)
		require.Equal(t, webkb.EINVALID, webkb.ErrorCode(err))
	})
}

func TestRetrieveConfig_WithDefaults(t *testing.T) {
	t.Parallel()

	got := webkb.RetrieveConfig{}.WithDefaults()
	def := webkb.DefaultRetrieveConfig()
	require.Equal(t, def.FirstPassK, got.FirstPassK)
	require.Equal(t, def.MaxContextChars, got.MaxContextChars)
	require.Equal(t, def.AnchorBoost, got.AnchorBoost)

	// Explicit values survive.
	custom := webkb.RetrieveConfig{FirstPassK: 3, MinScore: 0.4}.WithDefaults()
	require.Equal(t, 3, custom.FirstPassK)
	require.Equal(t, float32(0.4), custom.MinScore)
}

func TestLinkGraph(t *testing.T) {
	t.Parallel()

	t.Run("indexes edges in both directions", func(t *testing.T) {
		t.Parallel()

		g := webkb.NewLinkGraph()
		g.Add(webkb.LinkEdge{Source: "a", Target: "b", Anchor: "to b"})
		g.Add(webkb.LinkEdge{Source: "c", Target: "b", Anchor: "also b"})

		require.Len(t, g.Outgoing("a"), 1)
		incoming := g.Incoming("b")
		require.Len(t, incoming, 2)
		require.Equal(t, "to b", incoming[0].Anchor)
		require.Equal(t, 2, g.Len())
	})

	t.Run("touched pages appear with no edges", func(t *testing.T) {
		t.Parallel()

		g := webkb.NewLinkGraph()
		g.Touch("a")
		require.True(t, g.HasPage("a"))
		require.Empty(t, g.Outgoing("a"))
		require.Equal(t, 0, g.Len())
	})

	t.Run("export and import round-trip", func(t *testing.T) {
		t.Parallel()

		g := webkb.NewLinkGraph()
		g.Add(webkb.LinkEdge{Source: "a", Target: "b", Anchor: "to b"})
		g.Touch("c")

		imported := webkb.ImportEdges(g.Export())
		require.Equal(t, g.Export(), imported.Export())
		require.Len(t, imported.Incoming("b"), 1)
	})
}

func TestURLFilter_Match(t *testing.T) {
	t.Parallel()

	t.Run("nil filter matches everything", func(t *testing.T) {
		t.Parallel()

		f, err := webkb.CompileURLFilter(nil, nil)
		require.NoError(t, err)
		require.Nil(t, f)
		require.True(t, f.Match("https://example.com/anything"))
	})

	t.Run("exclude wins over include", func(t *testing.T) {
		t.Parallel()

		f, err := webkb.CompileURLFilter([]string{"/docs/"}, []string{`\.pdf$`})
		require.NoError(t, err)
		require.True(t, f.Match("https://example.com/docs/intro"))
		require.False(t, f.Match("https://example.com/docs/manual.pdf"))
		require.False(t, f.Match("https://example.com/blog/post"))
	})

	t.Run("rejects invalid patterns", func(t *testing.T) {
		t.Parallel()

		_, err := webkb.CompileURLFilter([]string{"["}, nil)
		require.Error(t, err)
		require.Equal(t, webkb.EINVALID, webkb.ErrorCode(err))
	})
}
