package crawl_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/webkb/webkb/crawl"
)

func TestContentDeduper_Check(t *testing.T) {
	t.Parallel()

	t.Run("first occurrence is not a duplicate", func(t *testing.T) {
		t.Parallel()

		d := crawl.NewContentDeduper()
		hash, first, dup := d.Check("welcome to the docs", "https://example.com/a")
		require.False(t, dup)
		require.Empty(t, first)
		require.Len(t, hash, 16)
	})

	t.Run("same text under a second URL reports the first URL", func(t *testing.T) {
		t.Parallel()

		d := crawl.NewContentDeduper()
		firstHash, _, _ := d.Check("welcome to the docs", "https://example.com/a")
		hash, first, dup := d.Check("welcome to the docs", "https://example.com/b")
		require.True(t, dup)
		require.Equal(t, "https://example.com/a", first)
		require.Equal(t, firstHash, hash)
	})

	t.Run("different text is independent", func(t *testing.T) {
		t.Parallel()

		d := crawl.NewContentDeduper()
		d.Check("page one", "https://example.com/a")
		_, _, dup := d.Check("page two", "https://example.com/b")
		require.False(t, dup)
	})
}
