package main

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/webkb/webkb/goquery"
	"github.com/webkb/webkb/trafilatura"
)

func TestNewTextExtractor(t *testing.T) {
	t.Parallel()

	t.Run("selects the goquery whole-text extractor by name", func(t *testing.T) {
		t.Parallel()

		require.IsType(t, &goquery.TextExtractor{}, newTextExtractor("goquery"))
	})

	t.Run("defaults to trafilatura", func(t *testing.T) {
		t.Parallel()

		require.IsType(t, &trafilatura.Extractor{}, newTextExtractor("trafilatura"))
		require.IsType(t, &trafilatura.Extractor{}, newTextExtractor(""))
	})
}
