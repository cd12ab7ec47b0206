package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/webkb/webkb"
	"github.com/webkb/webkb/fs"
)

func TestResultsWriter_Write(t *testing.T) {
	t.Parallel()

	t.Run("round-trips records through a JSONL file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "results.jsonl")
		w, err := fs.NewResultsWriter(path)
		require.NoError(t, err)

		records := []*webkb.PageRecord{
			{URL: "https://example.com/a", HTML: "<html>a</html>", Length: 14},
			{URL: "https://example.com/b", HTML: "<html>b</html>", Length: 14},
		}
		for _, r := range records {
			require.NoError(t, w.Write(r))
		}
		require.NoError(t, w.Close())

		got, skipped, err := fs.ReadResults(path)
		require.NoError(t, err)
		require.Zero(t, skipped)
		require.Equal(t, records, got)
	})

	t.Run("rejects an invalid record", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "results.jsonl")
		w, err := fs.NewResultsWriter(path)
		require.NoError(t, err)
		defer w.Close()

		err = w.Write(&webkb.PageRecord{HTML: "<html></html>"})
		require.Error(t, err)
		require.Equal(t, webkb.EINVALID, webkb.ErrorCode(err))
	})

	t.Run("opening an existing file truncates it", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "results.jsonl")
		w, err := fs.NewResultsWriter(path)
		require.NoError(t, err)
		require.NoError(t, w.Write(&webkb.PageRecord{URL: "https://example.com/old", HTML: "x", Length: 1}))
		require.NoError(t, w.Close())

		w, err = fs.NewResultsWriter(path)
		require.NoError(t, err)
		require.NoError(t, w.Write(&webkb.PageRecord{URL: "https://example.com/new", HTML: "y", Length: 1}))
		require.NoError(t, w.Close())

		got, _, err := fs.ReadResults(path)
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.Equal(t, "https://example.com/new", got[0].URL)
	})
}

func TestReadResults(t *testing.T) {
	t.Parallel()

	t.Run("skips and counts malformed lines", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "results.jsonl")
		content := `{"url":"https://example.com/a","html":"<html>a</html>","length":14}
not json at all
{"url":"https://example.com/b","html":"<html>b</html>","length":14}
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		records, skipped, err := fs.ReadResults(path)
		require.NoError(t, err)
		require.Equal(t, 1, skipped)
		require.Len(t, records, 2)
	})

	t.Run("missing file returns ENOTFOUND", func(t *testing.T) {
		t.Parallel()

		_, _, err := fs.ReadResults(filepath.Join(t.TempDir(), "missing.jsonl"))
		require.Error(t, err)
		require.Equal(t, webkb.ENOTFOUND, webkb.ErrorCode(err))
	})

	t.Run("ignores blank lines", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "results.jsonl")
		content := "\n{\"url\":\"https://example.com/a\",\"html\":\"x\",\"length\":1}\n\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		records, skipped, err := fs.ReadResults(path)
		require.NoError(t, err)
		require.Zero(t, skipped)
		require.Len(t, records, 1)
	})
}
