package flat_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/webkb/webkb"
	"github.com/webkb/webkb/flat"
)

func chunk(id, text string, embedding []float32) *webkb.Chunk {
	return &webkb.Chunk{
		ID:        id,
		URL:       "https://example.com/" + id,
		Text:      text,
		Hierarchy: []string{"Docs"},
		Embedding: embedding,
	}
}

func TestStore_Create(t *testing.T) {
	t.Parallel()

	t.Run("rejects a non-positive dimension", func(t *testing.T) {
		t.Parallel()

		s := flat.NewStore()
		err := s.Create(0)
		require.Error(t, err)
		require.Equal(t, webkb.EINVALID, webkb.ErrorCode(err))
	})

	t.Run("resets existing contents", func(t *testing.T) {
		t.Parallel()

		s := flat.NewStore()
		require.NoError(t, s.Create(2))
		require.NoError(t, s.Add([]*webkb.Chunk{chunk("a", "alpha", []float32{1, 0})}))
		require.NoError(t, s.Create(2))
		require.Equal(t, 0, s.Len())
	})
}

func TestStore_Add(t *testing.T) {
	t.Parallel()

	t.Run("requires Create first", func(t *testing.T) {
		t.Parallel()

		s := flat.NewStore()
		err := s.Add([]*webkb.Chunk{chunk("a", "alpha", []float32{1, 0})})
		require.Error(t, err)
		require.Equal(t, webkb.EINVALID, webkb.ErrorCode(err))
	})

	t.Run("rejects a dimension mismatch before adding anything", func(t *testing.T) {
		t.Parallel()

		s := flat.NewStore()
		require.NoError(t, s.Create(2))
		err := s.Add([]*webkb.Chunk{
			chunk("a", "alpha", []float32{1, 0}),
			chunk("b", "beta", []float32{1, 0, 0}),
		})
		require.Error(t, err)
		require.Equal(t, webkb.EINVALID, webkb.ErrorCode(err))
		require.Equal(t, 0, s.Len())
	})

	t.Run("does not mutate the caller's chunk", func(t *testing.T) {
		t.Parallel()

		s := flat.NewStore()
		require.NoError(t, s.Create(2))
		c := chunk("a", "alpha", []float32{1, 0})
		require.NoError(t, s.Add([]*webkb.Chunk{c}))
		require.NotNil(t, c.Embedding)
	})
}

func TestStore_Search(t *testing.T) {
	t.Parallel()

	t.Run("fails before Create or Load", func(t *testing.T) {
		t.Parallel()

		s := flat.NewStore()
		_, err := s.Search([]float32{1, 0}, 3)
		require.Error(t, err)
		require.Equal(t, webkb.EINTERNAL, webkb.ErrorCode(err))
	})

	t.Run("rejects a query dimension mismatch", func(t *testing.T) {
		t.Parallel()

		s := flat.NewStore()
		require.NoError(t, s.Create(2))
		_, err := s.Search([]float32{1, 0, 0}, 3)
		require.Error(t, err)
		require.Equal(t, webkb.EINVALID, webkb.ErrorCode(err))
	})

	t.Run("ranks by cosine similarity descending", func(t *testing.T) {
		t.Parallel()

		s := flat.NewStore()
		require.NoError(t, s.Create(2))
		require.NoError(t, s.Add([]*webkb.Chunk{
			chunk("x", "x axis", []float32{1, 0}),
			chunk("y", "y axis", []float32{0, 1}),
			chunk("xy", "diagonal", []float32{0.7071, 0.7071}),
		}))

		matches, err := s.Search([]float32{1, 0}, 2)
		require.NoError(t, err)
		require.Len(t, matches, 2)
		require.Equal(t, "x", matches[0].Chunk.ID)
		require.Equal(t, "xy", matches[1].Chunk.ID)
		require.Greater(t, matches[0].Score, matches[1].Score)
	})

	t.Run("returns stored chunks without embeddings", func(t *testing.T) {
		t.Parallel()

		s := flat.NewStore()
		require.NoError(t, s.Create(2))
		require.NoError(t, s.Add([]*webkb.Chunk{chunk("a", "alpha", []float32{1, 0})}))

		matches, err := s.Search([]float32{1, 0}, 1)
		require.NoError(t, err)
		require.Len(t, matches, 1)
		require.Nil(t, matches[0].Chunk.Embedding)
		require.Equal(t, "alpha", matches[0].Chunk.Text)
	})

	t.Run("empty index returns no matches", func(t *testing.T) {
		t.Parallel()

		s := flat.NewStore()
		require.NoError(t, s.Create(2))
		matches, err := s.Search([]float32{1, 0}, 5)
		require.NoError(t, err)
		require.Empty(t, matches)
	})
}

func TestStore_SaveLoad(t *testing.T) {
	t.Parallel()

	t.Run("round-trips vectors, metadata and key positions", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		s := flat.NewStore()
		require.NoError(t, s.Create(2))
		require.NoError(t, s.Add([]*webkb.Chunk{
			chunk("a", "alpha", []float32{1, 0}),
			chunk("b", "beta", []float32{0, 1}),
		}))
		require.NoError(t, s.Save(dir))

		loaded := flat.NewStore()
		require.NoError(t, loaded.Load(dir))
		require.Equal(t, 2, loaded.Len())

		want, err := s.Search([]float32{0.6, 0.8}, 2)
		require.NoError(t, err)
		got, err := loaded.Search([]float32{0.6, 0.8}, 2)
		require.NoError(t, err)
		require.Equal(t, want, got)

		pos, ok := loaded.Position("b")
		require.True(t, ok)
		require.Equal(t, 1, pos)
	})

	t.Run("save replaces an existing pair and leaves no temp files", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		s := flat.NewStore()
		require.NoError(t, s.Create(2))
		require.NoError(t, s.Add([]*webkb.Chunk{chunk("a", "alpha", []float32{1, 0})}))
		require.NoError(t, s.Save(dir))

		require.NoError(t, s.Create(2))
		require.NoError(t, s.Add([]*webkb.Chunk{
			chunk("b", "beta", []float32{0, 1}),
			chunk("c", "gamma", []float32{1, 0}),
		}))
		require.NoError(t, s.Save(dir))

		loaded := flat.NewStore()
		require.NoError(t, loaded.Load(dir))
		require.Equal(t, 2, loaded.Len())
		_, ok := loaded.Position("a")
		require.False(t, ok)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		require.ElementsMatch(t, []string{"index.gob", "metadata.json"}, names)
	})

	t.Run("load fails with ENOTFOUND when the index file is missing", func(t *testing.T) {
		t.Parallel()

		s := flat.NewStore()
		err := s.Load(t.TempDir())
		require.Error(t, err)
		require.Equal(t, webkb.ENOTFOUND, webkb.ErrorCode(err))
	})

	t.Run("load fails when the metadata companion is missing", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		s := flat.NewStore()
		require.NoError(t, s.Create(2))
		require.NoError(t, s.Add([]*webkb.Chunk{chunk("a", "alpha", []float32{1, 0})}))
		require.NoError(t, s.Save(dir))
		require.NoError(t, os.Remove(filepath.Join(dir, "metadata.json")))

		loaded := flat.NewStore()
		err := loaded.Load(dir)
		require.Error(t, err)
		require.Equal(t, webkb.ENOTFOUND, webkb.ErrorCode(err))
	})

	t.Run("save requires Create first", func(t *testing.T) {
		t.Parallel()

		s := flat.NewStore()
		err := s.Save(t.TempDir())
		require.Error(t, err)
		require.Equal(t, webkb.EINVALID, webkb.ErrorCode(err))
	})
}
