package mock

import "github.com/webkb/webkb"

var _ webkb.VectorStore = (*VectorStore)(nil)

// VectorStore is a mock implementation of webkb.VectorStore.
type VectorStore struct {
	CreateFn func(dim int) error
	AddFn    func(chunks []*webkb.Chunk) error
	SearchFn func(vector []float32, k int) ([]webkb.Match, error)
	SaveFn   func(dir string) error
	LoadFn   func(dir string) error
	LenFn    func() int
}

func (s *VectorStore) Create(dim int) error {
	return s.CreateFn(dim)
}

func (s *VectorStore) Add(chunks []*webkb.Chunk) error {
	return s.AddFn(chunks)
}

func (s *VectorStore) Search(vector []float32, k int) ([]webkb.Match, error) {
	return s.SearchFn(vector, k)
}

func (s *VectorStore) Save(dir string) error {
	return s.SaveFn(dir)
}

func (s *VectorStore) Load(dir string) error {
	return s.LoadFn(dir)
}

func (s *VectorStore) Len() int {
	return s.LenFn()
}
