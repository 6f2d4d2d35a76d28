package gtfs

import "sync/atomic"

// Store holds the current Index. Readers take one Index per request and keep
// using it even if a refresh swaps in a newer one meanwhile.
type Store struct {
	current atomic.Pointer[Index]
}

// Index returns the current index, or nil before the first Swap.
func (s *Store) Index() *Index {
	return s.current.Load()
}

// Swap installs ix and returns the previous index.
func (s *Store) Swap(ix *Index) *Index {
	return s.current.Swap(ix)
}
