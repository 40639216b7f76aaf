package storage

import "sync"

// Store is the concurrency wrapper handed to servers. The LSM tree itself
// is single-threaded by contract; Store serializes every operation behind
// one mutex.
type Store struct {
	mu   sync.Mutex
	tree *LSM
}

// NewStore builds a Store over a fresh tree.
func NewStore(cfg Config) (*Store, error) {
	tree, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return &Store{tree: tree}, nil
}

// Get returns the value stored under key. Missing and deleted keys both
// yield ErrKeyNotFound.
func (s *Store) Get(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.tree.Get([]byte(key))
	if !ok {
		return nil, &ErrKeyNotFound{Key: key}
	}
	return value, nil
}

// Set stores value under key.
func (s *Store) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tree.Insert([]byte(key), value)
	return nil
}

// Delete removes key. Deleting an absent key still records a tombstone, so
// deletion is idempotent and never fails.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tree.Delete([]byte(key))
	return nil
}

// Stats snapshots the underlying tree.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.tree.Stats()
}
