package storage

// ErrKeyNotFound is returned by Store.Get when the key was never written or
// its latest write is a tombstone.
type ErrKeyNotFound struct {
	Key string
}

func (e *ErrKeyNotFound) Error() string {
	return "key not found: " + e.Key
}
