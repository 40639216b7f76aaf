package storage

import "fmt"

// Memtable is the mutable, ordered write buffer in front of the levels.
// Implementations keep entries unique by key and iterable in ascending
// byte order. A put with Tombstone set records a deletion like any other
// write. Memtables are not safe for concurrent use; the tree that owns
// them is single-threaded and Store adds the locking.
type Memtable interface {
	// Put upserts an entry by key, overwriting any previous entry.
	Put(e Entry)
	// Get returns the entry buffered for key, if there is one.
	Get(key []byte) (Entry, bool)
	// Len reports the number of buffered entries.
	Len() int
	// Entries returns every buffered entry in ascending key order.
	Entries() []Entry
}

// Supported memtable implementations.
const (
	MemtableSkipList = "skiplist"
	MemtableRBTree   = "rbtree"
)

// memtableConstructor builds an empty memtable. The tree calls it once at
// construction and once per flush to replace the detached buffer.
type memtableConstructor func() Memtable

func memtableFor(kind string) (memtableConstructor, error) {
	switch kind {
	case "", MemtableSkipList:
		return newSkipListMemtable, nil
	case MemtableRBTree:
		return newRBTreeMemtable, nil
	default:
		return nil, fmt.Errorf("unknown memtable implementation %q", kind)
	}
}
