package storage

import (
	"bytes"

	"github.com/emirpasic/gods/trees/redblacktree"
)

// rbTreeMemtable keeps the write buffer in a red-black tree. Same contract
// as the skip list; selected with the "rbtree" memtable config value.
type rbTreeMemtable struct {
	tree *redblacktree.Tree
}

func newRBTreeMemtable() Memtable {
	return &rbTreeMemtable{tree: redblacktree.NewWith(compareByteKeys)}
}

func compareByteKeys(a, b interface{}) int {
	return bytes.Compare(a.([]byte), b.([]byte))
}

func (m *rbTreeMemtable) Put(e Entry) {
	m.tree.Put(e.Key, e)
}

func (m *rbTreeMemtable) Get(key []byte) (Entry, bool) {
	value, found := m.tree.Get(key)
	if !found {
		return Entry{}, false
	}
	return value.(Entry), true
}

func (m *rbTreeMemtable) Len() int {
	return m.tree.Size()
}

func (m *rbTreeMemtable) Entries() []Entry {
	entries := make([]Entry, 0, m.tree.Size())
	it := m.tree.Iterator()
	for it.Next() {
		entries = append(entries, it.Value().(Entry))
	}
	return entries
}
