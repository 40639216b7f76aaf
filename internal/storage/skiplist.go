package storage

import "github.com/huandu/skiplist"

// skipListMemtable is the default write buffer, backed by a skip list keyed
// on raw bytes. Iteration order is key order, so Entries comes out sorted
// without an extra pass.
type skipListMemtable struct {
	list *skiplist.SkipList
}

func newSkipListMemtable() Memtable {
	return &skipListMemtable{list: skiplist.New(skiplist.Bytes)}
}

func (m *skipListMemtable) Put(e Entry) {
	m.list.Set(e.Key, e)
}

func (m *skipListMemtable) Get(key []byte) (Entry, bool) {
	elem := m.list.Get(key)
	if elem == nil {
		return Entry{}, false
	}
	return elem.Value.(Entry), true
}

func (m *skipListMemtable) Len() int {
	return m.list.Len()
}

func (m *skipListMemtable) Entries() []Entry {
	entries := make([]Entry, 0, m.list.Len())
	for elem := m.list.Front(); elem != nil; elem = elem.Next() {
		entries = append(entries, elem.Value.(Entry))
	}
	return entries
}
