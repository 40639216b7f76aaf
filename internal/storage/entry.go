package storage

// Entry is a single key-value pair held by the memtable or by a level.
// A tombstone entry records a deletion that compaction has not yet carried
// past every older copy of the key.
type Entry struct {
	Key       []byte
	Value     []byte
	Tombstone bool
}

// cloneBytes copies b so tree-owned data is never aliased by callers.
func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}
