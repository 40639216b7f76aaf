package storage

import "bytes"

// mergeSorted merges two key-ascending runs into one key-ascending run with
// no duplicate keys. On a key collision the entry from newer wins; this is
// what carries overwrites and tombstones forward through compaction.
// Runs in O(len(older) + len(newer)).
func mergeSorted(older, newer []Entry) []Entry {
	merged := make([]Entry, 0, len(older)+len(newer))
	i, j := 0, 0

	for i < len(older) && j < len(newer) {
		switch cmp := bytes.Compare(older[i].Key, newer[j].Key); {
		case cmp < 0:
			merged = append(merged, older[i])
			i++
		case cmp > 0:
			merged = append(merged, newer[j])
			j++
		default:
			// Same key in both runs: the newer run shadows the older.
			merged = append(merged, newer[j])
			i++
			j++
		}
	}

	// One run is exhausted; the rest of the other is already sorted and
	// collision-free.
	merged = append(merged, older[i:]...)
	merged = append(merged, newer[j:]...)
	return merged
}
