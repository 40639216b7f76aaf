// Package storage implements an in-memory log-structured merge (LSM) tree
// key-value engine.
//
// Writes land in a sorted memtable. When the memtable reaches its flush
// threshold, its entries move into level 0 as one sorted run, merging with
// the run already there. Whenever a merged run reaches a level's capacity
// (threshold << level), it cascades one level deeper, so a single write can
// reorganize several levels before returning.
//
//	Write path:  caller → memtable → (flush) → level 0 → level 1 → …
//	Read path:   caller → memtable → level 0 → level 1 → … (first hit wins)
//
// Levels emulate the on-disk tiers of a persistent LSM store but live on the
// heap; there is no write-ahead log and no durability across restarts.
// Deletions write tombstone entries that shadow older values of the key in
// every lookup and merge; tombstones are never physically removed.
//
// The LSM type is not safe for concurrent use: every operation runs to
// completion on the caller's goroutine and the tree holds no locks. Store
// wraps one tree behind a single mutex and is the type servers consume.
package storage
