package storage

import (
	"bytes"
	"fmt"
	"sort"
)

// Config tunes the LSM tree behavior.
type Config struct {
	// FlushThreshold is the number of memtable entries that triggers a
	// flush into level 0. Must be at least 1. Level i holds up to
	// FlushThreshold << i entries before its contents cascade deeper.
	FlushThreshold int
	// Memtable selects the write buffer implementation, one of
	// MemtableSkipList (the default) or MemtableRBTree.
	Memtable string
}

// DefaultConfig returns the defaults used by the serve command.
func DefaultConfig() Config {
	return Config{
		FlushThreshold: 1024,
		Memtable:       MemtableSkipList,
	}
}

// LSM is an in-memory log-structured merge tree. Writes land in the
// memtable; once it reaches the flush threshold its entries move into
// level 0 as one sorted run, merging with whatever run is already there
// and cascading deeper whenever a level outgrows its capacity.
//
// LSM is not safe for concurrent use. Wrap it in a Store, which holds a
// single lock around the whole tree.
type LSM struct {
	mem    Memtable
	newMem memtableConstructor

	// levels is ordered newest to oldest. A nil slot is empty: its
	// contents were taken by a cascade and nothing has been merged back.
	levels []*level

	config Config

	flushes  uint64
	cascades uint64
}

// level is one immutable tier of merged entries, strictly ascending by key.
type level struct {
	entries []Entry
}

// New builds an empty tree from cfg. Flush thresholds below one are
// rejected.
func New(cfg Config) (*LSM, error) {
	if cfg.FlushThreshold < 1 {
		return nil, fmt.Errorf("flush threshold must be positive, got %d", cfg.FlushThreshold)
	}
	constructor, err := memtableFor(cfg.Memtable)
	if err != nil {
		return nil, err
	}
	return &LSM{
		mem:    constructor(),
		newMem: constructor,
		config: cfg,
	}, nil
}

// Insert records key → value, overwriting any previous write for key. The
// tree keeps its own copies of both slices. Reaching the flush threshold
// synchronously flushes the memtable and can cascade merges through any
// number of levels before Insert returns.
func (t *LSM) Insert(key, value []byte) {
	t.put(Entry{Key: cloneBytes(key), Value: cloneBytes(value)})
}

// Delete records a tombstone for key. The tombstone shadows every older
// value of the key during lookups and merges; it is never physically
// removed.
func (t *LSM) Delete(key []byte) {
	t.put(Entry{Key: cloneBytes(key), Tombstone: true})
}

func (t *LSM) put(e Entry) {
	t.mem.Put(e)
	if t.mem.Len() >= t.config.FlushThreshold {
		t.flushMemtable()
	}
}

// Get returns a copy of the freshest value for key. The second return is
// false when the key was never written or its latest write is a tombstone.
func (t *LSM) Get(key []byte) ([]byte, bool) {
	if e, ok := t.mem.Get(key); ok {
		return liveValue(e)
	}

	// Levels are ordered newest to oldest, so the first hit is
	// authoritative and the scan stops there.
	for _, lvl := range t.levels {
		if lvl == nil {
			continue
		}
		if e, ok := lvl.get(key); ok {
			return liveValue(e)
		}
	}
	return nil, false
}

// liveValue collapses a found entry into the caller-facing result: a cloned
// value for a live entry, not-found for a tombstone. A tombstone hit is
// definitive, not a miss that should fall through to older levels.
func liveValue(e Entry) ([]byte, bool) {
	if e.Tombstone {
		return nil, false
	}
	return cloneBytes(e.Value), true
}

// flushMemtable detaches every buffered entry as one key-sorted run,
// replaces the memtable with an empty one, and merges the run into level 0.
func (t *LSM) flushMemtable() {
	entries := t.mem.Entries()
	t.mem = t.newMem()
	t.flushes++
	t.mergeIntoLevel(0, entries)
}

// mergeIntoLevel folds a sorted run into the level at idx. The slot's
// current contents are taken (leaving it empty) and merged with the run;
// if the merged run reaches the level's capacity it cascades one level
// deeper instead of landing here. A run that cascades past every existing
// level is appended as a new deepest level verbatim.
func (t *LSM) mergeIntoLevel(idx int, run []Entry) {
	if idx >= len(t.levels) {
		t.levels = append(t.levels, &level{entries: run})
		return
	}

	var existing []Entry
	if lvl := t.levels[idx]; lvl != nil {
		existing = lvl.entries
		t.levels[idx] = nil
	}

	merged := mergeSorted(existing, run)
	if len(merged) >= t.levelCapacity(idx) {
		t.cascades++
		t.mergeIntoLevel(idx+1, merged)
		return
	}
	t.levels[idx] = &level{entries: merged}
}

// levelCapacity doubles per level: level idx holds FlushThreshold << idx.
func (t *LSM) levelCapacity(idx int) int {
	return t.config.FlushThreshold << idx
}

// get binary-searches the level's run for key.
func (l *level) get(key []byte) (Entry, bool) {
	i := sort.Search(len(l.entries), func(i int) bool {
		return bytes.Compare(l.entries[i].Key, key) >= 0
	})
	if i < len(l.entries) && bytes.Equal(l.entries[i].Key, key) {
		return l.entries[i], true
	}
	return Entry{}, false
}

// Stats is a point-in-time snapshot of the tree's shape.
type Stats struct {
	MemtableEntries int          `json:"memtable_entries"`
	Levels          []LevelStats `json:"levels"`
	TotalEntries    int          `json:"total_entries"`
	Flushes         uint64       `json:"flushes"`
	Cascades        uint64       `json:"cascades"`
}

// LevelStats describes one level slot. An empty slot reports zero entries.
type LevelStats struct {
	Entries  int `json:"entries"`
	Capacity int `json:"capacity"`
}

// Stats reports the current shape of the tree. TotalEntries counts every
// entry held in levels, tombstones and shadowed duplicates included;
// memtable entries are reported separately.
func (t *LSM) Stats() Stats {
	s := Stats{
		MemtableEntries: t.mem.Len(),
		Flushes:         t.flushes,
		Cascades:        t.cascades,
	}
	for i, lvl := range t.levels {
		ls := LevelStats{Capacity: t.levelCapacity(i)}
		if lvl != nil {
			ls.Entries = len(lvl.entries)
		}
		s.Levels = append(s.Levels, ls)
		s.TotalEntries += ls.Entries
	}
	return s
}
