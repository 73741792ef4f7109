// Package table implements the open-addressing, linear-probing hash
// table used throughout loxgo for globals, interned strings, instance
// fields and class methods (spec §4.4).
//
// The table is generic over its stored value type and keyed by any type
// implementing Key, so this package has no dependency on internal/value
// (which in turn holds several of these tables) — that keeps the two
// packages from forming an import cycle while still sharing exactly one
// hash-table implementation, per original_source's table.c.
package table

// Key is anything that can be stored as a table key: a hash for bucket
// placement and an identity comparison for probing. internal/value's
// interned strings are the only Key implementation in this codebase,
// matching spec §4.4 ("Keys are String object pointers compared by
// identity, safe because of interning").
type Key interface {
	Hash() uint32
	SameKey(other Key) bool
}

const maxLoad = 0.75
const minCapacity = 8

type entry[V any] struct {
	key       Key
	value     V
	tombstone bool
}

// Table is an open-addressing hash table mapping Key to V.
type Table[V any] struct {
	entries  []entry[V]
	count    int // live entries + tombstones
	occupied int // live entries only
}

// New returns an empty Table.
func New[V any]() *Table[V] {
	return &Table[V]{}
}

// Count reports the number of live (non-tombstone) entries.
func (t *Table[V]) Count() int {
	return t.occupied
}

// Get looks up key, returning its value and whether it was present.
func (t *Table[V]) Get(key Key) (V, bool) {
	var zero V
	if t.occupied == 0 {
		return zero, false
	}
	i := t.findEntry(t.entries, key)
	if t.entries[i].key == nil {
		return zero, false
	}
	return t.entries[i].value, true
}

// Set inserts or updates key's value, returning true if key is new.
func (t *Table[V]) Set(key Key, value V) bool {
	if t.count+1 > int(float64(len(t.entries))*maxLoad) {
		t.grow(growCapacity(len(t.entries)))
	}

	i := t.findEntry(t.entries, key)
	isNewKey := t.entries[i].key == nil
	if isNewKey && !t.entries[i].tombstone {
		t.count++
	}
	if isNewKey {
		t.occupied++
	}
	t.entries[i] = entry[V]{key: key, value: value}
	return isNewKey
}

// Delete removes key, leaving a tombstone behind so that later probes
// looking for a different key with the same bucket still find it.
func (t *Table[V]) Delete(key Key) bool {
	if t.occupied == 0 {
		return false
	}
	i := t.findEntry(t.entries, key)
	if t.entries[i].key == nil {
		return false
	}
	var zero V
	t.entries[i] = entry[V]{tombstone: true, value: zero}
	t.occupied--
	return true
}

// AddAll copies every live entry of from into t, overwriting duplicates.
func (t *Table[V]) AddAll(from *Table[V]) {
	for _, e := range from.entries {
		if e.key != nil {
			t.Set(e.key, e.value)
		}
	}
}

// FindMatch scans the table for a live key for which match returns true,
// probing in hash order starting at hash. This is the generic form of
// the interner's tableFindString: it lets internal/value look for an
// equal-by-content string without first allocating a Key to compare by
// identity.
func (t *Table[V]) FindMatch(hash uint32, match func(Key) bool) (Key, bool) {
	if t.occupied == 0 || len(t.entries) == 0 {
		return nil, false
	}
	index := hash % uint32(len(t.entries))
	for {
		e := &t.entries[index]
		if e.key == nil {
			if !e.tombstone {
				return nil, false
			}
		} else if match(e.key) {
			return e.key, true
		}
		index = (index + 1) % uint32(len(t.entries))
	}
}

// RemoveUnmarked deletes every live entry whose key fails keep. Used by
// the GC to weakly clean the string interner: entries whose string is
// otherwise unreachable must not keep it alive (spec §4.3 phase 3).
func (t *Table[V]) RemoveUnmarked(keep func(Key) bool) {
	for _, e := range t.entries {
		if e.key != nil && !keep(e.key) {
			t.Delete(e.key)
		}
	}
}

// Each calls fn for every live entry, in table order. Used by the GC to
// mark roots reachable through a table (globals, fields, methods).
func (t *Table[V]) Each(fn func(Key, V)) {
	for _, e := range t.entries {
		if e.key != nil {
			fn(e.key, e.value)
		}
	}
}

// findEntry implements the linear-probing search with tombstone reuse
// described in original_source's table.c: an empty (never-used) slot
// ends the search; a tombstone is remembered and returned only if no
// exact match turns up first.
func (t *Table[V]) findEntry(entries []entry[V], key Key) int {
	index := key.Hash() % uint32(len(entries))
	tombstone := -1
	for {
		e := &entries[index]
		if e.key == nil {
			if !e.tombstone {
				if tombstone != -1 {
					return tombstone
				}
				return int(index)
			}
			if tombstone == -1 {
				tombstone = int(index)
			}
		} else if e.key.SameKey(key) {
			return int(index)
		}
		index = (index + 1) % uint32(len(entries))
	}
}

func (t *Table[V]) grow(capacity int) {
	newEntries := make([]entry[V], capacity)
	t.count = 0
	for _, e := range t.entries {
		if e.key == nil {
			continue
		}
		dest := t.findEntry(newEntries, e.key)
		newEntries[dest] = entry[V]{key: e.key, value: e.value}
		t.count++
	}
	t.entries = newEntries
}

func growCapacity(capacity int) int {
	if capacity < minCapacity {
		return minCapacity
	}
	return capacity * 2
}
