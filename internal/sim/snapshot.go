package sim

import "github.com/vovakirdan/trapcrawl/internal/core"

// SnapshotEntry is one frozen entity together with its handle.
type SnapshotEntry struct {
	ID     EntityID
	Entity Entity
}

// Snapshot is a read-only view of a registry frozen at one instant.
//
// Phases freeze a snapshot on entry, decide against it, mutate the live
// registry, and apply deferred effects after the scan. Later mutations of
// the registry never show up in an existing snapshot.
type Snapshot struct {
	entries []SnapshotEntry
	index   map[EntityID]int
}

// Len returns the number of frozen entities.
func (s Snapshot) Len() int {
	return len(s.entries)
}

// Entry returns the i-th entity in registry order.
func (s Snapshot) Entry(i int) SnapshotEntry {
	return s.entries[i]
}

// Entries returns a copy of all entries in registry order.
func (s Snapshot) Entries() []SnapshotEntry {
	out := make([]SnapshotEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Get returns the frozen entity behind id.
func (s Snapshot) Get(id EntityID) (Entity, bool) {
	i, ok := s.index[id]
	if !ok {
		return Entity{}, false
	}
	return s.entries[i].Entity, true
}

// IndexOf returns the registry-order index of id.
func (s Snapshot) IndexOf(id EntityID) (int, bool) {
	i, ok := s.index[id]
	return i, ok
}

// At returns the first creature frozen on p.
func (s Snapshot) At(p core.Point) (SnapshotEntry, bool) {
	return s.first(p, Creatures)
}

// TrapAt returns the first trap frozen on p.
func (s Snapshot) TrapAt(p core.Point) (SnapshotEntry, bool) {
	return s.first(p, Traps)
}

func (s Snapshot) first(p core.Point, filter Filter) (SnapshotEntry, bool) {
	for _, entry := range s.entries {
		if entry.Entity.Pos == p && filter(entry.Entity) {
			return entry, true
		}
	}
	return SnapshotEntry{}, false
}
