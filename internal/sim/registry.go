package sim

import (
	"fmt"
	"strconv"

	"github.com/vovakirdan/trapcrawl/internal/core"
)

// EntityID is a generation-checked handle: the low 32 bits select a slot,
// the high 32 bits hold the slot generation at spawn time. A handle stops
// resolving once its entity is removed, even if the slot is reused.
type EntityID uint64

// NoEntity is the zero handle; it never resolves.
const NoEntity EntityID = 0

const slotBits = 32

func makeEntityID(slot, gen uint32) EntityID {
	return EntityID(uint64(gen)<<slotBits | uint64(slot))
}

func (id EntityID) slot() uint32 {
	return uint32(id)
}

func (id EntityID) generation() uint32 {
	return uint32(uint64(id) >> slotBits)
}

// Valid reports whether the handle was ever issued.
func (id EntityID) Valid() bool {
	return id != NoEntity
}

// String returns "slot:generation".
func (id EntityID) String() string {
	return strconv.FormatUint(uint64(id.slot()), 10) + ":" + strconv.FormatUint(uint64(id.generation()), 10)
}

// Filter selects entities during iteration.
type Filter func(Entity) bool

// Common filters.
var (
	All       Filter = func(Entity) bool { return true }
	Creatures Filter = Entity.IsCreature
	Monsters  Filter = Entity.IsMonster
	Traps     Filter = Entity.IsTrap
)

type slot struct {
	gen    uint32
	alive  bool
	entity Entity
}

// Registry owns every entity of a world. Iteration follows spawn order, and
// removing an entity keeps the relative order of the rest. The player's
// handle is stored explicitly and can never be removed.
type Registry struct {
	slots  []slot
	free   []uint32
	order  []EntityID
	player EntityID
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Spawn adds an entity and returns its handle.
// Spawning a second player is an ErrInvalidOperation.
func (r *Registry) Spawn(e Entity) (EntityID, error) {
	if e.Kind == nil {
		return NoEntity, fmt.Errorf("%w: spawn of untyped entity", ErrInvalidOperation)
	}
	if e.IsPlayer() && r.player.Valid() {
		return NoEntity, fmt.Errorf("%w: registry already has a player", ErrInvalidOperation)
	}

	var idx uint32
	if n := len(r.free); n > 0 {
		idx = r.free[n-1]
		r.free = r.free[:n-1]
	} else {
		r.slots = append(r.slots, slot{gen: 1})
		idx = uint32(len(r.slots) - 1)
	}

	s := &r.slots[idx]
	s.alive = true
	s.entity = e

	id := makeEntityID(idx, s.gen)
	r.order = append(r.order, id)
	if e.IsPlayer() {
		r.player = id
	}
	return id, nil
}

// lookup resolves a handle to its live slot.
func (r *Registry) lookup(id EntityID) (*slot, bool) {
	idx := id.slot()
	if !id.Valid() || int(idx) >= len(r.slots) {
		return nil, false
	}
	s := &r.slots[idx]
	if !s.alive || s.gen != id.generation() {
		return nil, false
	}
	return s, true
}

// Get returns a copy of the entity behind id.
func (r *Registry) Get(id EntityID) (Entity, bool) {
	s, ok := r.lookup(id)
	if !ok {
		return Entity{}, false
	}
	return s.entity, true
}

// Contains reports whether id resolves to a live entity.
func (r *Registry) Contains(id EntityID) bool {
	_, ok := r.lookup(id)
	return ok
}

// Player returns the player's handle.
func (r *Registry) Player() EntityID {
	return r.player
}

// Len returns the number of live entities.
func (r *Registry) Len() int {
	return len(r.order)
}

// Update applies fn to a copy of the entity and commits the copy only if fn
// succeeds.
func (r *Registry) Update(id EntityID, fn func(*Entity) error) error {
	s, ok := r.lookup(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEntity, id)
	}
	e := s.entity
	if err := fn(&e); err != nil {
		return err
	}
	if e.IsPlayer() != s.entity.IsPlayer() {
		return fmt.Errorf("%w: entity %s cannot change player variant", ErrInvalidOperation, id)
	}
	s.entity = e
	return nil
}

// Remove deletes an entity. The slot generation is bumped so every
// outstanding copy of id goes stale. The player cannot be removed.
func (r *Registry) Remove(id EntityID) error {
	s, ok := r.lookup(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEntity, id)
	}
	if id == r.player {
		return fmt.Errorf("%w: the player is never removed", ErrInvalidOperation)
	}

	s.alive = false
	s.entity = Entity{}
	s.gen++
	r.free = append(r.free, id.slot())

	for i, other := range r.order {
		if other == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// At returns the first creature standing on p.
func (r *Registry) At(p core.Point) (EntityID, Entity, bool) {
	return r.first(p, Creatures)
}

// TrapAt returns the first trap on p.
func (r *Registry) TrapAt(p core.Point) (EntityID, Entity, bool) {
	return r.first(p, Traps)
}

func (r *Registry) first(p core.Point, filter Filter) (EntityID, Entity, bool) {
	for _, id := range r.order {
		e := r.slots[id.slot()].entity
		if e.Pos == p && filter(e) {
			return id, e, true
		}
	}
	return NoEntity, Entity{}, false
}

// IDs returns the handles of all entities matching filter, in registry order.
// The returned slice is owned by the caller.
func (r *Registry) IDs(filter Filter) []EntityID {
	var ids []EntityID
	for _, id := range r.order {
		if filter(r.slots[id.slot()].entity) {
			ids = append(ids, id)
		}
	}
	return ids
}

// Each calls fn for every entity matching filter, in registry order.
// fn must not mutate the registry; take a Freeze() snapshot for that.
func (r *Registry) Each(filter Filter, fn func(EntityID, Entity)) {
	for _, id := range r.order {
		e := r.slots[id.slot()].entity
		if filter(e) {
			fn(id, e)
		}
	}
}

// Freeze captures an immutable view of the registry as it is now.
func (r *Registry) Freeze() Snapshot {
	snap := Snapshot{
		entries: make([]SnapshotEntry, 0, len(r.order)),
		index:   make(map[EntityID]int, len(r.order)),
	}
	for _, id := range r.order {
		snap.index[id] = len(snap.entries)
		snap.entries = append(snap.entries, SnapshotEntry{ID: id, Entity: r.slots[id.slot()].entity})
	}
	return snap
}
