package sim

import (
	"errors"
	"testing"

	"github.com/vovakirdan/trapcrawl/internal/core"
)

func spawnAll(t *testing.T, r *Registry, entities ...Entity) []EntityID {
	t.Helper()
	ids := make([]EntityID, 0, len(entities))
	for _, e := range entities {
		id, err := r.Spawn(e)
		if err != nil {
			t.Fatalf("Spawn(%v) error = %v", e.Kind, err)
		}
		ids = append(ids, id)
	}
	return ids
}

func TestRegistrySpawnAndGet(t *testing.T) {
	r := NewRegistry()
	ids := spawnAll(t, r,
		NewPlayer(core.Pt(1, 1), 5),
		NewMonster(core.Pt(2, 2), 'g', 1),
		NewTrap(core.Pt(3, 3), Trap{Effect: TrapKill}),
	)

	if r.Len() != 3 {
		t.Errorf("Len() = %d, expected 3", r.Len())
	}
	if r.Player() != ids[0] {
		t.Errorf("Player() = %s, expected %s", r.Player(), ids[0])
	}
	e, ok := r.Get(ids[1])
	if !ok || !e.IsMonster() || e.Pos != core.Pt(2, 2) {
		t.Errorf("Get(monster) = %+v, %v", e, ok)
	}
	if r.Contains(NoEntity) {
		t.Error("NoEntity should never resolve")
	}
}

func TestRegistrySecondPlayer(t *testing.T) {
	r := NewRegistry()
	spawnAll(t, r, NewPlayer(core.Pt(1, 1), 5))

	_, err := r.Spawn(NewPlayer(core.Pt(2, 2), 5))
	if !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("second player error = %v, expected ErrInvalidOperation", err)
	}
}

func TestRegistryRemoveKeepsOrderAndPlayer(t *testing.T) {
	r := NewRegistry()
	ids := spawnAll(t, r,
		NewMonster(core.Pt(1, 1), 'g', 1),
		NewPlayer(core.Pt(2, 2), 5),
		NewMonster(core.Pt(3, 3), 'g', 1),
		NewMonster(core.Pt(4, 4), 'g', 1),
	)

	if err := r.Remove(ids[0]); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if err := r.Remove(ids[2]); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	got := r.IDs(All)
	expected := []EntityID{ids[1], ids[3]}
	if len(got) != len(expected) {
		t.Fatalf("IDs() = %v, expected %v", got, expected)
	}
	for i := range got {
		if got[i] != expected[i] {
			t.Errorf("IDs()[%d] = %s, expected %s", i, got[i], expected[i])
		}
	}

	player, ok := r.Get(r.Player())
	if !ok || !player.IsPlayer() || player.Pos != core.Pt(2, 2) {
		t.Errorf("player lookup after removals = %+v, %v", player, ok)
	}
}

func TestRegistryRemovePlayer(t *testing.T) {
	r := NewRegistry()
	ids := spawnAll(t, r, NewPlayer(core.Pt(1, 1), 5))

	err := r.Remove(ids[0])
	if !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("Remove(player) error = %v, expected ErrInvalidOperation", err)
	}
	if !r.Contains(ids[0]) {
		t.Error("player should still be present")
	}
}

func TestRegistryStaleHandle(t *testing.T) {
	r := NewRegistry()
	ids := spawnAll(t, r,
		NewPlayer(core.Pt(1, 1), 5),
		NewMonster(core.Pt(2, 2), 'g', 1),
	)
	old := ids[1]
	if err := r.Remove(old); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	reused := spawnAll(t, r, NewMonster(core.Pt(3, 3), 'o', 2))[0]
	if reused == old {
		t.Fatal("reused slot should carry a new generation")
	}
	if reused.slot() != old.slot() {
		t.Errorf("expected slot %d to be reused, got %d", old.slot(), reused.slot())
	}
	if r.Contains(old) {
		t.Error("stale handle still resolves")
	}
	if err := r.Remove(old); !errors.Is(err, ErrUnknownEntity) {
		t.Errorf("Remove(stale) error = %v, expected ErrUnknownEntity", err)
	}
	if err := r.Update(old, func(*Entity) error { return nil }); !errors.Is(err, ErrUnknownEntity) {
		t.Errorf("Update(stale) error = %v, expected ErrUnknownEntity", err)
	}
}

func TestRegistryUpdateRollsBack(t *testing.T) {
	r := NewRegistry()
	ids := spawnAll(t, r,
		NewPlayer(core.Pt(1, 1), 5),
		NewTrap(core.Pt(2, 2), Trap{Effect: TrapKill}),
	)

	err := r.Update(ids[1], func(e *Entity) error {
		e.Pos = core.Pt(5, 5)
		return e.LoseHP(1)
	})
	if !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("LoseHP on trap error = %v, expected ErrInvalidOperation", err)
	}
	trap, _ := r.Get(ids[1])
	if trap.Pos != core.Pt(2, 2) {
		t.Errorf("failed update leaked position %v", trap.Pos)
	}

	err = r.Update(ids[0], func(e *Entity) error {
		e.Kind = Monster{Vitals{HP: 1, MaxHP: 1}}
		return nil
	})
	if !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("changing player variant error = %v, expected ErrInvalidOperation", err)
	}
}

func TestRegistryPositionQueries(t *testing.T) {
	r := NewRegistry()
	ids := spawnAll(t, r,
		NewTrap(core.Pt(2, 2), Trap{Effect: TrapBump}),
		NewPlayer(core.Pt(2, 2), 5),
		NewTrap(core.Pt(2, 2), Trap{Effect: TrapKill}),
	)

	id, e, ok := r.At(core.Pt(2, 2))
	if !ok || id != ids[1] || !e.IsPlayer() {
		t.Errorf("At() = %s, %v, expected player", id, ok)
	}
	id, _, ok = r.TrapAt(core.Pt(2, 2))
	if !ok || id != ids[0] {
		t.Errorf("TrapAt() = %s, %v, expected first trap %s", id, ok, ids[0])
	}
	if _, _, ok := r.At(core.Pt(3, 3)); ok {
		t.Error("At(empty cell) should report false")
	}
}

func TestFreezeIsIsolated(t *testing.T) {
	r := NewRegistry()
	ids := spawnAll(t, r,
		NewPlayer(core.Pt(1, 1), 5),
		NewMonster(core.Pt(2, 2), 'g', 1),
	)

	snap := r.Freeze()
	_ = r.Update(ids[0], func(e *Entity) error {
		e.Pos = core.Pt(4, 4)
		return nil
	})
	_ = r.Remove(ids[1])

	if snap.Len() != 2 {
		t.Errorf("snapshot Len() = %d, expected 2", snap.Len())
	}
	e, ok := snap.Get(ids[0])
	if !ok || e.Pos != core.Pt(1, 1) {
		t.Errorf("snapshot player = %v, expected (1,1)", e.Pos)
	}
	if _, ok := snap.At(core.Pt(2, 2)); !ok {
		t.Error("snapshot lost the removed monster")
	}
	if i, ok := snap.IndexOf(ids[1]); !ok || i != 1 {
		t.Errorf("IndexOf(monster) = %d, %v, expected 1", i, ok)
	}
}
