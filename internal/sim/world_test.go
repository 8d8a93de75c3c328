package sim

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/vovakirdan/trapcrawl/internal/core"
)

// fakeRandom replays a fixed list of Bump offsets.
type fakeRandom struct {
	offsets [][2]int
	calls   int
}

func (f *fakeRandom) BumpOffset() (int, int) {
	if len(f.offsets) == 0 {
		return 0, 0
	}
	o := f.offsets[f.calls%len(f.offsets)]
	f.calls++
	return o[0], o[1]
}

func newTestWorld(t *testing.T, rng Random, roster ...Entity) *World {
	t.Helper()
	if rng == nil {
		rng = NewRandom(1)
	}
	w, err := NewWorld(10, 10, roster, rng)
	if err != nil {
		t.Fatalf("NewWorld() error = %v", err)
	}
	return w
}

func step(t *testing.T, w *World, actions ...core.Action) TickResult {
	t.Helper()
	res, err := w.Step(core.NewInputFrame(actions...))
	if err != nil {
		t.Fatalf("Step(%v) error = %v", actions, err)
	}
	return res
}

func entityAt(t *testing.T, w *World, id EntityID) Entity {
	t.Helper()
	e, ok := w.reg.Get(id)
	if !ok {
		t.Fatalf("entity %s not found", id)
	}
	return e
}

func hpOf(t *testing.T, w *World, id EntityID) int {
	t.Helper()
	v, err := entityAt(t, w, id).Vitals()
	if err != nil {
		t.Fatalf("Vitals() error = %v", err)
	}
	return v.HP
}

func TestNewWorldValidation(t *testing.T) {
	player := NewPlayer(core.Pt(1, 1), 5)
	tests := []struct {
		name   string
		w, h   int
		roster []Entity
		rng    Random
	}{
		{"too small", 2, 5, []Entity{player}, NewRandom(1)},
		{"too wide", MaxMapSize + 1, 5, []Entity{player}, NewRandom(1)},
		{"overflowing height", 3, 1 << 62, []Entity{player}, NewRandom(1)},
		{"no player", 5, 5, []Entity{NewMonster(core.Pt(1, 1), 'g', 1)}, NewRandom(1)},
		{"two players", 5, 5, []Entity{player, player}, NewRandom(1)},
		{"nil random", 5, 5, []Entity{player}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewWorld(tt.w, tt.h, tt.roster, tt.rng)
			if !errors.Is(err, ErrInvalidOperation) {
				t.Errorf("NewWorld() error = %v, expected ErrInvalidOperation", err)
			}
		})
	}
}

func TestNoInputNoTurn(t *testing.T) {
	w := newTestWorld(t, nil,
		NewPlayer(core.Pt(2, 2), 5),
		NewMonster(core.Pt(6, 6), 'g', 1),
	)
	monster := w.reg.IDs(Monsters)[0]

	res := step(t, w)
	if res.TurnTaken {
		t.Error("empty input should not take a turn")
	}
	if w.Turn() != 0 {
		t.Errorf("Turn() = %d, expected 0", w.Turn())
	}
	if got := entityAt(t, w, monster).Pos; got != core.Pt(6, 6) {
		t.Errorf("monster moved to %v without a turn", got)
	}
}

func TestPlayerMovement(t *testing.T) {
	tests := []struct {
		name     string
		start    core.Point
		actions  []core.Action
		expected core.Point
		taken    bool
	}{
		{"right", core.Pt(2, 2), []core.Action{core.ActionRight}, core.Pt(3, 2), true},
		{"up", core.Pt(2, 2), []core.Action{core.ActionUp}, core.Pt(2, 1), true},
		{"diagonal", core.Pt(2, 2), []core.Action{core.ActionUp, core.ActionRight}, core.Pt(3, 1), true},
		{"into wall", core.Pt(1, 2), []core.Action{core.ActionLeft}, core.Pt(1, 2), false},
		{"diagonal into corner", core.Pt(1, 1), []core.Action{core.ActionUp, core.ActionLeft}, core.Pt(1, 1), false},
		{"diagonal along wall", core.Pt(1, 2), []core.Action{core.ActionLeft, core.ActionDown}, core.Pt(1, 2), false},
		{"opposite keys cancel", core.Pt(4, 4), []core.Action{core.ActionLeft, core.ActionRight}, core.Pt(4, 4), true},
		{"clamped at grid edge", core.Pt(9, 4), []core.Action{core.ActionRight}, core.Pt(9, 4), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWorld(t, nil, NewPlayer(tt.start, 5))
			res := step(t, w, tt.actions...)
			if res.TurnTaken != tt.taken {
				t.Errorf("TurnTaken = %v, expected %v", res.TurnTaken, tt.taken)
			}
			if got := w.Player().Pos; got != tt.expected {
				t.Errorf("player at %v, expected %v", got, tt.expected)
			}
			if got := w.Player().Pos; got.X < 0 || got.X > 9 || got.Y < 0 || got.Y > 9 {
				t.Errorf("player left the grid: %v", got)
			}
		})
	}
}

func TestPlayerBlockedByMonster(t *testing.T) {
	w := newTestWorld(t, nil,
		NewPlayer(core.Pt(2, 2), 5),
		NewMonster(core.Pt(3, 2), 'g', 3),
	)
	res := step(t, w, core.ActionRight)
	if res.TurnTaken {
		t.Error("moving into a monster should not take a turn")
	}
	if got := w.Player().Pos; got != core.Pt(2, 2) {
		t.Errorf("player at %v, expected (2,2)", got)
	}
}

func TestMonsterAttacksAdjacentPlayer(t *testing.T) {
	w := newTestWorld(t, nil,
		NewPlayer(core.Pt(4, 3), 5),
		NewMonster(core.Pt(6, 3), 'g', 1),
	)
	monster := w.reg.IDs(Monsters)[0]

	res := step(t, w, core.ActionRight)
	if !res.TurnTaken {
		t.Fatal("expected a turn")
	}
	if got := w.Player().Pos; got != core.Pt(5, 3) {
		t.Fatalf("player at %v, expected (5,3)", got)
	}
	if len(res.Attacks) != 1 || res.Attacks[0].Attacker != monster || res.Attacks[0].Target != w.PlayerID() {
		t.Errorf("Attacks = %+v, expected one attack by %s", res.Attacks, monster)
	}
	if got := w.PlayerVitals().HP; got != 4 {
		t.Errorf("player HP = %d, expected 4", got)
	}
	if got := entityAt(t, w, monster).Pos; got != core.Pt(6, 3) {
		t.Errorf("monster at %v, expected to stay at (6,3)", got)
	}
}

func TestMonsterChasesDiagonally(t *testing.T) {
	w := newTestWorld(t, nil,
		NewPlayer(core.Pt(2, 2), 5),
		NewMonster(core.Pt(7, 6), 'g', 1),
	)
	monster := w.reg.IDs(Monsters)[0]

	step(t, w, core.ActionDown)
	if got := entityAt(t, w, monster).Pos; got != core.Pt(6, 5) {
		t.Errorf("monster at %v, expected (6,5)", got)
	}
}

func TestContestedCell(t *testing.T) {
	w := newTestWorld(t, nil,
		NewPlayer(core.Pt(7, 4), 5),
		NewMonster(core.Pt(4, 3), 'a', 1),
		NewMonster(core.Pt(4, 5), 'b', 1),
	)
	ids := w.reg.IDs(Monsters)

	step(t, w, core.ActionLeft)

	if got := entityAt(t, w, ids[0]).Pos; got != core.Pt(5, 4) {
		t.Errorf("first monster at %v, expected (5,4)", got)
	}
	if got := entityAt(t, w, ids[1]).Pos; got != core.Pt(4, 5) {
		t.Errorf("second monster at %v, expected to revert to (4,5)", got)
	}
}

func TestMonsterBlockedBySnapshotMonster(t *testing.T) {
	// The front monster moves away, but the one behind sees the cell as
	// occupied in the phase snapshot and stays put.
	w := newTestWorld(t, nil,
		NewPlayer(core.Pt(7, 2), 5),
		NewMonster(core.Pt(3, 2), 'a', 1),
		NewMonster(core.Pt(2, 2), 'b', 1),
	)
	ids := w.reg.IDs(Monsters)

	step(t, w, core.ActionLeft)

	if got := entityAt(t, w, ids[0]).Pos; got != core.Pt(4, 2) {
		t.Errorf("front monster at %v, expected (4,2)", got)
	}
	if got := entityAt(t, w, ids[1]).Pos; got != core.Pt(2, 2) {
		t.Errorf("rear monster at %v, expected (2,2)", got)
	}
}

func TestDecideStepNeverEntersWall(t *testing.T) {
	w := newTestWorld(t, nil,
		NewPlayer(core.Pt(5, 5), 5),
		NewMonster(core.Pt(1, 1), 'g', 1),
	)
	snap := w.reg.Freeze()
	monster, _ := snap.At(core.Pt(1, 1))

	dest, result := w.decideStep(snap, monster, core.Pt(-4, -4))
	if result != MoveBlocked || dest != core.Pt(1, 1) {
		t.Errorf("decideStep toward wall = %v, %v; expected blocked at (1,1)", dest, result)
	}
}

func TestMonsterStepProperties(t *testing.T) {
	directions := []core.Action{core.ActionUp, core.ActionDown, core.ActionLeft, core.ActionRight}

	for seed := int64(1); seed <= 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		roster := []Entity{NewPlayer(core.Pt(5, 5), 100)}
		for i := 0; i < 4; i++ {
			p := core.Pt(1+rng.Intn(8), 1+rng.Intn(8))
			if p == core.Pt(5, 5) {
				continue
			}
			roster = append(roster, NewMonster(p, 'g', 3))
		}
		w, err := NewWorld(10, 10, dedupe(roster), NewRandom(seed))
		if err != nil {
			t.Fatalf("NewWorld() error = %v", err)
		}

		for tick := 0; tick < 30 && w.State() == StatePlaying; tick++ {
			before := w.Entities()
			res := step(t, w, directions[rng.Intn(len(directions))])
			if !res.TurnTaken {
				continue
			}
			after := w.Entities()
			player, _ := after.Get(w.PlayerID())

			for _, entry := range after.Entries() {
				if !entry.Entity.IsMonster() {
					continue
				}
				prev, ok := before.Get(entry.ID)
				if !ok {
					continue
				}
				from, to := prev.Pos, entry.Entity.Pos
				if core.Abs(to.X-from.X) > 1 || core.Abs(to.Y-from.Y) > 1 {
					t.Fatalf("seed %d: monster jumped %v -> %v", seed, from, to)
				}
				if w.Map().IsBlocked(to) {
					t.Fatalf("seed %d: monster entered wall %v", seed, to)
				}
				prevPlayer, _ := before.Get(w.PlayerID())
				d0 := from.Chebyshev(prevPlayer.Pos)
				d1 := to.Chebyshev(player.Pos)
				if core.Abs(d1-d0) > 2 {
					t.Fatalf("seed %d: distance changed %d -> %d", seed, d0, d1)
				}
			}
			assertOneCreaturePerCell(t, w)
		}
	}
}

func dedupe(roster []Entity) []Entity {
	seen := make(map[core.Point]bool)
	out := roster[:0]
	for _, e := range roster {
		if seen[e.Pos] {
			continue
		}
		seen[e.Pos] = true
		out = append(out, e)
	}
	return out
}

func assertOneCreaturePerCell(t *testing.T, w *World) {
	t.Helper()
	seen := make(map[core.Point]EntityID)
	w.reg.Each(Creatures, func(id EntityID, e Entity) {
		if other, ok := seen[e.Pos]; ok {
			t.Fatalf("creatures %s and %s share %v", other, id, e.Pos)
		}
		seen[e.Pos] = id
	})
}

func TestDeadMonsterRemoved(t *testing.T) {
	w := newTestWorld(t, nil,
		NewPlayer(core.Pt(2, 2), 5),
		NewMonster(core.Pt(6, 6), 'g', 1),
		NewTrap(core.Pt(5, 5), Trap{Effect: TrapKill}),
	)
	monster := w.reg.IDs(Monsters)[0]

	res := step(t, w, core.ActionRight)

	if w.reg.Contains(monster) {
		t.Error("monster with HP <= 0 should be removed")
	}
	if len(res.Slain) != 1 || res.Slain[0] != monster {
		t.Errorf("Slain = %v, expected [%s]", res.Slain, monster)
	}
	if w.Kills() != 1 {
		t.Errorf("Kills() = %d, expected 1", w.Kills())
	}
	if w.State() != StatePlaying {
		t.Errorf("State() = %v, expected playing", w.State())
	}
}

func TestLostIsTerminal(t *testing.T) {
	w := newTestWorld(t, nil,
		NewPlayer(core.Pt(2, 2), 5),
		NewTrap(core.Pt(3, 2), Trap{Effect: TrapKill}),
	)

	res := step(t, w, core.ActionRight)
	if res.State != StateLost || w.State() != StateLost {
		t.Fatalf("State = %v, expected lost", w.State())
	}
	if got := w.PlayerVitals().HP; got != 0 {
		t.Errorf("player HP = %d, expected clamped to 0", got)
	}
	if !w.reg.Contains(w.PlayerID()) {
		t.Error("player must never be removed")
	}

	before := w.Summary()
	res = step(t, w, core.ActionRight)
	if res.TurnTaken {
		t.Error("no turn may be taken once lost")
	}
	if after := w.Summary(); after != before {
		t.Errorf("world changed after loss:\n%+v\n%+v", before, after)
	}
}

func TestDeterminism(t *testing.T) {
	build := func() *World {
		w, err := NewWorld(12, 12, []Entity{
			NewPlayer(core.Pt(5, 5), 50),
			NewMonster(core.Pt(1, 1), 'g', 2),
			NewMonster(core.Pt(10, 10), 'o', 3),
			NewTrap(core.Pt(4, 4), Trap{Effect: TrapBump}),
			NewTrap(core.Pt(6, 6), Trap{Effect: TrapBump}),
			NewTrap(core.Pt(5, 4), Trap{Effect: TrapBump}),
			NewTrap(core.Pt(3, 8), Trap{Effect: TrapCountDown, Remaining: 2}),
		}, NewRandom(99))
		if err != nil {
			t.Fatalf("NewWorld() error = %v", err)
		}
		return w
	}
	w1, w2 := build(), build()

	inputs := rand.New(rand.NewSource(7))
	directions := []core.Action{core.ActionUp, core.ActionDown, core.ActionLeft, core.ActionRight}
	for i := 0; i < 60; i++ {
		a := directions[inputs.Intn(len(directions))]
		step(t, w1, a)
		step(t, w2, a)
		if s1, s2 := w1.Summary(), w2.Summary(); s1 != s2 {
			t.Fatalf("tick %d diverged:\n%s\n--\n%s", i, s1.Layout, s2.Layout)
		}
	}
}

func TestSummaryLayout(t *testing.T) {
	w, err := NewWorld(4, 3, []Entity{
		NewTrap(core.Pt(1, 1), Trap{Effect: TrapKill}),
		NewPlayer(core.Pt(2, 1), 5),
	}, NewRandom(1))
	if err != nil {
		t.Fatalf("NewWorld() error = %v", err)
	}
	expected := "####\n#%@#\n####"
	if got := w.Summary().Layout; got != expected {
		t.Errorf("Layout = %q, expected %q", got, expected)
	}
}
