package sim

import "github.com/vovakirdan/trapcrawl/internal/core"

// MoveResult is the outcome of one monster step.
type MoveResult int

const (
	MoveOK MoveResult = iota
	MoveBlocked
	MoveAttack
)

// String returns a human-readable result name.
func (r MoveResult) String() string {
	switch r {
	case MoveOK:
		return "ok"
	case MoveBlocked:
		return "blocked"
	case MoveAttack:
		return "attack"
	default:
		return "unknown"
	}
}

// monsterPhase moves every monster one step toward the player and returns
// the contact attacks it queued. Occupancy is judged against the snapshot
// taken on entry; a cell already claimed live earlier in the same phase
// is treated as blocked, so the earlier monster keeps it.
func (w *World) monsterPhase() []Attack {
	snap := w.reg.Freeze()
	playerID := w.reg.Player()
	player, ok := snap.Get(playerID)
	if !ok {
		return nil
	}

	var attacks []Attack
	for _, entry := range snap.Entries() {
		if !entry.Entity.IsMonster() {
			continue
		}
		dest, result := w.decideStep(snap, entry, player.Pos)
		switch result {
		case MoveAttack:
			attacks = append(attacks, Attack{Attacker: entry.ID, Target: playerID})
		case MoveOK:
			// The monster is live for the whole phase, so Update cannot fail.
			_ = w.reg.Update(entry.ID, func(e *Entity) error {
				e.Pos = dest
				return nil
			})
		}
	}
	return attacks
}

// decideStep chooses where one monster goes this tick.
func (w *World) decideStep(snap Snapshot, monster SnapshotEntry, target core.Point) (core.Point, MoveResult) {
	from := monster.Entity.Pos
	dx, dy := from.StepToward(target)
	if dx == 0 && dy == 0 {
		return from, MoveBlocked
	}
	dest := from.Add(dx, dy)

	if w.gmap.IsBlocked(dest) {
		return from, MoveBlocked
	}
	if occupant, ok := snap.At(dest); ok {
		if occupant.Entity.IsPlayer() {
			return from, MoveAttack
		}
		return from, MoveBlocked
	}
	if _, _, claimed := w.reg.At(dest); claimed {
		return from, MoveBlocked
	}
	return dest, MoveOK
}
