package sim

import (
	"fmt"

	"github.com/vovakirdan/trapcrawl/internal/core"
)

type countdown struct {
	trap      EntityID
	remaining uint8
}

// resolveTraps fires every trap a creature stands on, judged against a
// snapshot taken on entry. Kill removals and CountDown decrements are
// collected during the scan and applied afterwards.
func (w *World) resolveTraps() ([]TrapTrigger, []EntityID, error) {
	snap := w.reg.Freeze()

	var (
		triggers []TrapTrigger
		consumed []EntityID
		pending  []countdown
		seen     = make(map[EntityID]bool)
	)

	for _, entry := range snap.Entries() {
		if !entry.Entity.IsCreature() {
			continue
		}
		hit, ok := snap.TrapAt(entry.Entity.Pos)
		if !ok {
			continue
		}
		trap, _ := hit.Entity.Trap()

		trig := TrapTrigger{
			Creature: entry.ID,
			Trap:     hit.ID,
			Effect:   trap.Effect,
			From:     entry.Entity.Pos,
			To:       entry.Entity.Pos,
		}

		var err error
		switch trap.Effect {
		case TrapBerserk:
			err = w.reg.Update(entry.ID, func(e *Entity) error {
				return e.SetStatus(StatusBerserk)
			})

		case TrapKill:
			trig.Damage = TrapDamage
			err = w.damage(entry.ID, TrapDamage)
			if !seen[hit.ID] {
				seen[hit.ID] = true
				consumed = append(consumed, hit.ID)
			}

		case TrapTeleport:
			if dest, found := nextTeleport(snap, hit.ID); found {
				trig.To, err = w.moveCreature(entry.ID, dest)
			}

		case TrapBump:
			dx, dy := w.rng.BumpOffset()
			trig.To, err = w.moveCreature(entry.ID, entry.Entity.Pos.Add(dx, dy))

		case TrapCountDown:
			if trap.Remaining == 0 {
				trig.Damage = TrapDamage
				err = w.damage(entry.ID, TrapDamage)
			} else if !seen[hit.ID] {
				seen[hit.ID] = true
				pending = append(pending, countdown{trap: hit.ID, remaining: trap.Remaining - 1})
			}

		default:
			err = fmt.Errorf("%w: trap %s has unknown effect %d", ErrInvalidOperation, hit.ID, trap.Effect)
		}
		if err != nil {
			return nil, nil, err
		}
		triggers = append(triggers, trig)
	}

	for _, c := range pending {
		err := w.reg.Update(c.trap, func(e *Entity) error {
			t, ok := e.Trap()
			if !ok {
				return fmt.Errorf("%w: %s is not a trap", ErrInvalidOperation, c.trap)
			}
			t.Remaining = c.remaining
			e.Kind = t
			e.Glyph = t.Glyph()
			return nil
		})
		if err != nil {
			return nil, nil, err
		}
	}
	for _, id := range consumed {
		if err := w.reg.Remove(id); err != nil {
			return nil, nil, err
		}
	}

	return triggers, consumed, nil
}

func (w *World) damage(id EntityID, amount int) error {
	return w.reg.Update(id, func(e *Entity) error {
		return e.LoseHP(amount)
	})
}

// moveCreature relocates a creature unless dest is blocked by the map or
// already holds another live creature. It returns where the creature ends up.
func (w *World) moveCreature(id EntityID, dest core.Point) (core.Point, error) {
	e, ok := w.reg.Get(id)
	if !ok {
		return core.Point{}, fmt.Errorf("%w: %s", ErrUnknownEntity, id)
	}
	if dest == e.Pos || w.gmap.IsBlocked(dest) {
		return e.Pos, nil
	}
	if other, _, found := w.reg.At(dest); found && other != id {
		return e.Pos, nil
	}
	err := w.reg.Update(id, func(e *Entity) error {
		e.Pos = dest
		return nil
	})
	if err != nil {
		return core.Point{}, err
	}
	return dest, nil
}

// nextTeleport scans the snapshot cyclically, starting just after from and
// ending on from itself, for the next Teleport trap. With a single Teleport
// trap the scan returns its own position.
func nextTeleport(snap Snapshot, from EntityID) (core.Point, bool) {
	start, ok := snap.IndexOf(from)
	if !ok {
		return core.Point{}, false
	}
	n := snap.Len()
	for step := 1; step <= n; step++ {
		entry := snap.Entry((start + step) % n)
		if t, ok := entry.Entity.Trap(); ok && t.Effect == TrapTeleport {
			return entry.Entity.Pos, true
		}
	}
	return core.Point{}, false
}
