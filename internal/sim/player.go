package sim

import (
	"github.com/vovakirdan/trapcrawl/internal/core"
)

// playerTurn applies the pressed directions to the player. Each axis is
// clamped to the grid as soon as it is applied; the blocked check runs once
// on the combined destination. A blocked or occupied destination reverts the
// move and reports that no turn was taken. A cell held by another creature
// counts as blocked, so walking into a monster is not a turn.
func (w *World) playerTurn(in core.InputFrame) (bool, error) {
	if !in.HasDirection() {
		return false, nil
	}

	id := w.reg.Player()
	player, ok := w.reg.Get(id)
	if !ok {
		return false, ErrUnknownEntity
	}

	maxX, maxY := w.gmap.Width()-1, w.gmap.Height()-1
	dest := player.Pos
	if in.Has(core.ActionLeft) {
		dest.X = core.Clamp(dest.X-1, 0, maxX)
	}
	if in.Has(core.ActionRight) {
		dest.X = core.Clamp(dest.X+1, 0, maxX)
	}
	if in.Has(core.ActionUp) {
		dest.Y = core.Clamp(dest.Y-1, 0, maxY)
	}
	if in.Has(core.ActionDown) {
		dest.Y = core.Clamp(dest.Y+1, 0, maxY)
	}

	if w.gmap.IsBlocked(dest) {
		return false, nil
	}
	if other, _, found := w.reg.At(dest); found && other != id {
		return false, nil
	}

	err := w.reg.Update(id, func(e *Entity) error {
		e.Pos = dest
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
