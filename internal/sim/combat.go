package sim

// resolveCombat applies every queued attack as AttackDamage to its target.
// HP may go negative here; cleanup clamps it.
func (w *World) resolveCombat(attacks []Attack) error {
	for _, a := range attacks {
		if !w.reg.Contains(a.Target) {
			continue
		}
		if err := w.reg.Update(a.Target, func(e *Entity) error {
			return e.LoseHP(AttackDamage)
		}); err != nil {
			return err
		}
	}
	return nil
}
