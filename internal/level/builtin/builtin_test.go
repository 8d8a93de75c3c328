package builtin

import (
	"testing"

	"github.com/vovakirdan/trapcrawl/internal/core"
	"github.com/vovakirdan/trapcrawl/internal/registry"
	"github.com/vovakirdan/trapcrawl/internal/sim"
)

func TestBuiltinsRegistered(t *testing.T) {
	for _, id := range []string{"ludum", "gauntlet"} {
		if !registry.Exists(id) {
			t.Errorf("scenario %q not registered", id)
			continue
		}
		def, err := registry.Create(id)
		if err != nil {
			t.Fatalf("Create(%q) error = %v", id, err)
		}
		if def.ID != id {
			t.Errorf("Create(%q).ID = %q", id, def.ID)
		}
		if _, err := def.Build(sim.NewRandom(1)); err != nil {
			t.Errorf("Build(%q) error = %v", id, err)
		}
	}
}

func TestLudumLayout(t *testing.T) {
	def, err := registry.Create("ludum")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	w, err := def.Build(sim.NewRandom(1))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if got := w.Player().Pos; got != core.Pt(5, 3) {
		t.Errorf("player at %v, expected (5,3)", got)
	}
	if v := w.PlayerVitals(); v.HP != 5 || v.MaxHP != 5 {
		t.Errorf("player vitals = %+v, expected 5/5", v)
	}

	var monsters, traps int
	for _, entry := range w.Entities().Entries() {
		switch {
		case entry.Entity.IsMonster():
			monsters++
			if w.Map().IsBlocked(entry.Entity.Pos) {
				t.Errorf("monster spawned inside a wall at %v", entry.Entity.Pos)
			}
		case entry.Entity.IsTrap():
			traps++
		}
	}
	if monsters != 2 || traps != 10 {
		t.Errorf("got %d monsters and %d traps, expected 2 and 10", monsters, traps)
	}
}
