package sim

import (
	"errors"
	"testing"

	"github.com/vovakirdan/trapcrawl/internal/core"
)

func TestTrapHasNoHealth(t *testing.T) {
	trap := NewTrap(core.Pt(1, 1), Trap{Effect: TrapBerserk})

	if _, err := trap.Vitals(); !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("Vitals() error = %v, expected ErrInvalidOperation", err)
	}
	if err := trap.LoseHP(1); !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("LoseHP() error = %v, expected ErrInvalidOperation", err)
	}
	if err := trap.SetStatus(StatusBerserk); !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("SetStatus() error = %v, expected ErrInvalidOperation", err)
	}
}

func TestLoseHPGoesNegative(t *testing.T) {
	m := NewMonster(core.Pt(1, 1), 0, 2)
	if m.Glyph != 'g' {
		t.Errorf("default monster glyph = %q, expected 'g'", m.Glyph)
	}
	if err := m.LoseHP(TrapDamage); err != nil {
		t.Fatalf("LoseHP() error = %v", err)
	}
	v, _ := m.Vitals()
	if v.HP != -3 || v.MaxHP != 2 {
		t.Errorf("vitals = %+v, expected HP -3 MaxHP 2", v)
	}
	if !m.IsMonster() {
		t.Error("LoseHP changed the variant")
	}
}

func TestTrapGlyphs(t *testing.T) {
	tests := []struct {
		trap     Trap
		expected rune
	}{
		{Trap{Effect: TrapKill}, '%'},
		{Trap{Effect: TrapBerserk}, '*'},
		{Trap{Effect: TrapBump}, '+'},
		{Trap{Effect: TrapTeleport}, '!'},
		{Trap{Effect: TrapCountDown, Remaining: 0}, '0'},
		{Trap{Effect: TrapCountDown, Remaining: 3}, '3'},
		{Trap{Effect: TrapCountDown, Remaining: 40}, '9'},
	}
	for _, tt := range tests {
		if got := tt.trap.Glyph(); got != tt.expected {
			t.Errorf("%v(%d).Glyph() = %q, expected %q", tt.trap.Effect, tt.trap.Remaining, got, tt.expected)
		}
	}
}

func TestParseTrapEffect(t *testing.T) {
	for _, effect := range []TrapEffect{TrapBerserk, TrapKill, TrapBump, TrapTeleport, TrapCountDown} {
		got, ok := ParseTrapEffect(effect.String())
		if !ok || got != effect {
			t.Errorf("ParseTrapEffect(%q) = %v, %v", effect.String(), got, ok)
		}
	}
	if _, ok := ParseTrapEffect("lava"); ok {
		t.Error("ParseTrapEffect(lava) should fail")
	}
}
