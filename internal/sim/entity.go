// Package sim implements the turn-based entity simulation: tile collision,
// player movement, monster chase AI, combat and trap resolution.
//
// The package is pure logic. It never logs, never reads input devices and never
// draws; front ends feed it core.InputFrame values and read Snapshots back.
package sim

import (
	"fmt"

	"github.com/vovakirdan/trapcrawl/internal/core"
)

// Damage dealt by the different hit sources.
const (
	AttackDamage = 1 // Monster contact attack
	TrapDamage   = 5 // Kill trap and expired CountDown trap
)

// Status is an optional effect tag on a creature.
// Berserk is recorded by traps but nothing consumes it yet.
type Status int

const (
	StatusNone Status = iota
	StatusBerserk
)

// String returns a human-readable status name.
func (s Status) String() string {
	switch s {
	case StatusNone:
		return "none"
	case StatusBerserk:
		return "berserk"
	default:
		return "unknown"
	}
}

// Vitals is the health capability shared by players and monsters.
type Vitals struct {
	HP     int
	MaxHP  int
	Status Status
}

// Kind is the variant part of an Entity: Player, Monster or Trap.
// All variants are value types, so copying an Entity copies its variant.
type Kind interface {
	kindName() string
}

// Player is the single player-controlled creature.
type Player struct {
	Vitals
}

// Monster is a creature that chases the player.
type Monster struct {
	Vitals
}

// Trap is a floor effect triggered by creatures standing on it.
type Trap struct {
	Effect    TrapEffect
	Remaining uint8 // Only meaningful for TrapCountDown
}

func (Player) kindName() string  { return "player" }
func (Monster) kindName() string { return "monster" }
func (Trap) kindName() string    { return "trap" }

// TrapEffect selects what a trap does when triggered.
type TrapEffect int

const (
	TrapBerserk TrapEffect = iota
	TrapKill
	TrapBump
	TrapTeleport
	TrapCountDown
)

var trapEffectNames = map[TrapEffect]string{
	TrapBerserk:   "berserk",
	TrapKill:      "kill",
	TrapBump:      "bump",
	TrapTeleport:  "teleport",
	TrapCountDown: "countdown",
}

// String returns the lowercase effect name used in level files.
func (t TrapEffect) String() string {
	if name, ok := trapEffectNames[t]; ok {
		return name
	}
	return "unknown"
}

// ParseTrapEffect converts a level-file name to a TrapEffect.
func ParseTrapEffect(name string) (TrapEffect, bool) {
	for effect, n := range trapEffectNames {
		if n == name {
			return effect, true
		}
	}
	return 0, false
}

// Glyph returns the rune a trap is drawn with.
// CountDown traps show their remaining count.
func (t Trap) Glyph() rune {
	switch t.Effect {
	case TrapKill:
		return '%'
	case TrapBerserk:
		return '*'
	case TrapBump:
		return '+'
	case TrapTeleport:
		return '!'
	case TrapCountDown:
		if t.Remaining > 9 {
			return '9'
		}
		return rune('0' + t.Remaining)
	default:
		return '?'
	}
}

// Entity is anything placed on the grid.
// Glyph and Color are presentation tags; the simulation never reads them.
type Entity struct {
	Pos   core.Point
	Glyph rune
	Color core.Color
	Kind  Kind
}

// NewPlayer creates the player entity at full health.
func NewPlayer(pos core.Point, maxHP int) Entity {
	return Entity{
		Pos:   pos,
		Glyph: '@',
		Color: core.ColorOrange,
		Kind:  Player{Vitals{HP: maxHP, MaxHP: maxHP}},
	}
}

// NewMonster creates a monster at full health.
// A zero glyph defaults to 'g' (goblin).
func NewMonster(pos core.Point, glyph rune, maxHP int) Entity {
	if glyph == 0 {
		glyph = 'g'
	}
	return Entity{
		Pos:   pos,
		Glyph: glyph,
		Color: core.ColorRed,
		Kind:  Monster{Vitals{HP: maxHP, MaxHP: maxHP}},
	}
}

// NewTrap creates a trap entity.
func NewTrap(pos core.Point, trap Trap) Entity {
	return Entity{
		Pos:   pos,
		Glyph: trap.Glyph(),
		Color: core.ColorGreen,
		Kind:  trap,
	}
}

// IsPlayer reports whether the entity is the player.
func (e Entity) IsPlayer() bool {
	_, ok := e.Kind.(Player)
	return ok
}

// IsMonster reports whether the entity is a monster.
func (e Entity) IsMonster() bool {
	_, ok := e.Kind.(Monster)
	return ok
}

// IsTrap reports whether the entity is a trap.
func (e Entity) IsTrap() bool {
	_, ok := e.Kind.(Trap)
	return ok
}

// IsCreature reports whether the entity has health (player or monster).
func (e Entity) IsCreature() bool {
	return e.IsPlayer() || e.IsMonster()
}

// Trap returns the trap variant, if the entity is a trap.
func (e Entity) Trap() (Trap, bool) {
	t, ok := e.Kind.(Trap)
	return t, ok
}

// Vitals returns the health of a creature.
// Asking a trap for health is a programming error and returns ErrInvalidOperation.
func (e Entity) Vitals() (Vitals, error) {
	switch k := e.Kind.(type) {
	case Player:
		return k.Vitals, nil
	case Monster:
		return k.Vitals, nil
	default:
		return Vitals{}, fmt.Errorf("%w: %s has no health", ErrInvalidOperation, kindName(e.Kind))
	}
}

// SetVitals replaces the health of a creature.
func (e *Entity) SetVitals(v Vitals) error {
	switch e.Kind.(type) {
	case Player:
		e.Kind = Player{v}
	case Monster:
		e.Kind = Monster{v}
	default:
		return fmt.Errorf("%w: cannot set health on %s", ErrInvalidOperation, kindName(e.Kind))
	}
	return nil
}

// LoseHP subtracts amount from a creature's HP. HP may go negative;
// clamping happens in lifecycle cleanup.
func (e *Entity) LoseHP(amount int) error {
	v, err := e.Vitals()
	if err != nil {
		return err
	}
	v.HP -= amount
	return e.SetVitals(v)
}

// SetStatus sets the status tag of a creature.
func (e *Entity) SetStatus(s Status) error {
	v, err := e.Vitals()
	if err != nil {
		return err
	}
	v.Status = s
	return e.SetVitals(v)
}

func kindName(k Kind) string {
	if k == nil {
		return "untyped entity"
	}
	return k.kindName()
}
