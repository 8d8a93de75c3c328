// Package level describes scenario layouts: map size and the initial roster
// of player, monsters and traps. Definitions come from YAML, either embedded
// in the binary or read from disk, and build a ready-to-run sim.World.
package level

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/vovakirdan/trapcrawl/internal/core"
	"github.com/vovakirdan/trapcrawl/internal/sim"
)

// ErrInvalidLevel marks every validation failure.
var ErrInvalidLevel = errors.New("level: invalid definition")

// MaxCountdown is the largest CountDown start value a level may use.
// The trap glyph shows the count as a single digit.
const MaxCountdown = 9

// MaxSize is the largest map width or height a level may declare.
const MaxSize = sim.MaxMapSize

// Size is the map size in cells.
type Size struct {
	W int `yaml:"w"`
	H int `yaml:"h"`
}

// Creature places the player or a monster.
type Creature struct {
	X     int    `yaml:"x"`
	Y     int    `yaml:"y"`
	HP    int    `yaml:"hp"`
	Glyph string `yaml:"glyph,omitempty"` // Monsters only; defaults to "g"
}

// TrapSpec places one trap.
type TrapSpec struct {
	X     int    `yaml:"x"`
	Y     int    `yaml:"y"`
	Kind  string `yaml:"kind"`
	Count int    `yaml:"count,omitempty"` // CountDown start value
}

// Definition is a complete scenario layout.
type Definition struct {
	ID       string     `yaml:"id"`
	Name     string     `yaml:"name"`
	Size     Size       `yaml:"size"`
	Player   Creature   `yaml:"player"`
	Monsters []Creature `yaml:"monsters,omitempty"`
	Traps    []TrapSpec `yaml:"traps,omitempty"`

	Source string `yaml:"-"` // File or embedded name the definition was read from
}

// Title returns the display name, falling back to the ID.
func (d *Definition) Title() string {
	if d.Name != "" {
		return d.Name
	}
	return d.ID
}

// Validate checks the definition and reports every problem found, joined.
func (d *Definition) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidLevel}, args...)...))
	}

	if d.ID == "" {
		fail("missing id")
	}
	if d.Size.W < 3 || d.Size.H < 3 {
		fail("size %dx%d is smaller than 3x3", d.Size.W, d.Size.H)
		return errors.Join(errs...)
	}
	if d.Size.W > MaxSize || d.Size.H > MaxSize {
		fail("size %dx%d is larger than %dx%d", d.Size.W, d.Size.H, MaxSize, MaxSize)
		return errors.Join(errs...)
	}

	occupied := make(map[core.Point]string)
	checkCreature := func(what string, c Creature) {
		p := core.Pt(c.X, c.Y)
		if !d.interior(p) {
			fail("%s at %v is not on an interior cell", what, p)
		}
		if c.HP < 1 {
			fail("%s at %v has hp %d, expected at least 1", what, p, c.HP)
		}
		if other, ok := occupied[p]; ok {
			fail("%s at %v overlaps %s", what, p, other)
		}
		occupied[p] = what
	}

	checkCreature("player", d.Player)
	for i, m := range d.Monsters {
		what := fmt.Sprintf("monster %d", i)
		checkCreature(what, m)
		if utf8.RuneCountInString(m.Glyph) > 1 {
			fail("%s glyph %q is more than one character", what, m.Glyph)
		}
	}

	for i, t := range d.Traps {
		p := core.Pt(t.X, t.Y)
		if !d.interior(p) {
			fail("trap %d at %v is not on an interior cell", i, p)
		}
		effect, ok := sim.ParseTrapEffect(t.Kind)
		if !ok {
			fail("trap %d has unknown kind %q", i, t.Kind)
			continue
		}
		if effect == sim.TrapCountDown {
			if t.Count < 0 || t.Count > MaxCountdown {
				fail("trap %d count %d is outside 0..%d", i, t.Count, MaxCountdown)
			}
		} else if t.Count != 0 {
			fail("trap %d: count only applies to countdown traps", i)
		}
	}

	return errors.Join(errs...)
}

func (d *Definition) interior(p core.Point) bool {
	return p.X >= 1 && p.X <= d.Size.W-2 && p.Y >= 1 && p.Y <= d.Size.H-2
}

// WithPlayerHP returns a copy of the definition with the player's max HP
// replaced. Values below 1 are raised to 1.
func (d Definition) WithPlayerHP(hp int) Definition {
	d.Player.HP = core.Max(hp, 1)
	return d
}

// Roster converts the definition into entities in spawn order: the player,
// then monsters, then traps, each in file order. The definition must be valid.
func (d *Definition) Roster() []sim.Entity {
	roster := make([]sim.Entity, 0, 1+len(d.Monsters)+len(d.Traps))
	roster = append(roster, sim.NewPlayer(core.Pt(d.Player.X, d.Player.Y), d.Player.HP))

	for _, m := range d.Monsters {
		var glyph rune
		if m.Glyph != "" {
			glyph, _ = utf8.DecodeRuneInString(m.Glyph)
		}
		roster = append(roster, sim.NewMonster(core.Pt(m.X, m.Y), glyph, m.HP))
	}

	for _, t := range d.Traps {
		effect, _ := sim.ParseTrapEffect(t.Kind)
		trap := sim.Trap{Effect: effect}
		if effect == sim.TrapCountDown {
			trap.Remaining = uint8(t.Count)
		}
		roster = append(roster, sim.NewTrap(core.Pt(t.X, t.Y), trap))
	}
	return roster
}

// Build validates the definition and creates a world from it.
func (d *Definition) Build(rng sim.Random) (*sim.World, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	w, err := sim.NewWorld(d.Size.W, d.Size.H, d.Roster(), rng)
	if err != nil {
		return nil, fmt.Errorf("level %s: %w", d.ID, err)
	}
	return w, nil
}
