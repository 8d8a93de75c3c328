package sim

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/trapcrawl/internal/core"
)

// GameState is the two-state run lifecycle.
type GameState int

const (
	StatePlaying GameState = iota
	StateLost
)

// String returns a human-readable state name.
func (s GameState) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StateLost:
		return "lost"
	default:
		return "unknown"
	}
}

// Attack is a pending contact attack queued by the monster phase.
type Attack struct {
	Attacker EntityID
	Target   EntityID
}

// TrapTrigger records one creature setting off one trap.
type TrapTrigger struct {
	Creature EntityID
	Trap     EntityID
	Effect   TrapEffect
	From     core.Point
	To       core.Point // Equal to From unless the trap moved the creature
	Damage   int
}

// TickResult describes what one Step did.
type TickResult struct {
	Turn      int
	TurnTaken bool
	Attacks   []Attack
	Triggers  []TrapTrigger
	Consumed  []EntityID // One-shot traps removed this tick
	Slain     []EntityID // Monsters removed by cleanup this tick
	State     GameState
}

// World is one running scenario: the map, the registry and the lifecycle state.
type World struct {
	gmap  *Map
	reg   *Registry
	rng   Random
	state GameState
	turn  int
	kills int
}

// MaxMapSize is the largest map width or height a world accepts.
const MaxMapSize = 256

// NewWorld generates a width x height map and spawns the roster in order.
// The roster must contain exactly one player.
func NewWorld(width, height int, roster []Entity, rng Random) (*World, error) {
	if width < 3 || height < 3 {
		return nil, fmt.Errorf("%w: map %dx%d has no interior", ErrInvalidOperation, width, height)
	}
	if width > MaxMapSize || height > MaxMapSize {
		return nil, fmt.Errorf("%w: map %dx%d exceeds %dx%d", ErrInvalidOperation, width, height, MaxMapSize, MaxMapSize)
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: nil random source", ErrInvalidOperation)
	}

	reg := NewRegistry()
	for _, e := range roster {
		if _, err := reg.Spawn(e); err != nil {
			return nil, err
		}
	}
	if !reg.Player().Valid() {
		return nil, fmt.Errorf("%w: roster has no player", ErrInvalidOperation)
	}

	return &World{
		gmap: Generate(width, height),
		reg:  reg,
		rng:  rng,
	}, nil
}

// Step runs one tick: player turn, then (only if a turn was taken) monster
// AI, combat, traps and lifecycle cleanup. Once the run is lost Step is a
// no-op. A returned error is always a defect in the simulation.
func (w *World) Step(in core.InputFrame) (TickResult, error) {
	if w.state == StateLost {
		return TickResult{Turn: w.turn, State: w.state}, nil
	}

	taken, err := w.playerTurn(in)
	if err != nil {
		return TickResult{}, fmt.Errorf("player turn: %w", err)
	}
	if !taken {
		return TickResult{Turn: w.turn, State: w.state}, nil
	}
	w.turn++

	res := TickResult{Turn: w.turn, TurnTaken: true}

	res.Attacks = w.monsterPhase()

	if err := w.resolveCombat(res.Attacks); err != nil {
		return TickResult{}, fmt.Errorf("combat: %w", err)
	}

	res.Triggers, res.Consumed, err = w.resolveTraps()
	if err != nil {
		return TickResult{}, fmt.Errorf("traps: %w", err)
	}

	res.Slain, err = w.cleanup()
	if err != nil {
		return TickResult{}, fmt.Errorf("cleanup: %w", err)
	}

	res.State = w.state
	return res, nil
}

// cleanup removes dead monsters and detects player death.
func (w *World) cleanup() ([]EntityID, error) {
	dead := w.reg.IDs(func(e Entity) bool {
		if !e.IsMonster() {
			return false
		}
		v, err := e.Vitals()
		return err == nil && v.HP <= 0
	})
	for _, id := range dead {
		if err := w.reg.Remove(id); err != nil {
			return nil, err
		}
	}
	w.kills += len(dead)

	var died bool
	err := w.reg.Update(w.reg.Player(), func(e *Entity) error {
		v, err := e.Vitals()
		if err != nil {
			return err
		}
		if v.HP <= 0 {
			died = true
			v.HP = 0
		}
		return e.SetVitals(v)
	})
	if err != nil {
		return nil, err
	}
	if died {
		w.state = StateLost
	}
	return dead, nil
}

// Map returns the static map.
func (w *World) Map() *Map {
	return w.gmap
}

// Tiles returns a copy of every tile.
func (w *World) Tiles() []Tile {
	return w.gmap.Tiles()
}

// Entities returns a read-only snapshot of all entities.
func (w *World) Entities() Snapshot {
	return w.reg.Freeze()
}

// State returns the lifecycle state.
func (w *World) State() GameState {
	return w.state
}

// Turn returns the number of turns taken.
func (w *World) Turn() int {
	return w.turn
}

// Kills returns the number of monsters removed so far.
func (w *World) Kills() int {
	return w.kills
}

// PlayerID returns the stable player handle.
func (w *World) PlayerID() EntityID {
	return w.reg.Player()
}

// Player returns a copy of the player entity.
func (w *World) Player() Entity {
	e, _ := w.reg.Get(w.reg.Player())
	return e
}

// PlayerVitals returns the player's health for HUD display.
func (w *World) PlayerVitals() Vitals {
	v, err := w.Player().Vitals()
	if err != nil {
		// NewWorld guarantees a player; reaching this is a defect.
		panic(fmt.Sprintf("sim: player has no vitals: %v", err))
	}
	return v
}

// Summary is a comparable digest of a world, used for determinism checks.
type Summary struct {
	Turn     int
	Kills    int
	State    GameState
	PlayerAt core.Point
	PlayerHP int
	Entities int
	Layout   string // Map with entity glyphs, rows joined by '\n'
}

// Summary captures the current world state.
func (w *World) Summary() Summary {
	player := w.Player()
	return Summary{
		Turn:     w.turn,
		Kills:    w.kills,
		State:    w.state,
		PlayerAt: player.Pos,
		PlayerHP: w.PlayerVitals().HP,
		Entities: w.reg.Len(),
		Layout:   w.layout(),
	}
}

// layout draws tiles, then traps, then creatures, into a plain string.
func (w *World) layout() string {
	grid := make([][]rune, w.gmap.Height())
	for y := range grid {
		grid[y] = make([]rune, w.gmap.Width())
	}
	for _, t := range w.gmap.tiles {
		grid[t.Pos.Y][t.Pos.X] = t.Glyph
	}
	plot := func(_ EntityID, e Entity) {
		if w.gmap.InBounds(e.Pos) {
			grid[e.Pos.Y][e.Pos.X] = e.Glyph
		}
	}
	w.reg.Each(Traps, plot)
	w.reg.Each(Creatures, plot)

	rows := make([]string, len(grid))
	for y, row := range grid {
		rows[y] = string(row)
	}
	return strings.Join(rows, "\n")
}
